package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"moodjournal_api/dto"
	"moodjournal_api/internal/oauth"
	"moodjournal_api/model"
	"moodjournal_api/utils"

	"golang.org/x/oauth2"
)

// FailureReason is the error code carried back to the client on a failed
// OAuth callback.
type FailureReason string

const (
	FailureNoCode          FailureReason = "no_code"
	FailureInvalidState    FailureReason = "invalid_state"
	FailureNoAccessToken   FailureReason = "no_access_token"
	FailureNoEmail         FailureReason = "no_email"
	FailureAccountConflict FailureReason = "account_conflict"
	FailureServerError     FailureReason = "server_error"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

// CallbackParams is what the provider sent back, plus the state we stored
// when the flow started. A callback without a stored state is rejected.
type CallbackParams struct {
	Code          string
	State         string
	Error         string
	ExpectedState string
}

// OAuthResult is terminal: either Token and User are set, or Failure is.
type OAuthResult struct {
	Token   string
	User    dto.OAuthUser
	Failure FailureReason
}

func (r OAuthResult) OK() bool {
	return r.Failure == ""
}

func failed(reason FailureReason) OAuthResult {
	return OAuthResult{Failure: reason}
}

type OAuthUsecase interface {
	LoginURL(provider model.Provider, state string) (string, error)
	Callback(ctx context.Context, provider model.Provider, params CallbackParams) OAuthResult
	SignInWithIDToken(ctx context.Context, rawIDToken string) (*dto.AuthResponse, error)
}

type oauthUsecase struct {
	providers map[model.Provider]oauth.Provider
	verifier  oauth.IDTokenVerifier
	resolver  *AccountResolver
	tokens    *utils.TokenService
	timeout   time.Duration
	logger    *slog.Logger
}

// NewOAuthUsecase wires the configured providers. verifier may be nil when
// ID token sign-in is disabled.
func NewOAuthUsecase(providers []oauth.Provider, verifier oauth.IDTokenVerifier, resolver *AccountResolver, tokens *utils.TokenService, timeout time.Duration, logger *slog.Logger) OAuthUsecase {
	byName := make(map[model.Provider]oauth.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &oauthUsecase{
		providers: byName,
		verifier:  verifier,
		resolver:  resolver,
		tokens:    tokens,
		timeout:   timeout,
		logger:    logger,
	}
}

func (u *oauthUsecase) LoginURL(name model.Provider, state string) (string, error) {
	provider, ok := u.providers[name]
	if !ok {
		return "", ErrUnknownProvider
	}
	return provider.AuthCodeURL(state), nil
}

// Callback runs the one-shot pipeline: check callback, exchange code, fetch
// profile, resolve account, issue token. It never retries and never panics.
func (u *oauthUsecase) Callback(ctx context.Context, name model.Provider, params CallbackParams) (result OAuthResult) {
	log := u.logger.With("provider", name)
	defer func() {
		if rec := recover(); rec != nil {
			log.ErrorContext(ctx, "oauth callback panic", "panic", rec)
			result = failed(FailureServerError)
		}
	}()

	provider, ok := u.providers[name]
	if !ok {
		log.ErrorContext(ctx, "oauth callback for unconfigured provider")
		return failed(FailureServerError)
	}

	code, reason := awaitCallback(params)
	if reason != "" {
		log.WarnContext(ctx, "oauth callback rejected", "reason", reason)
		return failed(reason)
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	token, reason := u.exchangeCode(ctx, provider, code)
	if reason != "" {
		return failed(reason)
	}

	info, reason := u.fetchProfile(ctx, provider, token)
	if reason != "" {
		return failed(reason)
	}

	user, reason := u.resolveAccount(ctx, info)
	if reason != "" {
		return failed(reason)
	}

	return u.issueToken(ctx, user, name, info)
}

func awaitCallback(params CallbackParams) (string, FailureReason) {
	if params.Error != "" {
		return "", FailureReason(params.Error)
	}
	if params.ExpectedState == "" || params.State != params.ExpectedState {
		return "", FailureInvalidState
	}
	if params.Code == "" {
		return "", FailureNoCode
	}
	return params.Code, ""
}

func (u *oauthUsecase) exchangeCode(ctx context.Context, provider oauth.Provider, code string) (*oauth2.Token, FailureReason) {
	token, err := provider.Exchange(ctx, code)
	if err != nil {
		if isTransportError(err) {
			u.logger.ErrorContext(ctx, "oauth code exchange failed", "provider", provider.Name(), "error", err)
			return nil, FailureServerError
		}
		u.logger.WarnContext(ctx, "oauth code exchange rejected", "provider", provider.Name(), "error", err)
		return nil, FailureNoAccessToken
	}
	if token == nil || token.AccessToken == "" {
		return nil, FailureNoAccessToken
	}
	return token, ""
}

func (u *oauthUsecase) fetchProfile(ctx context.Context, provider oauth.Provider, token *oauth2.Token) (*dto.ProviderUserInfo, FailureReason) {
	info, err := provider.FetchUser(ctx, token)
	if err != nil {
		u.logger.ErrorContext(ctx, "oauth profile fetch failed", "provider", provider.Name(), "error", err)
		return nil, FailureServerError
	}
	if info.Email == "" {
		return nil, FailureNoEmail
	}
	return info, ""
}

func (u *oauthUsecase) resolveAccount(ctx context.Context, info *dto.ProviderUserInfo) (*model.User, FailureReason) {
	user, err := u.resolver.ResolveProvider(ctx, info)
	if err != nil {
		if errors.Is(err, ErrProviderConflict) {
			u.logger.WarnContext(ctx, "provider id already linked elsewhere", "provider", info.Provider)
			return nil, FailureAccountConflict
		}
		u.logger.ErrorContext(ctx, "account resolution failed", "provider", info.Provider, "error", err)
		return nil, FailureServerError
	}
	return user, ""
}

func (u *oauthUsecase) issueToken(ctx context.Context, user *model.User, name model.Provider, info *dto.ProviderUserInfo) OAuthResult {
	token, err := u.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		u.logger.ErrorContext(ctx, "issue access token", "error", err)
		return failed(FailureServerError)
	}

	photo := user.ProfilePhoto
	if photo == "" {
		photo = info.Picture
	}
	u.logger.InfoContext(ctx, "oauth login succeeded", "provider", name, "user_id", user.ID)

	return OAuthResult{
		Token: token,
		User: dto.OAuthUser{
			ID:           user.ID,
			Firstname:    user.Firstname,
			Lastname:     user.Lastname,
			Email:        user.Email,
			ProfilePhoto: photo,
			Provider:     name,
		},
	}
}

func (u *oauthUsecase) SignInWithIDToken(ctx context.Context, rawIDToken string) (*dto.AuthResponse, error) {
	if u.verifier == nil {
		return nil, ErrUnknownProvider
	}
	if rawIDToken == "" {
		return nil, fmt.Errorf("%w: id_token is required", ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	info, err := u.verifier.VerifyIDToken(ctx, rawIDToken)
	if err != nil {
		if errors.Is(err, oauth.ErrIDTokenInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return nil, err
	}

	user, err := u.resolver.ResolveProvider(ctx, info)
	if err != nil {
		return nil, err
	}

	token, err := u.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	return &dto.AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    dto.NewUserResponse(user),
	}, nil
}

// isTransportError separates network trouble and timeouts from a provider
// refusing the code.
func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
