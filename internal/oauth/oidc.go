package oauth

import (
	"context"
	"fmt"
	"net/http"

	"moodjournal_api/dto"
	"moodjournal_api/model"

	"github.com/coreos/go-oidc"
)

const googleIssuer = "https://accounts.google.com"

type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, rawIDToken string) (*dto.ProviderUserInfo, error)
}

// GoogleIDTokenVerifier checks ID tokens minted for the mobile client.
type GoogleIDTokenVerifier struct {
	verifier   *oidc.IDTokenVerifier
	httpClient *http.Client
}

// NewGoogleIDTokenVerifier fetches Google's discovery document, so it needs
// network access at startup. ctx bounds the discovery only.
func NewGoogleIDTokenVerifier(ctx context.Context, clientID string, httpClient *http.Client) (*GoogleIDTokenVerifier, error) {
	return newIDTokenVerifier(ctx, googleIssuer, clientID, httpClient)
}

func newIDTokenVerifier(ctx context.Context, issuer, clientID string, httpClient *http.Client) (*GoogleIDTokenVerifier, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	type discovery struct {
		provider *oidc.Provider
		err      error
	}
	done := make(chan discovery, 1)
	go func() {
		// the key set keeps this context for every later JWKS refresh
		p, err := oidc.NewProvider(oidc.ClientContext(context.Background(), httpClient), issuer)
		done <- discovery{p, err}
	}()

	var provider *oidc.Provider
	select {
	case d := <-done:
		if d.err != nil {
			return nil, fmt.Errorf("oidc discovery: %w", d.err)
		}
		provider = d.provider
	case <-ctx.Done():
		return nil, fmt.Errorf("oidc discovery: %w", ctx.Err())
	}

	return &GoogleIDTokenVerifier{
		verifier:   provider.Verifier(&oidc.Config{ClientID: clientID}),
		httpClient: httpClient,
	}, nil
}

type googleIDClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

func (v *GoogleIDTokenVerifier) VerifyIDToken(ctx context.Context, rawIDToken string) (*dto.ProviderUserInfo, error) {
	idToken, err := v.verifier.Verify(oidc.ClientContext(ctx, v.httpClient), rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIDTokenInvalid, err)
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIDTokenInvalid, err)
	}

	return &dto.ProviderUserInfo{
		Provider:      model.ProviderGoogle,
		ProviderID:    claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
		Profile: model.ProviderProfile{
			Name:          claims.Name,
			Picture:       claims.Picture,
			Locale:        claims.Locale,
			VerifiedEmail: claims.EmailVerified,
		},
	}, nil
}
