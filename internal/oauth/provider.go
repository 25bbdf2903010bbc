// Package oauth talks to external identity providers: the authorization code
// exchange, profile lookups, and Google ID token verification.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"moodjournal_api/dto"
	"moodjournal_api/model"

	"golang.org/x/oauth2"
)

var (
	ErrProviderUserInfo = errors.New("provider user info request failed")
	ErrIDTokenInvalid   = errors.New("id token verification failed")
)

const DefaultTimeout = 10 * time.Second

type Provider interface {
	Name() model.Provider
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchUser(ctx context.Context, token *oauth2.Token) (*dto.ProviderUserInfo, error)
}

// Config describes one OAuth client registration. Endpoint and APIBaseURL
// fall back to the provider's public URLs when empty.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Endpoint     oauth2.Endpoint
	APIBaseURL   string
	HTTPClient   *http.Client
}

func (c Config) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type base struct {
	oauth      *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
}

func newBase(cfg Config, scopes []string, endpoint oauth2.Endpoint, apiBaseURL string) base {
	if cfg.Endpoint.TokenURL != "" {
		endpoint = cfg.Endpoint
	}
	if cfg.APIBaseURL != "" {
		apiBaseURL = cfg.APIBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return base{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		httpClient: client,
	}
}

func (b base) AuthCodeURL(state string) string {
	return b.oauth.AuthCodeURL(state)
}

func (b base) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return b.oauth.Exchange(b.clientContext(ctx), code)
}

func (b base) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, b.httpClient)
}

// getJSON performs an authorized GET against the provider API and decodes the body into v.
func (b base) getJSON(ctx context.Context, token *oauth2.Token, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.apiBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUserInfo, err)
	}
	req.Header.Set("Accept", "application/json")

	client := b.oauth.Client(b.clientContext(ctx), token)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUserInfo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: GET %s: status %d: %s", ErrProviderUserInfo, path, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrProviderUserInfo, path, err)
	}
	return nil
}
