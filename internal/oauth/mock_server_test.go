package oauth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moodjournal_api/internal/oauth"

	"golang.org/x/oauth2"
)

// mockOAuthServer plays both the authorization server and the profile API.
type mockOAuthServer struct {
	server      *httptest.Server
	codes       map[string]string // code -> access token
	googleUsers map[string]map[string]any
	githubUsers map[string]map[string]any
	githubMails map[string][]map[string]any
}

func newMockOAuthServer(t *testing.T) *mockOAuthServer {
	m := &mockOAuthServer{
		codes:       map[string]string{},
		googleUsers: map[string]map[string]any{},
		githubUsers: map[string]map[string]any{},
		githubMails: map[string][]map[string]any{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", m.handleToken)
	mux.HandleFunc("/oauth2/v2/userinfo", m.handleGoogleUser)
	mux.HandleFunc("/user", m.handleGithubUser)
	mux.HandleFunc("/user/emails", m.handleGithubEmails)

	m.server = httptest.NewServer(mux)
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockOAuthServer) config() oauth.Config {
	return oauth.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/auth/test/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   m.server.URL + "/authorize",
			TokenURL:  m.server.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		APIBaseURL: m.server.URL,
		HTTPClient: m.server.Client(),
	}
}

func (m *mockOAuthServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	accessToken, ok := m.codes[r.PostForm.Get("code")]
	if !ok || r.PostForm.Get("client_secret") != "client-secret" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad_verification_code"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func (m *mockOAuthServer) bearer(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return "", false
	}
	return token, true
}

func (m *mockOAuthServer) handleGoogleUser(w http.ResponseWriter, r *http.Request) {
	token, ok := m.bearer(w, r)
	if !ok {
		return
	}
	writeOr401(w, m.googleUsers[token])
}

func (m *mockOAuthServer) handleGithubUser(w http.ResponseWriter, r *http.Request) {
	token, ok := m.bearer(w, r)
	if !ok {
		return
	}
	writeOr401(w, m.githubUsers[token])
}

func (m *mockOAuthServer) handleGithubEmails(w http.ResponseWriter, r *http.Request) {
	token, ok := m.bearer(w, r)
	if !ok {
		return
	}
	emails, found := m.githubMails[token]
	if !found {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(emails)
}

func writeOr401(w http.ResponseWriter, v map[string]any) {
	if v == nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
