package oauth_test

import (
	"context"
	"net/url"
	"testing"

	"moodjournal_api/internal/oauth"
	"moodjournal_api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGoogleProvider(t *testing.T) {
	m := newMockOAuthServer(t)
	m.codes["good-code"] = "at-google"
	m.googleUsers["at-google"] = map[string]any{
		"id":             "1089",
		"email":          "ada@x.com",
		"verified_email": true,
		"name":           "Ada Lovelace",
		"picture":        "https://x.com/ada.png",
		"locale":         "en",
	}
	p := oauth.NewGoogleProvider(m.config())
	ctx := context.Background()

	assert.Equal(t, model.ProviderGoogle, p.Name())

	loginURL, err := url.Parse(p.AuthCodeURL("st4te"))
	require.NoError(t, err)
	q := loginURL.Query()
	assert.Equal(t, "st4te", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8080/auth/test/callback", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "userinfo.email")

	token, err := p.Exchange(ctx, "good-code")
	require.NoError(t, err)
	assert.Equal(t, "at-google", token.AccessToken)

	info, err := p.FetchUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, model.ProviderGoogle, info.Provider)
	assert.Equal(t, "1089", info.ProviderID)
	assert.Equal(t, "ada@x.com", info.Email)
	assert.True(t, info.EmailVerified)
	assert.Equal(t, "Ada Lovelace", info.Name)
	assert.Equal(t, "en", info.Profile.Locale)
}

func TestGoogleProvider_Errors(t *testing.T) {
	m := newMockOAuthServer(t)
	p := oauth.NewGoogleProvider(m.config())
	ctx := context.Background()

	_, err := p.Exchange(ctx, "unknown-code")
	var retrieveErr *oauth2.RetrieveError
	require.ErrorAs(t, err, &retrieveErr)
	assert.Equal(t, "bad_verification_code", retrieveErr.ErrorCode)

	_, err = p.FetchUser(ctx, &oauth2.Token{AccessToken: "revoked"})
	assert.ErrorIs(t, err, oauth.ErrProviderUserInfo)
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, oauth.Config{}.Enabled())
	assert.False(t, oauth.Config{ClientID: "id"}.Enabled())
	assert.True(t, oauth.Config{ClientID: "id", ClientSecret: "secret"}.Enabled())
}
