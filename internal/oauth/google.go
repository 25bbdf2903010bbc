package oauth

import (
	"context"

	"moodjournal_api/dto"
	"moodjournal_api/model"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleAPIBaseURL = "https://www.googleapis.com"

type GoogleProvider struct {
	base
}

func NewGoogleProvider(cfg Config) *GoogleProvider {
	return &GoogleProvider{
		base: newBase(cfg, []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		}, google.Endpoint, googleAPIBaseURL),
	}
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Locale        string `json:"locale"`
}

func (g *GoogleProvider) Name() model.Provider {
	return model.ProviderGoogle
}

func (g *GoogleProvider) FetchUser(ctx context.Context, token *oauth2.Token) (*dto.ProviderUserInfo, error) {
	var info googleUserInfo
	if err := g.getJSON(ctx, token, "/oauth2/v2/userinfo", &info); err != nil {
		return nil, err
	}

	return &dto.ProviderUserInfo{
		Provider:      model.ProviderGoogle,
		ProviderID:    info.ID,
		Email:         info.Email,
		EmailVerified: info.VerifiedEmail,
		Name:          info.Name,
		Picture:       info.Picture,
		Profile: model.ProviderProfile{
			Name:          info.Name,
			Picture:       info.Picture,
			Locale:        info.Locale,
			VerifiedEmail: info.VerifiedEmail,
		},
	}, nil
}
