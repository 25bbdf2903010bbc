package oauth

import (
	"context"
	"strconv"

	"moodjournal_api/dto"
	"moodjournal_api/model"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubAPIBaseURL = "https://api.github.com"

type GithubProvider struct {
	base
}

func NewGithubProvider(cfg Config) *GithubProvider {
	return &GithubProvider{
		base: newBase(cfg, []string{"read:user", "user:email"}, github.Endpoint, githubAPIBaseURL),
	}
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GithubProvider) Name() model.Provider {
	return model.ProviderGithub
}

// FetchUser reads the profile and then the email list, since GitHub leaves
// the profile email empty for users who keep it private.
func (g *GithubProvider) FetchUser(ctx context.Context, token *oauth2.Token) (*dto.ProviderUserInfo, error) {
	var user githubUser
	if err := g.getJSON(ctx, token, "/user", &user); err != nil {
		return nil, err
	}

	var emails []githubEmail
	if err := g.getJSON(ctx, token, "/user/emails", &emails); err != nil {
		return nil, err
	}

	email, verified := primaryEmail(emails)
	if email == "" {
		email = user.Email
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return &dto.ProviderUserInfo{
		Provider:      model.ProviderGithub,
		ProviderID:    strconv.FormatInt(user.ID, 10),
		Email:         email,
		EmailVerified: verified,
		Name:          name,
		Picture:       user.AvatarURL,
		Profile: model.ProviderProfile{
			Name:          user.Name,
			Picture:       user.AvatarURL,
			Username:      user.Login,
			ProfileURL:    user.HTMLURL,
			VerifiedEmail: verified,
		},
	}, nil
}

func primaryEmail(emails []githubEmail) (string, bool) {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, true
		}
	}
	return "", false
}
