package oauth

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dimitrije/hackmatch-api/internal/config"
	"golang.org/x/oauth2/github"
)

const githubAPI = "https://api.github.com"

func NewGitHubProvider(cfg config.OAuthConfig) *ProfileProvider {
	return newProfileProvider("github", cfg, github.Endpoint, []string{"user:email", "read:user"}, githubAPI, githubProfile)
}

func githubProfile(ctx context.Context, client *http.Client, apiBase string) (*UserInfo, error) {
	var ghUser struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, apiBase+"/user", &ghUser); err != nil {
		return nil, err
	}

	email := ghUser.Email
	if email == "" {
		var err error
		email, err = githubPrimaryEmail(ctx, client, apiBase)
		if err != nil {
			return nil, err
		}
	}

	name := ghUser.Name
	if name == "" {
		name = ghUser.Login
	}

	return &UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: ghUser.AvatarURL,
		ID:        strconv.FormatInt(ghUser.ID, 10),
	}, nil
}

// githubPrimaryEmail prefers the primary verified address, then any verified one.
func githubPrimaryEmail(ctx context.Context, client *http.Client, apiBase string) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, client, apiBase+"/user/emails", &emails); err != nil {
		return "", err
	}

	fallback := ""
	for _, e := range emails {
		if !e.Verified {
			continue
		}
		if e.Primary {
			return e.Email, nil
		}
		if fallback == "" {
			fallback = e.Email
		}
	}
	if fallback == "" {
		return "", errors.New("no verified github email")
	}
	return fallback, nil
}
