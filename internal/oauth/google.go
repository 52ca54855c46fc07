package oauth

import (
	"context"
	"net/http"

	"github.com/dimitrije/hackmatch-api/internal/config"
	"golang.org/x/oauth2/google"
)

var googleScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

func NewGoogleProvider(cfg config.OAuthConfig) *ProfileProvider {
	return newProfileProvider("google", cfg, google.Endpoint, googleScopes, "https://www.googleapis.com/oauth2/v2", googleProfile)
}

func googleProfile(ctx context.Context, client *http.Client, apiBase string) (*UserInfo, error) {
	var gUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := getJSON(ctx, client, apiBase+"/userinfo", &gUser); err != nil {
		return nil, err
	}

	email := gUser.Email
	if !gUser.VerifiedEmail {
		email = ""
	}

	return &UserInfo{
		Email:     email,
		Name:      gUser.Name,
		AvatarURL: gUser.Picture,
		ID:        gUser.ID,
	}, nil
}
