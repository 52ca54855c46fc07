package oauth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dimitrije/hackmatch-api/internal/config"
	"golang.org/x/oauth2"
)

var gitlabEndpoint = oauth2.Endpoint{
	AuthURL:  "https://gitlab.com/oauth/authorize",
	TokenURL: "https://gitlab.com/oauth/token",
}

func NewGitLabProvider(cfg config.OAuthConfig) *ProfileProvider {
	return newProfileProvider("gitlab", cfg, gitlabEndpoint, []string{"read_user"}, "https://gitlab.com/api/v4", gitlabProfile)
}

func gitlabProfile(ctx context.Context, client *http.Client, apiBase string) (*UserInfo, error) {
	var glUser struct {
		ID        int64  `json:"id"`
		Username  string `json:"username"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, apiBase+"/user", &glUser); err != nil {
		return nil, err
	}

	name := glUser.Name
	if name == "" {
		name = glUser.Username
	}

	return &UserInfo{
		Email:     glUser.Email,
		Name:      name,
		AvatarURL: glUser.AvatarURL,
		ID:        strconv.FormatInt(glUser.ID, 10),
	}, nil
}
