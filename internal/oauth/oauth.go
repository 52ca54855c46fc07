package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dimitrije/hackmatch-api/internal/config"
	"golang.org/x/oauth2"
)

// UserInfo is the identity returned by a provider after a successful exchange.
type UserInfo struct {
	Email     string
	Name      string
	AvatarURL string
	ID        string
	Provider  string
}

type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*UserInfo, error)
	Name() string
}

type profileFunc func(ctx context.Context, client *http.Client, apiBase string) (*UserInfo, error)

// ProfileProvider runs the authorization-code flow and then reads the user's
// profile from the provider's REST API.
type ProfileProvider struct {
	name    string
	config  *oauth2.Config
	apiBase string
	profile profileFunc
}

// NewProviders returns every provider with a configured client id, keyed by name.
func NewProviders(cfg *config.Config) map[string]Provider {
	providers := make(map[string]Provider)
	if cfg.GitHub.ClientID != "" {
		providers["github"] = NewGitHubProvider(cfg.GitHub)
	}
	if cfg.GitLab.ClientID != "" {
		providers["gitlab"] = NewGitLabProvider(cfg.GitLab)
	}
	if cfg.Google.ClientID != "" {
		providers["google"] = NewGoogleProvider(cfg.Google)
	}
	return providers
}

func newProfileProvider(name string, cfg config.OAuthConfig, endpoint oauth2.Endpoint, scopes []string, apiBase string, profile profileFunc) *ProfileProvider {
	return &ProfileProvider{
		name: name,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		apiBase: apiBase,
		profile: profile,
	}
}

func (p *ProfileProvider) Name() string {
	return p.name
}

func (p *ProfileProvider) GetConsentURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *ProfileProvider) ExchangeCode(ctx context.Context, code string) (*UserInfo, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	info, err := p.profile(ctx, p.config.Client(ctx, token), p.apiBase)
	if err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%s account has no email address", p.name)
	}
	info.Provider = p.name
	return info, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to get user info: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode user info: %w", err)
	}
	return nil
}

func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
