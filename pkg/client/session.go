package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"sync"

	"github.com/dimitrije/hackmatch-api/pkg/dto"
)

// SignupForm is sent as multipart form fields.
type SignupForm struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Session holds the signed-in identity. None of its calls retry.
type Session struct {
	client *Client

	mu       sync.RWMutex
	identity *dto.UserResponse
	loading  inflight
}

func NewSession(c *Client) *Session {
	return &Session{client: c}
}

func (s *Session) Client() *Client {
	return s.client
}

// Identity returns a copy of the current identity, or nil when signed out.
func (s *Session) Identity() *dto.UserResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	u := *s.identity
	return &u
}

func (s *Session) Loading() bool {
	return s.loading.active()
}

func (s *Session) setIdentity(u *dto.UserResponse) {
	s.mu.Lock()
	s.identity = u
	s.mu.Unlock()
}

// FetchUser asks the server who the caller is. A 401 clears the identity and
// yields (nil, nil): not being signed in is not a failure.
func (s *Session) FetchUser(ctx context.Context) (*dto.UserResponse, error) {
	defer s.loading.begin()()

	var user dto.UserResponse
	if err := s.client.do(ctx, http.MethodGet, "/profile", nil, &user); err != nil {
		s.setIdentity(nil)
		if IsUnauthorized(err) {
			return nil, nil
		}
		return nil, err
	}

	s.setIdentity(&user)
	return s.Identity(), nil
}

// Login stores the issued tokens and then re-fetches the identity.
func (s *Session) Login(ctx context.Context, email, password string) (*dto.UserResponse, error) {
	done := s.loading.begin()

	var resp dto.LoginResponse
	err := s.client.do(ctx, http.MethodPost, "/login", dto.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		done()
		return nil, err
	}

	s.client.SetTokens(resp.AccessToken, resp.RefreshToken)
	s.setIdentity(&resp.User)
	done()

	return s.FetchUser(ctx)
}

func (s *Session) Signup(ctx context.Context, form SignupForm) (*dto.UserResponse, error) {
	defer s.loading.begin()()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", form.Name},
		{"email", form.Email},
		{"password", form.Password},
		{"role", form.Role},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to write signup form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to write signup form: %w", err)
	}

	req, err := s.client.newRequest(ctx, http.MethodPost, "/signup", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var user dto.UserResponse
	if err := s.client.send(req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout revokes the refresh token. The local identity and tokens are
// cleared even when the server call fails.
func (s *Session) Logout(ctx context.Context) error {
	defer s.loading.begin()()

	refresh := s.client.RefreshToken()
	err := s.client.do(ctx, http.MethodPost, "/logout", dto.RefreshTokenRequest{RefreshToken: refresh}, nil)

	s.client.clearTokens()
	s.setIdentity(nil)
	return err
}

// Refresh rotates the token pair. It is only called explicitly.
func (s *Session) Refresh(ctx context.Context) error {
	var tokens dto.TokenResponse
	err := s.client.do(ctx, http.MethodPost, "/refresh", dto.RefreshTokenRequest{RefreshToken: s.client.RefreshToken()}, &tokens)
	if err != nil {
		return err
	}
	s.client.SetTokens(tokens.AccessToken, tokens.RefreshToken)
	return nil
}

func (s *Session) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	defer s.loading.begin()()

	var user dto.UserResponse
	if err := s.client.do(ctx, http.MethodPatch, "/profile", req, &user); err != nil {
		return nil, err
	}
	s.setIdentity(&user)
	return s.Identity(), nil
}
