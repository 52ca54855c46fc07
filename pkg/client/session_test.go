package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUser(role string) dto.UserResponse {
	return dto.UserResponse{ID: uuid.New(), Email: "ana@example.com", Name: "Ana", Role: role}
}

func TestSession_FetchUser_Unauthorized(t *testing.T) {
	c := newTestAPI(t, map[string]http.HandlerFunc{
		"GET /api/v1/profile": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "invalid or expired token"})
		},
	})
	s := NewSession(c)
	user := sampleUser(models.RoleStudent)
	s.setIdentity(&user)

	got, err := s.FetchUser(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, s.Identity())
	assert.False(t, s.Loading())
}

func TestSession_FetchUser_ServerError(t *testing.T) {
	c := newTestAPI(t, map[string]http.HandlerFunc{
		"GET /api/v1/profile": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusInternalServerError, map[string]any{"code": 500, "message": "failed to get user"})
		},
	})
	s := NewSession(c)
	user := sampleUser(models.RoleStudent)
	s.setIdentity(&user)

	got, err := s.FetchUser(context.Background())

	assert.Nil(t, got)
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.Nil(t, s.Identity())
}

func TestSession_Login(t *testing.T) {
	user := sampleUser(models.RoleOrganization)
	var profileAuth string

	c := newTestAPI(t, map[string]http.HandlerFunc{
		"POST /api/v1/login": func(w http.ResponseWriter, r *http.Request) {
			var req dto.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ana@example.com", req.Email)
			writeJSON(t, w, http.StatusOK, dto.LoginResponse{
				TokenResponse: dto.TokenResponse{AccessToken: "acc", RefreshToken: "ref", ExpiresIn: 900},
				User:          user,
			})
		},
		"GET /api/v1/profile": func(w http.ResponseWriter, r *http.Request) {
			profileAuth = r.Header.Get("Authorization")
			writeJSON(t, w, http.StatusOK, user)
		},
	})
	s := NewSession(c)

	got, err := s.Login(context.Background(), "ana@example.com", "password123")

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Bearer acc", profileAuth)
	assert.Equal(t, "ref", c.RefreshToken())
	require.NotNil(t, s.Identity())
	assert.Equal(t, models.RoleOrganization, s.Identity().Role)
}

func TestSession_Login_InvalidCredentials(t *testing.T) {
	c := newTestAPI(t, map[string]http.HandlerFunc{
		"POST /api/v1/login": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]any{"code": 401, "message": "invalid email or password"})
		},
	})
	s := NewSession(c)

	got, err := s.Login(context.Background(), "ana@example.com", "wrong-password")

	assert.Nil(t, got)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid email or password", apiErr.Message)
	assert.Empty(t, c.AccessToken())
	assert.Nil(t, s.Identity())
}

func TestSession_Signup_SendsMultipart(t *testing.T) {
	user := sampleUser(models.RoleStudent)
	c := newTestAPI(t, map[string]http.HandlerFunc{
		"POST /api/v1/signup": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "Ana", r.FormValue("name"))
			assert.Equal(t, "ana@example.com", r.FormValue("email"))
			assert.Equal(t, "password123", r.FormValue("password"))
			assert.Equal(t, models.RoleStudent, r.FormValue("role"))
			writeJSON(t, w, http.StatusCreated, user)
		},
	})
	s := NewSession(c)

	got, err := s.Signup(context.Background(), SignupForm{
		Name: "Ana", Email: "ana@example.com", Password: "password123", Role: models.RoleStudent,
	})

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestSession_Signup_Conflict(t *testing.T) {
	c := newTestAPI(t, map[string]http.HandlerFunc{
		"POST /api/v1/signup": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusConflict, map[string]any{"code": 409, "message": "email already registered"})
		},
	})

	_, err := NewSession(c).Signup(context.Background(), SignupForm{Name: "Ana", Email: "ana@example.com", Password: "password123", Role: models.RoleStudent})

	assert.True(t, IsStatus(err, http.StatusConflict))
}

func TestSession_Logout_ClearsOnFailure(t *testing.T) {
	c := newTestAPI(t, map[string]http.HandlerFunc{
		"POST /api/v1/logout": func(w http.ResponseWriter, r *http.Request) {
			var req dto.RefreshTokenRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ref", req.RefreshToken)
			writeJSON(t, w, http.StatusInternalServerError, map[string]any{"code": 500, "message": "failed to logout"})
		},
	})
	c.SetTokens("acc", "ref")
	s := NewSession(c)
	user := sampleUser(models.RoleStudent)
	s.setIdentity(&user)

	err := s.Logout(context.Background())

	assert.Error(t, err)
	assert.Nil(t, s.Identity())
	assert.Empty(t, c.AccessToken())
	assert.Empty(t, c.RefreshToken())
}

func TestSession_LoadingWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	user := sampleUser(models.RoleStudent)

	c := newTestAPI(t, map[string]http.HandlerFunc{
		"GET /api/v1/profile": func(w http.ResponseWriter, r *http.Request) {
			close(entered)
			<-release
			writeJSON(t, w, http.StatusOK, user)
		},
	})
	s := NewSession(c)

	done := make(chan error, 1)
	go func() {
		_, err := s.FetchUser(context.Background())
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("request never reached the server")
	}
	assert.True(t, s.Loading())

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Loading())
	assert.Equal(t, user.ID, s.Identity().ID)
}

func TestSession_UpdateProfile(t *testing.T) {
	user := sampleUser(models.RoleStudent)
	user.Skills = []string{"go", "sql"}

	c := newTestAPI(t, map[string]http.HandlerFunc{
		"PATCH /api/v1/profile": func(w http.ResponseWriter, r *http.Request) {
			var req dto.UpdateProfileRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []string{"go", "sql"}, req.Skills)
			writeJSON(t, w, http.StatusOK, user)
		},
	})
	s := NewSession(c)

	got, err := s.UpdateProfile(context.Background(), dto.UpdateProfileRequest{Skills: []string{"go", "sql"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, got.Skills)
	assert.Equal(t, []string{"go", "sql"}, s.Identity().Skills)
}
