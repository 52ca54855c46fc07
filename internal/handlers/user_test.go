package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dimitrije/hackmatch-api/internal/middleware"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/internal/services"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/dimitrije/hackmatch-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newAuthedApp returns an engine that authenticates with testutil.TestJWTService tokens.
func newAuthedApp() *drift.Engine {
	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(testutil.TestJWTService()))
	return app
}

func authAs(t *testing.T, userID uuid.UUID, role string) map[string]string {
	t.Helper()
	token := testutil.GenerateTestToken(t, userID, "user@example.com", role)
	return map[string]string{"Authorization": testutil.AuthHeader(token)}
}

func setupUserTest(t *testing.T) (*testutil.MockUserService, *UserHandler) {
	t.Helper()
	mockUserService := new(testutil.MockUserService)
	return mockUserService, NewUserHandler(mockUserService, zap.NewNop())
}

func TestUserHandler_GetProfile_Success(t *testing.T) {
	mockUserService, handler := setupUserTest(t)

	userID := uuid.New()
	avatarURL := "https://example.com/avatar.png"
	user := &models.User{
		ID:        userID,
		Email:     "test@example.com",
		Name:      "Test User",
		Role:      models.RoleStudent,
		AvatarURL: &avatarURL,
		Provider:  "github",
		Skills:    []string{"go", "react"},
	}

	mockUserService.On("GetByID", mock.Anything, userID).Return(user, nil)

	app := newAuthedApp()
	app.Get("/profile", handler.GetProfile)

	rec := testutil.NewHTTPTestClient(t, app).GET("/profile", authAs(t, userID, models.RoleStudent))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

	assert.Equal(t, userID, response.ID)
	assert.Equal(t, "test@example.com", response.Email)
	assert.Equal(t, &avatarURL, response.AvatarURL)
	assert.Equal(t, "github", response.Provider)
	assert.Equal(t, []string{"go", "react"}, response.Skills)

	mockUserService.AssertExpectations(t)
}

func TestUserHandler_GetProfile_Unauthorized(t *testing.T) {
	_, handler := setupUserTest(t)

	app := newAuthedApp()
	app.Get("/profile", handler.GetProfile)

	rec := testutil.NewHTTPTestClient(t, app).GET("/profile", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization header")
}

func TestUserHandler_GetProfile_NotFound(t *testing.T) {
	mockUserService, handler := setupUserTest(t)
	userID := uuid.New()

	mockUserService.On("GetByID", mock.Anything, userID).Return(nil, services.ErrNotFound)

	app := newAuthedApp()
	app.Get("/profile", handler.GetProfile)

	rec := testutil.NewHTTPTestClient(t, app).GET("/profile", authAs(t, userID, models.RoleStudent))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "user not found")
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	mockUserService, handler := setupUserTest(t)
	userID := uuid.New()
	name := "Ana B"

	mockUserService.On("UpdateProfile", mock.Anything, userID, models.ProfileUpdate{
		Name:   &name,
		Skills: []string{"rust"},
	}).Return(&models.User{ID: userID, Name: name, Skills: []string{"rust"}}, nil)

	app := newAuthedApp()
	app.Patch("/profile", handler.UpdateProfile)

	rec := testutil.NewHTTPTestClient(t, app).PATCH("/profile",
		map[string]any{"name": name, "skills": []string{"rust"}},
		authAs(t, userID, models.RoleStudent))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Ana B"`)
	mockUserService.AssertExpectations(t)
}

func TestUserHandler_GetUser_HidesEmail(t *testing.T) {
	mockUserService, handler := setupUserTest(t)
	otherID := uuid.New()

	mockUserService.On("GetByID", mock.Anything, otherID).
		Return(&models.User{ID: otherID, Email: "private@example.com", Name: "Other"}, nil)

	app := newAuthedApp()
	app.Get("/users/:id", handler.GetUser)
	client := testutil.NewHTTPTestClient(t, app)

	rec := client.GET("/users/"+otherID.String(), authAs(t, uuid.New(), models.RoleStudent))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "private@example.com")

	rec = client.GET("/users/"+otherID.String(), authAs(t, uuid.New(), models.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "private@example.com")
}

func TestUserHandler_GetUser_InvalidID(t *testing.T) {
	_, handler := setupUserTest(t)

	app := newAuthedApp()
	app.Get("/users/:id", handler.GetUser)

	rec := testutil.NewHTTPTestClient(t, app).GET("/users/not-a-uuid", authAs(t, uuid.New(), models.RoleStudent))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid user id")
}

func TestUserHandler_ListUsers(t *testing.T) {
	mockUserService, handler := setupUserTest(t)

	mockUserService.On("ListUsers", mock.Anything, models.RoleOrganization).
		Return([]models.User{{ID: uuid.New(), Name: "Acme", Role: models.RoleOrganization}}, nil)

	app := newAuthedApp()
	app.Get("/admin/users", handler.ListUsers)
	client := testutil.NewHTTPTestClient(t, app)
	headers := authAs(t, uuid.New(), models.RoleAdmin)

	rec := client.GET("/admin/users?role=Organization", headers)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response []dto.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, "Acme", response[0].Name)

	rec = client.GET("/admin/users?role=Root", headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_SetRole(t *testing.T) {
	mockUserService, handler := setupUserTest(t)
	targetID := uuid.New()

	mockUserService.On("SetRole", mock.Anything, targetID, models.RoleOrganization).
		Return(&models.User{ID: targetID, Role: models.RoleOrganization}, nil)

	app := newAuthedApp()
	app.Patch("/admin/users/:id/role", handler.SetRole)

	rec := testutil.NewHTTPTestClient(t, app).PATCH("/admin/users/"+targetID.String()+"/role",
		dto.SetRoleRequest{Role: models.RoleOrganization},
		authAs(t, uuid.New(), models.RoleAdmin))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.RoleOrganization)
	mockUserService.AssertExpectations(t)
}
