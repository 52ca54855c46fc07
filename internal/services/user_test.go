package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/hackmatch-api/internal/database"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/internal/oauth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userRowColumns = []string{
	"id", "email", "name", "password_hash", "role", "bio", "skills", "github_url", "linkedin_url",
	"portfolio_url", "organization", "avatar_url", "provider", "provider_id", "created_at", "updated_at",
}

func userRow(rows *pgxmock.Rows, u models.User) *pgxmock.Rows {
	return rows.AddRow(
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.Bio, u.Skills, u.GithubURL, u.LinkedinURL,
		u.PortfolioURL, u.Organization, u.AvatarURL, u.Provider, u.ProviderID, u.CreatedAt, u.UpdatedAt,
	)
}

func newUserRows(users ...models.User) *pgxmock.Rows {
	rows := pgxmock.NewRows(userRowColumns)
	for _, u := range users {
		rows = userRow(rows, u)
	}
	return rows
}

func sampleUser(role string) models.User {
	now := time.Now()
	return models.User{
		ID:        uuid.New(),
		Email:     "test@example.com",
		Name:      "Test User",
		Role:      role,
		Skills:    []string{"go", "sql"},
		Provider:  models.ProviderLocal,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func setupUserService(t *testing.T) (*UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewUserService(db), mock
}

func TestUserService_Signup(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	u := sampleUser(models.RoleStudent)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("test@example.com", "Test User", pgxmock.AnyArg(), models.RoleStudent, models.ProviderLocal).
		WillReturnRows(newUserRows(u))

	user, err := svc.Signup(ctx, " Test User ", "Test@Example.com", "password123", models.RoleStudent)

	require.NoError(t, err)
	assert.Equal(t, u.ID, user.ID)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Signup_AdminRejected(t *testing.T) {
	svc, mock := setupUserService(t)

	_, err := svc.Signup(context.Background(), "Eve", "eve@example.com", "password123", models.RoleAdmin)

	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Signup_DuplicateEmail(t *testing.T) {
	svc, mock := setupUserService(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("dup@example.com", "Dup", pgxmock.AnyArg(), models.RoleOrganization, models.ProviderLocal).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := svc.Signup(context.Background(), "Dup", "dup@example.com", "password123", models.RoleOrganization)

	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	testCases := []struct {
		name     string
		password string
		hash     *string
		wantErr  error
	}{
		{"correct password", "password123", &hashStr, nil},
		{"wrong password", "password124", &hashStr, ErrInvalidCredentials},
		{"oauth account without password", "password123", nil, ErrInvalidCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, mock := setupUserService(t)
			u := sampleUser(models.RoleStudent)
			u.PasswordHash = tc.hash

			mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
				WithArgs("test@example.com").
				WillReturnRows(newUserRows(u))

			user, err := svc.Authenticate(context.Background(), "test@example.com", tc.password)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, u.ID, user.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserService_Authenticate_UnknownEmail(t *testing.T) {
	svc, mock := setupUserService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "password123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_FindOrCreateFromOAuth_CreateNew(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	info := &oauth.UserInfo{
		Email:     "new@example.com",
		Name:      "New User",
		AvatarURL: "https://example.com/avatar.png",
		ID:        "provider-123",
		Provider:  "github",
	}
	u := sampleUser(models.RoleStudent)
	u.Email = info.Email
	u.Name = info.Name
	u.Provider = info.Provider

	mock.ExpectQuery(`SELECT .+ FROM users WHERE provider = .+ AND provider_id`).
		WithArgs(info.Provider, info.ID).
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(info.Email, info.Name, &info.AvatarURL, models.RoleStudent, info.Provider, info.ID).
		WillReturnRows(newUserRows(u))

	user, err := svc.FindOrCreateFromOAuth(ctx, info)

	require.NoError(t, err)
	assert.Equal(t, u.ID, user.ID)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_FindOrCreateFromOAuth_UpdateExisting(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	info := &oauth.UserInfo{
		Email:     "updated@example.com",
		Name:      "Updated Name",
		AvatarURL: "https://example.com/new-avatar.png",
		ID:        "provider-789",
		Provider:  "gitlab",
	}
	u := sampleUser(models.RoleOrganization)
	u.Email = "old@example.com"
	u.Provider = info.Provider

	mock.ExpectQuery(`SELECT .+ FROM users WHERE provider = .+ AND provider_id`).
		WithArgs(info.Provider, info.ID).
		WillReturnRows(newUserRows(u))

	mock.ExpectExec(`UPDATE users SET email = .+, name = .+, avatar_url`).
		WithArgs(info.Email, info.Name, &info.AvatarURL, u.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	user, err := svc.FindOrCreateFromOAuth(ctx, info)

	require.NoError(t, err)
	assert.Equal(t, info.Email, user.Email)
	assert.Equal(t, models.RoleOrganization, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupUserService(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), userID)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, mock := setupUserService(t)
	u := sampleUser(models.RoleStudent)
	bio := "Backend developer"
	u.Bio = bio
	upd := models.ProfileUpdate{Bio: &bio, Skills: []string{"go", "postgres"}}
	u.Skills = upd.Skills

	mock.ExpectQuery(`UPDATE users SET name = COALESCE`).
		WithArgs(upd.Name, upd.Bio, upd.Skills, upd.GithubURL, upd.LinkedinURL, upd.PortfolioURL, upd.Organization, u.ID).
		WillReturnRows(newUserRows(u))

	user, err := svc.UpdateProfile(context.Background(), u.ID, upd)

	require.NoError(t, err)
	assert.Equal(t, bio, user.Bio)
	assert.Equal(t, []string{"go", "postgres"}, user.Skills)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_ListUsers(t *testing.T) {
	svc, mock := setupUserService(t)
	a := sampleUser(models.RoleOrganization)
	b := sampleUser(models.RoleOrganization)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE .+ OR role`).
		WithArgs(models.RoleOrganization).
		WillReturnRows(newUserRows(a, b))

	users, err := svc.ListUsers(context.Background(), models.RoleOrganization)

	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_SetRole(t *testing.T) {
	svc, mock := setupUserService(t)
	u := sampleUser(models.RoleAdmin)

	mock.ExpectQuery(`UPDATE users SET role`).
		WithArgs(models.RoleAdmin, u.ID).
		WillReturnRows(newUserRows(u))

	user, err := svc.SetRole(context.Background(), u.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = svc.SetRole(context.Background(), u.ID, "Root")
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}
