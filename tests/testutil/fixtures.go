package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/hackmatch-api/internal/database"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/internal/oauth"
	"github.com/google/uuid"
)

// Fixtures inserts rows directly, bypassing service rules.
type Fixtures struct {
	db      *database.DB
	counter int
}

func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a Student with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email:    fmt.Sprintf("user%d@example.com", f.counter),
		Name:     fmt.Sprintf("Test User %d", f.counter),
		Role:     models.RoleStudent,
		Skills:   []string{},
		Provider: models.ProviderLocal,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash, role, skills, avatar_url, provider, provider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, user.Email, user.Name, user.PasswordHash, user.Role, user.Skills, user.AvatarURL, user.Provider, user.ProviderID).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

func WithRole(role string) UserOption {
	return func(u *models.User) {
		u.Role = role
	}
}

func WithSkills(skills ...string) UserOption {
	return func(u *models.User) {
		u.Skills = skills
	}
}

// WithProvider marks the user as created through OAuth
func WithProvider(provider, providerID string) UserOption {
	return func(u *models.User) {
		u.Provider = provider
		u.ProviderID = &providerID
	}
}

// CreateHackathon creates an Approved hackathon open for registration, with team sizes 2..4
func (f *Fixtures) CreateHackathon(t *testing.T, organizer *models.User, opts ...HackathonOption) *models.Hackathon {
	t.Helper()
	f.counter++

	now := time.Now()
	h := &models.Hackathon{
		Title:                fmt.Sprintf("Test Hackathon %d", f.counter),
		StartDate:            now.Add(7 * 24 * time.Hour),
		EndDate:              now.Add(9 * 24 * time.Hour),
		RegistrationDeadline: now.Add(5 * 24 * time.Hour),
		MinTeamSize:          2,
		MaxTeamSize:          4,
		Status:               models.HackathonApproved,
		OrganizerID:          organizer.ID,
	}

	for _, opt := range opts {
		opt(h)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO hackathons (title, start_date, end_date, registration_deadline,
			min_team_size, max_team_size, status, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, h.Title, h.StartDate, h.EndDate, h.RegistrationDeadline,
		h.MinTeamSize, h.MaxTeamSize, h.Status, h.OrganizerID).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create hackathon: %v", err)
	}

	return h
}

// HackathonOption configures a test hackathon
type HackathonOption func(*models.Hackathon)

func WithStatus(status string) HackathonOption {
	return func(h *models.Hackathon) {
		h.Status = status
	}
}

func WithTeamSizes(minSize, maxSize int) HackathonOption {
	return func(h *models.Hackathon) {
		h.MinTeamSize = minSize
		h.MaxTeamSize = maxSize
	}
}

func WithDeadline(deadline time.Time) HackathonOption {
	return func(h *models.Hackathon) {
		h.RegistrationDeadline = deadline
	}
}

// CreateTeam creates a team led by leader
func (f *Fixtures) CreateTeam(t *testing.T, hackathon *models.Hackathon, leader *models.User) *models.Team {
	t.Helper()
	f.counter++

	team := &models.Team{
		HackathonID: hackathon.ID,
		Name:        fmt.Sprintf("Test Team %d", f.counter),
		LeaderID:    leader.ID,
		MemberCount: 1,
	}

	ctx := context.Background()
	tx, err := f.db.Pool.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO teams (hackathon_id, name, leader_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, team.HackathonID, team.Name, team.LeaderID).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, hackathon_id, user_id, role)
		VALUES ($1, $2, $3, $4)
	`, team.ID, team.HackathonID, leader.ID, models.RoleLeader)
	if err != nil {
		t.Fatalf("failed to add leader as member: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("failed to commit transaction: %v", err)
	}

	return team
}

// AddTeamMember adds a member to a team
func (f *Fixtures) AddTeamMember(t *testing.T, team *models.Team, user *models.User) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO team_members (team_id, hackathon_id, user_id, role)
		VALUES ($1, $2, $3, $4)
	`, team.ID, team.HackathonID, user.ID, models.RoleMember)
	if err != nil {
		t.Fatalf("failed to add team member: %v", err)
	}
	team.MemberCount++
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}

// OAuthUserInfo creates test OAuth user info
func OAuthUserInfo(email, name, provider, id string) *oauth.UserInfo {
	return &oauth.UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: "https://example.com/avatar.png",
		ID:        id,
		Provider:  provider,
	}
}
