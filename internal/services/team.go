package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/hackmatch-api/internal/database"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const teamColumns = `t.id, t.hackathon_id, t.name, t.leader_id, t.idea, t.is_registered, t.join_code,
	t.is_shortlisted, t.is_suspended, t.created_at, t.updated_at,
	(SELECT COUNT(*) FROM team_members m WHERE m.team_id = t.id)`

const (
	joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	joinCodeLength   = 8
	joinCodeAttempts = 5
)

type TeamService struct {
	db  *database.DB
	now func() time.Time
}

func NewTeamService(db *database.DB) *TeamService {
	return &TeamService{db: db, now: time.Now}
}

func scanTeam(row rowScanner) (*models.Team, error) {
	var t models.Team
	err := row.Scan(
		&t.ID, &t.HackathonID, &t.Name, &t.LeaderID, &t.Idea, &t.IsRegistered, &t.JoinCode,
		&t.IsShortlisted, &t.IsSuspended, &t.CreatedAt, &t.UpdatedAt, &t.MemberCount,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// newJoinCode returns a random code drawn from an alphabet without
// look-alike characters.
func newJoinCode() (string, error) {
	b := make([]byte, joinCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = joinCodeAlphabet[int(b[i])%len(joinCodeAlphabet)]
	}
	return string(b), nil
}

// Create opens a team for an approved hackathon and makes leaderID its first member.
func (s *TeamService) Create(ctx context.Context, hackathonID, leaderID uuid.UUID, name, idea string) (*models.Team, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	h, err := lockHackathon(ctx, tx, hackathonID)
	if err != nil {
		return nil, err
	}
	if !h.RegistrationOpen(s.now()) {
		return nil, ErrHackathonNotOpen
	}

	if err := ensureNotInTeam(ctx, tx, hackathonID, leaderID); err != nil {
		return nil, err
	}

	team, err := scanTeam(tx.QueryRow(ctx, `
		INSERT INTO teams AS t (hackathon_id, name, leader_id, idea)
		VALUES ($1, $2, $3, $4)
		RETURNING `+teamColumns,
		hackathonID, strings.TrimSpace(name), leaderID, idea))
	if err != nil {
		if database.UniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, hackathon_id, user_id, role)
		VALUES ($1, $2, $3, $4)
	`, team.ID, hackathonID, leaderID, models.RoleLeader)
	if err != nil {
		if database.UniqueViolation(err) {
			return nil, ErrAlreadyInTeam
		}
		return nil, fmt.Errorf("failed to add leader as member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	team.MemberCount = 1
	return team, nil
}

func lockHackathon(ctx context.Context, tx pgx.Tx, hackathonID uuid.UUID) (*models.Hackathon, error) {
	h, err := scanHackathon(tx.QueryRow(ctx, `
		SELECT `+hackathonColumns+` FROM hackathons WHERE id = $1 FOR SHARE
	`, hackathonID))
	if err != nil {
		return nil, notFound(err)
	}
	return h, nil
}

// lockTeam locks the team row and then recounts its members. The count inside
// the locking SELECT comes from the snapshot taken before the lock was granted,
// so a member added by the transaction we waited on would be missing from it.
func lockTeam(ctx context.Context, tx pgx.Tx, where string, arg any) (*models.Team, error) {
	team, err := scanTeam(tx.QueryRow(ctx, `
		SELECT `+teamColumns+` FROM teams t WHERE `+where+` FOR UPDATE OF t
	`, arg))
	if err != nil {
		return nil, notFound(err)
	}

	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM team_members WHERE team_id = $1`, team.ID).Scan(&team.MemberCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	return team, nil
}

func ensureNotInTeam(ctx context.Context, tx pgx.Tx, hackathonID, userID uuid.UUID) error {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE hackathon_id = $1 AND user_id = $2)
	`, hackathonID, userID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyInTeam
	}
	return nil
}

// addMember enforces the join rules against a locked team row.
func (s *TeamService) addMember(ctx context.Context, tx pgx.Tx, team *models.Team, userID uuid.UUID) error {
	if !team.OpenToJoin() {
		return ErrTeamLocked
	}

	h, err := lockHackathon(ctx, tx, team.HackathonID)
	if err != nil {
		return err
	}
	if !h.RegistrationOpen(s.now()) {
		return ErrHackathonNotOpen
	}
	if team.MemberCount >= h.MaxTeamSize {
		return ErrTeamFull
	}

	if err := ensureNotInTeam(ctx, tx, team.HackathonID, userID); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO team_members (team_id, hackathon_id, user_id, role)
		VALUES ($1, $2, $3, $4)
	`, team.ID, team.HackathonID, userID, models.RoleMember)
	if err != nil {
		if database.UniqueViolation(err) {
			return ErrAlreadyInTeam
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	team.MemberCount++
	return nil
}

// GetByID returns the team with its members.
func (s *TeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	team, err := scanTeam(s.db.Pool.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams t WHERE t.id = $1`, teamID))
	if err != nil {
		return nil, notFound(err)
	}

	members, err := s.GetMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	team.Members = members
	return team, nil
}

func (s *TeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	return s.query(ctx, `
		SELECT `+teamColumns+`
		FROM teams t
		JOIN team_members tm ON t.id = tm.team_id
		WHERE tm.user_id = $1
		ORDER BY t.created_at DESC
	`, userID)
}

// GetUserTeamForHackathon returns (nil, nil) when the user has no team there.
func (s *TeamService) GetUserTeamForHackathon(ctx context.Context, hackathonID, userID uuid.UUID) (*models.Team, error) {
	var teamID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		SELECT team_id FROM team_members WHERE hackathon_id = $1 AND user_id = $2
	`, hackathonID, userID).Scan(&teamID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, teamID)
}

func (s *TeamService) ListByHackathon(ctx context.Context, hackathonID uuid.UUID) ([]models.Team, error) {
	return s.query(ctx, `
		SELECT `+teamColumns+`
		FROM teams t
		WHERE t.hackathon_id = $1
		ORDER BY t.created_at
	`, hackathonID)
}

// OpenTeams lists teams that can still take members.
func (s *TeamService) OpenTeams(ctx context.Context, hackathonID uuid.UUID) ([]models.Team, error) {
	return s.query(ctx, `
		SELECT `+teamColumns+`
		FROM teams t
		JOIN hackathons h ON h.id = t.hackathon_id
		WHERE t.hackathon_id = $1
		  AND NOT t.is_registered AND NOT t.is_suspended
		  AND (SELECT COUNT(*) FROM team_members m WHERE m.team_id = t.id) < h.max_team_size
		ORDER BY t.created_at
	`, hackathonID)
}

func (s *TeamService) query(ctx context.Context, sql string, args ...any) ([]models.Team, error) {
	rows, err := s.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []models.Team{}
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

func (s *TeamService) GetMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT tm.id, tm.team_id, tm.user_id, tm.role, tm.created_at,
		       u.id, u.email, u.name, u.role, u.skills, u.avatar_url, u.created_at
		FROM team_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY tm.created_at
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.TeamMember{}
	for rows.Next() {
		var member models.TeamMember
		var user models.User
		if err := rows.Scan(
			&member.ID, &member.TeamID, &member.UserID, &member.Role, &member.CreatedAt,
			&user.ID, &user.Email, &user.Name, &user.Role, &user.Skills, &user.AvatarURL, &user.CreatedAt,
		); err != nil {
			return nil, err
		}
		member.User = &user
		members = append(members, member)
	}
	return members, rows.Err()
}

func (s *TeamService) MemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT user_id FROM team_members WHERE team_id = $1`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update changes name and idea while the team is still unregistered.
func (s *TeamService) Update(ctx context.Context, teamID uuid.UUID, name, idea string) (*models.Team, error) {
	team, err := scanTeam(s.db.Pool.QueryRow(ctx, `
		UPDATE teams t SET name = $1, idea = $2, updated_at = NOW()
		WHERE t.id = $3 AND NOT t.is_registered
		RETURNING `+teamColumns,
		strings.TrimSpace(name), idea, teamID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamLocked
		}
		if database.UniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return team, nil
}

// GenerateJoinCode issues a fresh code that replaces any previous one.
func (s *TeamService) GenerateJoinCode(ctx context.Context, teamID uuid.UUID) (string, error) {
	for range joinCodeAttempts {
		code, err := newJoinCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}

		tag, err := s.db.Pool.Exec(ctx, `
			UPDATE teams SET join_code = $1, updated_at = NOW()
			WHERE id = $2 AND NOT is_registered AND NOT is_suspended
		`, code, teamID)
		if database.UniqueViolation(err) {
			continue
		}
		if err != nil {
			return "", err
		}
		if tag.RowsAffected() == 0 {
			return "", ErrTeamLocked
		}
		return code, nil
	}
	return "", fmt.Errorf("failed to generate a unique join code after %d attempts", joinCodeAttempts)
}

// JoinByCode adds userID to the team holding code.
func (s *TeamService) JoinByCode(ctx context.Context, userID uuid.UUID, code string) (*models.Team, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrInvalidJoinCode
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	team, err := lockTeam(ctx, tx, "t.join_code = $1", code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidJoinCode
		}
		return nil, err
	}

	if err := s.addMember(ctx, tx, team, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return team, nil
}

const joinRequestColumns = `jr.id, jr.team_id, jr.user_id, jr.message, jr.status, jr.created_at, jr.updated_at`

func scanJoinRequest(row rowScanner) (*models.JoinRequest, error) {
	var jr models.JoinRequest
	err := row.Scan(&jr.ID, &jr.TeamID, &jr.UserID, &jr.Message, &jr.Status, &jr.CreatedAt, &jr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &jr, nil
}

// RequestToJoin files or re-opens a join request while the hackathon still
// takes registrations. Asking again after a rejection resets it to pending.
func (s *TeamService) RequestToJoin(ctx context.Context, teamID, userID uuid.UUID, message string) (*models.JoinRequest, error) {
	team, err := s.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.OpenToJoin() {
		return nil, ErrTeamLocked
	}

	h, err := scanHackathon(s.db.Pool.QueryRow(ctx, `SELECT `+hackathonColumns+` FROM hackathons WHERE id = $1`, team.HackathonID))
	if err != nil {
		return nil, notFound(err)
	}
	if !h.RegistrationOpen(s.now()) {
		return nil, ErrHackathonNotOpen
	}

	var inTeam bool
	err = s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE hackathon_id = $1 AND user_id = $2)
	`, team.HackathonID, userID).Scan(&inTeam)
	if err != nil {
		return nil, err
	}
	if inTeam {
		return nil, ErrAlreadyInTeam
	}

	jr, err := scanJoinRequest(s.db.Pool.QueryRow(ctx, `
		INSERT INTO join_requests AS jr (team_id, user_id, message, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_id, user_id)
		DO UPDATE SET message = EXCLUDED.message, status = EXCLUDED.status, updated_at = NOW()
		RETURNING `+joinRequestColumns,
		teamID, userID, message, models.JoinRequestPending))
	if err != nil {
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}
	jr.TeamName = team.Name
	return jr, nil
}

func (s *TeamService) GetJoinRequest(ctx context.Context, requestID uuid.UUID) (*models.JoinRequest, error) {
	jr, err := scanJoinRequest(s.db.Pool.QueryRow(ctx, `
		SELECT `+joinRequestColumns+` FROM join_requests jr WHERE jr.id = $1
	`, requestID))
	if err != nil {
		return nil, notFound(err)
	}
	return jr, nil
}

// ListJoinRequests returns the pending requests for a team with the requesting users.
func (s *TeamService) ListJoinRequests(ctx context.Context, teamID uuid.UUID) ([]models.JoinRequest, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+joinRequestColumns+`,
		       u.id, u.email, u.name, u.role, u.bio, u.skills, u.github_url, u.avatar_url
		FROM join_requests jr
		JOIN users u ON u.id = jr.user_id
		WHERE jr.team_id = $1 AND jr.status = $2
		ORDER BY jr.created_at
	`, teamID, models.JoinRequestPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []models.JoinRequest{}
	for rows.Next() {
		var jr models.JoinRequest
		var u models.User
		if err := rows.Scan(
			&jr.ID, &jr.TeamID, &jr.UserID, &jr.Message, &jr.Status, &jr.CreatedAt, &jr.UpdatedAt,
			&u.ID, &u.Email, &u.Name, &u.Role, &u.Bio, &u.Skills, &u.GithubURL, &u.AvatarURL,
		); err != nil {
			return nil, err
		}
		jr.User = &u
		requests = append(requests, jr)
	}
	return requests, rows.Err()
}

func (s *TeamService) UserJoinRequests(ctx context.Context, userID uuid.UUID) ([]models.JoinRequest, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+joinRequestColumns+`, t.name
		FROM join_requests jr
		JOIN teams t ON t.id = jr.team_id
		WHERE jr.user_id = $1
		ORDER BY jr.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []models.JoinRequest{}
	for rows.Next() {
		var jr models.JoinRequest
		if err := rows.Scan(
			&jr.ID, &jr.TeamID, &jr.UserID, &jr.Message, &jr.Status, &jr.CreatedAt, &jr.UpdatedAt, &jr.TeamName,
		); err != nil {
			return nil, err
		}
		requests = append(requests, jr)
	}
	return requests, rows.Err()
}

// RespondJoinRequest accepts or rejects a pending request. Accepting re-checks
// every join rule because the team may have filled up since the request was made.
func (s *TeamService) RespondJoinRequest(ctx context.Context, requestID uuid.UUID, accept bool) (*models.JoinRequest, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	jr, err := scanJoinRequest(tx.QueryRow(ctx, `
		SELECT `+joinRequestColumns+` FROM join_requests jr WHERE jr.id = $1 FOR UPDATE
	`, requestID))
	if err != nil {
		return nil, notFound(err)
	}
	if jr.Status != models.JoinRequestPending {
		return nil, ErrRequestNotPending
	}

	status := models.JoinRequestRejected
	if accept {
		team, err := lockTeam(ctx, tx, "t.id = $1", jr.TeamID)
		if err != nil {
			return nil, err
		}
		if err := s.addMember(ctx, tx, team, jr.UserID); err != nil {
			return nil, err
		}
		jr.TeamName = team.Name
		status = models.JoinRequestAccepted
	}

	_, err = tx.Exec(ctx, `
		UPDATE join_requests SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to update join request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	jr.Status = status
	return jr, nil
}

// RemoveMember drops userID from an unregistered team. The leader cannot be removed.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	team, err := s.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.IsRegistered {
		return ErrTeamLocked
	}
	if team.LeaderID == userID {
		return ErrCannotRemoveLeader
	}

	tag, err := s.db.Pool.Exec(ctx, `
		DELETE FROM team_members WHERE team_id = $1 AND user_id = $2 AND role != $3
	`, teamID, userID, models.RoleLeader)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// Register locks the roster in. The team must meet the hackathon's minimum size
// and registration must still be open.
func (s *TeamService) Register(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	team, err := lockTeam(ctx, tx, "t.id = $1", teamID)
	if err != nil {
		return nil, err
	}
	if team.IsSuspended {
		return nil, ErrTeamSuspended
	}
	if team.IsRegistered {
		return team, nil
	}

	h, err := lockHackathon(ctx, tx, team.HackathonID)
	if err != nil {
		return nil, err
	}
	if !h.RegistrationOpen(s.now()) {
		return nil, ErrHackathonNotOpen
	}
	if team.MemberCount < h.MinTeamSize {
		return nil, ErrTeamTooSmall
	}
	if team.MemberCount > h.MaxTeamSize {
		return nil, ErrTeamFull
	}

	team, err = scanTeam(tx.QueryRow(ctx, `
		UPDATE teams t SET is_registered = TRUE, join_code = NULL, updated_at = NOW()
		WHERE t.id = $1
		RETURNING `+teamColumns,
		teamID))
	if err != nil {
		return nil, fmt.Errorf("failed to register team: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return team, nil
}

// Shortlist marks a registered, non-suspended team as shortlisted or clears the flag.
func (s *TeamService) Shortlist(ctx context.Context, teamID uuid.UUID, shortlisted bool) (*models.Team, error) {
	team, err := s.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.IsSuspended {
		return nil, ErrTeamSuspended
	}
	if !team.IsRegistered {
		return nil, ErrTeamNotRegistered
	}

	updated, err := scanTeam(s.db.Pool.QueryRow(ctx, `
		UPDATE teams t SET is_shortlisted = $1, updated_at = NOW()
		WHERE t.id = $2
		RETURNING `+teamColumns,
		shortlisted, teamID))
	if err != nil {
		return nil, notFound(err)
	}
	return updated, nil
}

// Suspend sets the suspension flag. Suspending also clears the shortlist flag.
func (s *TeamService) Suspend(ctx context.Context, teamID uuid.UUID, suspended bool) (*models.Team, error) {
	team, err := scanTeam(s.db.Pool.QueryRow(ctx, `
		UPDATE teams t SET
			is_suspended = $1,
			is_shortlisted = CASE WHEN $1 THEN FALSE ELSE t.is_shortlisted END,
			updated_at = NOW()
		WHERE t.id = $2
		RETURNING `+teamColumns,
		suspended, teamID))
	if err != nil {
		return nil, notFound(err)
	}
	return team, nil
}

func (s *TeamService) IsLeader(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var leaderID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT leader_id FROM teams WHERE id = $1`, teamID).Scan(&leaderID)
	if err != nil {
		return false, notFound(err)
	}
	return leaderID == userID, nil
}

func (s *TeamService) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`, teamID, userID).Scan(&exists)
	return exists, err
}
