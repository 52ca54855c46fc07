package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/hackmatch-api/internal/database"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const hackathonColumns = `id, title, description, location, start_date, end_date, registration_deadline,
	min_team_size, max_team_size, status, organizer_id, created_at, updated_at`

type HackathonService struct {
	db *database.DB
}

func NewHackathonService(db *database.DB) *HackathonService {
	return &HackathonService{db: db}
}

func scanHackathon(row rowScanner) (*models.Hackathon, error) {
	var h models.Hackathon
	err := row.Scan(
		&h.ID, &h.Title, &h.Description, &h.Location, &h.StartDate, &h.EndDate, &h.RegistrationDeadline,
		&h.MinTeamSize, &h.MaxTeamSize, &h.Status, &h.OrganizerID, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func validateHackathon(in models.HackathonInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidHackathon)
	case in.EndDate.Before(in.StartDate):
		return fmt.Errorf("%w: end_date is before start_date", ErrInvalidHackathon)
	case in.RegistrationDeadline.After(in.EndDate):
		return fmt.Errorf("%w: registration_deadline is after end_date", ErrInvalidHackathon)
	case in.MinTeamSize < 1 || in.MaxTeamSize > models.MaxTeamSizeLimit || in.MinTeamSize > in.MaxTeamSize:
		return fmt.Errorf("%w: team size must satisfy 1 <= min <= max <= %d", ErrInvalidHackathon, models.MaxTeamSizeLimit)
	}
	return nil
}

// Create stores a new hackathon in Pending state. An admin must approve it
// before teams can form.
func (s *HackathonService) Create(ctx context.Context, organizerID uuid.UUID, in models.HackathonInput) (*models.Hackathon, error) {
	if err := validateHackathon(in); err != nil {
		return nil, err
	}

	h, err := scanHackathon(s.db.Pool.QueryRow(ctx, `
		INSERT INTO hackathons (title, description, location, start_date, end_date, registration_deadline,
			min_team_size, max_team_size, status, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+hackathonColumns,
		strings.TrimSpace(in.Title), in.Description, in.Location, in.StartDate, in.EndDate, in.RegistrationDeadline,
		in.MinTeamSize, in.MaxTeamSize, models.HackathonPending, organizerID))
	if err != nil {
		return nil, fmt.Errorf("failed to create hackathon: %w", err)
	}
	return h, nil
}

func (s *HackathonService) GetByID(ctx context.Context, id uuid.UUID) (*models.Hackathon, error) {
	h, err := scanHackathon(s.db.Pool.QueryRow(ctx, `SELECT `+hackathonColumns+` FROM hackathons WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return h, nil
}

// List returns hackathons with the given status, or all of them when status is empty.
func (s *HackathonService) List(ctx context.Context, status string) ([]models.Hackathon, error) {
	return s.query(ctx, `
		SELECT `+hackathonColumns+`
		FROM hackathons
		WHERE $1 = '' OR status = $1
		ORDER BY start_date
	`, status)
}

func (s *HackathonService) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]models.Hackathon, error) {
	return s.query(ctx, `
		SELECT `+hackathonColumns+`
		FROM hackathons
		WHERE organizer_id = $1
		ORDER BY created_at DESC
	`, organizerID)
}

func (s *HackathonService) query(ctx context.Context, sql string, args ...any) ([]models.Hackathon, error) {
	rows, err := s.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hackathons := []models.Hackathon{}
	for rows.Next() {
		h, err := scanHackathon(rows)
		if err != nil {
			return nil, err
		}
		hackathons = append(hackathons, *h)
	}
	return hackathons, rows.Err()
}

// Update rewrites the editable fields. Rejected and suspended hackathons are frozen.
func (s *HackathonService) Update(ctx context.Context, id uuid.UUID, in models.HackathonInput) (*models.Hackathon, error) {
	if err := validateHackathon(in); err != nil {
		return nil, err
	}

	h, err := scanHackathon(s.db.Pool.QueryRow(ctx, `
		UPDATE hackathons SET
			title = $1, description = $2, location = $3, start_date = $4, end_date = $5,
			registration_deadline = $6, min_team_size = $7, max_team_size = $8, updated_at = NOW()
		WHERE id = $9 AND status IN ($10, $11)
		RETURNING `+hackathonColumns,
		strings.TrimSpace(in.Title), in.Description, in.Location, in.StartDate, in.EndDate,
		in.RegistrationDeadline, in.MinTeamSize, in.MaxTeamSize, id, models.HackathonPending, models.HackathonApproved))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHackathonNotEditable
		}
		return nil, err
	}
	return h, nil
}

func (s *HackathonService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM hackathons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus moves hackathonID to status if the transition table allows it.
// The row is locked so concurrent reviews cannot both succeed from the same state.
func (s *HackathonService) UpdateStatus(ctx context.Context, hackathonID uuid.UUID, status string) (*models.Hackathon, error) {
	if !models.IsValidHackathonStatus(status) {
		return nil, ErrInvalidStatus
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM hackathons WHERE id = $1 FOR UPDATE`, hackathonID).Scan(&current)
	if err != nil {
		return nil, notFound(err)
	}

	if !models.CanTransition(current, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current, status)
	}

	h, err := scanHackathon(tx.QueryRow(ctx, `
		UPDATE hackathons SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+hackathonColumns,
		status, hackathonID))
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return h, nil
}
