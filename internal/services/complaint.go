package services

import (
	"context"
	"strings"

	"github.com/dimitrije/hackmatch-api/internal/database"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/google/uuid"
)

const complaintColumns = `id, user_id, hackathon_id, subject, message, status, response, created_at, updated_at`

type ComplaintService struct {
	db *database.DB
}

func NewComplaintService(db *database.DB) *ComplaintService {
	return &ComplaintService{db: db}
}

func scanComplaint(row rowScanner) (*models.Complaint, error) {
	var c models.Complaint
	err := row.Scan(&c.ID, &c.UserID, &c.HackathonID, &c.Subject, &c.Message, &c.Status, &c.Response, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ComplaintService) Create(ctx context.Context, userID uuid.UUID, hackathonID *uuid.UUID, subject, message string) (*models.Complaint, error) {
	return scanComplaint(s.db.Pool.QueryRow(ctx, `
		INSERT INTO complaints (user_id, hackathon_id, subject, message, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+complaintColumns,
		userID, hackathonID, strings.TrimSpace(subject), strings.TrimSpace(message), models.ComplaintOpen))
}

func (s *ComplaintService) GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	c, err := scanComplaint(s.db.Pool.QueryRow(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *ComplaintService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Complaint, error) {
	return s.query(ctx, `
		SELECT `+complaintColumns+` FROM complaints
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

// List returns complaints in the given status, or all of them when status is empty.
func (s *ComplaintService) List(ctx context.Context, status string) ([]models.Complaint, error) {
	if status != "" && !models.IsValidComplaintStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.query(ctx, `
		SELECT `+complaintColumns+` FROM complaints
		WHERE $1 = '' OR status = $1
		ORDER BY created_at DESC
	`, status)
}

func (s *ComplaintService) query(ctx context.Context, sql string, args ...any) ([]models.Complaint, error) {
	rows, err := s.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	complaints := []models.Complaint{}
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		complaints = append(complaints, *c)
	}
	return complaints, rows.Err()
}

// Update sets the review status and the admin's response.
func (s *ComplaintService) Update(ctx context.Context, id uuid.UUID, status, response string) (*models.Complaint, error) {
	if !models.IsValidComplaintStatus(status) {
		return nil, ErrInvalidStatus
	}

	c, err := scanComplaint(s.db.Pool.QueryRow(ctx, `
		UPDATE complaints SET status = $1, response = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+complaintColumns,
		status, response, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}
