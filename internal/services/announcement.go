package services

import (
	"context"
	"strings"

	"github.com/dimitrije/hackmatch-api/internal/database"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/google/uuid"
)

const announcementColumns = `id, author_id, hackathon_id, title, body, created_at`

type AnnouncementService struct {
	db *database.DB
}

func NewAnnouncementService(db *database.DB) *AnnouncementService {
	return &AnnouncementService{db: db}
}

func scanAnnouncement(row rowScanner) (*models.Announcement, error) {
	var a models.Announcement
	if err := row.Scan(&a.ID, &a.AuthorID, &a.HackathonID, &a.Title, &a.Body, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AnnouncementService) Create(ctx context.Context, authorID uuid.UUID, hackathonID *uuid.UUID, title, body string) (*models.Announcement, error) {
	return scanAnnouncement(s.db.Pool.QueryRow(ctx, `
		INSERT INTO announcements (author_id, hackathon_id, title, body)
		VALUES ($1, $2, $3, $4)
		RETURNING `+announcementColumns,
		authorID, hackathonID, strings.TrimSpace(title), body))
}

func (s *AnnouncementService) GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	a, err := scanAnnouncement(s.db.Pool.QueryRow(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// List returns announcements for one hackathon, or every announcement when hackathonID is nil.
func (s *AnnouncementService) List(ctx context.Context, hackathonID *uuid.UUID) ([]models.Announcement, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+announcementColumns+` FROM announcements
		WHERE $1::uuid IS NULL OR hackathon_id = $1
		ORDER BY created_at DESC
	`, hackathonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements := []models.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, *a)
	}
	return announcements, rows.Err()
}

func (s *AnnouncementService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Audience returns who should hear about an announcement: every participant
// of the hackathon, or every user for a platform-wide one.
func (s *AnnouncementService) Audience(ctx context.Context, hackathonID *uuid.UUID) ([]uuid.UUID, error) {
	sql := `SELECT id FROM users`
	args := []any{}
	if hackathonID != nil {
		sql = `SELECT DISTINCT user_id FROM team_members WHERE hackathon_id = $1`
		args = append(args, *hackathonID)
	}

	rows, err := s.db.Pool.Query(ctx, sql, args...)
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
