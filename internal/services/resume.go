package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dimitrije/hackmatch-api/internal/database"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const resumeSubdir = "resumes"

// ResumeService keeps one PDF per user on local disk, with metadata in Postgres.
type ResumeService struct {
	db       *database.DB
	dir      string
	maxBytes int64
}

func NewResumeService(db *database.DB, uploadDir string, maxBytes int64) *ResumeService {
	return &ResumeService{db: db, dir: filepath.Join(uploadDir, resumeSubdir), maxBytes: maxBytes}
}

// DownloadURL returns the authenticated API path serving userID's resume.
func DownloadURL(userID uuid.UUID) string {
	return "/api/v1/resume/user/" + userID.String() + "/file"
}

// Save validates and stores r as userID's resume, replacing any previous one.
func (s *ResumeService) Save(ctx context.Context, userID uuid.UUID, filename string, r io.Reader) (*models.Resume, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 || !mimetype.Detect(data).Is("application/pdf") {
		return nil, ErrInvalidFile
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	key := uuid.New().String() + ".pdf"
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write resume: %w", err)
	}

	var previous string
	err = s.db.Pool.QueryRow(ctx, `SELECT storage_key FROM resumes WHERE user_id = $1`, userID).Scan(&previous)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		os.Remove(filepath.Join(s.dir, key))
		return nil, err
	}

	var resume models.Resume
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO resumes (user_id, filename, content_type, size_bytes, storage_key)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			filename = EXCLUDED.filename,
			content_type = EXCLUDED.content_type,
			size_bytes = EXCLUDED.size_bytes,
			storage_key = EXCLUDED.storage_key,
			uploaded_at = NOW()
		RETURNING id, user_id, filename, content_type, size_bytes, storage_key, uploaded_at
	`, userID, filepath.Base(filename), "application/pdf", int64(len(data)), key).Scan(
		&resume.ID, &resume.UserID, &resume.Filename, &resume.ContentType, &resume.SizeBytes, &resume.StorageKey, &resume.UploadedAt,
	)
	if err != nil {
		os.Remove(filepath.Join(s.dir, key))
		return nil, fmt.Errorf("failed to save resume: %w", err)
	}

	if previous != "" && previous != key {
		os.Remove(filepath.Join(s.dir, previous))
	}
	return &resume, nil
}

func (s *ResumeService) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, user_id, filename, content_type, size_bytes, storage_key, uploaded_at
		FROM resumes WHERE user_id = $1
	`, userID).Scan(
		&resume.ID, &resume.UserID, &resume.Filename, &resume.ContentType, &resume.SizeBytes, &resume.StorageKey, &resume.UploadedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &resume, nil
}

// Open returns the stored resume of userID together with its file. The caller closes the file.
func (s *ResumeService) Open(ctx context.Context, userID uuid.UUID) (*models.Resume, io.ReadSeekCloser, error) {
	resume, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, filepath.Base(resume.StorageKey)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to open resume: %w", err)
	}
	return resume, f, nil
}
