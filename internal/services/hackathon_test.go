package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/hackmatch-api/internal/database"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hackathonRowColumns = []string{
	"id", "title", "description", "location", "start_date", "end_date", "registration_deadline",
	"min_team_size", "max_team_size", "status", "organizer_id", "created_at", "updated_at",
}

func newHackathonRows(hs ...models.Hackathon) *pgxmock.Rows {
	rows := pgxmock.NewRows(hackathonRowColumns)
	for _, h := range hs {
		rows.AddRow(
			h.ID, h.Title, h.Description, h.Location, h.StartDate, h.EndDate, h.RegistrationDeadline,
			h.MinTeamSize, h.MaxTeamSize, h.Status, h.OrganizerID, h.CreatedAt, h.UpdatedAt,
		)
	}
	return rows
}

func sampleHackathon(status string) models.Hackathon {
	now := time.Now()
	return models.Hackathon{
		ID:                   uuid.New(),
		Title:                "Spring Hack",
		StartDate:            now.Add(48 * time.Hour),
		EndDate:              now.Add(72 * time.Hour),
		RegistrationDeadline: now.Add(24 * time.Hour),
		MinTeamSize:          2,
		MaxTeamSize:          3,
		Status:               status,
		OrganizerID:          uuid.New(),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func inputFrom(h models.Hackathon) models.HackathonInput {
	return models.HackathonInput{
		Title:                h.Title,
		Description:          h.Description,
		Location:             h.Location,
		StartDate:            h.StartDate,
		EndDate:              h.EndDate,
		RegistrationDeadline: h.RegistrationDeadline,
		MinTeamSize:          h.MinTeamSize,
		MaxTeamSize:          h.MaxTeamSize,
	}
}

func setupHackathonService(t *testing.T) (*HackathonService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewHackathonService(&database.DB{Pool: mock}), mock
}

func TestHackathonService_Create(t *testing.T) {
	svc, mock := setupHackathonService(t)
	h := sampleHackathon(models.HackathonPending)
	in := inputFrom(h)

	mock.ExpectQuery(`INSERT INTO hackathons`).
		WithArgs(in.Title, in.Description, in.Location, in.StartDate, in.EndDate, in.RegistrationDeadline,
			in.MinTeamSize, in.MaxTeamSize, models.HackathonPending, h.OrganizerID).
		WillReturnRows(newHackathonRows(h))

	created, err := svc.Create(context.Background(), h.OrganizerID, in)

	require.NoError(t, err)
	assert.Equal(t, models.HackathonPending, created.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHackathonService_Create_Invalid(t *testing.T) {
	base := inputFrom(sampleHackathon(models.HackathonPending))

	testCases := []struct {
		name   string
		mutate func(in *models.HackathonInput)
		msg    string
	}{
		{"missing title", func(in *models.HackathonInput) { in.Title = "  " }, "title is required"},
		{"end before start", func(in *models.HackathonInput) { in.EndDate = in.StartDate.Add(-time.Hour) }, "end_date"},
		{"deadline after end", func(in *models.HackathonInput) { in.RegistrationDeadline = in.EndDate.Add(time.Hour) }, "registration_deadline"},
		{"min above max", func(in *models.HackathonInput) { in.MinTeamSize = 4 }, "team size"},
		{"max above limit", func(in *models.HackathonInput) { in.MaxTeamSize = models.MaxTeamSizeLimit + 1 }, "team size"},
		{"zero min", func(in *models.HackathonInput) { in.MinTeamSize = 0 }, "team size"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, mock := setupHackathonService(t)
			in := base
			tc.mutate(&in)

			_, err := svc.Create(context.Background(), uuid.New(), in)

			assert.ErrorIs(t, err, ErrInvalidHackathon)
			assert.Contains(t, err.Error(), tc.msg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHackathonService_List(t *testing.T) {
	svc, mock := setupHackathonService(t)

	mock.ExpectQuery(`SELECT .+ FROM hackathons WHERE .+ OR status`).
		WithArgs(models.HackathonApproved).
		WillReturnRows(newHackathonRows(sampleHackathon(models.HackathonApproved), sampleHackathon(models.HackathonApproved)))

	hackathons, err := svc.List(context.Background(), models.HackathonApproved)

	require.NoError(t, err)
	assert.Len(t, hackathons, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHackathonService_List_Empty(t *testing.T) {
	svc, mock := setupHackathonService(t)

	mock.ExpectQuery(`SELECT .+ FROM hackathons`).
		WithArgs("").
		WillReturnRows(newHackathonRows())

	hackathons, err := svc.List(context.Background(), "")

	require.NoError(t, err)
	assert.NotNil(t, hackathons)
	assert.Empty(t, hackathons)
}

func TestHackathonService_Update_NotEditable(t *testing.T) {
	svc, mock := setupHackathonService(t)
	h := sampleHackathon(models.HackathonRejected)
	in := inputFrom(h)

	mock.ExpectQuery(`UPDATE hackathons SET`).
		WithArgs(in.Title, in.Description, in.Location, in.StartDate, in.EndDate,
			in.RegistrationDeadline, in.MinTeamSize, in.MaxTeamSize, h.ID, models.HackathonPending, models.HackathonApproved).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Update(context.Background(), h.ID, in)

	assert.ErrorIs(t, err, ErrHackathonNotEditable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHackathonService_Delete_NotFound(t *testing.T) {
	svc, mock := setupHackathonService(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM hackathons`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Delete(context.Background(), id)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHackathonService_UpdateStatus(t *testing.T) {
	svc, mock := setupHackathonService(t)
	h := sampleHackathon(models.HackathonApproved)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM hackathons WHERE id = .+ FOR UPDATE`).
		WithArgs(h.ID).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(models.HackathonPending))
	mock.ExpectQuery(`UPDATE hackathons SET status`).
		WithArgs(models.HackathonApproved, h.ID).
		WillReturnRows(newHackathonRows(h))
	mock.ExpectCommit()

	updated, err := svc.UpdateStatus(context.Background(), h.ID, models.HackathonApproved)

	require.NoError(t, err)
	assert.Equal(t, h.ID, updated.ID)
	assert.Equal(t, models.HackathonApproved, updated.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHackathonService_UpdateStatus_InvalidTransition(t *testing.T) {
	svc, mock := setupHackathonService(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM hackathons`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(models.HackathonRejected))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(context.Background(), id, models.HackathonApproved)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "Rejected to Approved")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHackathonService_UpdateStatus_UnknownStatus(t *testing.T) {
	svc, mock := setupHackathonService(t)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "Archived")

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.NotErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHackathonService_UpdateStatus_NotFound(t *testing.T) {
	svc, mock := setupHackathonService(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT status FROM hackathons`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(context.Background(), id, models.HackathonApproved)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
