package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dimitrije/hackmatch-api/internal/database"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAnalyticsService(t *testing.T) (*AnalyticsService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewAnalyticsService(&database.DB{Pool: mock}), mock
}

func TestAnalyticsService_AdminStats(t *testing.T) {
	svc, mock := setupAnalyticsService(t)

	mock.ExpectQuery(`SELECT role, COUNT\(\*\) FROM users GROUP BY role`).
		WillReturnRows(pgxmock.NewRows([]string{"role", "count"}).
			AddRow(models.RoleStudent, 12).
			AddRow(models.RoleOrganization, 3))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM hackathons GROUP BY status`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow(models.HackathonApproved, 2).
			AddRow(models.HackathonPending, 1))
	mock.ExpectQuery(`SELECT .+ FROM teams`).
		WillReturnRows(pgxmock.NewRows([]string{"total", "registered", "shortlisted", "suspended"}).
			AddRow(7, 4, 2, 1))
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM complaints GROUP BY status`).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow(models.ComplaintOpen, 5))

	stats, err := svc.AdminStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[string]int{models.RoleStudent: 12, models.RoleOrganization: 3}, stats.UsersByRole)
	assert.Equal(t, 2, stats.HackathonsByStatus[models.HackathonApproved])
	assert.Equal(t, 7, stats.TeamsTotal)
	assert.Equal(t, 4, stats.TeamsRegistered)
	assert.Equal(t, 2, stats.TeamsShortlisted)
	assert.Equal(t, 1, stats.TeamsSuspended)
	assert.Equal(t, 5, stats.ComplaintsByStatus[models.ComplaintOpen])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsService_AdminStats_QueryError(t *testing.T) {
	svc, mock := setupAnalyticsService(t)

	mock.ExpectQuery(`SELECT role, COUNT\(\*\) FROM users`).
		WillReturnError(errors.New("connection reset"))

	stats, err := svc.AdminStats(context.Background())

	assert.Nil(t, stats)
	assert.ErrorContains(t, err, "failed to get user stats")
}

func TestAnalyticsService_OrganizationStats(t *testing.T) {
	svc, mock := setupAnalyticsService(t)
	organizerID := uuid.New()
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM hackathons h .+ WHERE h.organizer_id = \$1`).
		WithArgs(organizerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "status", "teams", "registered", "shortlisted", "participants"}).
			AddRow(first, "Spring Hack", models.HackathonApproved, 4, 3, 1, 11).
			AddRow(second, "Winter Hack", models.HackathonPending, 0, 0, 0, 0))

	stats, err := svc.OrganizationStats(context.Background(), organizerID)

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, first, stats[0].HackathonID)
	assert.Equal(t, 3, stats[0].Registered)
	assert.Equal(t, 11, stats[0].Participants)
	assert.Equal(t, 0, stats[1].Teams)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsService_OrganizationStats_Empty(t *testing.T) {
	svc, mock := setupAnalyticsService(t)
	organizerID := uuid.New()

	mock.ExpectQuery(`FROM hackathons h`).
		WithArgs(organizerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "status", "teams", "registered", "shortlisted", "participants"}))

	stats, err := svc.OrganizationStats(context.Background(), organizerID)

	require.NoError(t, err)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}

func TestAnalyticsService_StudentStats(t *testing.T) {
	svc, mock := setupAnalyticsService(t)
	userID := uuid.New()

	mock.ExpectQuery(`FROM team_members tm`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"joined", "registered", "shortlisted"}).AddRow(2, 1, 1))
	mock.ExpectQuery(`FROM join_requests`).
		WithArgs(userID, models.JoinRequestPending).
		WillReturnRows(pgxmock.NewRows([]string{"pending", "unread"}).AddRow(3, 6))

	stats, err := svc.StudentStats(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, &models.StudentStats{
		TeamsJoined:         2,
		TeamsRegistered:     1,
		TeamsShortlisted:    1,
		PendingJoinRequests: 3,
		UnreadNotifications: 6,
	}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}
