package integration

import (
	"context"
	"testing"

	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/internal/services"
	"github.com/dimitrije/hackmatch-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsService_Integration_Stats(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewAnalyticsService(tdb.DB)
	notifications := services.NewNotificationService(tdb.DB)
	ctx := context.Background()

	organizer := fixtures.CreateUser(t, testutil.WithRole(models.RoleOrganization))
	leader := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)

	h := fixtures.CreateHackathon(t, organizer)
	team := fixtures.CreateTeam(t, h, leader)
	fixtures.AddTeamMember(t, team, member)

	_, err := notifications.CreateMany(ctx, []uuid.UUID{member.ID}, models.NotifyAnnouncement, "Welcome", "")
	require.NoError(t, err)

	student, err := svc.StudentStats(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, student.TeamsJoined)
	assert.Equal(t, 0, student.TeamsRegistered)
	assert.Equal(t, 1, student.UnreadNotifications)

	org, err := svc.OrganizationStats(ctx, organizer.ID)
	require.NoError(t, err)
	require.Len(t, org, 1)
	assert.Equal(t, h.ID, org[0].HackathonID)
	assert.Equal(t, 1, org[0].Teams)
	assert.Equal(t, 2, org[0].Participants)

	admin, err := svc.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, admin.UsersByRole[models.RoleStudent])
	assert.Equal(t, 1, admin.TeamsTotal)
}
