package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/dimitrije/hackmatch-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAnalyticsHandler_Admin(t *testing.T) {
	mockAnalyticsService := new(testutil.MockAnalyticsService)
	handler := NewAnalyticsHandler(mockAnalyticsService, zap.NewNop())

	mockAnalyticsService.On("AdminStats", mock.Anything).Return(&models.AdminStats{
		UsersByRole:        map[string]int{models.RoleStudent: 10},
		HackathonsByStatus: map[string]int{models.HackathonApproved: 2},
		TeamsTotal:         5,
		TeamsRegistered:    3,
		ComplaintsByStatus: map[string]int{},
	}, nil)

	app := newAuthedApp()
	app.Get("/admin/stats", handler.Admin)

	rec := testutil.NewHTTPTestClient(t, app).GET("/admin/stats", authAs(t, uuid.New(), models.RoleAdmin))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.AdminStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 10, response.UsersByRole[models.RoleStudent])
	assert.Equal(t, 3, response.TeamsRegistered)
}

func TestAnalyticsHandler_Organization(t *testing.T) {
	mockAnalyticsService := new(testutil.MockAnalyticsService)
	handler := NewAnalyticsHandler(mockAnalyticsService, zap.NewNop())
	organizerID := uuid.New()
	hackathonID := uuid.New()

	mockAnalyticsService.On("OrganizationStats", mock.Anything, organizerID).Return([]models.HackathonStats{
		{HackathonID: hackathonID, Title: "Spring Hack", Teams: 4, Participants: 11},
	}, nil)

	app := newAuthedApp()
	app.Get("/organization/stats", handler.Organization)

	rec := testutil.NewHTTPTestClient(t, app).GET("/organization/stats", authAs(t, organizerID, models.RoleOrganization))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []dto.HackathonStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, hackathonID, response[0].HackathonID)
	assert.Equal(t, 11, response[0].Participants)
}

func TestAnalyticsHandler_Student_ServiceErrorIsLogged(t *testing.T) {
	mockAnalyticsService := new(testutil.MockAnalyticsService)
	core, logs := observer.New(zap.ErrorLevel)
	handler := NewAnalyticsHandler(mockAnalyticsService, zap.New(core))
	userID := uuid.New()

	mockAnalyticsService.On("StudentStats", mock.Anything, userID).Return(nil, errors.New("connection refused"))

	app := newAuthedApp()
	app.Get("/student/stats", handler.Student)

	rec := testutil.NewHTTPTestClient(t, app).GET("/student/stats", authAs(t, userID, models.RoleStudent))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to load stats")
	assert.NotContains(t, rec.Body.String(), "connection refused")

	entries := logs.FilterMessage("failed to load stats").All()
	require.Len(t, entries, 1)
	assert.Equal(t, userID.String(), entries[0].ContextMap()["user_id"])
}
