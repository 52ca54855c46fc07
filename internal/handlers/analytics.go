package handlers

import (
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	analyticsService AnalyticsServiceInterface
	log              *zap.Logger
}

func NewAnalyticsHandler(analyticsService AnalyticsServiceInterface, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, log: log}
}

func (h *AnalyticsHandler) Admin(c *drift.Context) {
	stats, err := h.analyticsService.AdminStats(c.Request.Context())
	if err != nil {
		serviceError(c, h.log, err, "", "failed to load stats")
		return
	}

	_ = c.JSON(200, dto.AdminStatsResponse{
		UsersByRole:        stats.UsersByRole,
		HackathonsByStatus: stats.HackathonsByStatus,
		TeamsTotal:         stats.TeamsTotal,
		TeamsRegistered:    stats.TeamsRegistered,
		TeamsShortlisted:   stats.TeamsShortlisted,
		TeamsSuspended:     stats.TeamsSuspended,
		ComplaintsByStatus: stats.ComplaintsByStatus,
	})
}

func (h *AnalyticsHandler) Organization(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.analyticsService.OrganizationStats(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to load stats")
		return
	}

	resp := make([]dto.HackathonStatsResponse, len(stats))
	for i, s := range stats {
		resp[i] = dto.HackathonStatsResponse{
			HackathonID:  s.HackathonID,
			Title:        s.Title,
			Status:       s.Status,
			Teams:        s.Teams,
			Registered:   s.Registered,
			Shortlisted:  s.Shortlisted,
			Participants: s.Participants,
		}
	}
	_ = c.JSON(200, resp)
}

func (h *AnalyticsHandler) Student(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.analyticsService.StudentStats(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to load stats")
		return
	}

	_ = c.JSON(200, dto.StudentStatsResponse{
		TeamsJoined:         stats.TeamsJoined,
		TeamsRegistered:     stats.TeamsRegistered,
		TeamsShortlisted:    stats.TeamsShortlisted,
		PendingJoinRequests: stats.PendingJoinRequests,
		UnreadNotifications: stats.UnreadNotifications,
	})
}
