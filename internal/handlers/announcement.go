package handlers

import (
	"github.com/dimitrije/hackmatch-api/internal/middleware"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type AnnouncementHandler struct {
	announcementService AnnouncementServiceInterface
	hackathonService    HackathonServiceInterface
	notifier            NotifierInterface
	log                 *zap.Logger
}

func NewAnnouncementHandler(announcementService AnnouncementServiceInterface, hackathonService HackathonServiceInterface, notifier NotifierInterface, log *zap.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		hackathonService:    hackathonService,
		notifier:            notifier,
		log:                 log,
	}
}

// Create posts an announcement. Admins may post platform-wide; organizations
// only to a hackathon they run.
func (h *AnnouncementHandler) Create(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateAnnouncementRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if !isAdmin(c) {
		if req.HackathonID == nil {
			c.BadRequest("hackathon_id is required")
			return
		}
		hackathon, err := h.hackathonService.GetByID(ctx, *req.HackathonID)
		if err != nil {
			serviceError(c, h.log, err, "hackathon not found", "failed to load hackathon")
			return
		}
		if hackathon.OrganizerID != userID {
			c.Forbidden("only the organizer can announce to this hackathon")
			return
		}
	}

	announcement, err := h.announcementService.Create(ctx, userID, req.HackathonID, req.Title, req.Body)
	if err != nil {
		serviceError(c, h.log, err, "hackathon not found", "failed to create announcement")
		return
	}

	audience, err := h.announcementService.Audience(ctx, req.HackathonID)
	if err != nil {
		h.log.Warn("failed to resolve announcement audience", zap.Error(err), zap.String("announcement_id", announcement.ID.String()))
	} else {
		link := "/announcements"
		if req.HackathonID != nil {
			link = "/hackathons/" + req.HackathonID.String()
		}
		h.notifier.Notify(notifyContext(c), audience, models.NotifyAnnouncement, announcement.Title, link)
	}

	_ = c.JSON(201, toAnnouncementResponse(announcement))
}

func (h *AnnouncementHandler) List(c *drift.Context) {
	var hackathonID *uuid.UUID
	if raw := c.QueryParam("hackathon_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.BadRequest("invalid hackathon id")
			return
		}
		hackathonID = &id
	}

	announcements, err := h.announcementService.List(c.Request.Context(), hackathonID)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to list announcements")
		return
	}

	resp := make([]dto.AnnouncementResponse, len(announcements))
	for i := range announcements {
		resp[i] = toAnnouncementResponse(&announcements[i])
	}
	_ = c.JSON(200, resp)
}

func (h *AnnouncementHandler) Delete(c *drift.Context) {
	id, ok := paramID(c, "id", "announcement")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	announcement, err := h.announcementService.GetByID(ctx, id)
	if err != nil {
		serviceError(c, h.log, err, "announcement not found", "failed to load announcement")
		return
	}
	if !isAdmin(c) && announcement.AuthorID != middleware.GetUserID(c) {
		c.Forbidden("only the author or an admin can delete this announcement")
		return
	}

	if err := h.announcementService.Delete(ctx, id); err != nil {
		serviceError(c, h.log, err, "announcement not found", "failed to delete announcement")
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "announcement deleted"})
}
