package handlers

import (
	"context"
	"fmt"

	"github.com/dimitrije/hackmatch-api/internal/middleware"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type HackathonHandler struct {
	hackathonService HackathonServiceInterface
	notifier         NotifierInterface
	log              *zap.Logger
}

func NewHackathonHandler(hackathonService HackathonServiceInterface, notifier NotifierInterface, log *zap.Logger) *HackathonHandler {
	return &HackathonHandler{hackathonService: hackathonService, notifier: notifier, log: log}
}

// canView: approved hackathons are public, the rest only to the organizer and admins.
func canView(c *drift.Context, h *models.Hackathon) bool {
	return h.Status == models.HackathonApproved || canManage(c, h)
}

func canManage(c *drift.Context, h *models.Hackathon) bool {
	return isAdmin(c) || h.OrganizerID == middleware.GetUserID(c)
}

// notifyContext keeps fan-out running if the client hangs up mid-request.
func notifyContext(c *drift.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// loadHackathon answers 404 when the hackathon is missing or hidden from the caller.
func loadHackathon(c *drift.Context, svc HackathonServiceInterface, log *zap.Logger, id uuid.UUID) (*models.Hackathon, bool) {
	hackathon, err := svc.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceError(c, log, err, "hackathon not found", "failed to load hackathon")
		return nil, false
	}
	if !canView(c, hackathon) {
		c.NotFound("hackathon not found")
		return nil, false
	}
	return hackathon, true
}

func (h *HackathonHandler) List(c *drift.Context) {
	status := models.HackathonApproved
	if isAdmin(c) {
		status = c.QueryParam("status")
		if status != "" && !models.IsValidHackathonStatus(status) {
			c.BadRequest("invalid status")
			return
		}
	}

	hackathons, err := h.hackathonService.List(c.Request.Context(), status)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to list hackathons")
		return
	}

	_ = c.JSON(200, toHackathonResponses(hackathons))
}

func (h *HackathonHandler) Mine(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	hackathons, err := h.hackathonService.ListByOrganizer(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to list hackathons")
		return
	}

	_ = c.JSON(200, toHackathonResponses(hackathons))
}

func (h *HackathonHandler) Get(c *drift.Context) {
	id, ok := paramID(c, "id", "hackathon")
	if !ok {
		return
	}

	hackathon, ok := loadHackathon(c, h.hackathonService, h.log, id)
	if !ok {
		return
	}

	_ = c.JSON(200, toHackathonResponse(hackathon))
}

func hackathonInput(req *dto.HackathonRequest) models.HackathonInput {
	return models.HackathonInput{
		Title:                req.Title,
		Description:          req.Description,
		Location:             req.Location,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		RegistrationDeadline: req.RegistrationDeadline,
		MinTeamSize:          req.MinTeamSize,
		MaxTeamSize:          req.MaxTeamSize,
	}
}

func (h *HackathonHandler) Create(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.HackathonRequest
	if !bindJSON(c, &req) {
		return
	}

	hackathon, err := h.hackathonService.Create(c.Request.Context(), userID, hackathonInput(&req))
	if err != nil {
		serviceError(c, h.log, err, "", "failed to create hackathon")
		return
	}

	h.log.Info("hackathon created", zap.String("hackathon_id", hackathon.ID.String()), zap.String("organizer_id", userID.String()))
	_ = c.JSON(201, toHackathonResponse(hackathon))
}

func (h *HackathonHandler) Update(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := paramID(c, "id", "hackathon")
	if !ok {
		return
	}

	var req dto.HackathonRequest
	if !bindJSON(c, &req) {
		return
	}

	existing, ok := loadHackathon(c, h.hackathonService, h.log, id)
	if !ok {
		return
	}
	if existing.OrganizerID != userID {
		c.Forbidden("only the organizer can edit this hackathon")
		return
	}

	hackathon, err := h.hackathonService.Update(c.Request.Context(), id, hackathonInput(&req))
	if err != nil {
		serviceError(c, h.log, err, "hackathon not found", "failed to update hackathon")
		return
	}

	_ = c.JSON(200, toHackathonResponse(hackathon))
}

func (h *HackathonHandler) Delete(c *drift.Context) {
	id, ok := paramID(c, "id", "hackathon")
	if !ok {
		return
	}

	existing, ok := loadHackathon(c, h.hackathonService, h.log, id)
	if !ok {
		return
	}
	if !canManage(c, existing) {
		c.Forbidden("only the organizer or an admin can delete this hackathon")
		return
	}

	if err := h.hackathonService.Delete(c.Request.Context(), id); err != nil {
		serviceError(c, h.log, err, "hackathon not found", "failed to delete hackathon")
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "hackathon deleted"})
}

// UpdateStatus is the admin review step.
func (h *HackathonHandler) UpdateStatus(c *drift.Context) {
	hackathonID, ok := paramID(c, "id", "hackathon")
	if !ok {
		return
	}

	var req dto.UpdateHackathonStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	hackathon, err := h.hackathonService.UpdateStatus(c.Request.Context(), hackathonID, req.Status)
	if err != nil {
		serviceError(c, h.log, err, "hackathon not found", "failed to update status")
		return
	}

	h.log.Info("hackathon status changed",
		zap.String("hackathon_id", hackathonID.String()),
		zap.String("status", hackathon.Status),
		zap.String("admin_id", middleware.GetUserID(c).String()),
	)
	h.notifier.Notify(notifyContext(c), []uuid.UUID{hackathon.OrganizerID}, models.NotifyHackathonStatus,
		fmt.Sprintf("Your hackathon %q is now %s", hackathon.Title, hackathon.Status),
		"/hackathons/"+hackathon.ID.String())

	_ = c.JSON(200, toHackathonResponse(hackathon))
}
