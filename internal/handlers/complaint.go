package handlers

import (
	"fmt"

	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type ComplaintHandler struct {
	complaintService ComplaintServiceInterface
	notifier         NotifierInterface
	log              *zap.Logger
}

func NewComplaintHandler(complaintService ComplaintServiceInterface, notifier NotifierInterface, log *zap.Logger) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService, notifier: notifier, log: log}
}

func (h *ComplaintHandler) Create(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateComplaintRequest
	if !bindJSON(c, &req) {
		return
	}

	complaint, err := h.complaintService.Create(c.Request.Context(), userID, req.HackathonID, req.Subject, req.Message)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to submit complaint")
		return
	}

	_ = c.JSON(201, toComplaintResponse(complaint))
}

func (h *ComplaintHandler) Mine(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	complaints, err := h.complaintService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to list complaints")
		return
	}

	_ = c.JSON(200, toComplaintResponses(complaints))
}

func (h *ComplaintHandler) List(c *drift.Context) {
	complaints, err := h.complaintService.List(c.Request.Context(), c.QueryParam("status"))
	if err != nil {
		serviceError(c, h.log, err, "", "failed to list complaints")
		return
	}

	_ = c.JSON(200, toComplaintResponses(complaints))
}

func (h *ComplaintHandler) Update(c *drift.Context) {
	id, ok := paramID(c, "id", "complaint")
	if !ok {
		return
	}

	var req dto.UpdateComplaintRequest
	if !bindJSON(c, &req) {
		return
	}

	complaint, err := h.complaintService.Update(c.Request.Context(), id, req.Status, req.Response)
	if err != nil {
		serviceError(c, h.log, err, "complaint not found", "failed to update complaint")
		return
	}

	h.notifier.Notify(notifyContext(c), []uuid.UUID{complaint.UserID}, models.NotifyComplaintUpdated,
		fmt.Sprintf("Your complaint %q is now %s", complaint.Subject, complaint.Status), "/complaints")

	_ = c.JSON(200, toComplaintResponse(complaint))
}
