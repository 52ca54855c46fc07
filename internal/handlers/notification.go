package handlers

import (
	"github.com/dimitrije/hackmatch-api/internal/sse"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService NotificationServiceInterface
	hub                 HubInterface
	log                 *zap.Logger
}

func NewNotificationHandler(notificationService NotificationServiceInterface, hub HubInterface, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, hub: hub, log: log}
}

func (h *NotificationHandler) List(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	notifications, unread, err := h.notificationService.List(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to list notifications")
		return
	}

	resp := dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, len(notifications)),
		Unread:        unread,
	}
	for i := range notifications {
		resp.Notifications[i] = toNotificationResponse(&notifications[i])
	}
	_ = c.JSON(200, resp)
}

func (h *NotificationHandler) MarkRead(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := paramID(c, "id", "notification")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id, userID); err != nil {
		serviceError(c, h.log, err, "notification not found", "failed to update notification")
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to update notifications")
		return
	}

	_ = c.JSON(200, dto.MarkAllReadResponse{Updated: updated})
}

// Stream pushes the caller's new notifications as server-sent events until
// the client disconnects.
func (h *NotificationHandler) Stream(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	stream := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:     clientID,
		UserID: userID,
		Send:   make(chan []byte, 64),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := stream.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": clientID,
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := stream.Send(string(msg), "notification", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
