package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/internal/services"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/dimitrije/hackmatch-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupNotificationTest(t *testing.T) (*testutil.MockNotificationService, *testutil.MockHub, *NotificationHandler) {
	t.Helper()
	mockNotificationService := new(testutil.MockNotificationService)
	hub := testutil.NewMockHub()
	return mockNotificationService, hub, NewNotificationHandler(mockNotificationService, hub, zap.NewNop())
}

func TestNotificationHandler_List(t *testing.T) {
	mockNotificationService, _, handler := setupNotificationTest(t)
	userID := uuid.New()

	mockNotificationService.On("List", mock.Anything, userID).Return([]models.Notification{
		{ID: uuid.New(), UserID: userID, Type: models.NotifyJoinRequest, Message: "New request", Link: "/teams/1"},
	}, 1, nil)

	app := newAuthedApp()
	app.Get("/notifications", handler.List)

	rec := testutil.NewHTTPTestClient(t, app).GET("/notifications", authAs(t, userID, models.RoleStudent))

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.NotificationListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Unread)
	require.Len(t, response.Notifications, 1)
	assert.Equal(t, "New request", response.Notifications[0].Message)
}

func TestNotificationHandler_List_Empty(t *testing.T) {
	mockNotificationService, _, handler := setupNotificationTest(t)
	userID := uuid.New()

	mockNotificationService.On("List", mock.Anything, userID).Return([]models.Notification{}, 0, nil)

	app := newAuthedApp()
	app.Get("/notifications", handler.List)

	rec := testutil.NewHTTPTestClient(t, app).GET("/notifications", authAs(t, userID, models.RoleStudent))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"notifications":[],"unread":0}`, rec.Body.String())
}

func TestNotificationHandler_MarkRead_OtherUsersNotification(t *testing.T) {
	mockNotificationService, _, handler := setupNotificationTest(t)
	userID, id := uuid.New(), uuid.New()

	mockNotificationService.On("MarkRead", mock.Anything, id, userID).Return(services.ErrNotFound)

	app := newAuthedApp()
	app.Patch("/notifications/:id/read", handler.MarkRead)

	rec := testutil.NewHTTPTestClient(t, app).PATCH("/notifications/"+id.String()+"/read", nil, authAs(t, userID, models.RoleStudent))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "notification not found")
}

func TestNotificationHandler_MarkAllRead(t *testing.T) {
	mockNotificationService, _, handler := setupNotificationTest(t)
	userID := uuid.New()

	mockNotificationService.On("MarkAllRead", mock.Anything, userID).Return(int64(3), nil)

	app := newAuthedApp()
	app.Post("/notifications/read-all", handler.MarkAllRead)

	rec := testutil.NewHTTPTestClient(t, app).POST("/notifications/read-all", nil, authAs(t, userID, models.RoleStudent))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":3}`, rec.Body.String())
}

func TestNotificationHandler_Stream(t *testing.T) {
	_, hub, handler := setupNotificationTest(t)
	userID := uuid.New()

	app := newAuthedApp()
	app.Get("/notifications/stream", handler.Stream)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/notifications/stream", nil).WithContext(ctx)
	for k, v := range authAs(t, userID, models.RoleStudent) {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		app.ServeHTTP(rec, req)
		close(done)
	}()

	client := hub.Registered(2 * time.Second)
	require.NotNil(t, client)
	assert.Equal(t, userID, client.UserID)

	client.Send <- []byte(`{"type":"notification","data":{"message":"hi"}}`)
	close(client.Send)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not finish")
	}

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: system")
	assert.Contains(t, body, "event: notification")
	assert.Contains(t, body, `"message":"hi"`)
	assert.Equal(t, 1, hub.UnregisteredCount())
}

func TestNotificationHandler_Stream_ClientDisconnect(t *testing.T) {
	_, hub, handler := setupNotificationTest(t)

	app := newAuthedApp()
	app.Get("/notifications/stream", handler.Stream)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/notifications/stream", nil).WithContext(ctx)
	for k, v := range authAs(t, uuid.New(), models.RoleStudent) {
		req.Header.Set(k, v)
	}

	done := make(chan struct{})
	go func() {
		app.ServeHTTP(httptest.NewRecorder(), req)
		close(done)
	}()

	require.NotNil(t, hub.Registered(2*time.Second))
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after disconnect")
	}
	assert.Equal(t, 1, hub.UnregisteredCount())
}
