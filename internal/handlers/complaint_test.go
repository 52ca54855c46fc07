package handlers

import (
	"net/http"
	"testing"

	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/internal/services"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/dimitrije/hackmatch-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func setupComplaintTest(t *testing.T) (*testutil.MockComplaintService, *testutil.MockNotifier, *ComplaintHandler) {
	t.Helper()
	mockComplaintService := new(testutil.MockComplaintService)
	mockNotifier := new(testutil.MockNotifier)
	return mockComplaintService, mockNotifier, NewComplaintHandler(mockComplaintService, mockNotifier, zap.NewNop())
}

func TestComplaintHandler_Create(t *testing.T) {
	mockComplaintService, _, handler := setupComplaintTest(t)
	userID := uuid.New()

	mockComplaintService.On("Create", mock.Anything, userID, (*uuid.UUID)(nil), "Wifi", "No wifi in hall B").
		Return(&models.Complaint{ID: uuid.New(), UserID: userID, Subject: "Wifi", Message: "No wifi in hall B", Status: models.ComplaintOpen}, nil)

	app := newAuthedApp()
	app.Post("/complaints", handler.Create)

	rec := testutil.NewHTTPTestClient(t, app).POST("/complaints",
		dto.CreateComplaintRequest{Subject: "Wifi", Message: "No wifi in hall B"},
		authAs(t, userID, models.RoleStudent))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"Open"`)
	mockComplaintService.AssertExpectations(t)
}

func TestComplaintHandler_Create_EmptyMessage(t *testing.T) {
	mockComplaintService, _, handler := setupComplaintTest(t)

	app := newAuthedApp()
	app.Post("/complaints", handler.Create)

	rec := testutil.NewHTTPTestClient(t, app).POST("/complaints",
		dto.CreateComplaintRequest{Subject: "Wifi"},
		authAs(t, uuid.New(), models.RoleStudent))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "message is required")
	mockComplaintService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestComplaintHandler_List_InvalidStatus(t *testing.T) {
	mockComplaintService, _, handler := setupComplaintTest(t)

	mockComplaintService.On("List", mock.Anything, "Closed").Return(nil, services.ErrInvalidStatus)

	app := newAuthedApp()
	app.Get("/complaints", handler.List)

	rec := testutil.NewHTTPTestClient(t, app).GET("/complaints?status=Closed", authAs(t, uuid.New(), models.RoleAdmin))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComplaintHandler_Update_NotifiesAuthor(t *testing.T) {
	mockComplaintService, mockNotifier, handler := setupComplaintTest(t)
	id, authorID := uuid.New(), uuid.New()

	mockComplaintService.On("Update", mock.Anything, id, models.ComplaintResolved, "Fixed").
		Return(&models.Complaint{ID: id, UserID: authorID, Subject: "AV", Status: models.ComplaintResolved, Response: "Fixed"}, nil)
	mockNotifier.On("Notify", mock.Anything, []uuid.UUID{authorID}, models.NotifyComplaintUpdated,
		`Your complaint "AV" is now Resolved`, "/complaints").Return()

	app := newAuthedApp()
	app.Patch("/complaints/:id", handler.Update)

	rec := testutil.NewHTTPTestClient(t, app).PATCH("/complaints/"+id.String(),
		dto.UpdateComplaintRequest{Status: models.ComplaintResolved, Response: "Fixed"},
		authAs(t, uuid.New(), models.RoleAdmin))

	assert.Equal(t, http.StatusOK, rec.Code)
	mockNotifier.AssertExpectations(t)
}
