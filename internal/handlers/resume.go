package handlers

import (
	"mime"
	"net/http"

	"github.com/dimitrije/hackmatch-api/internal/middleware"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

const resumeField = "resume"

type ResumeHandler struct {
	resumeService ResumeServiceInterface
	log           *zap.Logger
}

func NewResumeHandler(resumeService ResumeServiceInterface, log *zap.Logger) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService, log: log}
}

// Upload stores the multipart "resume" file, replacing any earlier upload.
func (h *ResumeHandler) Upload(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile(resumeField)
	if err != nil {
		c.BadRequest("resume file is required")
		return
	}
	defer file.Close()

	resume, err := h.resumeService.Save(c.Request.Context(), userID, header.Filename, file)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to save resume")
		return
	}

	h.log.Info("resume uploaded", zap.String("user_id", userID.String()), zap.Int64("size", resume.SizeBytes))
	_ = c.JSON(201, toResumeResponse(resume))
}

func (h *ResumeHandler) Me(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	resume, err := h.resumeService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, h.log, err, "no resume uploaded", "failed to load resume")
		return
	}

	_ = c.JSON(200, toResumeResponse(resume))
}

// resumeOwner reads :userId and checks that the caller is that user, an organization or an admin.
func resumeOwner(c *drift.Context) (uuid.UUID, bool) {
	userID, ok := paramID(c, "userId", "user")
	if !ok {
		return uuid.Nil, false
	}

	role := middleware.GetUserRole(c)
	if userID != middleware.GetUserID(c) && role != models.RoleOrganization && role != models.RoleAdmin {
		c.Forbidden("unauthorized for role " + role)
		return uuid.Nil, false
	}
	return userID, true
}

// ByUser serves another user's resume metadata to organizations and admins.
func (h *ResumeHandler) ByUser(c *drift.Context) {
	userID, ok := resumeOwner(c)
	if !ok {
		return
	}

	resume, err := h.resumeService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, h.log, err, "no resume uploaded", "failed to load resume")
		return
	}

	_ = c.JSON(200, toResumeResponse(resume))
}

// Download streams the PDF itself under the same access rule as ByUser.
func (h *ResumeHandler) Download(c *drift.Context) {
	userID, ok := resumeOwner(c)
	if !ok {
		return
	}

	resume, f, err := h.resumeService.Open(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, h.log, err, "no resume uploaded", "failed to load resume")
		return
	}
	defer f.Close()

	c.Header("Content-Type", resume.ContentType)
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": resume.Filename}))
	c.Header("X-Content-Type-Options", "nosniff")
	http.ServeContent(c.Response, c.Request, resume.Filename, resume.UploadedAt, f)
}
