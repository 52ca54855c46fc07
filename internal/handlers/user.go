package handlers

import (
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService UserServiceInterface
	log         *zap.Logger
}

func NewUserHandler(userService UserServiceInterface, log *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

func (h *UserHandler) GetProfile(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, h.log, err, "user not found", "failed to load profile")
		return
	}

	_ = c.JSON(200, toUserResponse(user, true))
}

func (h *UserHandler) UpdateProfile(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, models.ProfileUpdate{
		Name:         req.Name,
		Bio:          req.Bio,
		Skills:       req.Skills,
		GithubURL:    req.GithubURL,
		LinkedinURL:  req.LinkedinURL,
		PortfolioURL: req.PortfolioURL,
		Organization: req.Organization,
	})
	if err != nil {
		serviceError(c, h.log, err, "user not found", "failed to update profile")
		return
	}

	_ = c.JSON(200, toUserResponse(user, true))
}

// GetUser returns another user's public profile. Admins also see the email.
func (h *UserHandler) GetUser(c *drift.Context) {
	id, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceError(c, h.log, err, "user not found", "failed to load user")
		return
	}

	_ = c.JSON(200, toUserResponse(user, isAdmin(c)))
}

func (h *UserHandler) ListUsers(c *drift.Context) {
	role := c.QueryParam("role")
	if role != "" && !models.IsValidRole(role) {
		c.BadRequest("invalid role")
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), role)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to list users")
		return
	}

	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = toUserResponse(&users[i], true)
	}
	_ = c.JSON(200, resp)
}

func (h *UserHandler) SetRole(c *drift.Context) {
	id, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	var req dto.SetRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.SetRole(c.Request.Context(), id, req.Role)
	if err != nil {
		serviceError(c, h.log, err, "user not found", "failed to update role")
		return
	}

	h.log.Info("user role changed", zap.String("user_id", id.String()), zap.String("role", req.Role))
	_ = c.JSON(200, toUserResponse(user, true))
}
