package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/dimitrije/hackmatch-api/internal/middleware"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fe.Field() + " is invalid"
}

// bindJSON decodes and validates the request body, answering 400 on failure.
func bindJSON(c *drift.Context, v any) bool {
	if err := c.BindJSON(v); err != nil {
		c.BadRequest("invalid request body")
		return false
	}
	return validateRequest(c, v)
}

func validateRequest(c *drift.Context, v any) bool {
	if err := validate.Struct(v); err != nil {
		c.BadRequest(validationMessage(err))
		return false
	}
	return true
}

func paramID(c *drift.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.BadRequest("invalid " + label + " id")
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(c *drift.Context) (uuid.UUID, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}

func isAdmin(c *drift.Context) bool {
	return middleware.GetUserRole(c) == models.RoleAdmin
}

var conflictErrors = []error{
	services.ErrAlreadyExists,
	services.ErrInvalidTransition,
	services.ErrHackathonNotOpen,
	services.ErrHackathonNotEditable,
	services.ErrAlreadyInTeam,
	services.ErrTeamFull,
	services.ErrTeamTooSmall,
	services.ErrTeamLocked,
	services.ErrTeamNotRegistered,
	services.ErrTeamSuspended,
	services.ErrCannotRemoveLeader,
	services.ErrRequestNotPending,
}

var badRequestErrors = []error{
	services.ErrInvalidRole,
	services.ErrInvalidStatus,
	services.ErrInvalidHackathon,
	services.ErrInvalidJoinCode,
	services.ErrInvalidFile,
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// serviceError maps service errors to responses. Anything unrecognised is
// logged and answered with 500 and failMsg.
func serviceError(c *drift.Context, log *zap.Logger, err error, notFoundMsg, failMsg string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(notFoundMsg)
	case errors.Is(err, services.ErrMemberNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized(err.Error())
	case errors.Is(err, services.ErrFileTooLarge):
		c.Error(http.StatusRequestEntityTooLarge, err.Error())
	case matchesAny(err, badRequestErrors):
		c.BadRequest(err.Error())
	case matchesAny(err, conflictErrors):
		c.Conflict(err.Error())
	default:
		log.Error(failMsg,
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("user_id", middleware.GetUserID(c).String()),
		)
		c.InternalServerError(failMsg)
	}
}
