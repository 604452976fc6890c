package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/api/middleware"
	"github.com/linskybing/hpc-portal/internal/application"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/pkg/response"
)

var (
	notFoundErrors = []error{
		application.ErrMembershipNotFound,
		application.ErrProjectNotFound,
		application.ErrAllocationNotFound,
		application.ErrRSEAllocationNotFound,
		application.ErrAttributionNotFound,
		application.ErrSystemNotFound,
		application.ErrUserNotFound,
		application.ErrNoDocument,
	}
	badRequestErrors = []error{
		lifecycle.ErrInvalidTransition,
		application.ErrInvalidProjectCode,
		application.ErrAlreadyMember,
		application.ErrProjectAwaitingApproval,
		application.ErrTechLeadIsMember,
		application.ErrInvalidPeriod,
		application.ErrUnknownRole,
	}
	forbiddenErrors = []error{
		lifecycle.ErrUnauthorized,
		application.ErrNotTechLead,
		application.ErrForbidden,
		application.ErrUnknownInstitution,
		application.ErrRSENotOffered,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrStaleState):
		return http.StatusConflict
	case errors.Is(err, application.ErrMissingIdentity):
		return http.StatusUnauthorized
	case isAny(err, forbiddenErrors):
		return http.StatusForbidden
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, response.ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(status, response.ErrorResponse{Error: err.Error()})
}

func currentActor(c *gin.Context) (lifecycle.Actor, bool) {
	actor, err := middleware.ActorFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return lifecycle.Actor{}, false
	}
	return actor, true
}
