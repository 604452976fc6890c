package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/application"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/repository"
	"github.com/linskybing/hpc-portal/pkg/response"
	"github.com/linskybing/hpc-portal/pkg/utils"
)

type AuditHandler struct {
	svc *application.AuditService
}

func NewAuditHandler(svc *application.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// GetAuditLogs godoc
// @Summary      Query audit logs
// @Description  Filter by user, project, entity, action and time range, with pagination.
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        user_id       query     uint     false  "User ID"
// @Param        project_id    query     uint     false  "Project ID, matches entries about its memberships and allocations too"
// @Param        resource_type query     string   false  "Entity type" Enums(membership, project, allocation, rse_allocation, attribution)
// @Param        resource_id   query     uint     false  "Entity ID"
// @Param        action        query     string   false  "Action" example("create")
// @Param        start_time    query     string   false  "RFC3339 start time"
// @Param        end_time      query     string   false  "RFC3339 end time"
// @Param        limit         query     int      false  "Max records (default 100, max 1000)"
// @Param        offset        query     int      false  "Offset (default 0)"
// @Success      200 {array}   audit.AuditLog
// @Failure      400 {object}  response.ErrorResponse "Invalid query parameters"
// @Failure      403 {object}  response.ErrorResponse
// @Router       /audit/logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var f repository.AuditFilter

	for name, dst := range map[string]**uint{
		"user_id":     &f.UserID,
		"project_id":  &f.ProjectID,
		"resource_id": &f.EntityID,
	} {
		v, err := utils.ParseQueryUintParam(c, name)
		if errors.Is(err, utils.ErrEmptyParameter) {
			continue
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid " + name})
			return
		}
		*dst = &v
	}

	if rt := c.Query("resource_type"); rt != "" {
		entity := audit.EntityType(rt)
		switch entity {
		case audit.EntityMembership, audit.EntityProject, audit.EntityAllocation, audit.EntityRSEAllocation, audit.EntityAttribution:
			f.Entity = &entity
		default:
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid resource_type"})
			return
		}
	}
	if act := c.Query("action"); act != "" {
		f.Action = &act
	}

	if start := c.Query("start_time"); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid start_time"})
			return
		}
		f.Since = &t
	}
	if end := c.Query("end_time"); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid end_time"})
			return
		}
		f.Until = &t
	}

	f.Limit = min(utils.ParseQueryIntParam(c, "limit", 100), repository.MaxAuditPage)
	f.Offset = utils.ParseQueryIntParam(c, "offset", 0)

	logs, err := h.svc.QueryAuditLogs(actor, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
