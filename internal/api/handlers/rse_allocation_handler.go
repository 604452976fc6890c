package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/application"
	"github.com/linskybing/hpc-portal/internal/domain/allocation"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/pkg/response"
	"github.com/linskybing/hpc-portal/pkg/utils"
)

// CreateRSEAllocation godoc
// @Summary Request RSE time for a project (tech lead only)
// @Tags rse-allocations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path uint true "Project ID"
// @Param request body allocation.CreateRSEAllocationDTO true "RSE time request"
// @Success 201 {object} allocation.RSEAllocationRequest
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Not the tech lead, or the institution does not offer RSE time"
// @Failure 404 {object} response.ErrorResponse
// @Router /projects/{id}/rse-allocations [post]
func (h *AllocationHandler) CreateRSEAllocation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	projectID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	var input allocation.CreateRSEAllocationDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	a, err := h.svc.CreateRSEAllocation(c, actor, projectID, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ListProjectRSEAllocations godoc
// @Summary List a project's RSE time requests
// @Tags rse-allocations
// @Security BearerAuth
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {array} allocation.RSEAllocationRequest
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /projects/{id}/rse-allocations [get]
func (h *AllocationHandler) ListProjectRSEAllocations(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	projectID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	as, err := h.svc.ListProjectRSEAllocations(actor, projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, as)
}

// ListRSEAllocations godoc
// @Summary List RSE time requests (allocation approvers)
// @Tags rse-allocations
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {array} allocation.RSEAllocationRequest
// @Failure 403 {object} response.ErrorResponse
// @Router /rse-allocations [get]
func (h *AllocationHandler) ListRSEAllocations(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	status, ok := statusQuery(c)
	if !ok {
		return
	}
	as, err := h.svc.ListRSEAllocations(actor, status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, as)
}

// GetRSEAllocation godoc
// @Summary Get an RSE time request
// @Tags rse-allocations
// @Security BearerAuth
// @Produce json
// @Param id path uint true "RSE time request ID"
// @Success 200 {object} allocation.RSEAllocationRequest
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /rse-allocations/{id} [get]
func (h *AllocationHandler) GetRSEAllocation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid rse time request id"})
		return
	}
	a, err := h.svc.GetRSEAllocation(actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// UpdateRSEStatus godoc
// @Summary Approve, decline, revoke, suspend or close an RSE time request
// @Tags rse-allocations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path uint true "RSE time request ID"
// @Param request body project.UpdateStatusDTO true "Requested status"
// @Success 200 {object} allocation.RSEAllocationRequest
// @Failure 400 {object} response.ErrorResponse "Invalid transition"
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Status changed, please retry"
// @Router /rse-allocations/{id}/status [put]
func (h *AllocationHandler) UpdateRSEStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid rse time request id"})
		return
	}
	var input project.UpdateStatusDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	a, err := h.transitions.TransitionRSEAllocation(c.Request.Context(), actor, application.ApprovalTransition{
		ID:       id,
		To:       input.Status,
		Expected: input.ExpectedStatus,
		Reason:   input.ReasonDecision,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// RSEHistory godoc
// @Summary Status history of an RSE time request
// @Tags rse-allocations
// @Security BearerAuth
// @Produce json
// @Param id path uint true "RSE time request ID"
// @Success 200 {array} audit.StatusChange
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /rse-allocations/{id}/history [get]
func (h *AllocationHandler) RSEHistory(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid rse time request id"})
		return
	}
	if _, err := h.svc.GetRSEAllocation(actor, id); err != nil {
		writeError(c, err)
		return
	}
	changes, err := h.audit.History(audit.EntityRSEAllocation, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, changes)
}
