package handlers

import (
	"fmt"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/application"
	"github.com/linskybing/hpc-portal/internal/domain/allocation"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/pkg/response"
	"github.com/linskybing/hpc-portal/pkg/utils"
)

const maxDocumentSize = 20 << 20

type AllocationHandler struct {
	svc         *application.AllocationService
	transitions *application.TransitionService
	audit       *application.AuditService
}

func NewAllocationHandler(svc *application.AllocationService, transitions *application.TransitionService, audit *application.AuditService) *AllocationHandler {
	return &AllocationHandler{svc: svc, transitions: transitions, audit: audit}
}

// CreateAllocation godoc
// @Summary Request a system allocation for a project (tech lead only)
// @Tags allocations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path uint true "Project ID"
// @Param request body allocation.CreateAllocationDTO true "Allocation request"
// @Success 201 {object} allocation.SystemAllocationRequest
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /projects/{id}/allocations [post]
func (h *AllocationHandler) CreateAllocation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	projectID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	var input allocation.CreateAllocationDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	a, err := h.svc.CreateAllocation(c, actor, projectID, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ListProjectAllocations godoc
// @Summary List a project's allocation requests
// @Tags allocations
// @Security BearerAuth
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {array} allocation.SystemAllocationRequest
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /projects/{id}/allocations [get]
func (h *AllocationHandler) ListProjectAllocations(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	projectID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	as, err := h.svc.ListProjectAllocations(actor, projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, as)
}

// ListAllocations godoc
// @Summary List allocation requests (allocation approvers)
// @Tags allocations
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {array} allocation.SystemAllocationRequest
// @Failure 403 {object} response.ErrorResponse
// @Router /allocations [get]
func (h *AllocationHandler) ListAllocations(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	status, ok := statusQuery(c)
	if !ok {
		return
	}
	as, err := h.svc.ListAllocations(actor, status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, as)
}

// GetAllocation godoc
// @Summary Get an allocation request
// @Tags allocations
// @Security BearerAuth
// @Produce json
// @Param id path uint true "Allocation ID"
// @Success 200 {object} allocation.SystemAllocationRequest
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /allocations/{id} [get]
func (h *AllocationHandler) GetAllocation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid allocation id"})
		return
	}
	a, err := h.svc.GetAllocation(actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// UpdateStatus godoc
// @Summary Approve, decline, revoke, suspend or close an allocation request
// @Tags allocations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path uint true "Allocation ID"
// @Param request body project.UpdateStatusDTO true "Requested status"
// @Success 200 {object} allocation.SystemAllocationRequest
// @Failure 400 {object} response.ErrorResponse "Invalid transition"
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Status changed, please retry"
// @Router /allocations/{id}/status [put]
func (h *AllocationHandler) UpdateStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid allocation id"})
		return
	}
	var input project.UpdateStatusDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	a, err := h.transitions.TransitionAllocation(c.Request.Context(), actor, application.ApprovalTransition{
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

// UploadDocument godoc
// @Summary Upload the supporting document of an allocation request
// @Tags allocations
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path uint true "Allocation ID"
// @Param document formData file true "Supporting document"
// @Success 200 {object} allocation.SystemAllocationRequest
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /allocations/{id}/document [post]
func (h *AllocationHandler) UploadDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid allocation id"})
		return
	}
	fh, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "document file is required"})
		return
	}
	if fh.Size > maxDocumentSize {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "document is too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	a, err := h.svc.UploadDocument(c, actor, id, fh.Filename, f, fh.Size, contentType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DownloadDocument godoc
// @Summary Download the supporting document of an allocation request
// @Tags allocations
// @Security BearerAuth
// @Produce octet-stream
// @Param id path uint true "Allocation ID"
// @Success 200 {file} file
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /allocations/{id}/document [get]
func (h *AllocationHandler) DownloadDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid allocation id"})
		return
	}
	body, size, key, err := h.svc.OpenDocument(c.Request.Context(), actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, size, "application/octet-stream", body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	})
}

// History godoc
// @Summary Status history of an allocation request
// @Tags allocations
// @Security BearerAuth
// @Produce json
// @Param id path uint true "Allocation ID"
// @Success 200 {array} audit.StatusChange
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /allocations/{id}/history [get]
func (h *AllocationHandler) History(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid allocation id"})
		return
	}
	if _, err := h.svc.GetAllocation(actor, id); err != nil {
		writeError(c, err)
		return
	}
	changes, err := h.audit.History(audit.EntityAllocation, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, changes)
}

// ListSystems godoc
// @Summary List the systems allocations can be requested on
// @Tags systems
// @Security BearerAuth
// @Produce json
// @Success 200 {array} system.System
// @Router /systems [get]
func (h *AllocationHandler) ListSystems(c *gin.Context) {
	systems, err := h.svc.ListSystems()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, systems)
}
