package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/application"
	"github.com/linskybing/hpc-portal/internal/domain/allocation"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/pkg/response"
	"github.com/linskybing/hpc-portal/pkg/utils"
)

type ProjectHandler struct {
	svc         *application.ProjectService
	transitions *application.TransitionService
	audit       *application.AuditService
}

func NewProjectHandler(svc *application.ProjectService, transitions *application.TransitionService, audit *application.AuditService) *ProjectHandler {
	return &ProjectHandler{svc: svc, transitions: transitions, audit: audit}
}

// statusQuery reads an optional ?status= filter.
func statusQuery(c *gin.Context) (*project.Status, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	s := project.Status(raw)
	if !s.Valid() {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "unknown status " + raw})
		return nil, false
	}
	return &s, true
}

// CreateProject godoc
// @Summary Submit a new project for approval
// @Tags projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body project.CreateProjectDTO true "Project"
// @Success 201 {object} project.Project
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var input project.CreateProjectDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.svc.CreateProject(c, actor, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ProjectWithAllocation is the body returned by CreateProjectWithAllocation.
type ProjectWithAllocation struct {
	Project    *project.Project                    `json:"project"`
	Allocation *allocation.SystemAllocationRequest `json:"allocation"`
}

// CreateProjectWithAllocation godoc
// @Summary Submit a new project together with its first allocation request
// @Tags projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body allocation.CreateProjectAndAllocationDTO true "Project and allocation"
// @Success 201 {object} handlers.ProjectWithAllocation
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Unknown system"
// @Router /projects/with-allocation [post]
func (h *ProjectHandler) CreateProjectWithAllocation(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var input allocation.CreateProjectAndAllocationDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	p, a, err := h.svc.CreateProjectWithAllocation(c, actor, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ProjectWithAllocation{Project: p, Allocation: a})
}

// GetProjects godoc
// @Summary List projects: all for approvers, led projects for everyone else
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter"
// @Success 200 {array} project.Project
// @Failure 400 {object} response.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	status, ok := statusQuery(c)
	if !ok {
		return
	}

	projects, err := h.svc.ListProjects(actor, status)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(projects) == 0 {
		c.JSON(http.StatusOK, []project.Project{})
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetProjectByID godoc
// @Summary Get project by ID
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {object} project.Project
// @Failure 404 {object} response.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProjectByID(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	p, err := h.svc.GetProject(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateStatus godoc
// @Summary Approve, decline, revoke, suspend or close a project
// @Tags projects
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path uint true "Project ID"
// @Param request body project.UpdateStatusDTO true "Requested status"
// @Success 200 {object} project.Project
// @Failure 400 {object} response.ErrorResponse "Invalid transition"
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Status changed, please retry"
// @Router /projects/{id}/status [put]
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	var input project.UpdateStatusDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.transitions.TransitionProject(c.Request.Context(), actor, application.ApprovalTransition{
		ID:       id,
		To:       input.Status,
		Expected: input.ExpectedStatus,
		Reason:   input.ReasonDecision,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SupervisorApprove godoc
// @Summary Record the named supervisor's sign-off
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {object} project.Project
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /projects/{id}/supervisor-approval [post]
func (h *ProjectHandler) SupervisorApprove(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	p, err := h.svc.SupervisorApprove(c, actor, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// History godoc
// @Summary Status history of a project
// @Tags projects
// @Security BearerAuth
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {array} audit.StatusChange
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /projects/{id}/history [get]
func (h *ProjectHandler) History(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	p, err := h.svc.GetProject(id)
	if err != nil {
		writeError(c, err)
		return
	}
	if p.TechLeadID != actor.UserID && !actor.Has(lifecycle.CapProjectApprove) {
		writeError(c, application.ErrForbidden)
		return
	}
	changes, err := h.audit.History(audit.EntityProject, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, changes)
}
