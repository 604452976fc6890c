package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/application"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/pkg/response"
	"github.com/linskybing/hpc-portal/pkg/utils"
)

type MembershipHandler struct {
	svc         *application.MembershipService
	transitions *application.TransitionService
	audit       *application.AuditService
}

func NewMembershipHandler(svc *application.MembershipService, transitions *application.TransitionService, audit *application.AuditService) *MembershipHandler {
	return &MembershipHandler{svc: svc, transitions: transitions, audit: audit}
}

// JoinProject godoc
// @Summary Request to join a project by its code
// @Tags memberships
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body membership.JoinProjectDTO true "Project code"
// @Success 201 {object} membership.ProjectUserMembership
// @Failure 400 {object} response.ErrorResponse
// @Router /memberships/join [post]
func (h *MembershipHandler) JoinProject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var input membership.JoinProjectDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	m, err := h.svc.JoinProject(c, actor, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// InviteUser godoc
// @Summary Invite a registered user to a project (tech lead only)
// @Tags memberships
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path uint true "Project ID"
// @Param request body membership.InviteUserDTO true "Invitee email"
// @Success 201 {object} membership.ProjectUserMembership
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /projects/{id}/invitations [post]
func (h *MembershipHandler) InviteUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	projectID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	var input membership.InviteUserDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	m, err := h.svc.InviteUser(c, actor, projectID, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ListMine godoc
// @Summary List the current user's memberships and invitations
// @Tags memberships
// @Security BearerAuth
// @Produce json
// @Success 200 {array} membership.ProjectUserMembership
// @Router /memberships [get]
func (h *MembershipHandler) ListMine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	ms, err := h.svc.ListMine(actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}

// ListRequests godoc
// @Summary List join requests on projects the current user leads
// @Tags memberships
// @Security BearerAuth
// @Produce json
// @Success 200 {array} membership.ProjectUserMembership
// @Router /memberships/requests [get]
func (h *MembershipHandler) ListRequests(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	ms, err := h.svc.ListRequests(actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}

// ListProjectMemberships godoc
// @Summary List a project's memberships
// @Tags memberships
// @Security BearerAuth
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {array} membership.ProjectUserMembership
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /projects/{id}/memberships [get]
func (h *MembershipHandler) ListProjectMemberships(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	projectID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	ms, err := h.svc.ListProjectMemberships(actor, projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}

// visible allows the member, the project's tech lead and project approvers.
func visible(actor lifecycle.Actor, m *membership.ProjectUserMembership) bool {
	return m.UserID == actor.UserID || m.Project.TechLeadID == actor.UserID || actor.Has(lifecycle.CapProjectApprove)
}

// GetMembership godoc
// @Summary Get a membership
// @Tags memberships
// @Security BearerAuth
// @Produce json
// @Param id path uint true "Membership ID"
// @Success 200 {object} membership.ProjectUserMembership
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /memberships/{id} [get]
func (h *MembershipHandler) GetMembership(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid membership id"})
		return
	}
	m, err := h.svc.GetMembership(id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !visible(actor, m) {
		writeError(c, application.ErrForbidden)
		return
	}
	c.JSON(http.StatusOK, m)
}

// UpdateStatus godoc
// @Summary Move a membership to a new status
// @Tags memberships
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path uint true "Membership ID"
// @Param request body membership.UpdateStatusDTO true "Requested status"
// @Success 200 {object} membership.ProjectUserMembership
// @Failure 400 {object} response.ErrorResponse "Invalid transition"
// @Failure 403 {object} response.ErrorResponse "Not allowed for this actor"
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Status changed, please retry"
// @Router /memberships/{id}/status [put]
func (h *MembershipHandler) UpdateStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid membership id"})
		return
	}
	var input membership.UpdateStatusDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	m, err := h.transitions.TransitionMembership(c.Request.Context(), actor, application.MembershipTransition{
		ID:       id,
		To:       input.Status,
		Expected: input.ExpectedStatus,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// History godoc
// @Summary Status history of a membership
// @Tags memberships
// @Security BearerAuth
// @Produce json
// @Param id path uint true "Membership ID"
// @Success 200 {array} audit.StatusChange
// @Failure 404 {object} response.ErrorResponse
// @Router /memberships/{id}/history [get]
func (h *MembershipHandler) History(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid membership id"})
		return
	}
	m, err := h.svc.GetMembership(id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !visible(actor, m) {
		writeError(c, application.ErrForbidden)
		return
	}
	changes, err := h.audit.History(audit.EntityMembership, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, changes)
}
