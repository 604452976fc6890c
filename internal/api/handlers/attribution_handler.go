package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/application"
	"github.com/linskybing/hpc-portal/internal/domain/funding"
	"github.com/linskybing/hpc-portal/pkg/response"
	"github.com/linskybing/hpc-portal/pkg/utils"
)

type AttributionHandler struct {
	svc *application.AttributionService
}

func NewAttributionHandler(svc *application.AttributionService) *AttributionHandler {
	return &AttributionHandler{svc: svc}
}

// CreateAttribution godoc
// @Summary Record a funding source or publication
// @Tags attributions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body funding.CreateAttributionDTO true "Attribution"
// @Success 201 {object} funding.Attribution
// @Failure 400 {object} response.ErrorResponse
// @Router /attributions [post]
func (h *AttributionHandler) CreateAttribution(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var input funding.CreateAttributionDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	a, err := h.svc.CreateAttribution(c, actor, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ListMine godoc
// @Summary List attributions created by the current user
// @Tags attributions
// @Security BearerAuth
// @Produce json
// @Success 200 {array} funding.Attribution
// @Router /attributions [get]
func (h *AttributionHandler) ListMine(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	as, err := h.svc.ListMine(actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, as)
}

// ListForProject godoc
// @Summary List attributions credited to a project
// @Tags attributions
// @Security BearerAuth
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {array} funding.Attribution
// @Failure 404 {object} response.ErrorResponse
// @Router /projects/{id}/attributions [get]
func (h *AttributionHandler) ListForProject(c *gin.Context) {
	projectID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	as, err := h.svc.ListForProject(projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, as)
}

// AttachToProject godoc
// @Summary Credit an attribution to a project (tech lead only)
// @Tags attributions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path uint true "Project ID"
// @Param request body funding.AttachAttributionDTO true "Attribution"
// @Success 200 {object} response.MessageResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /projects/{id}/attributions [post]
func (h *AttributionHandler) AttachToProject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	projectID, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	var input funding.AttachAttributionDTO
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.svc.AttachToProject(c, actor, projectID, input.AttributionID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "attribution attached"})
}
