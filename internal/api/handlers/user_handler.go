package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/api/middleware"
	"github.com/linskybing/hpc-portal/internal/application"
	"github.com/linskybing/hpc-portal/internal/config"
	"github.com/linskybing/hpc-portal/pkg/response"
)

type UserHandler struct {
	svc *application.UserService
}

func NewUserHandler(svc *application.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Login godoc
// @Summary Log in with the identity asserted by the Shibboleth service provider
// @Tags auth
// @Produce json
// @Success 200 {object} response.TokenResponse "JWT token and user info"
// @Failure 401 {object} response.ErrorResponse "No identity supplied"
// @Failure 403 {object} response.ErrorResponse "Institution not registered"
// @Router /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	u, token, roles, err := h.svc.Login(middleware.ShibbolethIdentity(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		"token",
		token,
		int(config.TokenLifetime.Seconds()),
		"/",
		"",
		c.Request.TLS != nil,
		true,
	)

	c.JSON(http.StatusOK, response.TokenResponse{
		Token:    token,
		UID:      u.ID,
		Username: u.Username,
		Roles:    roles,
	})
}

// Logout godoc
// @Summary User logout
// @Tags auth
// @Produce json
// @Success 200 {object} response.MessageResponse "Logout successful"
// @Router /logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, response.MessageResponse{Message: "Logout successful"})
}

// Me godoc
// @Summary Current user with roles
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} user.UserDTO
// @Failure 404 {object} response.ErrorResponse
// @Router /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	dto, err := h.svc.GetUser(actor.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}
