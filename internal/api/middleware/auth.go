package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/config"
	"github.com/linskybing/hpc-portal/internal/domain/user"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/pkg/response"
	"github.com/linskybing/hpc-portal/pkg/types"
)

const actorKey = "actor"

// CapabilityResolver maps a user to the capabilities granted by their roles.
type CapabilityResolver interface {
	Capabilities(ctx context.Context, userID uint) (map[lifecycle.Capability]bool, error)
}

// Auth turns verified JWT claims into an Actor and guards capability routes.
type Auth struct {
	resolver CapabilityResolver
}

func NewAuth(resolver CapabilityResolver) *Auth {
	return &Auth{resolver: resolver}
}

// Actor must run after JWTAuthMiddleware.
func (a *Auth) Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.MustGet("claims").(*types.Claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Invalid token claims"})
			return
		}

		caps, err := a.resolver.Capabilities(c.Request.Context(), claims.UserID)
		if err != nil {
			slog.Error("resolve capabilities", "user_id", claims.UserID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorResponse{Error: "internal error"})
			return
		}

		c.Set(actorKey, lifecycle.Actor{
			UserID:       claims.UserID,
			Email:        claims.Email,
			Capabilities: caps,
		})
		c.Next()
	}
}

// RequireCapability rejects actors whose roles do not grant cap.
func (a *Auth) RequireCapability(cap lifecycle.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := ActorFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
			return
		}
		if !actor.Has(cap) {
			slog.Warn("capability denied", "user_id", actor.UserID, "capability", cap, "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{Error: "Permission denied"})
			return
		}
		c.Next()
	}
}

func ActorFromContext(c *gin.Context) (lifecycle.Actor, error) {
	v, exists := c.Get(actorKey)
	if !exists {
		return lifecycle.Actor{}, errors.New("actor not found in context")
	}
	actor, ok := v.(lifecycle.Actor)
	if !ok {
		return lifecycle.Actor{}, errors.New("invalid actor type")
	}
	return actor, nil
}

// ShibbolethIdentity reads the attributes the service provider injects as
// request headers. The web server must strip client supplied copies.
func ShibbolethIdentity(c *gin.Context) user.ShibbolethIdentity {
	return user.ShibbolethIdentity{
		RemoteUser:       firstHeader(c, "REMOTE_USER", "Remote-User", "X-Remote-User", "eppn"),
		IdentityProvider: firstHeader(c, "Shib-Identity-Provider"),
		GivenName:        firstHeader(c, "givenName"),
		Surname:          firstHeader(c, "sn"),
	}
}

func firstHeader(c *gin.Context, names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(c.GetHeader(n)); v != "" {
			return v
		}
	}
	return ""
}

func CORSMiddleware() gin.HandlerFunc {
	allowed := make(map[string]bool, len(config.AllowedOrigins))
	for _, o := range config.AllowedOrigins {
		allowed[o] = true
	}

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if allowed[origin] {
				return true
			}
			return strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
