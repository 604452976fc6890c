package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/api/handlers"
	"github.com/linskybing/hpc-portal/internal/api/middleware"
	"github.com/linskybing/hpc-portal/internal/application"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *gin.Engine, services *application.Services, resolver middleware.CapabilityResolver) {
	h := handlers.New(services)
	authMiddleware := middleware.NewAuth(resolver)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/login", h.User.Login)
	r.POST("/logout", h.User.Logout)

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(), authMiddleware.Actor())
	{
		auth.GET("/me", h.User.Me)
		auth.GET("/systems", h.Allocation.ListSystems)

		memberships := auth.Group("/memberships")
		{
			memberships.GET("", h.Membership.ListMine)
			memberships.POST("/join", h.Membership.JoinProject)
			memberships.GET("/requests", h.Membership.ListRequests)
			memberships.GET("/:id", h.Membership.GetMembership)
			memberships.PUT("/:id/status", h.Membership.UpdateStatus)
			memberships.GET("/:id/history", h.Membership.History)
		}

		projects := auth.Group("/projects")
		{
			projects.GET("", h.Project.GetProjects)
			projects.POST("", authMiddleware.RequireCapability(lifecycle.CapProjectAdd), h.Project.CreateProject)
			projects.POST("/with-allocation", authMiddleware.RequireCapability(lifecycle.CapProjectAdd), h.Project.CreateProjectWithAllocation)
			projects.GET("/:id", h.Project.GetProjectByID)
			projects.PUT("/:id/status", h.Project.UpdateStatus)
			projects.POST("/:id/supervisor-approval", h.Project.SupervisorApprove)
			projects.GET("/:id/history", h.Project.History)
			projects.GET("/:id/memberships", h.Membership.ListProjectMemberships)
			projects.POST("/:id/invitations", h.Membership.InviteUser)
			projects.GET("/:id/allocations", h.Allocation.ListProjectAllocations)
			projects.POST("/:id/allocations", h.Allocation.CreateAllocation)
			projects.GET("/:id/rse-allocations", h.Allocation.ListProjectRSEAllocations)
			projects.POST("/:id/rse-allocations", h.Allocation.CreateRSEAllocation)
			projects.GET("/:id/attributions", h.Attribution.ListForProject)
			projects.POST("/:id/attributions", h.Attribution.AttachToProject)
		}

		allocations := auth.Group("/allocations")
		{
			allocations.GET("", authMiddleware.RequireCapability(lifecycle.CapAllocationApprove), h.Allocation.ListAllocations)
			allocations.GET("/:id", h.Allocation.GetAllocation)
			allocations.PUT("/:id/status", h.Allocation.UpdateStatus)
			allocations.POST("/:id/document", h.Allocation.UploadDocument)
			allocations.GET("/:id/document", h.Allocation.DownloadDocument)
			allocations.GET("/:id/history", h.Allocation.History)
		}

		rse := auth.Group("/rse-allocations")
		{
			rse.GET("", authMiddleware.RequireCapability(lifecycle.CapAllocationApprove), h.Allocation.ListRSEAllocations)
			rse.GET("/:id", h.Allocation.GetRSEAllocation)
			rse.PUT("/:id/status", h.Allocation.UpdateRSEStatus)
			rse.GET("/:id/history", h.Allocation.RSEHistory)
		}

		attributions := auth.Group("/attributions")
		{
			attributions.GET("", h.Attribution.ListMine)
			attributions.POST("", h.Attribution.CreateAttribution)
		}

		audit := auth.Group("/audit/logs")
		{
			audit.GET("", authMiddleware.RequireCapability(lifecycle.CapAuditRead), h.Audit.GetAuditLogs)
		}
	}
}
