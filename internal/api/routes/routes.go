package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swiftride/dispatch/internal/api/handlers"
	"github.com/swiftride/dispatch/internal/api/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, nrApp *newrelic.Application) {
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1", middleware.Identity())
	{
		requests := v1.Group("/requests")
		{
			requests.POST("", middleware.RequireRole(middleware.RoleRider), h.CreateRequest)
			requests.GET("/estimate", middleware.RequireRole(middleware.RoleRider), h.FareEstimate)
			requests.POST("/:id/cancel", middleware.RequireRole(middleware.RoleRider), h.CancelRequest)

			requests.GET("/nearby", middleware.RequireRole(middleware.RoleDriver), h.NearbyRequests)
			requests.POST("/:id/accept", middleware.RequireRole(middleware.RoleDriver), h.AcceptRequest)
			requests.POST("/:id/reject", middleware.RequireRole(middleware.RoleDriver), h.RejectRequest)
		}

		drivers := v1.Group("/drivers", middleware.RequireRole(middleware.RoleDriver))
		{
			drivers.PUT("/location", h.UpdateLocation)
			drivers.GET("/location/stream", h.StreamLocation)
		}

		rides := v1.Group("/rides", middleware.RequireRole(middleware.RoleDriver))
		{
			rides.PUT("/:id/status", h.UpdateRideStatus)
		}

		riders := v1.Group("/riders", middleware.RequireRole(middleware.RoleRider))
		{
			riders.GET("/active", h.ActivePhase)
		}
	}
}
