package routes

import (
	"net/http"
	"time"

	"github.com/ConteMartin/PASTO/handlers"
	"github.com/ConteMartin/PASTO/middleware"
	"github.com/ConteMartin/PASTO/models"
	"github.com/ConteMartin/PASTO/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		api.GET("/me", hb.Auth.MeHandler)
	}
}

// RegisterServiceRoutes sets up the endpoints of the dispatch engine.
func RegisterServiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/services")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	{
		// Client-side flow: quote, create, track.
		client := api.Group("")
		client.Use(middleware.RequireRole(models.RoleClient))
		client.POST("/estimate", hb.Requests.EstimateHandler)
		client.POST("/request", hb.Requests.CreateRequestHandler)
		client.GET("/my-requests", hb.Requests.MyRequestsHandler)

		// Gardener-side flow: browse, accept, work.
		gardener := api.Group("")
		gardener.Use(middleware.RequireRole(models.RoleGardener))
		gardener.GET("/available", hb.Requests.AvailableHandler)
		gardener.GET("/my-jobs", hb.Requests.MyJobsHandler)
		gardener.POST("/:id/accept", hb.Requests.AcceptHandler)

		// Either side; the lifecycle guards decide who may act.
		api.POST("/:id/update-status", hb.Requests.UpdateStatusHandler)
		api.POST("/:id/rate", hb.Requests.RateHandler)
	}
}

// RegisterNotificationRoutes registers the notification feed endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	{
		api.GET("", hb.Notifications.ListHandler)
		api.POST("/:id/read", hb.Notifications.MarkReadHandler)
	}
}

// RegisterGardenerRoutes registers gardener profile endpoints.
func RegisterGardenerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/gardener")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
	api.Use(middleware.RequireRole(models.RoleGardener))
	{
		api.GET("/profile", hb.Auth.GardenerProfileHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "PASTO! API is up",
			"checks":  utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterServiceRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterGardenerRoutes(r, hb)
	RegisterHealthRoute(r)
}
