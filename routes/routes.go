package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hearth/handlers"
)

// RegisterReminderRoutes registers standalone reminder endpoints.
func RegisterReminderRoutes(r *gin.Engine, h *handlers.ReminderHandler) {
	api := r.Group("/api/reminders")
	{
		api.POST("", h.SaveReminder)
		api.DELETE("/:id", h.DeleteReminder)
		api.PATCH("/:id/active", h.ToggleReminder)
	}
}

// RegisterBindingRoutes registers per-activity reminder binding endpoints.
func RegisterBindingRoutes(r *gin.Engine, h *handlers.BindingHandler) {
	api := r.Group("/api/activities/:type/:id/reminder")
	{
		api.GET("", h.GetBinding)
		api.PUT("", h.PutBinding)
		api.DELETE("", h.DeleteBinding)
	}
}

// RegisterEventRoutes registers calendar mirror and internal event endpoints.
func RegisterEventRoutes(r *gin.Engine, h *handlers.EventHandler) {
	api := r.Group("/api/events")
	{
		api.POST("/mirror", h.SaveMirroredEvent)
		api.DELETE("/mirror/:id", h.DeleteMirroredEvent)
		api.POST("/internal", h.SaveInternalEvent)
		api.DELETE("/internal/:key", h.DeleteInternalEvent)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, rh *handlers.ReminderHandler, bh *handlers.BindingHandler, eh *handlers.EventHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-User-Id"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterReminderRoutes(r, rh)
	RegisterBindingRoutes(r, bh)
	RegisterEventRoutes(r, eh)
	RegisterHealthRoute(r)
}
