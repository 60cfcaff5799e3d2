package routes

import (
	"time"

	"voicedesk/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle aggregates the HTTP handlers the router wires up.
type HandlerBundle struct {
	SessionHandler *handlers.SessionHandler
	BookingHandler *handlers.BookingHandler
	HealthHandler  gin.HandlerFunc
}

// RegisterSessionRoutes registers the conversation lifecycle and turn endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/sessions")
	{
		api.POST("", hb.SessionHandler.CreateSession)
		api.DELETE("/:id", hb.SessionHandler.EndSession)
		api.POST("/:id/turn", hb.SessionHandler.Turn)
		api.POST("/:id/tool", hb.SessionHandler.ToolCall)
	}
}

// RegisterBookingRoutes registers confirmed-booking lookups.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.GET("/:id", hb.BookingHandler.GetBooking)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSessionRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
