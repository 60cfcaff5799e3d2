package handlers

import (
	"net/http"

	"voicedesk/services/session"
	"voicedesk/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness plus the latest dependency and
// provider-pool snapshot from the background monitor.
func HealthHandler(registry *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": registry.Count(),
			"checks":   utils.GetHealthStatus(),
		})
	}
}
