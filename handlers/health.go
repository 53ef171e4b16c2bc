package handlers

import (
	"net/http"

	"studiobook/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process health. A nil monitor means no Redis is in use.
func HealthHandler(monitor *utils.HealthMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if monitor == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		status := http.StatusOK
		state := "ok"
		if !monitor.Healthy() {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		c.JSON(status, gin.H{"status": state, "checks": monitor.Status()})
	}
}
