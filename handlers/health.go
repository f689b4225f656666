package handlers

import (
	"net/http"

	"goldengeneration/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last snapshot of the health monitor.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "message": "Hi, I'm Golden Generation"})
}
