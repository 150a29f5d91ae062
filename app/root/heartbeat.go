// Package root contains handlers that don't belong to a resource
package root

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Heartbeat is used by load balancers and uptime checks
func Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}
