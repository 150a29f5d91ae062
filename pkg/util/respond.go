package util

import "github.com/gin-gonic/gin"

// Respond writes the standard response envelope
func Respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"statusCode": status,
		"message":    message,
		"data":       data,
	})
}

// Abort writes an error envelope and stops the handler chain. The request ID
// is included when the request ID middleware already ran.
func Abort(c *gin.Context, status int, message string) {
	body := gin.H{
		"statusCode": status,
		"message":    message,
		"data":       nil,
	}

	if requestID := c.GetString("requestID"); requestID != "" {
		body["requestID"] = requestID
	}

	c.AbortWithStatusJSON(status, body)
}
