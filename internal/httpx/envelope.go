// Package httpx contains the HTTP plumbing shared by every service: the
// JSON response envelope, the bearer-token guard, and common gin middleware.
package httpx

import "github.com/gin-gonic/gin"

// Envelope is the uniform response body: {success, message, data}.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK writes a 200/201-style success envelope.
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes an error envelope with the given status.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

// Abort writes an error envelope and stops the handler chain. Used by
// middleware so no downstream handler runs after an auth failure.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}
