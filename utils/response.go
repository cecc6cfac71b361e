package utils

import "github.com/gin-gonic/gin"

// MessageResponse is the body of informational responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failure: a single human-readable
// message, never raw store errors or internal identifiers.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Message writes an informational JSON body with the given status code.
func Message(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, MessageResponse{Message: message})
}

// Error writes a failure JSON body with the given status code.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, ErrorResponse{Message: message})
}
