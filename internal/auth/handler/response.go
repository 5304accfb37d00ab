package handler

import "github.com/gin-gonic/gin"

// envelope is the stable response contract: status plus either data or a
// human-readable message.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondSuccess(c *gin.Context, code int, message string, data any) {
	c.JSON(code, envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, envelope{
		Status:  "error",
		Message: message,
	})
}
