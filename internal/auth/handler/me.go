package handler

import (
	"net/http"

	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Me returns the principal attached by the auth middleware. No extra
// provider call is made.
func (h *Handler) Me(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	respondSuccess(c, http.StatusOK, "", gin.H{"user": principal})
}

// Protected is a sample gated route that echoes the principal.
func (h *Handler) Protected(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	respondSuccess(
		c,
		http.StatusOK,
		"You have access to this protected route",
		gin.H{"user": principal},
	)
}
