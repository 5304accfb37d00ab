package handler

import (
	"net/http"

	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/auth/provider"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/logger"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Logout(c *gin.Context) {
	token, ok := middleware.BearerFromHeader(c.GetHeader("Authorization"))
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized: No token provided")
		return
	}

	if err := h.provider.SignOut(c.Request.Context(), token); err != nil {
		// propagate what the provider reports without amplifying it; an
		// already-invalidated token is the provider's call, not a 500
		if perr, ok := provider.AsError(err); ok {
			respondError(c, http.StatusBadRequest, perr.Message)
			return
		}

		logger.Error("logout failed", map[string]any{
			"error": err.Error(),
		})
		respondError(c, http.StatusInternalServerError, "An error occurred during logout")
		return
	}

	respondSuccess(c, http.StatusOK, "Logged out successfully", nil)
}
