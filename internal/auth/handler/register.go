package handler

import (
	"net/http"

	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/auth/provider"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/logger"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/provision"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	// Validate locally before burning a provider request
	if err := h.validator.Registration(req.Email, req.Password); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var metadata map[string]any
	if req.Name != "" {
		metadata = map[string]any{"name": req.Name}
	}

	user, sess, err := h.provider.SignUp(
		c.Request.Context(),
		req.Email,
		req.Password,
		metadata,
	)

	if err != nil {
		if perr, ok := provider.AsError(err); ok && provider.IsClientError(err) {
			logger.Warn("provider rejected registration", map[string]any{
				"status": perr.Status,
				"error":  perr.Message,
			})
			respondError(c, http.StatusBadRequest, perr.Message)
			return
		}

		logger.Error("registration failed", map[string]any{
			"error": err.Error(),
		})
		respondError(c, http.StatusInternalServerError, "An error occurred during registration")
		return
	}

	// Provisioning is asynchronous and never blocks or fails registration;
	// a lost enqueue is reconciled out-of-band.
	if err := h.queue.Enqueue(c.Request.Context(), provision.Event{
		UserID:   user.ID,
		Email:    user.Email,
		Metadata: user.Metadata,
	}); err != nil {
		logger.Error("failed to enqueue provisioning event", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}

	data := gin.H{"user": user}
	if sess != nil {
		data["session"] = sess
	}

	respondSuccess(
		c,
		http.StatusCreated,
		"Registration successful. Please check your email for confirmation.",
		data,
	)
}
