package handler

import (
	"net/http"

	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/auth/provider"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/auth/validate"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/provision"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	provider  provider.Provider
	validator *validate.Validator
	queue     provision.Queue
}

func NewHandler(
	p provider.Provider,
	v *validate.Validator,
	q provision.Queue,
) *Handler {
	return &Handler{
		provider:  p,
		validator: v,
		queue:     q,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.GET("/health", h.Health)

	protected := r.Group("/")
	protected.Use(requireAuth)
	protected.GET("/me", h.Me)
	protected.GET("/protected", h.Protected)
}

// Health is an unauthenticated liveness probe.
func (h *Handler) Health(c *gin.Context) {
	respondSuccess(c, http.StatusOK, "Auth service is healthy", nil)
}
