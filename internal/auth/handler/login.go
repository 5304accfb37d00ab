package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	if err := h.validator.Email(req.Email); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, sess, err := h.provider.SignIn(
		c.Request.Context(),
		req.Email,
		req.Password,
	)

	if err != nil {
		// uniform response; never reveal whether the account exists
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	respondSuccess(c, http.StatusOK, "Login successful", gin.H{
		"user":    user,
		"session": sess,
	})
}
