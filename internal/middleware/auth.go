package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/auth"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/auth/provider"
	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/logger"
)

// unexported, collision-proof context key
type principalContextKeyType struct{}

var principalKey = principalContextKeyType{}

// PrincipalFromContext extracts the verified principal from context.
func PrincipalFromContext(ctx context.Context) (*auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*auth.Principal)
	return p, ok
}

type bearerState int

const (
	bearerAbsent bearerState = iota
	bearerMalformed
	bearerOK
)

// parseBearer classifies the Authorization header. Exactly "Bearer <token>"
// yields bearerOK; no header is bearerAbsent; anything else is
// bearerMalformed.
func parseBearer(header string) (string, bearerState) {
	if header == "" {
		return "", bearerAbsent
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", bearerMalformed
	}

	return token, bearerOK
}

// BearerFromHeader extracts a bearer token for callers outside the middleware
// chain, collapsing the absent and malformed cases into a single "no token".
func BearerFromHeader(header string) (string, bool) {
	token, state := parseBearer(header)
	return token, state == bearerOK
}

type AuthMiddleware struct {
	Provider provider.Provider
}

func NewAuthMiddleware(p provider.Provider) *AuthMiddleware {
	return &AuthMiddleware{Provider: p}
}

// RequireAuth gates a protected route. Every request re-verifies its token
// against the provider; nothing is cached across requests, trading latency
// for freshness.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Classify the Authorization header
		token, state := parseBearer(r.Header.Get("Authorization"))

		switch state {
		case bearerAbsent, bearerMalformed:
			// the public contract reports both as a missing token
			reject(w, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		case bearerOK:
		}

		// 2. Verify against the provider
		principal, err := a.Provider.VerifyToken(r.Context(), token)
		if err != nil {
			reject(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}

		if principal == nil || principal.ID == "" {
			logger.Error("provider returned no principal for verified token", nil)
			reject(w, http.StatusInternalServerError, "An error occurred during authentication")
			return
		}

		// 3. Attach principal to context and continue
		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func reject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": message,
	})
}
