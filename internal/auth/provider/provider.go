package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/auth"
)

// Provider defines the contract for the external identity provider the
// gateway delegates credential workflows to. Implementations return identity
// facts only; validation and response mapping live in the handler layer.
type Provider interface {
	// SignUp creates a new account. The returned session may be nil when the
	// provider requires email confirmation before issuing tokens.
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*auth.Principal, *auth.Session, error)

	// SignIn exchanges credentials for a principal and a session.
	SignIn(ctx context.Context, email, password string) (*auth.Principal, *auth.Session, error)

	// SignOut invalidates the session behind the given access token.
	SignOut(ctx context.Context, accessToken string) error

	// VerifyToken resolves the principal behind a bearer token.
	VerifyToken(ctx context.Context, accessToken string) (*auth.Principal, error)
}

// Error is a failure reported by the provider itself, as opposed to a
// transport failure reaching it. Status carries the upstream HTTP status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider: %s (status %d)", e.Message, e.Status)
}

// AsError unwraps a provider-reported error from err, if there is one.
func AsError(err error) (*Error, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

// IsClientError reports whether err is a provider-reported failure the caller
// can correct, such as a duplicate account or rejected input.
func IsClientError(err error) bool {
	perr, ok := AsError(err)
	return ok && perr.Status >= 400 && perr.Status < 500
}
