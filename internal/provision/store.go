package provision

import (
	"context"
	"errors"
)

// ErrRoleNotFound is returned by FindRoleID when no role has the given name.
var ErrRoleNotFound = errors.New("role not found")

// Profile is the internal user-profile row derived from a provider account.
type Profile struct {
	ID       string
	Email    string
	Username string
	FullName string
}

// Store persists provisioning rows. Every write keyed on a principal id must
// be idempotent: re-applying it for the same id must not produce duplicates.
type Store interface {
	CreateProfile(ctx context.Context, p Profile) error
	CreateSettings(ctx context.Context, userID string) error
	FindRoleID(ctx context.Context, name string) (string, error)
	AssignRole(ctx context.Context, userID, roleID string) error

	// RecordFailure files a row for out-of-band reconciliation when
	// provisioning could not complete.
	RecordFailure(ctx context.Context, userID, email, reason string) error
}
