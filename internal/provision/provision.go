package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/logger"
)

const defaultRoleName = "user"

// Provisioner creates the internal profile, settings, and default role
// assignment for a newly created provider account.
type Provisioner struct {
	store Store
}

func NewProvisioner(store Store) *Provisioner {
	return &Provisioner{store: store}
}

// Provision handles one account-created event. Errors are contained here:
// they are logged and filed for reconciliation, and the event is still
// treated as handled, so account creation is never rolled back by a
// provisioning failure. Operators reconcile orphaned accounts from the
// recorded failures.
func (p *Provisioner) Provision(ctx context.Context, ev Event) {
	if err := p.provision(ctx, ev); err != nil {
		logger.Error("user provisioning failed", map[string]any{
			"user_id": ev.UserID,
			"error":   err.Error(),
		})

		if rerr := p.store.RecordFailure(ctx, ev.UserID, ev.Email, err.Error()); rerr != nil {
			logger.Error("failed to record provisioning failure", map[string]any{
				"user_id": ev.UserID,
				"error":   rerr.Error(),
			})
		}
	}
}

func (p *Provisioner) provision(ctx context.Context, ev Event) error {
	if ev.UserID == "" {
		return errors.New("event missing user id")
	}

	profile := Profile{
		ID:       ev.UserID,
		Email:    ev.Email,
		Username: usernameFor(ev),
		FullName: fullNameFor(ev),
	}

	if err := p.store.CreateProfile(ctx, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	if err := p.store.CreateSettings(ctx, ev.UserID); err != nil {
		return fmt.Errorf("create settings: %w", err)
	}

	roleID, err := p.store.FindRoleID(ctx, defaultRoleName)
	if errors.Is(err, ErrRoleNotFound) {
		// no default role configured; skipping the assignment is not fatal
		logger.Warn("default role missing, skipping assignment", map[string]any{
			"user_id": ev.UserID,
			"role":    defaultRoleName,
		})
		return nil
	}
	if err != nil {
		return fmt.Errorf("find default role: %w", err)
	}

	if err := p.store.AssignRole(ctx, ev.UserID, roleID); err != nil {
		return fmt.Errorf("assign default role: %w", err)
	}

	return nil
}

func usernameFor(ev Event) string {
	if s := metadataString(ev.Metadata, "username"); s != "" {
		return s
	}
	return localPart(ev.Email)
}

func fullNameFor(ev Event) string {
	if s := metadataString(ev.Metadata, "name"); s != "" {
		return s
	}
	if s := metadataString(ev.Metadata, "full_name"); s != "" {
		return s
	}
	return localPart(ev.Email)
}

func metadataString(metadata map[string]any, key string) string {
	s, _ := metadata[key].(string)
	return s
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
