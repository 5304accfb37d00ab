package provision

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ZakariaElKhaldi/iaai-learnexport-backend/internal/db"

	"github.com/google/uuid"
)

// DBStore is the Postgres-backed provisioning store. Every insert carries an
// ON CONFLICT clause keyed on the principal id, which is what makes
// at-least-once re-delivery of the same event safe.
type DBStore struct {
	db *db.DB
}

func NewDBStore(db *db.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) CreateProfile(ctx context.Context, p Profile) error {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", p.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_profiles (id, email, username, full_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, id, p.Email, p.Username, p.FullName)

	return err
}

func (s *DBStore) CreateSettings(ctx context.Context, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_settings (id)
		VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`, id)

	return err
}

func (s *DBStore) FindRoleID(ctx context.Context, name string) (string, error) {
	var roleID uuid.UUID

	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM roles
		WHERE name = $1
	`, name).Scan(&roleID)

	if err == sql.ErrNoRows {
		return "", ErrRoleNotFound
	}
	if err != nil {
		return "", err
	}

	return roleID.String(), nil
}

func (s *DBStore) AssignRole(ctx context.Context, userID, roleID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", userID, err)
	}

	rid, err := uuid.Parse(roleID)
	if err != nil {
		return fmt.Errorf("invalid role id %q: %w", roleID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, uid, rid)

	return err
}

// RecordFailure accepts whatever user id it is given, valid uuid or not;
// a garbage id is exactly the kind of event operators need to see.
func (s *DBStore) RecordFailure(ctx context.Context, userID, email, reason string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO provisioning_failures (user_id, email, reason)
		VALUES ($1, $2, $3)
	`, userID, email, reason)

	return err
}
