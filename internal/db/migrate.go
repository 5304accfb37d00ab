package db

import (
	"context"
	"database/sql"
)

// Idempotent by construction: every statement is IF NOT EXISTS or
// ON CONFLICT DO NOTHING, so re-running the migration is always safe.
const schemaMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS user_profiles (
    id uuid PRIMARY KEY,
    email text NOT NULL,
    username text NOT NULL,
    full_name text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_settings (
    id uuid PRIMARY KEY REFERENCES user_profiles(id) ON DELETE CASCADE,
    theme text NOT NULL DEFAULT 'light',
    language text NOT NULL DEFAULT 'en',
    email_notifications boolean NOT NULL DEFAULT true,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS roles (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    name text NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS user_roles (
    user_id uuid NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
    role_id uuid NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, role_id)
);

CREATE TABLE IF NOT EXISTS provisioning_failures (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id text NOT NULL,
    email text NOT NULL DEFAULT '',
    reason text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

INSERT INTO roles (name) VALUES ('user')
ON CONFLICT (name) DO NOTHING;
`

func RunSchemaMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaMigration)
	return err
}
