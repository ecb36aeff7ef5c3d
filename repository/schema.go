package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// schemaStatements create the tables and indexes used by the repositories.
// Profiles are keyed by the user id issued by the hosted auth backend.
var schemaStatements = []struct {
	name string
	sql  string
}{
	{"profiles", `
CREATE TABLE IF NOT EXISTS profiles (
    id UUID PRIMARY KEY,
    username VARCHAR(50),
    avatar_url TEXT,
    location VARCHAR(255),
    onboarding_completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"initial_preferences", `
CREATE TABLE IF NOT EXISTS initial_preferences (
    user_id UUID PRIMARY KEY REFERENCES profiles(id) ON DELETE CASCADE,
    cold_tolerance SMALLINT NOT NULL DEFAULT 0 CHECK (cold_tolerance BETWEEN -1 AND 1),
    preferred_items TEXT[] NOT NULL DEFAULT '{}',
    excluded_items TEXT[] NOT NULL DEFAULT '{}',
    prefers_layers BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"packing_plans", `
CREATE TABLE IF NOT EXISTS packing_plans (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL,
    destination VARCHAR(255) NOT NULL,
    start_date DATE NOT NULL,
    end_date DATE NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'pending'
        CHECK (status IN ('pending', 'in_progress', 'completed', 'failed')),
    current_step VARCHAR(100),
    steps JSONB NOT NULL DEFAULT '[]'::jsonb,
    items JSONB NOT NULL DEFAULT '[]'::jsonb,
    days JSONB NOT NULL DEFAULT '[]'::jsonb,
    fitcast TEXT,
    error_message TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ,
    CHECK (end_date >= start_date)
)`},
	{"idx_packing_plans_user", `CREATE INDEX IF NOT EXISTS idx_packing_plans_user ON packing_plans(user_id, created_at DESC)`},
	{"idx_packing_plans_status", `CREATE INDEX IF NOT EXISTS idx_packing_plans_status ON packing_plans(status)`},
}

// CreateSchema creates every table and index that does not exist yet
func CreateSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
		logrus.WithField("object", stmt.name).Info("Schema object ready")
	}
	return nil
}

// DropSchema removes the tables, for local development resets
func DropSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, table := range []string{"packing_plans", "initial_preferences", "profiles"} {
		if _, err := db.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}
	return nil
}
