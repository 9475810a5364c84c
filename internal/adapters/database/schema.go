package database

import (
	"context"

	"github.com/zatekoja/learnplan/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
)

const (
	resourcesTable    = "learning_resources"
	contributorsTable = "contributors"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS contributors (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		email           TEXT NOT NULL UNIQUE,
		password_hash   TEXT NOT NULL,
		expertise_areas TEXT[] NOT NULL DEFAULT '{}',
		organization    TEXT NOT NULL DEFAULT '',
		bio             TEXT NOT NULL DEFAULT '',
		is_verified     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_login      TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS learning_resources (
		id                TEXT PRIMARY KEY,
		title             TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		url               TEXT NOT NULL UNIQUE,
		type              TEXT NOT NULL,
		difficulty        SMALLINT NOT NULL CHECK (difficulty BETWEEN 1 AND 5),
		duration          TEXT NOT NULL DEFAULT '',
		cost              TEXT NOT NULL DEFAULT '',
		language          TEXT NOT NULL DEFAULT 'en',
		provider          TEXT NOT NULL DEFAULT '',
		author            TEXT NOT NULL DEFAULT '',
		rating            DOUBLE PRECISION NOT NULL DEFAULT 0,
		review_count      INTEGER NOT NULL DEFAULT 0,
		hashtags          TEXT[] NOT NULL DEFAULT '{}',
		prerequisites     TEXT[] NOT NULL DEFAULT '{}',
		learning_outcomes TEXT[] NOT NULL DEFAULT '{}',
		target_audience   TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT 'pending_review',
		priority_score    DOUBLE PRECISION NOT NULL DEFAULT 1.0,
		created_by        TEXT REFERENCES contributors(id) ON DELETE SET NULL,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_learning_resources_status_difficulty ON learning_resources (status, difficulty)`,
	`CREATE INDEX IF NOT EXISTS idx_learning_resources_priority ON learning_resources (priority_score DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_learning_resources_created_by ON learning_resources (created_by)`,
	`CREATE INDEX IF NOT EXISTS idx_learning_resources_hashtags ON learning_resources USING GIN (hashtags)`,
}

// EnsureSchema creates the catalog tables and indexes when they are missing
func EnsureSchema(ctx context.Context, client *postgres.Client) error {
	for _, stmt := range schemaStatements {
		if _, err := client.DB().ExecContext(ctx, stmt); err != nil {
			return apperrors.NewInternalError("failed to apply schema", err)
		}
	}
	return nil
}
