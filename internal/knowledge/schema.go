package knowledge

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the knowledge base tables when they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS firm_facts (
			id BIGSERIAL PRIMARY KEY,
			category TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			source TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS market_data (
			id BIGSERIAL PRIMARY KEY,
			market TEXT NOT NULL,
			metric TEXT NOT NULL,
			value TEXT NOT NULL,
			period TEXT,
			source TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS brand_rules (
			id BIGSERIAL PRIMARY KEY,
			rule_type TEXT NOT NULL,
			rule TEXT NOT NULL,
			example TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS content (
			id BIGSERIAL PRIMARY KEY,
			content_type TEXT NOT NULL,
			platform TEXT NOT NULL,
			principal TEXT,
			title TEXT,
			body TEXT NOT NULL,
			topic TEXT,
			status TEXT NOT NULL DEFAULT 'draft',
			scheduled_for TIMESTAMPTZ,
			published_at TIMESTAMPTZ,
			platform_post_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS content_metrics (
			id BIGSERIAL PRIMARY KEY,
			content_id BIGINT NOT NULL REFERENCES content(id),
			impressions INTEGER NOT NULL DEFAULT 0,
			likes INTEGER NOT NULL DEFAULT 0,
			comments INTEGER NOT NULL DEFAULT 0,
			shares INTEGER NOT NULL DEFAULT 0,
			clicks INTEGER NOT NULL DEFAULT 0,
			fetched_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS content_calendar (
			id BIGSERIAL PRIMARY KEY,
			content_type TEXT NOT NULL,
			platform TEXT NOT NULL,
			topic TEXT,
			principal TEXT,
			scheduled_date DATE NOT NULL,
			status TEXT NOT NULL DEFAULT 'planned',
			content_id BIGINT,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS scanned_content (
			id BIGSERIAL PRIMARY KEY,
			platform TEXT NOT NULL,
			external_id TEXT,
			author TEXT,
			author_url TEXT,
			body TEXT NOT NULL,
			url TEXT,
			engagement_score INTEGER NOT NULL DEFAULT 0,
			topic_tags TEXT,
			scanned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			digest_id BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS digests (
			id BIGSERIAL PRIMARY KEY,
			title TEXT,
			summary TEXT,
			scan_type TEXT NOT NULL DEFAULT 'scheduled',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS inspiration (
			id BIGSERIAL PRIMARY KEY,
			source_type TEXT NOT NULL,
			scanned_content_id BIGINT,
			url TEXT,
			body TEXT,
			author TEXT,
			notes TEXT,
			liked_by TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS monitored_accounts (
			id BIGSERIAL PRIMARY KEY,
			platform TEXT NOT NULL,
			handle TEXT NOT NULL,
			name TEXT,
			category TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS content_status_idx ON content (status)`,
		`CREATE INDEX IF NOT EXISTS scanned_content_external_idx ON scanned_content (external_id, platform)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
