package database

import (
	"context"
	"database/sql"
	"fmt"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS leads (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL,
	email              TEXT NOT NULL,
	email_key          TEXT NOT NULL,
	phone              TEXT NOT NULL,
	original_message   TEXT NOT NULL,
	translated_message TEXT NOT NULL,
	language           TEXT NOT NULL,
	tag                TEXT,
	status             TEXT NOT NULL DEFAULT 'New'
		CHECK (status IN ('New', 'Contacted', 'Qualified', 'Lost', 'Won')),
	assigned_to        TEXT,
	created_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_created ON leads (created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads (status);
CREATE INDEX IF NOT EXISTS idx_leads_email_key ON leads (email_key);
CREATE INDEX IF NOT EXISTS idx_leads_unenriched ON leads (created_at) WHERE tag IS NULL;

CREATE TABLE IF NOT EXISTS replies (
	id                 TEXT PRIMARY KEY,
	lead_id            TEXT NOT NULL REFERENCES leads (id) ON DELETE CASCADE,
	agent_email        TEXT NOT NULL,
	agent_name         TEXT NOT NULL,
	original_message   TEXT NOT NULL,
	translated_message TEXT NOT NULL,
	target_language    TEXT NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_replies_thread ON replies (lead_id, created_at, id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS leads (
	id                 TEXT PRIMARY KEY,
	name               TEXT NOT NULL,
	email              TEXT NOT NULL,
	email_key          TEXT NOT NULL,
	phone              TEXT NOT NULL,
	original_message   TEXT NOT NULL,
	translated_message TEXT NOT NULL,
	language           TEXT NOT NULL,
	tag                TEXT,
	status             TEXT NOT NULL DEFAULT 'New'
		CHECK (status IN ('New', 'Contacted', 'Qualified', 'Lost', 'Won')),
	assigned_to        TEXT,
	created_at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_created ON leads (created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads (status);
CREATE INDEX IF NOT EXISTS idx_leads_email_key ON leads (email_key);
CREATE INDEX IF NOT EXISTS idx_leads_unenriched ON leads (created_at) WHERE tag IS NULL;

CREATE TABLE IF NOT EXISTS replies (
	id                 TEXT PRIMARY KEY,
	lead_id            TEXT NOT NULL REFERENCES leads (id) ON DELETE CASCADE,
	agent_email        TEXT NOT NULL,
	agent_name         TEXT NOT NULL,
	original_message   TEXT NOT NULL,
	translated_message TEXT NOT NULL,
	target_language    TEXT NOT NULL,
	created_at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_replies_thread ON replies (lead_id, created_at, id);
`

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	schema := postgresSchema
	if dialect == DialectSQLite {
		schema = sqliteSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
