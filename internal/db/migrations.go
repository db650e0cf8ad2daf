package db

import (
	"context"
	"fmt"
)

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements executed together in a single transaction. The version
// number is the 1-based index into this slice.
var migrations = [][]string{
	// Migration 1: core CRM tables
	{
		`CREATE TABLE companies (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			legal_name TEXT,
			description TEXT,
			website_url TEXT,
			linkedin_url TEXT,
			industry TEXT,
			company_type TEXT,
			employee_count_range TEXT,
			founded_year INTEGER,
			email_domains TEXT[] NOT NULL DEFAULT '{}',
			specialties TEXT[] NOT NULL DEFAULT '{}',
			tags TEXT[] NOT NULL DEFAULT '{}',
			lifecycle_stage TEXT NOT NULL DEFAULT 'lead',
			record_status TEXT NOT NULL DEFAULT 'active',
			custom_fields JSONB NOT NULL DEFAULT '{}',
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX idx_companies_updated_at ON companies(updated_at DESC)`,
		`CREATE INDEX idx_companies_live ON companies(is_deleted) WHERE NOT is_deleted`,

		`CREATE TABLE contacts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			prefix TEXT,
			first_name TEXT NOT NULL,
			middle_name TEXT,
			last_name TEXT NOT NULL,
			suffix TEXT,
			preferred_name TEXT,
			title TEXT,
			department TEXT,
			seniority TEXT,
			headline TEXT,
			company_id UUID REFERENCES companies(id),
			company_name_snapshot TEXT,
			start_date DATE,
			end_date DATE,
			is_current_employee BOOLEAN NOT NULL DEFAULT FALSE,
			lifecycle_stage TEXT NOT NULL DEFAULT 'lead',
			record_status TEXT NOT NULL DEFAULT 'active',
			tags TEXT[] NOT NULL DEFAULT '{}',
			notes TEXT,
			custom_fields JSONB NOT NULL DEFAULT '{}',
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX idx_contacts_updated_at ON contacts(updated_at DESC)`,
		`CREATE INDEX idx_contacts_company ON contacts(company_id)`,
	},

	// Migration 2: polymorphic sub-entity tables. The partial unique indexes
	// make "two primaries for one parent" unrepresentable, so concurrent
	// clear-then-set writers serialize at the storage layer.
	{
		`CREATE TABLE addresses (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			entity_type TEXT NOT NULL CHECK (entity_type IN ('company', 'contact')),
			entity_id UUID NOT NULL,
			type TEXT NOT NULL,
			street TEXT,
			street2 TEXT,
			city TEXT,
			state TEXT,
			postal_code TEXT,
			country TEXT,
			is_primary BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX idx_addresses_parent ON addresses(entity_type, entity_id)`,
		`CREATE UNIQUE INDEX uq_addresses_primary ON addresses(entity_type, entity_id) WHERE is_primary`,

		`CREATE TABLE emails (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			entity_type TEXT NOT NULL CHECK (entity_type IN ('company', 'contact')),
			entity_id UUID NOT NULL,
			type TEXT NOT NULL,
			email TEXT NOT NULL,
			is_primary BOOLEAN NOT NULL DEFAULT FALSE,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX idx_emails_parent ON emails(entity_type, entity_id)`,
		`CREATE UNIQUE INDEX uq_emails_primary ON emails(entity_type, entity_id) WHERE is_primary`,

		`CREATE TABLE phones (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			entity_type TEXT NOT NULL CHECK (entity_type IN ('company', 'contact')),
			entity_id UUID NOT NULL,
			type TEXT NOT NULL,
			number TEXT NOT NULL,
			extension TEXT,
			is_primary BOOLEAN NOT NULL DEFAULT FALSE,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX idx_phones_parent ON phones(entity_type, entity_id)`,
		`CREATE UNIQUE INDEX uq_phones_primary ON phones(entity_type, entity_id) WHERE is_primary`,
	},

	// Migration 3: custom field registry
	{
		`CREATE TABLE field_definitions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			entity_type TEXT NOT NULL CHECK (entity_type IN ('company', 'contact')),
			key TEXT NOT NULL,
			label TEXT NOT NULL,
			field_type TEXT NOT NULL,
			options TEXT[] NOT NULL DEFAULT '{}',
			required BOOLEAN NOT NULL DEFAULT FALSE,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (entity_type, key)
		)`,
	},

	// Migration 4: API users
	{
		`CREATE TABLE users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			password_set BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
}

// Migrate applies all pending migrations. Applied versions are tracked in the
// schema_migrations table; each group runs in its own transaction.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current int
	err = db.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := db.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", version, err)
		}
		for _, stmt := range migrations[i] {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				_ = tx.Rollback(ctx)
				return fmt.Errorf("migration %d failed: %w", version, err)
			}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", version, err)
		}
	}

	return nil
}

// MigrationCount reports how many migration groups this build knows about.
func MigrationCount() int {
	return len(migrations)
}
