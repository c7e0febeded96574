package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements create the tables this service reads and writes. The web application
// owns equipment, plans and tickets; the bot only adds recipients and the dispatch log.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS equipment (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		asset_tag TEXT NOT NULL DEFAULT '',
		serial_number TEXT,
		location TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS maintenance_plans (
		id BIGSERIAL PRIMARY KEY,
		equipment_id BIGINT NOT NULL REFERENCES equipment(id),
		kind VARCHAR(32) NOT NULL,
		periodicity VARCHAR(32) NOT NULL,
		anchor_date DATE NOT NULL,
		last_executed_at DATE,
		next_due_at DATE,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_plans_active ON maintenance_plans(is_active)`,
	`CREATE TABLE IF NOT EXISTS maintenance_tickets (
		id BIGSERIAL PRIMARY KEY,
		equipment_id BIGINT NOT NULL REFERENCES equipment(id),
		opened_at TIMESTAMPTZ NOT NULL,
		closed_at TIMESTAMPTZ,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_maintenance_tickets_equipment ON maintenance_tickets(equipment_id, opened_at)`,
	`CREATE TABLE IF NOT EXISTS alert_recipients (
		id BIGSERIAL PRIMARY KEY,
		telegram_id BIGINT NOT NULL UNIQUE,
		first_name TEXT NOT NULL,
		last_name TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS alert_dispatches (
		id BIGSERIAL PRIMARY KEY,
		plan_id BIGINT NOT NULL REFERENCES maintenance_plans(id),
		recipient_id BIGINT NOT NULL REFERENCES alert_recipients(id),
		due_date DATE NOT NULL,
		days_offset INTEGER NOT NULL,
		overdue BOOLEAN NOT NULL,
		sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT alert_dispatch_unique UNIQUE (plan_id, recipient_id, due_date, days_offset, overdue)
	)`,
}

// EnsureSchema creates missing tables and indexes.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
