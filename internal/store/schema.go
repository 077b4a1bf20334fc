package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the full DDL for a fresh database. Statements are idempotent so
// Migrate can run at every startup.
const Schema = `
CREATE SCHEMA IF NOT EXISTS tvrs;

CREATE TABLE IF NOT EXISTS tvrs.users (
	user_id       TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	full_name     TEXT NOT NULL,
	role          TEXT NOT NULL,
	active        BOOLEAN NOT NULL DEFAULT true,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tvrs.drivers (
	driver_id      TEXT PRIMARY KEY,
	license_no     TEXT NOT NULL UNIQUE,
	full_name      TEXT NOT NULL,
	address        TEXT NOT NULL DEFAULT '',
	license_status TEXT NOT NULL DEFAULT 'ACTIVE',
	demerit_points INT NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tvrs.vehicles (
	vehicle_id TEXT PRIMARY KEY,
	plate_no   TEXT NOT NULL UNIQUE,
	make       TEXT NOT NULL DEFAULT '',
	model      TEXT NOT NULL DEFAULT '',
	owner_name TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tvrs.violation_types (
	violation_type_id TEXT PRIMARY KEY,
	code              TEXT NOT NULL UNIQUE,
	description       TEXT NOT NULL,
	fine_amount       NUMERIC(12,2) NOT NULL,
	demerit_points    INT NOT NULL,
	active            BOOLEAN NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS tvrs.tickets (
	ticket_id  TEXT PRIMARY KEY,
	ticket_no  TEXT NOT NULL UNIQUE,
	driver_id  TEXT NOT NULL REFERENCES tvrs.drivers(driver_id),
	vehicle_id TEXT REFERENCES tvrs.vehicles(vehicle_id),
	officer_id TEXT NOT NULL REFERENCES tvrs.users(user_id),
	location   TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT 'UNPAID',
	total_fine NUMERIC(12,2) NOT NULL DEFAULT 0,
	issued_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tvrs.ticket_violations (
	id                BIGSERIAL PRIMARY KEY,
	ticket_id         TEXT NOT NULL REFERENCES tvrs.tickets(ticket_id),
	violation_type_id TEXT NOT NULL REFERENCES tvrs.violation_types(violation_type_id),
	points            INT NOT NULL,
	fine              NUMERIC(12,2) NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tvrs.payments (
	payment_id   TEXT PRIMARY KEY,
	ticket_id    TEXT NOT NULL REFERENCES tvrs.tickets(ticket_id),
	amount       NUMERIC(12,2) NOT NULL,
	method       TEXT NOT NULL,
	received_by  TEXT NOT NULL REFERENCES tvrs.users(user_id),
	reference_no TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tvrs.audit_events (
	event_id       BIGSERIAL PRIMARY KEY,
	actor_id       TEXT,
	action         TEXT NOT NULL,
	details        TEXT,
	ip_address     TEXT,
	affected_table TEXT,
	affected_id    TEXT,
	ts             TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS audit_events_ts_idx ON tvrs.audit_events (ts);
CREATE INDEX IF NOT EXISTS audit_events_actor_idx ON tvrs.audit_events (actor_id);
CREATE INDEX IF NOT EXISTS audit_events_action_idx ON tvrs.audit_events (action);

CREATE TABLE IF NOT EXISTS tvrs.system_config (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_by TEXT,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate applies the schema. Safe to run repeatedly.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
