package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so the
// full list is replayed on each start.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id         TEXT PRIMARY KEY,
		code       TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		email      TEXT,
		status     TEXT NOT NULL DEFAULT 'active'
		           CHECK(status IN ('active','inactive')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS cost_centers (
		id          TEXT PRIMARY KEY,
		code        TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		description TEXT,
		parent_id   TEXT REFERENCES cost_centers(id) ON DELETE SET NULL,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','inactive')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cost_centers_parent ON cost_centers(parent_id)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id             TEXT PRIMARY KEY,
		code           TEXT NOT NULL UNIQUE,
		name           TEXT NOT NULL,
		client_id      TEXT NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
		cost_center_id TEXT REFERENCES cost_centers(id) ON DELETE SET NULL,
		status         TEXT NOT NULL DEFAULT 'planning'
		               CHECK(status IN ('planning','active','on_hold','completed','cancelled')),
		start_date     TEXT,
		end_date       TEXT,
		budget         TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_client ON projects(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status)`,

	`CREATE TABLE IF NOT EXISTS rates (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		amount     TEXT NOT NULL,
		currency   TEXT NOT NULL DEFAULT 'USD',
		unit       TEXT NOT NULL DEFAULT 'hour'
		           CHECK(unit IN ('hour','day','fixed')),
		project_id TEXT REFERENCES projects(id) ON DELETE CASCADE,
		valid_from TEXT NOT NULL,
		valid_to   TEXT,
		status     TEXT NOT NULL DEFAULT 'active'
		           CHECK(status IN ('active','inactive')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_rates_project ON rates(project_id)`,

	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		full_name  TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'invited'
		           CHECK(status IN ('active','invited','disabled')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS roles (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		description TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_roles (
		id      TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role_id TEXT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
		UNIQUE (user_id, role_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_user_roles_user ON user_roles(user_id)`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id        TEXT PRIMARY KEY,
		relation  TEXT NOT NULL,
		record_id TEXT NOT NULL,
		action    TEXT NOT NULL CHECK(action IN ('insert','update','delete')),
		at        TEXT NOT NULL,
		detail    TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_log_relation ON audit_log(relation, at)`,

	// Job title was added after the first release.
	`ALTER TABLE users ADD COLUMN title TEXT`,
}
