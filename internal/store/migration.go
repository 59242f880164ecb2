package store

import (
	"database/sql"
	"fmt"

	verrors "github.com/example/tokenvault/internal/errors"
)

const currentSchemaVersion = 6

// RunMigrations applies any pending schema migrations strictly in order.
// A fresh database walks through every step. Steps are append-only: they
// create tables, indexes, and columns but never rewrite or drop rows.
func (s *Store) RunMigrations() error {
	version, err := s.getSchemaVersion()
	if err != nil {
		return verrors.NewMigrationFailed(0, err)
	}

	steps := []struct {
		version int
		apply   func() error
	}{
		{1, s.migrateToV1},
		{2, s.migrateToV2},
		{3, s.migrateToV3},
		{4, s.migrateToV4},
		{5, s.migrateToV5},
		{6, s.migrateToV6},
	}

	for _, step := range steps {
		if version >= step.version {
			continue
		}
		if err := step.apply(); err != nil {
			return verrors.NewMigrationFailed(step.version, err)
		}
		if err := s.setSchemaVersion(step.version); err != nil {
			return verrors.NewMigrationFailed(step.version, err)
		}
	}
	return nil
}

// SchemaVersion returns the persisted schema version (0 for a fresh file
// before any migration has run).
func (s *Store) SchemaVersion() (int, error) {
	return s.getSchemaVersion()
}

func (s *Store) getSchemaVersion() (int, error) {
	var tableName string
	err := s.db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableName)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	err = s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (s *Store) setSchemaVersion(version int) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO schema_version (version) VALUES (?)", version)
	return err
}

// migrateToV1 creates the version tracking table and the projects table.
func (s *Store) migrateToV1() error {
	return s.execAll(
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)`,

		// Projects. The state column is an opaque JSON blob: later schema
		// versions add row columns without touching the shape of stored
		// state payloads.
		`CREATE TABLE IF NOT EXISTS projects (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			description      TEXT,
			notes            TEXT,
			state            TEXT NOT NULL,
			schema_version   INTEGER NOT NULL DEFAULT 1,
			stats_characters INTEGER NOT NULL DEFAULT 0,
			stats_tokens     INTEGER NOT NULL DEFAULT 0,
			stats_icons      INTEGER NOT NULL DEFAULT 0,
			created_at       INTEGER NOT NULL,
			updated_at       INTEGER NOT NULL,
			accessed_at      INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_projects_updated
		ON projects(updated_at DESC)`,
	)
}

// migrateToV2 adds auto-save snapshots.
func (s *Store) migrateToV2() error {
	return s.execAll(
		`CREATE TABLE IF NOT EXISTS snapshots (
			id         TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			state      TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_snapshots_project_time
		ON snapshots(project_id, created_at DESC)`,
	)
}

// migrateToV3 adds manual semantic versions.
func (s *Store) migrateToV3() error {
	return s.execAll(
		`CREATE TABLE IF NOT EXISTS versions (
			id         TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			major      INTEGER NOT NULL,
			minor      INTEGER NOT NULL,
			patch      INTEGER NOT NULL,
			version    TEXT NOT NULL,
			state      TEXT NOT NULL,
			notes      TEXT,
			created_at INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_versions_project_semver
		ON versions(project_id, major DESC, minor DESC, patch DESC)`,

		`CREATE INDEX IF NOT EXISTS idx_versions_project_time
		ON versions(project_id, created_at DESC)`,
	)
}

// migrateToV4 adds asset metadata (custom icons and generic uploads).
func (s *Store) migrateToV4() error {
	return s.execAll(
		`CREATE TABLE IF NOT EXISTS assets (
			id           TEXT PRIMARY KEY,
			project_id   TEXT NOT NULL,
			kind         TEXT NOT NULL,
			character_id TEXT,
			name         TEXT,
			mime_type    TEXT,
			size_bytes   INTEGER NOT NULL DEFAULT 0,
			content_hash TEXT NOT NULL,
			created_at   INTEGER NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_assets_kind_project
		ON assets(kind, project_id)`,

		`CREATE INDEX IF NOT EXISTS idx_assets_hash
		ON assets(content_hash)`,
	)
}

// migrateToV5 adds project presentation fields.
func (s *Store) migrateToV5() error {
	for _, col := range []struct{ name, ddl string }{
		{"tags_json", `ALTER TABLE projects ADD COLUMN tags_json TEXT`},
		{"color", `ALTER TABLE projects ADD COLUMN color TEXT`},
		{"thumbnail_json", `ALTER TABLE projects ADD COLUMN thumbnail_json TEXT`},
	} {
		if s.columnExists("projects", col.name) {
			continue
		}
		if _, err := s.db.Exec(col.ddl); err != nil {
			return err
		}
	}
	return nil
}

// migrateToV6 adds version tags and the inert publish/share placeholders.
func (s *Store) migrateToV6() error {
	for _, col := range []struct{ name, ddl string }{
		{"tags_json", `ALTER TABLE versions ADD COLUMN tags_json TEXT`},
		{"is_published", `ALTER TABLE versions ADD COLUMN is_published BOOLEAN NOT NULL DEFAULT FALSE`},
		{"download_count", `ALTER TABLE versions ADD COLUMN download_count INTEGER NOT NULL DEFAULT 0`},
		{"network_id", `ALTER TABLE versions ADD COLUMN network_id TEXT`},
	} {
		if s.columnExists("versions", col.name) {
			continue
		}
		if _, err := s.db.Exec(col.ddl); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) execAll(statements ...string) error {
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %.40q: %w", stmt, err)
		}
	}
	return nil
}

// columnExists checks if a column exists in a table.
func (s *Store) columnExists(table, column string) bool {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info(?)
		WHERE name = ?
	`, table, column).Scan(&count)
	return err == nil && count > 0
}
