package db

import (
	"database/sql"
)

// MigrateUp creates the result cache schema. It is idempotent.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS result_cache (
    cache_key   TEXT PRIMARY KEY,
    mode        TEXT NOT NULL,
    output      TEXT NOT NULL,
    levels      INTEGER NOT NULL DEFAULT 1,
    calls       INTEGER NOT NULL DEFAULT 0,
    created_at  INTEGER NOT NULL,
    expires_at  INTEGER NOT NULL
)`); err != nil {
		return err
	}

	// purge scans by expiry
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_result_cache_expires_at ON result_cache(expires_at)`); err != nil {
		return err
	}
	return nil
}

// MigrateDown drops the result cache schema and every cached entry.
func MigrateDown(db *sql.DB) error {
	for _, stmt := range []string{
		`DROP INDEX IF EXISTS idx_result_cache_expires_at`,
		`DROP TABLE IF EXISTS result_cache`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
