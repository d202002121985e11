package sqlite

import "database/sql"

// schema runs on every open; statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS calculations (
    id         TEXT PRIMARY KEY,
    owner_id   TEXT NOT NULL DEFAULT '',
    kind       TEXT NOT NULL,
    inputs     TEXT NOT NULL,
    result     TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_calculations_owner_created ON calculations(owner_id, created_at DESC);
`

func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
