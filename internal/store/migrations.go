package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "events: logged activity and meal exertion events",
		SQL: `
CREATE TABLE events (
    id           INTEGER PRIMARY KEY,
    day          INTEGER NOT NULL,
    kind         TEXT NOT NULL CHECK (kind IN ('activity', 'meal')),

    -- 1..5 exertion ratings; NULL means never rated
    physical     REAL,
    cognitive    REAL,
    emotional    REAL,

    duration_min REAL,
    created_at   INTEGER NOT NULL
);

CREATE INDEX idx_events_day ON events(day);
`,
	},
	{
		Version:     2,
		Description: "symptoms + sleep: severity records and recovery periods",
		SQL: `
CREATE TABLE symptoms (
    id         INTEGER PRIMARY KEY,
    day        INTEGER NOT NULL,
    severity   REAL NOT NULL,
    positive   INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE INDEX idx_symptoms_day ON symptoms(day);

CREATE TABLE sleep (
    day        INTEGER PRIMARY KEY,
    quality    REAL NOT NULL,
    bed_at     INTEGER NOT NULL,
    wake_at    INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);
`,
	},
	{
		Version:     3,
		Description: "reflections: per-day subjective check-ins",
		SQL: `
CREATE TABLE reflections (
    day             INTEGER PRIMARY KEY,
    body_to_mood    REAL,
    mind_to_body    REAL,
    self_care_space REAL,
    load_multiplier REAL,
    created_at      INTEGER NOT NULL,
    updated_at      INTEGER NOT NULL
);
`,
	},
	{
		Version:     4,
		Description: "settings + calibration_days: load configuration and good-day samples",
		SQL: `
CREATE TABLE settings (
    id                 INTEGER PRIMARY KEY CHECK (id = 1),
    safe               REAL NOT NULL,
    caution            REAL NOT NULL,
    high               REAL NOT NULL,
    decay_rate         REAL NOT NULL,
    symptom_multiplier REAL NOT NULL,
    calibrating        INTEGER NOT NULL DEFAULT 0,
    updated_at         INTEGER NOT NULL
);

CREATE TABLE calibration_days (
    id         INTEGER PRIMARY KEY,
    day        INTEGER NOT NULL,
    load       REAL NOT NULL,
    created_at INTEGER NOT NULL
);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
