package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aidancornelius/murmur-engine/internal/engine"
)

// LoadSettings reads the persisted configuration and calibration state.
// found is false for a fresh database, in which case the calibration
// manager falls back to defaults.
func (db *DB) LoadSettings() (engine.LoadConfiguration, engine.CalibrationState, bool, error) {
	var (
		cfg         engine.LoadConfiguration
		calibrating int
	)
	err := db.QueryRow(`
		SELECT safe, caution, high, decay_rate, symptom_multiplier, calibrating
		FROM settings WHERE id = 1
	`).Scan(&cfg.Thresholds.Safe, &cfg.Thresholds.Caution, &cfg.Thresholds.High,
		&cfg.DecayRate, &cfg.SymptomMultiplier, &calibrating)
	if err == sql.ErrNoRows {
		return engine.LoadConfiguration{}, engine.CalibrationState{}, false, nil
	}
	if err != nil {
		return engine.LoadConfiguration{}, engine.CalibrationState{}, false, fmt.Errorf("read settings: %w", err)
	}

	cal := engine.CalibrationState{Calibrating: calibrating != 0}

	rows, err := db.Query(`SELECT day, load FROM calibration_days ORDER BY id ASC`)
	if err != nil {
		return engine.LoadConfiguration{}, engine.CalibrationState{}, false, fmt.Errorf("read calibration days: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var day int64
		var load float64
		if err := rows.Scan(&day, &load); err != nil {
			return engine.LoadConfiguration{}, engine.CalibrationState{}, false, fmt.Errorf("scan calibration day: %w", err)
		}
		cal.Days = append(cal.Days, engine.CalibrationDay{Day: msTime(day), Load: load})
	}
	if err := rows.Err(); err != nil {
		return engine.LoadConfiguration{}, engine.CalibrationState{}, false, err
	}

	return cfg, cal, true, nil
}

// SaveSettings persists the configuration and calibration state
// atomically, so a crash cannot leave thresholds and pending samples
// disagreeing.
func (db *DB) SaveSettings(cfg engine.LoadConfiguration, cal engine.CalibrationState) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin save settings: %w", err)
	}

	calibrating := 0
	if cal.Calibrating {
		calibrating = 1
	}
	now := time.Now().UnixMilli()

	if _, err := tx.Exec(`
		INSERT INTO settings (id, safe, caution, high, decay_rate, symptom_multiplier, calibrating, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			safe               = excluded.safe,
			caution            = excluded.caution,
			high               = excluded.high,
			decay_rate         = excluded.decay_rate,
			symptom_multiplier = excluded.symptom_multiplier,
			calibrating        = excluded.calibrating,
			updated_at         = excluded.updated_at
	`, cfg.Thresholds.Safe, cfg.Thresholds.Caution, cfg.Thresholds.High,
		cfg.DecayRate, cfg.SymptomMultiplier, calibrating, now); err != nil {
		tx.Rollback()
		return fmt.Errorf("write settings: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM calibration_days`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear calibration days: %w", err)
	}
	for _, d := range cal.Days {
		if _, err := tx.Exec(`
			INSERT INTO calibration_days (day, load, created_at) VALUES (?, ?, ?)
		`, dayMS(d.Day), d.Load, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("write calibration day: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings: %w", err)
	}
	return nil
}
