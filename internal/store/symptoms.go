package store

import (
	"fmt"
	"time"

	"github.com/aidancornelius/murmur-engine/internal/engine"
)

// AddSymptom inserts a symptom severity record, keyed to its UTC day.
func (db *DB) AddSymptom(s engine.SymptomRecord) error {
	positive := 0
	if s.Positive {
		positive = 1
	}
	_, err := db.Exec(`
		INSERT INTO symptoms (day, severity, positive, created_at)
		VALUES (?, ?, ?, ?)
	`, dayMS(s.Day), s.Severity, positive, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("insert symptom: %w", err)
	}
	return nil
}

// SymptomsBetween returns all symptom records with days in [start, end].
func (db *DB) SymptomsBetween(start, end time.Time) ([]engine.SymptomRecord, error) {
	rows, err := db.Query(`
		SELECT day, severity, positive
		FROM symptoms
		WHERE day >= ? AND day <= ?
		ORDER BY day ASC, id ASC
	`, dayMS(start), dayMS(end))
	if err != nil {
		return nil, fmt.Errorf("query symptoms: %w", err)
	}
	defer rows.Close()

	var records []engine.SymptomRecord
	for rows.Next() {
		var (
			day      int64
			severity float64
			positive int
		)
		if err := rows.Scan(&day, &severity, &positive); err != nil {
			return nil, fmt.Errorf("scan symptom: %w", err)
		}
		records = append(records, engine.SymptomRecord{
			Day:      msTime(day),
			Severity: severity,
			Positive: positive != 0,
		})
	}
	return records, rows.Err()
}
