package store

import (
	"fmt"
	"time"

	"github.com/aidancornelius/murmur-engine/internal/engine"
)

// UpsertSleep stores the day's recovery period. At most one record
// exists per day; logging sleep twice replaces the earlier record.
func (db *DB) UpsertSleep(s engine.SleepRecord) error {
	_, err := db.Exec(`
		INSERT INTO sleep (day, quality, bed_at, wake_at, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			quality = excluded.quality,
			bed_at  = excluded.bed_at,
			wake_at = excluded.wake_at
	`, dayMS(s.Day), s.Quality, s.BedAt.UnixMilli(), s.WakeAt.UnixMilli(), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert sleep: %w", err)
	}
	return nil
}

// SleepBetween returns all sleep records with days in [start, end].
func (db *DB) SleepBetween(start, end time.Time) ([]engine.SleepRecord, error) {
	rows, err := db.Query(`
		SELECT day, quality, bed_at, wake_at
		FROM sleep
		WHERE day >= ? AND day <= ?
		ORDER BY day ASC
	`, dayMS(start), dayMS(end))
	if err != nil {
		return nil, fmt.Errorf("query sleep: %w", err)
	}
	defer rows.Close()

	var records []engine.SleepRecord
	for rows.Next() {
		var day, bedAt, wakeAt int64
		var quality float64
		if err := rows.Scan(&day, &quality, &bedAt, &wakeAt); err != nil {
			return nil, fmt.Errorf("scan sleep: %w", err)
		}
		records = append(records, engine.SleepRecord{
			Day:     msTime(day),
			Quality: quality,
			BedAt:   msTime(bedAt),
			WakeAt:  msTime(wakeAt),
		})
	}
	return records, rows.Err()
}
