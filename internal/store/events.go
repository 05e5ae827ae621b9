package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aidancornelius/murmur-engine/internal/engine"
)

// AddEvent inserts an activity or meal event, keyed to its UTC day.
func (db *DB) AddEvent(ev engine.ExertionEvent) error {
	if ev.Kind != engine.KindActivity && ev.Kind != engine.KindMeal {
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	_, err := db.Exec(`
		INSERT INTO events (day, kind, physical, cognitive, emotional, duration_min, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, dayMS(ev.Day), string(ev.Kind),
		nullFloat(ev.Physical), nullFloat(ev.Cognitive), nullFloat(ev.Emotional),
		nullFloat(ev.DurationMinutes), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// EventsBetween returns all events with days in [start, end], ordered
// by day then insertion.
func (db *DB) EventsBetween(start, end time.Time) ([]engine.ExertionEvent, error) {
	rows, err := db.Query(`
		SELECT day, kind, physical, cognitive, emotional, duration_min
		FROM events
		WHERE day >= ? AND day <= ?
		ORDER BY day ASC, id ASC
	`, dayMS(start), dayMS(end))
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []engine.ExertionEvent
	for rows.Next() {
		var (
			day  int64
			kind string
			phys, cog, emo, dur sql.NullFloat64
		)
		if err := rows.Scan(&day, &kind, &phys, &cog, &emo, &dur); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, engine.ExertionEvent{
			Day:             msTime(day),
			Kind:            engine.EventKind(kind),
			Physical:        floatPtr(phys),
			Cognitive:       floatPtr(cog),
			Emotional:       floatPtr(emo),
			DurationMinutes: floatPtr(dur),
		})
	}
	return events, rows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
