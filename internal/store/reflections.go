package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aidancornelius/murmur-engine/internal/engine"
)

// UpsertReflection creates or updates the day's reflection. Reflections
// are created lazily on first user interaction and persist indefinitely.
func (db *DB) UpsertReflection(r engine.DayReflection) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO reflections (day, body_to_mood, mind_to_body, self_care_space, load_multiplier, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			body_to_mood    = excluded.body_to_mood,
			mind_to_body    = excluded.mind_to_body,
			self_care_space = excluded.self_care_space,
			load_multiplier = excluded.load_multiplier,
			updated_at      = excluded.updated_at
	`, dayMS(r.Day),
		nullFloat(r.BodyToMood), nullFloat(r.MindToBody), nullFloat(r.SelfCareSpace),
		nullFloat(r.LoadMultiplier), now, now)
	if err != nil {
		return fmt.Errorf("upsert reflection: %w", err)
	}
	return nil
}

// GetReflection returns the day's reflection, or nil if none exists.
func (db *DB) GetReflection(day time.Time) (*engine.DayReflection, error) {
	var (
		dayVal int64
		btm, mtb, scs, mult sql.NullFloat64
	)
	err := db.QueryRow(`
		SELECT day, body_to_mood, mind_to_body, self_care_space, load_multiplier
		FROM reflections WHERE day = ?
	`, dayMS(day)).Scan(&dayVal, &btm, &mtb, &scs, &mult)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reflection: %w", err)
	}
	return &engine.DayReflection{
		Day:            msTime(dayVal),
		BodyToMood:     floatPtr(btm),
		MindToBody:     floatPtr(mtb),
		SelfCareSpace:  floatPtr(scs),
		LoadMultiplier: floatPtr(mult),
	}, nil
}

// ReflectionsBetween returns all reflections with days in [start, end].
func (db *DB) ReflectionsBetween(start, end time.Time) ([]engine.DayReflection, error) {
	rows, err := db.Query(`
		SELECT day, body_to_mood, mind_to_body, self_care_space, load_multiplier
		FROM reflections
		WHERE day >= ? AND day <= ?
		ORDER BY day ASC
	`, dayMS(start), dayMS(end))
	if err != nil {
		return nil, fmt.Errorf("query reflections: %w", err)
	}
	defer rows.Close()

	var records []engine.DayReflection
	for rows.Next() {
		var (
			day int64
			btm, mtb, scs, mult sql.NullFloat64
		)
		if err := rows.Scan(&day, &btm, &mtb, &scs, &mult); err != nil {
			return nil, fmt.Errorf("scan reflection: %w", err)
		}
		records = append(records, engine.DayReflection{
			Day:            msTime(day),
			BodyToMood:     floatPtr(btm),
			MindToBody:     floatPtr(mtb),
			SelfCareSpace:  floatPtr(scs),
			LoadMultiplier: floatPtr(mult),
		})
	}
	return records, rows.Err()
}
