package importer

import (
	"fmt"
	"log"
	"time"

	"github.com/aidancornelius/murmur-engine/internal/engine"
	"github.com/aidancornelius/murmur-engine/internal/store"
)

// Apply writes parsed records into the store. Records that fail to
// convert are logged and skipped; the count of stored records is
// returned.
func Apply(db *store.DB, records []Record) (int, error) {
	stored := 0
	for _, rec := range records {
		day, err := rec.Day()
		if err != nil {
			continue
		}

		switch rec.Type {
		case "activity", "meal":
			ev := engine.ExertionEvent{
				Day:             day,
				Kind:            engine.EventKind(rec.Type),
				Physical:        rec.Physical,
				Cognitive:       rec.Cognitive,
				Emotional:       rec.Emotional,
				DurationMinutes: rec.DurationMinutes,
			}
			if err := db.AddEvent(ev); err != nil {
				return stored, fmt.Errorf("import event: %w", err)
			}
		case "symptom":
			if rec.Severity == nil {
				log.Printf("import: skipping symptom on %s without severity", rec.Date)
				continue
			}
			s := engine.SymptomRecord{Day: day, Severity: *rec.Severity, Positive: rec.Positive}
			if err := db.AddSymptom(s); err != nil {
				return stored, fmt.Errorf("import symptom: %w", err)
			}
		case "sleep":
			sl, err := sleepRecord(rec, day)
			if err != nil {
				log.Printf("import: skipping sleep on %s: %v", rec.Date, err)
				continue
			}
			if err := db.UpsertSleep(sl); err != nil {
				return stored, fmt.Errorf("import sleep: %w", err)
			}
		}
		stored++
	}
	return stored, nil
}

func sleepRecord(rec Record, day time.Time) (engine.SleepRecord, error) {
	if rec.Quality == nil {
		return engine.SleepRecord{}, fmt.Errorf("missing quality")
	}
	bedAt, err := time.Parse(time.RFC3339, rec.BedTime)
	if err != nil {
		return engine.SleepRecord{}, fmt.Errorf("bed_time: %w", err)
	}
	wakeAt, err := time.Parse(time.RFC3339, rec.WakeTime)
	if err != nil {
		return engine.SleepRecord{}, fmt.Errorf("wake_time: %w", err)
	}
	if !wakeAt.After(bedAt) {
		return engine.SleepRecord{}, fmt.Errorf("wake before bed")
	}
	return engine.SleepRecord{Day: day, Quality: *rec.Quality, BedAt: bedAt, WakeAt: wakeAt}, nil
}
