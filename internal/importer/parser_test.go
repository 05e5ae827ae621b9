package importer

import (
	"testing"
	"time"

	"github.com/aidancornelius/murmur-engine/internal/store"
)

const sampleExport = `{"type":"activity","date":"2026-03-02","physical":4,"duration_minutes":45}
{"type":"meal","date":"2026-03-02"}
{"type":"symptom","date":"2026-03-02","severity":4}
{"type":"sleep","date":"2026-03-03","quality":3,"bed_time":"2026-03-02T22:30:00Z","wake_time":"2026-03-03T06:30:00Z"}
{"type":"heart_rate","date":"2026-03-02","bpm":72}
not json at all
{"type":"activity","date":"02/03/2026"}
`

func TestParseLines(t *testing.T) {
	records, err := ParseLines(sampleExport)
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	// Unknown types, malformed JSON and bad dates are dropped.
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4: %+v", len(records), records)
	}

	if records[0].Type != "activity" || *records[0].Physical != 4 || *records[0].DurationMinutes != 45 {
		t.Errorf("activity record mismatch: %+v", records[0])
	}
	if records[1].Type != "meal" || records[1].Physical != nil {
		t.Errorf("meal record mismatch: %+v", records[1])
	}
	if records[2].Type != "symptom" || *records[2].Severity != 4 {
		t.Errorf("symptom record mismatch: %+v", records[2])
	}
	if records[3].Type != "sleep" || *records[3].Quality != 3 {
		t.Errorf("sleep record mismatch: %+v", records[3])
	}
}

func TestParseLinesEmpty(t *testing.T) {
	records, err := ParseLines("\n\n")
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records from blank input, want 0", len(records))
	}
}

func TestApply(t *testing.T) {
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	records, err := ParseLines(sampleExport)
	if err != nil {
		t.Fatalf("ParseLines: %v", err)
	}
	stored, err := Apply(db, records)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if stored != 4 {
		t.Errorf("stored = %d, want 4", stored)
	}

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	events, err := db.EventsBetween(day, day)
	if err != nil {
		t.Fatalf("EventsBetween: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2", len(events))
	}
	sleep, err := db.SleepBetween(day.AddDate(0, 0, 1), day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("SleepBetween: %v", err)
	}
	if len(sleep) != 1 || sleep[0].DurationHours() != 8 {
		t.Errorf("sleep import mismatch: %+v", sleep)
	}
}

func TestApplySkipsIncompleteRecords(t *testing.T) {
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer db.Close()

	records := []Record{
		{Type: "symptom", Date: "2026-03-02"},               // no severity
		{Type: "sleep", Date: "2026-03-02", Quality: fp(3)}, // no timestamps
		{Type: "activity", Date: "2026-03-02"},
	}
	stored, err := Apply(db, records)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if stored != 1 {
		t.Errorf("stored = %d, want 1", stored)
	}
}

func fp(v float64) *float64 { return &v }
