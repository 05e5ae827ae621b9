package importer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// The importer reads JSONL health-export files: one record per line,
// typed by a "type" field. Malformed lines are skipped rather than
// failing the whole import, since exports from other devices routinely
// contain entries this system does not model.

// Record is a single line of a health export file.
type Record struct {
	Type            string   `json:"type"` // "activity", "meal", "symptom", "sleep"
	Date            string   `json:"date"` // YYYY-MM-DD
	Physical        *float64 `json:"physical,omitempty"`
	Cognitive       *float64 `json:"cognitive,omitempty"`
	Emotional       *float64 `json:"emotional,omitempty"`
	DurationMinutes *float64 `json:"duration_minutes,omitempty"`
	Severity        *float64 `json:"severity,omitempty"`
	Positive        bool     `json:"positive,omitempty"`
	Quality         *float64 `json:"quality,omitempty"`
	BedTime         string   `json:"bed_time,omitempty"`
	WakeTime        string   `json:"wake_time,omitempty"`
}

var recordTypes = map[string]bool{
	"activity": true,
	"meal":     true,
	"symptom":  true,
	"sleep":    true,
}

// Day parses the record's date.
func (r Record) Day() (time.Time, error) {
	return time.Parse("2006-01-02", r.Date)
}

// ParseFile reads a JSONL export file and returns its usable records.
func ParseFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB line buffer

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		rec, err := parseLine(line)
		if err != nil {
			continue // skip malformed lines
		}
		if rec != nil {
			records = append(records, *rec)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan export: %w", err)
	}

	return records, nil
}

// ParseLines parses export content from a string (for testing).
func ParseLines(content string) ([]Record, error) {
	var records []Record
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rec, err := parseLine([]byte(line))
		if err != nil {
			continue
		}
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// parseLine decodes one line. Returns nil for records this system does
// not model.
func parseLine(line []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, fmt.Errorf("decode line: %w", err)
	}
	if !recordTypes[rec.Type] {
		return nil, nil
	}
	if _, err := rec.Day(); err != nil {
		return nil, fmt.Errorf("record date: %w", err)
	}
	return &rec, nil
}
