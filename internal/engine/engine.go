package engine

import (
	"fmt"
	"time"
)

// scoreLookback is how far back ScoreDay walks the recurrence so the
// carried-forward load has effectively settled (0.7^28 of anything is
// noise) before the requested day is scored.
const scoreLookback = 28

// RecordSource supplies persisted day records for a date range. The
// store satisfies this; tests can substitute fixtures.
type RecordSource interface {
	EventsBetween(start, end time.Time) ([]ExertionEvent, error)
	SymptomsBetween(start, end time.Time) ([]SymptomRecord, error)
	SleepBetween(start, end time.Time) ([]SleepRecord, error)
	ReflectionsBetween(start, end time.Time) ([]DayReflection, error)
}

// Engine wires the record store and the calibration manager to the
// recurrence. It holds no recurrence state of its own: every call
// recomputes from persisted records and the current configuration.
type Engine struct {
	Source      RecordSource
	Calibration *Manager
}

// New creates an Engine.
func New(src RecordSource, mgr *Manager) *Engine {
	return &Engine{Source: src, Calibration: mgr}
}

// ScoreRange computes one LoadScore per day from start through end
// inclusive, in chronological order. The first day is seeded with
// previousLoad = 0; every later day is seeded with the prior day's
// effective load, so reflection corrections carry forward.
func (e *Engine) ScoreRange(start, end time.Time) ([]LoadScore, error) {
	start, end = DayStart(start), DayStart(end)
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s before start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	days, err := e.loadRange(start, end)
	if err != nil {
		return nil, err
	}
	return ComputeRange(days, e.Calibration.Configuration()), nil
}

// ScoreDay computes a single day's score with enough preceding history
// for the carry-forward to be meaningful.
func (e *Engine) ScoreDay(day time.Time) (LoadScore, error) {
	day = DayStart(day)
	scores, err := e.ScoreRange(day.AddDate(0, 0, -scoreLookback), day)
	if err != nil {
		return LoadScore{}, err
	}
	return scores[len(scores)-1], nil
}

// RecordGoodDay scores the given day and feeds its decayed load to the
// calibration manager as a confirmed good-day sample.
func (e *Engine) RecordGoodDay(day time.Time) (done bool, load float64, err error) {
	score, err := e.ScoreDay(day)
	if err != nil {
		return false, 0, err
	}
	done, err = e.Calibration.RecordGoodDay(score.Day, score.DecayedLoad)
	return done, score.DecayedLoad, err
}

// loadRange fetches and groups records into one DayRecord per calendar
// day, including empty days, in ascending order.
func (e *Engine) loadRange(start, end time.Time) ([]DayRecord, error) {
	events, err := e.Source.EventsBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	symptoms, err := e.Source.SymptomsBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("load symptoms: %w", err)
	}
	sleeps, err := e.Source.SleepBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("load sleep: %w", err)
	}
	reflections, err := e.Source.ReflectionsBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("load reflections: %w", err)
	}

	byDay := map[time.Time]*DayRecord{}
	dayOf := func(t time.Time) *DayRecord {
		d := DayStart(t)
		rec, ok := byDay[d]
		if !ok {
			rec = &DayRecord{Day: d}
			byDay[d] = rec
		}
		return rec
	}

	for _, ev := range events {
		rec := dayOf(ev.Day)
		rec.Inputs.Events = append(rec.Inputs.Events, ev)
	}
	for _, sym := range symptoms {
		rec := dayOf(sym.Day)
		rec.Inputs.Symptoms = append(rec.Inputs.Symptoms, sym)
	}
	for i := range sleeps {
		rec := dayOf(sleeps[i].Day)
		rec.Inputs.Sleep = &sleeps[i]
	}
	for _, refl := range reflections {
		rec := dayOf(refl.Day)
		rec.Multiplier = refl.LoadMultiplier
	}

	days := make([]DayRecord, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if rec, ok := byDay[d]; ok {
			days = append(days, *rec)
		} else {
			days = append(days, DayRecord{Day: d})
		}
	}
	return days, nil
}
