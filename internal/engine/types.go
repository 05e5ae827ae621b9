package engine

import (
	"fmt"
	"math"
	"time"
)

// EventKind distinguishes the two exertion event variants.
type EventKind string

const (
	KindActivity EventKind = "activity"
	KindMeal     EventKind = "meal"
)

// ExertionEvent is a logged activity or meal. Exertion fields are nil
// when the user never rated them; the normalizer substitutes defaults
// for activities and treats unrated meals as zero contribution.
type ExertionEvent struct {
	Day             time.Time
	Kind            EventKind
	Physical        *float64 // 1..5
	Cognitive       *float64 // 1..5
	Emotional       *float64 // 1..5
	DurationMinutes *float64
}

// Weight returns the variant's contribution weight.
func (e ExertionEvent) Weight() float64 {
	if e.Kind == KindMeal {
		return 0.5
	}
	return 1.0
}

// HasExplicitExertion reports whether any exertion field was supplied.
func (e ExertionEvent) HasExplicitExertion() bool {
	return e.Physical != nil || e.Cognitive != nil || e.Emotional != nil
}

// SleepRecord is the day's recovery period, derived from bed/wake times.
// At most one record exists per day.
type SleepRecord struct {
	Day     time.Time
	Quality float64 // 1..5
	BedAt   time.Time
	WakeAt  time.Time
}

// DurationHours returns the sleep duration in hours.
func (s SleepRecord) DurationHours() float64 {
	return s.WakeAt.Sub(s.BedAt).Hours()
}

// IsMainRecovery reports whether this is the main recovery period
// (longer than 3 hours) rather than a nap.
func (s SleepRecord) IsMainRecovery() bool {
	return s.DurationHours() > 3.0
}

// SymptomRecord is a logged symptom with a 1..5 severity. Positive-type
// symptoms (e.g. "energy") rate 5 at their best, so their severity is
// inverted to keep higher always meaning worse.
type SymptomRecord struct {
	Day      time.Time
	Severity float64 // 1..5
	Positive bool
}

// NormalizedSeverity remaps severity so that across positive and
// negative symptom types, higher always means worse.
func (s SymptomRecord) NormalizedSeverity() float64 {
	sev := clamp(s.Severity, 1, 5)
	if s.Positive {
		return 6 - sev
	}
	return sev
}

// Risk classifies a day's decayed load against the configured thresholds.
type Risk int

const (
	RiskSafe Risk = iota
	RiskCaution
	RiskHigh
	RiskCritical
)

func (r Risk) String() string {
	switch r {
	case RiskSafe:
		return "safe"
	case RiskCaution:
		return "caution"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	}
	return "unknown"
}

// Thresholds are the risk tier boundaries. They must be strictly
// increasing; a load exactly equal to a boundary belongs to the next tier.
type Thresholds struct {
	Safe    float64
	Caution float64
	High    float64
}

// LoadConfiguration is the engine's tuning, owned by the calibration
// Manager and read by every recurrence call.
type LoadConfiguration struct {
	Thresholds        Thresholds
	DecayRate         float64 // (0,1) per-day carry-forward factor
	SymptomMultiplier float64 // >= 0 scaling of symptom load
}

// DefaultConfiguration returns the stock configuration used before any
// calibration has run.
func DefaultConfiguration() LoadConfiguration {
	return LoadConfiguration{
		Thresholds:        Thresholds{Safe: 25, Caution: 50, High: 75},
		DecayRate:         0.7,
		SymptomMultiplier: 1.0,
	}
}

// Validate rejects a misconfigured installation loudly rather than
// silently clamping it.
func (c LoadConfiguration) Validate() error {
	t := c.Thresholds
	if !finite(t.Safe) || !finite(t.Caution) || !finite(t.High) {
		return fmt.Errorf("thresholds must be finite, got %v/%v/%v", t.Safe, t.Caution, t.High)
	}
	if !(t.Safe < t.Caution && t.Caution < t.High) {
		return fmt.Errorf("thresholds must be strictly increasing, got %v/%v/%v", t.Safe, t.Caution, t.High)
	}
	if !finite(c.DecayRate) || c.DecayRate <= 0 || c.DecayRate >= 1 {
		return fmt.Errorf("decay rate must be in (0,1), got %v", c.DecayRate)
	}
	if !finite(c.SymptomMultiplier) || c.SymptomMultiplier < 0 {
		return fmt.Errorf("symptom multiplier must be >= 0, got %v", c.SymptomMultiplier)
	}
	return nil
}

// LoadScore is one day's computed load. Immutable once produced;
// recomputed rather than mutated.
type LoadScore struct {
	Day                  time.Time
	RawLoad              float64 // today's strain alone, 0..100
	DecayedLoad          float64 // strain plus decayed carry-forward, 0..100
	Risk                 Risk
	ReflectionMultiplier *float64 // subjective correction, 0.5..2.0
}

// FeltLoad returns the subjectively corrected load, or nil when no
// reflection multiplier exists for the day.
func (s LoadScore) FeltLoad() *float64 {
	if s.ReflectionMultiplier == nil {
		return nil
	}
	felt := s.DecayedLoad * *s.ReflectionMultiplier
	return &felt
}

// EffectiveLoad is the value that represents the day downstream:
// felt load when present, decayed load otherwise.
func (s LoadScore) EffectiveLoad() float64 {
	if felt := s.FeltLoad(); felt != nil {
		return *felt
	}
	return s.DecayedLoad
}

// DayReflection is the user's optional end-of-day check-in. Created
// lazily on first interaction, keyed by day start, at most one per day.
type DayReflection struct {
	Day            time.Time
	BodyToMood     *float64 // 1..5
	MindToBody     *float64 // 1..5
	SelfCareSpace  *float64 // 1..5
	LoadMultiplier *float64 // 0.5..2.0
}

// DayInputs is everything logged for a single calendar day.
type DayInputs struct {
	Events   []ExertionEvent
	Symptoms []SymptomRecord
	Sleep    *SleepRecord
}

// DayStart truncates a time to its UTC day start. All per-day records
// are keyed by this value.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
