package engine

// Normalization converts a day's heterogeneous records into the uniform
// inputs the recurrence consumes. This is the boundary where corrupted
// persisted values are stopped: every scale is clamped and non-finite
// numbers are dropped here, because a single NaN reaching the decay
// chain would poison every subsequent day.

const defaultActivityMinutes = 60.0

// NormalizedDay is a day's event set reduced to recurrence inputs.
type NormalizedDay struct {
	ActivityLoad     float64 // summed activity/meal contributions
	SymptomLoad      float64 // load added by above-midpoint symptom burden
	SymptomModifier  float64 // decay modifier from symptom burden, 1.0 when none
	RecoveryModifier float64 // decay modifier from sleep, 1.0 when none
	SleepLoad        float64 // load added by poor-quality main sleep
}

// Normalize reduces a day's raw records under the given configuration.
func Normalize(in DayInputs, cfg LoadConfiguration) NormalizedDay {
	nd := NormalizedDay{
		SymptomModifier:  1.0,
		RecoveryModifier: 1.0,
	}

	for _, ev := range in.Events {
		nd.ActivityLoad += eventContribution(ev)
	}

	if avg, ok := avgNormalizedSeverity(in.Symptoms); ok {
		if excess := avg - 3.0; excess > 0 {
			nd.SymptomLoad = excess * 10.0 * cfg.SymptomMultiplier
		}
		// Higher symptom burden slows recovery, floor 0.4.
		nd.SymptomModifier = 1.2 - avg*0.16
		if nd.SymptomModifier < 0.4 {
			nd.SymptomModifier = 0.4
		}
	}

	if in.Sleep != nil {
		nd.RecoveryModifier = recoveryModifier(*in.Sleep)
		nd.SleepLoad = sleepLoad(*in.Sleep)
	}

	return nd
}

// eventContribution computes a single event's load contribution:
// mean exertion x duration weight x variant weight x 6.
func eventContribution(ev ExertionEvent) float64 {
	// A meal nobody rated is just food, not strain.
	if ev.Kind == KindMeal && !ev.HasExplicitExertion() {
		return 0
	}

	exertion := (scaleValue(ev.Physical) + scaleValue(ev.Cognitive) + scaleValue(ev.Emotional)) / 3.0

	duration := defaultActivityMinutes
	if ev.DurationMinutes != nil && finite(*ev.DurationMinutes) && *ev.DurationMinutes > 0 {
		duration = *ev.DurationMinutes
	}
	durationWeight := duration / defaultActivityMinutes
	if durationWeight > 2.0 {
		durationWeight = 2.0
	}

	return exertion * durationWeight * ev.Weight() * 6.0
}

// scaleValue sanitizes an optional 1..5 rating. Absent or non-finite
// values fall back to the scale minimum.
func scaleValue(v *float64) float64 {
	if v == nil || !finite(*v) {
		return 1
	}
	return clamp(*v, 1, 5)
}

// avgNormalizedSeverity averages the day's direction-consistent symptom
// severities. ok is false when the day has no usable symptom records.
func avgNormalizedSeverity(records []SymptomRecord) (avg float64, ok bool) {
	sum, n := 0.0, 0
	for _, r := range records {
		if !finite(r.Severity) {
			continue
		}
		sum += r.NormalizedSeverity()
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// recoveryModifier maps sleep quality and duration to a decay-rate
// multiplier. Main sleep is quality-tiered; naps nudge mildly.
func recoveryModifier(s SleepRecord) float64 {
	q := clamp(s.Quality, 1, 5)
	if !finite(s.Quality) {
		return 1.0
	}
	if !s.IsMainRecovery() {
		if q >= 4 {
			return 1.1
		}
		return 0.95
	}
	switch {
	case q < 2:
		return 0.5
	case q < 3:
		return 0.7
	case q < 4:
		return 1.0
	case q < 5:
		return 1.2
	default:
		return 1.4
	}
}

// sleepLoad is the positive load term for poor-quality main sleep.
// Naps never add load, nor does main sleep above quality 2.
func sleepLoad(s SleepRecord) float64 {
	if !finite(s.Quality) || !s.IsMainRecovery() {
		return 0
	}
	q := clamp(s.Quality, 1, 5)
	if q > 2 {
		return 0
	}
	return (3 - q) * 5.0
}
