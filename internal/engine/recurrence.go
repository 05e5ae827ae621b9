package engine

import "time"

// The recurrence is a pure left-to-right chain: today's decayed load
// depends on yesterday's carried-forward value, so a range must be
// visited in strictly increasing day order and cannot be parallelized
// across days. Within a day, aggregation is a plain reduction.

const maxLoad = 100.0

// ComputeDay runs one step of the recurrence. previousLoad is the
// effective load carried forward from the prior day (0 for the first
// day of any range).
func ComputeDay(day time.Time, nd NormalizedDay, previousLoad float64, cfg LoadConfiguration) LoadScore {
	if !finite(previousLoad) || previousLoad < 0 {
		previousLoad = 0
	} else if previousLoad > maxLoad {
		previousLoad = maxLoad
	}

	today := nd.ActivityLoad + nd.SymptomLoad + nd.SleepLoad
	decayedPrev := previousLoad * cfg.DecayRate * nd.SymptomModifier * nd.RecoveryModifier

	raw := today
	if raw > maxLoad {
		raw = maxLoad
	}
	decayed := today + decayedPrev
	if decayed > maxLoad {
		decayed = maxLoad
	}

	return LoadScore{
		Day:         DayStart(day),
		RawLoad:     raw,
		DecayedLoad: decayed,
		Risk:        ClassifyRisk(decayed, cfg.Thresholds),
	}
}

// ClassifyRisk maps a decayed load to its risk tier. Comparisons are
// strictly less-than: a load exactly on a boundary belongs to the next
// tier up.
func ClassifyRisk(load float64, t Thresholds) Risk {
	switch {
	case load < t.Safe:
		return RiskSafe
	case load < t.Caution:
		return RiskCaution
	case load < t.High:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// DayRecord pairs a day's inputs with its optional reflection
// multiplier for range computation.
type DayRecord struct {
	Day        time.Time
	Inputs     DayInputs
	Multiplier *float64 // subjective reflection multiplier, 0.5..2.0
}

// ComputeRange runs the recurrence over consecutive day records,
// which must already be in ascending day order. The first day is
// seeded with previousLoad = 0; each subsequent day is seeded with the
// prior day's effective load, so a reflection multiplier redirects the
// whole remaining trajectory, not just its own day's display.
func ComputeRange(days []DayRecord, cfg LoadConfiguration) []LoadScore {
	scores := make([]LoadScore, 0, len(days))
	carry := 0.0
	for _, d := range days {
		score := ComputeDay(d.Day, Normalize(d.Inputs, cfg), carry, cfg)
		score.ReflectionMultiplier = sanitizeMultiplier(d.Multiplier)
		scores = append(scores, score)
		carry = score.EffectiveLoad()
	}
	return scores
}
