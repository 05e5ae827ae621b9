package engine

// Physiological state classification. A pure scorer: biometric readings
// are evaluated against personal baselines and the highest-scoring
// state wins. Cycle phase overrides biometric scoring entirely. The
// classifier never participates in the load recurrence.

// PhysioState is a discrete physiological state label.
type PhysioState string

const (
	StateRelaxed      PhysioState = "relaxed"
	StateElevated     PhysioState = "elevated"
	StateFatigued     PhysioState = "fatigued"
	StateRecovered    PhysioState = "recovered"
	StateActive       PhysioState = "active"
	StateMenstrual    PhysioState = "menstrual"
	StateOvulation    PhysioState = "ovulation"
	StatePremenstrual PhysioState = "premenstrual"
)

// Baselines are the personal reference points biometrics are scored
// against. Readings within 10% of baseline score nothing.
type Baselines struct {
	HRV       float64 // ms
	RestingHR float64 // bpm
}

// DefaultBaselines are population-typical values used until personal
// baselines have been established.
func DefaultBaselines() Baselines {
	return Baselines{HRV: 45, RestingHR: 62}
}

// BiometricSample is one display refresh's readings. Nil fields were
// not available from the data source.
type BiometricSample struct {
	HRV            *float64
	RestingHR      *float64
	SleepHours     *float64
	WorkoutMinutes *float64
	CycleDay       *int
	FlowLevel      string
}

// baseline-relative tolerance band
const baselineBand = 0.10

// Classify maps a biometric sample to a state label. ok is false when
// no input produced any signal. Precedence: known cycle-phase windows
// short-circuit everything, then a reported flow, then biometric
// scoring with ties broken by declared order.
func Classify(s BiometricSample, b Baselines) (state PhysioState, ok bool) {
	if s.CycleDay != nil {
		switch d := *s.CycleDay; {
		case d >= 1 && d <= 5:
			return StateMenstrual, true
		case d >= 12 && d <= 16:
			return StateOvulation, true
		case d >= 24 && d <= 28:
			return StatePremenstrual, true
		}
	}
	if s.FlowLevel != "" {
		return StateMenstrual, true
	}

	// Tie-break order is the declaration order of this slice.
	order := []PhysioState{StateRelaxed, StateElevated, StateFatigued, StateRecovered, StateActive}
	scores := map[PhysioState]int{}

	if s.HRV != nil && finite(*s.HRV) && b.HRV > 0 {
		switch {
		case *s.HRV > b.HRV*(1+baselineBand):
			scores[StateRelaxed]++
			scores[StateRecovered]++
		case *s.HRV < b.HRV*(1-baselineBand):
			scores[StateElevated]++
		}
	}

	if s.RestingHR != nil && finite(*s.RestingHR) && b.RestingHR > 0 {
		switch {
		case *s.RestingHR < b.RestingHR*(1-baselineBand):
			scores[StateRecovered]++
			scores[StateRelaxed]++
		case *s.RestingHR > b.RestingHR*(1+baselineBand):
			scores[StateElevated]++
			scores[StateFatigued]++
		}
	}

	if s.SleepHours != nil && finite(*s.SleepHours) {
		switch {
		case *s.SleepHours < 6:
			scores[StateFatigued]++
		case *s.SleepHours > 8:
			scores[StateRecovered]++
			scores[StateRelaxed]++
		default:
			scores[StateRecovered]++
		}
	}

	if s.WorkoutMinutes != nil && finite(*s.WorkoutMinutes) {
		switch {
		case *s.WorkoutMinutes > 30:
			scores[StateActive] += 2
		case *s.WorkoutMinutes > 0:
			scores[StateActive]++
		}
	}

	best, bestScore := PhysioState(""), 0
	for _, st := range order {
		if scores[st] > bestScore {
			best, bestScore = st, scores[st]
		}
	}
	if bestScore == 0 {
		return "", false
	}
	return best, true
}
