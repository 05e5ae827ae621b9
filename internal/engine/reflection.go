package engine

// Reflection correction: the user may rate how a day actually felt and
// attach a load multiplier. Felt load supersedes the computed value as
// the day's effective load, bounded to [0.5, 2.0] to cap how far a
// single self-report can redirect the trajectory.

const (
	MinReflectionMultiplier = 0.5
	MaxReflectionMultiplier = 2.0
)

// sanitizeMultiplier clamps an optional reflection multiplier into its
// legal range. Non-finite values are treated as absent.
func sanitizeMultiplier(m *float64) *float64 {
	if m == nil || !finite(*m) {
		return nil
	}
	v := clamp(*m, MinReflectionMultiplier, MaxReflectionMultiplier)
	return &v
}

// ValidateReflection rejects out-of-range reflection ratings at the
// write boundary. Scale ratings are 1..5; the multiplier is 0.5..2.0.
func ValidateReflection(r DayReflection) error {
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{"body_to_mood", r.BodyToMood},
		{"mind_to_body", r.MindToBody},
		{"self_care_space", r.SelfCareSpace},
	} {
		if f.v == nil {
			continue
		}
		if !finite(*f.v) || *f.v < 1 || *f.v > 5 {
			return &ReflectionError{Field: f.name, Value: *f.v}
		}
	}
	if m := r.LoadMultiplier; m != nil {
		if !finite(*m) || *m < MinReflectionMultiplier || *m > MaxReflectionMultiplier {
			return &ReflectionError{Field: "load_multiplier", Value: *m}
		}
	}
	return nil
}

// ReflectionError reports an out-of-range reflection field.
type ReflectionError struct {
	Field string
	Value float64
}

func (e *ReflectionError) Error() string {
	return "reflection field " + e.Field + " out of range"
}
