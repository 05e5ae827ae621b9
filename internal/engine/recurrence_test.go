package engine

import (
	"math"
	"reflect"
	"testing"
)

func TestComputeDayFullExertionActivity(t *testing.T) {
	// One maxed-out hour-long activity, nothing else, no carry-forward.
	inputs := DayInputs{Events: []ExertionEvent{
		{Kind: KindActivity, Physical: fp(5), Cognitive: fp(5), Emotional: fp(5), DurationMinutes: fp(60)},
	}}
	score := ComputeDay(day("2026-03-02"), Normalize(inputs, DefaultConfiguration()), 0, DefaultConfiguration())

	if score.RawLoad != 30 {
		t.Errorf("RawLoad = %v, want 30", score.RawLoad)
	}
	if score.DecayedLoad != 30 {
		t.Errorf("DecayedLoad = %v, want 30", score.DecayedLoad)
	}
	if score.Risk != RiskCaution {
		t.Errorf("Risk = %v, want caution", score.Risk)
	}
}

func TestPureExponentialDecay(t *testing.T) {
	// Four empty days starting from 80 at decay 0.7.
	cfg := DefaultConfiguration()
	want := []float64{56, 39.2, 27.44, 19.208}

	prev := 80.0
	for i, w := range want {
		score := ComputeDay(day("2026-03-02").AddDate(0, 0, i), Normalize(DayInputs{}, cfg), prev, cfg)
		if math.Abs(score.DecayedLoad-w) > 1e-9 {
			t.Fatalf("day %d: DecayedLoad = %v, want %v", i, score.DecayedLoad, w)
		}
		if score.RawLoad != 0 {
			t.Errorf("day %d: RawLoad = %v, want 0", i, score.RawLoad)
		}
		prev = score.DecayedLoad
	}
}

func TestSymptomOnlyDayStaysSafe(t *testing.T) {
	inputs := DayInputs{Symptoms: []SymptomRecord{{Severity: 5}}}
	score := ComputeDay(day("2026-03-02"), Normalize(inputs, DefaultConfiguration()), 0, DefaultConfiguration())

	if score.DecayedLoad != 20 {
		t.Errorf("DecayedLoad = %v, want 20", score.DecayedLoad)
	}
	if score.Risk != RiskSafe {
		t.Errorf("Risk = %v, want safe", score.Risk)
	}
}

func TestEmptyDayIsZeroAndSafe(t *testing.T) {
	score := ComputeDay(day("2026-03-02"), Normalize(DayInputs{}, DefaultConfiguration()), 0, DefaultConfiguration())
	if score.DecayedLoad != 0 || score.RawLoad != 0 {
		t.Errorf("loads = %v/%v, want 0/0", score.RawLoad, score.DecayedLoad)
	}
	if score.Risk != RiskSafe {
		t.Errorf("Risk = %v, want safe", score.Risk)
	}
}

func TestClassifyRiskBoundariesAreExclusive(t *testing.T) {
	th := Thresholds{Safe: 25, Caution: 50, High: 75}
	tests := []struct {
		load float64
		want Risk
	}{
		{0, RiskSafe},
		{24.999, RiskSafe},
		{25, RiskCaution}, // exactly on a boundary belongs to the next tier
		{49.999, RiskCaution},
		{50, RiskHigh},
		{75, RiskCritical},
		{100, RiskCritical},
	}
	for _, tt := range tests {
		if got := ClassifyRisk(tt.load, th); got != tt.want {
			t.Errorf("ClassifyRisk(%v) = %v, want %v", tt.load, got, tt.want)
		}
	}
}

func TestLoadsStayInRange(t *testing.T) {
	cfg := DefaultConfiguration()
	inputs := DayInputs{Events: []ExertionEvent{
		{Kind: KindActivity, Physical: fp(5), Cognitive: fp(5), Emotional: fp(5), DurationMinutes: fp(120)},
		{Kind: KindActivity, Physical: fp(5), Cognitive: fp(5), Emotional: fp(5), DurationMinutes: fp(120)},
		{Kind: KindActivity, Physical: fp(5), Cognitive: fp(5), Emotional: fp(5), DurationMinutes: fp(120)},
	}}
	score := ComputeDay(day("2026-03-02"), Normalize(inputs, cfg), 100, cfg)
	if score.RawLoad > 100 || score.DecayedLoad > 100 {
		t.Errorf("loads exceed ceiling: raw=%v decayed=%v", score.RawLoad, score.DecayedLoad)
	}
}

func TestDecayedLoadMonotonicInPreviousLoad(t *testing.T) {
	cfg := DefaultConfiguration()
	nd := Normalize(DayInputs{Events: []ExertionEvent{{Kind: KindActivity, Physical: fp(2), Cognitive: fp(2), Emotional: fp(2)}}}, cfg)

	last := -1.0
	for prev := 0.0; prev <= 100; prev += 5 {
		score := ComputeDay(day("2026-03-02"), nd, prev, cfg)
		if score.DecayedLoad < last {
			t.Fatalf("DecayedLoad decreased: prev=%v gave %v after %v", prev, score.DecayedLoad, last)
		}
		last = score.DecayedLoad
	}
}

func TestNonFinitePreviousLoadIsNeutralized(t *testing.T) {
	cfg := DefaultConfiguration()
	for _, prev := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -50} {
		score := ComputeDay(day("2026-03-02"), Normalize(DayInputs{}, cfg), prev, cfg)
		if score.DecayedLoad != 0 {
			t.Errorf("prev=%v: DecayedLoad = %v, want 0", prev, score.DecayedLoad)
		}
	}
}

func rangeFixture() []DayRecord {
	return []DayRecord{
		{Day: day("2026-03-02"), Inputs: DayInputs{Events: []ExertionEvent{
			{Kind: KindActivity, Physical: fp(5), Cognitive: fp(5), Emotional: fp(5)},
		}}},
		{Day: day("2026-03-03")},
		{Day: day("2026-03-04"), Inputs: DayInputs{Symptoms: []SymptomRecord{{Severity: 4}}}},
	}
}

func TestComputeRangeIsPure(t *testing.T) {
	cfg := DefaultConfiguration()
	a := ComputeRange(rangeFixture(), cfg)
	b := ComputeRange(rangeFixture(), cfg)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different score sequences")
	}
}

func TestComputeRangeCarriesForward(t *testing.T) {
	cfg := DefaultConfiguration()
	scores := ComputeRange(rangeFixture(), cfg)

	if len(scores) != 3 {
		t.Fatalf("got %d scores, want 3", len(scores))
	}
	if scores[0].DecayedLoad != 30 {
		t.Errorf("day 1 DecayedLoad = %v, want 30", scores[0].DecayedLoad)
	}
	if math.Abs(scores[1].DecayedLoad-21) > 1e-9 { // 30 * 0.7
		t.Errorf("day 2 DecayedLoad = %v, want 21", scores[1].DecayedLoad)
	}
	// Day 3: symptomLoad 10, modifier 1.2-4*0.16=0.56, carry 21*0.7*0.56
	want := 10 + 21*0.7*0.56
	if math.Abs(scores[2].DecayedLoad-want) > 1e-9 {
		t.Errorf("day 3 DecayedLoad = %v, want %v", scores[2].DecayedLoad, want)
	}
}

func TestReflectionRedirectsTrajectory(t *testing.T) {
	cfg := DefaultConfiguration()
	days := []DayRecord{
		{Day: day("2026-03-02"), Inputs: DayInputs{Events: []ExertionEvent{
			{Kind: KindActivity, Physical: fp(5), Cognitive: fp(5), Emotional: fp(5)},
		}}, Multiplier: fp(2.0)},
		{Day: day("2026-03-03")},
	}
	scores := ComputeRange(days, cfg)

	felt := scores[0].FeltLoad()
	if felt == nil || *felt != 60 {
		t.Fatalf("FeltLoad = %v, want 60", felt)
	}
	if scores[0].EffectiveLoad() != 60 {
		t.Errorf("EffectiveLoad = %v, want 60", scores[0].EffectiveLoad())
	}
	// Next day decays from the felt value, not the computed one.
	if math.Abs(scores[1].DecayedLoad-42) > 1e-9 { // 60 * 0.7
		t.Errorf("day 2 DecayedLoad = %v, want 42", scores[1].DecayedLoad)
	}
}

func TestFeltLoadScenario(t *testing.T) {
	score := LoadScore{DecayedLoad: 40, ReflectionMultiplier: fp(1.5)}
	if felt := score.FeltLoad(); felt == nil || *felt != 60 {
		t.Errorf("FeltLoad = %v, want 60", felt)
	}
	if score.EffectiveLoad() != 60 {
		t.Errorf("EffectiveLoad = %v, want 60", score.EffectiveLoad())
	}

	plain := LoadScore{DecayedLoad: 40}
	if plain.FeltLoad() != nil {
		t.Error("FeltLoad should be nil without a multiplier")
	}
	if plain.EffectiveLoad() != 40 {
		t.Errorf("EffectiveLoad = %v, want 40", plain.EffectiveLoad())
	}
}

func TestSanitizeMultiplierClamps(t *testing.T) {
	if m := sanitizeMultiplier(fp(5)); m == nil || *m != 2.0 {
		t.Errorf("sanitizeMultiplier(5) = %v, want 2.0", m)
	}
	if m := sanitizeMultiplier(fp(0.1)); m == nil || *m != 0.5 {
		t.Errorf("sanitizeMultiplier(0.1) = %v, want 0.5", m)
	}
	if m := sanitizeMultiplier(fp(math.NaN())); m != nil {
		t.Errorf("sanitizeMultiplier(NaN) = %v, want nil", m)
	}
	if m := sanitizeMultiplier(nil); m != nil {
		t.Errorf("sanitizeMultiplier(nil) = %v, want nil", m)
	}
}
