package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aidancornelius/murmur-engine/internal/engine"
	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date            string   `json:"date"`
		Kind            string   `json:"kind"`
		Physical        *float64 `json:"physical"`
		Cognitive       *float64 `json:"cognitive"`
		Emotional       *float64 `json:"emotional"`
		DurationMinutes *float64 `json:"duration_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json"))
		return
	}
	day, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ev := engine.ExertionEvent{
		Day:             day,
		Kind:            engine.EventKind(req.Kind),
		Physical:        req.Physical,
		Cognitive:       req.Cognitive,
		Emotional:       req.Emotional,
		DurationMinutes: req.DurationMinutes,
	}
	if err := s.db.AddEvent(ev); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (s *Server) handleAddSymptom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date     string   `json:"date"`
		Severity *float64 `json:"severity"`
		Positive bool     `json:"positive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json"))
		return
	}
	day, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Severity == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("severity required"))
		return
	}

	rec := engine.SymptomRecord{Day: day, Severity: *req.Severity, Positive: req.Positive}
	if err := s.db.AddSymptom(rec); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (s *Server) handleUpsertSleep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date     string  `json:"date"`
		Quality  float64 `json:"quality"`
		BedTime  string  `json:"bed_time"`
		WakeTime string  `json:"wake_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json"))
		return
	}
	day, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	bedAt, err := time.Parse(time.RFC3339, req.BedTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid bed_time (want RFC 3339)"))
		return
	}
	wakeAt, err := time.Parse(time.RFC3339, req.WakeTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid wake_time (want RFC 3339)"))
		return
	}
	if !wakeAt.After(bedAt) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("wake_time must be after bed_time"))
		return
	}

	rec := engine.SleepRecord{Day: day, Quality: req.Quality, BedAt: bedAt, WakeAt: wakeAt}
	if err := s.db.UpsertSleep(rec); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type scoreJSON struct {
	Date                 string   `json:"date"`
	RawLoad              float64  `json:"raw_load"`
	DecayedLoad          float64  `json:"decayed_load"`
	Risk                 string   `json:"risk"`
	ReflectionMultiplier *float64 `json:"reflection_multiplier,omitempty"`
	FeltLoad             *float64 `json:"felt_load,omitempty"`
	EffectiveLoad        float64  `json:"effective_load"`
}

func toScoreJSON(sc engine.LoadScore) scoreJSON {
	return scoreJSON{
		Date:                 sc.Day.Format(dateLayout),
		RawLoad:              sc.RawLoad,
		DecayedLoad:          sc.DecayedLoad,
		Risk:                 sc.Risk.String(),
		ReflectionMultiplier: sc.ReflectionMultiplier,
		FeltLoad:             sc.FeltLoad(),
		EffectiveLoad:        sc.EffectiveLoad(),
	}
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	start, err := parseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("start: %w", err))
		return
	}
	end, err := parseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("end: %w", err))
		return
	}

	scores, err := s.engine.ScoreRange(start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out := make([]scoreJSON, len(scores))
	for i, sc := range scores {
		out[i] = toScoreJSON(sc)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"start":  start.Format(dateLayout),
		"end":    end.Format(dateLayout),
		"scores": out,
	})
}

type reflectionJSON struct {
	Date           string   `json:"date"`
	BodyToMood     *float64 `json:"body_to_mood,omitempty"`
	MindToBody     *float64 `json:"mind_to_body,omitempty"`
	SelfCareSpace  *float64 `json:"self_care_space,omitempty"`
	LoadMultiplier *float64 `json:"load_multiplier,omitempty"`
}

func (s *Server) handleGetReflection(w http.ResponseWriter, r *http.Request) {
	day, err := parseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	refl, err := s.db.GetReflection(day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if refl == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no reflection for %s", day.Format(dateLayout)))
		return
	}
	writeJSON(w, http.StatusOK, reflectionJSON{
		Date:           refl.Day.Format(dateLayout),
		BodyToMood:     refl.BodyToMood,
		MindToBody:     refl.MindToBody,
		SelfCareSpace:  refl.SelfCareSpace,
		LoadMultiplier: refl.LoadMultiplier,
	})
}

func (s *Server) handlePutReflection(w http.ResponseWriter, r *http.Request) {
	day, err := parseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var req reflectionJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json"))
		return
	}

	refl := engine.DayReflection{
		Day:            day,
		BodyToMood:     req.BodyToMood,
		MindToBody:     req.MindToBody,
		SelfCareSpace:  req.SelfCareSpace,
		LoadMultiplier: req.LoadMultiplier,
	}
	if err := engine.ValidateReflection(refl); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.db.UpsertReflection(refl); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCalibrationStatus(w http.ResponseWriter, r *http.Request) {
	cal := s.engine.Calibration.Calibration()
	cfg := s.engine.Calibration.Configuration()
	writeJSON(w, http.StatusOK, map[string]any{
		"calibrating":   cal.Calibrating,
		"days_recorded": len(cal.Days),
		"days_required": 3,
		"thresholds": map[string]float64{
			"safe":    cfg.Thresholds.Safe,
			"caution": cfg.Thresholds.Caution,
			"high":    cfg.Thresholds.High,
		},
	})
}

func (s *Server) handleCalibrationStart(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Calibration.StartCalibration(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "calibrating"})
}

func (s *Server) handleGoodDay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json"))
		return
	}
	day, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	done, load, err := s.engine.RecordGoodDay(day)
	if err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}

	cal := s.engine.Calibration.Calibration()
	writeJSON(w, http.StatusOK, map[string]any{
		"recorded_load": load,
		"completed":     done,
		"days_recorded": len(cal.Days),
		"days_required": 3,
	})
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Safe              float64 `json:"safe"`
		Caution           float64 `json:"caution"`
		High              float64 `json:"high"`
		DecayRate         float64 `json:"decay_rate"`
		SymptomMultiplier float64 `json:"symptom_multiplier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json"))
		return
	}

	cfg := engine.LoadConfiguration{
		Thresholds:        engine.Thresholds{Safe: req.Safe, Caution: req.Caution, High: req.High},
		DecayRate:         req.DecayRate,
		SymptomMultiplier: req.SymptomMultiplier,
	}
	if err := s.engine.Calibration.SetConfiguration(cfg); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HRV            *float64 `json:"hrv"`
		RestingHR      *float64 `json:"resting_hr"`
		SleepHours     *float64 `json:"sleep_hours"`
		WorkoutMinutes *float64 `json:"workout_minutes"`
		CycleDay       *int     `json:"cycle_day"`
		FlowLevel      string   `json:"flow_level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json"))
		return
	}

	sample := engine.BiometricSample{
		HRV:            req.HRV,
		RestingHR:      req.RestingHR,
		SleepHours:     req.SleepHours,
		WorkoutMinutes: req.WorkoutMinutes,
		CycleDay:       req.CycleDay,
		FlowLevel:      req.FlowLevel,
	}
	state, ok := engine.Classify(sample, s.baselines)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"state": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": string(state)})
}
