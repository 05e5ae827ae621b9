package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aidancornelius/murmur-engine/internal/engine"
	"github.com/aidancornelius/murmur-engine/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mgr, err := engine.NewManager(db, engine.DefaultConfiguration())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	eng := engine.New(db, mgr)
	return New(db, eng, engine.DefaultBaselines(), "test")
}

func doJSON(t *testing.T, srv *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return m
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	w := doJSON(t, srv, "GET", "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	if body["version"] != "test" {
		t.Errorf("version = %v, want test", body["version"])
	}
}

func TestAddEventAndScore(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, "POST", "/api/events",
		`{"date":"2026-03-02","kind":"activity","physical":5,"cognitive":5,"emotional":5,"duration_minutes":60}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add event status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, "GET", "/api/scores?start=2026-03-02&end=2026-03-03", "")
	if w.Code != http.StatusOK {
		t.Fatalf("scores status = %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	scores, ok := body["scores"].([]any)
	if !ok || len(scores) != 2 {
		t.Fatalf("scores = %v, want 2 entries", body["scores"])
	}
	first := scores[0].(map[string]any)
	if first["decayed_load"] != 30.0 {
		t.Errorf("decayed_load = %v, want 30", first["decayed_load"])
	}
	if first["risk"] != "caution" {
		t.Errorf("risk = %v, want caution", first["risk"])
	}
	second := scores[1].(map[string]any)
	if second["decayed_load"] != 21.0 {
		t.Errorf("day 2 decayed_load = %v, want 21", second["decayed_load"])
	}
}

func TestAddEventRejectsBadInput(t *testing.T) {
	srv := testServer(t)
	for name, body := range map[string]string{
		"bad date": `{"date":"03/02/2026","kind":"activity"}`,
		"bad kind": `{"date":"2026-03-02","kind":"nap"}`,
		"not json": `{`,
	} {
		w := doJSON(t, srv, "POST", "/api/events", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, w.Code)
		}
	}
}

func TestScoresRejectsBadRange(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, "GET", "/api/scores?start=bogus&end=2026-03-03", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad start: status = %d, want 400", w.Code)
	}
	w = doJSON(t, srv, "GET", "/api/scores?start=2026-03-03&end=2026-03-01", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("inverted range: status = %d, want 400", w.Code)
	}
}

func TestReflectionRoutes(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, "GET", "/api/reflections/2026-03-02", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing reflection status = %d, want 404", w.Code)
	}

	w = doJSON(t, srv, "PUT", "/api/reflections/2026-03-02",
		`{"body_to_mood":4,"load_multiplier":1.5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put reflection status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, "GET", "/api/reflections/2026-03-02", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get reflection status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["load_multiplier"] != 1.5 || body["body_to_mood"] != 4.0 {
		t.Errorf("reflection = %v", body)
	}

	// Out-of-range multiplier is rejected.
	w = doJSON(t, srv, "PUT", "/api/reflections/2026-03-02", `{"load_multiplier":3.0}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid multiplier status = %d, want 400", w.Code)
	}
}

func TestSleepRoute(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, "PUT", "/api/sleep",
		`{"date":"2026-03-02","quality":4,"bed_time":"2026-03-01T22:00:00Z","wake_time":"2026-03-02T06:00:00Z"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put sleep status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, "PUT", "/api/sleep",
		`{"date":"2026-03-02","quality":4,"bed_time":"2026-03-02T06:00:00Z","wake_time":"2026-03-01T22:00:00Z"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("inverted sleep times status = %d, want 400", w.Code)
	}
}

func TestConfigValidation(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, "PUT", "/api/config",
		`{"safe":50,"caution":30,"high":80,"decay_rate":0.7,"symptom_multiplier":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-ascending thresholds status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "strictly increasing") {
		t.Errorf("error body = %s", w.Body.String())
	}

	w = doJSON(t, srv, "PUT", "/api/config",
		`{"safe":20,"caution":45,"high":80,"decay_rate":0.6,"symptom_multiplier":1.2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("valid config status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, "GET", "/api/calibration", "")
	body := decodeBody(t, w)
	th := body["thresholds"].(map[string]any)
	if th["safe"] != 20.0 || th["caution"] != 45.0 || th["high"] != 80.0 {
		t.Errorf("thresholds = %v", th)
	}
}

func TestCalibrationFlow(t *testing.T) {
	srv := testServer(t)

	// A good-day report outside a calibration round conflicts.
	w := doJSON(t, srv, "POST", "/api/calibration/good-day", `{"date":"2026-03-02"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("good day before start status = %d, want 409", w.Code)
	}

	w = doJSON(t, srv, "POST", "/api/calibration/start", "")
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d", w.Code)
	}

	dates := []string{"2026-03-02", "2026-03-09", "2026-03-16"}
	for i, d := range dates {
		w = doJSON(t, srv, "POST", "/api/events",
			`{"date":"`+d+`","kind":"activity","physical":2,"cognitive":2,"emotional":2}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("add event status = %d", w.Code)
		}
		w = doJSON(t, srv, "POST", "/api/calibration/good-day", `{"date":"`+d+`"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("good day %d status = %d: %s", i, w.Code, w.Body.String())
		}
		body := decodeBody(t, w)
		if body["completed"] != (i == 2) {
			t.Errorf("good day %d completed = %v", i, body["completed"])
		}
	}

	w = doJSON(t, srv, "GET", "/api/calibration", "")
	body := decodeBody(t, w)
	if body["calibrating"] != false {
		t.Errorf("calibrating = %v after completed round", body["calibrating"])
	}
	th := body["thresholds"].(map[string]any)
	if !(th["safe"].(float64) < th["caution"].(float64) && th["caution"].(float64) < th["high"].(float64)) {
		t.Errorf("calibrated thresholds not ascending: %v", th)
	}
}

func TestClassifyRoute(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, "POST", "/api/classify", `{"cycle_day":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("classify status = %d", w.Code)
	}
	if decodeBody(t, w)["state"] != "menstrual" {
		t.Errorf("state = %v, want menstrual", decodeBody(t, w)["state"])
	}

	w = doJSON(t, srv, "POST", "/api/classify", `{"hrv":60,"sleep_hours":7}`)
	if decodeBody(t, w)["state"] != "recovered" {
		t.Errorf("state = %v, want recovered", decodeBody(t, w)["state"])
	}

	w = doJSON(t, srv, "POST", "/api/classify", `{}`)
	if decodeBody(t, w)["state"] != nil {
		t.Errorf("state = %v, want null", decodeBody(t, w)["state"])
	}
}
