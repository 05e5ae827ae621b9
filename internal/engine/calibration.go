package engine

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// goodDaysRequired is the number of user-confirmed good days a
// calibration round needs before thresholds are recomputed.
const goodDaysRequired = 3

// CalibrationDay is one user-confirmed "good day" sample.
type CalibrationDay struct {
	Day  time.Time
	Load float64
}

// CalibrationState tracks an in-flight calibration round. Days never
// exceeds goodDaysRequired while calibrating; completing a round resets
// the sequence.
type CalibrationState struct {
	Calibrating bool
	Days        []CalibrationDay
}

// ThresholdFunc maps three recorded good-day loads to new thresholds.
// Implementations must return strictly increasing values.
type ThresholdFunc func(loads [goodDaysRequired]float64) (Thresholds, error)

// SettingsStore persists the configuration and calibration state across
// restarts. A nil store keeps everything in memory (tests).
type SettingsStore interface {
	LoadSettings() (LoadConfiguration, CalibrationState, bool, error)
	SaveSettings(LoadConfiguration, CalibrationState) error
}

// Manager owns the process-wide LoadConfiguration and CalibrationState.
// Reads take a shared lock and return copies, so concurrent score
// computations never observe thresholds mid-update or more than three
// pending calibration days.
type Manager struct {
	mu          sync.RWMutex
	cfg         LoadConfiguration
	cal         CalibrationState
	store       SettingsStore
	thresholdFn ThresholdFunc
}

// NewManager loads persisted settings when a store is given, falling
// back to the given configuration for a fresh installation.
func NewManager(store SettingsStore, fallback LoadConfiguration) (*Manager, error) {
	if err := fallback.Validate(); err != nil {
		return nil, fmt.Errorf("fallback configuration invalid: %w", err)
	}
	m := &Manager{
		cfg:         fallback,
		store:       store,
		thresholdFn: GoodDayThresholds,
	}
	if store != nil {
		cfg, cal, found, err := store.LoadSettings()
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		if found {
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("persisted configuration invalid: %w", err)
			}
			m.cfg = cfg
			m.cal = cal
		}
	}
	return m, nil
}

// SetThresholdFunc replaces the calibration arithmetic. Intended for
// the composition root; not safe to call concurrently with RecordGoodDay.
func (m *Manager) SetThresholdFunc(fn ThresholdFunc) {
	if fn != nil {
		m.thresholdFn = fn
	}
}

// Configuration returns a snapshot of the active configuration.
func (m *Manager) Configuration() LoadConfiguration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Calibration returns a copy of the calibration state.
func (m *Manager) Calibration() CalibrationState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cal := m.cal
	cal.Days = append([]CalibrationDay(nil), m.cal.Days...)
	return cal
}

// SetConfiguration replaces the configuration after validating it.
// Invalid configurations are rejected, never clamped: silent correction
// would mask a misconfigured installation.
func (m *Manager) SetConfiguration(cfg LoadConfiguration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
	return m.persistLocked()
}

// StartCalibration begins a fresh round, discarding any partial samples.
func (m *Manager) StartCalibration() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cal = CalibrationState{Calibrating: true}
	return m.persistLocked()
}

// RecordGoodDay appends a confirmed good-day sample. The third sample
// completes the round: thresholds are recomputed from the three loads,
// the state is cleared, and done is true.
func (m *Manager) RecordGoodDay(day time.Time, load float64) (done bool, err error) {
	if !finite(load) || load < 0 {
		return false, fmt.Errorf("good day load must be a non-negative finite number, got %v", load)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.cal.Calibrating {
		return false, fmt.Errorf("not calibrating")
	}

	m.cal.Days = append(m.cal.Days, CalibrationDay{Day: DayStart(day), Load: load})
	if len(m.cal.Days) < goodDaysRequired {
		return false, m.persistLocked()
	}

	var loads [goodDaysRequired]float64
	for i, d := range m.cal.Days {
		loads[i] = d.Load
	}
	thresholds, err := m.thresholdFn(loads)
	if err != nil {
		// Drop the round rather than leave a stuck full sequence.
		m.cal = CalibrationState{}
		m.persistLocked()
		return false, fmt.Errorf("recompute thresholds: %w", err)
	}

	cfg := m.cfg
	cfg.Thresholds = thresholds
	if err := cfg.Validate(); err != nil {
		m.cal = CalibrationState{}
		m.persistLocked()
		return false, fmt.Errorf("calibrated configuration invalid: %w", err)
	}

	m.cfg = cfg
	m.cal = CalibrationState{}
	log.Printf("calibration: thresholds set to %.1f/%.1f/%.1f", thresholds.Safe, thresholds.Caution, thresholds.High)
	return true, m.persistLocked()
}

func (m *Manager) persistLocked() error {
	if m.store == nil {
		return nil
	}
	if err := m.store.SaveSettings(m.cfg, m.cal); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// GoodDayThresholds is the default calibration arithmetic. A confirmed
// good day should sit comfortably inside the safe band, so safe is the
// mean good-day load plus headroom; the upper tiers keep fixed widths,
// which keeps the ordering strict unconditionally.
func GoodDayThresholds(loads [goodDaysRequired]float64) (Thresholds, error) {
	sum := 0.0
	for _, l := range loads {
		if !finite(l) || l < 0 {
			return Thresholds{}, fmt.Errorf("good day load out of range: %v", l)
		}
		sum += l
	}
	mean := sum / goodDaysRequired

	safe := clamp(mean+10, 15, 55)
	return Thresholds{
		Safe:    safe,
		Caution: safe + 25,
		High:    safe + 45,
	}, nil
}
