package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aidancornelius/murmur-engine/internal/client"
	"github.com/aidancornelius/murmur-engine/internal/engine"
	"github.com/spf13/cobra"
)

// Track commands prefer a running server (single writer for the
// database); when none is reachable they fall back to opening the
// database directly.

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Log activities, meals, symptoms and sleep",
}

var (
	trackDate      string
	trackPhysical  float64
	trackCognitive float64
	trackEmotional float64
	trackDuration  float64
	trackSeverity  float64
	trackPositive  bool
	trackQuality   float64
	trackBed       string
	trackWake      string
)

var trackActivityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Log an activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return trackEvent(cmd, engine.KindActivity)
	},
}

var trackMealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Log a meal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return trackEvent(cmd, engine.KindMeal)
	},
}

var trackSymptomCmd = &cobra.Command{
	Use:   "symptom",
	Short: "Log a symptom severity",
	RunE:  runTrackSymptom,
}

var trackSleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Log the day's sleep",
	RunE:  runTrackSleep,
}

func init() {
	trackCmd.AddCommand(trackActivityCmd)
	trackCmd.AddCommand(trackMealCmd)
	trackCmd.AddCommand(trackSymptomCmd)
	trackCmd.AddCommand(trackSleepCmd)

	trackCmd.PersistentFlags().StringVarP(&trackDate, "date", "d", "", "Day (YYYY-MM-DD, default today)")

	for _, c := range []*cobra.Command{trackActivityCmd, trackMealCmd} {
		c.Flags().Float64Var(&trackPhysical, "physical", 0, "Physical exertion 1-5")
		c.Flags().Float64Var(&trackCognitive, "cognitive", 0, "Cognitive exertion 1-5")
		c.Flags().Float64Var(&trackEmotional, "emotional", 0, "Emotional load 1-5")
		c.Flags().Float64Var(&trackDuration, "duration", 0, "Duration in minutes")
	}

	trackSymptomCmd.Flags().Float64Var(&trackSeverity, "severity", 3, "Severity 1-5")
	trackSymptomCmd.Flags().BoolVar(&trackPositive, "positive", false, "Positive-type symptom (5 = best)")

	trackSleepCmd.Flags().Float64Var(&trackQuality, "quality", 3, "Sleep quality 1-5")
	trackSleepCmd.Flags().StringVar(&trackBed, "bed", "", "Bed time (RFC 3339)")
	trackSleepCmd.Flags().StringVar(&trackWake, "wake", "", "Wake time (RFC 3339)")
}

func trackDay() (time.Time, string, error) {
	if trackDate == "" {
		d := engine.DayStart(time.Now())
		return d, d.Format("2006-01-02"), nil
	}
	d, err := time.Parse("2006-01-02", trackDate)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("date: %w", err)
	}
	return d, trackDate, nil
}

// flagFloat returns a pointer only when the user set the flag, so the
// engine can distinguish "unrated" from a zero value.
func flagFloat(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func trackEvent(cmd *cobra.Command, kind engine.EventKind) error {
	day, dateStr, err := trackDay()
	if err != nil {
		return err
	}

	ev := engine.ExertionEvent{
		Day:             day,
		Kind:            kind,
		Physical:        flagFloat(cmd, "physical", trackPhysical),
		Cognitive:       flagFloat(cmd, "cognitive", trackCognitive),
		Emotional:       flagFloat(cmd, "emotional", trackEmotional),
		DurationMinutes: flagFloat(cmd, "duration", trackDuration),
	}

	if api := client.New(); api.Healthy() {
		body, _ := json.Marshal(map[string]any{
			"date":             dateStr,
			"kind":             string(kind),
			"physical":         ev.Physical,
			"cognitive":        ev.Cognitive,
			"emotional":        ev.Emotional,
			"duration_minutes": ev.DurationMinutes,
		})
		if _, err := api.Post("/api/events", body); err != nil {
			return err
		}
		fmt.Printf("logged %s for %s\n", kind, dateStr)
		return nil
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := db.AddEvent(ev); err != nil {
		return err
	}
	fmt.Printf("logged %s for %s\n", kind, dateStr)
	return nil
}

func runTrackSymptom(cmd *cobra.Command, args []string) error {
	day, dateStr, err := trackDay()
	if err != nil {
		return err
	}

	if api := client.New(); api.Healthy() {
		body, _ := json.Marshal(map[string]any{
			"date":     dateStr,
			"severity": trackSeverity,
			"positive": trackPositive,
		})
		if _, err := api.Post("/api/symptoms", body); err != nil {
			return err
		}
		fmt.Printf("logged symptom for %s\n", dateStr)
		return nil
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	rec := engine.SymptomRecord{Day: day, Severity: trackSeverity, Positive: trackPositive}
	if err := db.AddSymptom(rec); err != nil {
		return err
	}
	fmt.Printf("logged symptom for %s\n", dateStr)
	return nil
}

func runTrackSleep(cmd *cobra.Command, args []string) error {
	day, dateStr, err := trackDay()
	if err != nil {
		return err
	}
	if trackBed == "" || trackWake == "" {
		return fmt.Errorf("--bed and --wake are required")
	}
	bedAt, err := time.Parse(time.RFC3339, trackBed)
	if err != nil {
		return fmt.Errorf("bed time: %w", err)
	}
	wakeAt, err := time.Parse(time.RFC3339, trackWake)
	if err != nil {
		return fmt.Errorf("wake time: %w", err)
	}
	if !wakeAt.After(bedAt) {
		return fmt.Errorf("wake time must be after bed time")
	}

	if api := client.New(); api.Healthy() {
		body, _ := json.Marshal(map[string]any{
			"date":      dateStr,
			"quality":   trackQuality,
			"bed_time":  trackBed,
			"wake_time": trackWake,
		})
		if _, err := api.Put("/api/sleep", body); err != nil {
			return err
		}
		fmt.Printf("logged sleep for %s\n", dateStr)
		return nil
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	rec := engine.SleepRecord{Day: day, Quality: trackQuality, BedAt: bedAt, WakeAt: wakeAt}
	if err := db.UpsertSleep(rec); err != nil {
		return err
	}
	fmt.Printf("logged sleep for %s\n", dateStr)
	return nil
}
