package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Personalize risk thresholds from confirmed good days",
}

var calibrateStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Begin a calibration round",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := eng.Calibration.StartCalibration(); err != nil {
			return err
		}
		fmt.Println("calibrating: mark 3 good days with 'murmur calibrate good-day'")
		return nil
	},
}

var calibrateGoodDayCmd = &cobra.Command{
	Use:   "good-day [date]",
	Short: "Record a confirmed good day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGoodDay,
}

var calibrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show calibration progress and active thresholds",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, db, err := openEngine()
		if err != nil {
			return err
		}
		defer db.Close()

		cal := eng.Calibration.Calibration()
		cfg := eng.Calibration.Configuration()
		if cal.Calibrating {
			fmt.Printf("calibrating: %d of 3 good days recorded\n", len(cal.Days))
		} else {
			fmt.Println("not calibrating")
		}
		fmt.Printf("thresholds: safe < %.1f, caution < %.1f, high < %.1f, critical above\n",
			cfg.Thresholds.Safe, cfg.Thresholds.Caution, cfg.Thresholds.High)
		return nil
	},
}

func init() {
	calibrateCmd.AddCommand(calibrateStartCmd)
	calibrateCmd.AddCommand(calibrateGoodDayCmd)
	calibrateCmd.AddCommand(calibrateStatusCmd)
}

func runGoodDay(cmd *cobra.Command, args []string) error {
	day := time.Now()
	if len(args) == 1 {
		var err error
		day, err = time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("date: %w", err)
		}
	}

	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	done, load, err := eng.RecordGoodDay(day)
	if err != nil {
		return err
	}
	if done {
		cfg := eng.Calibration.Configuration()
		fmt.Printf("calibration complete: thresholds now %.1f/%.1f/%.1f\n",
			cfg.Thresholds.Safe, cfg.Thresholds.Caution, cfg.Thresholds.High)
		return nil
	}
	cal := eng.Calibration.Calibration()
	fmt.Printf("recorded load %.1f (%d of 3)\n", load, len(cal.Days))
	return nil
}
