package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/aidancornelius/murmur-engine/internal/config"
	"github.com/aidancornelius/murmur-engine/internal/engine"
	"github.com/aidancornelius/murmur-engine/internal/store"
	"github.com/spf13/cobra"
)

// openDB is a helper that opens the database for CLI commands.
func openDB() (*store.DB, error) {
	dbPath := os.Getenv("MURMUR_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}

// openEngine wires a store-backed engine for direct-DB commands.
func openEngine() (*engine.Engine, *store.DB, error) {
	db, err := openDB()
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	mgr, err := engine.NewManager(db, seedConfiguration(config.Default()))
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create calibration manager: %w", err)
	}
	return engine.New(db, mgr), db, nil
}

var scoreDays int

var scoreCmd = &cobra.Command{
	Use:   "score [start] [end]",
	Short: "Show the daily load trend",
	Long:  "Compute load scores for a date range (YYYY-MM-DD). With no arguments, shows the last --days days ending today.",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().IntVarP(&scoreDays, "days", "n", 14, "Days to show when no range is given")
}

func runScore(cmd *cobra.Command, args []string) error {
	end := engine.DayStart(time.Now())
	start := end.AddDate(0, 0, -(scoreDays - 1))

	var err error
	if len(args) >= 1 {
		start, err = time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("start date: %w", err)
		}
		end = start
	}
	if len(args) == 2 {
		end, err = time.Parse("2006-01-02", args[1])
		if err != nil {
			return fmt.Errorf("end date: %w", err)
		}
	}

	eng, db, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	scores, err := eng.ScoreRange(start, end)
	if err != nil {
		return fmt.Errorf("score range: %w", err)
	}

	fmt.Printf("%-12s %8s %8s %9s %9s  %s\n", "date", "raw", "decayed", "felt", "effective", "risk")
	for _, sc := range scores {
		felt := "-"
		if f := sc.FeltLoad(); f != nil {
			felt = fmt.Sprintf("%.1f", *f)
		}
		fmt.Printf("%-12s %8.1f %8.1f %9s %9.1f  %s\n",
			sc.Day.Format("2006-01-02"), sc.RawLoad, sc.DecayedLoad, felt, sc.EffectiveLoad(), sc.Risk)
	}
	return nil
}
