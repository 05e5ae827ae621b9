package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aidancornelius/murmur-engine/internal/config"
	"github.com/aidancornelius/murmur-engine/internal/engine"
	"github.com/aidancornelius/murmur-engine/internal/server"
	"github.com/aidancornelius/murmur-engine/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	// Resolve database path
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	mgr, err := engine.NewManager(db, seedConfiguration(cfg))
	if err != nil {
		return fmt.Errorf("create calibration manager: %w", err)
	}
	eng := engine.New(db, mgr)

	baselines := engine.Baselines{HRV: cfg.Baselines.HRV, RestingHR: cfg.Baselines.RestingHR}
	srv := server.New(db, eng, baselines, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "murmur serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  db: %s\n", dbPath)
		active := mgr.Configuration()
		fmt.Fprintf(os.Stderr, "  thresholds: %.0f/%.0f/%.0f decay: %.2f\n",
			active.Thresholds.Safe, active.Thresholds.Caution, active.Thresholds.High, active.DecayRate)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}

// seedConfiguration maps file config onto the engine's configuration,
// used only until settings have been persisted.
func seedConfiguration(cfg config.Config) engine.LoadConfiguration {
	return engine.LoadConfiguration{
		Thresholds: engine.Thresholds{
			Safe:    cfg.Engine.SafeThreshold,
			Caution: cfg.Engine.CautionThreshold,
			High:    cfg.Engine.HighThreshold,
		},
		DecayRate:         cfg.Engine.DecayRate,
		SymptomMultiplier: cfg.Engine.SymptomMultiplier,
	}
}
