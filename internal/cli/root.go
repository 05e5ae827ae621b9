package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "murmur",
	Short: "Pacing engine for energy-limiting chronic conditions",
	Long:  "Murmur estimates an accumulating, decaying load from logged activities, meals, sleep and symptoms, and classifies a live physiological state from biometrics. Single Go binary.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(calibrateCmd)
	rootCmd.AddCommand(importCmd)
}
