package cli

import (
	"fmt"

	"github.com/aidancornelius/murmur-engine/internal/config"
	"github.com/aidancornelius/murmur-engine/internal/engine"
	"github.com/spf13/cobra"
)

var (
	stateHRV     float64
	stateRHR     float64
	stateSleep   float64
	stateWorkout float64
	stateCycle   int
	stateFlow    string
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Classify a physiological state from biometrics",
	Long:  "Score biometric readings against personal baselines and print the resulting state label. Omitted readings are ignored.",
	RunE:  runState,
}

func init() {
	stateCmd.Flags().Float64Var(&stateHRV, "hrv", 0, "Heart rate variability (ms)")
	stateCmd.Flags().Float64Var(&stateRHR, "resting-hr", 0, "Resting heart rate (bpm)")
	stateCmd.Flags().Float64Var(&stateSleep, "sleep", 0, "Last night's sleep (hours)")
	stateCmd.Flags().Float64Var(&stateWorkout, "workout", 0, "Workout duration (minutes)")
	stateCmd.Flags().IntVar(&stateCycle, "cycle-day", 0, "Menstrual cycle day")
	stateCmd.Flags().StringVar(&stateFlow, "flow", "", "Reported flow level")
}

func runState(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	sample := engine.BiometricSample{FlowLevel: stateFlow}
	if cmd.Flags().Changed("hrv") {
		sample.HRV = &stateHRV
	}
	if cmd.Flags().Changed("resting-hr") {
		sample.RestingHR = &stateRHR
	}
	if cmd.Flags().Changed("sleep") {
		sample.SleepHours = &stateSleep
	}
	if cmd.Flags().Changed("workout") {
		sample.WorkoutMinutes = &stateWorkout
	}
	if cmd.Flags().Changed("cycle-day") {
		sample.CycleDay = &stateCycle
	}

	baselines := engine.Baselines{HRV: cfg.Baselines.HRV, RestingHR: cfg.Baselines.RestingHR}
	state, ok := engine.Classify(sample, baselines)
	if !ok {
		fmt.Println("no signal — supply at least one reading")
		return nil
	}
	fmt.Println(state)
	return nil
}
