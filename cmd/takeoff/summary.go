package main

import (
	"fmt"

	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/project"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [takeoff.json]",
	Short: "Print the measurements and totals of a saved takeoff",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	f, err := project.Load(args[0])
	if err != nil {
		return err
	}
	state, err := f.RestoreState()
	if err != nil {
		return err
	}

	fmt.Printf("Takeoff of %s (page %d)\n", f.Document, f.Page+1)
	fmt.Printf("Ratio: %.4f px per %s\n\n", f.Ratio, cfg.LengthUnit)
	printMeasurements(state.Layers)
	printSummary(measurement.Summarize(state.Layers), cfg.Units())
	return nil
}
