package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/philipparndt/gotakeoff/internal/document"
	"github.com/philipparndt/gotakeoff/internal/engine"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/project"
	"github.com/philipparndt/gotakeoff/internal/script"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var replayProject string

var replayCmd = &cobra.Command{
	Use:   "replay [script]",
	Short: "Replay a pointer event script and print the measurements",
	Long: `Replay a line-oriented event script against a fresh takeoff.

  load 800 600          # blank page, or: load plan.pdf [page]
  calibrate 1/4"=1'     # or a known distance, or nothing to be asked
  down 0 0
  down 48 0
  answer 10             # answers a calibration without known distance
  mode area             # none, distance, area, count
  down 10 10
  up 40 40 close
  zoom in               # zoom <factor>|in|out, rotate <deg>
  describe Kitchen      # description of the next measurement
  visible Area false
  color Area #ff0000`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVarP(&replayProject, "project", "p", "", "save the resulting takeoff to this file")
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := script.Parse(f)
	if err != nil {
		return err
	}

	log := logrus.WithField("component", "replay")
	e := engine.New(cfg.EngineOptions(log))
	r := script.NewRunner(e, func(path string) document.Source { return cfg.Poppler(path) }, log)
	r.OnOutcome = func(c script.Command, out engine.Outcome) {
		switch {
		case out.Calibration != nil:
			fmt.Printf("%4d  %s %s\n", c.Line, color.GreenString("calibrated"),
				bold("%.4f px per %s", out.Calibration.Ratio, cfg.LengthUnit))
		case out.Measurement != nil:
			fmt.Printf("%4d  %s\n", c.Line, out.Measurement)
		case out.AwaitingDistance:
			fmt.Printf("%4d  %s\n", c.Line, color.YellowString("waiting for a distance"))
		}
	}
	if err := r.Run(cmd.Context(), s); err != nil {
		return err
	}

	fmt.Println()
	layers := e.Layers()
	printMeasurements(layers)
	printSummary(measurement.Summarize(layers), e.Units())

	if replayProject != "" {
		if err := project.Save(replayProject, project.FromSnapshot(e.Snapshot())); err != nil {
			return err
		}
		fmt.Printf("\nSaved %s\n", replayProject)
	}
	return nil
}
