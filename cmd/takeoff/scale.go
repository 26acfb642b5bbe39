package main

import (
	"fmt"

	"github.com/philipparndt/gotakeoff/pkg/scale"
	"github.com/spf13/cobra"
)

var scaleCmd = &cobra.Command{
	Use:   "scale [notation]",
	Short: "Show the known distance of an architectural scale",
	Long: `Convert a scale notation such as 1/4"=1' into the real-world distance of
one drawn foot. Without an argument the presets are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScale,
}

func init() {
	rootCmd.AddCommand(scaleCmd)
}

func runScale(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("Scale Presets")
		fmt.Println("=============")
		for _, p := range scale.Presets {
			if !scale.IsNotation(p) {
				continue
			}
			d, err := scale.ParseNotation(p)
			if err != nil {
				return err
			}
			fmt.Printf("  %-10s %s\n", p, bold("%.2f %s", d, cfg.LengthUnit))
		}
		return nil
	}

	d, err := scale.ParseNotation(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", args[0], bold("%.2f %s", d, cfg.LengthUnit))
	return nil
}
