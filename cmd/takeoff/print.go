package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/philipparndt/gotakeoff/internal/measurement"
)

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

func layerColor(l measurement.Layer) *color.Color {
	c := color.New(color.Bold)
	switch {
	case l.Color.R > l.Color.G && l.Color.R > l.Color.B:
		c.Add(color.FgRed)
	case l.Color.G > l.Color.B:
		c.Add(color.FgGreen)
	default:
		c.Add(color.FgBlue)
	}
	return c
}

func printMeasurements(layers []measurement.Layer) {
	for _, l := range layers {
		title := layerColor(l).Sprint(l.Name)
		if !l.Visible {
			title += color.New(color.Faint).Sprint(" (hidden)")
		}
		fmt.Printf("%s\n", title)
		if len(l.Measurements) == 0 {
			fmt.Println("  -")
			continue
		}
		for _, m := range l.Measurements {
			fmt.Printf("  %-12s %14s  %s\n", m.Kind, measurement.FormatValue(m.Value, m.Unit), m.Description)
		}
	}
}

func printSummary(sum *measurement.Summary, units measurement.Units) {
	fmt.Println()
	fmt.Println("Summary")
	fmt.Println("=======")
	if !sum.Calibrated {
		fmt.Println(color.YellowString("  not calibrated, values are in pixels"))
	}
	fmt.Printf("  Total length: %s\n", bold("%s", measurement.FormatValue(sum.TotalLength, units.Length)))
	fmt.Printf("  Total area:   %s\n", bold("%s", measurement.FormatValue(sum.TotalArea, units.Area)))
	fmt.Printf("  Items:        %s\n", bold("%d", sum.ItemCount))
}
