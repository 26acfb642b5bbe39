package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/philipparndt/gotakeoff/internal/config"
	"github.com/philipparndt/gotakeoff/version"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := config.SetupLogger(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a := app.New()
	w := a.NewWindow("Takeoff " + version.GetVersion())

	takeoff := NewApp(w, cfg, logrus.WithField("component", "gui"))
	defer takeoff.Close()

	if len(os.Args) > 1 {
		takeoff.Open(os.Args[1])
	}

	w.Resize(fyne.NewSize(1400, 900))
	w.ShowAndRun()
}
