package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gotakeoff/internal/config"
	"github.com/philipparndt/gotakeoff/version"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "takeoff",
	Short: "Measure lengths, areas and counts on scaled drawings",
	Long: `takeoff calibrates a rasterized drawing against a known distance or an
architectural scale and turns pixel geometry into real-world lengths, areas
and item counts.

Settings are read from TAKEOFF_* environment variables.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		return config.SetupLogger(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
