// Package config reads the takeoff settings from TAKEOFF_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/philipparndt/gotakeoff/internal/document"
	"github.com/philipparndt/gotakeoff/internal/engine"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/project"
	"github.com/philipparndt/gotakeoff/internal/view"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Prefix of all environment variables
const Prefix = "TAKEOFF"

type Config struct {
	LengthUnit    string  `envconfig:"UNIT" default:"feet"`
	AreaUnit      string  `envconfig:"AREA_UNIT" default:"sq.ft"`
	CountUnit     string  `envconfig:"COUNT_UNIT" default:"point"`
	ZoomMin       float64 `envconfig:"ZOOM_MIN" default:"0.2"`
	ZoomMax       float64 `envconfig:"ZOOM_MAX" default:"5.0"`
	ZoomStep      float64 `envconfig:"ZOOM_STEP" default:"1.2"`
	PromptMax     float64 `envconfig:"PROMPT_MAX" default:"1000"`
	LogLevel      string  `envconfig:"LOG_LEVEL" default:"info"`
	Listen        string  `envconfig:"LISTEN" default:"127.0.0.1:8765"`
	Pdftoppm      string  `envconfig:"PDFTOPPM" default:"pdftoppm"`
	Pdfinfo       string  `envconfig:"PDFINFO" default:"pdfinfo"`
	ProjectSuffix string  `envconfig:"PROJECT_SUFFIX" default:".takeoff.json"`
}

// Load reads and validates the environment
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.LengthUnit) == "" || strings.TrimSpace(c.AreaUnit) == "" {
		return fmt.Errorf("units must not be empty")
	}
	if c.ZoomMin <= 0 || c.ZoomMax < c.ZoomMin {
		return fmt.Errorf("invalid zoom range %.2f..%.2f", c.ZoomMin, c.ZoomMax)
	}
	if c.ZoomStep <= 1 {
		return fmt.Errorf("zoom step must be greater than 1, got %.2f", c.ZoomStep)
	}
	if c.PromptMax <= 0 {
		return fmt.Errorf("prompt maximum must be positive, got %.2f", c.PromptMax)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	if !strings.HasPrefix(c.ProjectSuffix, ".") {
		return fmt.Errorf("project suffix must start with a dot, got %q", c.ProjectSuffix)
	}
	return nil
}

func (c *Config) Units() measurement.Units {
	return measurement.Units{Length: c.LengthUnit, Area: c.AreaUnit, Count: c.CountUnit}
}

func (c *Config) Limits() view.Limits {
	return view.Limits{Min: c.ZoomMin, Max: c.ZoomMax, Step: c.ZoomStep}
}

// EngineOptions returns engine options without prompter or notifier
func (c *Config) EngineOptions(log *logrus.Entry) *engine.Options {
	return &engine.Options{
		Units:     c.Units(),
		Limits:    c.Limits(),
		PromptMax: c.PromptMax,
		Logger:    log,
	}
}

// ProjectPath is where the takeoff of document is saved
func (c *Config) ProjectPath(document string) string {
	return project.Path(document, c.ProjectSuffix)
}

// Poppler opens path with the configured poppler tools
func (c *Config) Poppler(path string) *document.Poppler {
	return document.NewPoppler(path, c.Pdftoppm, c.Pdfinfo)
}

// SetupLogger configures the standard logrus logger
func SetupLogger(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}
	return nil
}
