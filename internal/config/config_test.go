package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/philipparndt/gotakeoff/internal/measurement"
	"github.com/philipparndt/gotakeoff/internal/view"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(measurement.DefaultUnits, cfg.Units()); diff != "" {
		t.Errorf("units mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(view.DefaultLimits, cfg.Limits()); diff != "" {
		t.Errorf("limits mismatch (-want +got):\n%s", diff)
	}
	if cfg.PromptMax != 1000 {
		t.Errorf("expected prompt maximum 1000, got %v", cfg.PromptMax)
	}
	if got := cfg.ProjectPath("plan.pdf"); got != "plan.pdf.takeoff.json" {
		t.Errorf("unexpected project path %s", got)
	}
}

func TestEnvironment(t *testing.T) {
	t.Setenv("TAKEOFF_UNIT", "m")
	t.Setenv("TAKEOFF_AREA_UNIT", "m²")
	t.Setenv("TAKEOFF_ZOOM_MAX", "8")
	t.Setenv("TAKEOFF_PDFTOPPM", "/opt/poppler/pdftoppm")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if u := cfg.Units(); u.Length != "m" || u.Area != "m²" || u.Count != "point" {
		t.Errorf("unexpected units %+v", u)
	}
	if cfg.Limits().Max != 8 {
		t.Errorf("expected zoom maximum 8, got %v", cfg.Limits().Max)
	}
	opts := cfg.EngineOptions(nil)
	if opts.PromptMax != 1000 || opts.Units.Length != "m" {
		t.Errorf("unexpected engine options %+v", opts)
	}
	if p := cfg.Poppler("plan.pdf"); p.Path() != "plan.pdf" {
		t.Errorf("unexpected document path %s", p.Path())
	}
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"TAKEOFF_ZOOM_MIN", "0"},
		{"TAKEOFF_ZOOM_MIN", "6"},
		{"TAKEOFF_ZOOM_STEP", "1"},
		{"TAKEOFF_ZOOM_STEP", "fast"},
		{"TAKEOFF_PROMPT_MAX", "-1"},
		{"TAKEOFF_LOG_LEVEL", "loud"},
		{"TAKEOFF_UNIT", " "},
		{"TAKEOFF_PROJECT_SUFFIX", "json"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestSetupLogger(t *testing.T) {
	if err := SetupLogger("debug"); err != nil {
		t.Errorf("SetupLogger failed: %v", err)
	}
	if err := SetupLogger("chatty"); err == nil {
		t.Errorf("expected an error for an unknown level")
	}
}
