package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}
	if cfg.Arena.Width <= 0 || cfg.Arena.Height <= 0 {
		t.Errorf("arena = %gx%g, want positive", cfg.Arena.Width, cfg.Arena.Height)
	}
	if cfg.Physics.DT != 0.01 {
		t.Errorf("dt = %g, want 0.01", cfg.Physics.DT)
	}
	if cfg.Brain.TectumColumns != 16 {
		t.Errorf("tectum columns = %d, want 16", cfg.Brain.TectumColumns)
	}
	if cfg.Flies.Count != 15 {
		t.Errorf("flies = %d, want 15", cfg.Flies.Count)
	}
	if !cfg.Hunting.TrainingMode {
		t.Error("defaults should start in training mode")
	}
}

func TestLoadUserOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	override := "flies:\n  count: 3\nbrain:\n  juvenile_mode: false\n"
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatalf("writing override: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override: %v", err)
	}
	if cfg.Flies.Count != 3 {
		t.Errorf("flies = %d, want overridden 3", cfg.Flies.Count)
	}
	if cfg.Brain.JuvenileMode {
		t.Error("juvenile_mode override not applied")
	}
	// Untouched fields keep their defaults.
	if cfg.Arena.Width != 800 {
		t.Errorf("arena width = %g, want default 800", cfg.Arena.Width)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero arena", func(c *Config) { c.Arena.Width = 0 }, "arena size"},
		{"negative dt", func(c *Config) { c.Physics.DT = -0.01 }, "dt"},
		{"no columns", func(c *Config) { c.Brain.TectumColumns = 0 }, "tectum_columns"},
		{"negative astrocytes", func(c *Config) { c.Brain.Astrocytes = -1 }, "astrocytes"},
		{"no retina fields", func(c *Config) { c.Brain.RetinaFields = 0 }, "retina_fields"},
		{"zero juvenile duration", func(c *Config) { c.Brain.JuvenileDuration = 0 }, "juvenile_duration"},
		{"zero cell size", func(c *Config) { c.Brain.FieldCellSize = 0 }, "field_cell_size"},
		{"negative flies", func(c *Config) { c.Flies.Count = -1 }, "flies"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("loading defaults: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatal("Validate() accepted an invalid config")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestDerivedFieldGrid(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	wantW := int(cfg.Arena.Width / cfg.Brain.FieldCellSize)
	wantH := int(cfg.Arena.Height / cfg.Brain.FieldCellSize)
	if cfg.Derived.FieldGridW != wantW || cfg.Derived.FieldGridH != wantH {
		t.Errorf("derived grid = %dx%d, want %dx%d",
			cfg.Derived.FieldGridW, cfg.Derived.FieldGridH, wantW, wantH)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written yaml: %v", err)
	}
	if back.Arena != cfg.Arena || back.Brain != cfg.Brain || back.Flies != cfg.Flies {
		t.Error("round-tripped config differs from original")
	}
}
