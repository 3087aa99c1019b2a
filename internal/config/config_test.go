package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Substance != "neon" {
		t.Errorf("expected substance neon, got %s", cfg.Substance)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown substance", func(c *Config) { c.Substance = "xenon" }},
		{"unknown phase", func(c *Config) { c.Phase = "plasma" }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"upward gravity", func(c *Config) { c.Gravity = 1 }},
		{"heater out of range", func(c *Config) { c.HeatingCooling = 2 }},
		{"lid too low", func(c *Config) { c.TargetHeight = 100 }},
		{"bad action", func(c *Config) { c.Actions = []Action{{At: 1, Action: "teleport"}} }},
		{"bad phase action", func(c *Config) { c.Actions = []Action{{At: 1, Action: ActionPhase, Name: "plasma"}} }},
		{"negative target pressure", func(c *Config) { c.TargetPressure = -1 }},
		{"negative pressure action", func(c *Config) { c.Actions = []Action{{At: 1, Action: ActionPressure, Value: -2}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveLoadFormats(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "run"+ext)
			cfg := DefaultConfig()
			cfg.Substance = "water"
			cfg.Seed = 42
			cfg.Actions = []Action{
				{At: 2, Action: ActionHeat, Value: 0.5},
				{At: 4, Action: ActionPhase, Name: "gas"},
			}

			if err := Save(path, cfg); err != nil {
				t.Fatal(err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if got.Substance != "water" || got.Seed != 42 {
				t.Errorf("got %+v", got)
			}
			if len(got.Actions) != 2 || got.Actions[1].Name != "gas" || got.Actions[0].Value != 0.5 {
				t.Errorf("actions = %+v", got.Actions)
			}
		})
	}
}

func TestLoadPartialTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	data := "substance = \"argon\"\nphase = \"liquid\"\n\n[[actions]]\nat = 1.0\naction = \"inject\"\nvalue = 2.0\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FPS != DefaultFPS || cfg.Duration != DefaultDuration {
		t.Errorf("defaults not kept: %+v", cfg)
	}
	if cfg.SubstanceValue().String() != "argon" || cfg.PhaseValue().String() != "liquid" {
		t.Errorf("got %s/%s", cfg.Substance, cfg.Phase)
	}
	if len(cfg.Actions) != 1 || cfg.Actions[0].Action != ActionInject {
		t.Errorf("actions = %+v", cfg.Actions)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("substance: xenon\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("neon", "melt")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.HeatingCooling != 0.1 {
		t.Errorf("expected heating 0.1, got %f", cfg.HeatingCooling)
	}
	if cfg.FPS != DefaultFPS {
		t.Errorf("defaults not filled: fps %f", cfg.FPS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset invalid: %v", err)
	}
}

func TestPresetsAreValid(t *testing.T) {
	for sub, byName := range Presets {
		for name := range byName {
			if err := GetPreset(sub, name).Validate(); err != nil {
				t.Errorf("%s/%s: %v", sub, name, err)
			}
		}
	}
}

func TestGetPresetIsACopy(t *testing.T) {
	cfg := GetPreset("neon", "explode")
	cfg.Actions[0].Value = 9999
	if Presets["neon"]["explode"].Actions[0].Value == 9999 {
		t.Error("preset mutated through returned config")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("neon", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "melt") != nil {
		t.Error("expected nil for nonexistent substance")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("water")
	if len(presets) != 2 || presets[0] != "boil" {
		t.Errorf("got %v", presets)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent substance")
	}
}
