package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/san-kum/somsim/internal/substance"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid")

const (
	DefaultSubstance = "neon"
	DefaultPhase     = "solid"
	DefaultDuration  = 30.0
	DefaultFPS       = 60.0
	DefaultGravity   = -0.045
	DefaultMaxAtoms  = 500
	DefaultEpsilon   = substance.AdjustableEpsilon
)

// Scheduled action kinds.
const (
	ActionInject    = "inject"
	ActionHeat      = "heat"
	ActionLid       = "lid"
	ActionPhase     = "phase"
	ActionReturnLid = "return_lid"
	ActionSubstance = "substance"
	ActionEpsilon   = "epsilon"
	ActionGravity   = "gravity"
	ActionPressure  = "pressure"
)

type Config struct {
	Substance      string   `yaml:"substance" toml:"substance"`
	Phase          string   `yaml:"phase" toml:"phase"`
	Seed           int64    `yaml:"seed" toml:"seed"`
	Duration       float64  `yaml:"duration" toml:"duration"`
	FPS            float64  `yaml:"fps" toml:"fps"`
	Gravity        float64  `yaml:"gravity" toml:"gravity"`
	HeatingCooling float64  `yaml:"heating_cooling" toml:"heating_cooling"`
	TargetHeight   float64  `yaml:"target_height" toml:"target_height"`
	Epsilon        float64  `yaml:"epsilon" toml:"epsilon"`
	MaxAtoms       int      `yaml:"max_atoms" toml:"max_atoms"`
	// TargetPressure, in atmospheres, moves the lid to hold the pressure
	// when positive.
	TargetPressure float64  `yaml:"target_pressure,omitempty" toml:"target_pressure,omitempty"`
	LogLevel       string   `yaml:"log_level,omitempty" toml:"log_level,omitempty"`
	Actions        []Action `yaml:"actions,omitempty" toml:"actions,omitempty"`
}

// Action is applied once the run clock passes At seconds. Value is the
// heater amount, lid height in picometers, epsilon in Kelvin, gravity, the
// target pressure in atmospheres, or the number of molecules to inject.
// Name carries the phase or substance.
type Action struct {
	At     float64 `yaml:"at" toml:"at"`
	Action string  `yaml:"action" toml:"action"`
	Value  float64 `yaml:"value,omitempty" toml:"value,omitempty"`
	Name   string  `yaml:"name,omitempty" toml:"name,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Substance:    DefaultSubstance,
		Phase:        DefaultPhase,
		Duration:     DefaultDuration,
		FPS:          DefaultFPS,
		Gravity:      DefaultGravity,
		TargetHeight: substance.ContainerInitialHeight,
		Epsilon:      DefaultEpsilon,
		MaxAtoms:     DefaultMaxAtoms,
	}
}

// Load reads a YAML or TOML file, chosen by extension, over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(*cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func (c *Config) Validate() error {
	if _, err := substance.Parse(c.Substance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := substance.ParsePhase(c.Phase); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalid, c.Duration)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %g", ErrInvalid, c.FPS)
	}
	if c.Gravity > 0 {
		return fmt.Errorf("%w: gravity must not be positive, got %g", ErrInvalid, c.Gravity)
	}
	if c.HeatingCooling < -1 || c.HeatingCooling > 1 {
		return fmt.Errorf("%w: heating_cooling must be in [-1, 1], got %g", ErrInvalid, c.HeatingCooling)
	}
	if c.TargetHeight < substance.ContainerMinHeight || c.TargetHeight > substance.ContainerInitialHeight {
		return fmt.Errorf("%w: target_height must be in [%g, %g], got %g", ErrInvalid,
			substance.ContainerMinHeight, substance.ContainerInitialHeight, c.TargetHeight)
	}
	if c.TargetPressure < 0 {
		return fmt.Errorf("%w: target_pressure must not be negative, got %g", ErrInvalid, c.TargetPressure)
	}
	if c.MaxAtoms < 3 {
		return fmt.Errorf("%w: max_atoms must be at least 3, got %d", ErrInvalid, c.MaxAtoms)
	}
	for i, a := range c.Actions {
		if err := a.validate(); err != nil {
			return fmt.Errorf("%w: action %d: %v", ErrInvalid, i, err)
		}
	}
	return nil
}

func (a Action) validate() error {
	if a.At < 0 {
		return fmt.Errorf("negative time %g", a.At)
	}
	switch a.Action {
	case ActionInject, ActionLid, ActionReturnLid, ActionEpsilon, ActionGravity:
		return nil
	case ActionPressure:
		if a.Value < 0 {
			return fmt.Errorf("negative target pressure %g", a.Value)
		}
		return nil
	case ActionHeat:
		if a.Value < -1 || a.Value > 1 {
			return fmt.Errorf("heat amount %g outside [-1, 1]", a.Value)
		}
		return nil
	case ActionPhase:
		_, err := substance.ParsePhase(a.Name)
		return err
	case ActionSubstance:
		_, err := substance.Parse(a.Name)
		return err
	}
	return fmt.Errorf("unknown action %q", a.Action)
}

// SubstanceValue and PhaseValue return the parsed enums of a validated
// config.
func (c *Config) SubstanceValue() substance.Substance {
	s, _ := substance.Parse(c.Substance)
	return s
}

func (c *Config) PhaseValue() substance.Phase {
	p, _ := substance.ParsePhase(c.Phase)
	return p
}
