// Package automation runs scripted batches of experiments described in YAML.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/somsim/internal/config"
	"github.com/san-kum/somsim/internal/experiment"
	"github.com/san-kum/somsim/internal/logging"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. The config mapping is decoded over the preset
// when one is named, otherwise over the defaults, so a step only lists the
// fields it changes.
type ScenarioStep struct {
	Substance string    `yaml:"substance"`
	Preset    string    `yaml:"preset"`
	Config    yaml.Node `yaml:"config"`
	SaveAs    string    `yaml:"save_as"`
}

// Saver persists a finished run and returns its id.
type Saver interface {
	Save(result *experiment.Result) (string, error)
}

// StepResult pairs a finished step with the id it was stored under.
type StepResult struct {
	Name   string
	RunID  string
	Result *experiment.Result
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// BuildConfig resolves the run configuration of a step.
func (s ScenarioStep) BuildConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		name := s.Substance
		if name == "" {
			name = config.DefaultSubstance
		}
		cfg = config.GetPreset(name, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets(name))
		}
	} else if s.Substance != "" {
		cfg.Substance = s.Substance
	}
	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. Results are saved through saver
// when it is non-nil. The steps finished before a failure are returned with
// the error.
func RunScenario(ctx context.Context, scenario *Scenario, saver Saver, log *logging.Logger) ([]StepResult, error) {
	if log == nil {
		log = logging.Nop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}

		cfg, err := step.BuildConfig()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("scenario step", "scenario", scenario.Name, "step", name, "substance", cfg.Substance, "duration", cfg.Duration)

		exp := experiment.New(cfg)
		if err := exp.Setup(log); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Result: result}
		if saver != nil {
			if sr.RunID, err = saver.Save(result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
