package config

import "sort"

var Presets = map[string]map[string]*Config{
	"neon": {
		"melt": {
			Substance: "neon", Phase: "solid", Duration: 20, HeatingCooling: 0.1,
		},
		"compress": {
			Substance: "neon", Phase: "gas", Duration: 30, TargetHeight: 3000,
		},
		"explode": {
			Substance: "neon", Phase: "gas", Duration: 40,
			Actions: []Action{
				{At: 1, Action: ActionLid, Value: 1500},
				{At: 8, Action: ActionHeat, Value: 1},
			},
		},
	},
	"argon": {
		"boil": {
			Substance: "argon", Phase: "liquid", Duration: 30, HeatingCooling: 0.15,
		},
		"pump": {
			Substance: "argon", Phase: "gas", Duration: 30,
			Actions: []Action{
				{At: 1, Action: ActionInject, Value: 3},
				{At: 3, Action: ActionInject, Value: 3},
				{At: 5, Action: ActionInject, Value: 3},
			},
		},
	},
	"oxygen": {
		"freeze": {
			Substance: "oxygen", Phase: "liquid", Duration: 20, HeatingCooling: -0.1,
		},
	},
	"water": {
		"ice": {
			Substance: "water", Phase: "solid", Duration: 20,
		},
		"boil": {
			Substance: "water", Phase: "liquid", Duration: 30, HeatingCooling: 0.2,
		},
	},
	"adjustable": {
		"sticky": {
			Substance: "adjustable", Phase: "gas", Duration: 30, Epsilon: 400,
			Actions: []Action{{At: 5, Action: ActionHeat, Value: -0.2}},
		},
		"weak": {
			Substance: "adjustable", Phase: "liquid", Duration: 30, Epsilon: 30,
		},
	},
}

// GetPreset returns a copy of the named preset with unset fields filled from
// the defaults, or nil if it does not exist.
func GetPreset(substance, preset string) *Config {
	byName, ok := Presets[substance]
	if !ok {
		return nil
	}
	p, ok := byName[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Substance = p.Substance
	cfg.Phase = p.Phase
	cfg.Seed = p.Seed
	if p.Duration > 0 {
		cfg.Duration = p.Duration
	}
	cfg.HeatingCooling = p.HeatingCooling
	if p.TargetHeight > 0 {
		cfg.TargetHeight = p.TargetHeight
	}
	if p.Epsilon > 0 {
		cfg.Epsilon = p.Epsilon
	}
	cfg.Actions = append([]Action(nil), p.Actions...)
	return cfg
}

func ListPresets(substance string) []string {
	byName, ok := Presets[substance]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
