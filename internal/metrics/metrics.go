// Package metrics summarizes a run from the snapshots the model emits.
package metrics

import "github.com/san-kum/somsim/internal/model"

type Metric interface {
	Name() string
	Observe(s model.Snapshot)
	Value() float64
	Reset()
}

// Standard returns the metrics recorded for every run.
func Standard() []Metric {
	return []Metric{
		NewMeanTemperature(),
		NewPeakPressure(),
		NewTracking(),
		NewEnergyDrift(),
		NewExplosionTime(),
	}
}

// Values collects the current value of every metric by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
