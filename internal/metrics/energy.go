package metrics

import (
	"math"

	"github.com/san-kum/somsim/internal/model"
)

// EnergyDrift is the largest relative change of total energy from the first
// observation. With a thermostat running this measures how much energy the
// thermostat and the heater moved, not integration error.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(s model.Snapshot) {
	energy := s.KineticEnergy + s.PotentialEnergy
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++
	if e.initial != 0 {
		e.maxDrift = math.Max(e.maxDrift, math.Abs(energy-e.initial)/math.Abs(e.initial))
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
