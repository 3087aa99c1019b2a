package metrics

import (
	"github.com/san-kum/somsim/internal/model"
	"gonum.org/v1/gonum/floats"
)

type PeakPressure struct {
	samples []float64
}

func NewPeakPressure() *PeakPressure { return &PeakPressure{} }

func (p *PeakPressure) Name() string { return "peak_pressure_atm" }

func (p *PeakPressure) Observe(s model.Snapshot) {
	p.samples = append(p.samples, s.PressureAtm)
}

func (p *PeakPressure) Value() float64 {
	if len(p.samples) == 0 {
		return 0
	}
	return floats.Max(p.samples)
}

func (p *PeakPressure) Reset() { p.samples = p.samples[:0] }

// ExplosionTime records when the container first blew, or -1.
type ExplosionTime struct {
	at float64
}

func NewExplosionTime() *ExplosionTime { return &ExplosionTime{at: -1} }

func (e *ExplosionTime) Name() string { return "explosion_time" }

func (e *ExplosionTime) Observe(s model.Snapshot) {
	if e.at < 0 && s.Exploded {
		e.at = s.Time
	}
}

func (e *ExplosionTime) Value() float64 { return e.at }
func (e *ExplosionTime) Reset()         { e.at = -1 }
