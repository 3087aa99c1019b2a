package metrics

import (
	"math"

	"github.com/san-kum/somsim/internal/model"
	"gonum.org/v1/gonum/floats"
)

// MeanTemperature averages the displayed temperature in Kelvin.
type MeanTemperature struct {
	samples []float64
}

func NewMeanTemperature() *MeanTemperature { return &MeanTemperature{} }

func (m *MeanTemperature) Name() string { return "mean_temperature_k" }

func (m *MeanTemperature) Observe(s model.Snapshot) {
	m.samples = append(m.samples, s.TemperatureKelvin)
}

func (m *MeanTemperature) Value() float64 {
	if len(m.samples) == 0 {
		return 0
	}
	return floats.Sum(m.samples) / float64(len(m.samples))
}

func (m *MeanTemperature) Reset() { m.samples = m.samples[:0] }

// Tracking is the mean relative distance between the measured temperature
// and the set point: how closely the thermostats follow their target.
type Tracking struct {
	sum     float64
	samples int
}

func NewTracking() *Tracking { return &Tracking{} }

func (t *Tracking) Name() string { return "set_point_tracking" }

func (t *Tracking) Observe(s model.Snapshot) {
	if s.SetPoint <= 0 || s.Molecules == 0 {
		return
	}
	t.sum += math.Abs(s.Temperature-s.SetPoint) / s.SetPoint
	t.samples++
}

func (t *Tracking) Value() float64 {
	if t.samples == 0 {
		return 0
	}
	return t.sum / float64(t.samples)
}

func (t *Tracking) Reset() {
	t.sum = 0
	t.samples = 0
}
