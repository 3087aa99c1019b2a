package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/somsim/internal/model"
)

func snapshots() []model.Snapshot {
	return []model.Snapshot{
		{Time: 0, TemperatureKelvin: 10, Temperature: 0.1, SetPoint: 0.1, PressureAtm: 1, Molecules: 4, KineticEnergy: 2, PotentialEnergy: -1},
		{Time: 1, TemperatureKelvin: 20, Temperature: 0.12, SetPoint: 0.1, PressureAtm: 5, Molecules: 4, KineticEnergy: 3, PotentialEnergy: -1},
		{Time: 2, TemperatureKelvin: 30, Temperature: 0.08, SetPoint: 0.1, PressureAtm: 3, Molecules: 4, KineticEnergy: 1, PotentialEnergy: -1, Exploded: true},
		{Time: 3, TemperatureKelvin: 40, Temperature: 0.1, SetPoint: 0.1, PressureAtm: 2, Molecules: 4, KineticEnergy: 1, PotentialEnergy: -1, Exploded: true},
	}
}

func TestStandardMetrics(t *testing.T) {
	ms := Standard()
	for _, s := range snapshots() {
		for _, m := range ms {
			m.Observe(s)
		}
	}
	got := Values(ms)

	want := map[string]float64{
		"mean_temperature_k": 25,
		"peak_pressure_atm":  5,
		"set_point_tracking": 0.1,
		"energy_drift":       1,
		"explosion_time":     2,
	}
	for name, w := range want {
		if math.Abs(got[name]-w) > 1e-9 {
			t.Errorf("%s = %g, want %g", name, got[name], w)
		}
	}
}

func TestReset(t *testing.T) {
	for _, m := range Standard() {
		for _, s := range snapshots() {
			m.Observe(s)
		}
		m.Reset()
		want := 0.0
		if m.Name() == "explosion_time" {
			want = -1
		}
		if m.Value() != want {
			t.Errorf("%s after reset = %g, want %g", m.Name(), m.Value(), want)
		}
	}
}

func TestTrackingSkipsEmpty(t *testing.T) {
	tr := NewTracking()
	tr.Observe(model.Snapshot{Temperature: 5, SetPoint: 1})
	if tr.Value() != 0 {
		t.Errorf("tracking counted a snapshot without molecules")
	}
}
