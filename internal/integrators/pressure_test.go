package integrators

import (
	"math"
	"testing"
)

func TestPressureWindow(t *testing.T) {
	p := NewPressureWindow(12)
	for i := 0; i < 100; i++ {
		p.Record(0.6, 0.1)
	}
	if got := p.Value(); math.Abs(got-60.0/12) > 1e-9 {
		t.Errorf("partial window pressure = %g, want %g", got, 60.0/12)
	}

	for i := 0; i < 1000; i++ {
		p.Record(0, 0.1)
	}
	if got := p.Value(); got > 1e-9 {
		t.Errorf("pressure after quiet window = %g, want 0", got)
	}

	p.Record(-1e-12, 0.1)
	if got := p.Value(); got < 0 {
		t.Errorf("pressure = %g, want clamped non-negative", got)
	}
}

func TestPressureWindowSlides(t *testing.T) {
	p := NewPressureWindow(1)
	for i := 0; i < 8; i++ {
		p.Record(1, 0.125)
	}
	for i := 0; i < 4; i++ {
		p.Record(3, 0.125)
	}
	want := 4*1.0 + 4*3.0
	if got := p.Value(); math.Abs(got-want) > 1e-9 {
		t.Errorf("pressure = %g, want %g", got, want)
	}
}

func TestExplosionDetector(t *testing.T) {
	tests := []struct {
		name     string
		pressure []float64
		want     bool
	}{
		{"sustained above threshold", repeat(42, 101), true},
		{"drops before one second", append(repeat(42, 99), 40, 42), false},
		{"at threshold", repeat(41, 200), false},
		{"below threshold", repeat(10, 500), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewExplosionDetector(ExplosionPressure, ExplosionSustainTime)
			for _, p := range tt.pressure {
				d.Observe(p, 0.01)
			}
			if d.Triggered() != tt.want {
				t.Errorf("triggered = %v, want %v", d.Triggered(), tt.want)
			}
		})
	}
}

func TestExplosionDetectorReset(t *testing.T) {
	d := NewExplosionDetector(ExplosionPressure, ExplosionSustainTime)
	for _, p := range repeat(50, 200) {
		d.Observe(p, 0.01)
	}
	d.Reset()
	if d.Triggered() {
		t.Error("still triggered after reset")
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
