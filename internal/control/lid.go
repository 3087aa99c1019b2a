package control

import "github.com/san-kum/somsim/internal/substance"

// Lid regulator gains, in picometers of lid travel per atmosphere of error.
const (
	LidKp            = 150.0
	LidKi            = 40.0
	LidKd            = 0.0
	LidIntegralLimit = 200.0
)

// LidRegulator lowers the lid when the pressure is below target and raises
// it when above.
type LidRegulator struct {
	pid *PID
}

func NewLidRegulator(targetAtm float64) *LidRegulator {
	pid := NewPID(LidKp, LidKi, LidKd, targetAtm)
	pid.IntegralLimit = LidIntegralLimit
	return &LidRegulator{pid: pid}
}

func (r *LidRegulator) Target() float64 { return r.pid.Target }

// SetTarget changes the pressure target and clears the controller history.
func (r *LidRegulator) SetTarget(atm float64) {
	r.pid.Target = atm
	r.pid.Reset()
}

// Update returns the new lid target height in picometers given the
// measured pressure and the current lid target.
func (r *LidRegulator) Update(pressureAtm, height, t float64) float64 {
	u := r.pid.Compute(pressureAtm, t)
	h := height - u
	switch {
	case h < substance.ContainerMinHeight:
		return substance.ContainerMinHeight
	case h > substance.ContainerInitialHeight:
		return substance.ContainerInitialHeight
	}
	return h
}
