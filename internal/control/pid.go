package control

type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64
	// IntegralLimit bounds the magnitude of the integral term's state when
	// positive.
	IntegralLimit float64

	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

// Compute returns the control output for a measurement taken at time t.
// The first call, and any call that does not advance t, is proportional only.
func (p *PID) Compute(measured, t float64) float64 {
	err := p.Target - measured

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.Kp * err
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.Kp * err
	}

	p.integral += err * dt
	if lim := p.IntegralLimit; lim > 0 {
		if p.integral > lim {
			p.integral = lim
		} else if p.integral < -lim {
			p.integral = -lim
		}
	}
	derivative := (err - p.prevErr) / dt

	p.prevErr = err
	p.prevT = t
	return p.Kp*err + p.Ki*p.integral + p.Kd*derivative
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

func (p *PID) Integral() float64 { return p.integral }
