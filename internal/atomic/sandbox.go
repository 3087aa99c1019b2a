package atomic

import (
	"math"

	"github.com/san-kum/somsim/internal/potential"
)

// Sandbox holds the fixed atom at the origin and the movable atom on the
// positive x axis.
type Sandbox struct {
	pair    Pair
	fixed   Atom
	movable Atom
	calc    *potential.Calculator

	x, v, a  float64
	paused   bool
	dragging bool
	state    BondingState
	time     float64
	residual float64
}

func NewSandbox(p Pair) *Sandbox {
	s := &Sandbox{calc: potential.New(1, 1)}
	s.SetPair(p)
	return s
}

// SetPair swaps both atoms, mixing parameters for unlike pairs, and resets
// the movable atom.
func (s *Sandbox) SetPair(p Pair) {
	if _, ok := pairs[p]; !ok {
		p = NeonNeon
	}
	s.pair = p
	s.fixed, s.movable = p.Atoms()
	s.calc.Sigma = potential.MixSigma(s.fixed.Sigma, s.movable.Sigma)
	s.calc.Epsilon = potential.MixEpsilon(s.fixed.Epsilon, s.movable.Epsilon)
	s.Reset()
}

// SetAdjustable changes sigma (pm) and epsilon (K) of the adjustable pair.
// Other pairs ignore it.
func (s *Sandbox) SetAdjustable(sigma, epsilon float64) {
	if s.pair != AdjustablePair {
		return
	}
	s.calc.Sigma = math.Max(MinAdjustableSigma, math.Min(sigma, MaxAdjustableSigma))
	s.calc.Epsilon = math.Max(MinAdjustableEpsilon, math.Min(epsilon, MaxAdjustableEpsilon))
	s.fixed.Sigma, s.movable.Sigma = s.calc.Sigma, s.calc.Sigma
	s.fixed.Epsilon, s.movable.Epsilon = s.calc.Epsilon, s.calc.Epsilon
	s.accelerate()
	s.updateBondingState()
}

// Reset puts the movable atom at rest a little outside the potential
// minimum.
func (s *Sandbox) Reset() {
	s.x = 1.5 * s.calc.MinimumForceDistance()
	s.v = 0
	s.time = 0
	s.residual = 0
	s.dragging = false
	s.accelerate()
	s.updateBondingState()
}

func (s *Sandbox) SetPaused(p bool) { s.paused = p }
func (s *Sandbox) Paused() bool     { return s.paused }

// Drag holds the movable atom at x picometers from the fixed atom until
// Release is called.
func (s *Sandbox) Drag(x float64) {
	s.dragging = true
	s.x = math.Max(x, s.minSeparation())
	s.v = 0
	s.accelerate()
	s.updateBondingState()
}

func (s *Sandbox) Release() { s.dragging = false }

// Step advances by dt seconds of wall-clock time.
func (s *Sandbox) Step(dt float64) {
	if s.paused || s.dragging || dt <= 0 || dt > MaxFrameDuration {
		return
	}
	s.residual += dt * TimeScale
	for s.residual >= MaxSubstep {
		s.substep(MaxSubstep)
		s.residual -= MaxSubstep
	}
}

func (s *Sandbox) substep(dt float64) {
	s.x += s.v*dt + 0.5*s.a*dt*dt
	if floor := s.minSeparation(); s.x < floor {
		s.x = floor
		s.v = math.Abs(s.v)
	}
	prev := s.a
	s.accelerate()
	s.v += 0.5 * (prev + s.a) * dt
	if s.state == Vibrating {
		s.v *= VibrationDamping
	}
	s.time += dt
	s.updateBondingState()
}

func (s *Sandbox) minSeparation() float64 {
	return (s.fixed.Radius() + s.movable.Radius()) / 8
}

func (s *Sandbox) accelerate() {
	s.a = s.calc.Force(s.x) * AccelerationScale / s.movable.Mass
}

// TotalEnergy is kinetic plus potential energy in Kelvin.
func (s *Sandbox) TotalEnergy() float64 {
	return s.KineticEnergy() + s.PotentialEnergy()
}

func (s *Sandbox) KineticEnergy() float64 {
	return 0.5 * s.movable.Mass * s.v * s.v / AccelerationScale
}

func (s *Sandbox) PotentialEnergy() float64 {
	return s.calc.Potential(s.x)
}

func (s *Sandbox) updateBondingState() {
	e := s.TotalEnergy()
	switch {
	case e >= 0:
		s.state = Unbonded
	case e < -BondedFraction*s.calc.Epsilon:
		s.state = Bonded
	default:
		s.state = Vibrating
	}
}

// Forces returns the attractive and repulsive force magnitudes on the
// movable atom, in Kelvin per picometer.
func (s *Sandbox) Forces() (attractive, repulsive float64) {
	return s.calc.AttractiveForce(s.x), s.calc.RepulsiveForce(s.x)
}

func (s *Sandbox) Pair() Pair                 { return s.pair }
func (s *Sandbox) Separation() float64        { return s.x }
func (s *Sandbox) Velocity() float64          { return s.v }
func (s *Sandbox) Time() float64              { return s.time }
func (s *Sandbox) BondingState() BondingState { return s.state }
func (s *Sandbox) Sigma() float64             { return s.calc.Sigma }
func (s *Sandbox) Epsilon() float64           { return s.calc.Epsilon }
