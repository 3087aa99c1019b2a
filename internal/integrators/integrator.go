// Package integrators advances a molecule data set with a velocity Verlet
// scheme: wall collisions, pairwise Lennard-Jones forces, velocity
// completion, pressure bookkeeping and explosion detection.
package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/somsim/internal/dataset"
	"github.com/san-kum/somsim/internal/potential"
	"github.com/san-kum/somsim/internal/updater"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	InteractionThreshold2 = 6.25
	MinDistance2          = 0.90
	MaxVelocity           = 10.0
	LidVelocityTransfer   = 0.3

	// WallOffset keeps molecule centers half a diameter inside the walls.
	WallOffset = 0.5

	// PressureMinHeight is the height below which side wall collisions do
	// not count toward pressure; injected molecules enter near the floor.
	PressureMinHeight = 1.5
)

// Context is the read-only slice of orchestrator state an integrator needs
// for one step. Lengths are normalized, velocities are per unit model time.
type Context struct {
	Width       float64
	Height      float64
	Gravity     float64
	Exploded    bool
	LidVelocity float64
	// SetPoint is the thermostat target; water uses it to pick the strength
	// of its partial charges.
	SetPoint float64
}

// Integrator is implemented by the three topology-specific variants.
type Integrator interface {
	UpdateForcesAndMotion(ctx Context, dt float64)
	DataSet() *dataset.DataSet

	Temperature() float64
	Pressure() float64
	PotentialEnergy() float64
	LidChangedParticleVelocity() bool

	ExplosionTriggered() bool
	// ResetPressure empties the pressure window and explosion timer.
	ResetPressure()
}

// New returns the integrator matching the data set topology.
func New(ds *dataset.DataSet, upd updater.Updater) Integrator {
	if ds.AtomsPerMolecule() != upd.AtomsPerMolecule() {
		panic(fmt.Sprintf("integrators: data set has %d atoms per molecule, updater %d",
			ds.AtomsPerMolecule(), upd.AtomsPerMolecule()))
	}
	switch ds.AtomsPerMolecule() {
	case 1:
		return NewMonatomic(ds)
	case 2:
		return NewDiatomic(ds, upd)
	case 3:
		return NewWater(ds, upd)
	}
	panic(fmt.Sprintf("integrators: unsupported atoms per molecule %d", ds.AtomsPerMolecule()))
}

type pairForces interface {
	updateInteractionForces(ctx Context)
}

type base struct {
	ds   *dataset.DataSet
	upd  updater.Updater
	calc *potential.Calculator

	pressure  *PressureWindow
	explosion *ExplosionDetector

	temperature     float64
	potentialEnergy float64
	lidChanged      bool
	impulse         float64
}

func newBase(ds *dataset.DataSet, upd updater.Updater) base {
	return base{
		ds:        ds,
		upd:       upd,
		calc:      potential.New(1, 1),
		pressure:  NewPressureWindow(PressureWindowDuration),
		explosion: NewExplosionDetector(ExplosionPressure, ExplosionSustainTime),
	}
}

func (b *base) DataSet() *dataset.DataSet        { return b.ds }
func (b *base) Temperature() float64             { return b.temperature }
func (b *base) Pressure() float64                { return b.pressure.Value() }
func (b *base) PotentialEnergy() float64         { return b.potentialEnergy }
func (b *base) LidChangedParticleVelocity() bool { return b.lidChanged }
func (b *base) ExplosionTriggered() bool         { return b.explosion.Triggered() }

func (b *base) ResetPressure() {
	b.pressure.Reset()
	b.explosion.Reset()
}

func (b *base) step(ctx Context, dt float64, pf pairForces) {
	b.lidChanged = false
	b.impulse = 0
	b.potentialEnergy = 0

	b.updateMoleculePositions(ctx, dt)
	b.upd.Update(b.ds)
	b.initializeForces(ctx)
	pf.updateInteractionForces(ctx)
	b.updateVelocitiesAndRotationRates(dt)

	b.pressure.Record(b.impulse, dt)
	if !ctx.Exploded {
		b.explosion.Observe(b.pressure.Value(), dt)
	}
}

func (b *base) updateMoleculePositions(ctx Context, dt float64) {
	ds := b.ds
	m := ds.MoleculeMass
	halfDt2 := 0.5 * dt * dt
	minX, maxX := WallOffset, ctx.Width-WallOffset
	minY, maxY := WallOffset, ctx.Height-WallOffset
	rotating := ds.AtomsPerMolecule() > 1

	for i := 0; i < ds.NumberOfMolecules(); i++ {
		v := ds.Velocity[i]
		f := ds.Force[i]
		x := ds.CenterOfMass[i].X + v.X*dt + f.X/m*halfDt2
		y := ds.CenterOfMass[i].Y + v.Y*dt + f.Y/m*halfDt2

		if !ds.InsideContainer[i] && x >= minX && x <= maxX && y >= minY && y <= maxY {
			ds.InsideContainer[i] = true
		}

		if ds.InsideContainer[i] {
			if x < minX {
				x = minX
				v.X = math.Abs(v.X)
				if y > PressureMinHeight {
					b.impulse += 2 * m * v.X
				}
			} else if x > maxX {
				x = maxX
				v.X = -math.Abs(v.X)
				if y > PressureMinHeight {
					b.impulse += 2 * m * -v.X
				}
			}
			if y < minY {
				y = minY
				v.Y = math.Abs(v.Y)
			} else if y > maxY {
				if ctx.Exploded {
					ds.InsideContainer[i] = false
				} else {
					y = maxY
					b.impulse += 2 * m * math.Abs(v.Y)
					v.Y = -math.Abs(v.Y)
					if ctx.LidVelocity != 0 {
						v.Y += LidVelocityTransfer * ctx.LidVelocity
						b.lidChanged = true
					}
				}
			}
		}

		ds.CenterOfMass[i] = r2.Vec{X: x, Y: y}
		ds.Velocity[i] = v

		if rotating {
			ds.RotationAngle[i] += ds.RotationRate[i]*dt + ds.Torque[i]/ds.RotationalInertia*halfDt2
		}
	}
}

func (b *base) initializeForces(ctx Context) {
	ds := b.ds
	g := r2.Vec{Y: ds.MoleculeMass * ctx.Gravity}
	for i := 0; i < ds.NumberOfMolecules(); i++ {
		ds.NextForce[i] = g
		ds.NextTorque[i] = 0
	}
}

func (b *base) updateVelocitiesAndRotationRates(dt float64) {
	ds := b.ds
	halfDtOverM := 0.5 * dt / ds.MoleculeMass
	halfDtOverI := 0.5 * dt / ds.RotationalInertia
	rotating := ds.AtomsPerMolecule() > 1

	for i := 0; i < ds.NumberOfMolecules(); i++ {
		v := r2.Add(ds.Velocity[i], r2.Scale(halfDtOverM, r2.Add(ds.Force[i], ds.NextForce[i])))
		if speed2 := r2.Norm2(v); speed2 > MaxVelocity*MaxVelocity {
			v = r2.Scale(MaxVelocity/math.Sqrt(speed2), v)
		}
		ds.Velocity[i] = v
		ds.Force[i] = ds.NextForce[i]

		if rotating {
			ds.RotationRate[i] += halfDtOverI * (ds.Torque[i] + ds.NextTorque[i])
			ds.Torque[i] = ds.NextTorque[i]
		}
	}
	b.temperature = ds.Temperature()
}

// accumulate applies a pair force to molecules i and j at the given atom
// positions, producing torques about each center of mass.
func (b *base) accumulate(i, j int, pi, pj, f r2.Vec) {
	ds := b.ds
	ds.NextForce[i] = r2.Add(ds.NextForce[i], f)
	ds.NextForce[j] = r2.Sub(ds.NextForce[j], f)
	ds.NextTorque[i] += r2.Cross(r2.Sub(pi, ds.CenterOfMass[i]), f)
	ds.NextTorque[j] -= r2.Cross(r2.Sub(pj, ds.CenterOfMass[j]), f)
}
