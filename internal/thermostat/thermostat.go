// Package thermostat steers the kinetic temperature of a data set toward a
// set point after each integration step.
package thermostat

import (
	"math"

	"github.com/san-kum/somsim/internal/dataset"
	"github.com/san-kum/somsim/internal/substance"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	AndersenGamma           = 0.9999
	AndersenFreezeGammaX    = 0.992
	AndersenFreezeGammaY    = 0.999
	biasCorrectionMagnitude = 0.001
)

type Thermostat interface {
	SetTargetTemperature(t float64)
	TargetTemperature() float64
	AdjustTemperature()
	ClearAccumulatedBias()
}

// drift tracks the average x velocity a thermostat has added to the system
// and removes it once it grows noticeable, so that the molecules do not
// slide sideways as a block.
type drift struct {
	accumulated float64
}

func (d *drift) add(ds *dataset.DataSet, change float64) {
	n := ds.NumberOfMolecules()
	if n == 0 {
		return
	}
	d.accumulated += change / float64(n)
	if math.Abs(d.accumulated) > biasCorrectionMagnitude {
		for i := 0; i < n; i++ {
			ds.Velocity[i].X -= d.accumulated
		}
		d.accumulated = 0
	}
}

func (d *drift) clear() { d.accumulated = 0 }

// Isokinetic rescales every velocity and rotation rate so the measured
// temperature equals the target exactly.
type Isokinetic struct {
	ds     *dataset.DataSet
	target float64
	drift  drift
}

func NewIsokinetic(ds *dataset.DataSet, target float64) *Isokinetic {
	return &Isokinetic{ds: ds, target: target}
}

func (k *Isokinetic) SetTargetTemperature(t float64) { k.target = t }
func (k *Isokinetic) TargetTemperature() float64     { return k.target }
func (k *Isokinetic) ClearAccumulatedBias()          { k.drift.clear() }
func (k *Isokinetic) AccumulatedBias() float64       { return k.drift.accumulated }

func (k *Isokinetic) AdjustTemperature() {
	ds := k.ds
	measured := ds.Temperature()
	if measured <= 0 {
		return
	}
	factor := 0.0
	if k.target > substance.MinTemperature {
		factor = math.Sqrt(k.target / measured)
	}

	change := 0.0
	rotating := ds.AtomsPerMolecule() > 1
	for i := 0; i < ds.NumberOfMolecules(); i++ {
		before := ds.Velocity[i].X
		ds.Velocity[i] = r2.Scale(factor, ds.Velocity[i])
		change += ds.Velocity[i].X - before
		if rotating {
			ds.RotationRate[i] *= factor
		}
	}
	if factor > 0 {
		k.drift.add(ds, change)
	}
}

// Andersen blends each velocity toward a Gaussian sample at the target
// temperature.
type Andersen struct {
	ds     *dataset.DataSet
	rng    *rand.Rand
	target float64
	drift  drift

	// Gamma is the per-step memory of the previous velocity.
	Gamma float64
}

func NewAndersen(ds *dataset.DataSet, target float64, rng *rand.Rand) *Andersen {
	return &Andersen{ds: ds, rng: rng, target: target, Gamma: AndersenGamma}
}

func (a *Andersen) SetTargetTemperature(t float64) { a.target = t }
func (a *Andersen) TargetTemperature() float64     { return a.target }
func (a *Andersen) ClearAccumulatedBias()          { a.drift.clear() }
func (a *Andersen) AccumulatedBias() float64       { return a.drift.accumulated }

func (a *Andersen) AdjustTemperature() {
	ds := a.ds
	gx, gy := a.Gamma, a.Gamma
	target := a.target
	if target <= substance.MinTemperature {
		// Damp y less so molecules keep settling under gravity.
		gx, gy = AndersenFreezeGammaX, AndersenFreezeGammaY
		target = 0
	}

	variance := ds.VelocityVariance(target)
	sx := math.Sqrt(variance * (1 - gx*gx))
	sy := math.Sqrt(variance * (1 - gy*gy))
	rotating := ds.AtomsPerMolecule() > 1
	sr := math.Sqrt(target / ds.RotationalInertia * (1 - gx*gx))

	kicks := 0.0
	for i := 0; i < ds.NumberOfMolecules(); i++ {
		v := ds.Velocity[i]
		kx := sx * a.rng.NormFloat64()
		ds.Velocity[i] = r2.Vec{
			X: gx*v.X + kx,
			Y: gy*v.Y + sy*a.rng.NormFloat64(),
		}
		kicks += kx
		if rotating {
			ds.RotationRate[i] = gx*ds.RotationRate[i] + sr*a.rng.NormFloat64()
		}
	}
	a.drift.add(ds, kicks)
}
