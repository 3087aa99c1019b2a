// Package phase arranges the molecules of a data set into solid, liquid or
// gas starting configurations.
package phase

import (
	"fmt"
	"math"

	"github.com/san-kum/somsim/internal/dataset"
	"github.com/san-kum/somsim/internal/integrators"
	"github.com/san-kum/somsim/internal/substance"
	"github.com/san-kum/somsim/internal/thermostat"
	"github.com/san-kum/somsim/internal/updater"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	MinInitialDiameterDistance = 1.1
	MaxPlacementAttempts       = 500
	LiquidSettleSteps          = 200
	SettleTimeStep             = 0.025

	// WallMargin is the extra clearance, beyond the wall offset, kept
	// between placed molecules and the container walls.
	WallMargin = 0.3
)

// layout holds the geometry that differs between topologies.
type layout struct {
	solidSpacing   float64
	solidRowHeight float64
	liquidSpacing  float64
	gasSeparation  float64
	// alternate flips every other solid column by half a turn.
	alternate bool
	rotating  bool
}

var layouts = map[int]layout{
	1: {solidSpacing: 1.12, solidRowHeight: 1.12 * math.Sqrt(3) / 2, liquidSpacing: 1.15, gasSeparation: 1.5},
	2: {solidSpacing: 2.0, solidRowHeight: 1.1, liquidSpacing: 2.0, gasSeparation: 2.2, rotating: true},
	3: {solidSpacing: 1.6, solidRowHeight: 1.3, liquidSpacing: 1.5, gasSeparation: 1.8, alternate: true, rotating: true},
}

type Result struct {
	Temperature float64
	SettleSteps int
}

// Changer places molecules for a requested phase. One changer serves one
// data set and its matching updater and integrator.
type Changer struct {
	ds     *dataset.DataSet
	upd    updater.Updater
	in     integrators.Integrator
	rng    *rand.Rand
	layout layout
}

func New(ds *dataset.DataSet, upd updater.Updater, in integrators.Integrator, rng *rand.Rand) *Changer {
	l, ok := layouts[ds.AtomsPerMolecule()]
	if !ok || upd.AtomsPerMolecule() != ds.AtomsPerMolecule() {
		panic(fmt.Sprintf("phase: no layout for %d atoms per molecule with updater for %d",
			ds.AtomsPerMolecule(), upd.AtomsPerMolecule()))
	}
	return &Changer{ds: ds, upd: upd, in: in, rng: rng, layout: l}
}

// SetPhase rearranges every molecule, samples velocities at the phase
// temperature and, for liquids, lets the arrangement relax under an
// isokinetic thermostat.
func (c *Changer) SetPhase(ph substance.Phase, ctx integrators.Context) Result {
	res := Result{Temperature: substance.PhaseTemperature(ph)}
	switch ph {
	case substance.Solid:
		c.formSolid(ctx)
	case substance.Liquid:
		c.formLiquid(ctx)
		res.SettleSteps = LiquidSettleSteps
	default:
		c.formGas(ctx)
	}

	c.resetMotion(ph, res.Temperature)
	c.upd.Update(c.ds)

	if res.SettleSteps > 0 && c.in != nil {
		th := thermostat.NewIsokinetic(c.ds, res.Temperature)
		settle := ctx
		settle.LidVelocity = 0
		for i := 0; i < res.SettleSteps; i++ {
			c.in.UpdateForcesAndMotion(settle, SettleTimeStep)
			c.upd.Update(c.ds)
			th.AdjustTemperature()
		}
		c.in.ResetPressure()
	}
	return res
}

func (c *Changer) formSolid(ctx integrators.Context) {
	ds := c.ds
	n := ds.NumberOfMolecules()
	if n == 0 {
		return
	}
	l := c.layout
	bottom := integrators.WallOffset + l.solidRowHeight/2
	maxRows := int((ctx.Height-integrators.WallOffset-bottom)/l.solidRowHeight) + 1
	perLayer := int(math.Round(math.Sqrt(float64(n))))
	if maxRows > 0 && perLayer*maxRows < n {
		perLayer = (n + maxRows - 1) / maxRows
	}

	width := float64(perLayer-1)*l.solidSpacing + l.solidSpacing/2
	startX := ctx.Width/2 - width/2
	for i := 0; i < n; i++ {
		row, col := i/perLayer, i%perLayer
		x := startX + float64(col)*l.solidSpacing
		if row%2 == 1 {
			x += l.solidSpacing / 2
		}
		ds.CenterOfMass[i] = r2.Vec{X: x, Y: bottom + float64(row)*l.solidRowHeight}
		angle := 0.0
		if l.alternate && col%2 == 1 {
			angle = math.Pi
		}
		ds.RotationAngle[i] = angle
	}
}

func (c *Changer) formLiquid(ctx integrators.Context) {
	ds := c.ds
	n := ds.NumberOfMolecules()
	l := c.layout
	lo := integrators.WallOffset + WallMargin

	radius := math.Sqrt(float64(n)/math.Pi) * l.liquidSpacing
	center := r2.Vec{X: ctx.Width / 2, Y: math.Min(lo+radius, ctx.Height/2)}
	maxRing := int(math.Ceil(math.Max(ctx.Width, ctx.Height)/l.liquidSpacing)) + 1

	ring, inRing := 0, 0
	for i := 0; i < n; i++ {
		placed := false
		for !placed && ring <= maxRing {
			if inRing >= ringCapacity(ring) {
				ring, inRing = ring+1, 0
				continue
			}
			r := float64(ring) * l.liquidSpacing
			for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
				sin, cos := math.Sincos(2 * math.Pi * c.rng.Float64())
				p := r2.Vec{X: center.X + r*cos, Y: center.Y + r*sin}
				if c.fits(p, i, l.liquidSpacing, ctx) {
					ds.CenterOfMass[i] = p
					inRing++
					placed = true
					break
				}
			}
			if !placed {
				ring, inRing = ring+1, 0
			}
		}
		if !placed {
			ds.CenterOfMass[i] = c.findOpenLocation(i, l.liquidSpacing, ctx)
		}
		c.randomAngle(i)
	}
}

func (c *Changer) formGas(ctx integrators.Context) {
	ds := c.ds
	l := c.layout
	for i := 0; i < ds.NumberOfMolecules(); i++ {
		placed := false
		for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
			p := c.randomInterior(ctx)
			if c.fits(p, i, l.gasSeparation, ctx) {
				ds.CenterOfMass[i] = p
				placed = true
				break
			}
		}
		if !placed {
			ds.CenterOfMass[i] = c.findOpenLocation(i, l.gasSeparation, ctx)
		}
		c.randomAngle(i)
	}
}

// findOpenLocation samples the interior for a spot at least minSep from the
// first placed molecules. When none is found it returns the sampled spot
// farthest from its nearest neighbour.
func (c *Changer) findOpenLocation(placed int, minSep float64, ctx integrators.Context) r2.Vec {
	var best r2.Vec
	bestDist := -1.0
	for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
		p := c.randomInterior(ctx)
		d := c.nearest(p, placed)
		if d >= minSep*minSep {
			return p
		}
		if d > bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

func (c *Changer) fits(p r2.Vec, placed int, minSep float64, ctx integrators.Context) bool {
	lo := integrators.WallOffset + WallMargin
	if p.X < lo || p.X > ctx.Width-lo || p.Y < lo || p.Y > ctx.Height-lo {
		return false
	}
	return c.nearest(p, placed) >= minSep*minSep
}

// nearest returns the squared distance from p to the closest of the first
// placed molecules.
func (c *Changer) nearest(p r2.Vec, placed int) float64 {
	best := math.Inf(1)
	for j := 0; j < placed; j++ {
		if d := r2.Norm2(r2.Sub(p, c.ds.CenterOfMass[j])); d < best {
			best = d
		}
	}
	return best
}

func (c *Changer) randomInterior(ctx integrators.Context) r2.Vec {
	lo := integrators.WallOffset + WallMargin
	return r2.Vec{
		X: lo + c.rng.Float64()*math.Max(ctx.Width-2*lo, 0),
		Y: lo + c.rng.Float64()*math.Max(ctx.Height-2*lo, 0),
	}
}

func (c *Changer) randomAngle(i int) {
	if c.layout.rotating {
		c.ds.RotationAngle[i] = 2 * math.Pi * c.rng.Float64()
	} else {
		c.ds.RotationAngle[i] = 0
	}
}

func (c *Changer) resetMotion(ph substance.Phase, temperature float64) {
	ds := c.ds
	vScale := math.Sqrt(ds.VelocityVariance(temperature))
	wScale := math.Sqrt(temperature / ds.RotationalInertia)
	for i := 0; i < ds.NumberOfMolecules(); i++ {
		ds.Velocity[i] = r2.Vec{X: vScale * c.rng.NormFloat64(), Y: vScale * c.rng.NormFloat64()}
		ds.Force[i] = r2.Vec{}
		ds.NextForce[i] = r2.Vec{}
		ds.Torque[i] = 0
		ds.NextTorque[i] = 0
		ds.RotationRate[i] = 0
		if c.layout.rotating && ph != substance.Solid {
			ds.RotationRate[i] = wScale * c.rng.NormFloat64()
		}
		ds.InsideContainer[i] = true
	}
}

func ringCapacity(ring int) int {
	if ring == 0 {
		return 1
	}
	return int(2 * math.Pi * float64(ring))
}
