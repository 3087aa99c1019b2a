package integrators

import (
	"math"

	"github.com/san-kum/somsim/internal/dataset"
	"github.com/san-kum/somsim/internal/updater"
	"gonum.org/v1/gonum/spatial/r2"
)

// Hydrogen partial charge magnitudes. Charges are stronger when cold so
// that the ice lattice holds its open structure.
const (
	FrozenCharge           = 4.0
	MeltedCharge           = 1.0
	FullyFrozenTemperature = 0.22
	FullyMeltedTemperature = 0.30
)

// Water interacts through Lennard-Jones between oxygens only and Coulomb
// forces between every atom pair of distinct molecules.
type Water struct {
	base
	comCutoff2 float64
	charges    [3]float64
}

func NewWater(ds *dataset.DataSet, upd updater.Updater) *Water {
	cutoff := math.Sqrt(InteractionThreshold2) + 2*updater.WaterOHDistance
	return &Water{base: newBase(ds, upd), comCutoff2: cutoff * cutoff}
}

// HydrogenCharge interpolates linearly between the frozen and melted charge
// across the transition band.
func HydrogenCharge(setPoint float64) float64 {
	switch {
	case setPoint <= FullyFrozenTemperature:
		return FrozenCharge
	case setPoint >= FullyMeltedTemperature:
		return MeltedCharge
	}
	frac := (setPoint - FullyFrozenTemperature) / (FullyMeltedTemperature - FullyFrozenTemperature)
	return FrozenCharge + frac*(MeltedCharge-FrozenCharge)
}

func (w *Water) UpdateForcesAndMotion(ctx Context, dt float64) {
	w.step(ctx, dt, w)
}

func (w *Water) updateInteractionForces(ctx Context) {
	q := HydrogenCharge(ctx.SetPoint)
	w.charges = [3]float64{-2 * q, q, q}

	ds := w.ds
	n := ds.NumberOfMolecules()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r2.Norm2(r2.Sub(ds.CenterOfMass[i], ds.CenterOfMass[j])) > w.comCutoff2 {
				continue
			}
			mi, mj := ds.Molecule(i), ds.Molecule(j)

			delta := r2.Sub(mi[0], mj[0])
			dist2 := r2.Norm2(delta)
			if dist2 < InteractionThreshold2 {
				if dist2 < MinDistance2 {
					dist2 = MinDistance2
				}
				w.accumulate(i, j, mi[0], mj[0], r2.Scale(w.calc.ForceOverDistance(dist2), delta))
				w.potentialEnergy += w.calc.PotentialFromSquared(dist2)
			}

			for a, pa := range mi {
				for b, pb := range mj {
					delta := r2.Sub(pa, pb)
					dist2 := r2.Norm2(delta)
					if dist2 >= InteractionThreshold2 {
						continue
					}
					if dist2 < MinDistance2 {
						dist2 = MinDistance2
					}
					inv := 1 / dist2
					qq := w.charges[a] * w.charges[b]
					w.accumulate(i, j, pa, pb, r2.Scale(qq*inv*math.Sqrt(inv), delta))
					w.potentialEnergy += qq * math.Sqrt(inv)
				}
			}
		}
	}
}
