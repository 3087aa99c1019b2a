package integrators

import (
	"math"

	"github.com/san-kum/somsim/internal/dataset"
	"github.com/san-kum/somsim/internal/updater"
	"gonum.org/v1/gonum/spatial/r2"
)

type Diatomic struct {
	base
	comCutoff2 float64
}

func NewDiatomic(ds *dataset.DataSet, upd updater.Updater) *Diatomic {
	cutoff := math.Sqrt(InteractionThreshold2) + updater.DiatomicBondLength
	return &Diatomic{base: newBase(ds, upd), comCutoff2: cutoff * cutoff}
}

func (d *Diatomic) UpdateForcesAndMotion(ctx Context, dt float64) {
	d.step(ctx, dt, d)
}

func (d *Diatomic) updateInteractionForces(ctx Context) {
	ds := d.ds
	n := ds.NumberOfMolecules()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r2.Norm2(r2.Sub(ds.CenterOfMass[i], ds.CenterOfMass[j])) > d.comCutoff2 {
				continue
			}
			for _, pa := range ds.Molecule(i) {
				for _, pb := range ds.Molecule(j) {
					delta := r2.Sub(pa, pb)
					dist2 := r2.Norm2(delta)
					if dist2 >= InteractionThreshold2 {
						continue
					}
					if dist2 < MinDistance2 {
						dist2 = MinDistance2
					}
					f := r2.Scale(d.calc.ForceOverDistance(dist2), delta)
					d.accumulate(i, j, pa, pb, f)
					d.potentialEnergy += d.calc.PotentialFromSquared(dist2)
				}
			}
		}
	}
}
