package integrators

import (
	"github.com/san-kum/somsim/internal/dataset"
	"github.com/san-kum/somsim/internal/updater"
	"gonum.org/v1/gonum/spatial/r2"
)

type Monatomic struct {
	base
}

func NewMonatomic(ds *dataset.DataSet) *Monatomic {
	return &Monatomic{base: newBase(ds, updater.Monatomic{})}
}

// SetEpsilon changes the normalized interaction strength used for every
// pair.
func (m *Monatomic) SetEpsilon(epsilon float64) {
	m.calc.Epsilon = epsilon
}

func (m *Monatomic) Epsilon() float64 { return m.calc.Epsilon }

func (m *Monatomic) UpdateForcesAndMotion(ctx Context, dt float64) {
	m.step(ctx, dt, m)
}

func (m *Monatomic) updateInteractionForces(ctx Context) {
	ds := m.ds
	n := ds.NumberOfMolecules()
	for i := 0; i < n; i++ {
		pi := ds.CenterOfMass[i]
		for j := i + 1; j < n; j++ {
			d := r2.Sub(pi, ds.CenterOfMass[j])
			dist2 := r2.Norm2(d)
			if dist2 >= InteractionThreshold2 {
				continue
			}
			if dist2 < MinDistance2 {
				dist2 = MinDistance2
			}
			f := r2.Scale(m.calc.ForceOverDistance(dist2), d)
			ds.NextForce[i] = r2.Add(ds.NextForce[i], f)
			ds.NextForce[j] = r2.Sub(ds.NextForce[j], f)
			m.potentialEnergy += m.calc.PotentialFromSquared(dist2)
		}
	}
}
