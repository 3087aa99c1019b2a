package phase

import (
	"math"
	"testing"

	"github.com/san-kum/somsim/internal/dataset"
	"github.com/san-kum/somsim/internal/integrators"
	"github.com/san-kum/somsim/internal/substance"
	"github.com/san-kum/somsim/internal/updater"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

func newChanger(t *testing.T, atoms, n int, seed uint64) (*dataset.DataSet, *Changer) {
	t.Helper()
	ds := dataset.New(atoms, 600)
	for i := 0; i < n; i++ {
		if err := ds.AddMolecule(r2.Vec{}, r2.Vec{}, 0, true); err != nil {
			t.Fatal(err)
		}
	}
	upd := updater.New(atoms)
	return ds, New(ds, upd, integrators.New(ds, upd), rand.New(rand.NewSource(seed)))
}

func inBounds(p r2.Vec, ctx integrators.Context) bool {
	lo := integrators.WallOffset
	return p.X >= lo && p.X <= ctx.Width-lo && p.Y >= lo && p.Y <= ctx.Height-lo
}

func TestSolidLattice(t *testing.T) {
	ctx := integrators.Context{Width: 30, Height: 30}
	ds, c := newChanger(t, 1, 16, 1)

	res := c.SetPhase(substance.Solid, ctx)

	if res.Temperature != substance.SolidTemperature || res.SettleSteps != 0 {
		t.Errorf("result = %+v", res)
	}
	rows := map[float64]int{}
	for _, p := range ds.CenterOfMass {
		rows[math.Round(p.Y*1000)/1000]++
	}
	if len(rows) != 4 {
		t.Errorf("got %d rows, want 4", len(rows))
	}
	for y, count := range rows {
		if count != 4 {
			t.Errorf("row at y=%g holds %d molecules, want 4", y, count)
		}
	}
	assertSeparated(t, ds, MinInitialDiameterDistance)
}

func TestSolidFitsLowLid(t *testing.T) {
	ctx := integrators.Context{Width: 32, Height: 4.9}
	ds, c := newChanger(t, 1, 81, 2)

	c.SetPhase(substance.Solid, ctx)

	for i, p := range ds.CenterOfMass {
		if !inBounds(p, ctx) {
			t.Errorf("molecule %d at %v outside container", i, p)
		}
	}
}

func TestGasIdempotentCount(t *testing.T) {
	for _, atoms := range []int{1, 2, 3} {
		ctx := integrators.Context{Width: 30, Height: 30}
		ds, c := newChanger(t, atoms, 25, uint64(atoms))

		c.SetPhase(substance.Gas, ctx)
		c.SetPhase(substance.Gas, ctx)

		if ds.NumberOfMolecules() != 25 || ds.AtomsPerMolecule() != atoms {
			t.Errorf("atoms=%d: got %d molecules of %d atoms", atoms, ds.NumberOfMolecules(), ds.AtomsPerMolecule())
		}
		for i, p := range ds.CenterOfMass {
			if !inBounds(p, ctx) {
				t.Errorf("atoms=%d: molecule %d at %v outside container", atoms, i, p)
			}
		}
		assertSeparated(t, ds, 1.5)
	}
}

func TestLiquidSettles(t *testing.T) {
	ctx := integrators.Context{Width: 32, Height: 32, Gravity: -0.045}
	ds, c := newChanger(t, 1, 81, 3)

	res := c.SetPhase(substance.Liquid, ctx)

	if res.SettleSteps != LiquidSettleSteps {
		t.Errorf("settle steps = %d", res.SettleSteps)
	}
	for i, p := range ds.CenterOfMass {
		if !inBounds(p, ctx) {
			t.Errorf("molecule %d at %v outside container", i, p)
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Fatalf("molecule %d has NaN position", i)
		}
	}
	if got := ds.Temperature(); math.Abs(got-substance.LiquidTemperature) > 1e-6 {
		t.Errorf("temperature after settle = %g, want %g", got, substance.LiquidTemperature)
	}
}

func TestLiquidSettleLeavesNoPressure(t *testing.T) {
	ctx := integrators.Context{Width: 12, Height: 12, Gravity: -0.045}
	_, c := newChanger(t, 1, 60, 6)

	c.SetPhase(substance.Liquid, ctx)

	if p := c.in.Pressure(); p != 0 {
		t.Errorf("pressure after settle = %g, want 0", p)
	}
	if c.in.ExplosionTriggered() {
		t.Error("settle steps must not count toward an explosion")
	}
}

func TestCrowdedPlacementTerminates(t *testing.T) {
	ctx := integrators.Context{Width: 5, Height: 5}
	ds, c := newChanger(t, 1, 60, 4)

	c.SetPhase(substance.Gas, ctx)
	c.SetPhase(substance.Liquid, ctx)

	for i, p := range ds.CenterOfMass {
		if !inBounds(p, ctx) {
			t.Errorf("molecule %d at %v outside container", i, p)
		}
	}
}

func TestRotationReset(t *testing.T) {
	ctx := integrators.Context{Width: 30, Height: 30}
	ds, c := newChanger(t, 2, 10, 5)
	for i := range ds.RotationRate {
		ds.RotationRate[i] = 99
	}

	c.SetPhase(substance.Solid, ctx)

	for i, w := range ds.RotationRate {
		if w != 0 {
			t.Errorf("molecule %d rotation rate %g after solid", i, w)
		}
	}
}

func assertSeparated(t *testing.T, ds *dataset.DataSet, min float64) {
	t.Helper()
	for i := 0; i < ds.NumberOfMolecules(); i++ {
		for j := i + 1; j < ds.NumberOfMolecules(); j++ {
			if d := r2.Norm(r2.Sub(ds.CenterOfMass[i], ds.CenterOfMass[j])); d < min-1e-9 {
				t.Errorf("molecules %d and %d only %g apart", i, j, d)
			}
		}
	}
}
