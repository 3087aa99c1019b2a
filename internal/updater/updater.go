// Package updater derives absolute atom positions from molecule centers of
// mass and rotation angles.
package updater

import (
	"fmt"
	"math"

	"github.com/san-kum/somsim/internal/dataset"
	"gonum.org/v1/gonum/spatial/r2"
)

// Updater overwrites every atom position of a data set from its molecule
// arrays. Implementations panic when the data set topology does not match.
type Updater interface {
	Update(ds *dataset.DataSet)
	AtomsPerMolecule() int
	// Offsets returns the atom positions of an unrotated molecule relative to
	// its center of mass.
	Offsets() []r2.Vec
	// Weights returns the relative atom masses used to place the center of
	// mass.
	Weights() []float64
}

// DiatomicBondLength is the separation of the two atoms of a diatomic
// molecule, in particle diameters.
const DiatomicBondLength = 0.9

// Water geometry: oxygen-hydrogen distance and H-O-H angle.
const (
	WaterOHDistance = 1 / 3.12
	WaterBondAngle  = 109.47 * math.Pi / 180

	oxygenWeight   = 16.0
	hydrogenWeight = 1.0
)

// New returns the updater for the given topology.
func New(atomsPerMolecule int) Updater {
	switch atomsPerMolecule {
	case 1:
		return Monatomic{}
	case 2:
		return newRigid(2, diatomicOffsets(), []float64{1, 1})
	case 3:
		return newRigid(3, waterOffsets(), []float64{oxygenWeight, hydrogenWeight, hydrogenWeight})
	}
	panic(fmt.Sprintf("updater: unsupported atoms per molecule %d", atomsPerMolecule))
}

type Monatomic struct{}

func (Monatomic) AtomsPerMolecule() int { return 1 }
func (Monatomic) Offsets() []r2.Vec     { return []r2.Vec{{}} }
func (Monatomic) Weights() []float64    { return []float64{1} }

func (Monatomic) Update(ds *dataset.DataSet) {
	checkTopology(ds, 1)
	copy(ds.AtomPositions, ds.CenterOfMass)
}

// Rigid places a fixed set of atom offsets around each center of mass,
// rotated by the molecule's angle.
type Rigid struct {
	atoms   int
	offsets []r2.Vec
	weights []float64
}

func newRigid(atoms int, offsets []r2.Vec, weights []float64) *Rigid {
	return &Rigid{atoms: atoms, offsets: offsets, weights: weights}
}

func (u *Rigid) AtomsPerMolecule() int { return u.atoms }
func (u *Rigid) Offsets() []r2.Vec     { return u.offsets }
func (u *Rigid) Weights() []float64    { return u.weights }

func (u *Rigid) Update(ds *dataset.DataSet) {
	checkTopology(ds, u.atoms)
	for i := 0; i < ds.NumberOfMolecules(); i++ {
		com := ds.CenterOfMass[i]
		sin, cos := math.Sincos(ds.RotationAngle[i])
		base := i * u.atoms
		for j, off := range u.offsets {
			ds.AtomPositions[base+j] = r2.Vec{
				X: com.X + off.X*cos - off.Y*sin,
				Y: com.Y + off.X*sin + off.Y*cos,
			}
		}
	}
}

// CenterOfMass recomputes molecule i's center of mass from its atoms.
func (u *Rigid) CenterOfMass(ds *dataset.DataSet, i int) r2.Vec {
	var sum r2.Vec
	total := 0.0
	for j, p := range ds.Molecule(i) {
		sum = r2.Add(sum, r2.Scale(u.weights[j], p))
		total += u.weights[j]
	}
	return r2.Scale(1/total, sum)
}

func diatomicOffsets() []r2.Vec {
	h := DiatomicBondLength / 2
	return []r2.Vec{{X: h}, {X: -h}}
}

// waterOffsets puts oxygen first and both hydrogens after it, shifted so the
// weighted centroid sits on the origin.
func waterOffsets() []r2.Vec {
	raw := []r2.Vec{
		{},
		{X: WaterOHDistance},
		{X: WaterOHDistance * math.Cos(WaterBondAngle), Y: WaterOHDistance * math.Sin(WaterBondAngle)},
	}
	weights := []float64{oxygenWeight, hydrogenWeight, hydrogenWeight}
	var com r2.Vec
	total := 0.0
	for i, p := range raw {
		com = r2.Add(com, r2.Scale(weights[i], p))
		total += weights[i]
	}
	com = r2.Scale(1/total, com)
	for i := range raw {
		raw[i] = r2.Sub(raw[i], com)
	}
	return raw
}

func checkTopology(ds *dataset.DataSet, want int) {
	if ds.AtomsPerMolecule() != want {
		panic(fmt.Sprintf("updater: data set has %d atoms per molecule, updater expects %d",
			ds.AtomsPerMolecule(), want))
	}
}
