// Package dataset holds the kinematic state of every simulated molecule in a
// structure-of-arrays layout.
//
// Per-molecule slices (center of mass, velocity, force, next force, rotation
// angle, rotation rate, torque, next torque, inside-container flag) are kept
// parallel and sized to the data set's capacity up front, so the integration
// loops never allocate. Per-atom positions are derived from the molecule
// arrays by an atom position updater and are never integrated directly.
package dataset

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

var ErrFull = errors.New("dataset: no free molecule slots")

type DataSet struct {
	atomsPerMolecule int
	maxMolecules     int
	numMolecules     int

	MoleculeMass      float64
	RotationalInertia float64

	CenterOfMass    []r2.Vec
	Velocity        []r2.Vec
	Force           []r2.Vec
	NextForce       []r2.Vec
	RotationAngle   []float64
	RotationRate    []float64
	Torque          []float64
	NextTorque      []float64
	InsideContainer []bool

	AtomPositions []r2.Vec
}

// New allocates a data set able to hold maxAtoms atoms. It panics when
// atomsPerMolecule is not 1, 2 or 3.
func New(atomsPerMolecule, maxAtoms int) *DataSet {
	if atomsPerMolecule < 1 || atomsPerMolecule > 3 {
		panic(fmt.Sprintf("dataset: unsupported atoms per molecule %d", atomsPerMolecule))
	}
	maxMolecules := maxAtoms / atomsPerMolecule
	return &DataSet{
		atomsPerMolecule:  atomsPerMolecule,
		maxMolecules:      maxMolecules,
		MoleculeMass:      1,
		RotationalInertia: 1,
		CenterOfMass:      make([]r2.Vec, 0, maxMolecules),
		Velocity:          make([]r2.Vec, 0, maxMolecules),
		Force:             make([]r2.Vec, 0, maxMolecules),
		NextForce:         make([]r2.Vec, 0, maxMolecules),
		RotationAngle:     make([]float64, 0, maxMolecules),
		RotationRate:      make([]float64, 0, maxMolecules),
		Torque:            make([]float64, 0, maxMolecules),
		NextTorque:        make([]float64, 0, maxMolecules),
		InsideContainer:   make([]bool, 0, maxMolecules),
		AtomPositions:     make([]r2.Vec, 0, maxMolecules*atomsPerMolecule),
	}
}

func (d *DataSet) AtomsPerMolecule() int { return d.atomsPerMolecule }
func (d *DataSet) NumberOfMolecules() int { return d.numMolecules }
func (d *DataSet) NumberOfAtoms() int     { return d.numMolecules * d.atomsPerMolecule }
func (d *DataSet) MaxMolecules() int      { return d.maxMolecules }

func (d *DataSet) RemainingSlots() int {
	return d.maxMolecules - d.numMolecules
}

// AddMolecule appends a molecule to every parallel array. Atom positions are
// zeroed; the caller re-derives them through its position updater.
func (d *DataSet) AddMolecule(com, velocity r2.Vec, rotationRate float64, inside bool) error {
	if d.RemainingSlots() <= 0 {
		return ErrFull
	}
	d.CenterOfMass = append(d.CenterOfMass, com)
	d.Velocity = append(d.Velocity, velocity)
	d.Force = append(d.Force, r2.Vec{})
	d.NextForce = append(d.NextForce, r2.Vec{})
	d.RotationAngle = append(d.RotationAngle, 0)
	d.RotationRate = append(d.RotationRate, rotationRate)
	d.Torque = append(d.Torque, 0)
	d.NextTorque = append(d.NextTorque, 0)
	d.InsideContainer = append(d.InsideContainer, inside)
	for i := 0; i < d.atomsPerMolecule; i++ {
		d.AtomPositions = append(d.AtomPositions, com)
	}
	d.numMolecules++
	return nil
}

// RemoveMolecule deletes molecule i, shifting later molecules down one slot
// so that relative order and the parallel layout are preserved.
func (d *DataSet) RemoveMolecule(i int) {
	if i < 0 || i >= d.numMolecules {
		panic(fmt.Sprintf("dataset: molecule index %d out of range [0,%d)", i, d.numMolecules))
	}
	d.CenterOfMass = removeVec(d.CenterOfMass, i)
	d.Velocity = removeVec(d.Velocity, i)
	d.Force = removeVec(d.Force, i)
	d.NextForce = removeVec(d.NextForce, i)
	d.RotationAngle = removeFloat(d.RotationAngle, i)
	d.RotationRate = removeFloat(d.RotationRate, i)
	d.Torque = removeFloat(d.Torque, i)
	d.NextTorque = removeFloat(d.NextTorque, i)
	d.InsideContainer = append(d.InsideContainer[:i], d.InsideContainer[i+1:]...)

	start := i * d.atomsPerMolecule
	d.AtomPositions = append(d.AtomPositions[:start], d.AtomPositions[start+d.atomsPerMolecule:]...)
	d.numMolecules--
}

// RemoveIf removes every molecule for which drop returns true and reports how
// many were removed.
func (d *DataSet) RemoveIf(drop func(i int) bool) int {
	removed := 0
	for i := d.numMolecules - 1; i >= 0; i-- {
		if drop(i) {
			d.RemoveMolecule(i)
			removed++
		}
	}
	return removed
}

// Molecule returns the atom positions belonging to molecule i.
func (d *DataSet) Molecule(i int) []r2.Vec {
	start := i * d.atomsPerMolecule
	return d.AtomPositions[start : start+d.atomsPerMolecule]
}

// Check verifies the parallel-array invariant.
func (d *DataSet) Check() error {
	n := d.numMolecules
	lengths := []int{
		len(d.CenterOfMass), len(d.Velocity), len(d.Force), len(d.NextForce),
		len(d.RotationAngle), len(d.RotationRate), len(d.Torque), len(d.NextTorque),
		len(d.InsideContainer),
	}
	for _, l := range lengths {
		if l != n {
			return fmt.Errorf("dataset: molecule array length %d, want %d", l, n)
		}
	}
	if len(d.AtomPositions) != n*d.atomsPerMolecule {
		return fmt.Errorf("dataset: %d atom positions for %d molecules of %d atoms",
			len(d.AtomPositions), n, d.atomsPerMolecule)
	}
	return nil
}

// KineticEnergy returns the translational and rotational kinetic energy
// summed over all molecules.
func (d *DataSet) KineticEnergy() (translational, rotational float64) {
	for i := 0; i < d.numMolecules; i++ {
		v := d.Velocity[i]
		translational += 0.5 * d.MoleculeMass * r2.Norm2(v)
		if d.atomsPerMolecule > 1 {
			w := d.RotationRate[i]
			rotational += 0.5 * d.RotationalInertia * w * w
		}
	}
	return translational, rotational
}

// Temperature is two thirds of the mean kinetic energy per molecule,
// rotation included.
func (d *DataSet) Temperature() float64 {
	if d.numMolecules == 0 {
		return 0
	}
	trans, rot := d.KineticEnergy()
	return (trans + rot) / (1.5 * float64(d.numMolecules))
}

// VelocityVariance is the per-axis variance of molecule velocities at which
// the data set reads temperature t. Rigid molecules carry part of their
// energy in rotation, sampled with variance t over the rotational inertia.
func (d *DataSet) VelocityVariance(t float64) float64 {
	if d.atomsPerMolecule == 1 {
		return 1.5 * t / d.MoleculeMass
	}
	return t / d.MoleculeMass
}

// Reset drops all molecules, keeping the allocated capacity.
func (d *DataSet) Reset() {
	d.CenterOfMass = d.CenterOfMass[:0]
	d.Velocity = d.Velocity[:0]
	d.Force = d.Force[:0]
	d.NextForce = d.NextForce[:0]
	d.RotationAngle = d.RotationAngle[:0]
	d.RotationRate = d.RotationRate[:0]
	d.Torque = d.Torque[:0]
	d.NextTorque = d.NextTorque[:0]
	d.InsideContainer = d.InsideContainer[:0]
	d.AtomPositions = d.AtomPositions[:0]
	d.numMolecules = 0
}

func removeVec(s []r2.Vec, i int) []r2.Vec {
	return append(s[:i], s[i+1:]...)
}

func removeFloat(s []float64, i int) []float64 {
	return append(s[:i], s[i+1:]...)
}
