// Package atomic is a two-atom interaction sandbox: one fixed atom and one
// atom free to move along the line joining them, interacting through a
// single Lennard-Jones pair potential in real units (picometers,
// picoseconds, Kelvin, atomic mass units).
package atomic

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPair = errors.New("atomic: unknown atom pair")

// AccelerationScale converts a force in Kelvin per picometer on a mass in
// amu into picometers per square picosecond (k_B / amu, rescaled).
const AccelerationScale = 8314.46

const (
	// TimeScale is the simulated picoseconds per second of wall-clock time.
	TimeScale        = 2.0
	MaxSubstep       = 0.005
	// MaxFrameDuration is the longest frame, in seconds, that Step runs;
	// longer frames are dropped.
	MaxFrameDuration = 1.0

	// VibrationDamping is applied to the movable atom's velocity on each
	// sub-step while the pair is vibrating, so a captured atom settles.
	VibrationDamping = 0.9995
	// BondedFraction of the well depth below which the pair counts as
	// bonded rather than vibrating.
	BondedFraction = 0.95

	MinAdjustableSigma   = 200.0
	MaxAdjustableSigma   = 500.0
	MinAdjustableEpsilon = 20.0
	MaxAdjustableEpsilon = 450.0
)

type Atom struct {
	Name    string
	Sigma   float64
	Epsilon float64
	Mass    float64
}

func (a Atom) Radius() float64 { return a.Sigma / 2 }

var (
	Neon       = Atom{Name: "neon", Sigma: 308, Epsilon: 32.8, Mass: 20.18}
	Argon      = Atom{Name: "argon", Sigma: 362, Epsilon: 111.84, Mass: 39.948}
	Oxygen     = Atom{Name: "oxygen", Sigma: 324, Epsilon: 113, Mass: 15.999}
	Adjustable = Atom{Name: "adjustable", Sigma: 330, Epsilon: 100, Mass: 25}
)

type Pair int

const (
	NeonNeon Pair = iota
	ArgonArgon
	OxygenOxygen
	NeonArgon
	NeonOxygen
	ArgonOxygen
	AdjustablePair
)

var pairs = map[Pair][2]Atom{
	NeonNeon:       {Neon, Neon},
	ArgonArgon:     {Argon, Argon},
	OxygenOxygen:   {Oxygen, Oxygen},
	NeonArgon:      {Neon, Argon},
	NeonOxygen:     {Neon, Oxygen},
	ArgonOxygen:    {Argon, Oxygen},
	AdjustablePair: {Adjustable, Adjustable},
}

func (p Pair) Atoms() (fixed, movable Atom) {
	a := pairs[p]
	return a[0], a[1]
}

func (p Pair) String() string {
	a, ok := pairs[p]
	if !ok {
		return fmt.Sprintf("pair(%d)", int(p))
	}
	return a[0].Name + "-" + a[1].Name
}

func ParsePair(name string) (Pair, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for p := range pairs {
		if p.String() == key {
			return p, nil
		}
	}
	if key == "adjustable" {
		return AdjustablePair, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPair, name)
}

func Pairs() []Pair {
	return []Pair{NeonNeon, ArgonArgon, OxygenOxygen, NeonArgon, NeonOxygen, ArgonOxygen, AdjustablePair}
}

type BondingState int

const (
	Unbonded BondingState = iota
	Vibrating
	Bonded
)

func (b BondingState) String() string {
	switch b {
	case Vibrating:
		return "vibrating"
	case Bonded:
		return "bonded"
	default:
		return "unbonded"
	}
}
