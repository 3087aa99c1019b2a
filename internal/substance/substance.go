// Package substance enumerates the simulated substances and phases together
// with the constants that tie the normalized model to display units.
package substance

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownSubstance = errors.New("substance: unknown substance")
	ErrUnknownPhase     = errors.New("substance: unknown phase")
)

type Substance int

const (
	Neon Substance = iota
	Argon
	Adjustable
	DiatomicOxygen
	Water
)

var substanceNames = map[Substance]string{
	Neon:           "neon",
	Argon:          "argon",
	Adjustable:     "adjustable",
	DiatomicOxygen: "oxygen",
	Water:          "water",
}

func (s Substance) String() string {
	if name, ok := substanceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("substance(%d)", int(s))
}

func Parse(name string) (Substance, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "diatomic_oxygen", "o2":
		return DiatomicOxygen, nil
	case "adjustable_atom":
		return Adjustable, nil
	}
	for s, n := range substanceNames {
		if n == key {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSubstance, name)
}

func All() []Substance {
	return []Substance{Neon, Argon, Adjustable, DiatomicOxygen, Water}
}

type Phase int

const (
	Solid Phase = iota
	Liquid
	Gas
)

func (p Phase) String() string {
	switch p {
	case Solid:
		return "solid"
	case Liquid:
		return "liquid"
	case Gas:
		return "gas"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func ParsePhase(name string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "solid":
		return Solid, nil
	case "liquid":
		return Liquid, nil
	case "gas":
		return Gas, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPhase, name)
}
