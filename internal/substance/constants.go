package substance

// Model temperatures, normalized.
const (
	SolidTemperature  = 0.15
	LiquidTemperature = 0.34
	GasTemperature    = 1.0
	MinTemperature    = 0.0001
	MaxTemperature    = 50.0
)

// Container geometry in picometers.
const (
	ContainerWidth         = 10000.0
	ContainerInitialHeight = 10000.0
	ContainerMinHeight     = 1500.0
)

// PressureToAtmospheres converts normalized pressure to the displayed unit.
const PressureToAtmospheres = 5.0

// Properties holds everything the orchestrator needs to build a simulation
// for one substance.
type Properties struct {
	AtomsPerMolecule int
	// ParticleDiameter in picometers; positions are normalized by it.
	ParticleDiameter float64
	// Epsilon is the LJ well depth in Kelvin.
	Epsilon float64
	// MoleculeMass and RotationalInertia are normalized.
	MoleculeMass      float64
	RotationalInertia float64

	TriplePointKelvin   float64
	CriticalPointKelvin float64
	TriplePointModel    float64
	CriticalPointModel  float64

	// InitialSpacing is the per-molecule footprint, in diameters, used to
	// size the starting population.
	InitialSpacing float64
}

const (
	NeonDiameter         = 308.0
	ArgonDiameter        = 362.0
	OxygenDiameter       = 324.0
	AdjustableDiameter   = 330.0
	NeonEpsilon          = 32.8
	ArgonEpsilon         = 111.84
	OxygenEpsilon        = 113.0
	WaterEpsilon         = 200.0
	AdjustableEpsilon    = 100.0
	MinAdjustableEpsilon = 20.0
	MaxAdjustableEpsilon = 450.0

	// AdjustableEpsilonScale maps an adjustable epsilon in Kelvin to the
	// integrator's normalized interaction strength.
	AdjustableEpsilonScale = 1.0 / AdjustableEpsilon
)

var properties = map[Substance]Properties{
	Neon: {
		AtomsPerMolecule:    1,
		ParticleDiameter:    NeonDiameter,
		Epsilon:             NeonEpsilon,
		MoleculeMass:        1,
		RotationalInertia:   1,
		TriplePointKelvin:   24.57,
		CriticalPointKelvin: 44.49,
		TriplePointModel:    0.26,
		CriticalPointModel:  0.8,
		InitialSpacing:      1.2,
	},
	Argon: {
		AtomsPerMolecule:    1,
		ParticleDiameter:    ArgonDiameter,
		Epsilon:             ArgonEpsilon,
		MoleculeMass:        1,
		RotationalInertia:   1,
		TriplePointKelvin:   83.81,
		CriticalPointKelvin: 150.87,
		TriplePointModel:    0.26,
		CriticalPointModel:  0.8,
		InitialSpacing:      1.2,
	},
	Adjustable: {
		AtomsPerMolecule:    1,
		ParticleDiameter:    AdjustableDiameter,
		Epsilon:             AdjustableEpsilon,
		MoleculeMass:        1,
		RotationalInertia:   1,
		TriplePointKelvin:   75,
		CriticalPointKelvin: 140,
		TriplePointModel:    0.26,
		CriticalPointModel:  0.8,
		InitialSpacing:      1.2,
	},
	DiatomicOxygen: {
		AtomsPerMolecule:    2,
		ParticleDiameter:    OxygenDiameter,
		Epsilon:             OxygenEpsilon,
		MoleculeMass:        2,
		RotationalInertia:   0.9 * 0.9 / 2,
		TriplePointKelvin:   54.36,
		CriticalPointKelvin: 154.59,
		TriplePointModel:    0.26,
		CriticalPointModel:  0.8,
		InitialSpacing:      2.1,
	},
	Water: {
		AtomsPerMolecule:    3,
		ParticleDiameter:    OxygenDiameter,
		Epsilon:             WaterEpsilon,
		MoleculeMass:        1.5,
		RotationalInertia:   0.5 * 1.5 * (1.0 / 3.12) * (1.0 / 3.12),
		TriplePointKelvin:   273.16,
		CriticalPointKelvin: 647.1,
		TriplePointModel:    0.26,
		CriticalPointModel:  0.8,
		InitialSpacing:      2.0,
	},
}

// Lookup returns the properties of s. The adjustable substance's Kelvin
// reference points scale with epsilon, see ScaleForEpsilon.
func Lookup(s Substance) (Properties, error) {
	p, ok := properties[s]
	if !ok {
		return Properties{}, ErrUnknownSubstance
	}
	return p, nil
}

// ScaleForEpsilon returns p with its Kelvin reference points scaled to the
// given well depth, keeping the model-unit points fixed.
func (p Properties) ScaleForEpsilon(epsilon float64) Properties {
	if p.Epsilon <= 0 || epsilon <= 0 {
		return p
	}
	ratio := epsilon / p.Epsilon
	p.TriplePointKelvin *= ratio
	p.CriticalPointKelvin *= ratio
	p.Epsilon = epsilon
	return p
}

// NormalizedContainerWidth is the container width in particle diameters.
func (p Properties) NormalizedContainerWidth() float64 {
	return ContainerWidth / p.ParticleDiameter
}

func (p Properties) Normalize(picometers float64) float64 {
	return picometers / p.ParticleDiameter
}

// InitialMoleculeCount sizes the starting population so the solid block
// covers roughly a third of the container width.
func (p Properties) InitialMoleculeCount() int {
	perSide := int(ContainerWidth/(p.ParticleDiameter*p.InitialSpacing*3) + 0.5)
	if perSide < 1 {
		perSide = 1
	}
	return perSide * perSide
}

// ToKelvin maps a model temperature onto Kelvin piecewise linearly through
// the triple and critical points.
func (p Properties) ToKelvin(model float64) float64 {
	switch {
	case model <= p.TriplePointModel:
		return model * p.TriplePointKelvin / p.TriplePointModel
	case model <= p.CriticalPointModel:
		slope := (p.CriticalPointKelvin - p.TriplePointKelvin) / (p.CriticalPointModel - p.TriplePointModel)
		offset := p.TriplePointKelvin - slope*p.TriplePointModel
		return model*slope + offset
	default:
		return model * p.CriticalPointKelvin / p.CriticalPointModel
	}
}

// FromKelvin is the inverse of ToKelvin.
func (p Properties) FromKelvin(kelvin float64) float64 {
	switch {
	case kelvin <= p.TriplePointKelvin:
		return kelvin * p.TriplePointModel / p.TriplePointKelvin
	case kelvin <= p.CriticalPointKelvin:
		slope := (p.CriticalPointKelvin - p.TriplePointKelvin) / (p.CriticalPointModel - p.TriplePointModel)
		offset := p.TriplePointKelvin - slope*p.TriplePointModel
		return (kelvin - offset) / slope
	default:
		return kelvin * p.CriticalPointModel / p.CriticalPointKelvin
	}
}

// PhaseAt classifies a model temperature.
func (p Properties) PhaseAt(model float64) Phase {
	switch {
	case model < p.TriplePointModel:
		return Solid
	case model < p.CriticalPointModel:
		return Liquid
	default:
		return Gas
	}
}

// PhaseTemperature is the set point a phase changer installs.
func PhaseTemperature(ph Phase) float64 {
	switch ph {
	case Liquid:
		return LiquidTemperature
	case Gas:
		return GasTemperature
	default:
		return SolidTemperature
	}
}
