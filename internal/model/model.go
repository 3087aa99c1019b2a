// Package model is the multi-particle orchestrator. It owns the molecule data
// set and the strategy objects for the selected substance, runs the step
// loop with adaptive sub-stepping, and manages the container, the thermostat
// choice and molecule injection.
//
// A Model is not safe for concurrent use. Every mutation, including the
// setters, must happen between calls to Step.
package model

import (
	"fmt"

	"github.com/san-kum/somsim/internal/dataset"
	"github.com/san-kum/somsim/internal/event"
	"github.com/san-kum/somsim/internal/integrators"
	"github.com/san-kum/somsim/internal/logging"
	"github.com/san-kum/somsim/internal/phase"
	"github.com/san-kum/somsim/internal/substance"
	"github.com/san-kum/somsim/internal/thermostat"
	"github.com/san-kum/somsim/internal/updater"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultMaxAtoms = 500
	DefaultGravity  = -0.045

	MaxSubstep        = 0.025
	ParticleSpeedUp   = 4.0
	MaxSubstepsPerDt  = 8
	MaxFrameDuration  = 1.0
	NominalFrameStep  = 1.0 / 60
	HeatingRate       = 1.5
	SlowCoolingFactor = 0.85

	LidShrinkRate        = 1250.0
	LidExpandRate        = 1500.0
	ExplodedExpandRate   = 10000.0
	MaxExplodedHeightMul = 10.0

	// TemperatureCloseness is the fraction of the set point within which the
	// measured temperature counts as settled.
	TemperatureCloseness = 0.15
	// AndersenCeiling is the highest set point, relative to the liquid
	// temperature, at which the Andersen thermostat may run.
	AndersenCeiling = 1.5

	lidAverageSamples = 10
)

type Options struct {
	Substance substance.Substance
	Seed      uint64
	MaxAtoms  int
	Logger    *logging.Logger
	Bus       *event.Bus
}

type Model struct {
	log      *logging.Logger
	bus      *event.Bus
	rng      *rand.Rand
	maxAtoms int

	substance substance.Substance
	props     substance.Properties
	ds        *dataset.DataSet
	upd       updater.Updater
	in        integrators.Integrator
	changer   *phase.Changer

	isokinetic *thermostat.Isokinetic
	andersen   *thermostat.Andersen
	active     thermostat.Thermostat

	playing  bool
	time     float64
	residual float64

	setPoint       float64
	heatingCooling float64
	gravity        float64
	epsilon        float64

	height       float64
	targetHeight float64
	lidVelocity  float64
	exploded     bool

	injectQueue   int
	injectHoldoff float64
	justInjected  bool
	lidAverage    movingAverage

	temperature float64
	pressure    float64
}

func New(opts Options) (*Model, error) {
	if opts.MaxAtoms <= 0 {
		opts.MaxAtoms = DefaultMaxAtoms
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	m := &Model{
		log:          opts.Logger,
		bus:          opts.Bus,
		rng:          rand.New(rand.NewSource(opts.Seed)),
		maxAtoms:     opts.MaxAtoms,
		playing:      true,
		gravity:      DefaultGravity,
		epsilon:      substance.AdjustableEpsilon,
		height:       substance.ContainerInitialHeight,
		targetHeight: substance.ContainerInitialHeight,
		lidAverage:   newMovingAverage(lidAverageSamples),
	}
	if err := m.SetSubstance(opts.Substance); err != nil {
		return nil, err
	}
	return m, nil
}

// SetSubstance discards the data set and every strategy object, rebuilds
// them for s, fills the container with the substance's initial population
// and arranges it as a solid.
func (m *Model) SetSubstance(s substance.Substance) error {
	props, err := substance.Lookup(s)
	if err != nil {
		return logging.WrapError(err, "set substance")
	}
	if s == substance.Adjustable {
		props = props.ScaleForEpsilon(m.epsilon)
	}

	ds := dataset.New(props.AtomsPerMolecule, m.maxAtoms)
	ds.MoleculeMass = props.MoleculeMass
	ds.RotationalInertia = props.RotationalInertia
	upd := updater.New(props.AtomsPerMolecule)
	in := integrators.New(ds, upd)
	if mono, ok := in.(*integrators.Monatomic); ok && s == substance.Adjustable {
		mono.SetEpsilon(m.epsilon * substance.AdjustableEpsilonScale)
	}

	m.substance = s
	m.props = props
	m.ds = ds
	m.upd = upd
	m.in = in
	m.changer = phase.New(ds, upd, in, m.rng)
	m.isokinetic = thermostat.NewIsokinetic(ds, substance.SolidTemperature)
	m.andersen = thermostat.NewAndersen(ds, substance.SolidTemperature, m.rng)
	m.active = nil

	if m.exploded {
		m.exploded = false
		m.height = substance.ContainerInitialHeight
		m.targetHeight = substance.ContainerInitialHeight
	}
	m.injectQueue = 0
	m.injectHoldoff = 0
	m.residual = 0

	count := props.InitialMoleculeCount()
	if limit := ds.MaxMolecules(); count > limit {
		count = limit
	}
	for i := 0; i < count; i++ {
		if err := ds.AddMolecule(r2.Vec{}, r2.Vec{}, 0, true); err != nil {
			return logging.WrapError(err, "populate %s", s)
		}
	}

	m.log.Info("substance changed", "substance", s.String(), "molecules", count,
		"atoms_per_molecule", props.AtomsPerMolecule)
	m.publish(event.SubstanceChanged)
	m.SetPhase(substance.Solid)
	return nil
}

// SetPhase rearranges the molecules for ph and moves the set point to the
// phase's characteristic temperature.
func (m *Model) SetPhase(ph substance.Phase) {
	res := m.changer.SetPhase(ph, m.context(0))
	m.setPoint = res.Temperature
	m.isokinetic.SetTargetTemperature(m.setPoint)
	m.andersen.SetTargetTemperature(m.setPoint)
	m.isokinetic.ClearAccumulatedBias()
	m.andersen.ClearAccumulatedBias()
	m.lidAverage.clear()
	m.temperature = m.ds.Temperature()
	m.pressure = m.in.Pressure()

	m.log.Debug("phase set", "phase", ph.String(), "set_point", m.setPoint, "settle_steps", res.SettleSteps)
	m.publish(event.PhaseSet)
}

func (m *Model) context(lidVelocity float64) integrators.Context {
	return integrators.Context{
		Width:       m.props.Normalize(substance.ContainerWidth),
		Height:      m.props.Normalize(m.height),
		Gravity:     m.gravity,
		Exploded:    m.exploded,
		LidVelocity: lidVelocity,
		SetPoint:    m.setPoint,
	}
}

func (m *Model) SetPlaying(playing bool) { m.playing = playing }
func (m *Model) Playing() bool           { return m.playing }

// SetHeatingCooling sets the heater input, clamped to [-1, 1].
func (m *Model) SetHeatingCooling(amount float64) {
	m.heatingCooling = clamp(amount, -1, 1)
}

func (m *Model) HeatingCooling() float64 { return m.heatingCooling }

// SetTargetContainerHeight moves the lid target, in picometers. It has no
// effect while the container is exploded.
func (m *Model) SetTargetContainerHeight(pm float64) {
	if m.exploded {
		return
	}
	m.targetHeight = clamp(pm, substance.ContainerMinHeight, substance.ContainerInitialHeight)
}

// SetGravity sets the gravitational acceleration; positive values are
// clamped to zero.
func (m *Model) SetGravity(g float64) {
	if g > 0 {
		g = 0
	}
	m.gravity = g
}

// SetEpsilon sets the well depth, in Kelvin, of the adjustable substance. It
// is remembered for later selections of that substance.
func (m *Model) SetEpsilon(kelvin float64) {
	m.epsilon = clamp(kelvin, substance.MinAdjustableEpsilon, substance.MaxAdjustableEpsilon)
	if m.substance != substance.Adjustable {
		return
	}
	if mono, ok := m.in.(*integrators.Monatomic); ok {
		mono.SetEpsilon(m.epsilon * substance.AdjustableEpsilonScale)
	}
	base, _ := substance.Lookup(substance.Adjustable)
	m.props = base.ScaleForEpsilon(m.epsilon)
}

// SetTemperature moves the set point directly, in model units.
func (m *Model) SetTemperature(t float64) {
	m.setPoint = clamp(t, substance.MinTemperature, substance.MaxTemperature)
	m.isokinetic.SetTargetTemperature(m.setPoint)
	m.andersen.SetTargetTemperature(m.setPoint)
}

// Reset restores the default controls and rebuilds the current substance.
func (m *Model) Reset() error {
	m.heatingCooling = 0
	m.gravity = DefaultGravity
	m.epsilon = substance.AdjustableEpsilon
	m.exploded = false
	m.height = substance.ContainerInitialHeight
	m.targetHeight = substance.ContainerInitialHeight
	m.lidVelocity = 0
	m.time = 0
	m.playing = true
	m.in.ResetPressure()
	m.pressure = 0
	return m.SetSubstance(m.substance)
}

func (m *Model) Substance() substance.Substance { return m.substance }
func (m *Model) Properties() substance.Properties { return m.props }
func (m *Model) DataSet() *dataset.DataSet      { return m.ds }
func (m *Model) Time() float64                  { return m.time }
func (m *Model) Exploded() bool                 { return m.exploded }
func (m *Model) ContainerHeight() float64       { return m.height }
func (m *Model) TargetContainerHeight() float64 { return m.targetHeight }
func (m *Model) SetPoint() float64              { return m.setPoint }
func (m *Model) Gravity() float64               { return m.gravity }
func (m *Model) Epsilon() float64               { return m.epsilon }
func (m *Model) NumberOfMolecules() int         { return m.ds.NumberOfMolecules() }
func (m *Model) MaxMolecules() int              { return m.ds.MaxMolecules() }

// Temperature is the measured temperature in model units.
func (m *Model) Temperature() float64 { return m.temperature }

func (m *Model) TemperatureKelvin() float64 {
	if m.ds.NumberOfMolecules() == 0 {
		return m.props.ToKelvin(m.setPoint)
	}
	return m.props.ToKelvin(m.temperature)
}

func (m *Model) Pressure() float64    { return m.pressure }
func (m *Model) PressureAtm() float64 { return m.pressure * substance.PressureToAtmospheres }

func (m *Model) Phase() substance.Phase {
	return m.props.PhaseAt(m.temperature)
}

// ActiveThermostat names the thermostat used on the last sub-step.
func (m *Model) ActiveThermostat() string {
	switch m.active {
	case nil:
		return "none"
	case thermostat.Thermostat(m.isokinetic):
		return "isokinetic"
	default:
		return "andersen"
	}
}

// AtomPositions appends every atom position, in picometers, to dst.
func (m *Model) AtomPositions(dst []r2.Vec) []r2.Vec {
	d := m.props.ParticleDiameter
	for _, p := range m.ds.AtomPositions {
		dst = append(dst, r2.Scale(d, p))
	}
	return dst
}

func (m *Model) publish(t event.Type) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(m.stateEvent(t))
}

func (m *Model) stateEvent(t event.Type) *event.StateEvent {
	ev := event.NewStateEvent(t, m.time)
	ev.Substance = m.substance.String()
	ev.Phase = m.Phase().String()
	ev.Temperature = m.TemperatureKelvin()
	ev.Pressure = m.PressureAtm()
	ev.Height = m.height
	ev.Molecules = m.ds.NumberOfMolecules()
	ev.Exploded = m.exploded
	return ev
}

func (m *Model) String() string {
	return fmt.Sprintf("%s: %d molecules, %.1f K, %.2f atm", m.substance, m.ds.NumberOfMolecules(),
		m.TemperatureKelvin(), m.PressureAtm())
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
