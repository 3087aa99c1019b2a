// Package experiment drives a model through a scripted run: it builds the
// model from a config, advances it frame by frame, applies the scheduled
// actions and collects the snapshot series and metrics.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/somsim/internal/config"
	"github.com/san-kum/somsim/internal/control"
	"github.com/san-kum/somsim/internal/event"
	"github.com/san-kum/somsim/internal/logging"
	"github.com/san-kum/somsim/internal/metrics"
	"github.com/san-kum/somsim/internal/model"
	"gonum.org/v1/gonum/spatial/r2"
)

var ErrNotSetup = errors.New("experiment: not set up")

type Observer interface {
	OnStep(s model.Snapshot)
}

// Record is one notable event seen on the bus during a run.
type Record struct {
	Time float64    `json:"time"`
	Type event.Type `json:"type"`
}

type Result struct {
	Config    *config.Config
	Snapshots []model.Snapshot
	Events    []Record
	Metrics   map[string]float64
	Frames    int
	// Positions holds the atom positions at the end of the run, in
	// picometers.
	Positions []r2.Vec
}

// Final returns the last snapshot, or the zero snapshot for an empty run.
func (r *Result) Final() model.Snapshot {
	if len(r.Snapshots) == 0 {
		return model.Snapshot{}
	}
	return r.Snapshots[len(r.Snapshots)-1]
}

type Experiment struct {
	cfg       *config.Config
	log       *logging.Logger
	bus       *event.Bus
	model     *model.Model
	metrics   []metrics.Metric
	observers []Observer
	lid       *control.LidRegulator

	actions []config.Action
	next    int
	pending int
	clock   float64
	events  []Record
}

func New(cfg *config.Config) *Experiment {
	actions := append([]config.Action(nil), cfg.Actions...)
	sort.SliceStable(actions, func(i, j int) bool { return actions[i].At < actions[j].At })
	return &Experiment{cfg: cfg, actions: actions}
}

// Setup builds the model described by the config and applies its initial
// settings. A nil logger discards output.
func (e *Experiment) Setup(log *logging.Logger) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	if log == nil {
		log = logging.Nop()
	}
	e.log = log.With("substance", e.cfg.Substance, "seed", e.cfg.Seed)
	e.next, e.pending, e.clock = 0, 0, 0
	e.events = nil
	e.bus = event.NewBus()
	e.bus.SubscribeAll(e.record,
		event.ContainerExploded, event.LidReturned, event.MoleculeInjected,
		event.InjectionRefused, event.PhaseSet, event.SubstanceChanged)

	m, err := model.New(model.Options{
		Substance: e.cfg.SubstanceValue(),
		Seed:      uint64(e.cfg.Seed),
		MaxAtoms:  e.cfg.MaxAtoms,
		Logger:    e.log,
		Bus:       e.bus,
	})
	if err != nil {
		return logging.WrapError(err, "build model")
	}
	m.SetGravity(e.cfg.Gravity)
	m.SetEpsilon(e.cfg.Epsilon)
	m.SetTargetContainerHeight(e.cfg.TargetHeight)
	m.SetPhase(e.cfg.PhaseValue())
	m.SetHeatingCooling(e.cfg.HeatingCooling)

	e.model = m
	e.metrics = metrics.Standard()
	e.lid = nil
	if e.cfg.TargetPressure > 0 {
		e.lid = control.NewLidRegulator(e.cfg.TargetPressure)
	}
	return nil
}

func (e *Experiment) AddObserver(o Observer)    { e.observers = append(e.observers, o) }
func (e *Experiment) AddMetric(m metrics.Metric) { e.metrics = append(e.metrics, m) }

// Model returns the model built by Setup, or nil.
func (e *Experiment) Model() *model.Model { return e.model }

func (e *Experiment) Config() *config.Config { return e.cfg }

// Bus returns the event bus the model publishes on, or nil before Setup.
func (e *Experiment) Bus() *event.Bus { return e.bus }

// Clock is the run time in wall seconds, which differs from the model time
// by the particle speed-up.
func (e *Experiment) Clock() float64 { return e.clock }

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.model == nil {
		return nil, ErrNotSetup
	}

	dt := 1 / e.cfg.FPS
	frames := int(math.Round(e.cfg.Duration * e.cfg.FPS))
	result := &Result{
		Config:    e.cfg,
		Snapshots: make([]model.Snapshot, 0, frames+1),
		Metrics:   make(map[string]float64),
	}
	for _, m := range e.metrics {
		m.Reset()
	}

	e.log.Info("run started", "frames", frames, "dt", dt)
	result.Snapshots = append(result.Snapshots, e.model.Snapshot())

	var runErr error
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		s, err := e.Advance(dt)
		if err != nil {
			runErr = err
			break
		}
		result.Snapshots = append(result.Snapshots, s)
		result.Frames++
	}

	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Events = append(result.Events, e.events...)
	result.Positions = e.model.AtomPositions(nil)

	if runErr != nil {
		e.log.Warn("run stopped early", "frames", result.Frames, "error", runErr)
		return result, runErr
	}
	e.log.Info("run finished", "frames", result.Frames,
		"temperature", e.model.TemperatureKelvin(), "pressure_atm", e.model.PressureAtm())
	return result, nil
}

// Advance applies the actions due at the current clock, steps the model by
// dt wall seconds and reports the resulting snapshot to metrics and
// observers.
func (e *Experiment) Advance(dt float64) (model.Snapshot, error) {
	if e.model == nil {
		return model.Snapshot{}, ErrNotSetup
	}
	for e.next < len(e.actions) && e.actions[e.next].At <= e.clock {
		a := e.actions[e.next]
		e.next++
		if err := e.apply(a); err != nil {
			return model.Snapshot{}, fmt.Errorf("action %q at %gs: %w", a.Action, a.At, err)
		}
	}
	e.drainInjections()

	e.model.Step(dt)
	e.clock += dt

	s := e.model.Snapshot()
	if math.IsNaN(s.Temperature) || math.IsInf(s.Temperature, 0) {
		return s, fmt.Errorf("invalid temperature at t=%.4f", s.Time)
	}
	if e.lid != nil && !s.Exploded && e.model.Playing() {
		e.model.SetTargetContainerHeight(e.lid.Update(s.PressureAtm, e.model.TargetContainerHeight(), e.clock))
	}
	for _, m := range e.metrics {
		m.Observe(s)
	}
	for _, o := range e.observers {
		o.OnStep(s)
	}
	return s, nil
}

// drainInjections moves requested molecules into the model's pump queue as
// it frees up. Requests that can never be honored are dropped.
func (e *Experiment) drainInjections() {
	m := e.model
	for e.pending > 0 {
		if m.Exploded() || m.NumberOfMolecules()+m.QueuedInjections() >= m.MaxMolecules() {
			e.log.Debug("dropping injection requests", "pending", e.pending)
			e.pending = 0
			return
		}
		if m.QueuedInjections() >= model.MaxQueuedInjections || !m.InjectMolecule() {
			return
		}
		e.pending--
	}
}

func (e *Experiment) record(ev event.Event) {
	e.events = append(e.events, Record{Time: e.clock, Type: ev.GetType()})
}
