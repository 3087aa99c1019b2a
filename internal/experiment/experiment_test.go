package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/somsim/internal/config"
	"github.com/san-kum/somsim/internal/event"
	"github.com/san-kum/somsim/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shortConfig(duration float64) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Duration = duration
	cfg.Seed = 7
	return cfg
}

func setup(t *testing.T, cfg *config.Config) *Experiment {
	t.Helper()
	e := New(cfg)
	require.NoError(t, e.Setup(nil))
	return e
}

func countEvents(records []Record, typ event.Type) int {
	n := 0
	for _, r := range records {
		if r.Type == typ {
			n++
		}
	}
	return n
}

type stepCounter struct{ n int }

func (c *stepCounter) OnStep(model.Snapshot) { c.n++ }

func TestRunNotSetup(t *testing.T) {
	e := New(shortConfig(1))
	_, err := e.Run(context.Background())
	assert.ErrorIs(t, err, ErrNotSetup)

	_, err = e.Advance(1.0 / 60)
	assert.ErrorIs(t, err, ErrNotSetup)
	assert.Equal(t, "experiment: not set up", err.Error())
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	cfg := shortConfig(1)
	cfg.FPS = 0
	err := New(cfg).Setup(nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRunCollectsSeries(t *testing.T) {
	e := setup(t, shortConfig(0.5))
	obs := &stepCounter{}
	e.AddObserver(obs)

	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, res.Frames)
	assert.Len(t, res.Snapshots, 31)
	assert.Equal(t, 30, obs.n)
	assert.InDelta(t, 0.5, e.Clock(), 1e-9)
	assert.InDelta(t, 0.5, res.Final().Time, 1e-9)
	assert.Equal(t, "neon", res.Final().Substance)

	for _, name := range []string{"mean_temperature_k", "peak_pressure_atm", "explosion_time"} {
		assert.Contains(t, res.Metrics, name)
	}

	m := e.Model()
	assert.Len(t, res.Positions, m.DataSet().NumberOfAtoms())
	assert.Equal(t, 1, countEvents(res.Events, event.SubstanceChanged))
}

func TestRunAppliesActions(t *testing.T) {
	cfg := shortConfig(1)
	cfg.Actions = []config.Action{
		{At: 0.5, Action: config.ActionLid, Value: 5000},
		{At: 0.1, Action: config.ActionHeat, Value: 0.4},
		{At: 0, Action: config.ActionInject, Value: 2},
		{At: 0.2, Action: config.ActionGravity, Value: -0.1},
	}
	e := setup(t, cfg)
	before := e.Model().NumberOfMolecules()

	res, err := e.Run(context.Background())
	require.NoError(t, err)

	m := e.Model()
	assert.Equal(t, 0.4, m.HeatingCooling())
	assert.Equal(t, 5000.0, m.TargetContainerHeight())
	assert.InDelta(t, -0.1, m.Gravity(), 1e-12)
	assert.Equal(t, before+2, m.NumberOfMolecules())
	assert.Equal(t, 2, countEvents(res.Events, event.MoleculeInjected))
}

func TestInjectionRequestsBeyondQueueCapacity(t *testing.T) {
	cfg := shortConfig(2)
	cfg.Actions = []config.Action{{At: 0, Action: config.ActionInject, Value: 5}}
	e := setup(t, cfg)
	before := e.Model().NumberOfMolecules()

	_, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before+5, e.Model().NumberOfMolecules())
	assert.Zero(t, e.Model().QueuedInjections())
}

func TestSubstanceAction(t *testing.T) {
	cfg := shortConfig(0.25)
	cfg.Actions = []config.Action{{At: 0.1, Action: config.ActionSubstance, Name: "argon"}}
	e := setup(t, cfg)

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "argon", res.Final().Substance)
	assert.Equal(t, 2, countEvents(res.Events, event.SubstanceChanged))
}

func TestUnknownActionFails(t *testing.T) {
	e := setup(t, shortConfig(0.25))
	e.actions = []config.Action{{At: 0, Action: "teleport"}}

	_, err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport")
}

func TestRunCancelled(t *testing.T) {
	e := setup(t, shortConfig(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, res)
	assert.Zero(t, res.Frames)
	assert.Len(t, res.Snapshots, 1)
}

func TestActionNames(t *testing.T) {
	names := ActionNames()
	assert.IsIncreasing(t, names)
	assert.ElementsMatch(t, []string{
		config.ActionInject, config.ActionHeat, config.ActionLid, config.ActionPhase,
		config.ActionReturnLid, config.ActionSubstance, config.ActionEpsilon, config.ActionGravity,
		config.ActionPressure,
	}, names)
}

func TestEnsembleSeeds(t *testing.T) {
	cfg := shortConfig(0.25)
	results, err := NewEnsemble(cfg, 3, 100, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, int64(100+i), res.Config.Seed)
		assert.Equal(t, 15, res.Frames)
	}
	assert.Equal(t, int64(7), cfg.Seed, "base config must not be modified")
}

func TestEnsembleDeterministic(t *testing.T) {
	cfg := shortConfig(0.25)
	cfg.Phase = "gas"
	a, err := NewEnsemble(cfg, 1, 5, nil).Run(context.Background())
	require.NoError(t, err)
	b, err := NewEnsemble(cfg, 1, 5, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a[0].Final().Temperature, b[0].Final().Temperature)
	assert.Equal(t, a[0].Positions, b[0].Positions)
}

func TestPressureRegulatorLowersLid(t *testing.T) {
	cfg := shortConfig(0.5)
	cfg.Phase = "gas"
	cfg.TargetPressure = 50
	e := setup(t, cfg)

	_, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Less(t, e.Model().TargetContainerHeight(), 10000.0)
}

func TestPressureActionTogglesRegulator(t *testing.T) {
	cfg := shortConfig(0.5)
	cfg.Actions = []config.Action{
		{At: 0, Action: config.ActionPressure, Value: 3},
		{At: 0.25, Action: config.ActionPressure, Value: 0},
	}
	e := setup(t, cfg)
	assert.Nil(t, e.lid)

	_, err := e.Advance(1.0 / 60)
	require.NoError(t, err)
	require.NotNil(t, e.lid)
	assert.Equal(t, 3.0, e.lid.Target())

	_, err = e.Run(context.Background())
	require.NoError(t, err)
	assert.Nil(t, e.lid)
}
