package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/somsim/internal/config"
	"github.com/san-kum/somsim/internal/experiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRun scores a config by how far its heater and gravity are from
// (0.5, -0.1).
func fakeRun(ctx context.Context, cfg *config.Config) (*experiment.Result, error) {
	d := (cfg.HeatingCooling-0.5)*(cfg.HeatingCooling-0.5) + (cfg.Gravity+0.1)*(cfg.Gravity+0.1)
	return &experiment.Result{Config: cfg, Metrics: map[string]float64{"distance": d}}, nil
}

func TestNewGridSearchValidation(t *testing.T) {
	tests := []struct {
		name   string
		params []string
		ranges [][]float64
	}{
		{"length mismatch", []string{ParamHeat}, nil},
		{"unknown param", []string{"mass"}, [][]float64{{1}}},
		{"empty range", []string{ParamHeat}, [][]float64{{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGridSearch(tt.params, tt.ranges)
			assert.Error(t, err)
		})
	}
}

func TestSearchMinimize(t *testing.T) {
	g, err := NewGridSearch(
		[]string{ParamHeat, ParamGravity},
		[][]float64{{-0.5, 0, 0.5, 1}, {0, -0.1, -0.2}},
	)
	require.NoError(t, err)
	g.Run = fakeRun

	best, err := g.Search(context.Background(), config.DefaultConfig(), "distance")
	require.NoError(t, err)
	assert.Equal(t, 12, best.Evaluated)
	assert.Zero(t, best.Failed)
	assert.InDelta(t, 0, best.Value, 1e-12)
	assert.Equal(t, map[string]float64{ParamHeat: 0.5, ParamGravity: -0.1}, best.Params)
}

func TestSearchMaximize(t *testing.T) {
	g, err := NewGridSearch([]string{ParamHeat}, [][]float64{{-0.5, 0.5, 1}})
	require.NoError(t, err)
	g.Run = fakeRun
	g.Maximize = true

	best, err := g.Search(context.Background(), config.DefaultConfig(), "distance")
	require.NoError(t, err)
	assert.Equal(t, -0.5, best.Params[ParamHeat])
}

func TestSearchSkipsInvalidAndFailedPoints(t *testing.T) {
	g, err := NewGridSearch([]string{ParamHeat}, [][]float64{{2, 0.25, 0.75}})
	require.NoError(t, err)
	g.Run = func(ctx context.Context, cfg *config.Config) (*experiment.Result, error) {
		if cfg.HeatingCooling == 0.75 {
			return nil, errors.New("boom")
		}
		return fakeRun(ctx, cfg)
	}

	best, err := g.Search(context.Background(), config.DefaultConfig(), "distance")
	require.NoError(t, err)
	assert.Equal(t, 1, best.Evaluated)
	assert.Equal(t, 2, best.Failed)
	assert.Equal(t, 0.25, best.Params[ParamHeat])

	_, err = g.Search(context.Background(), config.DefaultConfig(), "missing")
	assert.Error(t, err)
}

func TestSearchCancelled(t *testing.T) {
	g, err := NewGridSearch([]string{ParamHeat}, [][]float64{{0, 0.5}})
	require.NoError(t, err)
	g.Run = fakeRun

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Search(ctx, config.DefaultConfig(), "distance")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchRunsExperiments(t *testing.T) {
	g, err := NewGridSearch([]string{ParamHeat}, [][]float64{{-1, 1}})
	require.NoError(t, err)
	g.Maximize = true

	base := config.DefaultConfig()
	base.Duration = 0.5
	best, err := g.Search(context.Background(), base, "mean_temperature_k")
	require.NoError(t, err)
	assert.Equal(t, 2, best.Evaluated)
	assert.Contains(t, []float64{-1, 1}, best.Params[ParamHeat])
	assert.Greater(t, best.Value, 0.0)
}

func TestParamNames(t *testing.T) {
	assert.Equal(t, []string{"epsilon", "gravity", "heat", "lid", "target_pressure"}, ParamNames())
}
