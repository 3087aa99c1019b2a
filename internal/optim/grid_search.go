// Package optim searches run parameters for the best value of a metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/somsim/internal/config"
	"github.com/san-kum/somsim/internal/experiment"
	"github.com/san-kum/somsim/internal/logging"
)

// Parameters a grid can range over.
const (
	ParamHeat           = "heat"
	ParamEpsilon        = "epsilon"
	ParamLid            = "lid"
	ParamGravity        = "gravity"
	ParamTargetPressure = "target_pressure"
)

var setters = map[string]func(*config.Config, float64){
	ParamHeat:           func(c *config.Config, v float64) { c.HeatingCooling = v },
	ParamEpsilon:        func(c *config.Config, v float64) { c.Epsilon = v },
	ParamLid:            func(c *config.Config, v float64) { c.TargetHeight = v },
	ParamGravity:        func(c *config.Config, v float64) { c.Gravity = v },
	ParamTargetPressure: func(c *config.Config, v float64) { c.TargetPressure = v },
}

func ParamNames() []string {
	names := make([]string, 0, len(setters))
	for n := range setters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RunFunc executes one configuration.
type RunFunc func(ctx context.Context, cfg *config.Config) (*experiment.Result, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Maximize flips the search from the smallest metric value to the
	// largest.
	Maximize bool
	Run      RunFunc
	Log      *logging.Logger
}

// Best is the winning point of a search.
type Best struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
	Failed    int
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	for i, p := range params {
		if _, ok := setters[p]; !ok {
			return nil, fmt.Errorf("optim: unknown param %q (available: %v)", p, ParamNames())
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", p)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, Run: runExperiment}, nil
}

// Search runs base once per grid point. Points whose config is invalid or
// whose run fails are counted and skipped; cancellation stops the search.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (Best, error) {
	best := Best{Value: math.Inf(1)}
	if g.Maximize {
		best.Value = math.Inf(-1)
	}
	log := g.Log
	if log == nil {
		log = logging.Nop()
	}

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, metricName, log, &best)
	if err != nil {
		return best, err
	}
	if best.Params == nil {
		return best, fmt.Errorf("optim: no grid point produced %s", metricName)
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	metricName string,
	log *logging.Logger,
	best *Best,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := *base
		for name, v := range current {
			setters[name](&cfg, v)
		}
		if err := cfg.Validate(); err != nil {
			log.Debug("grid point skipped", "params", current, "error", err)
			best.Failed++
			return nil
		}

		result, err := g.Run(ctx, &cfg)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		val, ok := 0.0, false
		if err == nil {
			val, ok = result.Metrics[metricName]
		}
		if !ok {
			log.Debug("grid point failed", "params", current, "error", err)
			best.Failed++
			return nil
		}

		best.Evaluated++
		log.Debug("grid point", "params", current, metricName, val)
		if g.better(val, best.Value) {
			best.Value = val
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, metricName, log, best); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) better(val, best float64) bool {
	if math.IsNaN(val) {
		return false
	}
	if g.Maximize {
		return val > best
	}
	return val < best
}

func runExperiment(ctx context.Context, cfg *config.Config) (*experiment.Result, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(nil); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}
