package experiment

import (
	"context"

	"github.com/san-kum/somsim/internal/config"
	"github.com/san-kum/somsim/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Ensemble repeats one config over consecutive seeds in parallel.
type Ensemble struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
	log       *logging.Logger
}

func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64, log *logging.Logger) *Ensemble {
	if log == nil {
		log = logging.Nop()
	}
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, log: log}
}

// Run returns the results in seed order. The first failing run cancels the
// rest.
func (en *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, en.numRuns)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < en.numRuns; i++ {
		idx := i
		g.Go(func() error {
			cfg := *en.cfg
			cfg.Seed = en.seedStart + int64(idx)
			cfg.Actions = append([]config.Action(nil), en.cfg.Actions...)

			e := New(&cfg)
			if err := e.Setup(en.log); err != nil {
				return err
			}
			res, err := e.Run(ctx)
			results[idx] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
