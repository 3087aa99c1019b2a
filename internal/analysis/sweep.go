package analysis

import (
	"context"

	"github.com/san-kum/somsim/internal/config"
	"github.com/san-kum/somsim/internal/experiment"
	"github.com/san-kum/somsim/internal/logging"
)

// SweepPoint is the equilibrium state reached at one set point.
type SweepPoint struct {
	SetPoint     float64
	TemperatureK float64
	PressureAtm  float64
	Phase        string
	Exploded     bool
}

// TemperatureSweep runs base once per set point, with the scheduled actions
// dropped, and averages the second half of every run. The points come back
// in the order of setPoints.
func TemperatureSweep(ctx context.Context, base *config.Config, setPoints []float64, log *logging.Logger) ([]SweepPoint, error) {
	points := make([]SweepPoint, 0, len(setPoints))
	for _, sp := range setPoints {
		cfg := *base
		cfg.Actions = nil

		e := experiment.New(&cfg)
		if err := e.Setup(log); err != nil {
			return nil, err
		}
		e.Model().SetTemperature(sp)

		res, err := e.Run(ctx)
		if err != nil {
			return points, err
		}
		tail := Summarize(Tail(res.Snapshots, 0.5))
		final := res.Final()
		points = append(points, SweepPoint{
			SetPoint:     sp,
			TemperatureK: tail.MeanTemperatureK,
			PressureAtm:  tail.MeanPressureAtm,
			Phase:        final.Phase,
			Exploded:     final.Exploded,
		})
	}
	return points, nil
}
