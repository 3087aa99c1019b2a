package analysis

import (
	"github.com/san-kum/somsim/internal/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds averages over a snapshot series.
type Summary struct {
	Samples          int
	MeanTemperatureK float64
	StdTemperatureK  float64
	MeanPressureAtm  float64
	MaxPressureAtm   float64
	MeanMolecules    float64
	// PhaseFractions is the share of samples spent in each phase.
	PhaseFractions map[string]float64
	// ExplodedAt is the time of the first exploded sample, or -1.
	ExplodedAt float64
}

func Summarize(series []model.Snapshot) Summary {
	sum := Summary{Samples: len(series), PhaseFractions: map[string]float64{}, ExplodedAt: -1}
	if len(series) == 0 {
		return sum
	}

	temps := make([]float64, len(series))
	press := make([]float64, len(series))
	mols := make([]float64, len(series))
	for i, s := range series {
		temps[i] = s.TemperatureKelvin
		press[i] = s.PressureAtm
		mols[i] = float64(s.Molecules)
		sum.PhaseFractions[s.Phase]++
		if s.Exploded && sum.ExplodedAt < 0 {
			sum.ExplodedAt = s.Time
		}
	}
	for ph := range sum.PhaseFractions {
		sum.PhaseFractions[ph] /= float64(len(series))
	}

	sum.MeanTemperatureK, sum.StdTemperatureK = stat.MeanStdDev(temps, nil)
	if len(series) == 1 {
		sum.StdTemperatureK = 0
	}
	sum.MeanPressureAtm = stat.Mean(press, nil)
	sum.MaxPressureAtm = floats.Max(press)
	sum.MeanMolecules = stat.Mean(mols, nil)
	return sum
}

// Tail returns the last fraction of a series, at least one sample when the
// series is not empty.
func Tail(series []model.Snapshot, fraction float64) []model.Snapshot {
	n := int(float64(len(series)) * fraction)
	if n < 1 && len(series) > 0 {
		n = 1
	}
	if n > len(series) {
		n = len(series)
	}
	return series[len(series)-n:]
}

// Column extracts one value per snapshot.
func Column(series []model.Snapshot, f func(model.Snapshot) float64) []float64 {
	out := make([]float64, len(series))
	for i, s := range series {
		out[i] = f(s)
	}
	return out
}
