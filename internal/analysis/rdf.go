package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// RDF is a binned pair correlation function. R holds bin centers.
type RDF struct {
	R []float64
	G []float64
}

// RadialDistribution computes the 2D g(r) of positions inside a
// width by height box. The box has hard walls, so no periodic images are
// counted.
func RadialDistribution(positions []r2.Vec, width, height, binWidth, maxR float64) RDF {
	bins := int(math.Ceil(maxR / binWidth))
	n := len(positions)
	if bins <= 0 || n < 2 || width <= 0 || height <= 0 {
		return RDF{}
	}

	counts := make([]float64, bins)
	maxR2 := maxR * maxR
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d2 := r2.Norm2(r2.Sub(positions[i], positions[j]))
			if d2 >= maxR2 {
				continue
			}
			b := int(math.Sqrt(d2) / binWidth)
			if b < bins {
				counts[b] += 2
			}
		}
	}

	rdf := RDF{R: make([]float64, bins), G: make([]float64, bins)}
	density := float64(n) / (width * height)
	for b := range counts {
		rdf.R[b] = (float64(b) + 0.5) * binWidth
		shell := 2 * math.Pi * rdf.R[b] * binWidth
		rdf.G[b] = counts[b] / (float64(n) * density * shell)
	}
	return rdf
}

// FirstPeak returns the radius of the highest g(r) bin.
func (r RDF) FirstPeak() float64 {
	if len(r.G) == 0 {
		return 0
	}
	return r.R[floats.MaxIdx(r.G)]
}

// MeanCoordination is the average number of neighbours closer than cutoff.
func MeanCoordination(positions []r2.Vec, cutoff float64) float64 {
	n := len(positions)
	if n == 0 {
		return 0
	}
	c2 := cutoff * cutoff
	pairs := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r2.Norm2(r2.Sub(positions[i], positions[j])) < c2 {
				pairs++
			}
		}
	}
	return 2 * float64(pairs) / float64(n)
}
