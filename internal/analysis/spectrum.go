package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Spectrum struct {
	Frequencies []float64
	Power       []float64
}

// PowerSpectrum returns the one-sided power spectrum of data sampled at
// sampleRate. The mean is removed and a Hann window applied first.
func PowerSpectrum(data []float64, sampleRate float64) Spectrum {
	n := len(data)
	if n < 2 || sampleRate <= 0 {
		return Spectrum{}
	}

	x := make([]float64, n)
	copy(x, data)
	floats.AddConst(-stat.Mean(x, nil), x)
	window.Apply(x, window.Hann)

	coeffs := fft.FFTReal(x)
	half := n/2 + 1
	s := Spectrum{
		Frequencies: make([]float64, half),
		Power:       make([]float64, half),
	}
	for k := 0; k < half; k++ {
		s.Frequencies[k] = float64(k) * sampleRate / float64(n)
		a := cmplx.Abs(coeffs[k])
		s.Power[k] = a * a / float64(n)
	}
	return s
}

// DominantFrequency is the frequency of the strongest non-DC component, or 0
// when the spectrum is flat.
func (s Spectrum) DominantFrequency() float64 {
	if len(s.Power) < 2 {
		return 0
	}
	i := floats.MaxIdx(s.Power[1:]) + 1
	if s.Power[i] <= 1e-12 {
		return 0
	}
	return s.Frequencies[i]
}
