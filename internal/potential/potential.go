// Package potential computes Lennard-Jones interaction terms for a pair of
// atoms described by a length scale sigma and a well depth epsilon.
//
// All functions are pure; the only state is the stored sigma/epsilon pair,
// which may be changed at any time. Callers are expected to floor distances
// before calling in; nothing here special-cases r == 0.
package potential

import "math"

// sixthRootOfTwo is the ratio of the zero-force distance to sigma.
var sixthRootOfTwo = math.Pow(2, 1.0/6.0)

type Calculator struct {
	Sigma   float64
	Epsilon float64
}

func New(sigma, epsilon float64) *Calculator {
	return &Calculator{Sigma: sigma, Epsilon: epsilon}
}

// Potential returns 4ε((σ/r)^12 − (σ/r)^6).
func (c *Calculator) Potential(r float64) float64 {
	sr6 := pow6(c.Sigma / r)
	return 4 * c.Epsilon * (sr6*sr6 - sr6)
}

// RepulsiveForce is the magnitude of the r^-13 term of −dV/dr.
func (c *Calculator) RepulsiveForce(r float64) float64 {
	s6 := pow6(c.Sigma)
	return 48 * c.Epsilon * s6 * s6 / math.Pow(r, 13)
}

// AttractiveForce is the magnitude of the r^-7 term of −dV/dr.
func (c *Calculator) AttractiveForce(r float64) float64 {
	return 24 * c.Epsilon * pow6(c.Sigma) / math.Pow(r, 7)
}

// Force returns the net radial force, positive when repulsive.
func (c *Calculator) Force(r float64) float64 {
	return c.RepulsiveForce(r) - c.AttractiveForce(r)
}

func (c *Calculator) MinimumForceDistance() float64 {
	return c.Sigma * sixthRootOfTwo
}

// ForceOverDistance returns F(r)/r given r². Multiplying it by a separation
// vector yields the force vector along that separation, which is how the
// integrators consume it.
func (c *Calculator) ForceOverDistance(r2 float64) float64 {
	s2 := c.Sigma * c.Sigma / r2
	s6 := s2 * s2 * s2
	return 48 * c.Epsilon / r2 * s6 * (s6 - 0.5)
}

// PotentialFromSquared is Potential expressed in r², avoiding a square root in
// the pair loops.
func (c *Calculator) PotentialFromSquared(r2 float64) float64 {
	s2 := c.Sigma * c.Sigma / r2
	s6 := s2 * s2 * s2
	return 4 * c.Epsilon * (s6*s6 - s6)
}

func pow6(x float64) float64 {
	x2 := x * x
	return x2 * x2 * x2
}

// MixSigma and MixEpsilon combine per-species parameters with the
// Lorentz-Berthelot rules.
func MixSigma(a, b float64) float64 {
	return 0.5 * (a + b)
}

func MixEpsilon(a, b float64) float64 {
	return math.Sqrt(a * b)
}
