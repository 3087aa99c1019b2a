// Package analysis characterizes finished runs.
//
// The package includes:
//
//   - [PowerSpectrum]: fluctuation spectrum of a sampled series
//   - [RadialDistribution]: pair correlation g(r) of a configuration
//   - [MeanCoordination]: average neighbour count within a cutoff
//   - [Summarize]: thermodynamic averages over a snapshot series
//   - [TemperatureSweep]: pressure against temperature over many runs
//   - [PathToASCII]: the pressure/temperature path of a run as text
//
// # Structure
//
// A solid shows sharp, periodic g(r) peaks; a liquid keeps only the first
// one or two; a gas is flat near one:
//
//	rdf := analysis.RadialDistribution(res.Positions, width, height, 20, 2000)
//	first := rdf.FirstPeak()
package analysis
