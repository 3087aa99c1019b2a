// Package viz draws a running experiment in the terminal with Bubble Tea.
//
// The container and its atoms are drawn on a Braille [Canvas]; temperature
// and pressure are shown on spring-smoothed [Gauge] bars and a rolling
// temperature chart. Key bindings mirror the controls of the model: the
// heater, the lid, the pump, the phase buttons and the substance selector.
// Press ? for the full list.
package viz
