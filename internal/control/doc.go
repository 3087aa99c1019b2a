// Package control holds feedback controllers that drive the container from
// measured observables.
//
//   - [PID]: scalar Proportional-Integral-Derivative controller
//   - [LidRegulator]: moves the lid to hold a target pressure
//
// # Usage
//
//	reg := control.NewLidRegulator(2.0) // atm
//	height := reg.Update(m.PressureAtm(), m.TargetContainerHeight(), t)
//	m.SetTargetContainerHeight(height)
package control
