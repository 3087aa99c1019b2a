package model

import (
	"math"

	"github.com/san-kum/somsim/internal/event"
	"github.com/san-kum/somsim/internal/substance"
	"github.com/san-kum/somsim/internal/thermostat"
)

// Step advances the simulation by dt seconds of wall-clock time. Frames
// longer than MaxFrameDuration are dropped, as are all frames while paused.
func (m *Model) Step(dt float64) {
	if !m.playing {
		return
	}
	if dt > MaxFrameDuration || dt <= 0 {
		m.log.Debug("frame dropped", "dt", dt)
		return
	}
	m.stepInternal(dt)
}

// StepOnce advances by one nominal frame regardless of the play state.
func (m *Model) StepOnce() {
	m.stepInternal(NominalFrameStep)
}

func (m *Model) stepInternal(dt float64) {
	modelDt := dt * ParticleSpeedUp

	m.updateSetPoint(dt)
	lidVelocity := m.updateContainer(dt, modelDt)
	m.processInjectionQueue(dt)

	m.residual += modelDt
	n := int(m.residual / MaxSubstep)
	if n > MaxSubstepsPerDt {
		n = MaxSubstepsPerDt
		m.residual = 0
	} else {
		m.residual -= float64(n) * MaxSubstep
	}

	ctx := m.context(lidVelocity)
	for i := 0; i < n; i++ {
		m.in.UpdateForcesAndMotion(ctx, MaxSubstep)
		m.temperature = m.in.Temperature()
		m.regulate()
	}
	m.pressure = m.in.Pressure()
	m.time += dt

	if !m.exploded && m.in.ExplosionTriggered() {
		m.explode()
	}
	m.publish(event.Stepped)
}

// updateSetPoint applies the heater. Cooling slows geometrically once the set
// point falls below a fraction of the solid temperature so that absolute
// zero is approached rather than hit.
func (m *Model) updateSetPoint(dt float64) {
	if m.heatingCooling == 0 {
		return
	}
	change := m.heatingCooling * HeatingRate * dt
	threshold := SlowCoolingFactor * substance.SolidTemperature
	if change < 0 && m.setPoint < threshold {
		change *= m.setPoint / threshold
	}
	m.SetTemperature(m.setPoint + change)
}

// updateContainer moves the lid toward its target and returns the lid
// velocity in normalized units per model time.
func (m *Model) updateContainer(dt, modelDt float64) float64 {
	if m.exploded {
		limit := substance.ContainerInitialHeight * MaxExplodedHeightMul
		m.height = math.Min(m.height+ExplodedExpandRate*dt, limit)
		m.lidVelocity = 0
		return 0
	}

	diff := m.targetHeight - m.height
	if diff == 0 {
		m.lidVelocity = 0
		return 0
	}
	rate := LidExpandRate
	if diff < 0 {
		rate = LidShrinkRate
	}
	move := math.Copysign(math.Min(rate*dt, math.Abs(diff)), diff)
	m.height += move
	m.lidVelocity = move / dt
	return m.props.Normalize(move) / modelDt
}

// regulate runs the thermostat for one sub-step. After an injection or a lid
// push the set point follows the measured temperature instead, so the new
// kinetic energy is not immediately taken back out.
func (m *Model) regulate() {
	switch {
	case m.justInjected:
		m.justInjected = false
		m.SetTemperature(m.temperature)
		return
	case m.in.LidChangedParticleVelocity():
		m.lidAverage.add(m.temperature - m.setPoint)
		if m.lidAverage.full() {
			m.SetTemperature(m.setPoint + m.lidAverage.mean())
			m.lidAverage.clear()
		}
		return
	}

	// At absolute zero with the heater idle, Andersen runs with its freeze
	// damping.
	frozen := m.heatingCooling == 0 && m.setPoint <= substance.MinTemperature
	next := thermostat.Thermostat(m.andersen)
	if !frozen && (m.heatingCooling != 0 ||
		math.Abs(m.temperature-m.setPoint) > TemperatureCloseness*m.setPoint ||
		m.setPoint > AndersenCeiling*substance.LiquidTemperature) {
		next = m.isokinetic
	}
	if next != m.active {
		m.isokinetic.ClearAccumulatedBias()
		m.andersen.ClearAccumulatedBias()
		m.active = next
	}
	next.AdjustTemperature()
	m.temperature = m.ds.Temperature()
}

func (m *Model) explode() {
	m.exploded = true
	m.injectQueue = 0
	m.log.Info("container exploded", "pressure_atm", m.PressureAtm(), "time", m.time)
	m.publish(event.ContainerExploded)
}

// ReturnLid closes an exploded container: molecules that escaped are
// removed and the remainder is reset to a gas.
func (m *Model) ReturnLid() {
	if !m.exploded {
		return
	}
	m.height = substance.ContainerInitialHeight
	m.targetHeight = substance.ContainerInitialHeight
	top := m.props.Normalize(m.height)
	ds := m.ds
	removed := ds.RemoveIf(func(i int) bool {
		return !ds.InsideContainer[i] || ds.CenterOfMass[i].Y > top
	})
	m.upd.Update(ds)
	m.exploded = false
	m.in.ResetPressure()
	m.pressure = 0

	if ds.NumberOfMolecules() > 0 {
		m.SetPhase(substance.Gas)
	}
	m.log.Info("lid returned", "removed", removed, "remaining", ds.NumberOfMolecules())
	m.publish(event.LidReturned)
}

type movingAverage struct {
	values []float64
	n      int
	next   int
	count  int
}

func newMovingAverage(n int) movingAverage {
	return movingAverage{values: make([]float64, n), n: n}
}

func (a *movingAverage) add(v float64) {
	a.values[a.next] = v
	a.next = (a.next + 1) % a.n
	if a.count < a.n {
		a.count++
	}
}

func (a *movingAverage) full() bool { return a.count == a.n }

func (a *movingAverage) mean() float64 {
	if a.count == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < a.count; i++ {
		sum += a.values[i]
	}
	return sum / float64(a.count)
}

func (a *movingAverage) clear() {
	a.next = 0
	a.count = 0
}
