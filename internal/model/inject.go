package model

import (
	"math"

	"github.com/san-kum/somsim/internal/event"
	"github.com/san-kum/somsim/internal/integrators"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	MaxQueuedInjections = 3
	InjectionHoldoff    = 0.25
	InjectedSpeed       = 2.0
	InjectionSpread     = math.Pi / 4

	// Injection point, normalized, measured from the right wall and the
	// floor.
	injectionInset  = 1.5
	injectionHeight = 1.0
)

// InjectMolecule queues one molecule for injection through the pump. It
// reports false when the request was refused because the container is
// exploded, full, or the queue is already at capacity.
func (m *Model) InjectMolecule() bool {
	if m.exploded || m.injectQueue >= MaxQueuedInjections ||
		m.ds.RemainingSlots()-m.injectQueue <= 0 {
		m.log.Debug("injection refused", "queued", m.injectQueue,
			"molecules", m.ds.NumberOfMolecules(), "exploded", m.exploded)
		m.publish(event.InjectionRefused)
		return false
	}
	m.injectQueue++
	return true
}

func (m *Model) QueuedInjections() int { return m.injectQueue }

func (m *Model) processInjectionQueue(dt float64) {
	if m.injectHoldoff > 0 {
		m.injectHoldoff -= dt
	}
	if m.injectQueue == 0 || m.injectHoldoff > 0 {
		return
	}
	m.injectQueue--
	m.injectHoldoff = InjectionHoldoff
	if m.exploded || m.ds.RemainingSlots() <= 0 {
		return
	}

	ctx := m.context(0)
	pos := r2.Vec{
		X: ctx.Width - integrators.WallOffset - injectionInset,
		Y: integrators.WallOffset + injectionHeight,
	}
	angle := math.Pi + (m.rng.Float64()-0.5)*InjectionSpread
	sin, cos := math.Sincos(angle)
	vel := r2.Vec{X: InjectedSpeed * cos, Y: InjectedSpeed * sin}

	if err := m.ds.AddMolecule(pos, vel, 0, true); err != nil {
		m.log.Warn("injection failed", "error", err)
		return
	}
	i := m.ds.NumberOfMolecules() - 1
	if m.ds.AtomsPerMolecule() > 1 {
		m.ds.RotationAngle[i] = 2 * math.Pi * m.rng.Float64()
	}
	m.upd.Update(m.ds)
	m.justInjected = true
	m.publish(event.MoleculeInjected)
}
