// Package event carries observable state changes out of the simulation.
package event

import "sync"

type Type string

const (
	SubstanceChanged  Type = "substance_changed"
	PhaseSet          Type = "phase_set"
	ContainerExploded Type = "container_exploded"
	LidReturned       Type = "lid_returned"
	MoleculeInjected  Type = "molecule_injected"
	InjectionRefused  Type = "injection_refused"
	Stepped           Type = "stepped"
)

type Event interface {
	GetType() Type
}

type BaseEvent struct {
	EventType Type
	Time      float64
}

func (e *BaseEvent) GetType() Type { return e.EventType }

// StateEvent carries the observable state after a step or transition.
type StateEvent struct {
	BaseEvent
	Substance   string
	Phase       string
	Temperature float64
	Pressure    float64
	Height      float64
	Molecules   int
	Exploded    bool
}

func NewStateEvent(t Type, time float64) *StateEvent {
	return &StateEvent{BaseEvent: BaseEvent{EventType: t, Time: time}}
}

type Handler func(Event)

type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Type][]Handler)}
}

func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// SubscribeAll registers h for every listed type.
func (b *Bus) SubscribeAll(h Handler, types ...Type) {
	for _, t := range types {
		b.Subscribe(t, h)
	}
}

// Publish calls every handler for e's type synchronously. A nil bus drops
// the event.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	handlers := b.handlers[e.GetType()]
	b.mu.RUnlock()
	for _, h := range handlers {
		h(e)
	}
}
