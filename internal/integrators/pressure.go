package integrators

const (
	PressureWindowDuration = 12.0
	ExplosionPressure      = 41.0
	ExplosionSustainTime   = 1.0
)

type pressureSample struct {
	impulse, dt float64
}

// PressureWindow averages wall impulse over a sliding window of model time.
type PressureWindow struct {
	window  float64
	samples []pressureSample
	head    int
	sum     float64
	elapsed float64
}

func NewPressureWindow(window float64) *PressureWindow {
	return &PressureWindow{window: window, samples: make([]pressureSample, 0, 1024)}
}

func (p *PressureWindow) Record(impulse, dt float64) {
	p.samples = append(p.samples, pressureSample{impulse: impulse, dt: dt})
	p.sum += impulse
	p.elapsed += dt
	for p.head < len(p.samples)-1 && p.elapsed-p.samples[p.head].dt >= p.window {
		p.sum -= p.samples[p.head].impulse
		p.elapsed -= p.samples[p.head].dt
		p.head++
	}
	if p.head > cap(p.samples)/2 {
		n := copy(p.samples, p.samples[p.head:])
		p.samples = p.samples[:n]
		p.head = 0
	}
}

// Value is the accumulated impulse divided by the window length, never
// negative.
func (p *PressureWindow) Value() float64 {
	v := p.sum / p.window
	if v < 0 {
		return 0
	}
	return v
}

func (p *PressureWindow) Reset() {
	p.samples = p.samples[:0]
	p.head = 0
	p.sum = 0
	p.elapsed = 0
}

// ExplosionDetector trips once pressure has stayed above a threshold for a
// continuous stretch of model time.
type ExplosionDetector struct {
	threshold, sustain float64
	above              float64
	triggered          bool
}

func NewExplosionDetector(threshold, sustain float64) *ExplosionDetector {
	return &ExplosionDetector{threshold: threshold, sustain: sustain}
}

func (e *ExplosionDetector) Observe(pressure, dt float64) bool {
	if pressure > e.threshold {
		e.above += dt
	} else {
		e.above = 0
	}
	if e.above >= e.sustain {
		e.triggered = true
	}
	return e.triggered
}

func (e *ExplosionDetector) Triggered() bool { return e.triggered }

func (e *ExplosionDetector) Reset() {
	e.above = 0
	e.triggered = false
}
