package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/somsim/internal/event"
	"github.com/san-kum/somsim/internal/experiment"
	"github.com/san-kum/somsim/internal/integrators"
	"github.com/san-kum/somsim/internal/model"
	"github.com/san-kum/somsim/internal/substance"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	canvasCols      = 40
	canvasRows      = 20
	framesPerSecond = 60
	historyCapacity = 300
	gaugeWidth      = 20

	heaterStep  = 0.25
	lidStep     = 500.0
	epsilonStep = 20.0
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/framesPerSecond, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Live is the interactive terminal view of a running experiment.
type Live struct {
	exp       *experiment.Experiment
	canvas    *Canvas
	theme     int
	styles    styles
	tempGauge *Gauge
	presGauge *Gauge
	temps     []float64
	pressures []float64
	positions []r2.Vec
	notice    string
	showHelp  bool
	err       error
}

// NewLive wraps an experiment that has already been set up.
func NewLive(exp *experiment.Experiment, themeName string) *Live {
	th, idx := ThemeByName(themeName)
	l := &Live{
		exp:       exp,
		canvas:    NewCanvas(canvasCols, canvasRows),
		theme:     idx,
		styles:    newStyles(th),
		presGauge: NewGauge("pressure", "atm", 0, integrators.ExplosionPressure*substance.PressureToAtmospheres, framesPerSecond),
		temps:     make([]float64, 0, historyCapacity),
		pressures: make([]float64, 0, historyCapacity),
	}
	l.resetGauges()
	if bus := exp.Bus(); bus != nil {
		bus.SubscribeAll(l.onEvent, event.ContainerExploded, event.LidReturned,
			event.InjectionRefused, event.SubstanceChanged)
	}
	l.draw()
	return l
}

func (l *Live) Init() tea.Cmd { return tick() }

func (l *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if quit := l.handleKey(msg.String()); quit {
			return l, tea.Quit
		}
		l.draw()
	case TickMsg:
		l.step()
		return l, tick()
	}
	return l, nil
}

// handleKey applies one key press and reports whether to quit.
func (l *Live) handleKey(key string) bool {
	m := l.exp.Model()
	switch key {
	case "q", "ctrl+c":
		return true
	case " ":
		m.SetPlaying(!m.Playing())
	case ".":
		m.StepOnce()
		l.record(m.Snapshot())
	case "+", "=":
		m.SetHeatingCooling(m.HeatingCooling() + heaterStep)
	case "-", "_":
		m.SetHeatingCooling(m.HeatingCooling() - heaterStep)
	case "0":
		m.SetHeatingCooling(0)
	case "up", "k":
		m.SetTargetContainerHeight(m.TargetContainerHeight() + lidStep)
	case "down", "j":
		m.SetTargetContainerHeight(m.TargetContainerHeight() - lidStep)
	case "i":
		m.InjectMolecule()
	case "r":
		m.ReturnLid()
	case "1":
		m.SetPhase(substance.Solid)
	case "2":
		m.SetPhase(substance.Liquid)
	case "3":
		m.SetPhase(substance.Gas)
	case "tab":
		l.nextSubstance()
	case "e":
		m.SetEpsilon(m.Epsilon() + epsilonStep)
	case "E":
		m.SetEpsilon(m.Epsilon() - epsilonStep)
	case "g":
		if m.Gravity() == 0 {
			m.SetGravity(model.DefaultGravity)
		} else {
			m.SetGravity(0)
		}
	case "t":
		l.theme = (l.theme + 1) % len(Themes)
		l.styles = newStyles(Themes[l.theme])
	case "?":
		l.showHelp = !l.showHelp
	}
	return false
}

func (l *Live) nextSubstance() {
	m := l.exp.Model()
	all := substance.All()
	next := all[0]
	for i, s := range all {
		if s == m.Substance() {
			next = all[(i+1)%len(all)]
			break
		}
	}
	if err := m.SetSubstance(next); err != nil {
		l.err = err
		return
	}
	l.temps, l.pressures = l.temps[:0], l.pressures[:0]
	l.resetGauges()
}

func (l *Live) resetGauges() {
	props := l.exp.Model().Properties()
	l.tempGauge = NewGauge("temp", "K", 0, props.ToKelvin(1.5*substance.GasTemperature), framesPerSecond)
	l.tempGauge.Update(l.exp.Model().TemperatureKelvin())
}

func (l *Live) step() {
	m := l.exp.Model()
	if m.Playing() {
		s, err := l.exp.Advance(1.0 / framesPerSecond)
		if err != nil {
			l.err = err
			m.SetPlaying(false)
		} else {
			l.record(s)
		}
	}
	l.tempGauge.Update(m.TemperatureKelvin())
	l.presGauge.Update(m.PressureAtm())
	l.draw()
}

func (l *Live) record(s model.Snapshot) {
	if len(l.temps) == historyCapacity {
		copy(l.temps, l.temps[1:])
		copy(l.pressures, l.pressures[1:])
		l.temps = l.temps[:historyCapacity-1]
		l.pressures = l.pressures[:historyCapacity-1]
	}
	l.temps = append(l.temps, s.TemperatureKelvin)
	l.pressures = append(l.pressures, s.PressureAtm)
}

func (l *Live) onEvent(ev event.Event) {
	switch ev.GetType() {
	case event.ContainerExploded:
		l.notice = "container exploded, press r to return the lid"
	case event.LidReturned:
		l.notice = "lid returned"
	case event.InjectionRefused:
		l.notice = "injection refused"
	case event.SubstanceChanged:
		l.notice = ""
	}
}

// draw renders the container and atoms. The view spans the initial
// container height, or more while an exploded container grows.
func (l *Live) draw() {
	m := l.exp.Model()
	l.canvas.Clear()
	w, h := l.canvas.Size()

	viewHeight := math.Max(substance.ContainerInitialHeight, m.ContainerHeight())
	sx := float64(w-1) / substance.ContainerWidth
	sy := float64(h-1) / viewHeight
	px := func(x float64) int { return int(x * sx) }
	py := func(y float64) int { return h - 1 - int(y*sy) }

	l.canvas.HLine(0, w-1, h-1)
	top := py(m.ContainerHeight())
	if m.Exploded() {
		top = py(substance.ContainerInitialHeight)
	} else {
		l.canvas.HLine(0, w-1, top)
	}
	l.canvas.VLine(0, top, h-1)
	l.canvas.VLine(w-1, top, h-1)

	l.positions = m.AtomPositions(l.positions[:0])
	for _, p := range l.positions {
		l.canvas.Set(px(p.X), py(p.Y))
	}
}

func (l *Live) View() string {
	m := l.exp.Model()
	st := l.styles
	th := Themes[l.theme]

	canvasView := st.canvas.Render(st.atoms.Render(l.canvas.String()))

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.Substance().String())) + "\n")
	status := "RUNNING"
	if !m.Playing() {
		status = "PAUSED"
	}
	if m.Exploded() {
		status = st.warn.Render("EXPLODED")
	}
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.Time()))
	row("Phase", m.Phase().String())
	row("Molecules", fmt.Sprintf("%d / %d", m.NumberOfMolecules(), m.MaxMolecules()))
	row("Heater", fmt.Sprintf("%+.2f", m.HeatingCooling()))
	row("Lid", fmt.Sprintf("%.0f pm", m.ContainerHeight()))
	row("Thermostat", m.ActiveThermostat())
	if m.Substance() == substance.Adjustable {
		row("Epsilon", fmt.Sprintf("%.0f K", m.Epsilon()))
	}
	s.WriteString("\n" + l.tempGauge.Render(gaugeWidth, th) + "\n")
	s.WriteString(l.presGauge.Render(gaugeWidth, th) + "\n")

	if len(l.temps) > 1 {
		chart := asciigraph.Plot(l.temps, asciigraph.Height(5), asciigraph.Width(34), asciigraph.Caption("Temperature (K)"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	if l.notice != "" {
		s.WriteString(st.warn.Render(l.notice) + "\n")
	}
	if l.err != nil {
		s.WriteString(st.warn.Render("error: "+l.err.Error()) + "\n")
	}
	s.WriteString(st.help.Render("SP:Pause +/-:Heat ↑↓:Lid I:Inject Q:Quit ?:Help"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))
	if l.showHelp {
		return helpText + "\n" + view
	}
	return view
}

const helpText = `
  Space  pause / resume       .      single step
  + / -  heat / cool          0      heater off
  Up/Dn  raise / lower lid    I      inject molecule
  R      return lid           1 2 3  solid / liquid / gas
  Tab    next substance       e / E  epsilon up / down
  G      toggle gravity       T      cycle theme
  Q      quit                 ?      toggle help
`
