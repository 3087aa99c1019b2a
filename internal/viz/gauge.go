package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

const (
	gaugeFrequency = 6.0
	gaugeDamping   = 0.8
)

// Gauge is a horizontal bar whose needle follows its target on a damped
// spring, so per-frame noise in temperature and pressure reads smoothly.
type Gauge struct {
	Label    string
	Unit     string
	Min, Max float64

	spring harmonica.Spring
	pos    float64
	vel    float64
}

func NewGauge(label, unit string, min, max float64, fps int) *Gauge {
	return &Gauge{
		Label:  label,
		Unit:   unit,
		Min:    min,
		Max:    max,
		spring: harmonica.NewSpring(harmonica.FPS(fps), gaugeFrequency, gaugeDamping),
		pos:    min,
	}
}

// Update advances the needle one frame toward target and returns its new
// position.
func (g *Gauge) Update(target float64) float64 {
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, target)
	return g.pos
}

func (g *Gauge) Value() float64 { return g.pos }

// Fraction is the needle position within [Min, Max], clamped to [0, 1].
func (g *Gauge) Fraction() float64 {
	if g.Max <= g.Min {
		return 0
	}
	f := (g.pos - g.Min) / (g.Max - g.Min)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

func (g *Gauge) Render(width int, th Theme) string {
	filled := int(g.Fraction()*float64(width) + 0.5)
	color := th.Cold
	if g.Fraction() > 0.66 {
		color = th.Hot
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(th.Muted).Render(strings.Repeat("░", width-filled))
	label := lipgloss.NewStyle().Foreground(th.Muted).Width(8).Render(g.Label)
	return fmt.Sprintf("%s%s %.1f %s", label, bar, g.pos, g.Unit)
}
