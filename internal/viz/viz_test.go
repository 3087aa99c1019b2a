package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/somsim/internal/config"
	"github.com/san-kum/somsim/internal/experiment"
	"github.com/san-kum/somsim/internal/substance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvas(t *testing.T) {
	c := NewCanvas(3, 2)
	w, h := c.Size()
	assert.Equal(t, 6, w)
	assert.Equal(t, 8, h)

	c.Set(0, 0)
	c.Set(1, 3)
	c.Set(-1, 2)
	c.Set(6, 0)
	assert.True(t, c.IsSet(0, 0))
	assert.True(t, c.IsSet(1, 3))
	assert.False(t, c.IsSet(1, 0))
	assert.False(t, c.IsSet(6, 0))

	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []rune{0x2800 | 0x01 | 0x80, 0x2800, 0x2800}, []rune(lines[0]))

	c.Clear()
	assert.False(t, c.IsSet(0, 0))
}

func TestCanvasLines(t *testing.T) {
	c := NewCanvas(4, 2)
	c.HLine(5, 1, 2)
	c.VLine(7, 7, 0)
	for x := 1; x <= 5; x++ {
		assert.True(t, c.IsSet(x, 2), "x=%d", x)
	}
	for y := 0; y <= 7; y++ {
		assert.True(t, c.IsSet(7, y), "y=%d", y)
	}
	assert.False(t, c.IsSet(0, 2))
}

func TestGaugeSettles(t *testing.T) {
	g := NewGauge("temp", "K", 0, 100, 60)
	assert.Zero(t, g.Fraction())
	for i := 0; i < 600; i++ {
		g.Update(50)
	}
	assert.InDelta(t, 50, g.Value(), 0.5)
	assert.InDelta(t, 0.5, g.Fraction(), 0.01)

	for i := 0; i < 600; i++ {
		g.Update(400)
	}
	assert.Equal(t, 1.0, g.Fraction())
	assert.Contains(t, g.Render(10, Themes[0]), "temp")
}

func TestThemeByName(t *testing.T) {
	th, idx := ThemeByName("retro")
	assert.Equal(t, "retro", th.Name)
	assert.Equal(t, 1, idx)

	th, idx = ThemeByName("nope")
	assert.Equal(t, Themes[0].Name, th.Name)
	assert.Zero(t, idx)
	assert.Len(t, ThemeNames(), len(Themes))
}

func newLive(t *testing.T) *Live {
	t.Helper()
	cfg := config.DefaultConfig()
	e := experiment.New(cfg)
	require.NoError(t, e.Setup(nil))
	return NewLive(e, "lab")
}

func press(l *Live, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := l.Update(msg)
	return cmd
}

func TestLiveKeys(t *testing.T) {
	l := newLive(t)
	m := l.exp.Model()

	press(l, " ")
	assert.False(t, m.Playing())
	press(l, " ")
	assert.True(t, m.Playing())

	press(l, "+")
	press(l, "+")
	assert.Equal(t, 0.5, m.HeatingCooling())
	press(l, "0")
	assert.Zero(t, m.HeatingCooling())

	press(l, "i")
	assert.Equal(t, 1, m.QueuedInjections())

	press(l, "g")
	assert.Zero(t, m.Gravity())

	press(l, "t")
	assert.Equal(t, 1, l.theme)

	press(l, "tab")
	assert.Equal(t, substance.All()[1], m.Substance())
}

func TestLiveQuit(t *testing.T) {
	l := newLive(t)
	cmd := press(l, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestLiveTickAdvances(t *testing.T) {
	l := newLive(t)
	for i := 0; i < 5; i++ {
		_, cmd := l.Update(TickMsg{})
		assert.NotNil(t, cmd)
	}
	assert.InDelta(t, 5.0/60, l.exp.Model().Time(), 1e-9)
	assert.Len(t, l.temps, 5)

	press(l, " ")
	l.Update(TickMsg{})
	assert.InDelta(t, 5.0/60, l.exp.Model().Time(), 1e-9)
}

func TestLiveView(t *testing.T) {
	l := newLive(t)
	l.Update(TickMsg{})
	l.Update(TickMsg{})

	view := l.View()
	assert.Contains(t, view, "NEON")
	assert.Contains(t, view, "Molecules")
	assert.Contains(t, view, "pressure")

	press(l, "?")
	assert.Contains(t, l.View(), "return lid")
}
