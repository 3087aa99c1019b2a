package analysis

import (
	"strings"

	"github.com/san-kum/somsim/internal/model"
	"gonum.org/v1/gonum/floats"
)

// PathToASCII plots pressure (rows) against temperature (columns) for each
// snapshot. The final sample is marked with '@'.
func PathToASCII(series []model.Snapshot, width, height int) string {
	if len(series) == 0 || width < 2 || height < 2 {
		return ""
	}

	xs := Column(series, func(s model.Snapshot) float64 { return s.TemperatureKelvin })
	ys := Column(series, func(s model.Snapshot) float64 { return s.PressureAtm })
	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	plot := func(x, y float64, mark rune) {
		col := int((x - minX) / (maxX - minX) * float64(width-1))
		row := height - 1 - int((y-minY)/(maxY-minY)*float64(height-1))
		canvas[row][col] = mark
	}
	for i := range xs {
		plot(xs[i], ys[i], '•')
	}
	plot(xs[len(xs)-1], ys[len(ys)-1], '@')

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}
