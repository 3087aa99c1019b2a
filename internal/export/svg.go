// Package export renders stored runs as SVG images.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/somsim/internal/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// Frame describes the container an atom configuration was taken from.
// Lengths are in picometers.
type Frame struct {
	Width    float64
	Height   float64
	Diameter float64
	Exploded bool
}

// ConfigurationSVG draws the container walls and one circle per atom,
// scaled so the container is pixelWidth wide.
func ConfigurationSVG(w io.Writer, positions []r2.Vec, f Frame, pixelWidth int) error {
	if f.Width <= 0 || f.Height <= 0 || pixelWidth <= 0 {
		return fmt.Errorf("export: empty frame %+v", f)
	}
	scale := float64(pixelWidth) / f.Width
	width := float64(pixelWidth)
	height := f.Height * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	wall := `<path fill="none" stroke="#888899" stroke-width="2" d="M0,0 L0,%.1f L%.1f,%.1f L%.1f,0`
	fmt.Fprintf(&sb, wall, height, width, height, width)
	if !f.Exploded {
		sb.WriteString(" Z")
	}
	sb.WriteString("\"/>\n<g fill=\"#00ccff\">\n")

	r := f.Diameter / 2 * scale
	for _, p := range positions {
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", p.X*scale, height-p.Y*scale, r)
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// PathSVG draws the pressure against temperature path of a series.
func PathSVG(w io.Writer, series []model.Snapshot, width, height int, strokeColor string) error {
	if len(series) < 2 {
		return fmt.Errorf("export: need at least two samples, got %d", len(series))
	}

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, s := range series {
		xs[i], ys[i] = s.TemperatureKelvin, s.PressureAtm
	}
	minX, maxX := padRange(floats.Min(xs), floats.Max(xs))
	minY, maxY := padRange(floats.Min(ys), floats.Max(ys))

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i := range xs {
		x := (xs[i] - minX) / (maxX - minX) * float64(width)
		y := float64(height) - (ys[i]-minY)/(maxY-minY)*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	sb.WriteString("\"/>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// padRange widens [lo, hi] by a tenth on each side and never returns an
// empty range.
func padRange(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span*0.1, hi + span*0.1
}
