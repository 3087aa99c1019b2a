package viz

import "strings"

const (
	brailleBlank = 0x2800
	dotsX        = 2
	dotsY        = 4
)

// dot bit per sub-cell, indexed [row][col] inside a 2x4 Braille cell.
var dotBits = [dotsY][dotsX]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells addressed in dot coordinates, with the
// origin at the top left.
type Canvas struct {
	cols, rows int
	cells      []rune
}

func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{cols: cols, rows: rows, cells: make([]rune, cols*rows)}
	c.Clear()
	return c
}

// Size returns the drawable area in dots.
func (c *Canvas) Size() (w, h int) { return c.cols * dotsX, c.rows * dotsY }

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/dotsX, y/dotsY
	if col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row*c.cols+col] |= dotBits[y%dotsY][x%dotsX]
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/dotsX >= c.cols || y/dotsY >= c.rows {
		return false
	}
	return c.cells[(y/dotsY)*c.cols+x/dotsX]&dotBits[y%dotsY][x%dotsX] != 0
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBlank
	}
}

// HLine and VLine draw inclusive axis-aligned segments.
func (c *Canvas) HLine(x0, x1, y int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	for x := x0; x <= x1; x++ {
		c.Set(x, y)
	}
}

func (c *Canvas) VLine(x, y0, y1 int) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		c.Set(x, y)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(len(c.cells)*3 + c.rows)
	for r := 0; r < c.rows; r++ {
		b.WriteString(string(c.cells[r*c.cols : (r+1)*c.cols]))
		b.WriteByte('\n')
	}
	return b.String()
}
