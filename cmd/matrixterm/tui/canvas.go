package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"matrixterm/internal/effects"
)

type cellStyle int

const (
	styleBlank cellStyle = iota
	styleText
	stylePrompt
	styleError
	styleCursor
	styleStatus
	styleRain // styleRain+n is rain level n
)

// A cell with r == 0 is the second half of the wide rune to its left.
type cell struct {
	r     rune
	style cellStyle
}

func (cl cell) continuation() bool { return cl.r == 0 }

// canvas is a fixed grid of styled cells. Rain is painted first and text
// overwrites it.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{r: ' ', style: styleBlank}
		}
		c.cells[y] = row
	}
	return c
}

// set writes r at (x, y) and returns the number of columns it occupies.
// A wide rune also claims the cell to its right; one that would not fit
// at the right edge is drawn as a blank.
func (c *canvas) set(x, y int, r rune, style cellStyle) int {
	w := runewidth.RuneWidth(r)
	if w < 1 {
		w = 1
	}
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return w
	}
	row := c.cells[y]
	c.split(row, x)
	if w == 2 {
		if x+1 >= c.w {
			row[x] = cell{r: ' ', style: style}
			return w
		}
		c.split(row, x+1)
		row[x] = cell{r: r, style: style}
		row[x+1] = cell{r: 0, style: style}
		return w
	}
	row[x] = cell{r: r, style: style}
	return w
}

// split blanks whatever half of a wide rune survives when the cell at x
// is overwritten.
func (c *canvas) split(row []cell, x int) {
	if row[x].continuation() && x > 0 {
		row[x-1] = cell{r: ' ', style: row[x-1].style}
	}
	if x+1 < len(row) && row[x+1].continuation() {
		row[x+1] = cell{r: ' ', style: row[x+1].style}
	}
}

// putText writes s starting at column x and returns the next column.
// Zero-width runes are dropped.
func (c *canvas) putText(x, y int, s string, style cellStyle) int {
	for _, r := range s {
		if r == '\t' {
			r = ' '
		}
		if runewidth.RuneWidth(r) == 0 {
			continue
		}
		x += c.set(x, y, r, style)
	}
	return x
}

// paintRain scales the engine's geometry onto the grid. The head of each
// drop (its last glyph) is drawn one level brighter.
func (c *canvas) paintRain(frame *effects.Frame, cfg effects.Config, levels int) {
	if frame == nil || c.w == 0 || c.h == 0 || cfg.Width <= 0 || cfg.Height <= 0 {
		return
	}
	for _, d := range frame.Drops {
		col := int(d.X / cfg.Width * float64(c.w))
		level := rainLevel(d.Intensity, cfg.MaxIntensity, frame.Opacity, levels)
		if level < 0 {
			continue
		}
		for i, g := range d.Glyphs {
			y := d.Y + float64(i)*cfg.GlyphHeight
			if y < 0 || y >= cfg.Height {
				continue
			}
			row := int(y / cfg.Height * float64(c.h))
			lv := level
			if i == len(d.Glyphs)-1 && lv < levels-1 {
				lv++
			}
			c.set(col, row, g, styleRain+cellStyle(lv))
		}
	}
}

// render joins rows, styling runs of equal style in one call.
func (c *canvas) render(st Styles) string {
	var b strings.Builder
	var run strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		cur := styleBlank
		for x, cl := range row {
			if cl.continuation() {
				continue
			}
			if x > 0 && cl.style != cur {
				b.WriteString(st.style(cur).Render(run.String()))
				run.Reset()
			}
			cur = cl.style
			run.WriteRune(cl.r)
		}
		if run.Len() > 0 {
			b.WriteString(st.style(cur).Render(run.String()))
			run.Reset()
		}
	}
	return b.String()
}

// plain returns the grid text without styling.
func (c *canvas) plain() string {
	lines := make([]string, len(c.cells))
	for y, row := range c.cells {
		rs := make([]rune, 0, len(row))
		for _, cl := range row {
			if !cl.continuation() {
				rs = append(rs, cl.r)
			}
		}
		lines[y] = string(rs)
	}
	return strings.Join(lines, "\n")
}
