// Package vt is a headless VT100/xterm-style emulator used to replay
// recorded terminal output into character grids.
package vt

import (
	"slices"

	pc "github.com/phroun/purfectcast"
)

// Terminal pairs a Screen with its Parser and reports which rows each Feed
// actually changed.
type Terminal struct {
	screen *Screen
	parser *Parser

	// Row contents as of the end of the previous Feed
	prev [][]pc.Cell
}

// New creates a terminal with a cols x rows screen
func New(cols, rows int) *Terminal {
	s := NewScreen(cols, rows)
	t := &Terminal{
		screen: s,
		parser: NewParser(s),
	}
	t.prev = t.snapshot()
	return t
}

// NewEngine is an EngineFactory producing vt terminals
func NewEngine(cols, rows int) pc.Engine {
	return New(cols, rows)
}

// Screen returns the underlying screen
func (t *Terminal) Screen() *Screen {
	return t.screen
}

// Feed parses data and returns the indices of rows whose cells differ from
// before the call, in ascending order. Rows that were written but ended up
// unchanged are not reported.
func (t *Terminal) Feed(data string) []int {
	t.parser.ParseString(data)

	var changed []int
	s := t.screen
	for y := 0; y < s.rows; y++ {
		if !s.dirty[y] {
			continue
		}
		s.dirty[y] = false
		if slices.Equal(t.prev[y], s.cells[y]) {
			continue
		}
		copy(t.prev[y], s.cells[y])
		changed = append(changed, y)
	}
	return changed
}

// Grid returns the live rows of the screen
func (t *Terminal) Grid() [][]pc.Cell {
	return t.screen.cells
}

func (t *Terminal) snapshot() [][]pc.Cell {
	out := make([][]pc.Cell, len(t.screen.cells))
	for y, line := range t.screen.cells {
		out[y] = slices.Clone(line)
	}
	return out
}
