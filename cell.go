package purfectcast

// Pen carries the drawing attributes of a cell
type Pen struct {
	Foreground Color
	Background Color
	Inverse    bool // Reverse video (SGR 7): foreground and background swap when drawn
}

// HasBackground returns true if drawing the pen needs a background fill
func (p Pen) HasBackground() bool {
	return !p.Background.IsDefault() || p.Inverse
}

// Cell represents a single character cell of a snapshot
type Cell struct {
	Char rune
	Pen  Pen
}

// BlankCell returns a space with the default pen
func BlankCell() Cell {
	return Cell{Char: ' '}
}

// Frame is a full copy of the terminal grid at one instant.
// Frames are never modified after the replayer creates them.
type Frame struct {
	Time float64  // Seconds since session start
	Grid [][]Cell // Rows of cells
}

// IsEmpty returns true for the blank-canvas frame
func (f Frame) IsEmpty() bool {
	return len(f.Grid) == 0
}

// Text returns the characters of row y with trailing spaces removed.
// Rows outside the grid return "".
func (f Frame) Text(y int) string {
	if y < 0 || y >= len(f.Grid) {
		return ""
	}
	line := f.Grid[y]
	end := len(line)
	for end > 0 && line[end-1].Char == ' ' {
		end--
	}
	runes := make([]rune, end)
	for i := 0; i < end; i++ {
		runes[i] = line[i].Char
	}
	return string(runes)
}

// cloneGrid deep-copies rows of cells
func cloneGrid(grid [][]Cell) [][]Cell {
	out := make([][]Cell, len(grid))
	for y, line := range grid {
		out[y] = make([]Cell, len(line))
		copy(out[y], line)
	}
	return out
}
