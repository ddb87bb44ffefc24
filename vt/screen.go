package vt

import (
	"github.com/mattn/go-runewidth"
	pc "github.com/phroun/purfectcast"
)

// tabWidth is the distance between default tab stops
const tabWidth = 8

// Screen is a fixed-size character grid with a cursor and a current pen.
// Unlike an interactive terminal buffer it keeps no scrollback: lines that
// scroll off the top are discarded.
type Screen struct {
	cols int
	rows int

	cells [][]pc.Cell
	dirty []bool // Rows touched since the last Feed

	cursorX int // May equal cols: the next printable character wraps first
	cursorY int

	// Current attributes (foreground before bold brightening)
	fg      pc.Color
	bg      pc.Color
	bold    bool
	inverse bool

	savedX     int
	savedY     int
	savedFg    pc.Color
	savedBg    pc.Color
	savedBold  bool
	savedInv   bool
	hasSaved   bool
	autoWrap   bool // DECAWM (mode 7), on by default
	scrollTop  int  // Scroll region, inclusive
	scrollBot  int
	altActive  bool
	mainCells  [][]pc.Cell // Primary screen while the alternate screen is shown
	mainCursor [2]int
}

// NewScreen creates a blank cols x rows screen
func NewScreen(cols, rows int) *Screen {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	s := &Screen{
		cols:      cols,
		rows:      rows,
		dirty:     make([]bool, rows),
		autoWrap:  true,
		scrollBot: rows - 1,
	}
	s.cells = s.blankGrid()
	return s
}

// Size returns the grid dimensions
func (s *Screen) Size() (cols, rows int) {
	return s.cols, s.rows
}

// Cursor returns the cursor position
func (s *Screen) Cursor() (x, y int) {
	return min(s.cursorX, s.cols-1), s.cursorY
}

// Cell returns the cell at x,y (a blank cell when out of range)
func (s *Screen) Cell(x, y int) pc.Cell {
	if y < 0 || y >= s.rows || x < 0 || x >= s.cols {
		return pc.BlankCell()
	}
	return s.cells[y][x]
}

func (s *Screen) blankGrid() [][]pc.Cell {
	grid := make([][]pc.Cell, s.rows)
	for y := range grid {
		grid[y] = s.blankLine(pc.BlankCell())
	}
	return grid
}

func (s *Screen) blankLine(fill pc.Cell) []pc.Cell {
	line := make([]pc.Cell, s.cols)
	for x := range line {
		line[x] = fill
	}
	return line
}

// pen returns the pen new characters are written with
func (s *Screen) pen() pc.Pen {
	fg := s.fg
	// Bold brightens the eight standard colors
	if s.bold && fg.Type == pc.ColorIndexed && fg.Index < 8 {
		fg = pc.IndexedColor(fg.Index + 8)
	}
	return pc.Pen{Foreground: fg, Background: s.bg, Inverse: s.inverse}
}

// eraseCell is the blank written by erase operations (current background)
func (s *Screen) eraseCell() pc.Cell {
	return pc.Cell{Char: ' ', Pen: pc.Pen{Background: s.bg}}
}

func (s *Screen) markDirty(y int) {
	if y >= 0 && y < s.rows {
		s.dirty[y] = true
	}
}

func (s *Screen) markAllDirty() {
	for y := range s.dirty {
		s.dirty[y] = true
	}
}

// --- Character Writing ---

// WriteChar writes a character at the cursor position
func (s *Screen) WriteChar(ch rune) {
	if s.cols == 0 || s.rows == 0 {
		return
	}
	width := runewidth.RuneWidth(ch)
	if width == 0 {
		// Combining marks and other zero-width runes have no cell of their own
		return
	}
	if width > s.cols {
		width = 1
	}

	// Handle line wrap (DECAWM mode 7)
	if s.cursorX+width > s.cols {
		if s.autoWrap {
			s.cursorX = 0
			s.lineFeed()
		} else {
			s.cursorX = s.cols - width
		}
	}

	pen := s.pen()
	line := s.cells[s.cursorY]
	line[s.cursorX] = pc.Cell{Char: ch, Pen: pen}
	if width == 2 {
		// Spacer cell for the right half of a wide character
		line[s.cursorX+1] = pc.Cell{Char: ' ', Pen: pen}
	}
	s.markDirty(s.cursorY)
	s.cursorX += width
}

// --- Line Navigation ---

// CarriageReturn moves the cursor to the beginning of the line
func (s *Screen) CarriageReturn() {
	s.cursorX = 0
}

// LineFeed moves the cursor down one line, scrolling at the region bottom
func (s *Screen) LineFeed() {
	s.lineFeed()
}

func (s *Screen) lineFeed() {
	if s.cursorY == s.scrollBot {
		s.scrollUp(1)
		return
	}
	if s.cursorY < s.rows-1 {
		s.cursorY++
	}
}

// ReverseIndex moves the cursor up one line, scrolling at the region top
func (s *Screen) ReverseIndex() {
	if s.cursorY == s.scrollTop {
		s.scrollDown(1)
		return
	}
	if s.cursorY > 0 {
		s.cursorY--
	}
}

// Tab moves the cursor to the next tab stop
func (s *Screen) Tab() {
	s.cursorX = ((s.cursorX / tabWidth) + 1) * tabWidth
	if s.cursorX >= s.cols {
		s.cursorX = s.cols - 1
	}
}

// Backspace moves the cursor left one position
func (s *Screen) Backspace() {
	if s.cursorX >= s.cols {
		s.cursorX = s.cols - 1
	}
	if s.cursorX > 0 {
		s.cursorX--
	}
}

// --- Cursor Movement ---

// SetCursor moves the cursor to x,y, clamped to the screen
func (s *Screen) SetCursor(x, y int) {
	s.cursorX = clamp(x, 0, s.cols-1)
	s.cursorY = clamp(y, 0, s.rows-1)
}

// MoveCursorUp moves the cursor up n rows, stopping at the region top
func (s *Screen) MoveCursorUp(n int) {
	top := 0
	if s.cursorY >= s.scrollTop {
		top = s.scrollTop
	}
	s.cursorY = max(s.cursorY-n, top)
	s.cursorX = min(s.cursorX, s.cols-1)
}

// MoveCursorDown moves the cursor down n rows, stopping at the region bottom
func (s *Screen) MoveCursorDown(n int) {
	bottom := s.rows - 1
	if s.cursorY <= s.scrollBot {
		bottom = s.scrollBot
	}
	s.cursorY = min(s.cursorY+n, bottom)
	s.cursorX = min(s.cursorX, s.cols-1)
}

// MoveCursorForward moves the cursor right n columns
func (s *Screen) MoveCursorForward(n int) {
	s.cursorX = min(s.cursorX+n, s.cols-1)
}

// MoveCursorBackward moves the cursor left n columns
func (s *Screen) MoveCursorBackward(n int) {
	s.cursorX = max(min(s.cursorX, s.cols-1)-n, 0)
}

// SaveCursor saves the cursor position and attributes (DECSC)
func (s *Screen) SaveCursor() {
	s.savedX, s.savedY = s.cursorX, s.cursorY
	s.savedFg, s.savedBg = s.fg, s.bg
	s.savedBold, s.savedInv = s.bold, s.inverse
	s.hasSaved = true
}

// RestoreCursor restores the state saved by SaveCursor (DECRC)
func (s *Screen) RestoreCursor() {
	if !s.hasSaved {
		s.SetCursor(0, 0)
		return
	}
	s.cursorX = clamp(s.savedX, 0, s.cols)
	s.cursorY = clamp(s.savedY, 0, s.rows-1)
	s.fg, s.bg = s.savedFg, s.savedBg
	s.bold, s.inverse = s.savedBold, s.savedInv
}

// SetScrollRegion sets the scroll region (DECSTBM); rows are 0-indexed and
// inclusive. An invalid region resets to the full screen. The cursor homes.
func (s *Screen) SetScrollRegion(top, bottom int) {
	if top < 0 || bottom >= s.rows || top >= bottom {
		top, bottom = 0, s.rows-1
	}
	s.scrollTop, s.scrollBot = top, bottom
	s.SetCursor(0, 0)
}

// --- Attributes ---

// ResetAttributes resets the pen to defaults (SGR 0)
func (s *Screen) ResetAttributes() {
	s.fg = pc.DefaultColor
	s.bg = pc.DefaultColor
	s.bold = false
	s.inverse = false
}

// SetForeground sets the current foreground color
func (s *Screen) SetForeground(c pc.Color) {
	s.fg = c
}

// SetBackground sets the current background color
func (s *Screen) SetBackground(c pc.Color) {
	s.bg = c
}

// SetBold sets the bold attribute
func (s *Screen) SetBold(bold bool) {
	s.bold = bold
}

// SetInverse sets reverse video
func (s *Screen) SetInverse(inverse bool) {
	s.inverse = inverse
}

// SetAutoWrap sets DECAWM
func (s *Screen) SetAutoWrap(enabled bool) {
	s.autoWrap = enabled
}

// --- Screen Scrolling ---

// ScrollUp scrolls the scroll region up by n lines
func (s *Screen) ScrollUp(n int) {
	s.scrollUp(n)
}

func (s *Screen) scrollUp(n int) {
	s.shiftRegion(s.scrollTop, s.scrollBot, n)
}

// ScrollDown scrolls the scroll region down by n lines
func (s *Screen) ScrollDown(n int) {
	s.scrollDown(n)
}

func (s *Screen) scrollDown(n int) {
	s.shiftRegion(s.scrollTop, s.scrollBot, -n)
}

// shiftRegion moves rows top..bottom up by n (down when n < 0), filling the
// vacated rows with blanks in the current background.
func (s *Screen) shiftRegion(top, bottom, n int) {
	if s.rows == 0 || top > bottom || n == 0 {
		return
	}
	height := bottom - top + 1
	if n > height {
		n = height
	} else if n < -height {
		n = -height
	}
	region := s.cells[top : bottom+1]
	if n > 0 {
		copy(region, region[n:])
		for i := height - n; i < height; i++ {
			region[i] = s.blankLine(s.eraseCell())
		}
	} else {
		n = -n
		copy(region[n:], region[:height-n])
		for i := 0; i < n; i++ {
			region[i] = s.blankLine(s.eraseCell())
		}
	}
	for y := top; y <= bottom; y++ {
		s.markDirty(y)
	}
}

// --- Screen Clearing ---

// ClearScreen clears the entire screen
func (s *Screen) ClearScreen() {
	for y := 0; y < s.rows; y++ {
		s.cells[y] = s.blankLine(s.eraseCell())
	}
	s.markAllDirty()
}

// ClearToEndOfLine clears from the cursor to the end of the line
func (s *Screen) ClearToEndOfLine() {
	s.eraseRange(s.cursorY, s.cursorX, s.cols)
}

// ClearToStartOfLine clears from the start of the line through the cursor
func (s *Screen) ClearToStartOfLine() {
	s.eraseRange(s.cursorY, 0, s.cursorX+1)
}

// ClearLine clears the current line
func (s *Screen) ClearLine() {
	s.eraseRange(s.cursorY, 0, s.cols)
}

// ClearToEndOfScreen clears from the cursor to the end of the screen
func (s *Screen) ClearToEndOfScreen() {
	s.ClearToEndOfLine()
	for y := s.cursorY + 1; y < s.rows; y++ {
		s.eraseRange(y, 0, s.cols)
	}
}

// ClearToStartOfScreen clears from the start of the screen through the cursor
func (s *Screen) ClearToStartOfScreen() {
	for y := 0; y < s.cursorY; y++ {
		s.eraseRange(y, 0, s.cols)
	}
	s.ClearToStartOfLine()
}

// eraseRange blanks columns [from, to) of row y
func (s *Screen) eraseRange(y, from, to int) {
	if y < 0 || y >= s.rows {
		return
	}
	from, to = max(from, 0), min(to, s.cols)
	fill := s.eraseCell()
	line := s.cells[y]
	for x := from; x < to; x++ {
		line[x] = fill
	}
	s.markDirty(y)
}

// --- Line Insert/Delete ---

// InsertLines inserts n blank lines at the cursor row (inside the region)
func (s *Screen) InsertLines(n int) {
	if s.cursorY < s.scrollTop || s.cursorY > s.scrollBot {
		return
	}
	s.shiftRegion(s.cursorY, s.scrollBot, -n)
	s.cursorX = 0
}

// DeleteLines deletes n lines at the cursor row (inside the region)
func (s *Screen) DeleteLines(n int) {
	if s.cursorY < s.scrollTop || s.cursorY > s.scrollBot {
		return
	}
	s.shiftRegion(s.cursorY, s.scrollBot, n)
	s.cursorX = 0
}

// --- Character Insert/Delete ---

// DeleteChars deletes n characters at the cursor, shifting the rest left
func (s *Screen) DeleteChars(n int) {
	x := min(s.cursorX, s.cols-1)
	if x < 0 || s.cursorY >= s.rows {
		return
	}
	line := s.cells[s.cursorY]
	n = min(n, s.cols-x)
	copy(line[x:], line[x+n:])
	fill := s.eraseCell()
	for i := s.cols - n; i < s.cols; i++ {
		line[i] = fill
	}
	s.markDirty(s.cursorY)
}

// InsertChars inserts n blank characters at the cursor, shifting the rest right
func (s *Screen) InsertChars(n int) {
	x := min(s.cursorX, s.cols-1)
	if x < 0 || s.cursorY >= s.rows {
		return
	}
	line := s.cells[s.cursorY]
	n = min(n, s.cols-x)
	copy(line[x+n:], line[x:s.cols-n])
	fill := s.eraseCell()
	for i := x; i < x+n; i++ {
		line[i] = fill
	}
	s.markDirty(s.cursorY)
}

// EraseChars replaces n characters at the cursor with blanks
func (s *Screen) EraseChars(n int) {
	x := min(s.cursorX, s.cols-1)
	s.eraseRange(s.cursorY, x, x+n)
}

// --- Modes ---

// SetAlternateScreen switches to (or back from) the alternate screen.
// The primary screen and cursor are restored on exit.
func (s *Screen) SetAlternateScreen(on bool) {
	if on == s.altActive {
		return
	}
	if on {
		s.mainCells = s.cells
		s.mainCursor = [2]int{s.cursorX, s.cursorY}
		s.cells = s.blankGrid()
	} else {
		s.cells = s.mainCells
		s.mainCells = nil
		s.cursorX, s.cursorY = s.mainCursor[0], s.mainCursor[1]
	}
	s.altActive = on
	s.markAllDirty()
}

// Reset returns the screen to its initial state (RIS)
func (s *Screen) Reset() {
	s.ResetAttributes()
	s.altActive = false
	s.mainCells = nil
	s.autoWrap = true
	s.hasSaved = false
	s.scrollTop, s.scrollBot = 0, s.rows-1
	s.cells = s.blankGrid()
	s.cursorX, s.cursorY = 0, 0
	s.markAllDirty()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
