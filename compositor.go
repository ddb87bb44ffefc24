package purfectcast

import (
	"errors"
	"math"
)

// LineSpacing is the row height as a multiple of the font size
const LineSpacing = 1.3

// DefaultFontSize is the font size used when none is configured
const DefaultFontSize = 14.0

// layoutReferenceGlyph is measured to find the column width
const layoutReferenceGlyph = '0'

// Layout is the pixel geometry of a cell
type Layout struct {
	ColWidth  int     // Pixels per column
	RowHeight float64 // Pixels per row (fractional; rows are rounded)
}

// X returns the left pixel edge of column c
func (l Layout) X(c int) int {
	return c * l.ColWidth
}

// Y returns the top pixel edge of row r
func (l Layout) Y(r int) int {
	return int(math.Round(float64(r) * l.RowHeight))
}

// CanvasSize returns the pixel size that fits cols x rows cells exactly
func (l Layout) CanvasSize(cols, rows int) (width, height int) {
	return l.X(cols), l.Y(rows)
}

// MeasureLayout derives the cell geometry from the rasterizer's metrics
func MeasureLayout(r Rasterizer, fontSize float64) Layout {
	m, _ := r.Rasterize(layoutReferenceGlyph, fontSize)
	colWidth := int(math.Round(m.AdvanceWidth))

	// Ensure minimum values
	if colWidth < 1 {
		colWidth = int(fontSize * 6 / 10)
		if colWidth < 1 {
			colWidth = 1
		}
	}
	return Layout{
		ColWidth:  colWidth,
		RowHeight: fontSize * LineSpacing,
	}
}

// CompositorOptions configures a Compositor
type CompositorOptions struct {
	Theme      Theme      // Default: DefaultTheme()
	Rasterizer Rasterizer // Required
	FontSize   float64    // Default: DefaultFontSize
	Width      int        // Canvas width in pixels (required)
	Height     int        // Canvas height in pixels (required)
}

// Compositor draws frames into RGBA pixel buffers.
// Its configuration is fixed at construction; Render may be called from
// several goroutines as long as the rasterizer is safe for concurrent use.
type Compositor struct {
	theme      Theme
	rasterizer Rasterizer
	fontSize   float64
	width      int
	height     int
	layout     Layout
	background uint32
}

// NewCompositor creates a compositor and measures its layout once.
func NewCompositor(opts CompositorOptions) (*Compositor, error) {
	if opts.Rasterizer == nil {
		return nil, errors.New("compositor: rasterizer is required")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New("compositor: canvas width and height must be positive")
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme()
	}
	return &Compositor{
		theme:      opts.Theme,
		rasterizer: opts.Rasterizer,
		fontSize:   opts.FontSize,
		width:      opts.Width,
		height:     opts.Height,
		layout:     MeasureLayout(opts.Rasterizer, opts.FontSize),
		background: opts.Theme.Background.Pack(255),
	}, nil
}

// Layout returns the cell geometry
func (c *Compositor) Layout() Layout {
	return c.layout
}

// Size returns the canvas size in pixels
func (c *Compositor) Size() (width, height int) {
	return c.width, c.height
}

// Theme returns the compositor's theme
func (c *Compositor) Theme() Theme {
	return c.theme
}

// Render draws frame into a new width*height buffer
func (c *Compositor) Render(frame Frame) []uint32 {
	buf := make([]uint32, c.width*c.height)
	c.RenderInto(frame, buf)
	return buf
}

// RenderInto draws frame into buf in place. buf is never resized; pixels that
// fall outside the canvas or past len(buf) are skipped.
func (c *Compositor) RenderInto(frame Frame, buf []uint32) {
	for i := range buf {
		buf[i] = c.background
	}

	for row, line := range frame.Grid {
		for col, cell := range line {
			c.drawCell(buf, row, col, cell)
		}
	}
}

func (c *Compositor) drawCell(buf []uint32, row, col int, cell Cell) {
	pen := cell.Pen
	fg := c.theme.Resolve(pen.Foreground, true)
	bg := c.theme.Resolve(pen.Background, false)
	if pen.Inverse {
		fg, bg = bg, fg
	}

	top := c.layout.Y(row)
	left := c.layout.X(col)

	if pen.HasBackground() {
		c.fillRect(buf, left, top, c.layout.X(col+1), c.layout.Y(row+1), bg.Pack(255))
	}

	if cell.Char == ' ' {
		return
	}

	m, bitmap := c.rasterizer.Rasterize(cell.Char, c.fontSize)
	baseline := top + int(math.Floor(c.fontSize)) - m.Height - m.YMin
	for gy := 0; gy < m.Height; gy++ {
		for gx := 0; gx < m.Width; gx++ {
			i := gy*m.Width + gx
			if i >= len(bitmap) {
				return
			}
			x := left + gx + m.XMin
			y := baseline + gy
			c.setPixel(buf, x, y, Blend(fg, bg, bitmap[i]).Pack(255))
		}
	}
}

// fillRect fills [x0,x1) x [y0,y1), clipped to the canvas
func (c *Compositor) fillRect(buf []uint32, x0, y0, x1, y1 int, px uint32) {
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, c.width), min(y1, c.height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.setPixel(buf, x, y, px)
		}
	}
}

func (c *Compositor) setPixel(buf []uint32, x, y int, px uint32) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	i := y*c.width + x
	if i >= len(buf) {
		return
	}
	buf[i] = px
}

// Blend mixes fg over bg by coverage (0-255).
// Each term is truncated separately with a 256 denominator, so full coverage
// yields slightly less than fg (255 becomes 254).
func Blend(fg, bg RGB, coverage uint8) RGB {
	ratio := uint16(coverage)
	mix := func(b, f uint8) uint8 {
		return uint8(uint16(b)*(255-ratio)/256) + uint8(uint16(f)*ratio/256)
	}
	return RGB{
		R: mix(bg.R, fg.R),
		G: mix(bg.G, fg.G),
		B: mix(bg.B, fg.B),
	}
}
