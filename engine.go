package purfectcast

// Engine is a terminal-state engine: it interprets raw output bytes and
// maintains a character grid.
type Engine interface {
	// Feed processes output and returns the rows whose visible content changed.
	Feed(data string) []int

	// Grid returns the current rows of cells. The replayer copies the result,
	// so implementations may return internal storage.
	Grid() [][]Cell
}

// EngineFactory creates an engine for a cols x rows terminal with no scrollback
type EngineFactory func(cols, rows int) Engine

// GlyphMetrics describes a rasterized glyph bitmap.
// XMin and YMin locate the bitmap's left and bottom edges relative to the
// pen position on the baseline; YMin is positive above the baseline.
type GlyphMetrics struct {
	Width        int
	Height       int
	XMin         int
	YMin         int
	AdvanceWidth float64
}

// Rasterizer turns a character into a coverage bitmap.
type Rasterizer interface {
	// Rasterize returns the glyph metrics and Width*Height coverage bytes,
	// row-major, 0 = transparent and 255 = opaque.
	Rasterize(ch rune, size float64) (GlyphMetrics, []byte)
}
