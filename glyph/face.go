// Package glyph rasterizes characters from a TrueType/OpenType font into
// coverage bitmaps for the compositor.
package glyph

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	pc "github.com/phroun/purfectcast"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// DefaultCacheSize is the number of glyphs kept per Rasterizer
const DefaultCacheSize = 4096

// Rasterizer renders glyphs of one font at any pixel size.
// It is safe for concurrent use.
type Rasterizer struct {
	font *opentype.Font

	mu    sync.Mutex
	buf   sfnt.Buffer
	faces map[float64]font.Face
	cache *glyphCache
}

// New parses font data (TTF, OTF or a collection's first face)
func New(data []byte) (*Rasterizer, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		coll, cerr := opentype.ParseCollection(data)
		if cerr != nil || coll.NumFonts() == 0 {
			return nil, fmt.Errorf("parse font: %w", err)
		}
		if f, err = coll.Font(0); err != nil {
			return nil, fmt.Errorf("parse font: %w", err)
		}
	}
	return &Rasterizer{
		font:  f,
		faces: make(map[float64]font.Face),
		cache: newGlyphCache(DefaultCacheSize),
	}, nil
}

// Open loads a font file
func Open(path string) (*Rasterizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open font: %w", err)
	}
	r, err := New(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Default returns a rasterizer for the embedded Go Mono font
func Default() *Rasterizer {
	r, err := New(gomono.TTF)
	if err != nil {
		panic(err)
	}
	return r
}

// Rasterize returns the metrics and coverage bitmap of ch at size pixels.
// A character the font lacks yields an empty bitmap (with the advance of the
// font's .notdef glyph).
func (r *Rasterizer) Rasterize(ch rune, size float64) (pc.GlyphMetrics, []byte) {
	if size <= 0 {
		return pc.GlyphMetrics{}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := cacheKey{ch: ch, size: size}
	if entry, ok := r.cache.get(key); ok {
		return entry.metrics, entry.coverage
	}

	face, err := r.face(size)
	if err != nil {
		return pc.GlyphMetrics{}, nil
	}
	m, coverage := rasterize(face, ch)
	if idx, err := r.font.GlyphIndex(&r.buf, ch); err != nil || idx == 0 {
		coverage = nil
		m.Width, m.Height, m.XMin, m.YMin = 0, 0, 0, 0
	}
	r.cache.put(key, m, coverage)
	return m, coverage
}

// face returns the cached face for size, creating it on first use
func (r *Rasterizer) face(size float64) (font.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72, // One point per pixel
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	r.faces[size] = f
	return f, nil
}

// Close releases the cached faces
func (r *Rasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for size, f := range r.faces {
		errs = append(errs, f.Close())
		delete(r.faces, size)
	}
	r.cache = newGlyphCache(DefaultCacheSize)
	return errors.Join(errs...)
}

func rasterize(face font.Face, ch rune) (pc.GlyphMetrics, []byte) {
	advance, _ := face.GlyphAdvance(ch)
	m := pc.GlyphMetrics{AdvanceWidth: fixedToFloat(advance)}

	dr, mask, maskp, _, ok := face.Glyph(fixed.Point26_6{}, ch)
	if !ok || dr.Empty() {
		return m, nil
	}

	m.Width = dr.Dx()
	m.Height = dr.Dy()
	m.XMin = dr.Min.X
	m.YMin = -dr.Max.Y // Bottom edge, positive above the baseline

	dst := image.NewAlpha(image.Rect(0, 0, m.Width, m.Height))
	draw.Draw(dst, dst.Bounds(), mask, maskp, draw.Src)
	return m, dst.Pix
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
