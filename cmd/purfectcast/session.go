package main

import (
	"fmt"
	"log/slog"

	pc "github.com/phroun/purfectcast"
	"github.com/phroun/purfectcast/glyph"
	"github.com/phroun/purfectcast/vt"
)

// session is a loaded source ready to render.
type session struct {
	path     string
	source   *pc.Source
	settings *settings
	font     *glyph.Rasterizer
}

// openSession resolves settings, parses the session file, sizes the canvas
// and loads the timeline.
func openSession(g *Globals, path string, logger *slog.Logger) (*session, error) {
	st, err := resolveSettings(g)
	if err != nil {
		return nil, err
	}
	cast, err := pc.ReadCastFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	font := glyph.Default()
	if st.fontPath != "" {
		if font, err = glyph.Open(st.fontPath); err != nil {
			return nil, err
		}
	}

	width, height := st.width, st.height
	if width == 0 || height == 0 {
		layout := pc.MeasureLayout(font, st.fontSize)
		w, h := layout.CanvasSize(int(cast.Header.Width), int(cast.Header.Height))
		if width == 0 {
			width = w
		}
		if height == 0 {
			height = h
		}
	}
	logger.Debug("canvas", "width", width, "height", height, "font_size", st.fontSize)

	compositor, err := pc.NewCompositor(pc.CompositorOptions{
		Theme:      st.theme,
		Rasterizer: font,
		FontSize:   st.fontSize,
		Width:      width,
		Height:     height,
	})
	if err != nil {
		font.Close()
		return nil, fmt.Errorf("session %s: %w", path, err)
	}

	src := pc.NewSource(compositor, vt.NewEngine, pc.WithLogger(logger))
	src.SetCutValue(st.cut)
	src.LoadCast(cast, path)
	return &session{path: path, source: src, settings: st, font: font}, nil
}

// Close releases the font faces.
func (s *session) Close() error {
	return s.font.Close()
}
