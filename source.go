package purfectcast

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// Source is the query surface a host uses: load a session, set a cut and
// render frames at arbitrary playback times.
//
// Loads build a complete timeline before publishing it, so a render that runs
// concurrently with a load sees either the old or the new timeline, never a
// partial one. A failed load keeps the previous timeline.
type Source struct {
	compositor *Compositor
	newEngine  EngineFactory
	logger     *slog.Logger

	timeline atomic.Pointer[Timeline]
	cut      atomic.Pointer[Cut]
}

// SourceOption configures a Source
type SourceOption func(*Source)

// WithLogger sets the logger used for load reporting
func WithLogger(logger *slog.Logger) SourceOption {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSource creates a source that replays sessions with engines from
// newEngine and draws them with compositor.
func NewSource(compositor *Compositor, newEngine EngineFactory, opts ...SourceOption) *Source {
	s := &Source{
		compositor: compositor,
		newEngine:  newEngine,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load parses and replays the session file at path and replaces the current
// timeline.
func (s *Source) Load(path string) error {
	start := time.Now()
	cast, err := ReadCastFile(path)
	if err != nil {
		s.logger.Warn("session load failed", "path", path, "error", err)
		return fmt.Errorf("load %s: %w", path, err)
	}
	s.publish(cast, path, start)
	return nil
}

// LoadFrom parses and replays a session read from r. name is only used for
// logging and error messages.
func (s *Source) LoadFrom(r io.Reader, name string) error {
	start := time.Now()
	cast, err := ParseCast(r)
	if err != nil {
		s.logger.Warn("session load failed", "path", name, "error", err)
		return fmt.Errorf("load %s: %w", name, err)
	}
	s.publish(cast, name, start)
	return nil
}

// LoadCast replays an already parsed session and replaces the current
// timeline.
func (s *Source) LoadCast(cast *Cast, name string) {
	s.publish(cast, name, time.Now())
}

func (s *Source) publish(cast *Cast, name string, start time.Time) {
	tl := BuildTimeline(cast, s.newEngine)
	s.timeline.Store(tl)
	s.logger.Info("session loaded",
		"path", name,
		"cols", tl.Header.Width,
		"rows", tl.Header.Height,
		"events", tl.EventCount,
		"frames", tl.FrameCount,
		"groups", len(tl.Groups),
		"elapsed", time.Since(start))
}

// SetCut parses a JSON cut configuration and applies it to later renders.
// On error the current cut is kept.
func (s *Source) SetCut(data []byte) error {
	cut, err := ParseCut(data)
	if err != nil {
		return err
	}
	s.SetCutValue(cut)
	return nil
}

// SetCutValue sets the cut directly; nil removes it.
func (s *Source) SetCutValue(cut *Cut) {
	if cut == nil {
		s.cut.Store(nil)
		return
	}
	c := *cut
	if cut.FirstMarker != nil {
		v := *cut.FirstMarker
		c.FirstMarker = &v
	}
	if cut.LastMarker != nil {
		v := *cut.LastMarker
		c.LastMarker = &v
	}
	s.cut.Store(&c)
}

// Cut returns the current cut (nil when none is set)
func (s *Source) Cut() *Cut {
	return s.cut.Load()
}

// Timeline returns the loaded timeline (nil before the first successful load)
func (s *Source) Timeline() *Timeline {
	return s.timeline.Load()
}

// Window returns the current timeline windowed by the current cut
func (s *Source) Window() Window {
	return s.timeline.Load().Window(s.cut.Load())
}

// FrameAt returns the frame visible at playback time t
func (s *Source) FrameAt(t float64) Frame {
	return s.Window().FrameAt(t)
}

// Render draws the frame visible at t into a new buffer. It never fails: with
// nothing loaded, or no matching frame, the buffer holds the theme background.
func (s *Source) Render(t float64) []uint32 {
	return s.compositor.Render(s.FrameAt(t))
}

// RenderInto draws the frame visible at t into a caller-owned buffer
func (s *Source) RenderInto(t float64, buf []uint32) {
	s.compositor.RenderInto(s.FrameAt(t), buf)
}

// Compositor returns the source's compositor
func (s *Source) Compositor() *Compositor {
	return s.compositor
}
