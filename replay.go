package purfectcast

// FrameGroup holds the frames produced between one marker (or the session
// start) and the next marker (or the session end).
type FrameGroup struct {
	MarkerTime float64
	Label      string // Marker label ("" for the leading group)
	Frames     []Frame
}

// Timeline is the read-only result of replaying a session
type Timeline struct {
	Header Header
	Groups []FrameGroup

	EventCount int
	FrameCount int
}

// Replayer drives an engine over a session's output events and records a
// frame whenever the visible content changes.
type Replayer struct {
	engine Engine
	groups []FrameGroup

	// Current (not yet pushed) group
	current FrameGroup

	events int
	frames int
}

// NewReplayer creates a replayer around a freshly sized engine
func NewReplayer(engine Engine) *Replayer {
	return &Replayer{engine: engine}
}

// Process handles one event
func (r *Replayer) Process(ev Event) {
	r.events++
	switch ev.Kind {
	case EventOutput:
		changed := r.engine.Feed(ev.Data)
		if len(changed) == 0 {
			// Visually identical to the previous frame
			return
		}
		r.current.Frames = append(r.current.Frames, Frame{
			Time: ev.Time,
			Grid: cloneGrid(r.engine.Grid()),
		})
		r.frames++
	case EventMarker:
		// Pushed even when empty so a leading segment keeps its index
		r.groups = append(r.groups, r.current)
		r.current = FrameGroup{MarkerTime: ev.Time, Label: ev.Data}
	case EventUnknown:
		// Never affects rendering
	}
}

// Finish returns the groups; a trailing group without frames is dropped.
func (r *Replayer) Finish() []FrameGroup {
	groups := r.groups
	if len(r.current.Frames) > 0 {
		groups = append(groups, r.current)
	}
	r.groups = nil
	r.current = FrameGroup{}
	return groups
}

// BuildTimeline replays all events of a cast through a new engine.
func BuildTimeline(cast *Cast, newEngine EngineFactory) *Timeline {
	r := NewReplayer(newEngine(int(cast.Header.Width), int(cast.Header.Height)))
	for _, ev := range cast.Events {
		r.Process(ev)
	}
	events, frames := r.events, r.frames
	return &Timeline{
		Header:     cast.Header,
		Groups:     r.Finish(),
		EventCount: events,
		FrameCount: frames,
	}
}

// Duration returns the time of the last frame (0 for an empty timeline)
func (tl *Timeline) Duration() float64 {
	if tl == nil {
		return 0
	}
	for i := len(tl.Groups) - 1; i >= 0; i-- {
		if frames := tl.Groups[i].Frames; len(frames) > 0 {
			return frames[len(frames)-1].Time
		}
	}
	return 0
}
