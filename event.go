package purfectcast

// Header describes the recorded terminal. Only Width and Height affect
// rendering; the remaining asciicast v2 fields are carried when present.
type Header struct {
	Width     uint              `json:"width"`
	Height    uint              `json:"height"`
	Version   int               `json:"version,omitempty"`
	Timestamp int64             `json:"timestamp,omitempty"`
	Title     string            `json:"title,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

// EventKind discriminates the event variants
type EventKind uint8

const (
	EventUnknown EventKind = iota // Any other tag, kept for forward compatibility
	EventOutput                   // "o": raw terminal output
	EventMarker                   // "m": named cut point
)

// Event tags as they appear in the session file
const (
	TagOutput = "o"
	TagMarker = "m"
)

// Event is one line of the session log.
//
// Data holds the output bytes for EventOutput and the label for EventMarker.
// Tag holds the original tag for EventUnknown.
type Event struct {
	Kind EventKind
	Time float64 // Seconds since session start
	Data string
	Tag  string
}

// OutputEvent creates an output event
func OutputEvent(time float64, data string) Event {
	return Event{Kind: EventOutput, Time: time, Data: data, Tag: TagOutput}
}

// MarkerEvent creates a marker event
func MarkerEvent(time float64, label string) Event {
	return Event{Kind: EventMarker, Time: time, Data: label, Tag: TagMarker}
}

// UnknownEvent creates an event for an unrecognized tag
func UnknownEvent(time float64, tag string) Event {
	return Event{Kind: EventUnknown, Time: time, Tag: tag}
}

// Label returns the marker label (empty for other kinds)
func (e Event) Label() string {
	if e.Kind == EventMarker {
		return e.Data
	}
	return ""
}

func (k EventKind) String() string {
	switch k {
	case EventOutput:
		return "output"
	case EventMarker:
		return "marker"
	default:
		return "unknown"
	}
}
