package purfectcast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Cut selects a contiguous range of marker-delimited groups.
//
// FirstMarker = k starts playback at the group created by marker k (groups
// 0..k are dropped). LastMarker = k ends playback at marker k (groups after
// index k are dropped). Nil means the start or end of the timeline.
type Cut struct {
	FirstMarker      *uint `json:"first_marker,omitempty"`
	LastMarker       *uint `json:"last_marker,omitempty"`
	StartImmediately bool  `json:"start_immediately"`
}

// ParseCut decodes a JSON cut configuration
func ParseCut(data []byte) (*Cut, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var c Cut
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCut, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformedCut)
	}
	return &c, nil
}

// Window is a windowed view over a timeline's groups
type Window struct {
	Groups   []FrameGroup
	Subtract float64 // Seconds removed from every timestamp
}

// Window applies cut to the timeline. A nil cut returns every group.
func (tl *Timeline) Window(cut *Cut) Window {
	if tl == nil {
		return Window{}
	}
	return ApplyCut(tl.Groups, cut)
}

// ApplyCut computes the effective groups and time offset for cut.
// Bounds outside [0, len(groups)] clamp to an empty window.
func ApplyCut(groups []FrameGroup, cut *Cut) Window {
	if cut == nil {
		return Window{Groups: groups}
	}

	start, end := 0, len(groups)
	if cut.FirstMarker != nil {
		start = markerBound(*cut.FirstMarker, len(groups))
	}
	if cut.LastMarker != nil {
		end = markerBound(*cut.LastMarker, len(groups))
	}
	var selected []FrameGroup
	if start >= 0 && end <= len(groups) && start <= end {
		selected = groups[start:end]
	}

	w := Window{Groups: selected}
	if cut.StartImmediately {
		w.Subtract = firstFrameTime(selected)
	} else if len(selected) > 0 {
		w.Subtract = selected[0].MarkerTime
	}
	return w
}

// markerBound returns marker+1, saturating just past n so huge indices stay
// out of range instead of wrapping.
func markerBound(marker uint, n int) int {
	if marker >= uint(n) {
		return n + 1
	}
	return int(marker) + 1
}

func firstFrameTime(groups []FrameGroup) float64 {
	for _, g := range groups {
		if len(g.Frames) > 0 {
			return g.Frames[0].Time
		}
	}
	return 0
}
