package purfectcast

import "sort"

// FrameAt returns the frame visible at playback time t (seconds).
//
// The active group is the last one whose shifted marker time is strictly
// before t; within it the active frame is the last one whose shifted time is
// at or before t. When nothing qualifies the empty frame is returned.
func (w Window) FrameAt(t float64) Frame {
	gi := sort.Search(len(w.Groups), func(i int) bool {
		return w.Groups[i].MarkerTime-w.Subtract >= t
	}) - 1
	if gi < 0 {
		return Frame{}
	}

	frames := w.Groups[gi].Frames
	fi := sort.Search(len(frames), func(i int) bool {
		return frames[i].Time-w.Subtract > t
	}) - 1
	if fi < 0 {
		return Frame{}
	}
	return frames[fi]
}

// Duration returns the shifted time of the last frame in the window
func (w Window) Duration() float64 {
	for i := len(w.Groups) - 1; i >= 0; i-- {
		if frames := w.Groups[i].Frames; len(frames) > 0 {
			d := frames[len(frames)-1].Time - w.Subtract
			if d < 0 {
				return 0
			}
			return d
		}
	}
	return 0
}

// FrameCount returns the number of frames in the window
func (w Window) FrameCount() int {
	n := 0
	for _, g := range w.Groups {
		n += len(g.Frames)
	}
	return n
}
