package purfectcast

import (
	"math/rand/v2"
	"testing"
)

func frameAtTime(tm float64) Frame {
	return Frame{Time: tm, Grid: [][]Cell{{BlankCell()}}}
}

func TestFrameAtBoundaries(t *testing.T) {
	w := Window{Groups: []FrameGroup{
		{MarkerTime: 0, Frames: []Frame{frameAtTime(0), frameAtTime(1)}},
		{MarkerTime: 2, Frames: []Frame{frameAtTime(2), frameAtTime(3)}},
		{MarkerTime: 5, Frames: []Frame{frameAtTime(5.5)}},
	}}

	tests := []struct {
		t     float64
		want  float64
		blank bool
	}{
		{-1, 0, true},
		{0, 0, true}, // No group starts strictly before 0
		{0.5, 0, false},
		{1, 1, false},  // Frame boundary is inclusive
		{2, 1, false},  // Group boundary is exclusive
		{2.5, 2, false},
		{4.9, 3, false},
		{5.2, 0, true}, // Group 2 is active but its only frame is later
		{5.5, 5.5, false},
		{100, 5.5, false},
	}

	for _, tt := range tests {
		got := w.FrameAt(tt.t)
		if tt.blank {
			if !got.IsEmpty() {
				t.Errorf("FrameAt(%v) = frame at %v, want blank", tt.t, got.Time)
			}
			continue
		}
		if got.IsEmpty() || got.Time != tt.want {
			t.Errorf("FrameAt(%v) = frame at %v (empty=%v), want %v", tt.t, got.Time, got.IsEmpty(), tt.want)
		}
	}
}

func TestFrameAtSubtract(t *testing.T) {
	groups := []FrameGroup{
		{MarkerTime: 0},
		{MarkerTime: 4, Frames: []Frame{frameAtTime(5)}},
	}

	// start_immediately shifts the first frame to time zero
	w := ApplyCut(groups, &Cut{FirstMarker: uintPtr(0), StartImmediately: true})
	if got := w.FrameAt(0); got.IsEmpty() || got.Time != 5 {
		t.Errorf("immediate FrameAt(0) = %+v, want frame at 5", got)
	}

	// Otherwise playback starts at the marker and the idle gap remains
	w = ApplyCut(groups, &Cut{FirstMarker: uintPtr(0)})
	if got := w.FrameAt(0); !got.IsEmpty() {
		t.Errorf("FrameAt(0) = frame at %v, want blank", got.Time)
	}
	if got := w.FrameAt(0.5); !got.IsEmpty() {
		t.Errorf("FrameAt(0.5) = frame at %v, want blank", got.Time)
	}
	if got := w.FrameAt(1); got.IsEmpty() || got.Time != 5 {
		t.Errorf("FrameAt(1) = %+v, want frame at 5", got)
	}
}

// linearFrameAt is the straightforward backward scan FrameAt must agree with
func linearFrameAt(w Window, t float64) Frame {
	for gi := len(w.Groups) - 1; gi >= 0; gi-- {
		g := w.Groups[gi]
		if g.MarkerTime-w.Subtract < t {
			for fi := len(g.Frames) - 1; fi >= 0; fi-- {
				if g.Frames[fi].Time-w.Subtract <= t {
					return g.Frames[fi]
				}
			}
			return Frame{}
		}
	}
	return Frame{}
}

func TestFrameAtMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for round := 0; round < 50; round++ {
		// Times on a coarse grid so boundaries collide often
		var groups []FrameGroup
		now := 0.0
		numGroups := rng.IntN(6)
		for g := 0; g < numGroups; g++ {
			group := FrameGroup{MarkerTime: now}
			numFrames := rng.IntN(4)
			for f := 0; f < numFrames; f++ {
				now += float64(rng.IntN(3)) * 0.5
				group.Frames = append(group.Frames, frameAtTime(now))
			}
			groups = append(groups, group)
			now += float64(rng.IntN(3)) * 0.5
		}
		w := Window{Groups: groups, Subtract: float64(rng.IntN(3)) * 0.5}

		for tm := -1.0; tm <= now+1; tm += 0.25 {
			got, want := w.FrameAt(tm), linearFrameAt(w, tm)
			if got.Time != want.Time || got.IsEmpty() != want.IsEmpty() {
				t.Fatalf("round %d FrameAt(%v) = (%v, empty=%v), want (%v, empty=%v)",
					round, tm, got.Time, got.IsEmpty(), want.Time, want.IsEmpty())
			}
		}
	}
}

func TestWindowStats(t *testing.T) {
	w := ApplyCut(fourGroups(), &Cut{FirstMarker: uintPtr(0)})
	if got := w.FrameCount(); got != 3 {
		t.Errorf("FrameCount() = %d, want 3", got)
	}
	if got := w.Duration(); got != 2.5 {
		t.Errorf("Duration() = %v, want 2.5", got)
	}
	if got := (Window{}).Duration(); got != 0 {
		t.Errorf("empty Duration() = %v, want 0", got)
	}
}
