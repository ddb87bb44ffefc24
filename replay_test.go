package purfectcast

import (
	"strings"
	"testing"
)

// lineEngine is a scripted engine: each Feed overwrites row 0 from column 0
// with the data and reports row 0 when its text changed.
type lineEngine struct {
	grid  [][]Cell
	feeds []string
}

func newLineEngine(cols, rows int) Engine {
	e := &lineEngine{grid: make([][]Cell, rows)}
	for y := range e.grid {
		e.grid[y] = make([]Cell, cols)
		for x := range e.grid[y] {
			e.grid[y][x] = BlankCell()
		}
	}
	return e
}

func (e *lineEngine) Feed(data string) []int {
	e.feeds = append(e.feeds, data)
	if len(e.grid) == 0 {
		return nil
	}
	changed := false
	for i, ch := range []rune(data) {
		if i >= len(e.grid[0]) {
			break
		}
		if e.grid[0][i].Char != ch {
			e.grid[0][i] = Cell{Char: ch}
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return []int{0}
}

func (e *lineEngine) Grid() [][]Cell {
	return e.grid
}

func buildTimeline(t *testing.T, input string) *Timeline {
	t.Helper()
	cast, err := ParseCast(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCast() error = %v", err)
	}
	return BuildTimeline(cast, newLineEngine)
}

func groupFrameCounts(groups []FrameGroup) []int {
	counts := make([]int, len(groups))
	for i, g := range groups {
		counts[i] = len(g.Frames)
	}
	return counts
}

func TestReplayerDedup(t *testing.T) {
	tl := buildTimeline(t, `{"width":5,"height":1}
[0.5,"o","ab"]
[0.6,"o","ab"]
[0.7,"o","cd"]
`)
	if len(tl.Groups) != 1 {
		t.Fatalf("len(Groups) = %d, want 1", len(tl.Groups))
	}
	frames := tl.Groups[0].Frames
	if len(frames) != 2 {
		t.Fatalf("len(Frames) = %d, want 2", len(frames))
	}
	if frames[0].Time != 0.5 || frames[1].Time != 0.7 {
		t.Errorf("frame times = %v, %v, want 0.5, 0.7", frames[0].Time, frames[1].Time)
	}
	if tl.EventCount != 3 || tl.FrameCount != 2 {
		t.Errorf("counts = %d events, %d frames, want 3, 2", tl.EventCount, tl.FrameCount)
	}
}

func TestReplayerSnapshotsAreCopies(t *testing.T) {
	tl := buildTimeline(t, `{"width":3,"height":1}
[0.1,"o","a"]
[0.2,"o","b"]
`)
	frames := tl.Groups[0].Frames
	if got := frames[0].Text(0); got != "a" {
		t.Errorf("frame 0 = %q, want %q", got, "a")
	}
	if got := frames[1].Text(0); got != "b" {
		t.Errorf("frame 1 = %q, want %q", got, "b")
	}
}

func TestReplayerGrouping(t *testing.T) {
	tests := []struct {
		name    string
		events  string
		counts  []int
		markers []float64
		labels  []string
	}{
		{
			name:    "no markers",
			events:  `[0.1,"o","a"]`,
			counts:  []int{1},
			markers: []float64{0},
			labels:  []string{""},
		},
		{
			name:    "empty leading group kept",
			events:  "[1.0,\"m\",\"start\"]\n[1.5,\"o\",\"a\"]",
			counts:  []int{0, 1},
			markers: []float64{0, 1.0},
			labels:  []string{"", "start"},
		},
		{
			name:    "empty trailing group dropped",
			events:  "[0.5,\"o\",\"a\"]\n[1.0,\"m\",\"end\"]",
			counts:  []int{1},
			markers: []float64{0},
			labels:  []string{""},
		},
		{
			name:    "trailing group of duplicates dropped",
			events:  "[0.5,\"o\",\"a\"]\n[1.0,\"m\",\"end\"]\n[1.5,\"o\",\"a\"]",
			counts:  []int{1},
			markers: []float64{0},
			labels:  []string{""},
		},
		{
			name:    "consecutive markers keep empty middle group",
			events:  "[0.5,\"o\",\"a\"]\n[1.0,\"m\",\"one\"]\n[2.0,\"m\",\"two\"]\n[2.5,\"o\",\"b\"]",
			counts:  []int{1, 0, 1},
			markers: []float64{0, 1.0, 2.0},
			labels:  []string{"", "one", "two"},
		},
		{
			name:    "only markers",
			events:  "[1.0,\"m\",\"a\"]\n[2.0,\"m\",\"b\"]",
			counts:  []int{0, 0},
			markers: []float64{0, 1.0},
			labels:  []string{"", "a"},
		},
		{
			name:    "no events",
			events:  "",
			counts:  []int{},
			markers: []float64{},
			labels:  []string{},
		},
		{
			name:    "unknown events ignored",
			events:  "[0.5,\"i\",\"x\"]\n[0.6,\"o\",\"a\"]\n[0.7,\"r\",\"80x24\"]",
			counts:  []int{1},
			markers: []float64{0},
			labels:  []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := buildTimeline(t, "{\"width\":4,\"height\":1}\n"+tt.events+"\n")
			counts := groupFrameCounts(tl.Groups)
			if len(counts) != len(tt.counts) {
				t.Fatalf("group frame counts = %v, want %v", counts, tt.counts)
			}
			for i := range counts {
				if counts[i] != tt.counts[i] {
					t.Errorf("group %d frames = %d, want %d", i, counts[i], tt.counts[i])
				}
				if tl.Groups[i].MarkerTime != tt.markers[i] {
					t.Errorf("group %d MarkerTime = %v, want %v", i, tl.Groups[i].MarkerTime, tt.markers[i])
				}
				if tl.Groups[i].Label != tt.labels[i] {
					t.Errorf("group %d Label = %q, want %q", i, tl.Groups[i].Label, tt.labels[i])
				}
			}
		})
	}
}

func TestReplayerFirstFeedWithoutChange(t *testing.T) {
	// A first feed that changes nothing records no frame
	tl := buildTimeline(t, `{"width":4,"height":1}
[0.1,"o",""]
[0.2,"o","a"]
`)
	frames := tl.Groups[0].Frames
	if len(frames) != 1 || frames[0].Time != 0.2 {
		t.Errorf("frames = %+v, want one frame at 0.2", frames)
	}
}

func TestBuildTimelineSizesEngine(t *testing.T) {
	cast := &Cast{Header: Header{Width: 7, Height: 3}}
	var cols, rows int
	BuildTimeline(cast, func(c, r int) Engine {
		cols, rows = c, r
		return newLineEngine(c, r)
	})
	if cols != 7 || rows != 3 {
		t.Errorf("engine size = %dx%d, want 7x3", cols, rows)
	}
}

func TestReplayerFeedsOnlyOutput(t *testing.T) {
	e := newLineEngine(4, 1).(*lineEngine)
	r := NewReplayer(e)
	r.Process(OutputEvent(0.1, "a"))
	r.Process(MarkerEvent(0.2, "m"))
	r.Process(UnknownEvent(0.3, "x"))
	r.Process(OutputEvent(0.4, "b"))
	r.Finish()

	if len(e.feeds) != 2 || e.feeds[0] != "a" || e.feeds[1] != "b" {
		t.Errorf("feeds = %q, want [a b]", e.feeds)
	}
}

func TestTimelineDuration(t *testing.T) {
	tl := buildTimeline(t, "{\"width\":4,\"height\":1}\n[0.5,\"o\",\"a\"]\n[3.25,\"o\",\"b\"]\n[4.0,\"m\",\"end\"]\n")
	if got := tl.Duration(); got != 3.25 {
		t.Errorf("Duration() = %v, want 3.25", got)
	}
	var empty *Timeline
	if got := empty.Duration(); got != 0 {
		t.Errorf("nil Duration() = %v, want 0", got)
	}
}
