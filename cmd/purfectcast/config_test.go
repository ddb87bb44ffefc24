package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	pc "github.com/phroun/purfectcast"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func uintPtr(v uint) *uint { return &v }

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "purfectcast.toml", `
[canvas]
width = 800
height = 600

[font]
path = "/fonts/mono.ttf"
size = 18

[theme]
background = "#000000"
palette = ["#010203"]

[cut]
first_marker = 1
start_immediately = true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Canvas.Width != 800 || cfg.Canvas.Height != 600 {
		t.Errorf("canvas = %+v, want 800x600", cfg.Canvas)
	}
	if cfg.Font.Path != "/fonts/mono.ttf" || cfg.Font.Size != 18 {
		t.Errorf("font = %+v", cfg.Font)
	}
	if cfg.Theme.Background != "#000000" || len(cfg.Theme.Palette) != 1 {
		t.Errorf("theme = %+v", cfg.Theme)
	}
	if cfg.Cut.FirstMarker == nil || *cfg.Cut.FirstMarker != 1 {
		t.Errorf("cut first marker = %v, want 1", cfg.Cut.FirstMarker)
	}
	if cfg.Cut.LastMarker != nil {
		t.Errorf("cut last marker = %v, want nil", *cfg.Cut.LastMarker)
	}
	if !cfg.Cut.StartImmediately {
		t.Error("expected start_immediately")
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Canvas != (CanvasConfig{}) || cfg.Font != (FontConfig{}) || cfg.Theme.Palette != nil {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[canvas\nwidth = 1"},
		{"unknown key", "[canvas]\ndepth = 3"},
		{"wrong type", "[font]\nsize = \"big\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeFile(t, "bad.toml", tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadTheme(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "theme.toml", "background = \"#102030\"\nforeground = \"#ffffff\"\npalette = [\"#ff0000\"]\n"},
		{"yaml", "theme.yaml", "background: \"#102030\"\nforeground: \"#ffffff\"\npalette:\n  - \"#ff0000\"\n"},
		{"yml", "theme.YML", "background: '#102030'\nforeground: '#fff'\npalette: ['#f00']\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadTheme(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatal(err)
			}
			theme, err := cfg.Resolve(pc.DefaultTheme())
			if err != nil {
				t.Fatal(err)
			}
			if want := (pc.RGB{R: 0x10, G: 0x20, B: 0x30}); theme.Background != want {
				t.Errorf("background = %v, want %v", theme.Background, want)
			}
			if want := (pc.RGB{R: 255, G: 255, B: 255}); theme.Foreground != want {
				t.Errorf("foreground = %v, want %v", theme.Foreground, want)
			}
			if want := (pc.RGB{R: 255}); theme.Palette[0] != want {
				t.Errorf("palette[0] = %v, want %v", theme.Palette[0], want)
			}
			if theme.Palette[1] != pc.DefaultTheme().Palette[1] {
				t.Errorf("palette[1] = %v, want default", theme.Palette[1])
			}
		})
	}
}

func TestThemeResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		theme ThemeConfig
	}{
		{"bad background", ThemeConfig{Background: "black"}},
		{"bad foreground", ThemeConfig{Foreground: "#12"}},
		{"bad palette", ThemeConfig{Palette: []string{"", "#zzzzzz"}}},
		{"palette too long", ThemeConfig{Palette: make([]string, 17)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.theme.Resolve(pc.DefaultTheme()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestThemeMerge(t *testing.T) {
	base := ThemeConfig{Background: "#000000", Foreground: "#111111", Palette: []string{"#010101", "#020202"}}
	got := base.Merge(ThemeConfig{Foreground: "#222222", Palette: []string{"", "#030303", "#040404"}})

	want := ThemeConfig{Background: "#000000", Foreground: "#222222", Palette: []string{"#010101", "#030303", "#040404"}}
	if got.Background != want.Background || got.Foreground != want.Foreground {
		t.Errorf("Merge() = %+v, want %+v", got, want)
	}
	if len(got.Palette) != len(want.Palette) {
		t.Fatalf("palette = %v, want %v", got.Palette, want.Palette)
	}
	for i := range want.Palette {
		if got.Palette[i] != want.Palette[i] {
			t.Errorf("palette[%d] = %q, want %q", i, got.Palette[i], want.Palette[i])
		}
	}
	if base.Palette[1] != "#020202" {
		t.Error("Merge modified the receiver's palette")
	}
}

func TestResolveSettingsPrecedence(t *testing.T) {
	config := writeFile(t, "c.toml", `
[canvas]
width = 800
height = 600
[font]
size = 18
[theme]
background = "#000000"
foreground = "#111111"
[cut]
first_marker = 1
last_marker = 3
`)
	theme := writeFile(t, "t.yaml", "foreground: \"#222222\"\n")

	g := &Globals{Config: config, Theme: theme, Height: 300, LastMarker: uintPtr(2)}
	s, err := resolveSettings(g)
	if err != nil {
		t.Fatal(err)
	}
	if s.width != 800 || s.height != 300 {
		t.Errorf("canvas = %dx%d, want 800x300", s.width, s.height)
	}
	if s.fontSize != 18 {
		t.Errorf("font size = %v, want 18", s.fontSize)
	}
	if want := (pc.RGB{}); s.theme.Background != want {
		t.Errorf("background = %v, want %v", s.theme.Background, want)
	}
	if want := (pc.RGB{R: 0x22, G: 0x22, B: 0x22}); s.theme.Foreground != want {
		t.Errorf("foreground = %v, want %v", s.theme.Foreground, want)
	}
	if s.cut == nil || s.cut.FirstMarker == nil || *s.cut.FirstMarker != 1 {
		t.Fatalf("cut = %+v, want first marker 1", s.cut)
	}
	if s.cut.LastMarker == nil || *s.cut.LastMarker != 2 {
		t.Errorf("last marker = %v, want 2", s.cut.LastMarker)
	}
}

func TestResolveSettingsDefaults(t *testing.T) {
	s, err := resolveSettings(&Globals{})
	if err != nil {
		t.Fatal(err)
	}
	if s.fontSize != pc.DefaultFontSize {
		t.Errorf("font size = %v, want %v", s.fontSize, pc.DefaultFontSize)
	}
	if s.width != 0 || s.height != 0 {
		t.Errorf("canvas = %dx%d, want 0x0", s.width, s.height)
	}
	if s.theme != pc.DefaultTheme() {
		t.Errorf("theme = %+v, want default", s.theme)
	}
	if s.cut != nil {
		t.Errorf("cut = %+v, want nil", s.cut)
	}
}

func TestResolveCut(t *testing.T) {
	tests := []struct {
		name string
		cfg  CutConfig
		g    Globals
		want *pc.Cut
	}{
		{
			name: "none",
		},
		{
			name: "config only",
			cfg:  CutConfig{LastMarker: uintPtr(4)},
			want: &pc.Cut{LastMarker: uintPtr(4)},
		},
		{
			name: "json replaces config",
			cfg:  CutConfig{LastMarker: uintPtr(4)},
			g:    Globals{Cut: `{"first_marker": 0, "start_immediately": true}`},
			want: &pc.Cut{FirstMarker: uintPtr(0), StartImmediately: true},
		},
		{
			name: "flags override json fields",
			g:    Globals{Cut: `{"first_marker": 0, "last_marker": 5}`, FirstMarker: uintPtr(2)},
			want: &pc.Cut{FirstMarker: uintPtr(2), LastMarker: uintPtr(5)},
		},
		{
			name: "flag alone",
			g:    Globals{StartImmediately: true},
			want: &pc.Cut{StartImmediately: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveCut(tt.cfg, &tt.g)
			if err != nil {
				t.Fatal(err)
			}
			if !equalCut(got, tt.want) {
				t.Errorf("resolveCut() = %s, want %s", formatCut(got), formatCut(tt.want))
			}
		})
	}
}

func TestResolveCutMalformed(t *testing.T) {
	_, err := resolveCut(CutConfig{}, &Globals{Cut: `{"first": 1}`})
	if !errors.Is(err, pc.ErrMalformedCut) {
		t.Errorf("error = %v, want ErrMalformedCut", err)
	}
}

func equalCut(a, b *pc.Cut) bool {
	if a == nil || b == nil {
		return a == b
	}
	return equalMarker(a.FirstMarker, b.FirstMarker) &&
		equalMarker(a.LastMarker, b.LastMarker) &&
		a.StartImmediately == b.StartImmediately
}

func equalMarker(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func formatCut(c *pc.Cut) string {
	if c == nil {
		return "<nil>"
	}
	marker := func(m *uint) any {
		if m == nil {
			return "nil"
		}
		return *m
	}
	return fmt.Sprintf("{first:%v last:%v immediate:%v}", marker(c.FirstMarker), marker(c.LastMarker), c.StartImmediately)
}
