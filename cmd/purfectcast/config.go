package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	pc "github.com/phroun/purfectcast"
	"gopkg.in/yaml.v3"
)

// Config is the file configuration. Flags override it.
type Config struct {
	Canvas CanvasConfig `toml:"canvas"`
	Font   FontConfig   `toml:"font"`
	Theme  ThemeConfig  `toml:"theme"`
	Cut    CutConfig    `toml:"cut"`
}

// CanvasConfig sets the output size. Zero fits the session grid.
type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// FontConfig selects the font.
type FontConfig struct {
	Path string  `toml:"path"`
	Size float64 `toml:"size"`
}

// ThemeConfig overrides theme colors with hex strings ("#rrggbb").
// Empty entries keep the default.
type ThemeConfig struct {
	Background string   `toml:"background" yaml:"background"`
	Foreground string   `toml:"foreground" yaml:"foreground"`
	Palette    []string `toml:"palette" yaml:"palette"`
}

// CutConfig mirrors pc.Cut.
type CutConfig struct {
	FirstMarker      *uint `toml:"first_marker"`
	LastMarker       *uint `toml:"last_marker"`
	StartImmediately bool  `toml:"start_immediately"`
}

// LoadConfig reads a TOML config file. An empty path yields the zero config.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}
	return cfg, nil
}

// LoadTheme reads a theme file. Files ending in .yaml or .yml are YAML,
// anything else is TOML.
func LoadTheme(path string) (ThemeConfig, error) {
	var theme ThemeConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return theme, fmt.Errorf("failed to read theme: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &theme)
	default:
		_, err = toml.Decode(string(data), &theme)
	}
	if err != nil {
		return theme, fmt.Errorf("failed to parse theme %s: %w", path, err)
	}
	return theme, nil
}

// Merge overlays the non-empty entries of o onto t.
func (t ThemeConfig) Merge(o ThemeConfig) ThemeConfig {
	if o.Background != "" {
		t.Background = o.Background
	}
	if o.Foreground != "" {
		t.Foreground = o.Foreground
	}
	if len(o.Palette) > 0 {
		palette := make([]string, max(len(t.Palette), len(o.Palette)))
		copy(palette, t.Palette)
		for i, c := range o.Palette {
			if c != "" {
				palette[i] = c
			}
		}
		t.Palette = palette
	}
	return t
}

// Resolve applies the overrides to base.
func (t ThemeConfig) Resolve(base pc.Theme) (pc.Theme, error) {
	if len(t.Palette) > len(base.Palette) {
		return base, fmt.Errorf("theme palette has %d colors, at most %d allowed", len(t.Palette), len(base.Palette))
	}
	var err error
	if t.Background != "" {
		if base.Background, err = parseHex(t.Background); err != nil {
			return base, err
		}
	}
	if t.Foreground != "" {
		if base.Foreground, err = parseHex(t.Foreground); err != nil {
			return base, err
		}
	}
	for i, c := range t.Palette {
		if c == "" {
			continue
		}
		if base.Palette[i], err = parseHex(c); err != nil {
			return base, err
		}
	}
	return base, nil
}

func parseHex(s string) (pc.RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return pc.RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return pc.RGB{R: r, G: g, B: b}, nil
}

// settings is the effective configuration after flags are applied.
type settings struct {
	fontPath string
	fontSize float64
	width    int
	height   int
	theme    pc.Theme
	cut      *pc.Cut
}

// resolveSettings merges defaults, the config file, the theme file and
// flags, in increasing precedence.
func resolveSettings(g *Globals) (*settings, error) {
	cfg, err := LoadConfig(g.Config)
	if err != nil {
		return nil, err
	}

	themeCfg := cfg.Theme
	if g.Theme != "" {
		fileTheme, err := LoadTheme(g.Theme)
		if err != nil {
			return nil, err
		}
		themeCfg = themeCfg.Merge(fileTheme)
	}
	theme, err := themeCfg.Resolve(pc.DefaultTheme())
	if err != nil {
		return nil, err
	}

	s := &settings{
		fontPath: cfg.Font.Path,
		fontSize: cfg.Font.Size,
		width:    cfg.Canvas.Width,
		height:   cfg.Canvas.Height,
		theme:    theme,
	}
	if g.Font != "" {
		s.fontPath = g.Font
	}
	if g.FontSize > 0 {
		s.fontSize = g.FontSize
	}
	if s.fontSize <= 0 {
		s.fontSize = pc.DefaultFontSize
	}
	if g.Width > 0 {
		s.width = g.Width
	}
	if g.Height > 0 {
		s.height = g.Height
	}
	if s.width < 0 || s.height < 0 {
		return nil, fmt.Errorf("canvas size %dx%d must not be negative", s.width, s.height)
	}

	s.cut, err = resolveCut(cfg.Cut, g)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// resolveCut builds the cut from the config file, then --cut replaces it and
// the marker flags override single fields. It returns nil when nothing is set.
func resolveCut(cc CutConfig, g *Globals) (*pc.Cut, error) {
	var cut *pc.Cut
	if cc.FirstMarker != nil || cc.LastMarker != nil || cc.StartImmediately {
		cut = &pc.Cut{
			FirstMarker:      cc.FirstMarker,
			LastMarker:       cc.LastMarker,
			StartImmediately: cc.StartImmediately,
		}
	}
	if g.Cut != "" {
		parsed, err := pc.ParseCut([]byte(g.Cut))
		if err != nil {
			return nil, err
		}
		cut = parsed
	}
	if g.FirstMarker == nil && g.LastMarker == nil && !g.StartImmediately {
		return cut, nil
	}
	if cut == nil {
		cut = &pc.Cut{}
	}
	if g.FirstMarker != nil {
		cut.FirstMarker = g.FirstMarker
	}
	if g.LastMarker != nil {
		cut.LastMarker = g.LastMarker
	}
	if g.StartImmediately {
		cut.StartImmediately = true
	}
	return cut, nil
}
