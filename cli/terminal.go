package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// BorderStyle defines the visual style of the frame border
type BorderStyle int

const (
	BorderNone    BorderStyle = iota // No border
	BorderSingle                     // Single-line box drawing characters
	BorderDouble                     // Double-line box drawing characters
	BorderHeavy                      // Heavy/thick box drawing characters
	BorderRounded                    // Rounded corners (single line)
)

var borderNames = map[string]BorderStyle{
	"none":    BorderNone,
	"single":  BorderSingle,
	"double":  BorderDouble,
	"heavy":   BorderHeavy,
	"rounded": BorderRounded,
}

// ParseBorderStyle maps a border name (none, single, double, heavy, rounded)
// to its style
func ParseBorderStyle(name string) (BorderStyle, error) {
	style, ok := borderNames[strings.ToLower(name)]
	if !ok {
		return BorderNone, fmt.Errorf("unknown border style %q", name)
	}
	return style, nil
}

// ColorMode selects when SGR sequences are emitted
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Only when writing to a terminal
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Options configures a Renderer
type Options struct {
	Color       bool        // Emit SGR color sequences
	BorderStyle BorderStyle // Border around the frame
	Title       string      // Displayed in the top border if it fits
}

// Capabilities describes the output stream
type Capabilities struct {
	IsTerminal bool
	Width      int // Host terminal size (0 when not a terminal)
	Height     int
}

// DetectCapabilities inspects f
func DetectCapabilities(f *os.File) Capabilities {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return Capabilities{}
	}
	caps := Capabilities{IsTerminal: true}
	if cols, rows, err := term.GetSize(fd); err == nil {
		caps.Width, caps.Height = cols, rows
	}
	return caps
}

// UseColor resolves mode against the output capabilities.
// TERM=dumb and NO_COLOR disable auto color.
func (m ColorMode) UseColor(caps Capabilities) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if !caps.IsTerminal || os.Getenv("TERM") == "dumb" {
		return false
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	return !noColor
}
