// Package main defines the CLI structure using kong.
package main

import (
	"context"
	"io"
	"log/slog"
)

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Render  RenderCmd  `cmd:"" help:"Export the session as a PNG frame sequence"`
	Frame   FrameCmd   `cmd:"" help:"Render a single frame to a PNG file"`
	Info    InfoCmd    `cmd:"" help:"Show session header, counts and markers"`
	Dump    DumpCmd    `cmd:"" help:"Print a frame as text"`
	Watch   WatchCmd   `cmd:"" help:"Re-render a frame whenever the session file changes"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Globals are the flags shared by every command.
type Globals struct {
	Config   string  `short:"c" type:"path" help:"Config file (TOML)"`
	Theme    string  `type:"path" help:"Theme file (TOML or YAML)"`
	Font     string  `type:"path" help:"TrueType/OpenType font file (default: Go Mono)"`
	FontSize float64 `help:"Font size in pixels (default 14)"`
	Width    int     `help:"Canvas width in pixels (default: fit the session grid)"`
	Height   int     `help:"Canvas height in pixels (default: fit the session grid)"`

	Cut              string `help:"Cut as JSON with first_marker, last_marker and start_immediately" placeholder:"JSON"`
	FirstMarker      *uint  `help:"Start playback at this marker"`
	LastMarker       *uint  `help:"End playback at this marker"`
	StartImmediately bool   `help:"Drop the idle gap before the first frame"`

	LogLevel string `default:"warn" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
}

// RenderCmd exports every frame of the windowed session.
type RenderCmd struct {
	Session string  `arg:"" type:"existingfile" help:"Session file (.cast)"`
	Output  string  `short:"o" required:"" help:"Output directory"`
	FPS     float64 `name:"fps" default:"30" help:"Frames per second"`
	Jobs    int     `short:"j" default:"0" help:"Concurrent renders (default: number of CPUs)"`
}

// FrameCmd renders the frame visible at one time.
type FrameCmd struct {
	Session string  `arg:"" type:"existingfile" help:"Session file (.cast)"`
	At      float64 `default:"0" help:"Playback time in seconds"`
	Output  string  `short:"o" required:"" help:"Output PNG file"`
}

// InfoCmd describes a session.
type InfoCmd struct {
	Session string `arg:"" type:"existingfile" help:"Session file (.cast)"`
}

// DumpCmd prints the frame visible at one time as text.
type DumpCmd struct {
	Session string  `arg:"" type:"existingfile" help:"Session file (.cast)"`
	At      float64 `default:"0" help:"Playback time in seconds"`
	Color   string  `default:"auto" enum:"auto,always,never" help:"Emit ANSI colors (auto, always, never)"`
	Border  string  `default:"none" enum:"none,single,double,heavy,rounded" help:"Border style"`
	Title   bool    `help:"Show the session name and time in the border"`
}

// WatchCmd keeps a rendered frame up to date with a growing session file.
type WatchCmd struct {
	Session string  `arg:"" type:"existingfile" help:"Session file (.cast)"`
	At      float64 `default:"0" help:"Playback time in seconds (negative: from the end)"`
	Output  string  `short:"o" required:"" help:"Output PNG file"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

// runEnv carries process state into command Run methods.
type runEnv struct {
	ctx    context.Context
	stdout io.Writer
	logger *slog.Logger
}
