package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/phroun/purfectcast/cli"
)

// Run prints the frame visible at --at.
func (c *DumpCmd) Run(g *Globals, env *runEnv) error {
	border, err := cli.ParseBorderStyle(c.Border)
	if err != nil {
		return err
	}
	sess, err := openSession(g, c.Session, env.logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	var caps cli.Capabilities
	if f, ok := env.stdout.(*os.File); ok {
		caps = cli.DetectCapabilities(f)
	}
	opts := cli.Options{
		Color:       cli.ColorMode(c.Color).UseColor(caps),
		BorderStyle: border,
	}
	if c.Title {
		opts.Title = fmt.Sprintf("%s @ %gs", filepath.Base(sess.path), c.At)
	}

	frame := sess.source.FrameAt(c.At)
	if frame.IsEmpty() {
		env.logger.Warn("no frame at time", "at", c.At)
	}
	fmt.Fprint(env.stdout, cli.NewRenderer(opts).Render(frame))
	return nil
}
