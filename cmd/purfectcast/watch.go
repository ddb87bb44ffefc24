package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce lets a burst of writes settle before reloading
const watchDebounce = 100 * time.Millisecond

// Run renders the frame, then reloads and re-renders on every change to the
// session file until the context is cancelled. A failed reload keeps the
// previous timeline.
func (c *WatchCmd) Run(g *Globals, env *runEnv) error {
	sess, err := openSession(g, c.Session, env.logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	// Watch the directory: editors and recorders often replace the file.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(c.Session)); err != nil {
		return fmt.Errorf("failed to watch file: %w", err)
	}

	if err := c.render(sess); err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "watching %s, writing %s\n", c.Session, c.Output)

	target := filepath.Clean(c.Session)
	var reload <-chan time.Time
	for {
		select {
		case <-env.ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				reload = time.After(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			env.logger.Warn("watch error", "error", err)
		case <-reload:
			reload = nil
			if err := sess.source.Load(c.Session); err != nil {
				continue
			}
			if err := c.render(sess); err != nil {
				env.logger.Error("render failed", "output", c.Output, "error", err)
				continue
			}
			env.logger.Info("frame updated", "output", c.Output)
		}
	}
}

// render writes the selected frame through a temporary file so readers never
// see a partial PNG.
func (c *WatchCmd) render(sess *session) error {
	at := c.At
	if at < 0 {
		at += sess.source.Window().Duration()
	}
	width, height := sess.source.Compositor().Size()
	tmp := c.Output + ".tmp"
	if err := writePNG(tmp, toImage(sess.source.Render(at), width, height)); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, c.Output)
}
