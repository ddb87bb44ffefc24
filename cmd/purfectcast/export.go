package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Run exports frames at t = i/fps over the window duration.
func (c *RenderCmd) Run(g *Globals, env *runEnv) error {
	if c.FPS <= 0 || math.IsInf(c.FPS, 0) || math.IsNaN(c.FPS) {
		return fmt.Errorf("--fps must be a positive number, got %v", c.FPS)
	}
	sess, err := openSession(g, c.Session, env.logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := os.MkdirAll(c.Output, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	window := sess.source.Window()
	compositor := sess.source.Compositor()
	width, height := compositor.Size()
	count := int(math.Floor(window.Duration()*c.FPS)) + 1

	jobs := c.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	eg, ctx := errgroup.WithContext(env.ctx)
	eg.SetLimit(jobs)
	for i := range count {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t := float64(i) / c.FPS
			buf := compositor.Render(window.FrameAt(t))
			name := filepath.Join(c.Output, frameName(i))
			return writePNG(name, toImage(buf, width, height))
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if err := env.ctx.Err(); err != nil {
		return err
	}

	env.logger.Info("frames exported", "dir", c.Output, "frames", count, "fps", c.FPS)
	fmt.Fprintf(env.stdout, "wrote %d frames to %s\n", count, c.Output)
	return nil
}

// Run renders one frame.
func (c *FrameCmd) Run(g *Globals, env *runEnv) error {
	sess, err := openSession(g, c.Session, env.logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	width, height := sess.source.Compositor().Size()
	if err := writePNG(c.Output, toImage(sess.source.Render(c.At), width, height)); err != nil {
		return err
	}
	fmt.Fprintf(env.stdout, "wrote %s\n", c.Output)
	return nil
}

func frameName(i int) string {
	return fmt.Sprintf("frame-%05d.png", i)
}

// toImage unpacks R-low-byte pixels into an RGBA image
func toImage(buf []uint32, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, px := range buf {
		o := i * 4
		if o+3 >= len(img.Pix) {
			break
		}
		img.Pix[o] = uint8(px)
		img.Pix[o+1] = uint8(px >> 8)
		img.Pix[o+2] = uint8(px >> 16)
		img.Pix[o+3] = uint8(px >> 24)
	}
	return img
}

func writePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
