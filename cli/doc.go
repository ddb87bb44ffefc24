// Package cli renders replayed frames as text for a host terminal.
//
// Cells are written row by row. When color is enabled each pen is re-encoded
// as SGR sequences (16-color, 256-color and 24-bit forms are preserved as
// recorded), so the host terminal's own palette applies. Frames can be
// wrapped in a box-drawing border with a centered title.
//
// # Basic Usage
//
//	caps := cli.DetectCapabilities(os.Stdout)
//	r := cli.NewRenderer(cli.Options{
//	    Color:       cli.ColorAuto.UseColor(caps),
//	    BorderStyle: cli.BorderRounded,
//	    Title:       "demo.cast @ 12.5s",
//	})
//	fmt.Print(r.Render(frame))
package cli
