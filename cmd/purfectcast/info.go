package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// maxLabelWidth bounds marker labels in the marker table
const maxLabelWidth = 48

// Run prints the session summary and marker table.
func (c *InfoCmd) Run(g *Globals, env *runEnv) error {
	sess, err := openSession(g, c.Session, env.logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	r := lipgloss.NewRenderer(env.stdout)
	titleStyle := r.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	keyStyle := r.NewStyle().Foreground(lipgloss.Color("8")).Width(10)
	headStyle := r.NewStyle().Bold(true).Underline(true)
	dimStyle := r.NewStyle().Foreground(lipgloss.Color("8"))

	tl := sess.source.Timeline()
	window := sess.source.Window()
	width, height := sess.source.Compositor().Size()

	var b strings.Builder
	b.WriteString(titleStyle.Render(filepath.Base(sess.path)) + "\n")
	row := func(key, value string) {
		b.WriteString("  " + keyStyle.Render(key) + value + "\n")
	}
	row("size", fmt.Sprintf("%dx%d", tl.Header.Width, tl.Header.Height))
	if tl.Header.Title != "" {
		row("title", tl.Header.Title)
	}
	row("events", strconv.Itoa(tl.EventCount))
	row("frames", strconv.Itoa(tl.FrameCount))
	row("groups", strconv.Itoa(len(tl.Groups)))
	row("duration", formatSeconds(tl.Duration()))
	if cut := sess.source.Cut(); cut != nil {
		row("window", fmt.Sprintf("%d frames, %s", window.FrameCount(), formatSeconds(window.Duration())))
	}
	row("canvas", fmt.Sprintf("%dx%d px", width, height))

	b.WriteString("\n" + titleStyle.Render("Markers") + "\n")
	if len(tl.Groups) <= 1 {
		b.WriteString("  " + dimStyle.Render("(none)") + "\n")
		fmt.Fprint(env.stdout, b.String())
		return nil
	}

	cols := []lipgloss.Style{
		r.NewStyle().Width(4).Align(lipgloss.Right),
		r.NewStyle().Width(12).Align(lipgloss.Right),
		r.NewStyle().Width(8).Align(lipgloss.Right),
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		cols[0].Render("#"), cols[1].Render("TIME"), cols[2].Render("FRAMES"), "  ", headStyle.Render("LABEL"))
	b.WriteString("  " + header + "\n")
	for i, grp := range tl.Groups[1:] {
		label := truncate.StringWithTail(grp.Label, maxLabelWidth, "…")
		if label == "" {
			label = dimStyle.Render("(unlabeled)")
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			cols[0].Render(strconv.Itoa(i)),
			cols[1].Render(formatSeconds(grp.MarkerTime)),
			cols[2].Render(strconv.Itoa(len(grp.Frames))),
			"  ", label)
		b.WriteString("  " + line + "\n")
	}
	fmt.Fprint(env.stdout, b.String())
	return nil
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64) + "s"
}
