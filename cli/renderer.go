package cli

import (
	"strings"

	"github.com/mattn/go-runewidth"
	pc "github.com/phroun/purfectcast"
)

// Renderer turns frames into text for a host terminal or a plain file
type Renderer struct {
	opts Options

	// Border characters
	borderChars borderCharSet
}

// borderCharSet contains the characters for drawing borders
type borderCharSet struct {
	topLeft     rune
	topRight    rune
	bottomLeft  rune
	bottomRight rune
	horizontal  rune
	vertical    rune
	titleLeft   rune
	titleRight  rune
}

var borderStyles = map[BorderStyle]borderCharSet{
	BorderSingle: {
		topLeft: '┌', topRight: '┐', bottomLeft: '└', bottomRight: '┘',
		horizontal: '─', vertical: '│', titleLeft: '┤', titleRight: '├',
	},
	BorderDouble: {
		topLeft: '╔', topRight: '╗', bottomLeft: '╚', bottomRight: '╝',
		horizontal: '═', vertical: '║', titleLeft: '╡', titleRight: '╞',
	},
	BorderHeavy: {
		topLeft: '┏', topRight: '┓', bottomLeft: '┗', bottomRight: '┛',
		horizontal: '━', vertical: '┃', titleLeft: '┫', titleRight: '┣',
	},
	BorderRounded: {
		topLeft: '╭', topRight: '╮', bottomLeft: '╰', bottomRight: '╯',
		horizontal: '─', vertical: '│', titleLeft: '┤', titleRight: '├',
	},
}

// NewRenderer creates a renderer
func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		opts:        opts,
		borderChars: borderStyles[opts.BorderStyle],
	}
}

// Render returns the frame as newline-separated rows. With Color set, pens
// are re-encoded as SGR sequences and every row ends with a reset.
// An empty frame renders as "".
func (r *Renderer) Render(frame pc.Frame) string {
	if frame.IsEmpty() {
		return ""
	}
	cols := 0
	for _, line := range frame.Grid {
		cols = max(cols, len(line))
	}

	var output strings.Builder
	bordered := r.opts.BorderStyle != BorderNone
	if bordered {
		r.renderTopBorder(&output, cols)
	}
	for _, line := range frame.Grid {
		if bordered {
			output.WriteRune(r.borderChars.vertical)
		}
		if r.opts.Color {
			renderLineANSI(&output, line)
		} else {
			renderLinePlain(&output, line, !bordered)
		}
		if bordered {
			output.WriteString(strings.Repeat(" ", cols-len(line)))
			output.WriteRune(r.borderChars.vertical)
		}
		output.WriteByte('\n')
	}
	if bordered {
		r.renderBottomBorder(&output, cols)
	}
	return output.String()
}

// renderLineANSI writes one row, emitting SGR only when the pen changes
func renderLineANSI(output *strings.Builder, line []pc.Cell) {
	var current pc.Pen
	first := true

	for x := 0; x < len(line); x++ {
		cell := line[x]
		pen := cell.Pen

		var sgr []string
		if first || (current.Inverse && !pen.Inverse) {
			sgr = append(sgr, "0") // Reset
			current = pc.Pen{}
		}
		first = false

		if pen.Inverse && !current.Inverse {
			sgr = append(sgr, "7")
			current.Inverse = true
		}
		if pen.Foreground != current.Foreground {
			sgr = append(sgr, pen.Foreground.SGRCode(true))
			current.Foreground = pen.Foreground
		}
		if pen.Background != current.Background {
			sgr = append(sgr, pen.Background.SGRCode(false))
			current.Background = pen.Background
		}

		if len(sgr) > 0 {
			output.WriteString("\033[")
			output.WriteString(strings.Join(sgr, ";"))
			output.WriteString("m")
		}
		x += writeChar(output, cell.Char)
	}
	output.WriteString("\033[0m")
}

// renderLinePlain writes the characters of one row, optionally without
// trailing blanks
func renderLinePlain(output *strings.Builder, line []pc.Cell, trim bool) {
	end := len(line)
	if trim {
		for end > 0 && line[end-1].Char == ' ' {
			end--
		}
	}
	for x := 0; x < end; x++ {
		x += writeChar(output, line[x].Char)
	}
}

// writeChar writes ch and returns how many following cells it covers.
// A wide character owns the spacer cell to its right.
func writeChar(output *strings.Builder, ch rune) int {
	if ch == 0 || ch == ' ' {
		output.WriteRune(' ')
		return 0
	}
	output.WriteRune(ch)
	if runewidth.RuneWidth(ch) == 2 {
		return 1
	}
	return 0
}

// renderTopBorder draws the top border with the optional centered title
func (r *Renderer) renderTopBorder(output *strings.Builder, innerCols int) {
	bc := r.borderChars
	title := r.opts.Title
	titleWidth := runewidth.StringWidth(title)

	output.WriteRune(bc.topLeft)
	if title != "" && titleWidth < innerCols-4 {
		padding := (innerCols - titleWidth - 2) / 2
		output.WriteString(strings.Repeat(string(bc.horizontal), padding))
		output.WriteRune(bc.titleRight)
		output.WriteString(" ")
		output.WriteString(title)
		output.WriteString(" ")
		output.WriteRune(bc.titleLeft)
		remaining := innerCols - padding - titleWidth - 4
		output.WriteString(strings.Repeat(string(bc.horizontal), max(remaining, 0)))
	} else {
		output.WriteString(strings.Repeat(string(bc.horizontal), innerCols))
	}
	output.WriteRune(bc.topRight)
	output.WriteByte('\n')
}

func (r *Renderer) renderBottomBorder(output *strings.Builder, innerCols int) {
	bc := r.borderChars
	output.WriteRune(bc.bottomLeft)
	output.WriteString(strings.Repeat(string(bc.horizontal), innerCols))
	output.WriteRune(bc.bottomRight)
	output.WriteByte('\n')
}
