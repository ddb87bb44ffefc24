package vt

import (
	"strconv"
	"strings"
	"unicode/utf8"

	pc "github.com/phroun/purfectcast"
)

// Parser states
type parserState int

const (
	stateGround    parserState = iota
	stateEscape                // After ESC
	stateCSI                   // After ESC [
	stateCSIParam              // Reading CSI parameters
	stateOSC                   // After ESC ] (string runs until BEL or ST)
	stateOSCEscape             // ESC inside an OSC string
	stateCharset               // After ESC ( or ESC ) etc.
	stateDECLineAttr           // After ESC #
)

// SGRParam represents an SGR parameter with optional subparameters
// For example, "38:2:255:128:0" becomes {Base: 38, Subs: [2, 255, 128, 0]}
type SGRParam struct {
	Base int   // Primary parameter value
	Subs []int // Subparameters (colon-separated values after the base)
}

// Parser parses ANSI escape sequences and updates a Screen
type Parser struct {
	screen *Screen
	state  parserState

	// CSI sequence accumulator
	csiParams       []int
	csiRawParams    []string // Raw parameter strings for subparameter parsing
	csiPrivate      byte     // For private sequences like ?25h
	csiIntermediate byte
	csiBuf          strings.Builder

	// UTF-8 bytes carried across Parse calls
	utf8Buf  []byte
	utf8Need int
}

// NewParser creates a new ANSI parser for the given screen
func NewParser(screen *Screen) *Parser {
	return &Parser{
		screen:    screen,
		state:     stateGround,
		csiParams: make([]int, 0, 16),
	}
}

// Parse processes input data and updates the screen.
// A multi-byte character split across calls is completed by the next call.
func (p *Parser) Parse(data []byte) {
	for _, b := range data {
		p.processByte(b)
	}
}

// ParseString processes a string and updates the screen
func (p *Parser) ParseString(data string) {
	for i := 0; i < len(data); i++ {
		p.processByte(data[i])
	}
}

func (p *Parser) processByte(b byte) {
	// Handle UTF-8 continuation bytes
	if p.utf8Need > 0 {
		if b&0xC0 == 0x80 {
			p.utf8Buf = append(p.utf8Buf, b)
			p.utf8Need--
			if p.utf8Need == 0 {
				r, _ := utf8.DecodeRune(p.utf8Buf)
				if p.state == stateGround {
					p.screen.WriteChar(r)
				}
				p.utf8Buf = p.utf8Buf[:0]
			}
			return
		}
		// Truncated sequence
		p.utf8Buf = p.utf8Buf[:0]
		p.utf8Need = 0
		if p.state == stateGround {
			p.screen.WriteChar(utf8.RuneError)
		}
	}

	// Check for UTF-8 start bytes in ground state
	if p.state == stateGround {
		if need := utf8Continuations(b); need > 0 {
			p.utf8Buf = append(p.utf8Buf[:0], b)
			p.utf8Need = need
			return
		}
	}

	switch p.state {
	case stateGround:
		p.handleGround(b)
	case stateEscape:
		p.handleEscape(b)
	case stateCSI, stateCSIParam:
		p.handleCSI(b)
	case stateOSC:
		p.handleOSC(b)
	case stateOSCEscape:
		// ESC \ (ST) ends the string; anything else starts a new sequence
		if b == '\\' {
			p.state = stateGround
		} else {
			p.state = stateEscape
			p.handleEscape(b)
		}
	case stateCharset:
		// Consume one character and return to ground
		p.state = stateGround
	case stateDECLineAttr:
		p.handleDECLineAttr(b)
	}
}

// utf8Continuations returns how many continuation bytes follow start byte b
func utf8Continuations(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 1
	case b&0xF0 == 0xE0:
		return 2
	case b&0xF8 == 0xF0:
		return 3
	}
	return 0
}

func (p *Parser) handleGround(b byte) {
	switch b {
	case 0x00: // NUL - ignore
	case 0x07: // BEL - ignore
	case 0x08: // BS - backspace
		p.screen.Backspace()
	case 0x09: // HT - horizontal tab
		p.screen.Tab()
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF - line feed
		p.screen.LineFeed()
	case 0x0D: // CR - carriage return
		p.screen.CarriageReturn()
	case 0x1B: // ESC
		p.state = stateEscape
	default:
		if b >= 0x20 && b < 0x7F {
			p.screen.WriteChar(rune(b))
		}
	}
}

func (p *Parser) handleEscape(b byte) {
	p.state = stateGround
	switch b {
	case '[': // CSI - Control Sequence Introducer
		p.state = stateCSI
		p.csiParams = p.csiParams[:0]
		p.csiRawParams = p.csiRawParams[:0]
		p.csiPrivate = 0
		p.csiIntermediate = 0
		p.csiBuf.Reset()
	case ']', 'P', '_', '^', 'X': // OSC, DCS, APC, PM, SOS - string ignored
		p.state = stateOSC
	case '(', ')', '*', '+': // Character set designation
		p.state = stateCharset
	case '#': // DEC line attributes
		p.state = stateDECLineAttr
	case '7': // DECSC - Save Cursor
		p.screen.SaveCursor()
	case '8': // DECRC - Restore Cursor
		p.screen.RestoreCursor()
	case 'c': // RIS - Reset to Initial State
		p.screen.Reset()
	case 'D': // IND - Index
		p.screen.LineFeed()
	case 'E': // NEL - Next Line
		p.screen.CarriageReturn()
		p.screen.LineFeed()
	case 'M': // RI - Reverse Index
		p.screen.ReverseIndex()
	case 0x1B:
		p.state = stateEscape
	}
}

func (p *Parser) handleOSC(b byte) {
	switch b {
	case 0x07: // BEL terminates
		p.state = stateGround
	case 0x1B:
		p.state = stateOSCEscape
	}
}

// handleDECLineAttr handles ESC # sequences. Only DECALN (ESC # 8, fill the
// screen with 'E') changes the grid; size attributes are ignored.
func (p *Parser) handleDECLineAttr(b byte) {
	if b == '8' {
		cols, rows := p.screen.Size()
		p.screen.SetAutoWrap(false)
		for y := 0; y < rows; y++ {
			p.screen.SetCursor(0, y)
			for x := 0; x < cols; x++ {
				p.screen.WriteChar('E')
			}
		}
		p.screen.SetAutoWrap(true)
		p.screen.SetCursor(0, 0)
	}
	p.state = stateGround
}

func (p *Parser) handleCSI(b byte) {
	if p.state == stateCSI {
		// First byte after ESC [
		if b == '?' || b == '>' || b == '!' || b == '<' || b == '=' {
			p.csiPrivate = b
			p.state = stateCSIParam
			return
		}
		p.state = stateCSIParam
	}

	switch {
	case b >= '0' && b <= '9', b == ':':
		p.csiBuf.WriteByte(b)
	case b == ';':
		p.parseCSIParam()
		p.csiBuf.Reset()
	case b >= 0x20 && b <= 0x2F:
		// Intermediate bytes
		p.csiIntermediate = b
	case b == 0x1B:
		// Aborted sequence
		p.state = stateEscape
	case b >= 0x40 && b <= 0x7E:
		p.parseCSIParam()
		p.executeCSI(b)
		p.state = stateGround
	case b < 0x20:
		// C0 controls are executed inside CSI sequences
		p.handleGround(b)
	}
}

func (p *Parser) parseCSIParam() {
	s := p.csiBuf.String()
	p.csiRawParams = append(p.csiRawParams, s)
	if s == "" {
		p.csiParams = append(p.csiParams, 0) // Default value
		return
	}
	// Legacy int params use the base value (before any colon)
	base := s
	if colonIdx := strings.IndexByte(s, ':'); colonIdx >= 0 {
		base = s[:colonIdx]
	}
	n, _ := strconv.Atoi(base)
	p.csiParams = append(p.csiParams, n)
}

// parseSGRParam parses a raw parameter string into an SGRParam with subparameters
func parseSGRParam(raw string) SGRParam {
	if raw == "" {
		return SGRParam{Base: 0}
	}
	parts := strings.Split(raw, ":")
	base, _ := strconv.Atoi(parts[0])
	var subs []int
	for _, part := range parts[1:] {
		if part == "" {
			// Empty subparameter (e.g. "38:2::255:0:0" has an empty colorspace)
			subs = append(subs, -1)
			continue
		}
		n, _ := strconv.Atoi(part)
		subs = append(subs, n)
	}
	return SGRParam{Base: base, Subs: subs}
}

func (p *Parser) getParam(idx, defaultVal int) int {
	if idx < len(p.csiParams) && p.csiParams[idx] != 0 {
		return p.csiParams[idx]
	}
	return defaultVal
}

func (p *Parser) executeCSI(finalByte byte) {
	if p.csiPrivate == '?' {
		switch finalByte {
		case 'h':
			p.executePrivateMode(true)
		case 'l':
			p.executePrivateMode(false)
		}
		return
	}
	if p.csiPrivate != 0 || p.csiIntermediate != 0 {
		// DA2, DECSCUSR, XTVERSION and friends do not touch the grid
		return
	}

	s := p.screen
	switch finalByte {
	case 'A': // CUU - Cursor Up
		s.MoveCursorUp(p.getParam(0, 1))
	case 'B', 'e': // CUD/VPR - Cursor Down
		s.MoveCursorDown(p.getParam(0, 1))
	case 'C', 'a': // CUF/HPR - Cursor Forward
		s.MoveCursorForward(p.getParam(0, 1))
	case 'D': // CUB - Cursor Backward
		s.MoveCursorBackward(p.getParam(0, 1))
	case 'E': // CNL - Cursor Next Line
		s.MoveCursorDown(p.getParam(0, 1))
		s.CarriageReturn()
	case 'F': // CPL - Cursor Previous Line
		s.MoveCursorUp(p.getParam(0, 1))
		s.CarriageReturn()
	case 'G', '`': // CHA/HPA - Cursor Horizontal Absolute
		_, y := s.Cursor()
		s.SetCursor(p.getParam(0, 1)-1, y)
	case 'H', 'f': // CUP/HVP - Cursor Position
		s.SetCursor(p.getParam(1, 1)-1, p.getParam(0, 1)-1)
	case 'd': // VPA - Vertical Position Absolute
		x, _ := s.Cursor()
		s.SetCursor(x, p.getParam(0, 1)-1)
	case 'J': // ED - Erase in Display
		switch p.getParam(0, 0) {
		case 0:
			s.ClearToEndOfScreen()
		case 1:
			s.ClearToStartOfScreen()
		case 2, 3:
			s.ClearScreen()
		}
	case 'K': // EL - Erase in Line
		switch p.getParam(0, 0) {
		case 0:
			s.ClearToEndOfLine()
		case 1:
			s.ClearToStartOfLine()
		case 2:
			s.ClearLine()
		}
	case 'L': // IL - Insert Lines
		s.InsertLines(p.getParam(0, 1))
	case 'M': // DL - Delete Lines
		s.DeleteLines(p.getParam(0, 1))
	case 'P': // DCH - Delete Characters
		s.DeleteChars(p.getParam(0, 1))
	case '@': // ICH - Insert Characters
		s.InsertChars(p.getParam(0, 1))
	case 'X': // ECH - Erase Characters
		s.EraseChars(p.getParam(0, 1))
	case 'S': // SU - Scroll Up
		s.ScrollUp(p.getParam(0, 1))
	case 'T': // SD - Scroll Down
		s.ScrollDown(p.getParam(0, 1))
	case 'm': // SGR - Select Graphic Rendition
		p.executeSGR()
	case 'r': // DECSTBM - Set Top and Bottom Margins
		_, rows := s.Size()
		s.SetScrollRegion(p.getParam(0, 1)-1, p.getParam(1, rows)-1)
	case 's': // SCP - Save Cursor Position
		s.SaveCursor()
	case 'u': // RCP - Restore Cursor Position
		s.RestoreCursor()
	}
}

func (p *Parser) executePrivateMode(set bool) {
	for _, mode := range p.csiParams {
		switch mode {
		case 7: // DECAWM - Auto-wrap
			p.screen.SetAutoWrap(set)
		case 47, 1047: // Alternate screen
			p.screen.SetAlternateScreen(set)
		case 1049: // Alternate screen with saved cursor
			if set {
				p.screen.SaveCursor()
				p.screen.SetAlternateScreen(true)
				p.screen.ClearScreen()
			} else {
				p.screen.SetAlternateScreen(false)
				p.screen.RestoreCursor()
			}
		}
	}
}

func (p *Parser) executeSGR() {
	if len(p.csiParams) == 0 {
		p.screen.ResetAttributes()
		return
	}

	for i := 0; i < len(p.csiParams); i++ {
		param := p.csiParams[i]
		switch {
		case param == 0: // Reset
			p.screen.ResetAttributes()
		case param == 1: // Bold
			p.screen.SetBold(true)
		case param == 2, param == 21, param == 22: // Dim, bold off, normal intensity
			p.screen.SetBold(false)
		case param == 7: // Reverse video
			p.screen.SetInverse(true)
		case param == 27: // Reverse off
			p.screen.SetInverse(false)
		case param >= 30 && param <= 37:
			p.screen.SetForeground(pc.IndexedColor(uint8(param - 30)))
		case param >= 90 && param <= 97:
			p.screen.SetForeground(pc.IndexedColor(uint8(param - 90 + 8)))
		case param >= 40 && param <= 47:
			p.screen.SetBackground(pc.IndexedColor(uint8(param - 40)))
		case param >= 100 && param <= 107:
			p.screen.SetBackground(pc.IndexedColor(uint8(param - 100 + 8)))
		case param == 38: // Extended foreground color
			c, consumed, ok := p.extendedColor(i)
			if ok {
				p.screen.SetForeground(c)
			}
			i += consumed
		case param == 39: // Default foreground
			p.screen.SetForeground(pc.DefaultColor)
		case param == 48: // Extended background color
			c, consumed, ok := p.extendedColor(i)
			if ok {
				p.screen.SetBackground(c)
			}
			i += consumed
		case param == 49: // Default background
			p.screen.SetBackground(pc.DefaultColor)
		}
	}
}

// extendedColor decodes the color following a 38 or 48 at index i, in either
// the colon form (38:5:N, 38:2:[cs]:R:G:B) or the semicolon form (38;5;N,
// 38;2;R;G;B). consumed is how many extra semicolon parameters were used.
func (p *Parser) extendedColor(i int) (c pc.Color, consumed int, ok bool) {
	if i < len(p.csiRawParams) {
		sgr := parseSGRParam(p.csiRawParams[i])
		if len(sgr.Subs) >= 2 && sgr.Subs[0] == 5 {
			return pc.IndexedColor(uint8(sgr.Subs[1])), 0, true
		}
		if len(sgr.Subs) >= 4 && sgr.Subs[0] == 2 {
			var r, g, b int
			if len(sgr.Subs) >= 5 {
				// Subs[1] is the (usually empty) colorspace
				r, g, b = sgr.Subs[2], sgr.Subs[3], sgr.Subs[4]
			} else {
				r, g, b = sgr.Subs[1], sgr.Subs[2], sgr.Subs[3]
			}
			return pc.TrueColor(uint8(r), uint8(g), uint8(b)), 0, true
		}
		if len(sgr.Subs) > 0 {
			return pc.Color{}, 0, false
		}
	}

	if i+2 < len(p.csiParams) && p.csiParams[i+1] == 5 {
		return pc.IndexedColor(uint8(p.csiParams[i+2])), 2, true
	}
	if i+4 < len(p.csiParams) && p.csiParams[i+1] == 2 {
		return pc.TrueColor(
			uint8(p.csiParams[i+2]),
			uint8(p.csiParams[i+3]),
			uint8(p.csiParams[i+4]),
		), 4, true
	}
	return pc.Color{}, 0, false
}
