package purfectcast

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// Cast is a parsed session file
type Cast struct {
	Header Header
	Events []Event
}

// ReadCastFile reads and parses the session file at path.
func ReadCastFile(path string) (*Cast, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()
	return ParseCast(f)
}

// ParseCast parses a newline-delimited session log.
//
// The first line is the header object. Every following line is an event array
// [time, tag, payload]. Any bad line fails the whole parse; blank lines are
// skipped.
func ParseCast(r io.Reader) (*Cast, error) {
	br := bufio.NewReader(r)
	cast := &Cast{}

	lineNo := 0
	sawHeader := false
	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("%w: %w", ErrIO, readErr)
		}
		if line == "" && readErr == io.EOF {
			break
		}
		lineNo++
		line = strings.TrimRight(line, "\r\n")

		if !sawHeader {
			if strings.TrimSpace(line) == "" {
				// Leading blank lines before any header are only tolerated
				// when nothing else follows (the file is effectively empty).
				if readErr == io.EOF {
					break
				}
				return nil, &ParseError{Line: lineNo, Err: fmt.Errorf("%w: blank header line", ErrMalformedJSON)}
			}
			header, err := parseHeader(line)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Err: err}
			}
			cast.Header = header
			sawHeader = true
		} else if strings.TrimSpace(line) != "" {
			ev, err := parseEvent(line)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Err: err}
			}
			cast.Events = append(cast.Events, ev)
		}

		if readErr == io.EOF {
			break
		}
	}

	if !sawHeader {
		return nil, ErrEmptyFile
	}
	return cast, nil
}

func parseHeader(line string) (Header, error) {
	var h Header
	if err := json.Unmarshal([]byte(line), &h); err != nil {
		return Header{}, fmt.Errorf("%w: header: %v", ErrMalformedJSON, err)
	}
	return h, nil
}

// parseEvent parses one [time, tag, payload?] array.
func parseEvent(line string) (Event, error) {
	if !gjson.Valid(line) {
		return Event{}, ErrMalformedJSON
	}
	v := gjson.Parse(line)
	if !v.IsArray() {
		return Event{}, fmt.Errorf("%w: event is not an array", ErrMalformedJSON)
	}
	fields := v.Array()

	if len(fields) == 0 || fields[0].Type != gjson.Number {
		return Event{}, ErrInvalidEventTime
	}
	t := fields[0].Float()

	if len(fields) < 2 || fields[1].Type != gjson.String {
		return Event{}, fmt.Errorf("%w: missing event type", ErrInvalidEvent)
	}
	tag := fields[1].String()

	payload := func() (string, error) {
		if len(fields) < 3 || fields[2].Type != gjson.String {
			return "", fmt.Errorf("%w: %q event", ErrInvalidEvent, tag)
		}
		return fields[2].String(), nil
	}

	switch tag {
	case TagOutput:
		data, err := payload()
		if err != nil {
			return Event{}, err
		}
		return OutputEvent(t, data), nil
	case TagMarker:
		label, err := payload()
		if err != nil {
			return Event{}, err
		}
		return MarkerEvent(t, label), nil
	default:
		return UnknownEvent(t, tag), nil
	}
}
