package purfectcast

import (
	"errors"
	"fmt"
)

// Load and configuration errors. Match them with errors.Is.
var (
	ErrIO               = errors.New("session file unreadable")
	ErrMalformedJSON    = errors.New("malformed JSON")
	ErrEmptyFile        = errors.New("session file is empty")
	ErrInvalidEventTime = errors.New("event time missing or not a number")
	ErrInvalidEvent     = errors.New("event missing required payload")
	ErrMalformedCut     = errors.New("malformed cut configuration")
)

// ParseError records the session line that failed to parse
type ParseError struct {
	Line int // 1-based line number
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
