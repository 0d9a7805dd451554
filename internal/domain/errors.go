package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingInput marks a source file that does not exist. Callers treat
	// it as a graceful no-op rather than a failure.
	ErrMissingInput = errors.New("input not found")

	// ErrMisaligned is the cause of a ParseError raised when series arrays
	// differ in length under strict alignment.
	ErrMisaligned = errors.New("series length mismatch")

	// ErrShortTimestamp is the cause of a ParseError raised when a timestamp
	// is shorter than the key derived from it.
	ErrShortTimestamp = errors.New("timestamp too short")
)

// ParseError reports malformed tabular content or an underivable key.
type ParseError struct {
	Source string // file path or series name
	Line   int    // 1-based line or row number, 0 when not applicable
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse")
	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " value %q", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// UpstreamError reports a failed request to the archive API.
type UpstreamError struct {
	Status int    // HTTP status, 0 for transport failures
	Body   string // truncated response body
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream error: status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("upstream request: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
