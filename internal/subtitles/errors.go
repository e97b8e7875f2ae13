package subtitles

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies subtitle failures.
type Kind int

const (
	// KindRead means the file could not be read or decoded to text.
	KindRead Kind = iota + 1
	// KindUnknownFormat means no supported format matched the file.
	KindUnknownFormat
	// KindParse means the file matched a format but its content is invalid.
	KindParse
	// KindEntries means new timings could not be applied to the file.
	KindEntries
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read subtitle file"
	case KindUnknownFormat:
		return "unknown subtitle format"
	case KindParse:
		return "parse subtitle file"
	case KindEntries:
		return "update subtitle entries"
	default:
		return "subtitle error"
	}
}

// Error is returned by every failing operation in this package.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func newError(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: errors.WithStack(err)}
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// lineError reports a problem at a 1-based line number.
type lineError struct {
	Line int
	Msg  string
}

func (e *lineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
