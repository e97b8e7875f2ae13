package voice

import (
	"fmt"

	"github.com/pkg/errors"
)

// DecodeError reports that the audio of Path could not be decoded.
type DecodeError struct {
	Path string
	Err  error
}

func newDecodeError(path string, err error) *DecodeError {
	return &DecodeError{Path: path, Err: errors.WithStack(err)}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode audio of %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ModelError reports that the voice model could not be built or failed
// while analyzing Path.
type ModelError struct {
	Path string
	Err  error
}

func newModelError(path string, err error) *ModelError {
	return &ModelError{Path: path, Err: errors.WithStack(err)}
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("voice model for %s: %v", e.Path, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// predictError marks receiver failures that came from the model rather than
// the decoder.
type predictError struct {
	err error
}

func (e *predictError) Error() string { return "predict: " + e.err.Error() }

func (e *predictError) Unwrap() error { return e.err }
