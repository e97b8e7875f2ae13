package pipeline

import (
	"errors"
	"fmt"

	"subalign/internal/subtitles"
)

var (
	// ErrUpdateEntries wraps failures to apply corrected timings.
	ErrUpdateEntries = errors.New("failed to update subtitle entries")
	// ErrSerialize wraps failures to render the corrected file.
	ErrSerialize = errors.New("failed to serialize subtitle file")
)

// FormatMismatchError reports an output path whose extension cannot hold the
// input's subtitle format. Formats are never converted.
type FormatMismatchError struct {
	InputPath  string
	OutputPath string
	Format     subtitles.Format
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("output file %q does not match the format of %q (%s); converting between formats is not supported",
		e.OutputPath, e.InputPath, e.Format)
}
