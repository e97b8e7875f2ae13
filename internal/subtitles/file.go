package subtitles

import (
	"errors"
	"fmt"
	"strings"

	"subalign/internal/fileutil"
	"subalign/internal/timing"
)

// DefaultFPS is the MicroDVD frame rate used when no hint is given.
const DefaultFPS = 30.0

// Hints guide decoding of formats that do not describe themselves.
type Hints struct {
	// Encoding is an encoding label (for example "utf-8", "windows-1250")
	// or "auto".
	Encoding string
	// FPS converts MicroDVD frame numbers to time.
	FPS float64
}

// Entry is one timed subtitle line.
type Entry struct {
	Interval timing.Interval
	Text     string
}

// document is the per-format representation of a parsed file.
type document interface {
	entries() []Entry
	update(intervals []timing.Interval) error
	render() string
}

// File is an opened subtitle file.
type File struct {
	Path     string
	Format   Format
	Encoding string

	codec textCodec
	doc   document
}

// ErrEntryCount is returned when the number of new timings differs from the
// number of entries in the file.
var ErrEntryCount = errors.New("entry count mismatch")

// Open reads and parses the subtitle file at path.
func Open(path string, hints Hints) (*File, error) {
	raw, err := fileutil.ReadFile(path)
	if err != nil {
		return nil, newError(KindRead, path, err)
	}
	return Parse(path, raw, hints)
}

// Parse decodes raw as the subtitle file named path.
func Parse(path string, raw []byte, hints Hints) (*File, error) {
	codec, err := detectEncoding(raw, hints.Encoding)
	if err != nil {
		return nil, newError(KindRead, path, err)
	}
	text, err := codec.decode(raw)
	if err != nil {
		return nil, newError(KindRead, path, err)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	format := detectFormat(path, raw, text)
	fps := hints.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	var doc document
	switch format {
	case FormatSRT:
		doc, err = parseSRT(text)
	case FormatSSA:
		doc, err = parseSSA(text)
	case FormatMicroDVD:
		doc, err = parseMicroDVD(text, fps)
	case FormatVobSubIdx:
		doc, err = parseIdx(text)
	default:
		return nil, newError(KindUnknownFormat, path, fmt.Errorf("no supported format matches the extension or content"))
	}
	if err != nil {
		return nil, newError(KindParse, path, fmt.Errorf("%s: %w", format, err))
	}
	return &File{Path: path, Format: format, Encoding: codec.name, codec: codec, doc: doc}, nil
}

// Entries returns the timed lines in file order.
func (f *File) Entries() []Entry {
	return f.doc.entries()
}

// Intervals returns the timing of every entry in file order.
func (f *File) Intervals() []timing.Interval {
	entries := f.doc.entries()
	out := make([]timing.Interval, len(entries))
	for i, e := range entries {
		out[i] = e.Interval
	}
	return out
}

// UpdateEntries replaces the timing of every entry, in file order. Text and
// formatting are kept.
func (f *File) UpdateEntries(intervals []timing.Interval) error {
	if n := len(f.doc.entries()); n != len(intervals) {
		return newError(KindEntries, f.Path, fmt.Errorf("%w: file has %d entries, got %d timings", ErrEntryCount, n, len(intervals)))
	}
	if err := f.doc.update(intervals); err != nil {
		return newError(KindEntries, f.Path, err)
	}
	return nil
}

// Bytes serializes the file in its original format and encoding.
func (f *File) Bytes() ([]byte, error) {
	data, err := f.codec.encode(f.doc.render())
	if err != nil {
		return nil, newError(KindEntries, f.Path, err)
	}
	return data, nil
}

// CreateSRT renders entries as a new UTF-8 SubRip file.
func CreateSRT(entries []Entry) []byte {
	doc := &srtDocument{}
	for _, e := range entries {
		doc.cues = append(doc.cues, srtCue{interval: e.Interval, text: strings.Split(e.Text, "\n")})
	}
	return []byte(doc.render())
}
