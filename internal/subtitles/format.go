package subtitles

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
)

// Format identifies a supported subtitle format.
type Format int

const (
	FormatUnknown Format = iota
	FormatSRT
	FormatSSA
	FormatMicroDVD
	FormatVobSubIdx
)

func (f Format) String() string {
	switch f {
	case FormatSRT:
		return "SubRip (.srt)"
	case FormatSSA:
		return "SubStation Alpha (.ssa/.ass)"
	case FormatMicroDVD:
		return "MicroDVD (.sub)"
	case FormatVobSubIdx:
		return "VobSub index (.idx)"
	default:
		return "unknown"
	}
}

// HasEndTimes reports whether the format stores explicit end timestamps.
func (f Format) HasEndTimes() bool {
	return f != FormatVobSubIdx
}

var extensions = map[Format][]string{
	FormatSRT:       {".srt"},
	FormatSSA:       {".ssa", ".ass"},
	FormatMicroDVD:  {".sub", ".txt"},
	FormatVobSubIdx: {".idx"},
}

// ValidExtension reports whether path carries an extension that format can
// be written to.
func ValidExtension(format Format, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range extensions[format] {
		if ext == candidate {
			return true
		}
	}
	return false
}

// IsSubtitlePath reports whether the extension of path belongs to a
// subtitle format. Everything else is treated as media.
func IsSubtitlePath(path string) bool {
	return FormatForExtension(path) != FormatUnknown
}

// FormatForExtension maps the extension of path to a format. ".txt" is left
// unknown so the content decides.
func FormatForExtension(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT
	case ".ssa", ".ass":
		return FormatSSA
	case ".sub":
		return FormatMicroDVD
	case ".idx":
		return FormatVobSubIdx
	default:
		return FormatUnknown
	}
}

var (
	microDVDLine = regexp.MustCompile(`^\{-?\d+\}\{-?\d*\}`)
	srtTimingRe  = regexp.MustCompile(`\d+:\d+:\d+[,.]\d+\s*-->`)
)

// sniffFormat guesses the format of decoded text.
func sniffFormat(text string) Format {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, "# VobSub index file"):
		return FormatVobSubIdx
	case strings.Contains(trimmed, "[Script Info]") || strings.Contains(trimmed, "[Events]"):
		return FormatSSA
	case srtTimingRe.MatchString(trimmed):
		return FormatSRT
	}
	for _, line := range strings.SplitN(trimmed, "\n", 8) {
		if microDVDLine.MatchString(strings.TrimSpace(line)) {
			return FormatMicroDVD
		}
	}
	return FormatUnknown
}

// detectFormat uses the extension when it names a text format and the
// content otherwise. A ".sub" file that is not MicroDVD text is a binary
// VobSub stream and is rejected.
func detectFormat(path string, raw []byte, text string) Format {
	byExt := FormatForExtension(path)
	if byExt == FormatMicroDVD {
		if bytes.HasPrefix(raw, []byte{0x00, 0x00, 0x01, 0xba}) {
			return FormatUnknown
		}
		return FormatMicroDVD
	}
	if byExt != FormatUnknown {
		return byExt
	}
	return sniffFormat(text)
}
