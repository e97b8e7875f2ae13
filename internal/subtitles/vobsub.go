package subtitles

import (
	"fmt"
	"strconv"
	"strings"

	"subalign/internal/timing"
)

const idxTimestampKey = "timestamp:"

type idxCue struct {
	line  int
	start int64
	// rest is everything after the timestamp value, usually ", filepos: ...".
	rest string
}

// idxDocument holds a VobSub index. Only start times are stored; each entry
// lasts until the next one starts.
type idxDocument struct {
	lines []string
	cues  []idxCue
}

func parseIdx(text string) (*idxDocument, error) {
	doc := &idxDocument{lines: strings.Split(text, "\n")}
	for n, raw := range doc.lines {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, idxTimestampKey) {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(line, idxTimestampKey))
		rest := ""
		if idx := strings.Index(value, ","); idx >= 0 {
			value, rest = value[:idx], value[idx:]
		}
		start, err := parseIdxTime(value)
		if err != nil {
			return nil, &lineError{Line: n + 1, Msg: err.Error()}
		}
		doc.cues = append(doc.cues, idxCue{line: n, start: start, rest: rest})
	}
	return doc, nil
}

// parseIdxTime parses [-]HH:MM:SS:mmm.
func parseIdxTime(value string) (int64, error) {
	negative := strings.HasPrefix(value, "-")
	parts := strings.Split(strings.TrimPrefix(value, "-"), ":")
	if len(parts) != 4 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	var nums [4]int64
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		nums[i] = v
	}
	total := ((nums[0]*60+nums[1])*60+nums[2])*1000 + nums[3]
	if negative {
		total = -total
	}
	return total, nil
}

func (d *idxDocument) entries() []Entry {
	out := make([]Entry, len(d.cues))
	for i, c := range d.cues {
		end := c.start
		if i+1 < len(d.cues) {
			end = d.cues[i+1].start
		}
		out[i] = Entry{Interval: timing.NewInterval(c.start, end)}
	}
	return out
}

func (d *idxDocument) update(intervals []timing.Interval) error {
	for i := range d.cues {
		c := &d.cues[i]
		c.start = intervals[i].Start
		d.lines[c.line] = idxTimestampKey + " " + formatIdxTime(c.start) + c.rest
	}
	return nil
}

func (d *idxDocument) render() string {
	return strings.Join(d.lines, "\n")
}
