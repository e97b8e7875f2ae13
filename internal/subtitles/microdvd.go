package subtitles

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"subalign/internal/timing"
)

var microDVDCue = regexp.MustCompile(`^\{(-?\d+)\}\{(-?\d*)\}(.*)$`)

type microDVDCueLine struct {
	line     int
	interval timing.Interval
	text     string
}

type microDVDDocument struct {
	fps   float64
	lines []string
	cues  []microDVDCueLine
}

func parseMicroDVD(text string, fps float64) (*microDVDDocument, error) {
	doc := &microDVDDocument{fps: fps, lines: strings.Split(text, "\n")}
	first := true
	for n, raw := range doc.lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		m := microDVDCue.FindStringSubmatch(line)
		if m == nil {
			return nil, &lineError{Line: n + 1, Msg: "expected {start}{end}text"}
		}
		startFrame, _ := strconv.ParseInt(m[1], 10, 64)
		endFrame := startFrame
		if m[2] != "" {
			endFrame, _ = strconv.ParseInt(m[2], 10, 64)
		}
		// A leading {1}{1}<fps> line declares the frame rate.
		if first && startFrame == 1 && endFrame == 1 {
			if declared, err := strconv.ParseFloat(strings.TrimSpace(m[3]), 64); err == nil && declared > 0 {
				doc.fps = declared
				first = false
				continue
			}
		}
		first = false
		doc.cues = append(doc.cues, microDVDCueLine{
			line:     n,
			interval: timing.NewInterval(doc.frameToMillis(startFrame), doc.frameToMillis(endFrame)),
			text:     m[3],
		})
	}
	return doc, nil
}

func (d *microDVDDocument) frameToMillis(frame int64) int64 {
	return int64(math.Round(float64(frame) * 1000 / d.fps))
}

func (d *microDVDDocument) millisToFrame(ms int64) int64 {
	return int64(math.Round(float64(ms) * d.fps / 1000))
}

func (d *microDVDDocument) entries() []Entry {
	out := make([]Entry, len(d.cues))
	for i, c := range d.cues {
		out[i] = Entry{Interval: c.interval, Text: strings.ReplaceAll(c.text, "|", "\n")}
	}
	return out
}

func (d *microDVDDocument) update(intervals []timing.Interval) error {
	for i := range d.cues {
		c := &d.cues[i]
		c.interval = intervals[i]
		d.lines[c.line] = "{" + strconv.FormatInt(d.millisToFrame(c.interval.Start), 10) + "}{" +
			strconv.FormatInt(d.millisToFrame(c.interval.End), 10) + "}" + c.text
	}
	return nil
}

func (d *microDVDDocument) render() string {
	return strings.Join(d.lines, "\n")
}
