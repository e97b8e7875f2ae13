package subtitles

import (
	"fmt"
	"strings"

	"subalign/internal/timing"
)

var defaultSSAFields = []string{"layer", "start", "end", "style", "name", "marginl", "marginr", "marginv", "effect", "text"}

type ssaEvent struct {
	line     int
	key      string
	fields   []string
	interval timing.Interval
	startIdx int
	endIdx   int
	textIdx  int
}

type ssaDocument struct {
	lines  []string
	events []ssaEvent
}

func parseSSA(text string) (*ssaDocument, error) {
	doc := &ssaDocument{lines: strings.Split(text, "\n")}
	section := ""
	fields := defaultSSAFields
	for n, raw := range doc.lines {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(line)
			continue
		}
		if section != "[events]" {
			continue
		}
		key, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Format":
			fields = nil
			for _, f := range strings.Split(rest, ",") {
				fields = append(fields, strings.ToLower(strings.TrimSpace(f)))
			}
		case "Dialogue":
			ev, err := parseSSAEvent(n, "Dialogue", rest, fields)
			if err != nil {
				return nil, &lineError{Line: n + 1, Msg: err.Error()}
			}
			doc.events = append(doc.events, ev)
		}
	}
	return doc, nil
}

func parseSSAEvent(line int, key, rest string, fields []string) (ssaEvent, error) {
	ev := ssaEvent{line: line, key: key, startIdx: -1, endIdx: -1, textIdx: -1}
	for i, f := range fields {
		switch f {
		case "start":
			ev.startIdx = i
		case "end":
			ev.endIdx = i
		case "text":
			ev.textIdx = i
		}
	}
	if ev.startIdx < 0 || ev.endIdx < 0 {
		return ssaEvent{}, fmt.Errorf("format line lacks start or end field")
	}
	ev.fields = strings.SplitN(rest, ",", len(fields))
	if len(ev.fields) <= max(ev.startIdx, ev.endIdx) {
		return ssaEvent{}, fmt.Errorf("expected %d fields, got %d", len(fields), len(ev.fields))
	}
	start, err := parseClock(ev.fields[ev.startIdx], ".")
	if err != nil {
		return ssaEvent{}, err
	}
	end, err := parseClock(ev.fields[ev.endIdx], ".")
	if err != nil {
		return ssaEvent{}, err
	}
	ev.interval = timing.NewInterval(start, end)
	return ev, nil
}

func (d *ssaDocument) entries() []Entry {
	out := make([]Entry, len(d.events))
	for i, ev := range d.events {
		text := ""
		if ev.textIdx >= 0 && ev.textIdx < len(ev.fields) {
			text = strings.ReplaceAll(ev.fields[ev.textIdx], `\N`, "\n")
		}
		out[i] = Entry{Interval: ev.interval, Text: text}
	}
	return out
}

func (d *ssaDocument) update(intervals []timing.Interval) error {
	for i := range d.events {
		ev := &d.events[i]
		ev.interval = intervals[i]
		ev.fields[ev.startIdx] = keepIndent(ev.fields[ev.startIdx], formatSSATime(ev.interval.Start))
		ev.fields[ev.endIdx] = keepIndent(ev.fields[ev.endIdx], formatSSATime(ev.interval.End))
		d.lines[ev.line] = leadingSpace(d.lines[ev.line]) + ev.key + ":" + strings.Join(ev.fields, ",")
	}
	return nil
}

func (d *ssaDocument) render() string {
	return strings.Join(d.lines, "\n")
}

func keepIndent(old, value string) string {
	return leadingSpace(old) + value
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
