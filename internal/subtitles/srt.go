package subtitles

import (
	"fmt"
	"strconv"
	"strings"

	"subalign/internal/timing"
)

type srtCue struct {
	interval timing.Interval
	// suffix holds anything after the end timestamp, such as positions.
	suffix string
	text   []string
}

type srtDocument struct {
	cues []srtCue
}

func parseSRT(text string) (*srtDocument, error) {
	doc := &srtDocument{}
	lines := strings.Split(text, "\n")
	i := 0
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}
		blockStart := i
		// Optional cue number.
		if _, err := strconv.Atoi(strings.TrimSpace(lines[i])); err == nil && i+1 < len(lines) && strings.Contains(lines[i+1], "-->") {
			i++
		}
		if !strings.Contains(lines[i], "-->") {
			// Text separated from its cue by a blank line.
			if len(doc.cues) == 0 {
				return nil, &lineError{Line: blockStart + 1, Msg: "expected a timing line"}
			}
			last := &doc.cues[len(doc.cues)-1]
			last.text = append(last.text, "")
			for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
				last.text = append(last.text, lines[i])
				i++
			}
			continue
		}
		cue, err := parseSRTTiming(lines[i])
		if err != nil {
			return nil, &lineError{Line: i + 1, Msg: err.Error()}
		}
		i++
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			cue.text = append(cue.text, lines[i])
			i++
		}
		doc.cues = append(doc.cues, cue)
	}
	return doc, nil
}

func parseSRTTiming(line string) (srtCue, error) {
	parts := strings.SplitN(line, "-->", 2)
	start, err := parseClock(parts[0], ",.")
	if err != nil {
		return srtCue{}, err
	}
	rest := strings.TrimSpace(parts[1])
	endText, suffix := rest, ""
	if idx := strings.IndexAny(rest, " \t"); idx >= 0 {
		endText, suffix = rest[:idx], rest[idx:]
	}
	end, err := parseClock(endText, ",.")
	if err != nil {
		return srtCue{}, err
	}
	return srtCue{interval: timing.NewInterval(start, end), suffix: suffix}, nil
}

func (d *srtDocument) entries() []Entry {
	out := make([]Entry, len(d.cues))
	for i, c := range d.cues {
		out[i] = Entry{Interval: c.interval, Text: strings.Join(c.text, "\n")}
	}
	return out
}

func (d *srtDocument) update(intervals []timing.Interval) error {
	for i := range d.cues {
		d.cues[i].interval = intervals[i]
	}
	return nil
}

func (d *srtDocument) render() string {
	var b strings.Builder
	for i, c := range d.cues {
		fmt.Fprintf(&b, "%d\n%s --> %s%s\n", i+1, formatSRTTime(c.interval.Start), formatSRTTime(c.interval.End), c.suffix)
		for _, line := range c.text {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
