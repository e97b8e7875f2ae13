package subtitles

import (
	"fmt"
	"strconv"
	"strings"
)

// parseClock parses [-]H:MM:SS followed by sep and a fraction, returning
// milliseconds. The fraction is read as a decimal (".5" is 500 ms).
func parseClock(value string, seps string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	negative := strings.HasPrefix(value, "-")
	body := strings.TrimPrefix(value, "-")

	clock, frac := body, ""
	if idx := strings.LastIndexAny(body, seps); idx >= 0 {
		clock, frac = body[:idx], body[idx+1:]
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.ParseInt(hms[0], 10, 64)
	minutes, errM := strconv.ParseInt(hms[1], 10, 64)
	seconds, errS := strconv.ParseInt(hms[2], 10, 64)
	if errH != nil || errM != nil || errS != nil || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	millis, err := parseFraction(frac)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	total := ((hours*60+minutes)*60+seconds)*1000 + millis
	if negative {
		total = -total
	}
	return total, nil
}

func parseFraction(frac string) (int64, error) {
	if frac == "" {
		return 0, nil
	}
	if len(frac) > 3 {
		frac = frac[:3]
	}
	for len(frac) < 3 {
		frac += "0"
	}
	v, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid fraction %q", frac)
	}
	return v, nil
}

type clockParts struct {
	sign                 string
	hours, minutes, secs int64
	millis               int64
}

func splitClock(ms int64) clockParts {
	p := clockParts{}
	if ms < 0 {
		p.sign = "-"
		ms = -ms
	}
	p.millis = ms % 1000
	total := ms / 1000
	p.secs = total % 60
	p.minutes = (total / 60) % 60
	p.hours = total / 3600
	return p
}

// formatSRTTime renders HH:MM:SS,mmm.
func formatSRTTime(ms int64) string {
	p := splitClock(ms)
	return fmt.Sprintf("%s%02d:%02d:%02d,%03d", p.sign, p.hours, p.minutes, p.secs, p.millis)
}

// formatSSATime renders H:MM:SS.cc, rounding to the nearest centisecond.
func formatSSATime(ms int64) string {
	var rounded int64
	if ms >= 0 {
		rounded = (ms + 5) / 10 * 10
	} else {
		rounded = -((-ms + 5) / 10 * 10)
	}
	p := splitClock(rounded)
	return fmt.Sprintf("%s%d:%02d:%02d.%02d", p.sign, p.hours, p.minutes, p.secs, p.millis/10)
}

// formatIdxTime renders HH:MM:SS:mmm.
func formatIdxTime(ms int64) string {
	p := splitClock(ms)
	return fmt.Sprintf("%s%02d:%02d:%02d:%03d", p.sign, p.hours, p.minutes, p.secs, p.millis)
}
