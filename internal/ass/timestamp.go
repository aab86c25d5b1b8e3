package ass

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp converts an ASS timestamp (H:MM:SS.cc) to a duration.
// Fractions of one to three digits are accepted.
func ParseTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(parts[0])
	minutes, errM := strconv.Atoi(parts[1])
	secText, fracText, _ := strings.Cut(parts[2], ".")
	seconds, errS := strconv.Atoi(secText)
	if errH != nil || errM != nil || errS != nil || hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	var frac time.Duration
	if fracText != "" {
		if len(fracText) > 3 {
			fracText = fracText[:3]
		}
		n, err := strconv.Atoi(fracText)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		for i := len(fracText); i < 3; i++ {
			n *= 10
		}
		frac = time.Duration(n) * time.Millisecond
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second + frac, nil
}

// FormatTimestamp renders a duration as H:MM:SS.cc rounded to the nearest
// centisecond. Negative durations clamp to zero.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	cs := (d + 5*time.Millisecond) / (10 * time.Millisecond)
	h := cs / 360000
	cs -= h * 360000
	m := cs / 6000
	cs -= m * 6000
	s := cs / 100
	cs -= s * 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}
