package scraper

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const halfMinute = "½"

// ParseHalfMinute parses a compact timetable time, "HHMM" or "HHMM½", into an
// offset from midnight. The half suffix adds thirty seconds.
func ParseHalfMinute(text string) (time.Duration, bool) {
	text = strings.TrimSpace(text)

	var offset time.Duration
	if strings.HasSuffix(text, halfMinute) {
		text = strings.TrimSpace(strings.TrimSuffix(text, halfMinute))
		offset = 30 * time.Second
	}

	if len(text) != 4 {
		return 0, false
	}
	hours, err := strconv.Atoi(text[:2])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(text[2:])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}

	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + offset, true
}

// FormatHalfMinute is the inverse of ParseHalfMinute for offsets within one day.
func FormatHalfMinute(d time.Duration) string {
	d = d % (24 * time.Hour)
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)

	s := fmt.Sprintf("%02d%02d", hours, minutes)
	if (d % time.Minute) >= 30*time.Second {
		s += halfMinute
	}
	return s
}

// ParseClock parses "HH:MM" into an offset from midnight.
func ParseClock(text string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (want HH:MM): %w", text, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// ParseDate parses "YYYY-MM-DD" into midnight of that day.
func ParseDate(text string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", text, err)
	}
	return d, nil
}
