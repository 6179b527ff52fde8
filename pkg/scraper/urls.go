package scraper

import (
	"fmt"
	"strings"
	"time"
)

const lastMinute = 23*time.Hour + 59*time.Minute

// SearchWindow is the time range a set of search pages must cover.
type SearchWindow struct {
	Date        string // YYYY-MM-DD
	Start       string // HH:MM
	End         string // HH:MM
	MarginHours int    // applied to the start only
}

// SearchURLs builds the search-page URLs covering [start-margin, end] for every
// location. The end is clamped to 23:59. When the extended start falls before
// midnight each location gets two URLs: the previous day up to 23:59, then the
// given day from 00:00.
//
// template placeholders: {loc}, {date}, {start}, {end}.
func SearchURLs(template string, locations []string, w SearchWindow) ([]string, error) {
	date, err := ParseDate(w.Date)
	if err != nil {
		return nil, err
	}
	start, err := ParseClock(w.Start)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(w.End)
	if err != nil {
		return nil, err
	}
	if w.MarginHours < 0 {
		return nil, fmt.Errorf("margin hours must not be negative, got %d", w.MarginHours)
	}

	extendedStart := start - time.Duration(w.MarginHours)*time.Hour
	if extendedStart < -24*time.Hour {
		return nil, fmt.Errorf("margin of %d hours reaches back more than one day", w.MarginHours)
	}
	end = min(end, lastMinute)

	build := func(loc string, day time.Time, from, to time.Duration) string {
		return strings.NewReplacer(
			"{loc}", loc,
			"{date}", day.Format("2006-01-02"),
			"{start}", clockDigits(from),
			"{end}", clockDigits(to),
		).Replace(template)
	}

	var urls []string
	for _, loc := range locations {
		if extendedStart < 0 {
			urls = append(urls,
				build(loc, date.AddDate(0, 0, -1), extendedStart+24*time.Hour, lastMinute),
				build(loc, date, 0, end),
			)
			continue
		}
		urls = append(urls, build(loc, date, min(extendedStart, lastMinute), end))
	}

	return urls, nil
}

func clockDigits(d time.Duration) string {
	return fmt.Sprintf("%02d%02d", int(d/time.Hour), int((d%time.Hour)/time.Minute))
}
