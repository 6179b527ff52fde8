package graph

import (
	"fmt"
	"time"

	"github.com/jprince8/py-train-graph/pkg/scraper"
)

// Window is the visible part of the time axis on one date.
type Window struct {
	Date  time.Time
	Start time.Duration
	End   time.Duration
}

// NewWindow parses a "YYYY-MM-DD" date and "HH:MM" bounds.
func NewWindow(date, start, end string) (Window, error) {
	var w Window
	var err error

	if w.Date, err = scraper.ParseDate(date); err != nil {
		return w, err
	}
	if w.Start, err = scraper.ParseClock(start); err != nil {
		return w, err
	}
	if w.End, err = scraper.ParseClock(end); err != nil {
		return w, err
	}
	if w.End < w.Start {
		return w, fmt.Errorf("window end %s is before start %s", end, start)
	}
	return w, nil
}

// From returns the first visible instant.
func (w Window) From() time.Time {
	return w.Date.Add(w.Start)
}

// To returns the last visible instant.
func (w Window) To() time.Time {
	return w.Date.Add(w.End)
}

// Contains reports whether t is inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From()) && !t.After(w.To())
}

// Visible returns the points inside the window, in order.
func (w Window) Visible(points []Point) []Point {
	var visible []Point
	for _, p := range points {
		if w.Contains(p.Time) {
			visible = append(visible, p)
		}
	}
	return visible
}
