package exporter

import (
	"fmt"
	"io"
	"time"

	"github.com/jprince8/py-train-graph/pkg/graph"

	ics "github.com/arran4/golang-ical"
)

// GenerateICS writes one event per plotted service, spanning its time inside
// the chart window, and writes the calendar to w.
func GenerateICS(chart *graph.Chart, w io.Writer) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetName(chart.Title())

	// Timetable times are local to Great Britain
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		return fmt.Errorf("could not load timezone: %w", err)
	}

	now := time.Now()
	for i, trace := range chart.Traces {
		if len(trace.Visible) == 0 {
			continue
		}
		first, last := trace.Visible[0], trace.Visible[0]
		for _, p := range trace.Visible[1:] {
			if p.Time.Before(first.Time) {
				first = p
			}
			if p.Time.After(last.Time) {
				last = p
			}
		}

		event := cal.AddEvent(fmt.Sprintf("%s-%s-%d@traingraph", chart.FileBase(), trace.Headcode, i))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetModifiedAt(now)
		event.SetStartAt(inLocation(first.Time, loc))
		event.SetEndAt(inLocation(last.Time, loc))
		event.SetLocation(chart.Route.Name)

		summary := trace.Headcode
		if trace.Operator != "" {
			summary += " " + trace.Operator
		}
		event.SetSummary(summary)

		description := fmt.Sprintf("Source: %s\nMiles: %.1f to %.1f", trace.Source, first.Distance, last.Distance)
		event.SetDescription(description)
	}

	return cal.SerializeTo(w)
}

// inLocation reads the wall-clock fields of t as a time in loc.
func inLocation(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}
