// Package graph assembles time-distance charts from scraped and manual
// timetables and renders them to PNG.
package graph

import (
	"fmt"
	"strings"
	"time"

	"github.com/jprince8/py-train-graph/pkg/route"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Point is one vertex of a trace.
type Point struct {
	Time     time.Time
	Distance float64
}

// Trace is one service drawn on the chart.
type Trace struct {
	Headcode string
	Operator string // empty for manual schedules
	Source   string // detail-page URL or schedule file
	Colour   string // hex
	Manual   bool
	Points   []Point // every point on the route, in order
	Visible  []Point // the points inside the window
}

// LabelPoint returns the rightmost visible point, where the headcode is drawn.
func (t Trace) LabelPoint() (Point, bool) {
	var label Point
	found := false
	for _, p := range t.Visible {
		if !found || p.Time.After(label.Time) {
			label, found = p, true
		}
	}
	return label, found
}

// Distances returns the distances of the visible points.
func (t Trace) Distances() []float64 {
	d := make([]float64, len(t.Visible))
	for i, p := range t.Visible {
		d[i] = p.Distance
	}
	return d
}

// Chart is everything the renderer needs for one graph.
type Chart struct {
	Route     *route.Map
	Window    Window
	Direction Direction
	Traces    []Trace

	// headcodes of the manual schedules that were plotted, in order
	ManualHeadcodes []string
}

// Empty reports whether nothing was accepted for plotting.
func (c *Chart) Empty() bool {
	return len(c.Traces) == 0
}

// Title returns "Route Name | date | start–end | Services: hc, hc".
func (c *Chart) Title() string {
	name := cases.Title(language.English).String(strings.ReplaceAll(c.Route.Name, "_", " "))
	return fmt.Sprintf("%s | %s | %s–%s | Services: %s",
		name,
		c.Window.Date.Format("2006-01-02"),
		clock(c.Window.Start, ":"),
		clock(c.Window.End, ":"),
		strings.Join(c.ManualHeadcodes, ", "),
	)
}

// FileBase returns the output file name without suffix, e.g.
// "london_to_oxford_2025-08-20_0800-1000_up_3Q90".
func (c *Chart) FileBase() string {
	dir := string(c.Direction)
	if c.Direction == DirectionAll {
		dir = "all"
	}

	parts := []string{
		c.Route.Name,
		c.Window.Date.Format("2006-01-02"),
		clock(c.Window.Start, "") + "-" + clock(c.Window.End, ""),
		dir,
	}
	parts = append(parts, c.ManualHeadcodes...)
	return strings.Join(parts, "_")
}

func clock(d time.Duration, sep string) string {
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%02d%s%02d", minutes/60, sep, minutes%60)
}
