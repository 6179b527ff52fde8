package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jprince8/py-train-graph/pkg/config"
	"github.com/jprince8/py-train-graph/pkg/route"
	"github.com/jprince8/py-train-graph/pkg/schedule"
	"github.com/jprince8/py-train-graph/pkg/scraper"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Fetcher returns the HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Request describes one chart.
type Request struct {
	RouteCSV        string
	Locations       []string
	Date            string // YYYY-MM-DD
	StartTime       string // HH:MM
	EndTime         string // HH:MM
	MarginHours     int
	CustomSchedules []string // paths to schedule CSVs
	Limit           int      // scraped services to plot, 0 for no limit
	Direction       string   // "up", "down" or empty
	ReverseRoute    bool
	AlwaysInclude   []string

	// SameCustomColour draws every manual schedule in the first palette colour.
	SameCustomColour bool
}

// Builder turns a Request into a Chart by scraping and filtering services.
type Builder struct {
	Fetcher  Fetcher
	Settings *config.AppConfig

	// Now resolves pages that show a departure of "today". Defaults to time.Now.
	Now func() time.Time

	// Progress, when set, is told what the builder is working on.
	Progress func(status string)
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Builder) progress(format string, args ...any) {
	if b.Progress != nil {
		b.Progress(fmt.Sprintf(format, args...))
	}
}

// Build loads the route, scrapes every service found on the search pages and
// adds the manual schedules. A chart with no traces is returned without error.
func (b *Builder) Build(ctx context.Context, req Request) (*Chart, error) {
	direction, err := ParseDirection(req.Direction)
	if err != nil {
		return nil, err
	}
	window, err := NewWindow(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	routeMap, err := route.Load(req.RouteCSV, req.ReverseRoute)
	if err != nil {
		return nil, err
	}

	chart := &Chart{
		Route:     routeMap,
		Window:    window,
		Direction: direction,
	}
	filter := DirectionFilter{
		Direction:     direction,
		Rule:          Rule(b.Settings.DirectionRule),
		Reversed:      req.ReverseRoute,
		AlwaysInclude: normaliseHeadcodes(req.AlwaysInclude),
	}

	links, err := b.serviceLinks(ctx, req)
	if err != nil {
		return nil, err
	}

	scraped := 0
	seen := make(map[string]bool, len(links))
	for _, link := range links {
		if req.Limit > 0 && scraped >= req.Limit {
			log.Info().Int("limit", req.Limit).Msg("Service limit reached")
			break
		}
		if seen[link] {
			continue
		}
		seen[link] = true

		b.progress("Scraping service %d of %d", len(seen), len(links))
		trace, err := b.scrapedTrace(ctx, link, routeMap, window, filter)
		if err != nil {
			return nil, err
		}
		if trace == nil {
			continue
		}
		chart.Traces = append(chart.Traces, *trace)
		scraped++
	}

	palette := newPalette(b.Settings.CustomPalette, req.SameCustomColour)
	for _, path := range req.CustomSchedules {
		b.progress("Reading %s", path)
		sched, err := schedule.Load(path, routeMap, req.Date)
		if err != nil {
			return nil, err
		}

		trace := Trace{
			Headcode: sched.Headcode,
			Source:   path,
			Manual:   true,
		}
		for _, p := range sched.Points {
			trace.Points = append(trace.Points, Point{Time: p.Time, Distance: p.Distance})
		}
		trace.Visible = window.Visible(trace.Points)
		if len(trace.Visible) == 0 {
			log.Info().Str("schedule", sched.Headcode).Msg("Custom schedule has no points in the window")
			continue
		}
		if !filter.Accept(trace.Headcode, trace.Distances()) {
			log.Info().Str("schedule", sched.Headcode).Str("direction", string(direction)).Msg("Custom schedule runs the other way, skipping")
			continue
		}

		trace.Colour = palette.next()
		chart.Traces = append(chart.Traces, trace)
		chart.ManualHeadcodes = append(chart.ManualHeadcodes, trace.Headcode)
	}

	if chart.Empty() {
		log.Warn().Str("route", routeMap.Name).Msg("No services to plot")
	}
	return chart, nil
}

func (b *Builder) serviceLinks(ctx context.Context, req Request) ([]string, error) {
	urls, err := scraper.SearchURLs(b.Settings.SearchURLTemplate, req.Locations, scraper.SearchWindow{
		Date:        req.Date,
		Start:       req.StartTime,
		End:         req.EndTime,
		MarginHours: req.MarginHours,
	})
	if err != nil {
		return nil, err
	}

	var links []string
	for i, url := range urls {
		b.progress("Fetching search page %d of %d", i+1, len(urls))
		html, err := b.Fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		found, err := scraper.ParseServiceLinks(html, b.Settings.SiteBaseURL)
		if err != nil {
			return nil, fmt.Errorf("could not parse search page %s: %w", url, err)
		}
		log.Debug().Str("url", url).Int("services", len(found)).Msg("Parsed search page")
		links = append(links, found...)
	}
	return links, nil
}

// scrapedTrace returns nil without error for services that are skipped.
func (b *Builder) scrapedTrace(ctx context.Context, link string, routeMap *route.Map, window Window, filter DirectionFilter) (*Trace, error) {
	html, err := b.Fetcher.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	page, err := scraper.NewServicePage(html)
	if err != nil {
		return nil, fmt.Errorf("could not parse service page %s: %w", link, err)
	}
	meta, err := page.Meta(b.now())
	if err != nil {
		if b.Settings.StrictParse || !errors.Is(err, scraper.ErrParse) {
			return nil, fmt.Errorf("%s: %w", link, err)
		}
		log.Warn().Err(err).Str("url", link).Msg("Skipping service page")
		return nil, nil
	}

	logger := log.With().Str("headcode", meta.Headcode).Str("operator", meta.Operator).Logger()
	if meta.IsBus {
		logger.Debug().Msg("Skipping bus")
		return nil, nil
	}
	if slices.Contains(b.Settings.IgnoreOperators, meta.Operator) {
		logger.Debug().Msg("Skipping ignored operator")
		return nil, nil
	}

	calls := page.CallingPoints(routeMap, meta.Date)
	if len(calls) == 0 {
		logger.Debug().Msg("Service does not run along the route")
		return nil, nil
	}

	trace := Trace{
		Headcode: meta.Headcode,
		Operator: meta.Operator,
		Source:   link,
		Points:   flatten(calls),
	}
	trace.Visible = window.Visible(trace.Points)
	if len(trace.Visible) == 0 {
		logger.Debug().Msg("Service is outside the window")
		return nil, nil
	}
	if !filter.Accept(trace.Headcode, trace.Distances()) {
		logger.Debug().Msg("Service runs the other way")
		return nil, nil
	}

	colour, known := b.Settings.OperatorColour(meta.Operator)
	if !known {
		logger.Debug().Msg("Operator has no colour, using the fallback")
	}
	trace.Colour = colour

	logger.Info().Int("points", len(trace.Points)).Msg("Plotting service")
	return &trace, nil
}

// flatten lists arrival then departure for every call, skipping absent times.
func flatten(calls []scraper.CallingPoint) []Point {
	var points []Point
	for _, c := range calls {
		if !c.Arrival.IsZero() {
			points = append(points, Point{Time: c.Arrival, Distance: c.Distance})
		}
		if !c.Departure.IsZero() {
			points = append(points, Point{Time: c.Departure, Distance: c.Distance})
		}
	}
	return points
}

// palette hands out manual-schedule colours in rotation.
type palette struct {
	colours []string
	same    bool
	i       int
}

func newPalette(colours []string, same bool) *palette {
	if len(colours) == 0 {
		colours = config.Default().CustomPalette
	}
	return &palette{colours: colours, same: same}
}

func (p *palette) next() string {
	if p.same {
		return p.colours[0]
	}
	c := p.colours[p.i%len(p.colours)]
	p.i++
	return c
}

// normaliseHeadcodes upper-cases and trims a headcode list.
func normaliseHeadcodes(hcs []string) []string {
	out := make([]string, 0, len(hcs))
	for _, hc := range hcs {
		if hc = strings.ToUpper(strings.TrimSpace(hc)); hc != "" {
			out = append(out, hc)
		}
	}
	return out
}
