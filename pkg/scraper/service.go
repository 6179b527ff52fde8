package scraper

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jprince8/py-train-graph/pkg/config"
	"github.com/jprince8/py-train-graph/pkg/route"
)

// ErrParse marks a service page that lacks the elements needed to identify it.
var ErrParse = errors.New("unparsable service page")

const (
	serviceLinkCSS   = "a.service"
	callingPointCSS  = "div.location.call, div.location.pass"
	departureDateCSS = "div.header + small"
	operatorCSS      = "div.toc.h3 > div"
	busIconCSS       = "div.header span.glyphicons-bus"
)

var (
	todayPattern    = regexp.MustCompile(`(?i)\btoday\b`)
	longDatePattern = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)?\s+([A-Za-z]+)\s+(\d{4})`)
)

// ServiceMeta identifies a service from its detail page.
type ServiceMeta struct {
	Date     time.Time // departure date, midnight UTC
	Headcode string
	Operator string
	IsBus    bool
}

// CallingPoint is one timed location of a service. A zero Arrival or Departure
// means the page gave no usable time for it.
type CallingPoint struct {
	Location  string
	Arrival   time.Time
	Departure time.Time
	Distance  float64
}

// Service is a parsed detail page.
type Service struct {
	URL string
	ServiceMeta
	Calls []CallingPoint
}

// DistanceLookup resolves a location key to its distance along the route.
type DistanceLookup interface {
	Distance(location string) (float64, bool)
}

// ParseServiceLinks extracts the absolute detail-page URLs from a search page.
func ParseServiceLinks(html string, siteBaseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find(serviceLinkCSS).Each(func(i int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if exists && href != "" {
			links = append(links, strings.TrimSuffix(siteBaseURL, "/")+href)
		}
	})

	return links, nil
}

// ServicePage is a detail page parsed once and queried for its parts.
type ServicePage struct {
	doc *goquery.Document
}

// NewServicePage parses the HTML of a service detail page.
func NewServicePage(html string) (*ServicePage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &ServicePage{doc: doc}, nil
}

// Meta returns the departure date, headcode, operator and bus flag. today
// resolves a departure shown as "today".
func (p *ServicePage) Meta(today time.Time) (ServiceMeta, error) {
	var meta ServiceMeta

	meta.IsBus = p.doc.Find(busIconCSS).Length() > 0

	dateSel := p.doc.Find(departureDateCSS).First()
	if dateSel.Length() == 0 {
		return meta, fmt.Errorf("%w: no departure date element", ErrParse)
	}
	date, err := parseDepartureDate(strings.TrimSpace(dateSel.Text()), today)
	if err != nil {
		return meta, err
	}
	meta.Date = date

	headcode, err := headcodeFromTitle(p.doc.Find("title").First().Text())
	if err != nil {
		return meta, err
	}
	meta.Headcode = headcode

	meta.Operator = config.OtherOperator
	if op := strings.TrimSpace(p.doc.Find(operatorCSS).First().Text()); op != "" {
		meta.Operator = op
	}

	return meta, nil
}

func parseDepartureDate(raw string, today time.Time) (time.Time, error) {
	if todayPattern.MatchString(raw) {
		return time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	m := longDatePattern.FindStringSubmatch(raw)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: unable to parse departure date from %q", ErrParse, raw)
	}
	date, err := time.Parse("2 January 2006", fmt.Sprintf("%s %s %s", m[1], m[2], m[3]))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unable to parse departure date from %q", ErrParse, raw)
	}
	return date, nil
}

// headcodeFromTitle reads "... | 1A23 ..." page titles.
func headcodeFromTitle(title string) (string, error) {
	parts := strings.Split(title, "|")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: headcode not found in title %q", ErrParse, title)
	}
	fields := strings.Fields(parts[1])
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: headcode not found in title %q", ErrParse, title)
	}
	return strings.ToUpper(fields[0]), nil
}

type rawCall struct {
	location       string
	arr, dep       time.Duration
	hasArr, hasDep bool
}

// CallingPoints returns the page's calling points on route, anchored so the first
// departure falls on startDate. Times earlier than the first departure belong to
// the next day. Pages with fewer than two distinct route locations yield nil.
func (p *ServicePage) CallingPoints(lookup DistanceLookup, startDate time.Time) []CallingPoint {
	var raws []rawCall
	p.doc.Find(callingPointCSS).Each(func(i int, wrap *goquery.Selection) {
		name := wrap.ChildrenFiltered("a.name").First()
		if name.Length() == 0 {
			return
		}

		call := rawCall{location: route.StripAnnotation(name.Text())}
		if wtt := wrap.Find("div.wtt").First(); wtt.Length() > 0 {
			if txt := strings.TrimSpace(wtt.Find("div.arr").First().Text()); txt != "" && txt != "pass" {
				call.arr, call.hasArr = ParseHalfMinute(txt)
			}
			if txt := strings.TrimSpace(wtt.Find("div.dep").First().Text()); txt != "" {
				call.dep, call.hasDep = ParseHalfMinute(txt)
			}
		}
		raws = append(raws, call)
	})

	reference, ok := firstDeparture(raws)
	if !ok {
		return nil
	}

	midnight := time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, time.UTC)
	anchor := func(d time.Duration) time.Time {
		if d < reference {
			d += 24 * time.Hour
		}
		return midnight.Add(d)
	}

	var calls []CallingPoint
	distinct := make(map[string]bool)
	for _, raw := range raws {
		distance, known := lookup.Distance(raw.location)
		if !known {
			continue
		}

		call := CallingPoint{Location: raw.location, Distance: distance}
		if raw.hasArr {
			call.Arrival = anchor(raw.arr)
		}
		if raw.hasDep {
			call.Departure = anchor(raw.dep)
		}
		calls = append(calls, call)
		distinct[raw.location] = true
	}

	if len(distinct) < 2 {
		return nil
	}
	return calls
}

// firstDeparture is the first row's departure, or failing that the first time
// listed anywhere on the page.
func firstDeparture(raws []rawCall) (time.Duration, bool) {
	if len(raws) > 0 && raws[0].hasDep {
		return raws[0].dep, true
	}
	for _, raw := range raws {
		if raw.hasArr {
			return raw.arr, true
		}
		if raw.hasDep {
			return raw.dep, true
		}
	}
	return 0, false
}
