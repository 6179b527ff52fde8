// Package schedule reads user-written comparison timetables.
package schedule

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jprince8/py-train-graph/pkg/route"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// Lookup resolves a location key to its distance along the route.
type Lookup interface {
	Distance(location string) (float64, bool)
}

// Point is one arrival or departure of a manual schedule.
type Point struct {
	Time     time.Time
	Distance float64
}

// Schedule is a parsed custom timetable. Its headcode is the file stem.
type Schedule struct {
	Headcode string
	Path     string
	Points   []Point
}

type scheduleRow struct {
	Location string `csv:"Location"`
	Arr      string `csv:"Arr"`
	Dep      string `csv:"Dep"`
}

// Load reads a schedule CSV with the columns Location, Arr and Dep (HH:MM:SS).
// Times are offsets from midnight of date ("YYYY-MM-DD"); hours past 23 run
// into the next day, but no other midnight adjustment is made.
func Load(path string, lookup Lookup, date string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read schedule %s: %w", path, err)
	}

	base := filepath.Base(path)
	points, err := Parse(data, lookup, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", base, err)
	}

	return &Schedule{
		Headcode: strings.TrimSuffix(base, filepath.Ext(base)),
		Path:     path,
		Points:   points,
	}, nil
}

// Parse turns schedule CSV bytes into time-sorted points, one per non-empty
// Arr or Dep cell. Rows whose location is not on the route are dropped; a file
// with no route locations at all is an error.
func Parse(data []byte, lookup Lookup, date string) ([]Point, error) {
	midnight, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", date, err)
	}

	var rows []scheduleRow
	if err := route.DecodeCSV(data, &rows, "Location", "Arr", "Dep"); err != nil {
		return nil, err
	}

	var points []Point
	matched := 0
	for i, row := range rows {
		location := route.StripAnnotation(row.Location)
		distance, ok := lookup.Distance(location)
		if !ok {
			log.Debug().Str("location", location).Msg("Schedule location not on route, dropping row")
			continue
		}
		matched++

		for _, cell := range []string{row.Arr, row.Dep} {
			offset, present, err := parseOffset(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d (%s): %w", i+2, location, err)
			}
			if present {
				points = append(points, Point{Time: midnight.Add(offset), Distance: distance})
			}
		}
	}

	if matched == 0 {
		return nil, fmt.Errorf("contains no recognised locations")
	}

	slices.SortStableFunc(points, func(a, b Point) int {
		return a.Time.Compare(b.Time)
	})
	return points, nil
}

// parseOffset reads "HH:MM:SS" (or "HH:MM") as a duration since midnight.
// Hours are not capped at 23.
func parseOffset(cell string) (time.Duration, bool, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false, nil
	}

	parts := strings.Split(cell, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false, fmt.Errorf("invalid time %q (want HH:MM:SS)", cell)
	}

	units := []time.Duration{time.Hour, time.Minute, time.Second}
	var offset time.Duration
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || (i > 0 && n > 59) {
			return 0, false, fmt.Errorf("invalid time %q (want HH:MM:SS)", cell)
		}
		offset += time.Duration(n) * units[i]
	}

	return offset, true, nil
}
