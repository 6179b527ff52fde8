// Package route loads the distance table that forms the vertical axis of a graph.
package route

import (
	"bytes"
	"cmp"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
	"golang.org/x/text/unicode/norm"
)

var annotationPattern = regexp.MustCompile(`\[.*?\]`)

func init() {
	// headers such as "Location, Distance (mi)" must match the struct tags
	gocsv.SetHeaderNormalizer(strings.TrimSpace)
}

// StripAnnotation removes every "[...]" segment from a location label and returns
// the canonical key used for matching, e.g. "Reading [RDG]" -> "Reading".
func StripAnnotation(label string) string {
	stripped := annotationPattern.ReplaceAllString(label, "")
	return strings.TrimSpace(norm.NFKC.String(stripped))
}

// Entry is one row of a distance table.
type Entry struct {
	Location string  // bracket-stripped key
	Label    string  // label as written in the file
	Distance float64 // miles, negated on reversed routes
}

// Major reports whether the entry is a labelled location on the axis.
func (e Entry) Major() bool {
	return strings.Contains(e.Label, "[")
}

// Map is an immutable, distance-ordered table of route locations.
type Map struct {
	Name     string
	Reversed bool

	entries []Entry
	index   map[string]int
}

type distanceRow struct {
	Location string `csv:"Location"`
	Distance string `csv:"Distance (mi)"`
}

// Load reads a route CSV with the columns "Location" and "Distance (mi)".
// The map is named after the file stem.
func Load(path string, reversed bool) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read route file %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := Parse(data, name, reversed)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return m, nil
}

// Parse builds a Map from CSV bytes. Duplicate keys after annotation stripping
// keep the first row and log the rest.
func Parse(data []byte, name string, reversed bool) (*Map, error) {
	var rows []distanceRow
	if err := DecodeCSV(data, &rows, "Location", "Distance (mi)"); err != nil {
		return nil, err
	}

	m := &Map{
		Name:     name,
		Reversed: reversed,
		index:    make(map[string]int, len(rows)),
	}

	seen := make(map[string]bool, len(rows))
	for i, row := range rows {
		key := StripAnnotation(row.Location)
		if key == "" {
			continue
		}
		if seen[key] {
			log.Warn().Str("route", name).Str("location", key).Msg("Duplicate location in distance table, keeping the first")
			continue
		}
		seen[key] = true

		distance, err := strconv.ParseFloat(strings.TrimSpace(row.Distance), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): invalid distance %q", i+2, key, row.Distance)
		}
		if reversed {
			distance = -distance
		}
		m.entries = append(m.entries, Entry{
			Location: key,
			Label:    strings.TrimSpace(row.Location),
			Distance: distance,
		})
	}

	slices.SortStableFunc(m.entries, func(a, b Entry) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	for i, e := range m.entries {
		m.index[e.Location] = i
	}

	log.Debug().Str("route", name).Int("locations", len(m.entries)).Bool("reversed", reversed).Msg("Loaded distance table")
	return m, nil
}

// Distance returns the signed distance of a location key.
func (m *Map) Distance(location string) (float64, bool) {
	i, ok := m.index[location]
	if !ok {
		return 0, false
	}
	return m.entries[i].Distance, true
}

// Contains reports whether a location key is on the route.
func (m *Map) Contains(location string) bool {
	_, ok := m.index[location]
	return ok
}

// Entries returns the rows sorted ascending by distance.
func (m *Map) Entries() []Entry {
	return slices.Clone(m.entries)
}

// Len returns the number of locations.
func (m *Map) Len() int {
	return len(m.entries)
}

// DecodeCSV checks that the header carries every required column, then decodes
// the rows into out with gocsv. Header names are matched with surrounding
// spaces removed.
func DecodeCSV(data []byte, out any, required ...string) error {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return fmt.Errorf("could not read CSV header: %w", err)
	}
	if err := RequireColumns(header, required...); err != nil {
		return err
	}
	if err := gocsv.UnmarshalBytes(data, out); err != nil {
		return fmt.Errorf("could not decode CSV rows: %w", err)
	}
	return nil
}

// RequireColumns checks that a CSV header carries every required column.
func RequireColumns(header []string, required ...string) error {
	present := make([]string, len(header))
	for i, h := range header {
		present[i] = strings.TrimSpace(h)
	}

	var missing []string
	for _, col := range required {
		if !slices.Contains(present, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns %s", strings.Join(missing, ", "))
	}
	return nil
}
