// Package preset loads saved plot requests from JSON or YAML files.
package preset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jprince8/py-train-graph/pkg/config"
	"github.com/jprince8/py-train-graph/pkg/graph"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// Preset is a saved plot request.
type Preset struct {
	RouteCSV        string   `json:"route_csv" yaml:"route_csv"`
	Locations       []string `json:"locations" yaml:"locations"`
	Date            string   `json:"date" yaml:"date"`
	StartTime       string   `json:"start_time" yaml:"start_time"`
	EndTime         string   `json:"end_time" yaml:"end_time"`
	MarginHours     int      `json:"margin_hours,omitempty" yaml:"margin_hours,omitempty"`
	CustomSchedules []string `json:"custom_schedules,omitempty" yaml:"custom_schedules,omitempty"`
	Limit           int      `json:"limit,omitempty" yaml:"limit,omitempty"`
	Direction       string   `json:"direction,omitempty" yaml:"direction,omitempty"`
	AlwaysInclude   []string `json:"always_include,omitempty" yaml:"always_include,omitempty"`

	// nil falls back to the reverse_route setting
	ReverseRoute     *bool `json:"reverse_route,omitempty" yaml:"reverse_route,omitempty"`
	SameCustomColour bool  `json:"same_custom_colour,omitempty" yaml:"same_custom_colour,omitempty"`
}

// Resolve finds a file given as a path or a bare name. It tries, in order:
// the name as given, dir/name.ext, then name.ext next to the given path.
func Resolve(name, dir, ext string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	base := filepath.Base(name)
	if !strings.HasSuffix(strings.ToLower(base), "."+ext) {
		base += "." + ext
	}

	candidates := []string{filepath.Join(dir, base), filepath.Join(filepath.Dir(name), base)}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no %s file found for %q in %q or as given path", ext, name, dir)
}

// ResolvePreset finds a preset by name, preferring JSON over YAML.
func ResolvePreset(name, dir string) (string, error) {
	var firstErr error
	for _, ext := range []string{"json", "yaml", "yml"} {
		path, err := Resolve(name, dir, ext)
		if err == nil {
			return path, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", firstErr
}

// Load reads a preset. Files ending in .yaml or .yml are YAML, anything else JSON.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read preset: %w", err)
	}

	var p Preset
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("invalid YAML in preset %s: %w", path, err)
		}
	default:
		if err := decodeJSON(path, data, &p); err != nil {
			return nil, err
		}
	}

	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("preset %s: %w", path, err)
	}
	return &p, nil
}

// decodeJSON retries once with trailing commas removed before reporting the
// position of a syntax error.
func decodeJSON(path string, data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return fmt.Errorf("invalid preset %s: %w", path, err)
	}
	line, col := position(data, syntaxErr.Offset)

	if fixed := trailingComma.ReplaceAll(data, []byte("$1")); !bytes.Equal(fixed, data) {
		if json.Unmarshal(fixed, v) == nil {
			log.Warn().Str("preset", path).Int("line", line).Int("column", col).Msg("Removed trailing comma")
			return nil
		}
	}

	return fmt.Errorf("invalid JSON in preset %s at line %d, column %d: %w", path, line, col, err)
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(before, '\n')
	return line, col
}

func (p *Preset) validate() error {
	var missing []string
	if p.RouteCSV == "" {
		missing = append(missing, "route_csv")
	}
	if len(p.Locations) == 0 {
		missing = append(missing, "locations")
	}
	if p.Date == "" {
		missing = append(missing, "date")
	}
	if p.StartTime == "" {
		missing = append(missing, "start_time")
	}
	if p.EndTime == "" {
		missing = append(missing, "end_time")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Request turns the preset into a graph request, resolving the route in the
// route directory and custom schedules in the custom-schedule directory.
func (p *Preset) Request(settings *config.AppConfig) (graph.Request, error) {
	routeCSV, err := Resolve(p.RouteCSV, settings.RouteDir, "csv")
	if err != nil {
		return graph.Request{}, err
	}

	schedules := make([]string, 0, len(p.CustomSchedules))
	for _, s := range p.CustomSchedules {
		path, err := Resolve(s, settings.CustomScheduleDir, "csv")
		if err != nil {
			return graph.Request{}, err
		}
		schedules = append(schedules, path)
	}

	reverse := settings.ReverseRoute
	if p.ReverseRoute != nil {
		reverse = *p.ReverseRoute
	}

	return graph.Request{
		RouteCSV:         routeCSV,
		Locations:        p.Locations,
		Date:             p.Date,
		StartTime:        p.StartTime,
		EndTime:          p.EndTime,
		MarginHours:      p.MarginHours,
		CustomSchedules:  schedules,
		Limit:            p.Limit,
		Direction:        p.Direction,
		ReverseRoute:     reverse,
		AlwaysInclude:    p.AlwaysInclude,
		SameCustomColour: p.SameCustomColour,
	}, nil
}

// List returns the preset files in dir, sorted by name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read preset directory: %w", err)
	}

	var presets []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			presets = append(presets, filepath.Join(dir, e.Name()))
		}
	}
	return presets, nil
}

// Save writes p as indented JSON, creating the directory if needed.
func Save(p *Preset, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize preset: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create preset directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write preset: %w", err)
	}
	return nil
}
