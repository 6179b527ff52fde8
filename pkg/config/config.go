package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// OtherOperator is the colour-table key used for operators missing from the table
// and the operator name given to services whose page has no operator element.
const OtherOperator = "Other"

// Figure describes one raster output: size in inches and resolution.
type Figure struct {
	WidthIn  float64 `json:"width_in"`
	HeightIn float64 `json:"height_in"`
	DPI      int     `json:"dpi"`
}

// AppConfig holds all user-defined persistent settings
type AppConfig struct {
	CacheDir          string `json:"cache_dir,omitempty"`
	RouteDir          string `json:"route_dir,omitempty"`
	CustomScheduleDir string `json:"custom_schedule_dir,omitempty"`
	OutputDir         string `json:"output_dir,omitempty"`
	PresetDir         string `json:"preset_dir,omitempty"`

	SiteBaseURL       string `json:"site_base_url,omitempty"`
	SearchURLTemplate string `json:"search_url_template,omitempty"`
	FetchTimeoutSecs  int    `json:"fetch_timeout_secs,omitempty"`

	OperatorColours map[string]string `json:"operator_colours,omitempty"`
	IgnoreOperators []string          `json:"ignore_operators"`
	CustomPalette   []string          `json:"custom_palette,omitempty"`
	MajorColour     string            `json:"major_colour,omitempty"`
	MinorColour     string            `json:"minor_colour,omitempty"`

	Overview Figure `json:"overview,omitempty"`
	Zoomable Figure `json:"zoomable,omitempty"`

	// ReverseRoute is the default when neither flag nor preset sets it.
	ReverseRoute bool `json:"reverse_route"`
	// DirectionRule is "any" or "all".
	DirectionRule string `json:"direction_rule,omitempty"`
	// StrictParse turns a broken service page into a fatal error instead of a skipped page.
	StrictParse bool `json:"strict_parse"`
}

// Default returns the built-in settings used when no config file exists.
func Default() *AppConfig {
	return &AppConfig{
		CacheDir:          "cache",
		RouteDir:          "routes",
		CustomScheduleDir: "custom_schedules",
		OutputDir:         "outputs",
		PresetDir:         "presets",

		SiteBaseURL:       "https://www.realtimetrains.co.uk",
		SearchURLTemplate: "https://www.realtimetrains.co.uk/search/detailed/gb-nr:{loc}/{date}/{start}-{end}",
		FetchTimeoutSecs:  30,

		OperatorColours: map[string]string{
			"Great Western Railway": "#0b4d3b",
			"Elizabeth Line":        "#694ED6",
			"Heathrow Express":      "#5e5e5e",
			"CrossCountry":          "#aa007f",
			"South Western Railway": "#00557f",
			OtherOperator:           "#8B4513",
		},
		IgnoreOperators: []string{"RA1"},
		CustomPalette:   []string{"#ff0000", "#ffaa00", "#00ff00", "#00aaff", "#aa00ff"},
		MajorColour:     "#3838C8",
		MinorColour:     "#4F4F4F",

		Overview: Figure{WidthIn: 20, HeightIn: 10, DPI: 400},
		Zoomable: Figure{WidthIn: 40, HeightIn: 30, DPI: 100},

		ReverseRoute:  true,
		DirectionRule: "any",
	}
}

// FetchTimeout returns the per-request network timeout.
func (c *AppConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSecs) * time.Second
}

// OperatorColour returns the hex colour for an operator and whether the operator
// was present in the table. Unknown operators get the "Other" colour.
func (c *AppConfig) OperatorColour(operator string) (string, bool) {
	if hex, ok := c.OperatorColours[operator]; ok {
		return hex, true
	}
	return c.OperatorColours[OtherOperator], false
}

// fillDefaults copies defaults into every field the file left empty.
func (c *AppConfig) fillDefaults() {
	d := Default()

	setString := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	setString(&c.CacheDir, d.CacheDir)
	setString(&c.RouteDir, d.RouteDir)
	setString(&c.CustomScheduleDir, d.CustomScheduleDir)
	setString(&c.OutputDir, d.OutputDir)
	setString(&c.PresetDir, d.PresetDir)
	setString(&c.SiteBaseURL, d.SiteBaseURL)
	setString(&c.SearchURLTemplate, d.SearchURLTemplate)
	setString(&c.MajorColour, d.MajorColour)
	setString(&c.MinorColour, d.MinorColour)
	setString(&c.DirectionRule, d.DirectionRule)

	if c.FetchTimeoutSecs <= 0 {
		c.FetchTimeoutSecs = d.FetchTimeoutSecs
	}
	if c.OperatorColours == nil {
		c.OperatorColours = d.OperatorColours
	}
	if _, ok := c.OperatorColours[OtherOperator]; !ok {
		c.OperatorColours[OtherOperator] = d.OperatorColours[OtherOperator]
	}
	if c.IgnoreOperators == nil {
		c.IgnoreOperators = d.IgnoreOperators
	}
	if len(c.CustomPalette) == 0 {
		c.CustomPalette = d.CustomPalette
	}
	if c.Overview.DPI == 0 {
		c.Overview = d.Overview
	}
	if c.Zoomable.DPI == 0 {
		c.Zoomable = d.Zoomable
	}
}

// getConfigPath returns the absolute path to ~/.traingraph.json
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".traingraph.json"), nil
}

// Load reads the application configuration from disk.
// Returns the defaults if the file does not exist.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// reverse_route defaults to true, so it must be seeded before decoding
	cfg := AppConfig{ReverseRoute: Default().ReverseRoute}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	cfg.fillDefaults()

	if cfg.DirectionRule != "any" && cfg.DirectionRule != "all" {
		return nil, fmt.Errorf("invalid direction_rule %q in %s (want \"any\" or \"all\")", cfg.DirectionRule, path)
	}

	return &cfg, nil
}

// Save writes the application configuration back to disk.
func Save(cfg *AppConfig) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
