package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/jprince8/py-train-graph/pkg/config"
	"github.com/jprince8/py-train-graph/pkg/preset"
	"github.com/jprince8/py-train-graph/pkg/scraper"
)

// RunPlanTUI asks for a new graph and optionally saves it as a preset.
func RunPlanTUI(cfg *config.AppConfig) (*preset.Preset, error) {
	routes, err := filesWithExt(cfg.RouteDir, ".csv")
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		fmt.Println(errorStyle.Render(fmt.Sprintf("No route files found in %s", cfg.RouteDir)))
		return nil, nil
	}
	schedules, _ := filesWithExt(cfg.CustomScheduleDir, ".csv")

	var routeOptions []huh.Option[string]
	for _, r := range routes {
		routeOptions = append(routeOptions, huh.NewOption(displayName(r), r))
	}
	var scheduleOptions []huh.Option[string]
	for _, s := range schedules {
		scheduleOptions = append(scheduleOptions, huh.NewOption(displayName(s), s))
	}

	p := preset.Preset{
		Date:      time.Now().Format("2006-01-02"),
		StartTime: "07:00",
		EndTime:   "10:00",
	}
	var locations, margin, limit, saveAs string
	margin, limit = "0", "0"

	fields := []huh.Field{
		huh.NewSelect[string]().
			Title("Route").
			Options(routeOptions...).
			Value(&p.RouteCSV),
		huh.NewInput().
			Title("Locations").
			Description("Location codes to search, separated by spaces (e.g. PAD ACTONW)").
			Value(&locations).
			Validate(func(s string) error {
				if len(strings.Fields(s)) == 0 {
					return fmt.Errorf("at least one location is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Date (YYYY-MM-DD)").
			Value(&p.Date).
			Validate(func(s string) error {
				_, err := scraper.ParseDate(s)
				return err
			}),
		huh.NewInput().
			Title("Start (HH:MM)").
			Value(&p.StartTime).
			Validate(validateClock),
		huh.NewInput().
			Title("End (HH:MM)").
			Value(&p.EndTime).
			Validate(validateClock),
	}

	options := []huh.Field{
		huh.NewInput().
			Title("Margin hours before the start").
			Value(&margin).
			Validate(validateCount),
		huh.NewSelect[string]().
			Title("Direction").
			Options(
				huh.NewOption("Both", ""),
				huh.NewOption("Up", "up"),
				huh.NewOption("Down", "down"),
			).
			Value(&p.Direction),
		huh.NewInput().
			Title("Service limit (0 for none)").
			Value(&limit).
			Validate(validateCount),
	}
	if len(scheduleOptions) > 0 {
		options = append(options, huh.NewMultiSelect[string]().
			Title("Custom schedules").
			Description("Space = toggle, Enter = confirm").
			Options(scheduleOptions...).
			Value(&p.CustomSchedules).
			Height(8))
	}
	options = append(options, huh.NewInput().
		Title("Save as preset").
		Description("Leave empty to plot without saving").
		Value(&saveAs))

	form := huh.NewForm(
		huh.NewGroup(fields...),
		huh.NewGroup(options...),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return nil, err
	}

	p.Locations = strings.Fields(strings.ToUpper(locations))
	p.MarginHours, _ = strconv.Atoi(margin)
	p.Limit, _ = strconv.Atoi(limit)

	if saveAs = strings.TrimSpace(saveAs); saveAs != "" {
		if !strings.HasSuffix(saveAs, ".json") {
			saveAs += ".json"
		}
		path := filepath.Join(cfg.PresetDir, saveAs)
		if err := preset.Save(&p, path); err != nil {
			return nil, err
		}
		fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Saved preset to %s\n", path)))
	}

	return &p, nil
}

func validateClock(s string) error {
	_, err := scraper.ParseClock(s)
	return err
}

func validateCount(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return fmt.Errorf("enter a whole number of 0 or more")
	}
	return nil
}

// filesWithExt lists the files in dir with the given extension. A missing
// directory yields no files.
func filesWithExt(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// displayName turns "presets/evening_peak.json" into "evening peak".
func displayName(path string) string {
	base := filepath.Base(path)
	return strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), "_", " ")
}
