package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/jprince8/py-train-graph/pkg/config"
)

// RunConfigTUI launches the interactive experience for managing settings
func RunConfigTUI() error {
	for {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		var action string

		initialForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Configuration Settings").
					Options(
						huh.NewOption("Set Directories", "dirs"),
						huh.NewOption("Set Direction Rule", "rule"),
						huh.NewOption("Set Route Orientation", "reverse"),
						huh.NewOption("Set Parse Strictness", "strict"),
						huh.NewOption("Set Ignored Operators", "ignore"),
						huh.NewOption("View Current Config", "view"),
						huh.NewOption("Back to Main Menu", "back"),
					).
					Value(&action),
			),
		).WithTheme(GetTheme())

		if err := initialForm.Run(); err != nil {
			return err
		}

		switch action {
		case "back":
			return nil
		case "dirs":
			err = runSetDirectoriesTUI(cfg)
		case "rule":
			err = runSetDirectionRuleTUI(cfg)
		case "reverse":
			err = runToggleTUI(cfg, "Plot routes reversed (negative miles) by default?", &cfg.ReverseRoute)
		case "strict":
			err = runToggleTUI(cfg, "Stop on service pages that cannot be parsed?", &cfg.StrictParse)
		case "ignore":
			err = runSetIgnoredOperatorsTUI(cfg)
		case "view":
			fmt.Println(accentStyle.Render("\n--- Current Configuration (~/.traingraph.json) ---"))
			fmt.Print(Describe(cfg))
			fmt.Println()
		}

		if err != nil {
			return err
		}
	}
}

// Describe renders the settings a user is most likely to change.
func Describe(cfg *config.AppConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Route Directory: %s\n", cfg.RouteDir)
	fmt.Fprintf(&b, "Custom Schedule Directory: %s\n", cfg.CustomScheduleDir)
	fmt.Fprintf(&b, "Preset Directory: %s\n", cfg.PresetDir)
	fmt.Fprintf(&b, "Output Directory: %s\n", cfg.OutputDir)
	fmt.Fprintf(&b, "Cache Directory: %s\n", cfg.CacheDir)
	fmt.Fprintf(&b, "Search URL: %s\n", cfg.SearchURLTemplate)
	fmt.Fprintf(&b, "Fetch Timeout: %s\n", cfg.FetchTimeout())
	fmt.Fprintf(&b, "Direction Rule: %s\n", cfg.DirectionRule)
	fmt.Fprintf(&b, "Reverse Route: %t\n", cfg.ReverseRoute)
	fmt.Fprintf(&b, "Strict Parse: %t\n", cfg.StrictParse)
	fmt.Fprintf(&b, "Ignored Operators: %s\n", strings.Join(cfg.IgnoreOperators, ", "))
	fmt.Fprintf(&b, "Operator Colours: %d\n", len(cfg.OperatorColours))
	return b.String()
}

func runSetDirectoriesTUI(cfg *config.AppConfig) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Route directory").Value(&cfg.RouteDir),
			huh.NewInput().Title("Custom schedule directory").Value(&cfg.CustomScheduleDir),
			huh.NewInput().Title("Preset directory").Value(&cfg.PresetDir),
			huh.NewInput().Title("Output directory").Value(&cfg.OutputDir),
			huh.NewInput().Title("Cache directory").Value(&cfg.CacheDir),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ Directories saved.\n"))
	return nil
}

func runSetDirectionRuleTUI(cfg *config.AppConfig) error {
	selected := cfg.DirectionRule

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How strictly must a service follow the requested direction?").
				Options(
					huh.NewOption("Any step in the direction (lenient)", "any"),
					huh.NewOption("Every step in the direction (strict)", "all"),
				).
				Value(&selected),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.DirectionRule = selected
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Direction rule changed to: %s\n", selected)))
	return nil
}

func runToggleTUI(cfg *config.AppConfig, title string, value *bool) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(value),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render("\n✅ Setting saved.\n"))
	return nil
}

func runSetIgnoredOperatorsTUI(cfg *config.AppConfig) error {
	ignored := strings.Join(cfg.IgnoreOperators, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Operators to leave off the graph").
				Description("Comma separated, as written on the service page").
				Value(&ignored),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.IgnoreOperators = []string{}
	for _, op := range strings.Split(ignored, ",") {
		if op = strings.TrimSpace(op); op != "" {
			cfg.IgnoreOperators = append(cfg.IgnoreOperators, op)
		}
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Println(accentStyle.Render(fmt.Sprintf("\n✅ Ignoring %d operators.\n", len(cfg.IgnoreOperators))))
	return nil
}
