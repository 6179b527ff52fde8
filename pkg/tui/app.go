package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/jprince8/py-train-graph/pkg/config"
	"github.com/jprince8/py-train-graph/pkg/preset"
)

var (
	// replaced by GetTheme() once the settings are loaded
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3838C8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// GetTheme builds the UI theme from the user's major and minor location colours.
func GetTheme() *huh.Theme {
	cfg, err := config.Load()
	if err != nil || cfg == nil {
		cfg = config.Default()
	}

	// Update the global lipgloss accent so plain CLI output matches the forms
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.MajorColour))

	return GetCustomTheme(cfg.MajorColour, cfg.MinorColour)
}

// GetCustomTheme accents the select, input and confirm fields used by the forms
// with the major colour and mutes unfocused parts with the minor colour.
func GetCustomTheme(major, minor string) *huh.Theme {
	t := huh.ThemeCharm()
	accent := lipgloss.Color(major)
	muted := lipgloss.Color(minor)

	t.Focused.Title = t.Focused.Title.Foreground(accent).Bold(true)
	t.Focused.Base = t.Focused.Base.Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(accent)
	t.Focused.MultiSelectSelector = t.Focused.MultiSelectSelector.Foreground(accent)
	t.Focused.SelectedPrefix = t.Focused.SelectedPrefix.Foreground(accent)
	t.Focused.UnselectedPrefix = t.Focused.UnselectedPrefix.Foreground(muted)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(accent)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("0")).Background(accent)

	t.Blurred.Base = t.Blurred.Base.Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
	t.Blurred.Title = t.Blurred.Title.Foreground(muted)

	return t
}

// RunTUI shows the main menu and returns the preset the user wants plotted.
// It returns nil when the user only changed settings.
func RunTUI() (*preset.Preset, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var action string

	initialForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to do?").
				Options(
					huh.NewOption("📁 Plot a saved preset", "preset"),
					huh.NewOption("📈 Plot a new graph", "new"),
					huh.NewOption("⚙️ Settings", "config"),
				).
				Value(&action),
		),
	).WithTheme(GetTheme())

	if err := initialForm.Run(); err != nil {
		return nil, err
	}

	switch action {
	case "config":
		return nil, RunConfigTUI()
	case "new":
		return RunPlanTUI(cfg)
	}

	path, err := PickPreset(cfg.PresetDir)
	if err != nil || path == "" {
		return nil, err
	}
	return preset.Load(path)
}

// PickPreset lets the user choose a preset file from dir. It returns an empty
// path when the directory has none.
func PickPreset(dir string) (string, error) {
	presets, err := preset.List(dir)
	if err != nil {
		return "", err
	}
	if len(presets) == 0 {
		fmt.Println(errorStyle.Render(fmt.Sprintf("No presets found in %s", dir)))
		return "", nil
	}

	var options []huh.Option[string]
	for _, p := range presets {
		options = append(options, huh.NewOption(displayName(p), p))
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a preset").
				Description("Press / to filter.").
				Options(options...).
				Value(&selected).
				Height(12),
		),
	).WithTheme(GetTheme())

	if err := form.Run(); err != nil {
		return "", err
	}
	return selected, nil
}
