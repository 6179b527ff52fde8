package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/jprince8/py-train-graph/pkg/config"
)

func TestGetCustomTheme_UsesRouteColours(t *testing.T) {
	theme := GetCustomTheme("#3838C8", "#4F4F4F")

	if got := theme.Focused.Title.GetForeground(); got != lipgloss.Color("#3838C8") {
		t.Errorf("expected focused title in the major colour, got %v", got)
	}
	if got := theme.Focused.SelectSelector.GetForeground(); got != lipgloss.Color("#3838C8") {
		t.Errorf("expected select cursor in the major colour, got %v", got)
	}
	if got := theme.Blurred.Base.GetBorderTopForeground(); got != lipgloss.Color("#4F4F4F") {
		t.Errorf("expected blurred border in the minor colour, got %v", got)
	}
}

func TestGetTheme_FollowsSettings(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	cfg := config.Default()
	cfg.MajorColour = "#aa007f"
	if err := config.Save(cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	theme := GetTheme()
	if got := theme.Focused.Title.GetForeground(); got != lipgloss.Color("#aa007f") {
		t.Errorf("expected focused title in the saved major colour, got %v", got)
	}
}
