package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jprince8/py-train-graph/pkg/config"
)

func TestFilesWithExt(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"london_to_oxford.csv", "notes.txt", "READING.CSV"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	files, err := filesWithExt(dir, ".csv")
	if err != nil {
		t.Fatalf("filesWithExt failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 csv files, got %v", files)
	}

	files, err = filesWithExt(filepath.Join(dir, "missing"), ".csv")
	if err != nil || files != nil {
		t.Errorf("a missing directory must yield no files, got %v, %v", files, err)
	}
}

func TestDisplayName(t *testing.T) {
	if got := displayName("presets/evening_peak.json"); got != "evening peak" {
		t.Errorf("displayName = %q", got)
	}
}

func TestValidators(t *testing.T) {
	if validateClock("07:30") != nil || validateClock("7.30") == nil {
		t.Error("validateClock accepts HH:MM only")
	}
	if validateCount("3") != nil || validateCount("-1") == nil || validateCount("x") == nil {
		t.Error("validateCount accepts non-negative integers only")
	}
}

func TestDescribe(t *testing.T) {
	out := Describe(config.Default())
	for _, want := range []string{"Output Directory: outputs", "Direction Rule: any", "Ignored Operators: RA1", "Fetch Timeout: 30s"} {
		if !strings.Contains(out, want) {
			t.Errorf("Describe output missing %q:\n%s", want, out)
		}
	}
}
