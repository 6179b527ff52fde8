package route

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const londonToOxford = `Location,Distance (mi)
London Paddington [PAD],0
Royal Oak,0.6
Acton Main Line,4.4
Reading [RDG],35.8
Didcot Parkway [DID],53.1
`

func TestStripAnnotation(t *testing.T) {
	cases := map[string]string{
		"Reading [RDG]":       "Reading",
		"  Acton Main Line  ": "Acton Main Line",
		"[X] Slough [SLO]":    "Slough",
		"Royal Oak":           "Royal Oak",
	}
	for in, want := range cases {
		if got := StripAnnotation(in); got != want {
			t.Errorf("StripAnnotation(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParse_Forward(t *testing.T) {
	m, err := Parse([]byte(londonToOxford), "london_to_oxford", false)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Len() != 5 {
		t.Fatalf("expected 5 locations, got %d", m.Len())
	}

	d, ok := m.Distance("Reading")
	if !ok || d != 35.8 {
		t.Errorf("expected Reading at 35.8, got %v (ok=%v)", d, ok)
	}

	entries := m.Entries()
	if entries[0].Location != "London Paddington" || entries[4].Location != "Didcot Parkway" {
		t.Errorf("entries not sorted by distance: %+v", entries)
	}
	if entries[0].Label != "London Paddington [PAD]" || !entries[0].Major() {
		t.Errorf("expected original label to be kept and marked major, got %+v", entries[0])
	}
	if entries[1].Major() {
		t.Errorf("Royal Oak has no annotation and must be minor")
	}
}

func TestParse_ReversedNegatesAndResorts(t *testing.T) {
	m, err := Parse([]byte(londonToOxford), "london_to_oxford", true)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	entries := m.Entries()
	if entries[0].Location != "Didcot Parkway" || entries[0].Distance != -53.1 {
		t.Errorf("expected Didcot first at -53.1 on a reversed route, got %+v", entries[0])
	}
	if entries[len(entries)-1].Distance != 0 {
		t.Errorf("expected Paddington last at 0, got %+v", entries[len(entries)-1])
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Distance > entries[i].Distance {
			t.Fatalf("entries not ascending: %+v", entries)
		}
	}
}

func TestParse_DuplicateKeyFirstWins(t *testing.T) {
	csv := "Location,Distance (mi)\nReading [RDG],35.8\nReading,36.0\n"
	m, err := Parse([]byte(csv), "dup", false)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Len() != 1 {
		t.Fatalf("expected duplicate to collapse to one entry, got %d", m.Len())
	}
	if d, _ := m.Distance("Reading"); d != 35.8 {
		t.Errorf("expected first row (35.8) to win, got %v", d)
	}
}

func TestParse_MissingColumn(t *testing.T) {
	_, err := Parse([]byte("Location,Miles\nA,1\n"), "bad", false)
	if err == nil {
		t.Fatal("expected error for missing 'Distance (mi)' column")
	}
}

func TestLoad_NamesMapAfterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "london_to_oxford.csv")
	if err := os.WriteFile(path, []byte(londonToOxford), 0644); err != nil {
		t.Fatalf("failed to write route: %v", err)
	}

	m, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Name != "london_to_oxford" {
		t.Errorf("expected name london_to_oxford, got %s", m.Name)
	}
	if m.Contains("Nowhere") {
		t.Errorf("unknown location must not be contained")
	}
}

func TestParse_HeaderWithSpaces(t *testing.T) {
	csv := "Location, Distance (mi)\nLondon Paddington [PAD], 0\nReading [RDG], 35.8\n"
	m, err := Parse([]byte(csv), "spaced", false)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if d, ok := m.Distance("Reading"); !ok || d != 35.8 {
		t.Errorf("expected Reading at 35.8 with a spaced header, got %v (ok=%v)", d, ok)
	}
}

func TestParse_BlankDistance(t *testing.T) {
	csv := "Location,Distance (mi)\nLondon Paddington [PAD],0\nReading [RDG],\n"
	_, err := Parse([]byte(csv), "blank", false)
	if err == nil {
		t.Fatal("expected error for a blank distance cell")
	}
	if !strings.Contains(err.Error(), "Reading") {
		t.Errorf("expected error to name the row, got %v", err)
	}
}
