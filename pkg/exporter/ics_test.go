package exporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jprince8/py-train-graph/pkg/graph"
	"github.com/jprince8/py-train-graph/pkg/route"
)

func TestGenerateICS(t *testing.T) {
	routeMap, err := route.Parse([]byte("Location,Distance (mi)\nA,0\nC,20\n"), "a_to_c", false)
	if err != nil {
		t.Fatalf("route.Parse failed: %v", err)
	}
	window, _ := graph.NewWindow("2025-08-20", "08:00", "09:00")

	day := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)
	chart := &graph.Chart{
		Route:  routeMap,
		Window: window,
		Traces: []graph.Trace{
			{
				Headcode: "1A23",
				Operator: "Great Western Railway",
				Source:   "https://example.test/service/1",
				Visible: []graph.Point{
					{Time: day.Add(8*time.Hour + 15*time.Minute), Distance: 0},
					{Time: day.Add(8*time.Hour + 45*time.Minute + 30*time.Second), Distance: 20},
				},
			},
			{Headcode: "2B45"}, // nothing visible, no event
		},
	}

	var buf bytes.Buffer
	if err := GenerateICS(chart, &buf); err != nil {
		t.Fatalf("GenerateICS failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "SUMMARY:1A23 Great Western Railway") {
		t.Errorf("Expected ICS to contain service summary, got: \n%s", output)
	}

	if !strings.Contains(output, "LOCATION:a_to_c") {
		t.Errorf("Expected ICS to contain the route as location")
	}

	// 20-Aug-2025 08:15 London time (BST) is 07:15 UTC.
	if !strings.Contains(output, "DTSTART:20250820T071500Z") {
		t.Errorf("Expected start time string in ICS (should be UTC), got: \n%s", output)
	}
	if !strings.Contains(output, "DTEND:20250820T074530Z") {
		t.Errorf("Expected end time with half minute, got: \n%s", output)
	}

	if strings.Count(output, "BEGIN:VEVENT") != 1 {
		t.Errorf("Expected exactly one event, got: \n%s", output)
	}
}
