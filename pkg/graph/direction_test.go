package graph

import "testing"

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"up": DirectionUp, " Down ": DirectionDown, "": DirectionAll} {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestDirectionFilter(t *testing.T) {
	rising := []float64{0, 10, 20}
	falling := []float64{20, 10, 0}
	wobbly := []float64{0, 10, 5, 20}

	tests := []struct {
		name      string
		filter    DirectionFilter
		headcode  string
		distances []float64
		want      bool
	}{
		{"no direction accepts anything", DirectionFilter{}, "1A23", falling, true},
		{"up forward rising", DirectionFilter{Direction: DirectionUp, Rule: RuleAny}, "1A23", rising, true},
		{"up forward falling", DirectionFilter{Direction: DirectionUp, Rule: RuleAny}, "1A23", falling, false},
		{"down forward falling", DirectionFilter{Direction: DirectionDown, Rule: RuleAny}, "1A23", falling, true},
		{"up reversed falling", DirectionFilter{Direction: DirectionUp, Rule: RuleAny, Reversed: true}, "1A23", falling, true},
		{"down reversed falling", DirectionFilter{Direction: DirectionDown, Rule: RuleAny, Reversed: true}, "1A23", falling, false},
		{"any accepts one step", DirectionFilter{Direction: DirectionDown, Rule: RuleAny}, "1A23", wobbly, true},
		{"all rejects one wrong step", DirectionFilter{Direction: DirectionUp, Rule: RuleAll}, "1A23", wobbly, false},
		{"all accepts level steps", DirectionFilter{Direction: DirectionUp, Rule: RuleAll}, "1A23", []float64{0, 0, 5}, true},
		{"any rejects a stationary trace", DirectionFilter{Direction: DirectionUp, Rule: RuleAny}, "1A23", []float64{5}, false},
		{"always include ignores case", DirectionFilter{Direction: DirectionUp, Rule: RuleAll, AlwaysInclude: []string{"1a23"}}, "1A23", falling, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Accept(tt.headcode, tt.distances); got != tt.want {
				t.Errorf("Accept(%v) = %v, want %v", tt.distances, got, tt.want)
			}
		})
	}
}
