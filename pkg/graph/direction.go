package graph

import (
	"fmt"
	"strings"
)

// Direction selects services by the way they travel along the route.
type Direction string

const (
	DirectionAll  Direction = ""
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection accepts "up", "down" or an empty string for no filtering.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionAll, DirectionUp, DirectionDown:
		return d, nil
	}
	return DirectionAll, fmt.Errorf("invalid direction %q (want up or down)", s)
}

// Rule decides how many steps of a trace must move in the requested direction.
type Rule string

const (
	// RuleAny accepts a trace with at least one step in the direction.
	RuleAny Rule = "any"
	// RuleAll accepts a trace whose every step is in the direction or level.
	RuleAll Rule = "all"
)

// DirectionFilter accepts or rejects traces by the trend of their distances.
// On a forward route "up" runs towards larger distances; reversing the route
// flips that.
type DirectionFilter struct {
	Direction     Direction
	Rule          Rule
	Reversed      bool
	AlwaysInclude []string
}

// Accept reports whether a trace with the given headcode and in-window
// distances should be plotted.
func (f DirectionFilter) Accept(headcode string, distances []float64) bool {
	if f.Direction == DirectionAll {
		return true
	}
	for _, hc := range f.AlwaysInclude {
		if strings.EqualFold(hc, headcode) {
			return true
		}
	}

	// sign of a step that counts as moving in the requested direction
	want := 1.0
	if f.Reversed {
		want = -1.0
	}
	if f.Direction == DirectionDown {
		want = -want
	}

	if f.Rule == RuleAll {
		for i := 1; i < len(distances); i++ {
			if (distances[i]-distances[i-1])*want < 0 {
				return false
			}
		}
		return true
	}

	for i := 1; i < len(distances); i++ {
		if (distances[i]-distances[i-1])*want > 0 {
			return true
		}
	}
	return false
}
