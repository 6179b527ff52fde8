package scraper

import (
	"testing"
	"time"
)

func TestParseHalfMinute(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"1234", 12*time.Hour + 34*time.Minute, true},
		{"1234½", 12*time.Hour + 34*time.Minute + 30*time.Second, true},
		{" 0005 ", 5 * time.Minute, true},
		{"2359½", 23*time.Hour + 59*time.Minute + 30*time.Second, true},
		{"2400", 0, false},
		{"1260", 0, false},
		{"pass", 0, false},
		{"", 0, false},
		{"12:34", 0, false},
	}

	for _, c := range cases {
		got, ok := ParseHalfMinute(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseHalfMinute(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestHalfMinuteRoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			for _, half := range []bool{false, true} {
				d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
				if half {
					d += 30 * time.Second
				}

				text := FormatHalfMinute(d)
				parsed, ok := ParseHalfMinute(text)
				if !ok || parsed != d {
					t.Fatalf("round trip of %v via %q gave %v (ok=%v)", d, text, parsed, ok)
				}
				if again := FormatHalfMinute(parsed); again != text {
					t.Fatalf("re-formatting %q gave %q", text, again)
				}
				if half != ((parsed % time.Minute) == 30*time.Second) {
					t.Fatalf("half-minute suffix of %q not reflected in %v", text, parsed)
				}
			}
		}
	}
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("08:15")
	if err != nil || d != 8*time.Hour+15*time.Minute {
		t.Errorf("ParseClock(08:15) = %v, %v", d, err)
	}
	if _, err := ParseClock("8.15"); err == nil {
		t.Errorf("expected error for malformed clock")
	}
}
