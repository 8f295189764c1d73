package render

// Notes:
// - normalizeColor: palette names, hex shorthand, rgb(), garbage fallback.
// - textColorFor: brightness threshold on representative backgrounds.

import (
	"math"
	"testing"
)

func TestNormalizeColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"green", "#36B37E"},
		{"Red", "#FF5630"},
		{"GRAY", "#DFE1E6"},
		{"grey", "#DFE1E6"},
		{"#ff5630", "#FF5630"},
		{"ff5630", "#FF5630"},
		{"#abc", "#AABBCC"},
		{"rgb(54, 179, 126)", "#36B37E"},
		{"rgb(0,0,0)", "#000000"},
		{"rgb(999, 0, 0)", "#DFE1E6"},
		{"", "#DFE1E6"},
		{"fuchsia-ish", "#DFE1E6"},
		{"#12", "#DFE1E6"},
	}

	for _, tt := range tests {
		if got := normalizeColor(tt.in); got != tt.want {
			t.Errorf("normalizeColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBrightness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hex  string
		want float64
	}{
		{"#FFFFFF", 255},
		{"#000000", 0},
		{"#36B37E", 0.299*0x36 + 0.587*0xB3 + 0.114*0x7E},
		{"bogus", 0},
	}

	for _, tt := range tests {
		if got := brightness(tt.hex); math.Abs(got-tt.want) > 0.01 {
			t.Errorf("brightness(%q) = %.2f, want %.2f", tt.hex, got, tt.want)
		}
	}
}

func TestTextColorFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bg   string
		want string
	}{
		{"#FFFFFF", darkText},
		{"#E9F2FF", darkText},
		{"#57D9A3", darkText},
		{"#36B37E", whiteText},
		{"#FF5630", whiteText},
		{"#000000", whiteText},
	}

	for _, tt := range tests {
		if got := textColorFor(tt.bg); got != tt.want {
			t.Errorf("textColorFor(%q) = %q, want %q", tt.bg, got, tt.want)
		}
	}
}
