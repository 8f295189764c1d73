package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// defaultColor is the fallback for unrecognized colour tokens.
const defaultColor = "#DFE1E6"

// darkText is the text colour used on light backgrounds; white elsewhere.
const (
	darkText  = "#172B4D"
	whiteText = "#FFFFFF"
)

// brightnessThreshold splits light from dark backgrounds on the perceptual
// brightness scale.
const brightnessThreshold = 170

// namedColors is the palette accepted by status/panel macros.
var namedColors = map[string]string{
	"grey":   "#DFE1E6",
	"gray":   "#DFE1E6",
	"red":    "#FF5630",
	"yellow": "#FFAB00",
	"green":  "#36B37E",
	"blue":   "#0065FF",
	"purple": "#6554C0",
	"teal":   "#00B8D9",
	"orange": "#FF8B00",
	"white":  "#FFFFFF",
	"black":  "#000000",
}

var (
	hexPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	rgbPattern = regexp.MustCompile(`^rgb\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*\)$`)
)

// normalizeColor resolves a colour token (palette name, 3- or 6-digit hex,
// or rgb() string) to a 6-digit uppercase hex string. Unrecognized tokens
// fall back to the default gray.
func normalizeColor(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return defaultColor
	}

	if hex, ok := namedColors[t]; ok {
		return hex
	}

	if m := hexPattern.FindStringSubmatch(t); m != nil {
		hex := m[1]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		return "#" + strings.ToUpper(hex)
	}

	if m := rgbPattern.FindStringSubmatch(t); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		if r <= 255 && g <= 255 && b <= 255 {
			return fmt.Sprintf("#%02X%02X%02X", r, g, b)
		}
	}

	return defaultColor
}

// brightness computes perceptual brightness of a #RRGGBB colour.
func brightness(hex string) float64 {
	if len(hex) != 7 || hex[0] != '#' {
		return 0
	}
	r, _ := strconv.ParseInt(hex[1:3], 16, 32)
	g, _ := strconv.ParseInt(hex[3:5], 16, 32)
	b, _ := strconv.ParseInt(hex[5:7], 16, 32)
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// textColorFor picks a readable text colour for the given background.
func textColorFor(bgHex string) string {
	if brightness(bgHex) >= brightnessThreshold {
		return darkText
	}
	return whiteText
}
