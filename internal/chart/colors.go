package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Default series colours, first and second.
var (
	Blue   = color.RGBA{0x1f, 0x77, 0xb4, 0xff}
	Orange = color.RGBA{0xff, 0x7f, 0x0e, 0xff}
)

// lineColors maps CTA line names to the colour used for their map dots.
var lineColors = map[string]string{
	"red":    "#c60c30",
	"blue":   "#00a1de",
	"brown":  "#62361b",
	"green":  "#009b3a",
	"orange": "#f9461c",
	"pink":   "#e27ea6",
	"purple": "#522398",
	"yellow": "#f9e300",
}

// LineColor returns the colour for a CTA line name. Purple-Express shares
// Purple's colour. overrides take precedence over the built in table and are
// keyed the same way.
func LineColor(name string, overrides map[string]string) (color.RGBA, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "purple-express" {
		key = "purple"
	}
	hex, ok := overrides[key]
	if !ok {
		hex, ok = lineColors[key]
	}
	if !ok {
		return color.RGBA{}, fmt.Errorf("no colour for line %q", name)
	}
	return ParseHex(hex)
}

// ParseHex parses #rgb or #rrggbb.
func ParseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
}
