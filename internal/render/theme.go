package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Theme is the palette of a calendar.
type Theme struct {
	Name          string
	Background    color.RGBA
	Text          color.RGBA
	Highlight     color.RGBA
	HighlightText color.RGBA
}

// ClassicTheme is the cream and navy palette used when nothing else is configured.
func ClassicTheme() Theme {
	return Theme{
		Name:          "classic",
		Background:    color.RGBA{R: 0xF3, G: 0xEF, B: 0xE3, A: 0xFF},
		Text:          color.RGBA{R: 0x2C, G: 0x4E, B: 0x80, A: 0xFF},
		Highlight:     color.RGBA{R: 0x2C, G: 0x4E, B: 0x80, A: 0xFF},
		HighlightText: color.RGBA{R: 0xF3, G: 0xEF, B: 0xE3, A: 0xFF},
	}
}

// ParseHexColor parses an opaque "#RRGGBB" colour. The leading '#' is optional.
func ParseHexColor(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: expected 6 hex digits", hex)
	}

	r, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parsing red: %w", err)
	}
	g, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parsing green: %w", err)
	}
	b, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parsing blue: %w", err)
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xFF}, nil
}

// ThemeFromHex builds a theme from hex colour strings.
func ThemeFromHex(name, background, text, highlight, highlightText string) (Theme, error) {
	t := Theme{Name: name}
	fields := []struct {
		label string
		value string
		dst   *color.RGBA
	}{
		{"background", background, &t.Background},
		{"text", text, &t.Text},
		{"highlight", highlight, &t.Highlight},
		{"highlight_text", highlightText, &t.HighlightText},
	}
	for _, f := range fields {
		c, err := ParseHexColor(f.value)
		if err != nil {
			return Theme{}, fmt.Errorf("theme %s: %s: %w", name, f.label, err)
		}
		*f.dst = c
	}
	return t, nil
}
