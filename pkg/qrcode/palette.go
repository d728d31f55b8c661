package qr

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Palette is the allow-list of CSS color names accepted as color tokens.
var Palette = map[string]color.RGBA{
	"black":   {R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	"white":   {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	"red":     {R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	"green":   {R: 0x00, G: 0x80, B: 0x00, A: 0xff},
	"blue":    {R: 0x00, G: 0x00, B: 0xff, A: 0xff},
	"yellow":  {R: 0xff, G: 0xff, B: 0x00, A: 0xff},
	"cyan":    {R: 0x00, G: 0xff, B: 0xff, A: 0xff},
	"magenta": {R: 0xff, G: 0x00, B: 0xff, A: 0xff},
	"silver":  {R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff},
	"gray":    {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"maroon":  {R: 0x80, G: 0x00, B: 0x00, A: 0xff},
	"olive":   {R: 0x80, G: 0x80, B: 0x00, A: 0xff},
	"lime":    {R: 0x00, G: 0xff, B: 0x00, A: 0xff},
	"aqua":    {R: 0x00, G: 0xff, B: 0xff, A: 0xff},
	"teal":    {R: 0x00, G: 0x80, B: 0x80, A: 0xff},
	"navy":    {R: 0x00, G: 0x00, B: 0x80, A: 0xff},
	"fuchsia": {R: 0xff, G: 0x00, B: 0xff, A: 0xff},
	"purple":  {R: 0x80, G: 0x00, B: 0x80, A: 0xff},
	"orange":  {R: 0xff, G: 0xa5, B: 0x00, A: 0xff},
	"brown":   {R: 0xa5, G: 0x2a, B: 0x2a, A: 0xff},
	"pink":    {R: 0xff, G: 0xc0, B: 0xcb, A: 0xff},
	"gold":    {R: 0xff, G: 0xd7, B: 0x00, A: 0xff},
}

// ParseColor converts a color token into RGBA.
func ParseColor(token string) (color.RGBA, error) {
	if strings.HasPrefix(token, "#") {
		digits := token[1:]
		if len(digits) != 3 && len(digits) != 6 {
			return color.RGBA{}, fmt.Errorf("hex color %q must be #RGB or #RRGGBB", token)
		}
		v, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("hex color %q: %w", token, err)
		}
		if len(digits) == 3 {
			r, g, b := uint8(v>>8&0xf), uint8(v>>4&0xf), uint8(v&0xf)
			return color.RGBA{R: r<<4 | r, G: g<<4 | g, B: b<<4 | b, A: 0xff}, nil
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	if c, ok := Palette[strings.ToLower(token)]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown color name %q", token)
}
