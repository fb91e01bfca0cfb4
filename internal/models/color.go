package models

import (
	"fmt"
	"math"
	"strconv"
)

// RGB is a display color
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as a hex string (e.g., "#FF0000")
func (c RGB) Hex() string {
	return "#" + hexByte(c.R) + hexByte(c.G) + hexByte(c.B)
}

func hexByte(b uint8) string {
	const hex = "0123456789ABCDEF"
	return string([]byte{hex[b>>4], hex[b&0x0F]})
}

// HexToRGB parses the gateway's 6 hex digit color notation
func HexToRGB(hex string) (RGB, error) {
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("color %q is not 6 hex digits", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("color %q is not 6 hex digits", hex)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// RGB returns the preset as a display color
func (p ColorPreset) RGB() RGB {
	c, err := HexToRGB(p.Hex)
	if err != nil {
		return RGB{255, 255, 255}
	}
	return c
}

// DisplayColor returns the color a bulb is showing.
// The reported hex color wins over the color temperature.
func (l *LightControl) DisplayColor() (RGB, bool) {
	if l.ColorHex != nil {
		if c, err := HexToRGB(*l.ColorHex); err == nil {
			return c, true
		}
	}
	if l.Mired != nil && *l.Mired > 0 {
		return MiredToRGB(*l.Mired), true
	}
	return RGB{}, false
}

// PresetForHex returns the palette entry matching a reported hex color
func PresetForHex(hex string) (ColorPreset, bool) {
	for _, p := range palette {
		if p.Hex == hex {
			return p, true
		}
	}
	return ColorPreset{}, false
}

// MiredToRGB converts color temperature in mired to RGB.
// Algorithm based on Tanner Helland's work
// http://www.tannerhelland.com/4435/convert-temperature-rgb-algorithm-code/
func MiredToRGB(mired int) RGB {
	if mired <= 0 {
		return RGB{255, 255, 255}
	}
	kelvin := 1000000.0 / float64(mired)
	temp := kelvin / 100.0

	var rf, gf, bf float64

	// Red
	if temp <= 66 {
		rf = 255
	} else {
		rf = 329.698727446 * math.Pow(temp-60, -0.1332047592)
		rf = clampFloat(rf, 0, 255)
	}

	// Green
	if temp <= 66 {
		gf = 99.4708025861*math.Log(temp) - 161.1195681661
	} else {
		gf = 288.1221695283 * math.Pow(temp-60, -0.0755148492)
	}
	gf = clampFloat(gf, 0, 255)

	// Blue
	if temp >= 66 {
		bf = 255
	} else if temp <= 19 {
		bf = 0
	} else {
		bf = 138.5177312231*math.Log(temp-10) - 305.0447927307
		bf = clampFloat(bf, 0, 255)
	}

	return RGB{uint8(rf), uint8(gf), uint8(bf)}
}

func clampFloat(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
