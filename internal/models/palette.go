package models

// ColorPreset is a named color understood by the gateway (5706)
type ColorPreset struct {
	Name string
	Hex  string
}

// palette is the fixed set of presets, in display order
var palette = [...]ColorPreset{
	{"blue", "4a418a"},
	{"light blue", "6c83ba"},
	{"saturated purple", "8f2686"},
	{"lime", "a9d62b"},
	{"light purple", "c984bb"},
	{"yellow", "d6e44b"},
	{"saturated pink", "d9337c"},
	{"dark peach", "da5d41"},
	{"saturated red", "dc4b31"},
	{"cold sky", "dcf0f8"},
	{"pink", "e491af"},
	{"peach", "e57345"},
	{"warm amber", "e78834"},
	{"light pink", "e8bedd"},
	{"cool daylight", "eaf6fb"},
	{"candlelight", "ebb63e"},
	{"warm", "efd275"},
	{"normal", "f1e0b5"},
	{"sunrise", "f2eccf"},
	{"cold", "f5faf6"},
}

// canonicalColors are the white-spectrum presets every bulb accepts
var canonicalColors = [...]string{"warm", "normal", "cold"}

// Palette returns a copy of all color presets
func Palette() []ColorPreset {
	out := make([]ColorPreset, len(palette))
	copy(out, palette[:])
	return out
}

// ColorNames returns all preset names in palette order
func ColorNames() []string {
	names := make([]string, len(palette))
	for i, p := range palette {
		names[i] = p.Name
	}
	return names
}

// CanonicalColors returns the preset names supported by every bulb
func CanonicalColors() []string {
	out := make([]string, len(canonicalColors))
	copy(out, canonicalColors[:])
	return out
}

// IsCanonicalColor reports whether name is one of warm, normal or cold
func IsCanonicalColor(name string) bool {
	for _, c := range canonicalColors {
		if c == name {
			return true
		}
	}
	return false
}

// LookupColor finds a preset by exact, case-sensitive name
func LookupColor(name string) (ColorPreset, error) {
	for _, p := range palette {
		if p.Name == name {
			return p, nil
		}
	}
	return ColorPreset{}, &ValidationError{
		Field:   "color",
		Value:   name,
		Choices: ColorNames(),
	}
}
