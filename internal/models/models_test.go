package models

import (
	"errors"
	"strings"
	"testing"
)

func TestBrightnessToDevice(t *testing.T) {
	tests := []struct {
		pct  int
		want int
	}{
		{1, 3},
		{10, 26},
		{50, 128},
		{99, 252},
		{100, 255},
	}

	for _, tt := range tests {
		got, err := BrightnessToDevice(tt.pct)
		if err != nil {
			t.Fatalf("BrightnessToDevice(%d) error = %v", tt.pct, err)
		}
		if got != tt.want {
			t.Errorf("BrightnessToDevice(%d) = %d, want %d", tt.pct, got, tt.want)
		}
	}
}

func TestBrightnessToDeviceRange(t *testing.T) {
	for pct := MinBrightnessPct; pct <= MaxBrightnessPct; pct++ {
		got, err := BrightnessToDevice(pct)
		if err != nil {
			t.Fatalf("BrightnessToDevice(%d) error = %v", pct, err)
		}
		if got < 3 || got > 255 {
			t.Errorf("BrightnessToDevice(%d) = %d, outside [3,255]", pct, got)
		}
	}

	for _, pct := range []int{-5, 0, 101, 255} {
		_, err := BrightnessToDevice(pct)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("BrightnessToDevice(%d) error = %v, want *ValidationError", pct, err)
		}
	}
}

func TestBrightnessPercent(t *testing.T) {
	tests := []struct {
		device int
		want   int
	}{
		{0, 0},
		{3, 1},
		{128, 50},
		{255, 100},
	}

	for _, tt := range tests {
		if got := BrightnessPercent(tt.device); got != tt.want {
			t.Errorf("BrightnessPercent(%d) = %d, want %d", tt.device, got, tt.want)
		}
	}
}

func TestWarmthPercent(t *testing.T) {
	tests := []struct {
		mired int
		want  float64
	}{
		{250, 0.0},
		{454, 100.0},
		{352, 50.0},
		{370, 58.8},
		{200, -24.5},
		{500, 122.5},
	}

	for _, tt := range tests {
		if got := WarmthPercent(tt.mired); got != tt.want {
			t.Errorf("WarmthPercent(%d) = %v, want %v", tt.mired, got, tt.want)
		}
	}
}

func TestLightControlWarmth(t *testing.T) {
	lc := &LightControl{}
	if _, ok := lc.Warmth(); ok {
		t.Error("Warmth() should be not applicable without mired")
	}

	mired := 454
	lc.Mired = &mired
	if w, ok := lc.Warmth(); !ok || w != 100.0 {
		t.Errorf("Warmth() = %v, %v; want 100, true", w, ok)
	}
}

func TestLookupColor(t *testing.T) {
	p, err := LookupColor("light blue")
	if err != nil {
		t.Fatalf("LookupColor(light blue) error = %v", err)
	}
	if p.Hex != "6c83ba" {
		t.Errorf("LookupColor(light blue) = %q, want 6c83ba", p.Hex)
	}

	for _, name := range []string{"midnight", "Warm", "light  blue", ""} {
		_, err := LookupColor(name)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("LookupColor(%q) error = %v, want *ValidationError", name, err)
		}
		if len(verr.Choices) != 20 {
			t.Errorf("LookupColor(%q) choices = %d, want 20", name, len(verr.Choices))
		}
	}
}

func TestLookupColorMessageListsPalette(t *testing.T) {
	_, err := LookupColor("midnight")
	msg := err.Error()
	for _, name := range ColorNames() {
		want := name
		if strings.Contains(name, " ") {
			want = "'" + name + "'"
		}
		if !strings.Contains(msg, want) {
			t.Errorf("error message missing %s: %s", want, msg)
		}
	}
}

func TestPaletteIsImmutable(t *testing.T) {
	if len(Palette()) != 20 {
		t.Fatalf("Palette() has %d entries, want 20", len(Palette()))
	}

	p := Palette()
	p[0].Hex = "000000"
	names := ColorNames()
	names[0] = "mutated"

	if Palette()[0].Hex != "4a418a" || ColorNames()[0] != "blue" {
		t.Error("palette changed through a returned slice")
	}

	seen := make(map[string]bool)
	for _, preset := range Palette() {
		if seen[preset.Name] {
			t.Errorf("duplicate preset %q", preset.Name)
		}
		seen[preset.Name] = true
		if len(preset.Hex) != 6 {
			t.Errorf("preset %q hex %q is not 6 digits", preset.Name, preset.Hex)
		}
	}
}

func TestCanonicalColors(t *testing.T) {
	for _, name := range CanonicalColors() {
		if !IsCanonicalColor(name) {
			t.Errorf("IsCanonicalColor(%q) = false", name)
		}
		if _, err := LookupColor(name); err != nil {
			t.Errorf("canonical color %q missing from palette", name)
		}
	}
	if IsCanonicalColor("peach") {
		t.Error("IsCanonicalColor(peach) = true")
	}
}

func TestParsePowerState(t *testing.T) {
	if on, err := ParsePowerState("on"); err != nil || !on {
		t.Errorf("ParsePowerState(on) = %v, %v", on, err)
	}
	if on, err := ParsePowerState("off"); err != nil || on {
		t.Errorf("ParsePowerState(off) = %v, %v", on, err)
	}
	for _, v := range []string{"ON", "1", "true", ""} {
		_, err := ParsePowerState(v)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("ParsePowerState(%q) error = %v, want *ValidationError", v, err)
			continue
		}
		if !strings.Contains(verr.Error(), "on, off") {
			t.Errorf("ParsePowerState(%q) message = %q, want choices", v, verr.Error())
		}
	}
}

func TestParseBrightness(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"100", 100, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"101", 0, true},
		{"half", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseBrightness(tt.value)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseBrightness(%q) expected error", tt.value)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseBrightness(%q) = %d, %v; want %d", tt.value, got, err, tt.want)
		}
	}
}

func TestDeviceClone(t *testing.T) {
	hex := "efd275"
	d := &Device{ID: 65536, Name: "Desk", LightControl: &LightControl{Brightness: 128, ColorHex: &hex}}
	c := d.Clone()
	*c.LightControl.ColorHex = "f5faf6"
	c.LightControl.Brightness = 3

	if *d.LightControl.ColorHex != "efd275" || d.LightControl.Brightness != 128 {
		t.Error("Clone() shares light control state with the original")
	}
}

func TestColorModel(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"TRADFRI bulb E27 CWS opal 600lm", true},
		{"TRADFRI bulb E27 WS opal 980lm", false},
		{"TRADFRI remote control", false},
		{"", false},
	}

	for _, tt := range tests {
		d := &Device{Model: tt.model}
		if got := d.ColorCapable(); got != tt.want {
			t.Errorf("ColorCapable(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestPowerState(t *testing.T) {
	if PowerStateFromBool(true) != PowerOn || PowerStateFromBool(false) != PowerOff {
		t.Error("PowerStateFromBool mismatch")
	}
	if PowerOn.String() != "on" || PowerOff.String() != "off" {
		t.Error("PowerState.String mismatch")
	}

	groups := []*Group{{Power: PowerOn}, {Power: PowerOff}, {Power: PowerOn}}
	if CountOn(groups) != 2 {
		t.Errorf("CountOn() = %d, want 2", CountOn(groups))
	}
}
