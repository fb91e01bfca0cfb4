package models

import "strings"

// PowerState is the on/off state reported and accepted by the gateway (5850)
type PowerState int

const (
	PowerOff PowerState = 0
	PowerOn  PowerState = 1
)

// PowerStateFromBool converts a boolean into a PowerState
func PowerStateFromBool(on bool) PowerState {
	if on {
		return PowerOn
	}
	return PowerOff
}

// On reports whether the state is on
func (p PowerState) On() bool {
	return p == PowerOn
}

func (p PowerState) String() string {
	if p == PowerOn {
		return "on"
	}
	return "off"
}

// Warmth range of the gateway's color temperature in mired (5711)
const (
	MiredCold = 250
	MiredWarm = 454
)

// colorModelMarker appears in the model name of bulbs that accept arbitrary colors
const colorModelMarker = "CWS"

// LightControl is the light control block (3311) of a bulb
type LightControl struct {
	// Brightness in device units (0-255)
	Brightness int
	// Set when the bulb reports no brightness (5851); Brightness is then 0
	BrightnessUnknown bool
	// Current on/off state
	Power PowerState
	// Color as 6 hex digits (nil when the bulb does not report one)
	ColorHex *string
	// Color temperature in mired (nil when the bulb does not report one)
	Mired *int
	// Whether the bulb supports the extended color palette
	ColorCapable bool
}

// Warmth returns the color temperature as a percentage of the warm end.
// ok is false when the bulb reports no color temperature.
// Values outside the mired range are not clamped.
func (l *LightControl) Warmth() (pct float64, ok bool) {
	if l.Mired == nil {
		return 0, false
	}
	return WarmthPercent(*l.Mired), true
}

// BrightnessPct returns the brightness as a percentage (0-100)
func (l *LightControl) BrightnessPct() int {
	return BrightnessPercent(l.Brightness)
}

// Device represents a gateway device (15001/{id})
type Device struct {
	// Instance ID (9003)
	ID int
	// User-friendly name (9001)
	Name string
	// Device information block (3)
	Manufacturer string
	Model        string
	Firmware     string
	// Light control block, nil for remotes, sensors and other non-lights
	LightControl *LightControl
}

// IsLight returns true if the device has a light control block
func (d *Device) IsLight() bool {
	return d.LightControl != nil
}

// ColorCapable reports whether the device model advertises color support
func (d *Device) ColorCapable() bool {
	return IsColorModel(d.Model)
}

// IsColorModel reports whether a device model name marks a color bulb
func IsColorModel(model string) bool {
	return strings.Contains(model, colorModelMarker)
}

// Clone creates a deep copy of the device
func (d *Device) Clone() *Device {
	clone := *d
	if d.LightControl != nil {
		lc := *d.LightControl
		if lc.ColorHex != nil {
			hex := *lc.ColorHex
			lc.ColorHex = &hex
		}
		if lc.Mired != nil {
			mired := *lc.Mired
			lc.Mired = &mired
		}
		clone.LightControl = &lc
	}
	return &clone
}
