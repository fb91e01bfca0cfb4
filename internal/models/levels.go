package models

import (
	"fmt"
	"math"
	"strconv"
)

// Accepted brightness percentages
const (
	MinBrightnessPct = 1
	MaxBrightnessPct = 100
)

// MaxDeviceBrightness is the top of the gateway's brightness scale (5851)
const MaxDeviceBrightness = 255

// BrightnessToDevice maps a percentage (1-100) onto device units as round(pct*2.55).
// Integer arithmetic keeps halves rounding up (50% -> 128).
func BrightnessToDevice(pct int) (int, error) {
	if pct < MinBrightnessPct || pct > MaxBrightnessPct {
		return 0, &ValidationError{
			Field:  "brightness",
			Value:  strconv.Itoa(pct),
			Reason: fmt.Sprintf("must be between %d and %d", MinBrightnessPct, MaxBrightnessPct),
		}
	}
	return (pct*MaxDeviceBrightness + 50) / 100, nil
}

// BrightnessPercent maps device units (0-255) back onto a rounded percentage
func BrightnessPercent(device int) int {
	if device <= 0 {
		return 0
	}
	return (device*100 + MaxDeviceBrightness/2) / MaxDeviceBrightness
}

// WarmthPercent converts mired into a warmth percentage rounded to one decimal
func WarmthPercent(mired int) float64 {
	pct := float64(mired-MiredCold) / float64(MiredWarm-MiredCold) * 100
	return math.Round(pct*10) / 10
}
