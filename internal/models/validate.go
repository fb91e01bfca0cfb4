package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError is returned when a caller-supplied value is rejected
// before any request is sent to the gateway
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Choices []string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s value %q", e.Field, e.Value)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if len(e.Choices) > 0 {
		msg += ", valid values: " + FormatChoices(e.Choices)
	}
	return msg
}

// FormatChoices joins choices for display, quoting the ones containing spaces
func FormatChoices(choices []string) string {
	quoted := make([]string, len(choices))
	for i, c := range choices {
		if strings.Contains(c, " ") {
			quoted[i] = "'" + c + "'"
		} else {
			quoted[i] = c
		}
	}
	return strings.Join(quoted, ", ")
}

// ParsePowerState accepts exactly "on" or "off"
func ParsePowerState(value string) (bool, error) {
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, &ValidationError{
		Field:   "power",
		Value:   value,
		Choices: []string{"on", "off"},
	}
}

// ParseBrightness parses a brightness percentage and checks it is within 1-100
func ParseBrightness(value string) (int, error) {
	pct, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || pct < MinBrightnessPct || pct > MaxBrightnessPct {
		return 0, &ValidationError{
			Field:  "brightness",
			Value:  value,
			Reason: fmt.Sprintf("must be between %d and %d", MinBrightnessPct, MaxBrightnessPct),
		}
	}
	return pct, nil
}
