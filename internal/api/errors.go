package api

import "fmt"

// CapabilityError is returned when a bulb does not support the requested feature.
// No control request is sent in that case.
type CapabilityError struct {
	DeviceID int
	Feature  string
	Model    string
}

func (e *CapabilityError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("device %d does not support %s", e.DeviceID, e.Feature)
	}
	return fmt.Sprintf("device %d (%s) does not support %s", e.DeviceID, e.Model, e.Feature)
}
