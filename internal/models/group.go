package models

// Group represents a gateway group (15004/{id})
type Group struct {
	// Instance ID (9003)
	ID int
	// User-friendly name (9001)
	Name string
	// Group on/off state (5850)
	Power PowerState
	// Group brightness in device units (5851), nil when not reported
	Brightness *int
	// Member device IDs (9018/15002/9003)
	DeviceIDs []int
}

// BrightnessPct returns the group brightness as a percentage, or -1 when unknown
func (g *Group) BrightnessPct() int {
	if g.Brightness == nil {
		return -1
	}
	return BrightnessPercent(*g.Brightness)
}

// Clone creates a deep copy of the group
func (g *Group) Clone() *Group {
	clone := *g
	if g.Brightness != nil {
		b := *g.Brightness
		clone.Brightness = &b
	}
	if g.DeviceIDs != nil {
		clone.DeviceIDs = append([]int(nil), g.DeviceIDs...)
	}
	return &clone
}

// CountOn returns how many of the given groups are switched on
func CountOn(groups []*Group) int {
	count := 0
	for _, g := range groups {
		if g.Power.On() {
			count++
		}
	}
	return count
}

// HasDevice reports whether the device is a member of the group
func (g *Group) HasDevice(id int) bool {
	for _, member := range g.DeviceIDs {
		if member == id {
			return true
		}
	}
	return false
}
