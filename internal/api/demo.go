package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/angristan/tradfri-tui/internal/coap"
	"github.com/angristan/tradfri-tui/internal/models"
)

// DemoLatency is the simulated round trip of a demo gateway enumeration
const DemoLatency = 300 * time.Millisecond

// DemoGateway implements GatewayClient for demo mode without a real gateway.
// All state changes are maintained in memory and follow the same validation
// and capability rules as the real client.
type DemoGateway struct {
	devices map[int]*models.Device
	groups  map[int]*models.Group
	latency time.Duration
	mu      sync.RWMutex
}

// NewDemoGateway creates a demo gateway with sample data
func NewDemoGateway() *DemoGateway {
	d := &DemoGateway{
		devices: make(map[int]*models.Device),
		groups:  make(map[int]*models.Group),
		latency: DemoLatency,
	}
	d.initializeDemoData()
	return d
}

// Host returns the demo gateway host
func (d *DemoGateway) Host() string {
	return "demo-gateway.local"
}

// notFound mimics the gateway's reply for an unknown resource
func notFound(method coap.Method, path string) error {
	return &coap.TransportError{
		Method:     method,
		Path:       path,
		Diagnostic: "4.04 Not Found",
	}
}

// FetchAll returns copies of the demo devices and groups
func (d *DemoGateway) FetchAll(ctx context.Context) ([]*models.Device, []*models.Group, error) {
	// Simulate network delay for realistic demo experience
	select {
	case <-time.After(d.latency):
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	devices := make([]*models.Device, 0, len(d.devices))
	for _, id := range sortedKeys(d.devices) {
		devices = append(devices, d.devices[id].Clone())
	}

	groups := make([]*models.Group, 0, len(d.groups))
	for _, id := range sortedKeys(d.groups) {
		groups = append(groups, d.groups[id].Clone())
	}

	return devices, groups, nil
}

// ListDeviceIDs returns the demo device IDs in ascending order
func (d *DemoGateway) ListDeviceIDs(ctx context.Context) ([]int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return sortedKeys(d.devices), nil
}

// GetDevice returns a copy of a demo device
func (d *DemoGateway) GetDevice(ctx context.Context, id int) (*models.Device, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	device, ok := d.devices[id]
	if !ok {
		return nil, notFound(coap.MethodGet, devicePath(id))
	}
	return device.Clone(), nil
}

// ListGroupIDs returns the demo group IDs in ascending order
func (d *DemoGateway) ListGroupIDs(ctx context.Context) ([]int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return sortedKeys(d.groups), nil
}

// GetGroup returns a copy of a demo group
func (d *DemoGateway) GetGroup(ctx context.Context, id int) (*models.Group, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	group, ok := d.groups[id]
	if !ok {
		return nil, notFound(coap.MethodGet, groupPath(id))
	}
	return group.Clone(), nil
}

// light looks up a bulb's light control block; the caller holds the lock
func (d *DemoGateway) light(id int) (*models.LightControl, error) {
	device, ok := d.devices[id]
	if !ok || device.LightControl == nil {
		return nil, notFound(coap.MethodPut, devicePath(id))
	}
	return device.LightControl, nil
}

// SetPower turns a demo bulb on or off
func (d *DemoGateway) SetPower(ctx context.Context, id int, on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	lc, err := d.light(id)
	if err != nil {
		return err
	}
	lc.Power = models.PowerStateFromBool(on)
	d.updateGroupStates()
	return nil
}

// SetBrightness sets a demo bulb's brightness (1-100)
func (d *DemoGateway) SetBrightness(ctx context.Context, id int, pct int) error {
	level, err := models.BrightnessToDevice(pct)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	lc, err := d.light(id)
	if err != nil {
		return err
	}
	lc.Brightness = level
	return nil
}

// SetColor sets a demo bulb's color from the preset palette
func (d *DemoGateway) SetColor(ctx context.Context, id int, name string) error {
	preset, err := models.LookupColor(name)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	lc, err := d.light(id)
	if err != nil {
		return err
	}
	if !models.IsCanonicalColor(name) && !lc.ColorCapable {
		return &CapabilityError{
			DeviceID: id,
			Feature:  "color " + name,
			Model:    d.devices[id].Model,
		}
	}

	hex := preset.Hex
	lc.ColorHex = &hex
	return nil
}

// SetGroupPower turns all bulbs in a demo group on or off
func (d *DemoGateway) SetGroupPower(ctx context.Context, id int, on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	group, ok := d.groups[id]
	if !ok {
		return notFound(coap.MethodPut, groupPath(id))
	}

	state := models.PowerStateFromBool(on)
	group.Power = state
	for _, member := range group.DeviceIDs {
		if device, ok := d.devices[member]; ok && device.IsLight() {
			device.LightControl.Power = state
		}
	}
	return nil
}

// SetGroupBrightness sets the brightness of all bulbs in a demo group
func (d *DemoGateway) SetGroupBrightness(ctx context.Context, id int, pct int) error {
	level, err := models.BrightnessToDevice(pct)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	group, ok := d.groups[id]
	if !ok {
		return notFound(coap.MethodPut, groupPath(id))
	}

	group.Brightness = &level
	for _, member := range group.DeviceIDs {
		if device, ok := d.devices[member]; ok && device.IsLight() {
			device.LightControl.Brightness = level
		}
	}
	return nil
}

// updateGroupStates marks a group on when any of its bulbs is on
func (d *DemoGateway) updateGroupStates() {
	for _, group := range d.groups {
		state := models.PowerOff
		for _, member := range group.DeviceIDs {
			if device, ok := d.devices[member]; ok && device.IsLight() && device.LightControl.Power.On() {
				state = models.PowerOn
				break
			}
		}
		group.Power = state
	}
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// demoBulb builds a demo bulb device
func demoBulb(id int, name, model string, on bool, brightness int, hex string, mired int) *models.Device {
	lc := &models.LightControl{
		Brightness:   brightness,
		Power:        models.PowerStateFromBool(on),
		ColorCapable: models.IsColorModel(model),
	}
	if hex != "" {
		lc.ColorHex = &hex
	}
	if mired > 0 {
		lc.Mired = &mired
	}
	return &models.Device{
		ID:           id,
		Name:         name,
		Manufacturer: "IKEA of Sweden",
		Model:        model,
		Firmware:     "2.3.095",
		LightControl: lc,
	}
}

// initializeDemoData creates the demo devices and groups
func (d *DemoGateway) initializeDemoData() {
	devices := []*models.Device{
		demoBulb(65536, "Ceiling Light", "TRADFRI bulb E27 WS opal 980lm", true, 203, "f1e0b5", 352),
		demoBulb(65537, "Floor Lamp", "TRADFRI bulb E27 CWS opal 600lm", true, 152, "e78834", 0),
		demoBulb(65538, "TV Bias Light", "TRADFRI bulb E14 CWS opal 600lm", false, 101, "4a418a", 0),
		demoBulb(65539, "Bedside Left", "TRADFRI bulb E14 WS opal 400lm", true, 76, "efd275", 454),
		demoBulb(65540, "Bedside Right", "TRADFRI bulb E14 WS opal 400lm", false, 127, "efd275", 454),
		demoBulb(65541, "Kitchen Main", "TRADFRI bulb GU10 WS 400lm", true, 254, "f5faf6", 250),
		demoBulb(65542, "Under Cabinet", "TRADFRI bulb GU10 W 400lm", true, 178, "", 0),
		{
			ID:           65543,
			Name:         "Remote Control",
			Manufacturer: "IKEA of Sweden",
			Model:        "TRADFRI remote control",
			Firmware:     "1.2.214",
		},
	}
	for _, device := range devices {
		d.devices[device.ID] = device
	}

	groups := []*models.Group{
		{ID: 131073, Name: "Living Room", DeviceIDs: []int{65536, 65537, 65538, 65543}},
		{ID: 131074, Name: "Bedroom", DeviceIDs: []int{65539, 65540}},
		{ID: 131075, Name: "Kitchen", DeviceIDs: []int{65541, 65542}},
	}
	for _, group := range groups {
		brightness := 254
		group.Brightness = &brightness
		d.groups[group.ID] = group
	}

	d.updateGroupStates()
}
