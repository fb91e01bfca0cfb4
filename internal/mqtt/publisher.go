package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/angristan/tradfri-tui/internal/api"
	"github.com/angristan/tradfri-tui/internal/models"
)

// Sink accepts messages; *Client is the broker-backed implementation
type Sink interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// DeviceState is the JSON payload published for a device
type DeviceState struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	Firmware     string   `json:"firmware,omitempty"`
	Light        bool     `json:"light"`
	On           bool     `json:"on"`
	Brightness   *int     `json:"brightness,omitempty"` // percent
	Color        string   `json:"color,omitempty"`
	Warmth       *float64 `json:"warmth,omitempty"` // percent of the warm end
	ColorCapable bool     `json:"color_capable"`
}

// GroupState is the JSON payload published for a group
type GroupState struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	On         bool   `json:"on"`
	Brightness *int   `json:"brightness,omitempty"` // percent
	Devices    []int  `json:"devices"`
}

// NewDeviceState builds the published state of a device
func NewDeviceState(d *models.Device) DeviceState {
	state := DeviceState{
		ID:           d.ID,
		Name:         d.Name,
		Manufacturer: d.Manufacturer,
		Model:        d.Model,
		Firmware:     d.Firmware,
		Light:        d.IsLight(),
	}
	if lc := d.LightControl; lc != nil {
		state.On = lc.Power.On()
		if !lc.BrightnessUnknown {
			pct := lc.BrightnessPct()
			state.Brightness = &pct
		}
		state.ColorCapable = lc.ColorCapable
		if lc.ColorHex != nil {
			state.Color = *lc.ColorHex
		}
		if w, ok := lc.Warmth(); ok {
			state.Warmth = &w
		}
	}
	return state
}

// NewGroupState builds the published state of a group
func NewGroupState(g *models.Group) GroupState {
	state := GroupState{
		ID:      g.ID,
		Name:    g.Name,
		On:      g.Power.On(),
		Devices: g.DeviceIDs,
	}
	if state.Devices == nil {
		state.Devices = []int{}
	}
	if pct := g.BrightnessPct(); pct >= 0 {
		state.Brightness = &pct
	}
	return state
}

// Publisher mirrors gateway state changes to MQTT topics
type Publisher struct {
	sink   Sink
	topics Topics
	qos    byte
	retain bool
}

// NewPublisher creates a publisher writing under topicRoot
func NewPublisher(sink Sink, topicRoot string, qos byte, retain bool) *Publisher {
	return &Publisher{
		sink:   sink,
		topics: Topics{Root: topicRoot},
		qos:    qos,
		retain: retain,
	}
}

// HandleEvents publishes one message per changed resource.
// Deleted resources get an empty retained message, which clears the topic.
func (p *Publisher) HandleEvents(events []api.Event) {
	for _, e := range events {
		if err := p.publishEvent(e); err != nil {
			log.Warn().Err(err).Str("resource", e.Resource).Int("id", e.ResourceID).Msg("Failed to publish state")
		}
	}
}

func (p *Publisher) publishEvent(e api.Event) error {
	switch e.Type {
	case api.EventTypeError:
		log.Warn().Err(e.Err).Msg("Gateway snapshot failed")
		return nil
	case api.EventTypeDelete:
		return p.sink.Publish(p.topicFor(e), nil, p.qos, true)
	}

	var payload any
	switch {
	case e.Device != nil:
		payload = NewDeviceState(e.Device)
	case e.Group != nil:
		payload = NewGroupState(e.Group)
	default:
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.sink.Publish(p.topicFor(e), data, p.qos, p.retain)
}

func (p *Publisher) topicFor(e api.Event) string {
	if e.Resource == api.ResourceGroup {
		return p.topics.GroupState(e.ResourceID)
	}
	return p.topics.DeviceState(e.ResourceID)
}

// Run polls the gateway every interval and publishes changes until ctx is done
func (p *Publisher) Run(ctx context.Context, client api.GatewayClient, interval time.Duration) error {
	sub := api.NewEventSubscription(client, interval, p.HandleEvents)
	if err := sub.Start(ctx); err != nil {
		return err
	}
	defer sub.Stop()

	log.Info().Str("gateway", client.Host()).Dur("interval", interval).Msg("Publishing gateway state")
	<-ctx.Done()
	return nil
}
