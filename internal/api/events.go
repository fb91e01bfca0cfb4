package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/angristan/tradfri-tui/internal/models"
)

// EventType represents the kind of change observed on the gateway
type EventType string

const (
	EventTypeUpdate EventType = "update"
	EventTypeAdd    EventType = "add"
	EventTypeDelete EventType = "delete"
	EventTypeError  EventType = "error"
)

// Resource kinds carried by events
const (
	ResourceDevice = "device"
	ResourceGroup  = "group"
)

// Event represents a change between two gateway snapshots
type Event struct {
	Type       EventType
	ResourceID int
	Resource   string // "device" or "group"

	// Current state; nil for deletes and errors
	Device *models.Device
	Group  *models.Group

	// Err is set for EventTypeError
	Err error
}

// EventHandler is called with every non-empty batch of events
type EventHandler func(events []Event)

// Snapshot is the full state of a gateway at one point in time
type Snapshot struct {
	Devices []*models.Device
	Groups  []*models.Group
	Taken   time.Time
}

// EventSubscription polls a gateway and reports what changed between polls.
// The gateway has no push channel the client can rely on, so state is
// enumerated at a fixed interval.
type EventSubscription struct {
	client   GatewayClient
	handler  EventHandler
	interval time.Duration
	backoff  RetryPolicy

	mu      sync.Mutex
	done    chan struct{}
	running bool

	last *Snapshot
}

// NewEventSubscription creates a new polling subscription
func NewEventSubscription(client GatewayClient, interval time.Duration, handler EventHandler) *EventSubscription {
	return &EventSubscription{
		client:   client,
		handler:  handler,
		interval: interval,
		backoff: RetryPolicy{
			MinBackoff: time.Second,
			MaxBackoff: time.Minute,
			Multiplier: 2.0,
		},
		done: make(chan struct{}),
	}
}

// Start begins polling in the background
func (s *EventSubscription) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	go s.run(ctx)
	return nil
}

// Stop stops the subscription
func (s *EventSubscription) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.running = false
	close(s.done)
}

// run is the main polling loop
func (s *EventSubscription) run(ctx context.Context) {
	failures := 0
	for {
		wait := s.interval
		if err := s.Poll(ctx); err != nil {
			failures++
			wait = s.backoff.backoff(failures)
			log.Warn().Err(err).Dur("retry_in", wait).Msg("Gateway poll failed")
		} else {
			failures = 0
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}

// Poll takes one snapshot and delivers the events it produces.
// The first successful poll reports every resource as added.
func (s *EventSubscription) Poll(ctx context.Context) error {
	devices, groups, err := s.client.FetchAll(ctx)
	if err != nil {
		s.deliver([]Event{{Type: EventTypeError, Err: err}})
		return err
	}

	next := &Snapshot{Devices: devices, Groups: groups, Taken: time.Now()}

	s.mu.Lock()
	prev := s.last
	s.last = next
	s.mu.Unlock()

	s.deliver(DiffSnapshots(prev, next))
	return nil
}

// Last returns the most recent snapshot, or nil before the first poll
func (s *EventSubscription) Last() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// deliver sends the batch to the handler
func (s *EventSubscription) deliver(events []Event) {
	if len(events) > 0 && s.handler != nil {
		s.handler(events)
	}
}

// DiffSnapshots returns the events that turn prev into next.
// A nil prev reports every resource in next as added.
func DiffSnapshots(prev, next *Snapshot) []Event {
	var events []Event

	prevDevices := make(map[int]*models.Device)
	prevGroups := make(map[int]*models.Group)
	if prev != nil {
		for _, d := range prev.Devices {
			prevDevices[d.ID] = d
		}
		for _, g := range prev.Groups {
			prevGroups[g.ID] = g
		}
	}

	for _, d := range next.Devices {
		old, ok := prevDevices[d.ID]
		delete(prevDevices, d.ID)
		switch {
		case !ok:
			events = append(events, Event{Type: EventTypeAdd, ResourceID: d.ID, Resource: ResourceDevice, Device: d})
		case deviceChanged(old, d):
			events = append(events, Event{Type: EventTypeUpdate, ResourceID: d.ID, Resource: ResourceDevice, Device: d})
		}
	}
	for _, id := range sortedKeys(prevDevices) {
		events = append(events, Event{Type: EventTypeDelete, ResourceID: id, Resource: ResourceDevice})
	}

	for _, g := range next.Groups {
		old, ok := prevGroups[g.ID]
		delete(prevGroups, g.ID)
		switch {
		case !ok:
			events = append(events, Event{Type: EventTypeAdd, ResourceID: g.ID, Resource: ResourceGroup, Group: g})
		case groupChanged(old, g):
			events = append(events, Event{Type: EventTypeUpdate, ResourceID: g.ID, Resource: ResourceGroup, Group: g})
		}
	}
	for _, id := range sortedKeys(prevGroups) {
		events = append(events, Event{Type: EventTypeDelete, ResourceID: id, Resource: ResourceGroup})
	}

	return events
}

func deviceChanged(a, b *models.Device) bool {
	if a.Name != b.Name || a.Model != b.Model || a.Firmware != b.Firmware {
		return true
	}
	if a.IsLight() != b.IsLight() {
		return true
	}
	if !a.IsLight() {
		return false
	}

	la, lb := a.LightControl, b.LightControl
	return la.Power != lb.Power ||
		la.Brightness != lb.Brightness ||
		la.BrightnessUnknown != lb.BrightnessUnknown ||
		!equalPtr(la.ColorHex, lb.ColorHex) ||
		!equalPtr(la.Mired, lb.Mired)
}

func groupChanged(a, b *models.Group) bool {
	return a.Name != b.Name || a.Power != b.Power || !equalPtr(a.Brightness, b.Brightness)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
