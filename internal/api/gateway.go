package api

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/angristan/tradfri-tui/internal/coap"
	"github.com/angristan/tradfri-tui/internal/codec"
	"github.com/angristan/tradfri-tui/internal/models"
)

// Gateway resource collections
const (
	PathDevices = "/15001"
	PathGroups  = "/15004"
	PathAuth    = "/15011/9063"
)

// Default request timing
const (
	DefaultReadTimeout    = 5 * time.Second
	DefaultWriteTimeout   = 10 * time.Second
	DefaultAuthTimeout    = 10 * time.Second
	DefaultRequestSpacing = 500 * time.Millisecond
)

// Gateway is a client for an authenticated TRÅDFRI gateway.
// Requests are issued one at a time. The next request starts no sooner than
// the spacing after the previous response arrived.
type Gateway struct {
	transport coap.Transport
	creds     coap.Credentials

	readTimeout  time.Duration
	writeTimeout time.Duration

	// turn holds one token while a request is in flight
	turn     chan struct{}
	spacing  time.Duration
	limiter  *rate.Limiter // start-to-start spacing
	lastDone time.Time     // guarded by turn
}

// Option configures a Gateway
type Option func(*Gateway)

// WithReadTimeout sets the timeout applied to status reads
func WithReadTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.readTimeout = d
	}
}

// WithWriteTimeout sets the timeout applied to control writes
func WithWriteTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.writeTimeout = d
	}
}

// WithRequestSpacing sets the minimum quiet time between a response and the
// next request. Zero disables spacing; requests are still serialized.
func WithRequestSpacing(d time.Duration) Option {
	return func(g *Gateway) {
		if d <= 0 {
			g.spacing = 0
			g.limiter = nil
			return
		}
		g.spacing = d
		g.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// NewGateway creates a gateway client using the given transport and credentials
func NewGateway(t coap.Transport, creds coap.Credentials, opts ...Option) *Gateway {
	g := &Gateway{
		transport:    t,
		creds:        creds,
		readTimeout:  DefaultReadTimeout,
		writeTimeout: DefaultWriteTimeout,
		turn:         make(chan struct{}, 1),
		spacing:      DefaultRequestSpacing,
		limiter:      rate.NewLimiter(rate.Every(DefaultRequestSpacing), 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Host returns the gateway host
func (g *Gateway) Host() string {
	return g.creds.Host
}

// Identity returns the API user the client authenticates as
func (g *Gateway) Identity() string {
	return g.creds.Identity
}

// waitErr reports a request that could not be issued before ctx ran out
func waitErr(ctx context.Context, method coap.Method, path string, reason string) error {
	err := ctx.Err()
	if err == nil {
		// The limiter refuses waits that cannot finish before the deadline
		err = context.DeadlineExceeded
	}
	return &coap.TransportError{Method: method, Path: path, Diagnostic: reason, Err: err}
}

// acquire waits for exclusive use of the gateway and for the quiet gap
// after the previous response. The caller must call release.
func (g *Gateway) acquire(ctx context.Context, method coap.Method, path string) error {
	select {
	case g.turn <- struct{}{}:
	case <-ctx.Done():
		return waitErr(ctx, method, path, "waiting for previous request")
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			<-g.turn
			return waitErr(ctx, method, path, "request spacing: "+err.Error())
		}
	}

	if g.spacing > 0 && !g.lastDone.IsZero() {
		if wait := g.spacing - time.Since(g.lastDone); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				<-g.turn
				return waitErr(ctx, method, path, "request spacing")
			}
		}
	}
	return nil
}

func (g *Gateway) release() {
	g.lastDone = time.Now()
	<-g.turn
}

// send issues a single request once the gateway is free
func (g *Gateway) send(ctx context.Context, method coap.Method, path string, payload []byte) ([]byte, error) {
	if err := g.acquire(ctx, method, path); err != nil {
		return nil, err
	}
	defer g.release()

	timeout := g.readTimeout
	if method != coap.MethodGet {
		timeout = g.writeTimeout
	}

	log.Debug().
		Str("method", string(method)).
		Str("path", path).
		Bytes("payload", payload).
		Msg("Gateway request")

	return g.transport.Send(ctx, g.creds, coap.Request{
		Method:  method,
		Path:    path,
		Payload: payload,
		Timeout: timeout,
	})
}

func devicePath(id int) string {
	return fmt.Sprintf("%s/%d", PathDevices, id)
}

func groupPath(id int) string {
	return fmt.Sprintf("%s/%d", PathGroups, id)
}

// ListDeviceIDs returns the instance IDs of all devices paired with the gateway
func (g *Gateway) ListDeviceIDs(ctx context.Context) ([]int, error) {
	raw, err := g.send(ctx, coap.MethodGet, PathDevices, nil)
	if err != nil {
		return nil, err
	}
	return codec.DecodeIDs(raw)
}

// GetDevice retrieves a single device
func (g *Gateway) GetDevice(ctx context.Context, id int) (*models.Device, error) {
	raw, err := g.send(ctx, coap.MethodGet, devicePath(id), nil)
	if err != nil {
		return nil, err
	}
	return codec.DecodeDevice(raw)
}

// ListGroupIDs returns the instance IDs of all groups
func (g *Gateway) ListGroupIDs(ctx context.Context) ([]int, error) {
	raw, err := g.send(ctx, coap.MethodGet, PathGroups, nil)
	if err != nil {
		return nil, err
	}
	return codec.DecodeIDs(raw)
}

// GetGroup retrieves a single group
func (g *Gateway) GetGroup(ctx context.Context, id int) (*models.Group, error) {
	raw, err := g.send(ctx, coap.MethodGet, groupPath(id), nil)
	if err != nil {
		return nil, err
	}
	return codec.DecodeGroup(raw)
}

// setLightControl sends a PUT to a device's light control block
func (g *Gateway) setLightControl(ctx context.Context, id int, fields codec.LightControlFields) error {
	payload, err := codec.EncodeLightControl(fields)
	if err != nil {
		return err
	}
	_, err = g.send(ctx, coap.MethodPut, devicePath(id), payload)
	return err
}

// setGroupControl sends a PUT to a group
func (g *Gateway) setGroupControl(ctx context.Context, id int, fields codec.GroupControlFields) error {
	payload, err := codec.EncodeGroupControl(fields)
	if err != nil {
		return err
	}
	_, err = g.send(ctx, coap.MethodPut, groupPath(id), payload)
	return err
}

// SetPower turns a bulb on or off
func (g *Gateway) SetPower(ctx context.Context, id int, on bool) error {
	return g.setLightControl(ctx, id, codec.LightControlFields{
		Power: codec.Int(int(models.PowerStateFromBool(on))),
	})
}

// SetBrightness sets a bulb's brightness as a percentage (1-100)
func (g *Gateway) SetBrightness(ctx context.Context, id int, pct int) error {
	level, err := models.BrightnessToDevice(pct)
	if err != nil {
		return err
	}
	return g.setLightControl(ctx, id, codec.LightControlFields{
		Brightness: codec.Int(level),
	})
}

// SetColor sets a bulb's color from the preset palette.
// The white-spectrum presets are sent directly. Any other preset requires
// the bulb to be color capable, which costs one extra status read.
func (g *Gateway) SetColor(ctx context.Context, id int, name string) error {
	preset, err := models.LookupColor(name)
	if err != nil {
		return err
	}

	if !models.IsCanonicalColor(name) {
		device, err := g.GetDevice(ctx, id)
		if err != nil {
			return err
		}
		if !device.ColorCapable() {
			return &CapabilityError{
				DeviceID: id,
				Feature:  "color " + name,
				Model:    device.Model,
			}
		}
	}

	return g.setLightControl(ctx, id, codec.LightControlFields{
		ColorHex: codec.String(preset.Hex),
	})
}

// SetGroupPower turns every bulb of a group on or off
func (g *Gateway) SetGroupPower(ctx context.Context, id int, on bool) error {
	return g.setGroupControl(ctx, id, codec.GroupControlFields{
		Power: codec.Int(int(models.PowerStateFromBool(on))),
	})
}

// SetGroupBrightness sets the brightness of a group as a percentage (1-100)
func (g *Gateway) SetGroupBrightness(ctx context.Context, id int, pct int) error {
	level, err := models.BrightnessToDevice(pct)
	if err != nil {
		return err
	}
	return g.setGroupControl(ctx, id, codec.GroupControlFields{
		Brightness: codec.Int(level),
	})
}

// FetchAll enumerates every device and group on the gateway, one request at
// a time. Errors are returned as produced by the failing request.
func (g *Gateway) FetchAll(ctx context.Context) ([]*models.Device, []*models.Group, error) {
	deviceIDs, err := g.ListDeviceIDs(ctx)
	if err != nil {
		return nil, nil, err
	}

	devices := make([]*models.Device, 0, len(deviceIDs))
	for _, id := range deviceIDs {
		device, err := g.GetDevice(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		devices = append(devices, device)
	}

	groupIDs, err := g.ListGroupIDs(ctx)
	if err != nil {
		return devices, nil, err
	}

	groups := make([]*models.Group, 0, len(groupIDs))
	for _, id := range groupIDs {
		group, err := g.GetGroup(ctx, id)
		if err != nil {
			return devices, nil, err
		}
		groups = append(groups, group)
	}

	return devices, groups, nil
}
