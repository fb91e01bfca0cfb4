package api

import (
	"context"

	"github.com/angristan/tradfri-tui/internal/models"
)

// GatewayClient defines the interface for interacting with a TRÅDFRI gateway.
// This abstraction allows for both real gateway connections and demo mode.
type GatewayClient interface {
	// FetchAll retrieves all devices and groups from the gateway
	FetchAll(ctx context.Context) ([]*models.Device, []*models.Group, error)

	// Status reads
	ListDeviceIDs(ctx context.Context) ([]int, error)
	GetDevice(ctx context.Context, id int) (*models.Device, error)
	ListGroupIDs(ctx context.Context) ([]int, error)
	GetGroup(ctx context.Context, id int) (*models.Group, error)

	// Bulb control
	SetPower(ctx context.Context, id int, on bool) error
	SetBrightness(ctx context.Context, id int, pct int) error
	SetColor(ctx context.Context, id int, name string) error

	// Group control
	SetGroupPower(ctx context.Context, id int, on bool) error
	SetGroupBrightness(ctx context.Context, id int, pct int) error

	// Metadata
	Host() string
}

// Compile-time checks that both clients implement GatewayClient
var (
	_ GatewayClient = (*Gateway)(nil)
	_ GatewayClient = (*DemoGateway)(nil)
)
