package messages

import (
	"github.com/angristan/tradfri-tui/internal/coap"
	"github.com/angristan/tradfri-tui/internal/models"
)

// GatewayConnectedMsg indicates a successful authentication with a gateway
type GatewayConnectedMsg struct {
	Creds coap.Credentials
}

// DataFetchedMsg contains fetched data from the gateway
type DataFetchedMsg struct {
	Devices []*models.Device
	Groups  []*models.Group
}

// ErrorMsg indicates an error occurred
type ErrorMsg struct {
	Err error
}

// ShowColorsMsg requests showing the color picker for a bulb
type ShowColorsMsg struct {
	DeviceID int
}

// HideColorsMsg requests hiding the color picker
type HideColorsMsg struct{}

// ColorChosenMsg indicates a palette entry was picked for a bulb
type ColorChosenMsg struct {
	DeviceID int
	Color    string
}

// RefreshMsg requests a data refresh
type RefreshMsg struct{}

// PollMsg is sent on every background poll interval
type PollMsg struct{}

// ControlDoneMsg reports a finished control request
type ControlDoneMsg struct {
	Err error
}
