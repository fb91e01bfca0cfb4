package screens

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/angristan/tradfri-tui/internal/api"
	"github.com/angristan/tradfri-tui/internal/models"
	"github.com/angristan/tradfri-tui/internal/tui/messages"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func demoDevice(t *testing.T, id int) *models.Device {
	t.Helper()
	d, err := api.NewDemoGateway().GetDevice(context.Background(), id)
	if err != nil {
		t.Fatalf("GetDevice(%d) error = %v", id, err)
	}
	return d
}

func TestColorsWhiteSpectrumBulb(t *testing.T) {
	m := NewColorsModel()
	m.SetDevice(demoDevice(t, 65536)) // WS bulb showing "normal"

	if got := m.Selected(); got != "normal" {
		t.Errorf("Selected() = %q, want current color normal", got)
	}

	enabled := 0
	for _, e := range m.entries {
		if e.enabled {
			enabled++
			if !models.IsCanonicalColor(e.preset.Name) {
				t.Errorf("extended color %q enabled on a white spectrum bulb", e.preset.Name)
			}
		}
	}
	if enabled != 3 {
		t.Errorf("enabled entries = %d, want 3", enabled)
	}

	// Navigation skips the disabled entries
	m, _ = m.Update(keyMsg("down"))
	if got := m.Selected(); got != "cold" {
		t.Errorf("after down Selected() = %q, want cold", got)
	}
	m, _ = m.Update(keyMsg("down"))
	if got := m.Selected(); got != "cold" {
		t.Errorf("down past the end moved to %q", got)
	}
	m, _ = m.Update(keyMsg("k"))
	m, _ = m.Update(keyMsg("k"))
	if got := m.Selected(); got != "warm" {
		t.Errorf("after two ups Selected() = %q, want warm", got)
	}
}

func TestColorsColorBulb(t *testing.T) {
	m := NewColorsModel()
	m.SetDevice(demoDevice(t, 65537)) // CWS bulb showing "warm amber"

	if got := m.Selected(); got != "warm amber" {
		t.Errorf("Selected() = %q, want warm amber", got)
	}
	for _, e := range m.entries {
		if !e.enabled {
			t.Errorf("%q disabled on a color bulb", e.preset.Name)
		}
	}

	_, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	msg, ok := cmd().(messages.ColorChosenMsg)
	if !ok || msg.DeviceID != 65537 || msg.Color != "warm amber" {
		t.Errorf("enter produced %#v", msg)
	}

	_, cmd = m.Update(keyMsg("esc"))
	if _, ok := cmd().(messages.HideColorsMsg); !ok {
		t.Error("esc should close the picker")
	}

	m.SetSize(100, 40)
	if view := m.View(); !strings.Contains(view, "Floor Lamp Colors") {
		t.Error("view missing modal title")
	}
}

func TestSetupAuthenticationFlow(t *testing.T) {
	m := NewSetupModel(nil, time.Second)
	m.discover = func(ctx context.Context, timeout time.Duration) ([]api.DiscoveredGateway, error) {
		return []api.DiscoveredGateway{{Host: "192.168.1.20", Name: "gw-b8d7af2b3c4d", Port: 5684}}, nil
	}

	if m.State() != StateDiscovering {
		t.Fatalf("initial state = %d, want StateDiscovering", m.State())
	}

	found, ok := m.discoverCmd()().(GatewaysDiscoveredMsg)
	if !ok || len(found.Gateways) != 1 {
		t.Fatalf("discoverCmd() = %#v", found)
	}
	m, _ = m.Update(found)
	if m.State() != StateGatewayList {
		t.Fatalf("state = %d, want StateGatewayList", m.State())
	}

	m, _ = m.Update(keyMsg("enter"))
	if m.State() != StateCodeEntry || m.host != "192.168.1.20" {
		t.Fatalf("state = %d host %q, want code entry for the discovered gateway", m.State(), m.host)
	}

	// An empty code is not submitted
	m, _ = m.Update(keyMsg("enter"))
	if m.State() != StateCodeEntry {
		t.Errorf("empty code left code entry, state = %d", m.State())
	}

	m, _ = m.Update(keyMsg("abcd1234"))
	m, cmd := m.Update(keyMsg("enter"))
	if m.State() != StateAuthenticating || cmd == nil {
		t.Fatalf("state = %d, want StateAuthenticating with a command", m.State())
	}

	m, _ = m.Update(AuthErrorMsg{Err: errors.New("gateway unreachable or API user already exists")})
	if m.State() != StateError {
		t.Fatalf("state = %d, want StateError", m.State())
	}
	if !strings.Contains(m.View(), "already exists") {
		t.Error("error view should show the auth error")
	}

	// Retry asks for the code again
	m, _ = m.Update(keyMsg("enter"))
	if m.State() != StateCodeEntry {
		t.Errorf("retry state = %d, want StateCodeEntry", m.State())
	}
}

func TestSetupDiscoveryError(t *testing.T) {
	m := NewSetupModel(nil, time.Second)
	m.discover = func(ctx context.Context, timeout time.Duration) ([]api.DiscoveredGateway, error) {
		return nil, errors.New("no multicast route")
	}

	msg := m.discoverCmd()()
	m, _ = m.Update(msg)
	if m.State() != StateGatewayList {
		t.Fatalf("state = %d, want StateGatewayList", m.State())
	}
	if !strings.Contains(m.View(), "no multicast route") {
		t.Error("view should show the discovery error")
	}

	// Only the manual entry is left to pick
	m, _ = m.Update(keyMsg("enter"))
	if m.State() != StateManualEntry {
		t.Errorf("state = %d, want StateManualEntry", m.State())
	}
}

func TestMainModelUngroupedDevices(t *testing.T) {
	lamp := &models.Device{ID: 1, Name: "Desk Lamp", Model: "TRADFRI bulb E14 WS", LightControl: &models.LightControl{Brightness: 254, Power: models.PowerOn}}
	hall := &models.Device{ID: 2, Name: "Hall", Model: "TRADFRI bulb E27 WS", LightControl: &models.LightControl{Brightness: 127, Power: models.PowerOff}}
	office := &models.Group{ID: 10, Name: "Office", Power: models.PowerOn, DeviceIDs: []int{1}}

	m := NewMainModel("192.168.1.20")
	m.SetSize(120, 40)
	m.SetData([]*models.Device{lamp, hall}, []*models.Group{office})

	view := m.View()
	for _, want := range []string{"Office", "Desk Lamp", ungroupedName, "Hall", "1/2 lights on"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// Searching narrows the list to matching devices
	m.searchQuery = "hall"
	m.rebuildList()
	for _, item := range m.items {
		if item.device != nil && item.device.ID != 2 {
			t.Errorf("search kept %q", item.device.Name)
		}
	}
}

func TestBrightnessFromKey(t *testing.T) {
	tests := map[string]int{"1": 10, "5": 50, "9": 90, "0": 100}
	for key, want := range tests {
		if got := brightnessFromKey(key); got != want {
			t.Errorf("brightnessFromKey(%q) = %d, want %d", key, got, want)
		}
	}
}
