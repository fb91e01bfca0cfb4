package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/angristan/tradfri-tui/internal/coap"
	"github.com/angristan/tradfri-tui/internal/config"
	"github.com/angristan/tradfri-tui/internal/models"
	"github.com/angristan/tradfri-tui/internal/tui/messages"
)

func newDemoModel(t *testing.T) Model {
	t.Helper()

	model := NewModel(&config.Config{}, true)
	sized, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model = sized.(Model)

	fetchMsg := model.fetchDataCmd()()
	dataMsg, ok := fetchMsg.(messages.DataFetchedMsg)
	if !ok {
		t.Fatalf("fetchDataCmd returned %T, want DataFetchedMsg", fetchMsg)
	}

	newModel, _ := model.Update(dataMsg)
	return newModel.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDemoModeInit(t *testing.T) {
	cfg := &config.Config{}
	model := NewModel(cfg, true)

	if model.screen != ScreenMain {
		t.Errorf("Expected ScreenMain, got %d", model.screen)
	}
	if !model.demoMode {
		t.Error("Expected demoMode to be true")
	}
	if model.client == nil {
		t.Fatal("Expected client to be set")
	}

	fetchMsg := model.fetchDataCmd()()
	dataMsg, ok := fetchMsg.(messages.DataFetchedMsg)
	if !ok {
		t.Fatalf("fetchDataCmd returned unexpected type: %T", fetchMsg)
	}
	if len(dataMsg.Devices) == 0 || len(dataMsg.Groups) == 0 {
		t.Fatalf("DataFetchedMsg = %d devices, %d groups", len(dataMsg.Devices), len(dataMsg.Groups))
	}

	sized, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	newModel, _ := sized.(Model).Update(dataMsg)
	view := newModel.(Model).View()

	if strings.Contains(view, "Loading") {
		t.Error("View should not contain 'Loading' after DataFetchedMsg")
	}
	if !strings.Contains(view, "Connected") {
		t.Error("View should contain 'Connected' after DataFetchedMsg")
	}
	if !strings.Contains(view, "Living Room") {
		t.Error("View should list the demo groups")
	}
}

func TestNoGatewaysStartsSetup(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	model := NewModel(&config.Config{}, false)
	if model.screen != ScreenSetup {
		t.Errorf("Expected ScreenSetup, got %d", model.screen)
	}
	if model.client != nil {
		t.Error("Expected no client before authentication")
	}

	msg := model.fetchDataCmd()()
	errMsg, ok := msg.(messages.ErrorMsg)
	if !ok || !errors.Is(errMsg.Err, config.ErrNoGateways) {
		t.Errorf("fetchDataCmd() = %#v, want ErrNoGateways", msg)
	}
}

func TestConfiguredGatewayStartsMain(t *testing.T) {
	cfg := &config.Config{
		Gateways: []config.GatewayConfig{{Host: "192.168.1.20", APIUser: "TRADFRI_PY_API_1", APIKey: "k"}},
	}
	model := NewModel(cfg, false)

	if model.screen != ScreenMain {
		t.Errorf("Expected ScreenMain, got %d", model.screen)
	}
	if model.client == nil || model.client.Host() != "192.168.1.20" {
		t.Errorf("client = %v", model.client)
	}
}

func TestGatewayConnectedSavesConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &config.Config{}
	model := NewModel(cfg, false)

	creds := coap.Credentials{Host: "192.168.1.20", Identity: "TRADFRI_PY_API_9", Key: "psk"}
	newModel, _ := model.Update(messages.GatewayConnectedMsg{Creds: creds})
	m := newModel.(Model)

	if m.screen != ScreenMain {
		t.Errorf("Expected ScreenMain, got %d", m.screen)
	}
	if m.err != nil {
		t.Errorf("unexpected error: %v", m.err)
	}

	loaded, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	gw, err := loaded.GetGateway("192.168.1.20")
	if err != nil {
		t.Fatalf("gateway not saved: %v", err)
	}
	if gw.APIUser != "TRADFRI_PY_API_9" || gw.APIKey != "psk" || loaded.LastHost != "192.168.1.20" {
		t.Errorf("saved gateway = %+v, last host %q", gw, loaded.LastHost)
	}
}

func TestToggleGroupPower(t *testing.T) {
	m := newDemoModel(t)

	// First item is the first group header (sorted by name)
	g := m.mainScreen.SelectedGroup()
	if g == nil || !m.mainScreen.IsGroupSelected() {
		t.Fatal("Expected a group header to be selected")
	}
	wasOn := g.Power.On()

	newModel, cmd := m.Update(key(" "))
	m = newModel.(Model)

	if g.Power.On() == wasOn {
		t.Error("Expected optimistic group power toggle")
	}
	if cmd == nil {
		t.Fatal("Expected a control command")
	}
	if m.pending.Len() == 0 {
		t.Error("Expected pending operations to be registered")
	}
}

func TestReconcileKeepsOptimisticState(t *testing.T) {
	m := newDemoModel(t)

	// Move onto the first device and switch it
	newModel, _ := m.Update(key("down"))
	m = newModel.(Model)
	light := m.mainScreen.SelectedLight()
	if light == nil {
		t.Fatal("Expected a light to be selected")
	}
	wantOn := !light.LightControl.Power.On()
	newModel, _ = m.Update(key(" "))
	m = newModel.(Model)

	// A poll that raced the write still reports the old state
	stale := light.Clone()
	stale.LightControl.Power = models.PowerStateFromBool(!wantOn)
	devices := []*models.Device{stale}
	m.reconcile(devices, nil)

	if devices[0].LightControl.Power.On() != wantOn {
		t.Error("Expected stale poll value to be replaced by the optimistic one")
	}
}

func TestColorPickerFlow(t *testing.T) {
	m := newDemoModel(t)

	// Find a light and open the picker
	for i := 0; i < 10 && m.mainScreen.SelectedLight() == nil; i++ {
		newModel, _ := m.Update(key("down"))
		m = newModel.(Model)
	}
	light := m.mainScreen.SelectedLight()
	if light == nil {
		t.Fatal("Expected a light in the demo data")
	}

	_, cmd := m.Update(key("p"))
	if cmd == nil {
		t.Fatal("Expected ShowColorsMsg command")
	}
	newModel, _ := m.Update(cmd())
	m = newModel.(Model)
	if m.screen != ScreenColors {
		t.Fatalf("Expected ScreenColors, got %d", m.screen)
	}
	if !strings.Contains(m.View(), "Colors") {
		t.Error("Expected color picker view")
	}

	_, cmd = m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("Expected ColorChosenMsg command")
	}
	chosen, ok := cmd().(messages.ColorChosenMsg)
	if !ok || chosen.DeviceID != light.ID {
		t.Fatalf("chosen = %#v", chosen)
	}

	newModel, cmd = m.Update(chosen)
	m = newModel.(Model)
	if m.screen != ScreenMain {
		t.Errorf("Expected ScreenMain after choosing, got %d", m.screen)
	}
	if cmd == nil {
		t.Fatal("Expected a SetColor command")
	}
	preset, _ := models.LookupColor(chosen.Color)
	if light.LightControl.ColorHex == nil || *light.LightControl.ColorHex != preset.Hex {
		t.Errorf("optimistic color = %v, want %s", light.LightControl.ColorHex, preset.Hex)
	}
}

func TestControlErrorRefetches(t *testing.T) {
	m := newDemoModel(t)
	m.pending.Add("device", 65536, FieldPower, true)

	newModel, cmd := m.Update(messages.ControlDoneMsg{Err: errors.New("4.05 Method Not Allowed")})
	m = newModel.(Model)

	if m.pending.Len() != 0 {
		t.Error("Expected pending operations to be dropped after a failed write")
	}
	if cmd == nil {
		t.Fatal("Expected a refetch command")
	}
	if !strings.Contains(m.View(), "4.05 Method Not Allowed") {
		t.Error("Expected the error to be shown")
	}
}
