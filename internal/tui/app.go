package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/angristan/tradfri-tui/internal/api"
	"github.com/angristan/tradfri-tui/internal/coap"
	"github.com/angristan/tradfri-tui/internal/config"
	"github.com/angristan/tradfri-tui/internal/models"
	"github.com/angristan/tradfri-tui/internal/tui/messages"
	"github.com/angristan/tradfri-tui/internal/tui/screens"
)

// PollInterval is how often the dashboard re-reads the gateway
const PollInterval = 15 * time.Second

// Screen represents the current screen state
type Screen int

const (
	ScreenSetup Screen = iota
	ScreenMain
	ScreenColors
)

// Model is the main application model
type Model struct {
	// Configuration
	config *config.Config

	// Gateway connection
	client    api.GatewayClient
	transport coap.Transport
	demoMode  bool
	pending   *PendingTracker

	// Data
	devices []*models.Device
	groups  []*models.Group

	// Current screen
	screen Screen

	// Screen models
	setupScreen  screens.SetupModel
	mainScreen   screens.MainModel
	colorsScreen screens.ColorsModel

	// Window size
	width  int
	height int

	// Error state
	err error

	// Context for cancellation
	ctx    context.Context
	cancel context.CancelFunc
}

// NewModel creates a new application model.
// In demo mode the dashboard runs against an in-memory gateway.
func NewModel(cfg *config.Config, demo bool) Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		config:   cfg,
		demoMode: demo,
		pending:  NewPendingTracker(),
		ctx:      ctx,
		cancel:   cancel,
	}

	transport, err := api.NewTransport(cfg.CoAP)
	if err != nil {
		m.err = err
	}
	m.transport = transport

	// Determine initial screen
	switch {
	case demo:
		m.client = api.NewDemoGateway()
		m.screen = ScreenMain
	case cfg.HasGateways() && transport != nil:
		gw, _ := cfg.GetLastGateway()
		m.client = api.NewGateway(transport, api.Credentials(*gw), api.OptionsFromConfig(cfg)...)
		m.screen = ScreenMain
	default:
		m.screen = ScreenSetup
	}

	host := ""
	if m.client != nil {
		host = m.client.Host()
	}

	m.setupScreen = screens.NewSetupModel(transport, cfg.Timeouts.Auth.Duration())
	m.mainScreen = screens.NewMainModel(host)
	m.colorsScreen = screens.NewColorsModel()

	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("TRÅDFRI"),
	}

	switch m.screen {
	case ScreenSetup:
		cmds = append(cmds, m.setupScreen.Init())
	case ScreenMain:
		cmds = append(cmds, m.mainScreen.Init(), m.fetchDataCmd(), m.pollCmd())
	}

	return tea.Batch(cmds...)
}

// addPending adapts the tracker to the screen callback
func (m Model) addPending(resource string, id int, field string, value any, dir screens.Direction) {
	m.pending.AddWithDirection(resource, id, field, value, dir)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.mainScreen.SetSize(msg.Width, msg.Height)
		m.setupScreen.SetSize(msg.Width, msg.Height)
		m.colorsScreen.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}

	case messages.GatewayConnectedMsg:
		m.client = api.NewGateway(m.transport, msg.Creds, api.OptionsFromConfig(m.config)...)
		m.config.AddGateway(config.GatewayConfig{
			Host:    msg.Creds.Host,
			APIUser: msg.Creds.Identity,
			APIKey:  msg.Creds.Key,
		})
		m.config.LastHost = msg.Creds.Host
		if err := m.config.Save(); err != nil {
			m.err = err
		}

		m.screen = ScreenMain
		m.mainScreen.SetHost(msg.Creds.Host)
		m.mainScreen.SetLoading(true)
		cmds = append(cmds, m.mainScreen.Init(), m.fetchDataCmd(), m.pollCmd())
		return m, tea.Batch(cmds...)

	case messages.DataFetchedMsg:
		m.reconcile(msg.Devices, msg.Groups)
		m.devices = msg.Devices
		m.groups = msg.Groups
		m.err = nil
		m.mainScreen.SetStatus("")
		m.mainScreen.SetData(m.devices, m.groups)
		return m, nil

	case messages.ErrorMsg:
		m.err = msg.Err
		m.mainScreen.SetStatus(msg.Err.Error())
		if m.mainScreen.Loading() {
			m.mainScreen.SetUnreachable(true)
		}
		return m, nil

	case messages.ControlDoneMsg:
		if msg.Err != nil {
			// The optimistic state is wrong now, re-read the truth
			m.err = msg.Err
			m.pending = NewPendingTracker()
			m.mainScreen.SetStatus(msg.Err.Error())
			return m, m.fetchDataCmd()
		}
		return m, nil

	case messages.PollMsg:
		m.pending.Cleanup()
		if m.screen == ScreenMain || m.screen == ScreenColors {
			return m, tea.Batch(m.fetchDataCmd(), m.pollCmd())
		}
		return m, m.pollCmd()

	case messages.ShowColorsMsg:
		if d := m.mainScreen.DeviceByID(msg.DeviceID); d != nil {
			m.colorsScreen.SetDevice(d)
			m.screen = ScreenColors
		}
		return m, nil

	case messages.HideColorsMsg:
		m.screen = ScreenMain
		return m, nil

	case messages.ColorChosenMsg:
		m.screen = ScreenMain
		return m, m.mainScreen.SetColor(m.client, m.addPending, msg.DeviceID, msg.Color)

	case messages.RefreshMsg:
		m.mainScreen.SetLoading(true)
		cmds = append(cmds, m.fetchDataCmd())
	}

	// Route to current screen
	switch m.screen {
	case ScreenSetup:
		var cmd tea.Cmd
		m.setupScreen, cmd = m.setupScreen.Update(msg)
		cmds = append(cmds, cmd)

	case ScreenMain:
		var cmd tea.Cmd
		m.mainScreen, cmd = m.mainScreen.Update(msg, m.client, m.addPending)
		cmds = append(cmds, cmd)

	case ScreenColors:
		var cmd tea.Cmd
		m.colorsScreen, cmd = m.colorsScreen.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// reconcile keeps optimistic values for writes a poll has not observed yet
func (m Model) reconcile(devices []*models.Device, groups []*models.Group) {
	prevDevices := make(map[int]*models.Device, len(m.devices))
	for _, d := range m.devices {
		prevDevices[d.ID] = d
	}
	for _, d := range devices {
		prev, ok := prevDevices[d.ID]
		if !ok || !d.IsLight() || !prev.IsLight() {
			continue
		}
		lc, old := d.LightControl, prev.LightControl
		if m.pending.ShouldIgnore(api.ResourceDevice, d.ID, FieldPower, lc.Power.On()) {
			lc.Power = old.Power
		}
		if m.pending.ShouldIgnore(api.ResourceDevice, d.ID, FieldBrightness, lc.BrightnessPct()) {
			lc.Brightness = old.Brightness
		}
		hex := ""
		if lc.ColorHex != nil {
			hex = *lc.ColorHex
		}
		if m.pending.ShouldIgnore(api.ResourceDevice, d.ID, FieldColor, hex) {
			lc.ColorHex = old.ColorHex
		}
	}

	prevGroups := make(map[int]*models.Group, len(m.groups))
	for _, g := range m.groups {
		prevGroups[g.ID] = g
	}
	for _, g := range groups {
		prev, ok := prevGroups[g.ID]
		if !ok {
			continue
		}
		if m.pending.ShouldIgnore(api.ResourceGroup, g.ID, FieldPower, g.Power.On()) {
			g.Power = prev.Power
		}
		if pct := g.BrightnessPct(); pct >= 0 && m.pending.ShouldIgnore(api.ResourceGroup, g.ID, FieldBrightness, pct) {
			g.Brightness = prev.Brightness
		}
	}
}

// View renders the current screen
func (m Model) View() string {
	switch m.screen {
	case ScreenSetup:
		return m.setupScreen.View()
	case ScreenMain:
		return m.mainScreen.View()
	case ScreenColors:
		return m.colorsScreen.View()
	default:
		return "Unknown screen"
	}
}

// fetchDataCmd creates a command to fetch all data from the gateway
func (m Model) fetchDataCmd() tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		if client == nil {
			return messages.ErrorMsg{Err: config.ErrNoGateways}
		}

		devices, groups, err := client.FetchAll(ctx)
		if err != nil {
			return messages.ErrorMsg{Err: err}
		}

		return messages.DataFetchedMsg{Devices: devices, Groups: groups}
	}
}

// pollCmd schedules the next background refresh
func (m Model) pollCmd() tea.Cmd {
	return tea.Tick(PollInterval, func(time.Time) tea.Msg {
		return messages.PollMsg{}
	})
}

// Run starts the dashboard on the alternate screen
func Run(cfg *config.Config, demo bool) error {
	m := NewModel(cfg, demo)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
