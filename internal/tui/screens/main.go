package screens

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/tradfri-tui/internal/api"
	"github.com/angristan/tradfri-tui/internal/models"
	"github.com/angristan/tradfri-tui/internal/tui/components"
	"github.com/angristan/tradfri-tui/internal/tui/messages"
	"github.com/angristan/tradfri-tui/internal/tui/styles"
)

// Direction represents the direction of a change
type Direction int

const (
	DirExact Direction = iota // Exact match required (power, color)
	DirUp                     // Value is increasing
	DirDown                   // Value is decreasing
)

// Fields tracked for optimistic updates
const (
	FieldPower      = "power"
	FieldBrightness = "brightness"
	FieldColor      = "color"
)

// PendingAdder registers an optimistic change that a poll should not undo
type PendingAdder func(resource string, id int, field string, value any, dir Direction)

// controlTimeout bounds a single control command including request spacing
const controlTimeout = 30 * time.Second

// brightnessStep is the change applied by the left/right keys
const brightnessStep = 10

// ungroupedName labels devices that belong to no group
const ungroupedName = "Other devices"

// listItem represents either a group header or a device in the unified list
type listItem struct {
	isGroup bool
	group   *models.Group // nil for the ungrouped section
	device  *models.Device
}

// MainModel is the main dashboard screen model
type MainModel struct {
	devices []*models.Device
	groups  []*models.Group
	members map[int][]*models.Device // group ID -> member devices
	grouped map[int]bool             // device IDs that belong to a group

	selectedIndex int
	scrollOffset  int
	items         []listItem

	host        string
	showPanel   bool
	searchMode  bool
	searchInput textinput.Model
	searchQuery string

	// Loading state
	loading     bool
	unreachable bool
	spinner     spinner.Model
	status      string

	width  int
	height int
}

// NewMainModel creates a new main screen model
func NewMainModel(host string) MainModel {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.CharLimit = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StyleSpinner

	return MainModel{
		host:        host,
		searchInput: ti,
		members:     make(map[int][]*models.Device),
		grouped:     make(map[int]bool),
		showPanel:   true,
		loading:     true,
		spinner:     sp,
	}
}

// Init initializes the main screen
func (m MainModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// SetSize sets the terminal size
func (m *MainModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetHost sets the gateway host shown in the header
func (m *MainModel) SetHost(host string) {
	m.host = host
}

// SetLoading toggles the loading indicator
func (m *MainModel) SetLoading(loading bool) {
	m.loading = loading
}

// SetStatus sets the message shown above the help bar
func (m *MainModel) SetStatus(status string) {
	m.status = status
}

// SetUnreachable marks the gateway as failing to answer polls
func (m *MainModel) SetUnreachable(unreachable bool) {
	m.unreachable = unreachable
	if unreachable {
		m.loading = false
	}
}

// Loading reports whether a fetch is in progress
func (m MainModel) Loading() bool {
	return m.loading
}

// visibleLines returns how many items fit in the viewport
func (m *MainModel) visibleLines() int {
	contentHeight := m.height - 5
	if m.searchMode || m.searchQuery != "" {
		contentHeight--
	}
	if contentHeight < 3 {
		contentHeight = 3
	}

	// Subtract scroll indicators (up to 2 lines)
	contentHeight -= 2

	// Group headers take 2 lines, devices take 1 line
	visible := contentHeight * 3 / 4
	if visible < 2 {
		visible = 2
	}
	return visible
}

// ensureVisible adjusts scrollOffset so selectedIndex is visible
func (m *MainModel) ensureVisible() {
	visible := m.visibleLines()

	if m.selectedIndex < m.scrollOffset {
		m.scrollOffset = m.selectedIndex
	}
	if m.selectedIndex >= m.scrollOffset+visible {
		m.scrollOffset = m.selectedIndex - visible + 1
	}

	maxScroll := len(m.items) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scrollOffset > maxScroll {
		m.scrollOffset = maxScroll
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// SetData replaces the displayed devices and groups, keeping the selection
// on the same resource when it still exists
func (m *MainModel) SetData(devices []*models.Device, groups []*models.Group) {
	var keep *listItem
	if item := m.SelectedItem(); item != nil {
		copied := *item
		keep = &copied
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})
	m.devices = devices
	m.groups = groups
	m.loading = false
	m.unreachable = false

	byID := make(map[int]*models.Device, len(devices))
	for _, d := range devices {
		byID[d.ID] = d
	}
	m.members = make(map[int][]*models.Device)
	m.grouped = make(map[int]bool)
	for _, g := range groups {
		for _, id := range g.DeviceIDs {
			if d, ok := byID[id]; ok {
				m.members[g.ID] = append(m.members[g.ID], d)
				m.grouped[id] = true
			}
		}
	}

	m.rebuildList()
	if keep != nil {
		m.reselect(*keep)
	}
}

// reselect moves the cursor back onto the resource it was on
func (m *MainModel) reselect(prev listItem) {
	for i, item := range m.items {
		if item.isGroup != prev.isGroup {
			continue
		}
		if item.isGroup && sameGroup(item.group, prev.group) {
			m.selectedIndex = i
			break
		}
		if !item.isGroup && item.device.ID == prev.device.ID && sameGroup(item.group, prev.group) {
			m.selectedIndex = i
			break
		}
	}
	m.ensureVisible()
}

func sameGroup(a, b *models.Group) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

func (m *MainModel) matches(d *models.Device) bool {
	return m.searchQuery == "" || strings.Contains(strings.ToLower(d.Name), strings.ToLower(m.searchQuery))
}

func sortedByName(devices []*models.Device) []*models.Device {
	out := append([]*models.Device(nil), devices...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

func (m *MainModel) rebuildList() {
	m.items = nil

	for _, g := range m.groups {
		var shown []*models.Device
		for _, d := range sortedByName(m.members[g.ID]) {
			if m.matches(d) {
				shown = append(shown, d)
			}
		}
		// Empty groups stay visible unless a search filters them out
		if len(shown) == 0 && m.searchQuery != "" {
			continue
		}
		m.items = append(m.items, listItem{isGroup: true, group: g})
		for _, d := range shown {
			m.items = append(m.items, listItem{group: g, device: d})
		}
	}

	var ungrouped []*models.Device
	for _, d := range sortedByName(m.devices) {
		if !m.grouped[d.ID] && m.matches(d) {
			ungrouped = append(ungrouped, d)
		}
	}
	if len(ungrouped) > 0 {
		m.items = append(m.items, listItem{isGroup: true})
		for _, d := range ungrouped {
			m.items = append(m.items, listItem{device: d})
		}
	}

	if m.selectedIndex >= len(m.items) {
		m.selectedIndex = max(0, len(m.items)-1)
	}
	m.scrollOffset = 0
	m.ensureVisible()
}

// SelectedItem returns the item under the cursor
func (m *MainModel) SelectedItem() *listItem {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.items) {
		return &m.items[m.selectedIndex]
	}
	return nil
}

// SelectedDevice returns the selected device, or nil when a header is selected
func (m *MainModel) SelectedDevice() *models.Device {
	if item := m.SelectedItem(); item != nil && !item.isGroup {
		return item.device
	}
	return nil
}

// SelectedLight returns the selected device when it is a light
func (m *MainModel) SelectedLight() *models.Device {
	if d := m.SelectedDevice(); d != nil && d.IsLight() {
		return d
	}
	return nil
}

// SelectedGroup returns the group of the selected item, nil for ungrouped devices
func (m *MainModel) SelectedGroup() *models.Group {
	if item := m.SelectedItem(); item != nil {
		return item.group
	}
	return nil
}

// IsGroupSelected reports whether a group header is under the cursor
func (m *MainModel) IsGroupSelected() bool {
	if item := m.SelectedItem(); item != nil {
		return item.isGroup && item.group != nil
	}
	return false
}

// Update handles messages
func (m MainModel) Update(msg tea.Msg, client api.GatewayClient, addPending PendingAdder) (MainModel, tea.Cmd) {
	var cmds []tea.Cmd

	if addPending == nil {
		addPending = func(string, int, string, any, Direction) {}
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searchMode {
			switch msg.String() {
			case "esc":
				m.searchMode = false
				m.searchQuery = ""
				m.searchInput.SetValue("")
				m.searchInput.Blur()
				m.rebuildList()
				return m, nil
			case "enter":
				m.searchMode = false
				m.searchQuery = m.searchInput.Value()
				m.searchInput.Blur()
				m.rebuildList()
				return m, nil
			default:
				var cmd tea.Cmd
				m.searchInput, cmd = m.searchInput.Update(msg)
				m.searchQuery = m.searchInput.Value()
				m.rebuildList()
				return m, cmd
			}
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				m.ensureVisible()
			}

		case "down", "j":
			if m.selectedIndex < len(m.items)-1 {
				m.selectedIndex++
				m.ensureVisible()
			}

		case "pgup":
			m.selectedIndex = max(0, m.selectedIndex-m.visibleLines())
			m.ensureVisible()

		case "pgdown":
			m.selectedIndex = max(0, min(len(m.items)-1, m.selectedIndex+m.visibleLines()))
			m.ensureVisible()

		case "home":
			m.selectedIndex = 0
			m.ensureVisible()

		case "end":
			m.selectedIndex = max(0, len(m.items)-1)
			m.ensureVisible()

		case "left", "h":
			if m.IsGroupSelected() {
				cmds = append(cmds, m.stepGroupBrightness(client, addPending, -brightnessStep))
			} else if light := m.SelectedLight(); light != nil && light.LightControl.Power.On() {
				newPct := light.LightControl.BrightnessPct() - brightnessStep
				if newPct < models.MinBrightnessPct {
					cmds = append(cmds, m.setPower(client, addPending, light, false))
				} else {
					cmds = append(cmds, m.setBrightness(client, addPending, light, newPct))
				}
			}

		case "right", "l":
			if m.IsGroupSelected() {
				cmds = append(cmds, m.stepGroupBrightness(client, addPending, brightnessStep))
			} else if light := m.SelectedLight(); light != nil {
				if !light.LightControl.Power.On() {
					cmds = append(cmds, m.setPower(client, addPending, light, true))
				} else {
					newPct := min(models.MaxBrightnessPct, light.LightControl.BrightnessPct()+brightnessStep)
					cmds = append(cmds, m.setBrightness(client, addPending, light, newPct))
				}
			}

		case " ", "enter":
			if m.IsGroupSelected() {
				g := m.SelectedGroup()
				cmds = append(cmds, m.setGroupPower(client, addPending, g, !g.Power.On()))
			} else if light := m.SelectedLight(); light != nil {
				cmds = append(cmds, m.setPower(client, addPending, light, !light.LightControl.Power.On()))
			}

		case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
			pct := brightnessFromKey(msg.String())
			if m.IsGroupSelected() {
				cmds = append(cmds, m.setGroupBrightness(client, addPending, m.SelectedGroup(), pct))
			} else if light := m.SelectedLight(); light != nil {
				cmds = append(cmds, m.setBrightness(client, addPending, light, pct))
			}

		case "w", "n", "c":
			if light := m.SelectedLight(); light != nil {
				name := map[string]string{"w": "warm", "n": "normal", "c": "cold"}[msg.String()]
				cmds = append(cmds, m.setColor(client, addPending, light, name))
			}

		case "p":
			if light := m.SelectedLight(); light != nil {
				id := light.ID
				return m, func() tea.Msg { return messages.ShowColorsMsg{DeviceID: id} }
			}

		case "a", "x":
			if g := m.SelectedGroup(); g != nil {
				cmds = append(cmds, m.setGroupPower(client, addPending, g, msg.String() == "a"))
			}

		case "/":
			m.searchMode = true
			m.searchInput.Focus()
			return m, textinput.Blink

		case "tab":
			m.showPanel = !m.showPanel

		case "r":
			m.loading = true
			return m, tea.Batch(func() tea.Msg { return messages.RefreshMsg{} }, m.spinner.Tick)
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// Optimistic state changes, each paired with the command that performs it

func (m *MainModel) setPower(client api.GatewayClient, addPending PendingAdder, light *models.Device, on bool) tea.Cmd {
	light.LightControl.Power = models.PowerStateFromBool(on)
	addPending(api.ResourceDevice, light.ID, FieldPower, on, DirExact)
	id := light.ID
	return controlCmd(client, func(ctx context.Context, c api.GatewayClient) error {
		return c.SetPower(ctx, id, on)
	})
}

func (m *MainModel) setBrightness(client api.GatewayClient, addPending PendingAdder, light *models.Device, pct int) tea.Cmd {
	old := light.LightControl.BrightnessPct()
	device, err := models.BrightnessToDevice(pct)
	if err != nil {
		return errorCmd(err)
	}
	light.LightControl.Brightness = device
	addPending(api.ResourceDevice, light.ID, FieldBrightness, pct, direction(old, pct))
	id := light.ID
	return controlCmd(client, func(ctx context.Context, c api.GatewayClient) error {
		return c.SetBrightness(ctx, id, pct)
	})
}

func (m *MainModel) setColor(client api.GatewayClient, addPending PendingAdder, light *models.Device, name string) tea.Cmd {
	preset, err := models.LookupColor(name)
	if err != nil {
		return errorCmd(err)
	}
	if !models.IsCanonicalColor(name) && !light.ColorCapable() {
		return errorCmd(&api.CapabilityError{DeviceID: light.ID, Feature: "color " + name, Model: light.Model})
	}
	hex := preset.Hex
	light.LightControl.ColorHex = &hex
	addPending(api.ResourceDevice, light.ID, FieldColor, hex, DirExact)
	id := light.ID
	return controlCmd(client, func(ctx context.Context, c api.GatewayClient) error {
		return c.SetColor(ctx, id, name)
	})
}

// SetColor applies a palette entry chosen in the color picker
func (m *MainModel) SetColor(client api.GatewayClient, addPending PendingAdder, deviceID int, name string) tea.Cmd {
	for _, d := range m.devices {
		if d.ID == deviceID && d.IsLight() {
			return m.setColor(client, addPending, d, name)
		}
	}
	return nil
}

// DeviceByID returns a displayed device
func (m *MainModel) DeviceByID(id int) *models.Device {
	for _, d := range m.devices {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (m *MainModel) setGroupPower(client api.GatewayClient, addPending PendingAdder, g *models.Group, on bool) tea.Cmd {
	g.Power = models.PowerStateFromBool(on)
	addPending(api.ResourceGroup, g.ID, FieldPower, on, DirExact)
	for _, d := range m.members[g.ID] {
		if d.IsLight() {
			d.LightControl.Power = g.Power
			addPending(api.ResourceDevice, d.ID, FieldPower, on, DirExact)
		}
	}
	id := g.ID
	return controlCmd(client, func(ctx context.Context, c api.GatewayClient) error {
		return c.SetGroupPower(ctx, id, on)
	})
}

func (m *MainModel) setGroupBrightness(client api.GatewayClient, addPending PendingAdder, g *models.Group, pct int) tea.Cmd {
	device, err := models.BrightnessToDevice(pct)
	if err != nil {
		return errorCmd(err)
	}
	old := m.groupBrightnessPct(g)
	g.Brightness = &device
	addPending(api.ResourceGroup, g.ID, FieldBrightness, pct, direction(old, pct))
	for _, d := range m.members[g.ID] {
		if d.IsLight() {
			addPending(api.ResourceDevice, d.ID, FieldBrightness, pct, direction(d.LightControl.BrightnessPct(), pct))
			d.LightControl.Brightness = device
		}
	}
	id := g.ID
	return controlCmd(client, func(ctx context.Context, c api.GatewayClient) error {
		return c.SetGroupBrightness(ctx, id, pct)
	})
}

func (m *MainModel) stepGroupBrightness(client api.GatewayClient, addPending PendingAdder, step int) tea.Cmd {
	g := m.SelectedGroup()
	if g == nil {
		return nil
	}
	pct := m.groupBrightnessPct(g) + step
	pct = max(models.MinBrightnessPct, min(models.MaxBrightnessPct, pct))
	return m.setGroupBrightness(client, addPending, g, pct)
}

// groupBrightnessPct falls back to the member average when the group reports none
func (m *MainModel) groupBrightnessPct(g *models.Group) int {
	if pct := g.BrightnessPct(); pct >= 0 {
		return pct
	}
	if s := components.Summarize(m.members[g.ID]); s.On > 0 {
		return s.AvgPct
	}
	return 50
}

func direction(from, to int) Direction {
	switch {
	case to > from:
		return DirUp
	case to < from:
		return DirDown
	default:
		return DirExact
	}
}

// controlCmd runs a control request and reports its outcome
func controlCmd(client api.GatewayClient, fn func(ctx context.Context, c api.GatewayClient) error) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), controlTimeout)
		defer cancel()
		return messages.ControlDoneMsg{Err: fn(ctx, client)}
	}
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return messages.ErrorMsg{Err: err} }
}

// View renders the dashboard
func (m MainModel) View() string {
	var b strings.Builder

	state := components.HeaderConnected
	switch {
	case m.loading:
		state = components.HeaderLoading
	case m.unreachable:
		state = components.HeaderError
	}
	b.WriteString(components.RenderHeader(m.width, m.host, state))
	b.WriteString("\n")

	// Search bar
	if m.searchMode {
		b.WriteString(styles.StyleSearch.Render("/ ") + m.searchInput.View())
		b.WriteString("\n")
	} else if m.searchQuery != "" {
		b.WriteString(styles.StyleSearch.Render("/ " + m.searchQuery + " "))
		b.WriteString(styles.StyleTextMuted.Render("(esc to clear)"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Panel only on wide terminals
	contentWidth := m.width
	panelWidth := 0
	showPanelNow := m.showPanel && m.width >= 80
	if showPanelNow {
		panelWidth = max(30, min(45, m.width*30/100))
		contentWidth = m.width - panelWidth - 3
	}

	var content strings.Builder
	visible := m.visibleLines()
	endIdx := min(len(m.items), m.scrollOffset+visible)

	if m.scrollOffset > 0 {
		content.WriteString(styles.StyleTextMuted.Render(fmt.Sprintf("  ↑ %d more above", m.scrollOffset)))
		content.WriteString("\n")
	}

	for idx := m.scrollOffset; idx < endIdx; idx++ {
		item := m.items[idx]
		selected := idx == m.selectedIndex

		if item.isGroup {
			if idx > m.scrollOffset {
				content.WriteString("\n")
			}
			content.WriteString(m.renderSectionHeader(item, selected))
		} else {
			content.WriteString(components.RenderDeviceRow(item.device, selected, contentWidth))
		}
		content.WriteString("\n")
	}

	if endIdx < len(m.items) {
		content.WriteString(styles.StyleTextMuted.Render(fmt.Sprintf("  ↓ %d more below", len(m.items)-endIdx)))
		content.WriteString("\n")
	}

	if len(m.items) == 0 {
		if m.loading {
			content.WriteString(fmt.Sprintf("  %s Loading devices...", m.spinner.View()))
		} else {
			content.WriteString(styles.StyleTextMuted.Render("  No devices found"))
		}
		content.WriteString("\n")
	}

	contentHeight := m.height - 5
	if m.searchMode || m.searchQuery != "" {
		contentHeight--
	}
	if contentHeight < 3 {
		contentHeight = 3
	}
	contentStyle := lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight)

	if showPanelNow {
		contentStyle = contentStyle.Width(contentWidth)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, contentStyle.Render(content.String()), "  ", m.renderPanel(panelWidth)))
	} else {
		b.WriteString(contentStyle.Render(content.String()))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m MainModel) renderSectionHeader(item listItem, selected bool) string {
	if item.group != nil {
		return components.RenderGroupHeader(item.group, m.members[item.group.ID], selected)
	}
	cursor := "  "
	if selected {
		cursor = styles.StyleSelected.Render("> ")
	}
	return cursor + styles.StyleTextMuted.Render(ungroupedName)
}

func (m MainModel) renderPanel(panelWidth int) string {
	if m.loading && len(m.items) == 0 {
		return styles.StylePanel.Width(panelWidth - 4).Render(m.spinner.View() + " Loading...")
	}

	barWidth := max(10, min(25, panelWidth-10))

	if m.IsGroupSelected() {
		return m.renderGroupPanel(m.SelectedGroup(), panelWidth, barWidth)
	}

	device := m.SelectedDevice()
	if device == nil {
		return styles.StylePanel.Width(panelWidth - 4).Render(styles.StyleTextMuted.Render("No selection"))
	}

	var content strings.Builder
	content.WriteString(styles.StyleSelected.Render(device.Name))
	content.WriteString("\n")
	content.WriteString(styles.StyleTextMuted.Render(fmt.Sprintf("#%d • %s", device.ID, device.Model)))
	content.WriteString("\n")
	if device.Firmware != "" {
		content.WriteString(styles.StyleTextMuted.Render("Firmware " + device.Firmware))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	lc := device.LightControl
	if lc == nil {
		content.WriteString(styles.StyleTextMuted.Render("Not a light"))
		return styles.StylePanel.Width(panelWidth - 4).Render(content.String())
	}

	if lc.Power.On() {
		content.WriteString(styles.StyleStatusOn.Render("● On"))
	} else {
		content.WriteString(styles.StyleStatusOff.Render("○ Off"))
	}
	content.WriteString("\n\n")

	content.WriteString(styles.StyleTextMuted.Render("Brightness: "))
	content.WriteString(fmt.Sprintf("%d%%\n", lc.BrightnessPct()))
	content.WriteString(components.RenderBrightnessBar(lc.BrightnessPct(), lc.Power.On(), barWidth))
	content.WriteString("\n\n")

	content.WriteString(styles.StyleTextMuted.Render("Warmth: "))
	if warmth, ok := lc.Warmth(); ok {
		content.WriteString(fmt.Sprintf("%.1f%%\n", warmth))
	} else {
		content.WriteString("N/A\n")
	}

	content.WriteString(styles.StyleTextMuted.Render("Color: "))
	switch {
	case lc.ColorHex == nil:
		content.WriteString("N/A")
	default:
		label := *lc.ColorHex
		if preset, ok := models.PresetForHex(*lc.ColorHex); ok {
			label = preset.Name
		}
		content.WriteString(label + " ")
		if rgb, ok := lc.DisplayColor(); ok {
			content.WriteString(components.RenderSwatch(rgb))
		}
	}
	content.WriteString("\n")

	if !device.ColorCapable() {
		content.WriteString(styles.StyleTextMuted.Render("White spectrum only"))
		content.WriteString("\n")
	}

	if g := m.SelectedGroup(); g != nil {
		content.WriteString("\n")
		content.WriteString(styles.StyleTextMuted.Render("Group: "))
		content.WriteString(g.Name)
	}

	return styles.StylePanel.Width(panelWidth - 4).Render(content.String())
}

func (m MainModel) renderGroupPanel(g *models.Group, panelWidth, barWidth int) string {
	members := m.members[g.ID]
	s := components.Summarize(members)

	var content strings.Builder
	content.WriteString(styles.StyleSelected.Render(g.Name))
	content.WriteString("\n")
	content.WriteString(styles.StyleTextMuted.Render(fmt.Sprintf("#%d", g.ID)))
	content.WriteString("\n\n")

	switch {
	case !g.Power.On():
		content.WriteString(styles.StyleStatusOff.Render("○ Off"))
	case s.Lights > 0 && s.On == s.Lights:
		content.WriteString(styles.StyleStatusOn.Render("● All On"))
	default:
		content.WriteString(styles.StyleStatusOn.Render(fmt.Sprintf("● %d/%d On", s.On, s.Lights)))
	}
	content.WriteString("\n\n")

	content.WriteString(styles.StyleTextMuted.Render("Brightness: "))
	if pct := g.BrightnessPct(); pct >= 0 {
		content.WriteString(fmt.Sprintf("%d%%\n", pct))
		content.WriteString(components.RenderBrightnessBar(pct, g.Power.On(), barWidth))
	} else {
		content.WriteString("--\n")
		content.WriteString(components.RenderBrightnessBar(0, false, barWidth))
	}
	content.WriteString("\n\n")

	content.WriteString(styles.StyleTextMuted.Render("Devices:\n"))
	const maxDevices = 8
	nameWidth := max(12, panelWidth-8)
	for i, d := range sortedByName(members) {
		if i >= maxDevices {
			content.WriteString(fmt.Sprintf("  ... +%d more\n", len(members)-maxDevices))
			break
		}
		icon := styles.StyleStatusOff.Render("○")
		if d.IsLight() && d.LightControl.Power.On() {
			icon = styles.StyleStatusOn.Render("●")
		}
		content.WriteString(fmt.Sprintf("  %s %s\n", icon, strings.TrimRight(components.Truncate(d.Name, nameWidth), " ")))
	}

	content.WriteString("\n")
	content.WriteString(styles.StyleTextMuted.Render("←→ dim • space toggle"))

	return styles.StylePanel.Width(panelWidth - 4).Render(content.String())
}

func (m MainModel) renderStatusBar() string {
	lightsOn, lights := 0, 0
	for _, d := range m.devices {
		if d.IsLight() {
			lights++
			if d.LightControl.Power.On() {
				lightsOn++
			}
		}
	}

	status := fmt.Sprintf("%d/%d lights on", lightsOn, lights)
	if len(m.groups) > 0 {
		status += fmt.Sprintf(" • %d/%d groups on", models.CountOn(m.groups), len(m.groups))
	}
	line := styles.StyleTextMuted.Render(status)
	if m.status != "" {
		line += "  " + styles.StyleError.Render(m.status)
	}
	return line
}

func (m MainModel) renderHelp() string {
	keys := []string{
		styles.StyleHelpKey.Render("↑↓") + " nav",
		styles.StyleHelpKey.Render("←→") + " dim",
		styles.StyleHelpKey.Render("space") + " toggle",
		styles.StyleHelpKey.Render("1-0") + " level",
		styles.StyleHelpKey.Render("w/n/c") + " white",
		styles.StyleHelpKey.Render("p") + " colors",
		styles.StyleHelpKey.Render("a/x") + " group",
		styles.StyleHelpKey.Render("r") + " refresh",
		styles.StyleHelpKey.Render("q") + " quit",
	}

	if m.width < 60 {
		keys = []string{
			styles.StyleHelpKey.Render("↑↓") + " nav",
			styles.StyleHelpKey.Render("space") + " toggle",
			styles.StyleHelpKey.Render("q") + " quit",
		}
	} else if m.width < 90 {
		keys = []string{
			styles.StyleHelpKey.Render("↑↓") + " nav",
			styles.StyleHelpKey.Render("←→") + " dim",
			styles.StyleHelpKey.Render("space") + " toggle",
			styles.StyleHelpKey.Render("p") + " colors",
			styles.StyleHelpKey.Render("q") + " quit",
		}
	}

	return styles.StyleHelp.Render(strings.Join(keys, "  "))
}

// brightnessFromKey maps 1-9 to 10-90% and 0 to 100%
func brightnessFromKey(key string) int {
	if key == "0" {
		return 100
	}
	return int(key[0]-'0') * 10
}
