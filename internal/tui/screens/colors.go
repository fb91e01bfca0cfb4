package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/tradfri-tui/internal/models"
	"github.com/angristan/tradfri-tui/internal/tui/components"
	"github.com/angristan/tradfri-tui/internal/tui/messages"
	"github.com/angristan/tradfri-tui/internal/tui/styles"
)

// colorEntry is one palette row of the picker
type colorEntry struct {
	preset  models.ColorPreset
	enabled bool // false for extended colors on white-spectrum bulbs
	current bool
}

// ColorsModel is the color picker modal
type ColorsModel struct {
	deviceID   int
	deviceName string
	entries    []colorEntry
	selected   int

	// Window size
	width  int
	height int
}

// NewColorsModel creates a new color picker model
func NewColorsModel() ColorsModel {
	return ColorsModel{}
}

// SetSize sets the terminal size
func (m *ColorsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetDevice rebuilds the palette for a bulb
func (m *ColorsModel) SetDevice(device *models.Device) {
	m.deviceID = device.ID
	m.deviceName = device.Name
	m.entries = nil
	m.selected = -1

	var currentHex string
	if device.LightControl != nil && device.LightControl.ColorHex != nil {
		currentHex = *device.LightControl.ColorHex
	}

	colorCapable := device.ColorCapable()
	for _, p := range models.Palette() {
		entry := colorEntry{
			preset:  p,
			enabled: colorCapable || models.IsCanonicalColor(p.Name),
			current: p.Hex == currentHex,
		}
		if entry.current && entry.enabled {
			m.selected = len(m.entries)
		}
		m.entries = append(m.entries, entry)
	}

	if m.selected < 0 {
		m.selected = 0
		if len(m.entries) > 0 && !m.entries[0].enabled {
			m.moveNext()
		}
	}
}

// Update handles messages
func (m ColorsModel) Update(msg tea.Msg) (ColorsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "p", "q":
			return m, func() tea.Msg { return messages.HideColorsMsg{} }

		case "up", "k":
			m.movePrev()

		case "down", "j":
			m.moveNext()

		case "enter", " ":
			if m.selected >= 0 && m.selected < len(m.entries) && m.entries[m.selected].enabled {
				id, name := m.deviceID, m.entries[m.selected].preset.Name
				return m, func() tea.Msg {
					return messages.ColorChosenMsg{DeviceID: id, Color: name}
				}
			}
		}
	}

	return m, nil
}

func (m *ColorsModel) moveNext() {
	for i := m.selected + 1; i < len(m.entries); i++ {
		if m.entries[i].enabled {
			m.selected = i
			return
		}
	}
}

func (m *ColorsModel) movePrev() {
	for i := m.selected - 1; i >= 0; i-- {
		if m.entries[i].enabled {
			m.selected = i
			return
		}
	}
}

// Selected returns the highlighted preset name
func (m ColorsModel) Selected() string {
	if m.selected >= 0 && m.selected < len(m.entries) {
		return m.entries[m.selected].preset.Name
	}
	return ""
}

// View renders the color picker
func (m ColorsModel) View() string {
	var b strings.Builder

	b.WriteString(styles.StyleModalTitle.Render(m.deviceName + " Colors"))
	b.WriteString("\n\n")

	for i, e := range m.entries {
		style := styles.StyleListItem
		cursor := "  "
		switch {
		case !e.enabled:
			style = styles.StyleListItemDisabled
		case i == m.selected:
			style = styles.StyleListItemSelected
			cursor = "> "
		}

		line := cursor + components.RenderSwatch(e.preset.RGB()) + " " + style.Render(e.preset.Name)
		if e.current {
			line += styles.StyleTextMuted.Render(" (current)")
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.StyleHelp.Render("↑/↓ navigate • enter apply • esc close"))

	content := b.String()
	modalWidth := max(40, min(60, m.width*70/100))
	modal := styles.StyleModal.Width(modalWidth).Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
