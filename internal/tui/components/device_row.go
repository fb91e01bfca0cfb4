package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/tradfri-tui/internal/models"
	"github.com/angristan/tradfri-tui/internal/tui/styles"
)

// RenderDeviceRow renders one device line of the dashboard list
func RenderDeviceRow(device *models.Device, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = styles.StyleSelected.Render("> ")
	}

	// Fixed parts: cursor(2) + icon(1) + space(1) + spaces(2) + space(1) + pct(4) + color(2) = 13
	available := width - 13
	barWidth := available * 35 / 100
	if barWidth < 8 {
		barWidth = 8
	}
	if barWidth > 20 {
		barWidth = 20
	}
	nameWidth := available - barWidth
	if nameWidth < 10 {
		nameWidth = 10
	}
	if nameWidth > 45 {
		nameWidth = 45
	}

	lc := device.LightControl
	if lc == nil {
		nameStyle := styles.StyleDeviceNameDim
		if selected {
			nameStyle = styles.StyleSelected
		}
		return fmt.Sprintf("%s%s %s  %s", cursor,
			styles.StyleStatusOff.Render("◇"),
			nameStyle.Render(Truncate(device.Name, nameWidth)),
			styles.StyleTextMuted.Render(device.Model))
	}

	on := lc.Power.On()
	icon := styles.StyleStatusOff.Render("○")
	nameStyle := styles.StyleDeviceNameDim
	if on {
		icon = styles.StyleStatusOn.Render("●")
		nameStyle = styles.StyleDeviceName
	}
	if selected {
		nameStyle = styles.StyleSelected
	}

	pct := lc.BrightnessPct()
	bar := RenderBrightnessBar(pct, on, barWidth)
	pctText := styles.StyleTextMuted.Render(fmt.Sprintf("%3d%%", pct))

	colorInd := ""
	if rgb, ok := lc.DisplayColor(); ok && on {
		colorInd = lipgloss.NewStyle().Foreground(lipgloss.Color(rgb.Hex())).Render(" ◆")
	}

	return fmt.Sprintf("%s%s %s  %s %s%s", cursor, icon,
		nameStyle.Render(Truncate(device.Name, nameWidth)), bar, pctText, colorInd)
}

// RenderSwatch renders a small block filled with the given color
func RenderSwatch(c models.RGB) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render("    ")
}

// Truncate pads or shortens s to exactly maxLen runes
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s + strings.Repeat(" ", maxLen-len(runes))
	}
	if maxLen < 2 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}
