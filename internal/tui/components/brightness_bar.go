package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/tradfri-tui/internal/tui/styles"
)

// RenderBrightnessBar renders a horizontal brightness bar of the given width.
// brightness is a percentage; an unknown brightness (negative) renders empty.
func RenderBrightnessBar(brightness int, on bool, width int) string {
	if width <= 0 {
		return ""
	}
	if !on || brightness <= 0 {
		return styles.StyleBrightnessBarEmpty.Render(strings.Repeat("─", width))
	}

	filled := (brightness * width) / 100
	if filled == 0 {
		filled = 1
	}
	if filled > width {
		filled = width
	}

	var b strings.Builder
	for i := 1; i <= width; i++ {
		if i <= filled {
			color := segmentColor(i, width, brightness)
			b.WriteString(lipgloss.NewStyle().Foreground(color).Render("█"))
		} else {
			b.WriteString(styles.StyleBrightnessBarEmpty.Render("─"))
		}
	}
	return b.String()
}

// segmentColor maps a bar position onto the 10 step gradient
func segmentColor(segment, total, brightness int) lipgloss.Color {
	mapped := (segment * 10) / total
	if mapped < 1 {
		mapped = 1
	}
	if mapped > 10 {
		mapped = 10
	}
	return styles.GetBrightnessColor(mapped, brightness)
}
