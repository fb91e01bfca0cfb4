package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/tradfri-tui/internal/tui/styles"
)

// HeaderState is the connection indicator shown in the header
type HeaderState int

const (
	HeaderConnected HeaderState = iota
	HeaderLoading
	HeaderError
)

// RenderHeader renders the application header with the gateway host on the right
func RenderHeader(width int, host string, state HeaderState) string {
	title := styles.StyleHeader.Render(" TRÅDFRI ")

	var status string
	switch state {
	case HeaderLoading:
		status = styles.StyleWarning.Render(" ⟳ Loading...")
	case HeaderError:
		status = styles.StyleError.Render(" ✗ Unreachable")
	default:
		status = styles.StyleSuccess.Render(" ● Connected")
	}

	left := title + status
	right := styles.StyleTextMuted.Render(host + " ")

	spacing := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		return left
	}
	return left + strings.Repeat(" ", spacing) + right
}
