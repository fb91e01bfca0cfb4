package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette - warm birch theme
var (
	// Primary colors
	ColorPrimary    = lipgloss.Color("#E0A458") // Birch amber
	ColorSecondary  = lipgloss.Color("#C08040") // Darker amber
	ColorAccent     = lipgloss.Color("#F4E1C1") // Light sand
	ColorSurface    = lipgloss.Color("#2D2A26") // Surface color
	ColorSurfaceAlt = lipgloss.Color("#45403A") // Alternate surface

	// Text colors
	ColorText        = lipgloss.Color("#FAFAFA") // Primary text
	ColorTextMuted   = lipgloss.Color("#A09A90") // Muted text
	ColorTextDim     = lipgloss.Color("#6B665E") // Dim text
	ColorTextInverse = lipgloss.Color("#1E1B18") // Inverse text

	// State colors
	ColorSuccess = lipgloss.Color("#68D391") // Green
	ColorWarning = lipgloss.Color("#F6E05E") // Yellow
	ColorError   = lipgloss.Color("#FC8181") // Red

	// Light states
	ColorLightOn  = lipgloss.Color("#FBBF24") // Warm yellow for on
	ColorLightOff = lipgloss.Color("#4A4A5A") // Gray for off

	// Brightness bar colors (gradient from dim to bright)
	brightnessGradient = [...]lipgloss.Color{
		"#45403A", "#554C40", "#655846", "#75644C", "#857052",
		"#957C58", "#A5885E", "#B59464", "#C5A06A", "#FBBF24",
	}
)

// Styles for various UI components
var (
	// Header styles
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTextInverse).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleHeaderGradient = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorTextInverse).
				Background(ColorPrimary).
				Padding(0, 2)

	// Group styles
	StyleGroupName = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// Device row styles
	StyleDeviceName = lipgloss.NewStyle().
			Foreground(ColorText)

	StyleDeviceNameDim = lipgloss.NewStyle().
				Foreground(ColorTextMuted)

	StyleSelected = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	// Status indicators
	StyleStatusOn = lipgloss.NewStyle().
			Foreground(ColorLightOn).
			Bold(true)

	StyleStatusOff = lipgloss.NewStyle().
			Foreground(ColorLightOff)

	// Brightness bar styles
	StyleBrightnessBarEmpty = lipgloss.NewStyle().
				Foreground(ColorSurfaceAlt)

	// Panel styles
	StylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)

	// Modal styles
	StyleModal = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Background(ColorSurface).
			Padding(1, 2)

	StyleModalTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// Input styles
	StyleInputFocused = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	// Help styles
	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	StyleHelpKey = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// List item styles
	StyleListItem = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 1)

	StyleListItemSelected = lipgloss.NewStyle().
				Foreground(ColorTextInverse).
				Background(ColorPrimary).
				Padding(0, 1)

	StyleListItemDisabled = lipgloss.NewStyle().
				Foreground(ColorTextDim).
				Padding(0, 1)

	// Search styles
	StyleSearch = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// Loading/spinner styles
	StyleSpinner = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// Error styles
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// Success styles
	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// Text muted style
	StyleTextMuted = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	// Primary style
	StylePrimary = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)
)

// GetBrightnessColor returns the color for a brightness bar segment (1-10)
func GetBrightnessColor(segment int, brightness int) lipgloss.Color {
	if segment < 1 || segment > len(brightnessGradient) || brightness < segment*10-9 {
		return ColorSurfaceAlt
	}
	return brightnessGradient[segment-1]
}

