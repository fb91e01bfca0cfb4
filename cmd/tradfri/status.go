package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/angristan/tradfri-tui/internal/api"
	"github.com/angristan/tradfri-tui/internal/models"
	"github.com/angristan/tradfri-tui/internal/tui/components"
	"github.com/angristan/tradfri-tui/internal/tui/styles"
)

var (
	sectionStyle = styles.StylePrimary
	idStyle      = lipgloss.NewStyle().Foreground(styles.ColorTextMuted)
)

// renderStatus prints devices then groups, one line each
func renderStatus(w io.Writer, devices []*models.Device, groups []*models.Group) {
	fmt.Fprintln(w, sectionStyle.Render("devices:"))
	for _, d := range devices {
		fmt.Fprintln(w, deviceLine(d))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, sectionStyle.Render("groups:"))
	for _, g := range groups {
		fmt.Fprintln(w, groupLine(g))
	}
	fmt.Fprintln(w)
}

func deviceLine(d *models.Device) string {
	id := idStyle.Render(fmt.Sprintf("ID: %-5d", d.ID))
	lc := d.LightControl
	if lc == nil {
		return fmt.Sprintf("%s, name: %-35s", id, d.Name)
	}

	warmth := "N/A"
	if pct, ok := lc.Warmth(); ok {
		warmth = fmt.Sprintf("%.1f", pct)
	}

	brightness := "N/A"
	if !lc.BrightnessUnknown {
		brightness = strconv.Itoa(lc.Brightness)
	}

	return fmt.Sprintf("%s, name: %-35s, brightness: %-3s, warmth: %5s%%, state: %s",
		id, d.Name, brightness, warmth, powerText(lc.Power.On()))
}

func groupLine(g *models.Group) string {
	id := idStyle.Render(fmt.Sprintf("ID: %-5d", g.ID))
	line := fmt.Sprintf("%s, name: %-16s, state: %s", id, g.Name, powerText(g.Power.On()))
	if pct := g.BrightnessPct(); pct >= 0 {
		line += fmt.Sprintf(", brightness: %d%%", pct)
	}
	return line
}

func powerText(on bool) string {
	if on {
		return styles.StyleStatusOn.Render("on")
	}
	return styles.StyleStatusOff.Render("off")
}

// renderPalette prints every color name with its hex value and a swatch
func renderPalette(w io.Writer) {
	for _, p := range models.Palette() {
		name := p.Name
		if models.IsCanonicalColor(name) {
			name += " *"
		}
		fmt.Fprintf(w, "%s %-20s #%s\n", components.RenderSwatch(p.RGB()), name, p.Hex)
	}
	fmt.Fprintln(w, idStyle.Render("* supported by every white spectrum bulb"))
}

func renderGateways(w io.Writer, gateways []api.DiscoveredGateway) {
	if len(gateways) == 0 {
		fmt.Fprintln(w, "No gateways found.")
		return
	}
	var b strings.Builder
	for _, gw := range gateways {
		fmt.Fprintf(&b, "%-16s %-24s port %d\n", gw.Host, gw.Name, gw.Port)
	}
	fmt.Fprint(w, b.String())
}
