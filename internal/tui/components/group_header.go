package components

import (
	"fmt"

	"github.com/angristan/tradfri-tui/internal/models"
	"github.com/angristan/tradfri-tui/internal/tui/styles"
)

// GroupSummary aggregates the member lights of a group
type GroupSummary struct {
	Lights  int
	On      int
	AvgPct  int // average brightness of the lights that are on
	Members int
}

// Summarize computes the summary for the given member devices
func Summarize(members []*models.Device) GroupSummary {
	var s GroupSummary
	total := 0
	for _, d := range members {
		s.Members++
		if !d.IsLight() {
			continue
		}
		s.Lights++
		if d.LightControl.Power.On() {
			s.On++
			total += d.LightControl.BrightnessPct()
		}
	}
	if s.On > 0 {
		s.AvgPct = total / s.On
	}
	return s
}

// RenderGroupHeader renders the header line of a group section
func RenderGroupHeader(group *models.Group, members []*models.Device, selected bool) string {
	cursor := "  "
	if selected {
		cursor = styles.StyleSelected.Render("> ")
	}

	icon := styles.StyleStatusOff.Render("○")
	if group.Power.On() {
		icon = styles.StyleStatusOn.Render("●")
	}

	s := Summarize(members)
	summary := fmt.Sprintf("(%d/%d on", s.On, s.Lights)
	if s.On > 0 {
		summary += fmt.Sprintf(" • %d%%", s.AvgPct)
	}
	summary += ")"

	return fmt.Sprintf("%s%s %s %s", cursor, icon,
		styles.StyleGroupName.Render(group.Name), styles.StyleTextMuted.Render(summary))
}
