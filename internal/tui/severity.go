package tui

import (
	"fmt"
	"strings"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/charmbracelet/lipgloss"
)

var (
	severityColor = map[cyclonedx.Severity]lipgloss.Color{
		cyclonedx.SeverityUnknown:  lipgloss.Color("243"), // grey
		cyclonedx.SeverityNone:     lipgloss.Color("243"), // grey
		cyclonedx.SeverityInfo:     lipgloss.Color("243"), // grey
		cyclonedx.SeverityLow:      lipgloss.Color("28"),  // green
		cyclonedx.SeverityMedium:   lipgloss.Color("208"), // orange
		cyclonedx.SeverityHigh:     lipgloss.Color("160"), // red
		cyclonedx.SeverityCritical: lipgloss.Color("88"),  // dark red
	}
	severityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")). // white
			Bold(true).
			Align(lipgloss.Center)
)

// severityOrder is the order severities are rendered in
var severityOrder = []cyclonedx.Severity{
	cyclonedx.SeverityCritical,
	cyclonedx.SeverityHigh,
	cyclonedx.SeverityMedium,
	cyclonedx.SeverityLow,
	cyclonedx.SeverityInfo,
	cyclonedx.SeverityNone,
	cyclonedx.SeverityUnknown,
}

// RenderSeverity renders a severity as a coloured badge
func RenderSeverity(severity cyclonedx.Severity) string {
	color, ok := severityColor[severity]
	if !ok {
		color = severityColor[cyclonedx.SeverityUnknown]
	}

	return severityStyle.Width(10).Background(color).Render(strings.ToUpper(string(severity)))
}

// RenderSeverityCounts renders a badge and count for every severity with at least one vulnerability
func RenderSeverityCounts(counts map[cyclonedx.Severity]int) string {
	parts := make([]string, 0, len(counts))
	for _, severity := range severityOrder {
		if counts[severity] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d", RenderSeverity(severity), counts[severity]))
	}

	if len(parts) == 0 {
		return DisabledTextStyle.Render("no vulnerabilities")
	}

	return strings.Join(parts, "  ")
}
