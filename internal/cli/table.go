package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/ykato27/SDP-Analysis-Dashboard/internal/domain/analysis"
)

// StyleHeader renders table headers.
var StyleHeader = lipgloss.NewStyle().Bold(true) //nolint:gochecknoglobals // shared style

var tierColors = map[analysis.Tier]color.Attribute{ //nolint:gochecknoglobals // fixed palette
	analysis.TierHigh:   color.FgRed,
	analysis.TierMedium: color.FgYellow,
	analysis.TierLow:    color.FgGreen,
}

// tierLabel colours a tier when enabled.
func tierLabel(t analysis.Tier, enabled bool) string {
	c := color.New(tierColors[t], color.Bold)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(string(t))
}

// RenderTable renders an aligned table with a header separator line.
// Widths are measured without ANSI escapes so coloured cells line up.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	const colGap = 2

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, render func(string) string) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(render(cell))
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return StyleHeader.Render(s) })
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep, func(s string) string { return s })
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}
