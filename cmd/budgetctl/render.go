package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	colorBorder = lipgloss.Color("#282726")
	colorAccent = lipgloss.Color("#3AA99F")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	warnStyle   = lipgloss.NewStyle().Foreground(colorOrange)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

func renderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(48).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(titleStyle.Render(title))
}

// renderTable pads each column to its widest cell. Rows shorter than the
// header are padded with empty cells.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(joinCells(headers, widths)))
	b.WriteString("\n")
	for _, row := range rows {
		cells := make([]string, len(headers))
		copy(cells, row)
		b.WriteString(joinCells(cells, widths))
		b.WriteString("\n")
	}
	return b.String()
}

func joinCells(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		padded[i] = c + strings.Repeat(" ", widths[i]-lipgloss.Width(c))
	}
	return strings.TrimRight(strings.Join(padded, "  "), " ")
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatDays(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "in 1 day"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}
