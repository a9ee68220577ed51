package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lotas/tabstash/internal/analyzer"
	"github.com/lotas/tabstash/internal/types"
)

// ListWidthPct is the percentage of terminal width used for the snapshot list.
const ListWidthPct = 60

func renderNavbar(stats analyzer.Stats, shown int, source string, width int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	statsStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sourceStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	statsStr := fmt.Sprintf("%d snapshots · %d tabs · %d domains", stats.Snapshots, stats.Tabs, stats.Domains)
	if shown != stats.Snapshots {
		statsStr = fmt.Sprintf("%d/%d snapshots · %d tabs · %d domains", shown, stats.Snapshots, stats.Tabs, stats.Domains)
	}
	left := " " + titleStyle.Render("tabstash") + "   " + statsStyle.Render(statsStr)

	right := sourceStyle.Render(source)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	padding := lipgloss.NewStyle().Width(gap)

	return left + padding.Render("") + right + " "
}

// renderFilterBar shows the query, the active domain and the frequent
// domain chips. Chips are numbered for quick selection.
func renderFilterBar(fs types.FilterState, query string, searching bool, chips []analyzer.DomainFreq) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	chipStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("237")).Padding(0, 1)
	activeChipStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("62")).Padding(0, 1)

	var parts []string
	switch {
	case searching:
		parts = append(parts, newLineInput("/", query).View())
	case query != "":
		parts = append(parts, labelStyle.Render("search: ")+query)
	default:
		parts = append(parts, labelStyle.Render("/ search"))
	}

	if fs.Domain != types.DomainAll && !chipListed(chips, fs.Domain) {
		parts = append(parts, activeChipStyle.Render(fs.Domain))
	}
	for i, c := range chips {
		label := fmt.Sprintf("%d %s", i+1, c.Domain)
		if c.Domain == fs.Domain {
			parts = append(parts, activeChipStyle.Render(label))
		} else {
			parts = append(parts, chipStyle.Render(label))
		}
	}
	return " " + strings.Join(parts, "  ")
}

func chipListed(chips []analyzer.DomainFreq, domain string) bool {
	for _, c := range chips {
		if c.Domain == domain {
			return true
		}
	}
	return false
}
