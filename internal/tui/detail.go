package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lotas/tabstash/internal/analyzer"
	"github.com/lotas/tabstash/internal/types"
)

// DetailModel shows information about the selected item.
type DetailModel struct {
	Width      int
	Height     int
	Scroll     int // scroll offset
	ContentLen int // total lines in content
}

// ScrollUp adjusts the scroll offset upward.
func (m *DetailModel) ScrollUp() {
	if m.Scroll > 0 {
		m.Scroll--
	}
}

// ScrollDown adjusts the scroll offset downward.
func (m *DetailModel) ScrollDown() {
	if m.Scroll < m.ContentLen-m.Height {
		m.Scroll++
	}
	if m.Scroll < 0 {
		m.Scroll = 0
	}
}

// ResetScroll resets the scroll offset to 0.
func (m *DetailModel) ResetScroll() {
	m.Scroll = 0
}

// ViewTab renders the details of one saved tab. copies is the number of
// other tabs in the same snapshot with the same normalized URL.
func (m DetailModel) ViewTab(tab types.Tab, copies int) string {
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	valueStyle := lipgloss.NewStyle()

	var b strings.Builder

	b.WriteString(labelStyle.Render("Title") + "\n")
	b.WriteString(valueStyle.Render(truncate(types.DisplayTitle(tab), m.Width-2)) + "\n\n")

	if tab.URL != "" {
		b.WriteString(labelStyle.Render("URL") + "\n")
		// Wrap long URLs
		for _, part := range wrapRunes(tab.URL, m.Width-2) {
			b.WriteString(valueStyle.Render(part) + "\n")
		}
		b.WriteString("\n")

		if domain := analyzer.DomainOf(tab.URL); domain != "" {
			b.WriteString(labelStyle.Render("Domain") + "\n")
			b.WriteString(valueStyle.Render(domain) + "\n\n")
		}
	}

	var statuses []string
	if tab.Pinned {
		statuses = append(statuses, lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).Bold(true).Render("Pinned"))
	}
	if copies > 0 {
		statuses = append(statuses, lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).Bold(true).
			Render(fmt.Sprintf("Duplicate (%d copies)", copies+1)))
	}
	if len(statuses) > 0 {
		b.WriteString(labelStyle.Render("Status") + "\n")
		for _, s := range statuses {
			b.WriteString(s + "\n")
		}
	}

	return b.String()
}

// ViewScrolled applies scroll offset and height truncation to the content string.
func (m *DetailModel) ViewScrolled(content string) string {
	if content == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	m.ContentLen = len(lines)

	// Clamp scroll
	maxScroll := m.ContentLen - m.Height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.Scroll > maxScroll {
		m.Scroll = maxScroll
	}
	if m.Scroll < 0 {
		m.Scroll = 0
	}

	end := m.Scroll + m.Height
	if end > len(lines) {
		end = len(lines)
	}

	if m.Scroll >= len(lines) {
		return ""
	}

	return strings.Join(lines[m.Scroll:end], "\n")
}

// ViewSnapshot renders a summary of s. shown is the number of tabs left by
// the active filter.
func (m DetailModel) ViewSnapshot(s types.Snapshot, shown int, now time.Time) string {
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	valueStyle := lipgloss.NewStyle()

	var b strings.Builder

	b.WriteString(labelStyle.Render("Snapshot") + "\n")
	b.WriteString(valueStyle.Render(truncate(s.Name, m.Width-2)) + "\n\n")

	b.WriteString(labelStyle.Render("Saved") + "\n")
	b.WriteString(valueStyle.Render(fmt.Sprintf("%s (%s)",
		s.CreatedAt.Local().Format("2006-01-02 15:04"),
		humanize.RelTime(s.CreatedAt, now, "ago", "from now"))) + "\n\n")

	b.WriteString(labelStyle.Render("Tabs") + "\n")
	if shown == len(s.Tabs) {
		b.WriteString(valueStyle.Render(fmt.Sprintf("%d", len(s.Tabs))) + "\n\n")
	} else {
		b.WriteString(valueStyle.Render(fmt.Sprintf("%d of %d match", shown, len(s.Tabs))) + "\n\n")
	}

	top := analyzer.TopDomains(analyzer.CountsByDomain([]types.Snapshot{s}), 5)
	if len(top) > 0 {
		b.WriteString(labelStyle.Render("Domains") + "\n")
		for _, d := range top {
			b.WriteString(fmt.Sprintf("  %-*s %d\n", m.Width/2, truncate(d.Domain, m.Width/2), d.Count))
		}
	}

	pinned, dups := 0, len(analyzer.DuplicateTabs(s.Tabs))
	for _, tab := range s.Tabs {
		if tab.Pinned {
			pinned++
		}
	}
	if pinned+dups > 0 {
		b.WriteString("\n" + labelStyle.Render("Notes") + "\n")
		if pinned > 0 {
			b.WriteString(fmt.Sprintf("  %d pinned\n", pinned))
		}
		if dups > 0 {
			b.WriteString(fmt.Sprintf("  %d duplicates\n", dups))
		}
	}

	return b.String()
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if max < 2 || len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// wrapRunes splits s into lines of at most width runes.
func wrapRunes(s string, width int) []string {
	r := []rune(s)
	if width < 1 {
		return []string{s}
	}
	var lines []string
	for len(r) > width {
		lines = append(lines, string(r[:width]))
		r = r[width:]
	}
	return append(lines, string(r))
}
