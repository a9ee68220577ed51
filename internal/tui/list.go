package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lotas/tabstash/internal/filter"
	"github.com/lotas/tabstash/internal/types"
	"github.com/lotas/tabstash/internal/viewstate"
)

type rowKind int

const (
	rowSnapshot rowKind = iota
	rowTab
	rowMore
)

// row is one visible line of the snapshot list.
type row struct {
	Kind   rowKind
	View   int // index into the view slice
	Tab    int // index into the view's tabs, rowTab only
	Hidden int // rowMore only
}

// ListModel manages the flattened snapshot list.
type ListModel struct {
	Rows   []row
	Cursor int
	Offset int // scroll offset
	Width  int
	Height int
}

// buildRows flattens views into rows. Collapsed snapshots show the first
// viewstate.PreviewLimit tabs and a "more" row.
func buildRows(views []filter.View, vs *viewstate.State, filterActive bool) []row {
	var rows []row
	for vi, v := range views {
		rows = append(rows, row{Kind: rowSnapshot, View: vi})
		shown, hidden := vs.Window(v.Snapshot.ID, len(v.Tabs), filterActive)
		for ti := 0; ti < shown; ti++ {
			rows = append(rows, row{Kind: rowTab, View: vi, Tab: ti})
		}
		if hidden > 0 {
			rows = append(rows, row{Kind: rowMore, View: vi, Hidden: hidden})
		}
	}
	return rows
}

// SetRows replaces the rows and clamps the cursor into range.
func (m *ListModel) SetRows(rows []row) {
	m.Rows = rows
	m.clamp()
}

func (m *ListModel) clamp() {
	if m.Cursor >= len(m.Rows) {
		m.Cursor = len(m.Rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Offset > m.Cursor {
		m.Offset = m.Cursor
	}
	m.scrollIntoView()
}

// Selected returns the row under the cursor.
func (m ListModel) Selected() (row, bool) {
	if m.Cursor >= 0 && m.Cursor < len(m.Rows) {
		return m.Rows[m.Cursor], true
	}
	return row{}, false
}

// MoveUp moves the cursor up.
func (m *ListModel) MoveUp() {
	if m.Cursor > 0 {
		m.Cursor--
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
}

// MoveDown moves the cursor down.
func (m *ListModel) MoveDown() {
	if m.Cursor < len(m.Rows)-1 {
		m.Cursor++
	}
	m.scrollIntoView()
}

// JumpToHeader moves the cursor to the header of the snapshot it is in.
func (m *ListModel) JumpToHeader() {
	r, ok := m.Selected()
	if !ok {
		return
	}
	for i := m.Cursor; i >= 0; i-- {
		if m.Rows[i].Kind == rowSnapshot && m.Rows[i].View == r.View {
			m.Cursor = i
			break
		}
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
}

func (m *ListModel) scrollIntoView() {
	visibleRows := m.Height
	if visibleRows < 1 {
		visibleRows = 1
	}
	if m.Cursor >= m.Offset+visibleRows {
		m.Offset = m.Cursor - visibleRows + 1
	}
}

var (
	cursorStyle    = lipgloss.NewStyle().Bold(true).Reverse(true)
	snapshotStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	countStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	highlightStyle = lipgloss.NewStyle().Background(lipgloss.Color("220")).Foreground(lipgloss.Color("0"))
	pinStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("135"))
)

// View renders the visible rows of views.
func (m ListModel) View(views []filter.View, vs *viewstate.State, filterActive bool) string {
	if len(m.Rows) == 0 {
		if filterActive {
			return "No snapshots match the current filter."
		}
		return "No snapshots yet. Press c to capture open tabs."
	}

	visibleRows := m.Height
	if visibleRows < 1 {
		visibleRows = 20
	}
	end := m.Offset + visibleRows
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	var b strings.Builder
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		v := views[r.View]
		selected := i == m.Cursor

		var line string
		switch r.Kind {
		case rowSnapshot:
			icon := "▶"
			if vs.IsExpanded(v.Snapshot.ID, filterActive) {
				icon = "▼"
			}
			count := fmt.Sprintf("(%d tabs)", v.TotalTabs)
			if len(v.Tabs) != v.TotalTabs {
				count = fmt.Sprintf("(%d/%d tabs)", len(v.Tabs), v.TotalTabs)
			}
			date := v.Snapshot.CreatedAt.Local().Format("2006-01-02 15:04")
			name := truncateSpan(v.Name, m.Width-lipgloss.Width(count)-len(date)-8)
			if selected {
				line = icon + " " + name.Text() + " " + count + "  " + date
			} else {
				line = snapshotStyle.Render(icon+" ") + renderSpan(name, snapshotStyle) + " " +
					countStyle.Render(count) + "  " + dimStyle.Render(date)
			}

		case rowTab:
			tab := v.Snapshot.Tabs[r.Tab]
			match := v.Tabs[r.Tab]
			prefix := "    "
			if tab.Pinned {
				prefix = "  " + pinStyle.Render("⚲") + " "
			}
			span := match.Title
			if tab.Title == "" {
				span = match.URL
			}
			if span.Text() == "" {
				span = filter.Span{Before: types.DisplayTitle(tab)}
			}
			span = truncateSpan(span, m.Width-6)
			if selected {
				line = "    " + span.Text()
			} else {
				line = prefix + renderSpan(span, lipgloss.NewStyle())
			}

		case rowMore:
			text := fmt.Sprintf("    + %d more tabs...", r.Hidden)
			if selected {
				line = text
			} else {
				line = dimStyle.Render(text)
			}
		}

		if selected {
			if pad := m.Width - lipgloss.Width(line); pad > 0 {
				line += strings.Repeat(" ", pad)
			}
			line = cursorStyle.Render(line)
		}

		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderSpan draws a span with its matched part highlighted.
func renderSpan(s filter.Span, base lipgloss.Style) string {
	if !s.Matched {
		return base.Render(s.Before)
	}
	return base.Render(s.Before) + highlightStyle.Render(s.Match) + base.Render(s.After)
}

// truncateSpan shortens a span to max runes, keeping the highlight when it
// still fits.
func truncateSpan(s filter.Span, max int) filter.Span {
	if max < 10 {
		max = 10
	}
	text := []rune(s.Text())
	if len(text) <= max {
		return s
	}
	cut := max - 1
	if !s.Matched || s.Start >= cut {
		return filter.Span{Before: string(text[:cut]) + "…"}
	}
	out := s
	matchEnd := s.Start + s.Len
	if matchEnd > cut {
		out.Match = string(text[s.Start:cut])
		out.Len = cut - s.Start
		out.After = "…"
		return out
	}
	out.After = string(text[matchEnd:cut]) + "…"
	return out
}
