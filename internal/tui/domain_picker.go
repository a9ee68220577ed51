package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lotas/tabstash/internal/analyzer"
	"github.com/lotas/tabstash/internal/types"
)

type DomainOption struct {
	Label  string
	Domain string
}

// DomainPicker is an overlay listing every domain in the catalog.
type DomainPicker struct {
	Options []DomainOption
	Cursor  int
	Offset  int
	Height  int
}

func NewDomainPicker(ranked []analyzer.DomainFreq, current string) DomainPicker {
	options := []DomainOption{{Label: "All domains", Domain: types.DomainAll}}
	for _, d := range ranked {
		options = append(options, DomainOption{
			Label:  fmt.Sprintf("%s (%d)", d.Domain, d.Count),
			Domain: d.Domain,
		})
	}
	cursor := 0
	for i, opt := range options {
		if opt.Domain == current {
			cursor = i
			break
		}
	}
	p := DomainPicker{Options: options, Cursor: cursor, Height: 15}
	p.scroll()
	return p
}

func (m *DomainPicker) MoveUp() {
	if m.Cursor > 0 {
		m.Cursor--
	}
	m.scroll()
}

func (m *DomainPicker) MoveDown() {
	if m.Cursor < len(m.Options)-1 {
		m.Cursor++
	}
	m.scroll()
}

func (m *DomainPicker) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Height > 0 && m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m DomainPicker) Selected() DomainOption {
	return m.Options[m.Cursor]
}

func (m DomainPicker) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	selectedStyle := lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	normalStyle := lipgloss.NewStyle().Padding(0, 1)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Filter by domain:") + "\n\n")

	end := len(m.Options)
	if m.Height > 0 && m.Offset+m.Height < end {
		end = m.Offset + m.Height
	}
	for i := m.Offset; i < end; i++ {
		label := m.Options[i].Label
		if i == m.Cursor {
			label = selectedStyle.Render(label)
		} else {
			label = normalStyle.Render("  " + label)
		}
		b.WriteString(label + "\n")
	}

	b.WriteString("\n" + normalStyle.Render("↑↓ navigate · enter select · esc cancel"))

	return boxStyle.Render(b.String())
}
