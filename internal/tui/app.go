package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lotas/tabstash/internal/analyzer"
	"github.com/lotas/tabstash/internal/applog"
	"github.com/lotas/tabstash/internal/catalog"
	"github.com/lotas/tabstash/internal/filter"
	"github.com/lotas/tabstash/internal/types"
	"github.com/lotas/tabstash/internal/viewstate"
)

// Copier places text on the clipboard.
type Copier interface {
	Copy(text string) error
}

// Options wires the browser to its collaborators.
type Options struct {
	Catalog    *catalog.Catalog
	Sources    []Source       // where "capture" reads tabs from
	Opener     catalog.Opener // nil disables "open"
	Copier     Copier         // nil disables "copy"
	TopDomains int
	Now        func() time.Time
}

// statusTTL is how long a transient notice stays on screen.
const statusTTL = 3 * time.Second

// --- Messages ---

type snapshotsLoadedMsg struct {
	snaps  []types.Snapshot
	notice string
	err    error
}

type actionDoneMsg struct {
	notice string
	reload bool
	err    error
}

type clearStatusMsg struct{ seq int }

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeRename
	modeConfirmDelete
	modeDomainPicker
	modeSourcePicker
)

// --- Model ---

type Model struct {
	opts Options
	ctx  context.Context

	// Data
	snaps []types.Snapshot
	views []filter.View
	chips []analyzer.DomainFreq
	stats analyzer.Stats

	// Filter and view state
	filter types.FilterState
	query  string // as typed, before normalization
	vs     *viewstate.State

	// UI state
	list         ListModel
	detail       DetailModel
	domainPicker DomainPicker
	sourcePicker SourcePicker
	input        lineInput
	mode         inputMode
	targetID     string // snapshot being renamed or deleted

	status    string
	statusErr bool
	statusSeq int

	loading bool
	err     error
	width   int
	height  int
}

func NewModel(ctx context.Context, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TopDomains < 0 {
		opts.TopDomains = 0
	}
	return Model{
		opts:    opts,
		ctx:     ctx,
		filter:  types.NewFilterState("", ""),
		vs:      viewstate.New(),
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.load("")
}

func (m Model) load(notice string) tea.Cmd {
	c, ctx := m.opts.Catalog, m.ctx
	return func() tea.Msg {
		snaps, err := c.List(ctx)
		return snapshotsLoadedMsg{snaps: snaps, notice: notice, err: err}
	}
}

// refresh recomputes the filtered views and the visible rows.
func (m *Model) refresh() {
	m.views = filter.Apply(m.snaps, m.filter)
	m.list.SetRows(buildRows(m.views, m.vs, m.filter.Active()))
	m.detail.ResetScroll()
}

// recount recomputes analytics over the whole, unfiltered catalog.
func (m *Model) recount() {
	m.chips = analyzer.TopDomains(analyzer.CountsByDomain(m.snaps), m.opts.TopDomains)
	m.stats = analyzer.ComputeStats(m.snaps)
}

func (m *Model) setFilter(query, domain string) {
	m.query = query
	m.filter = types.NewFilterState(query, domain)
	m.list.Cursor = 0
	m.list.Offset = 0
	m.refresh()
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// selection resolves the row under the cursor to its view.
func (m Model) selection() (row, filter.View, bool) {
	r, ok := m.list.Selected()
	if !ok || r.View >= len(m.views) {
		return row{}, filter.View{}, false
	}
	return r, m.views[r.View], true
}

// fullSnapshot returns the unfiltered snapshot behind a view.
func (m Model) fullSnapshot(v filter.View) types.Snapshot {
	if s, ok := catalog.Find(m.snaps, v.Snapshot.ID); ok {
		return s
	}
	return v.Snapshot
}

func (m *Model) resize() {
	listWidth := m.width * ListWidthPct / 100
	paneHeight := m.height - 7 // navbar, filter bar, bottom bar, borders
	if paneHeight < 1 {
		paneHeight = 1
	}
	m.list.Width = listWidth
	m.list.Height = paneHeight
	m.detail.Width = m.width - listWidth - 4
	m.detail.Height = paneHeight
	m.list.clamp()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case snapshotsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			applog.Error("tui.load", msg.err)
			if m.snaps == nil {
				m.err = msg.err
			}
			return m, m.setStatus("Load failed: "+msg.err.Error(), true)
		}
		m.err = nil
		m.snaps = msg.snaps
		m.recount()
		m.refresh()
		if msg.notice != "" {
			return m, m.setStatus(msg.notice, false)
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			applog.Error("tui.action", msg.err)
			return m, m.setStatus(msg.err.Error(), true)
		}
		if msg.reload {
			return m, m.load(msg.notice)
		}
		return m, m.setStatus(msg.notice, false)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeRename:
			return m.updateRename(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeDomainPicker:
			return m.updateDomainPicker(msg)
		case modeSourcePicker:
			return m.updateSourcePicker(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.list.MoveUp()
		m.detail.ResetScroll()
	case "down", "j":
		m.list.MoveDown()
		m.detail.ResetScroll()
	case "enter", " ", "l":
		r, v, ok := m.selection()
		if !ok {
			return m, nil
		}
		switch r.Kind {
		case rowSnapshot:
			m.vs.Toggle(v.Snapshot.ID)
		case rowMore:
			m.vs.SetExpanded(v.Snapshot.ID, true)
		default:
			return m, nil
		}
		m.list.SetRows(buildRows(m.views, m.vs, m.filter.Active()))
	case "h":
		r, v, ok := m.selection()
		if !ok {
			return m, nil
		}
		if r.Kind != rowSnapshot {
			m.list.JumpToHeader()
			return m, nil
		}
		m.vs.SetExpanded(v.Snapshot.ID, false)
		m.list.SetRows(buildRows(m.views, m.vs, m.filter.Active()))
	case "z":
		m.vs.Clear()
		m.list.SetRows(buildRows(m.views, m.vs, m.filter.Active()))
		m.list.JumpToHeader()
	case "/":
		m.mode = modeSearch
		m.input = newLineInput("/", m.query)
	case "d":
		m.mode = modeDomainPicker
		m.domainPicker = NewDomainPicker(analyzer.RankedDomains(analyzer.CountsByDomain(m.snaps)), m.filter.Domain)
	case "esc":
		if m.filter.Active() {
			m.setFilter("", types.DomainAll)
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(msg.String()[0] - '1')
		if i >= len(m.chips) {
			return m, nil
		}
		domain := m.chips[i].Domain
		if domain == m.filter.Domain {
			domain = types.DomainAll
		}
		m.setFilter(m.query, domain)
	case "c":
		switch len(m.opts.Sources) {
		case 0:
			return m, m.setStatus("No tab source available", true)
		case 1:
			return m, m.capture(m.opts.Sources[0])
		}
		m.mode = modeSourcePicker
		m.sourcePicker = NewSourcePicker(m.opts.Sources)
	case "r":
		_, v, ok := m.selection()
		if !ok {
			return m, nil
		}
		m.mode = modeRename
		m.targetID = v.Snapshot.ID
		m.input = newLineInput("Rename: ", v.Snapshot.Name)
	case "x":
		_, v, ok := m.selection()
		if !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.targetID = v.Snapshot.ID
	case "o":
		_, v, ok := m.selection()
		if !ok {
			return m, nil
		}
		if m.opts.Opener == nil {
			return m, m.setStatus("Opening tabs is not available", true)
		}
		return m, m.open(m.fullSnapshot(v))
	case "y":
		r, v, ok := m.selection()
		if !ok {
			return m, nil
		}
		if m.opts.Copier == nil {
			return m, m.setStatus("Clipboard is not available", true)
		}
		if r.Kind == rowTab {
			return m, m.copy(v.Snapshot.Tabs[r.Tab].URL, "Copied URL")
		}
		urls := catalog.URLs(m.fullSnapshot(v))
		return m, m.copy(strings.Join(urls, "\n"), fmt.Sprintf("Copied %d URLs", len(urls)))
	case "R":
		return m, m.load("")
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.input.HandleKey(msg) {
	case inputEdited:
		m.setFilter(m.input.Value(), m.filter.Domain)
	case inputSubmitted:
		m.mode = modeNormal
	case inputCanceled:
		m.mode = modeNormal
		m.setFilter("", m.filter.Domain)
	}
	return m, nil
}

func (m Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.input.HandleKey(msg) {
	case inputSubmitted:
		m.mode = modeNormal
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			return m, m.setStatus("Name unchanged", false)
		}
		return m, m.rename(m.targetID, name)
	case inputCanceled:
		m.mode = modeNormal
	}
	return m, nil
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeNormal
	if msg.String() != "y" {
		return m, nil
	}
	id := m.targetID
	m.vs.Forget(id)
	return m, m.delete(id)
}

func (m Model) updateDomainPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.domainPicker.MoveUp()
	case "down", "j":
		m.domainPicker.MoveDown()
	case "enter":
		m.mode = modeNormal
		m.setFilter(m.query, m.domainPicker.Selected().Domain)
	case "esc", "q":
		m.mode = modeNormal
	}
	return m, nil
}

func (m Model) updateSourcePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.sourcePicker.MoveUp()
	case "down", "j":
		m.sourcePicker.MoveDown()
	case "enter":
		m.mode = modeNormal
		return m, m.capture(m.sourcePicker.Selected())
	case "esc", "q":
		m.mode = modeNormal
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if m.sourcePicker.SelectByNumber(int(msg.String()[0] - '0')) {
			m.mode = modeNormal
			return m, m.capture(m.sourcePicker.Selected())
		}
	}
	return m, nil
}

// --- Commands ---

func (m Model) capture(src Source) tea.Cmd {
	c, ctx, now := m.opts.Catalog, m.ctx, m.opts.Now
	return func() tea.Msg {
		s, err := c.Capture(ctx, src.Tabs, catalog.Selection{}, now())
		if errors.Is(err, catalog.ErrNoTabs) {
			return actionDoneMsg{err: fmt.Errorf("%s: no open tabs to capture", src.Label)}
		}
		if err != nil {
			return actionDoneMsg{err: fmt.Errorf("capture failed: %w", err)}
		}
		return actionDoneMsg{
			notice: fmt.Sprintf("Captured %q (%d tabs)", s.Name, len(s.Tabs)),
			reload: true,
		}
	}
}

func (m Model) rename(id, name string) tea.Cmd {
	c, ctx := m.opts.Catalog, m.ctx
	return func() tea.Msg {
		if err := c.Rename(ctx, id, name); err != nil {
			return actionDoneMsg{err: fmt.Errorf("rename failed: %w", err)}
		}
		return actionDoneMsg{notice: "Renamed", reload: true}
	}
}

func (m Model) delete(id string) tea.Cmd {
	c, ctx := m.opts.Catalog, m.ctx
	return func() tea.Msg {
		if err := c.Delete(ctx, id); err != nil {
			return actionDoneMsg{err: fmt.Errorf("delete failed: %w", err)}
		}
		return actionDoneMsg{notice: "Deleted", reload: true}
	}
}

func (m Model) open(s types.Snapshot) tea.Cmd {
	opener, ctx := m.opts.Opener, m.ctx
	return func() tea.Msg {
		n := len(catalog.URLs(s))
		if n == 0 {
			return actionDoneMsg{notice: "Nothing to open"}
		}
		if err := catalog.Open(ctx, opener, s); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{notice: fmt.Sprintf("Opened %d tabs", n)}
	}
}

func (m Model) copy(text, notice string) tea.Cmd {
	copier := m.opts.Copier
	return func() tea.Msg {
		if strings.TrimSpace(text) == "" {
			return actionDoneMsg{notice: "Nothing to copy"}
		}
		if err := copier.Copy(text); err != nil {
			return actionDoneMsg{err: fmt.Errorf("copy failed: %w", err)}
		}
		return actionDoneMsg{notice: notice}
	}
}

// --- View ---

func (m Model) View() string {
	if m.loading {
		return "\n  Loading snapshots...\n"
	}

	switch m.mode {
	case modeDomainPicker:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.domainPicker.View())
	case modeSourcePicker:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.sourcePicker.View())
	}

	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press 'R' to retry, 'q' to quit.\n", m.err)
	}

	topBar := renderNavbar(m.stats, len(m.views), sourceLabel(m.opts.Sources), m.width)
	filterBar := renderFilterBar(m.filter, m.query, m.mode == modeSearch, m.chips)

	listBorder := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Width(m.list.Width).
		Height(m.list.Height)

	detailBorder := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.detail.Width).
		Height(m.detail.Height)

	var detailContent string
	if r, v, ok := m.selection(); ok {
		full := m.fullSnapshot(v)
		if r.Kind == rowTab {
			idx := v.Tabs[r.Tab].Index
			copies := len(analyzer.DuplicateTabs(full.Tabs)[idx])
			detailContent = m.detail.ViewTab(v.Snapshot.Tabs[r.Tab], copies)
		} else {
			full.Name = v.Name.Text()
			detailContent = m.detail.ViewSnapshot(full, len(v.Tabs), m.opts.Now())
		}
	}

	left := listBorder.Render(m.list.View(m.views, m.vs, m.filter.Active()))
	right := detailBorder.Render(m.detail.ViewScrolled(detailContent))
	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left, topBar, filterBar, panes, m.bottomBar())
}

func (m Model) bottomBar() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Padding(0, 1)
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Padding(0, 1)

	switch {
	case m.mode == modeRename:
		return style.Render(m.input.View() + "   enter save · esc cancel")
	case m.mode == modeConfirmDelete:
		name := m.targetID
		for pos, s := range m.snaps {
			if s.ID == m.targetID {
				name = types.DisplayName(s, pos)
				break
			}
		}
		return errStyle.Render(fmt.Sprintf("Delete %q? y/N", name))
	case m.mode == modeSearch:
		return style.Render("type to filter · enter keep · esc clear")
	case m.status != "" && m.statusErr:
		return errStyle.Render(m.status)
	case m.status != "":
		return okStyle.Render(m.status)
	}
	return style.Render("↑↓/jk navigate · enter expand · / search · 1-9 chips · d domains · esc clear · c capture · r rename · x delete · o open · y copy · q quit")
}

func sourceLabel(sources []Source) string {
	switch len(sources) {
	case 0:
		return "no tab source"
	case 1:
		return "Source: " + sources[0].Label
	}
	return fmt.Sprintf("%d sources", len(sources))
}
