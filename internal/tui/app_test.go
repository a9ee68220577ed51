package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotas/tabstash/internal/catalog"
	"github.com/lotas/tabstash/internal/types"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixtureSnapshots() []types.Snapshot {
	var big []types.Tab
	for i := 0; i < 13; i++ {
		big = append(big, types.Tab{
			Title: fmt.Sprintf("Issue %d", i),
			URL:   fmt.Sprintf("https://github.com/acme/repo/issues/%d", i),
		})
	}
	return []types.Snapshot{
		{
			ID:        "s1",
			Name:      "Research",
			CreatedAt: testNow.Add(-time.Hour),
			Tabs: []types.Tab{
				{Title: "Go docs", URL: "https://go.dev/doc", Pinned: true},
				{Title: "Lipgloss", URL: "https://github.com/charmbracelet/lipgloss"},
			},
		},
		{
			ID:        "s2",
			Name:      "Issues",
			CreatedAt: testNow.Add(-24 * time.Hour),
			Tabs:      big,
		},
	}
}

type fakeSource struct {
	tabs []types.OpenTab
	err  error
}

func (f fakeSource) ListOpenTabs(ctx context.Context) ([]types.OpenTab, error) {
	return f.tabs, f.err
}

type fakeOpener struct {
	urls []string
	err  error
}

func (f *fakeOpener) OpenURLs(ctx context.Context, urls []string) error {
	f.urls = urls
	return f.err
}

type fakeCopier struct {
	text string
	err  error
}

func (f *fakeCopier) Copy(text string) error {
	f.text = text
	return f.err
}

func newTestModel(t *testing.T, opts Options, snaps ...types.Snapshot) (Model, *catalog.MemoryStore) {
	t.Helper()
	store := catalog.NewMemoryStore(snaps...)
	if opts.Catalog == nil {
		opts.Catalog = catalog.New(store)
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	if opts.TopDomains == 0 {
		opts.TopDomains = 3
	}
	m := NewModel(context.Background(), opts)
	m = runCmd(t, m, m.Init())
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok, "Update should return a Model")
	return updated
}

// runCmd executes cmd and feeds its message back, following reloads.
// Tick commands are skipped so tests never sleep.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		switch msg.(type) {
		case snapshotsLoadedMsg, actionDoneMsg:
		default:
			return m
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
		if _, ok := msg.(actionDoneMsg); ok && !msg.(actionDoneMsg).reload {
			return m
		}
		if _, ok := msg.(snapshotsLoadedMsg); ok {
			return m
		}
	}
	return m
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, string(r))
	}
	return m
}

func TestModelLoadsSnapshots(t *testing.T) {
	m, _ := newTestModel(t, Options{}, fixtureSnapshots()...)

	assert.False(t, m.loading)
	assert.Len(t, m.views, 2)
	assert.Equal(t, 2, m.stats.Snapshots)
	assert.Equal(t, 15, m.stats.Tabs)
	require.NotEmpty(t, m.chips)
	assert.Equal(t, "github.com", m.chips[0].Domain)

	// Collapsed: header + 2 tabs, header + 10 previews + more row.
	assert.Len(t, m.list.Rows, 15)
	assert.Equal(t, rowMore, m.list.Rows[14].Kind)
	assert.Equal(t, 3, m.list.Rows[14].Hidden)

	view := m.View()
	assert.Contains(t, view, "tabstash")
	assert.Contains(t, view, "Research")
	assert.Contains(t, view, "+ 3 more tabs...")
}

func TestModelEmptyCatalog(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	assert.Empty(t, m.list.Rows)
	assert.Contains(t, m.View(), "No snapshots yet")
}

func TestModelLoadError(t *testing.T) {
	store := catalog.NewMemoryStore()
	store.LoadErr = errors.New("disk on fire")
	m, _ := newTestModel(t, Options{Catalog: catalog.New(store)})

	require.Error(t, m.err)
	assert.Contains(t, m.View(), "disk on fire")
}

func TestModelQuit(t *testing.T) {
	m, _ := newTestModel(t, Options{}, fixtureSnapshots()...)

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = press(t, m, "ctrl+c")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModelExpandMoreRow(t *testing.T) {
	m, _ := newTestModel(t, Options{}, fixtureSnapshots()...)

	for i := 0; i < 14; i++ {
		m, _ = press(t, m, "j")
	}
	r, ok := m.list.Selected()
	require.True(t, ok)
	require.Equal(t, rowMore, r.Kind)

	m, _ = press(t, m, "enter")
	assert.True(t, m.vs.IsExpanded("s2", false))
	assert.Len(t, m.list.Rows, 17)

	// h on a tab row jumps to its header, a second h collapses.
	m, _ = press(t, m, "h")
	r, _ = m.list.Selected()
	assert.Equal(t, rowSnapshot, r.Kind)
	m, _ = press(t, m, "h")
	assert.False(t, m.vs.IsExpanded("s2", false))
	assert.Len(t, m.list.Rows, 15)
}

func TestModelToggleHeader(t *testing.T) {
	m, _ := newTestModel(t, Options{}, fixtureSnapshots()...)

	m, _ = press(t, m, "enter")
	assert.True(t, m.vs.IsExpanded("s1", false))
	m, _ = press(t, m, "enter")
	assert.False(t, m.vs.IsExpanded("s1", false))
}

func TestModelLiveSearch(t *testing.T) {
	m, _ := newTestModel(t, Options{}, fixtureSnapshots()...)

	m, _ = press(t, m, "/")
	require.Equal(t, modeSearch, m.mode)
	m = typeText(t, m, "Issue 7")

	assert.Equal(t, "Issue 7", m.filter.Query)
	require.Len(t, m.views, 1)
	assert.Equal(t, "s2", m.views[0].Snapshot.ID)
	assert.Len(t, m.views[0].Tabs, 1)
	// Active filters expand everything.
	assert.Len(t, m.list.Rows, 2)

	m, _ = press(t, m, "enter")
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "Issue 7", m.filter.Query)

	m, _ = press(t, m, "esc")
	assert.False(t, m.filter.Active())
	assert.Len(t, m.views, 2)
}

func TestModelSearchEscClearsQuery(t *testing.T) {
	m, _ := newTestModel(t, Options{}, fixtureSnapshots()...)

	m, _ = press(t, m, "/")
	m = typeText(t, m, "zzz")
	assert.Empty(t, m.views)
	assert.Contains(t, m.View(), "No snapshots match the current filter.")

	m, _ = press(t, m, "backspace")
	assert.Equal(t, "zz", m.query)

	m, _ = press(t, m, "esc")
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "", m.filter.Query)
	assert.Len(t, m.views, 2)
}

func TestModelDomainChips(t *testing.T) {
	m, _ := newTestModel(t, Options{}, fixtureSnapshots()...)

	m, _ = press(t, m, "1")
	assert.Equal(t, "github.com", m.filter.Domain)
	require.Len(t, m.views, 2)
	assert.Len(t, m.views[0].Tabs, 1)

	m, _ = press(t, m, "1")
	assert.Equal(t, types.DomainAll, m.filter.Domain)

	// Out of range chips are ignored.
	m, _ = press(t, m, "9")
	assert.Equal(t, types.DomainAll, m.filter.Domain)
}

func TestModelDomainPicker(t *testing.T) {
	m, _ := newTestModel(t, Options{}, fixtureSnapshots()...)

	m, _ = press(t, m, "d")
	require.Equal(t, modeDomainPicker, m.mode)
	assert.Contains(t, m.View(), "All domains")

	m, _ = press(t, m, "down")
	m, _ = press(t, m, "down")
	m, _ = press(t, m, "enter")
	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "go.dev", m.filter.Domain)
	require.Len(t, m.views, 1)
	assert.Equal(t, "s1", m.views[0].Snapshot.ID)
}

func TestModelCaptureSingleSource(t *testing.T) {
	src := fakeSource{tabs: []types.OpenTab{
		{Tab: types.Tab{Title: "Example", URL: "https://example.com/"}},
		{WindowIndex: 1, Tab: types.Tab{Title: "Docs", URL: "https://go.dev/doc"}},
	}}
	m, store := newTestModel(t, Options{Sources: []Source{{Label: "live", Tabs: src}}}, fixtureSnapshots()...)

	m, cmd := press(t, m, "c")
	m = runCmd(t, m, cmd)

	require.Len(t, m.snaps, 3)
	assert.Equal(t, "Example + Go • Mar 10", m.snaps[0].Name)
	assert.Len(t, m.snaps[0].Tabs, 2)
	assert.Equal(t, 1, store.Saves())
	assert.Contains(t, m.status, "Captured")
}

func TestModelCaptureNoTabs(t *testing.T) {
	m, store := newTestModel(t, Options{Sources: []Source{{Label: "live", Tabs: fakeSource{}}}})

	m, cmd := press(t, m, "c")
	m = runCmd(t, m, cmd)

	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "no open tabs")
	assert.Equal(t, 0, store.Saves())
}

func TestModelCaptureWithoutSource(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m, _ = press(t, m, "c")
	assert.True(t, m.statusErr)
	assert.Equal(t, "No tab source available", m.status)
}

func TestModelCaptureSourcePicker(t *testing.T) {
	live := fakeSource{err: errors.New("extension not connected")}
	session := fakeSource{tabs: []types.OpenTab{{Tab: types.Tab{URL: "https://example.com/"}}}}
	m, _ := newTestModel(t, Options{Sources: []Source{
		{Label: "live", Tabs: live},
		{Label: "session", Tabs: session},
	}})

	m, _ = press(t, m, "c")
	require.Equal(t, modeSourcePicker, m.mode)
	assert.Contains(t, m.View(), "Capture tabs from:")

	m, cmd := press(t, m, "2")
	assert.Equal(t, modeNormal, m.mode)
	m = runCmd(t, m, cmd)
	require.Len(t, m.snaps, 1)

	m, _ = press(t, m, "c")
	m, cmd = press(t, m, "enter")
	m = runCmd(t, m, cmd)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "extension not connected")
	assert.Len(t, m.snaps, 1)
}

func TestModelRename(t *testing.T) {
	m, _ := newTestModel(t, Options{}, fixtureSnapshots()...)

	m, _ = press(t, m, "r")
	require.Equal(t, modeRename, m.mode)
	assert.Equal(t, "Research", m.input.Value())

	for range "Research" {
		m, _ = press(t, m, "backspace")
	}
	m = typeText(t, m, "Reading")
	m, cmd := press(t, m, "enter")
	m = runCmd(t, m, cmd)

	assert.Equal(t, modeNormal, m.mode)
	assert.Equal(t, "Reading", m.snaps[0].Name)
}

func TestModelRenameBlankIsNoop(t *testing.T) {
	m, store := newTestModel(t, Options{}, fixtureSnapshots()...)

	m, _ = press(t, m, "r")
	for range "Research" {
		m, _ = press(t, m, "backspace")
	}
	m = typeText(t, m, "  ")
	m, _ = press(t, m, "enter")

	assert.Equal(t, "Research", m.snaps[0].Name)
	assert.Equal(t, 0, store.Saves())
	assert.Equal(t, "Name unchanged", m.status)
}

func TestModelDelete(t *testing.T) {
	m, _ := newTestModel(t, Options{}, fixtureSnapshots()...)

	// Anything but y cancels.
	m, _ = press(t, m, "x")
	require.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), `Delete "Research"?`)
	m, _ = press(t, m, "n")
	assert.Equal(t, modeNormal, m.mode)
	assert.Len(t, m.snaps, 2)

	m, _ = press(t, m, "x")
	m, cmd := press(t, m, "y")
	m = runCmd(t, m, cmd)

	require.Len(t, m.snaps, 1)
	assert.Equal(t, "s2", m.snaps[0].ID)
	assert.Equal(t, "Deleted", m.status)
}

func TestModelOpenUsesFullSnapshot(t *testing.T) {
	opener := &fakeOpener{}
	m, _ := newTestModel(t, Options{Opener: opener}, fixtureSnapshots()...)

	m, _ = press(t, m, "/")
	m = typeText(t, m, "issue 3")
	m, _ = press(t, m, "enter")

	m, cmd := press(t, m, "o")
	m = runCmd(t, m, cmd)

	assert.Len(t, opener.urls, 13)
	assert.Equal(t, "Opened 13 tabs", m.status)
}

func TestModelOpenUnavailable(t *testing.T) {
	m, _ := newTestModel(t, Options{}, fixtureSnapshots()...)

	m, _ = press(t, m, "o")
	assert.True(t, m.statusErr)
}

func TestModelCopy(t *testing.T) {
	copier := &fakeCopier{}
	m, _ := newTestModel(t, Options{Copier: copier}, fixtureSnapshots()...)

	m, cmd := press(t, m, "y")
	m = runCmd(t, m, cmd)
	assert.Equal(t, "https://go.dev/doc\nhttps://github.com/charmbracelet/lipgloss", copier.text)
	assert.Equal(t, "Copied 2 URLs", m.status)

	m, _ = press(t, m, "j")
	m, _ = press(t, m, "j")
	m, cmd = press(t, m, "y")
	m = runCmd(t, m, cmd)
	assert.Equal(t, "https://github.com/charmbracelet/lipgloss", copier.text)
	assert.Equal(t, "Copied URL", m.status)
}

func TestModelCopyFailure(t *testing.T) {
	copier := &fakeCopier{err: errors.New("no display")}
	m, _ := newTestModel(t, Options{Copier: copier}, fixtureSnapshots()...)

	m, cmd := press(t, m, "y")
	m = runCmd(t, m, cmd)
	assert.True(t, m.statusErr)
	assert.True(t, strings.HasPrefix(m.status, "copy failed"))
}

func TestModelStatusClears(t *testing.T) {
	m, _ := newTestModel(t, Options{}, fixtureSnapshots()...)

	m, _ = press(t, m, "o")
	require.NotEmpty(t, m.status)
	stale := m.statusSeq - 1

	m = update(t, m, clearStatusMsg{seq: stale})
	assert.NotEmpty(t, m.status)

	m = update(t, m, clearStatusMsg{seq: m.statusSeq})
	assert.Empty(t, m.status)
}

func TestModelCollapseAll(t *testing.T) {
	m, _ := newTestModel(t, Options{}, fixtureSnapshots()...)

	m, _ = press(t, m, "enter")
	require.True(t, m.vs.IsExpanded("s1", false))
	m, _ = press(t, m, "z")
	assert.False(t, m.vs.IsExpanded("s1", false))
}
