package export

import (
	"strings"
	"testing"
	"time"

	"github.com/lotas/tabstash/internal/filter"
	"github.com/lotas/tabstash/internal/types"
)

var exportNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func sampleSnapshots() []types.Snapshot {
	return []types.Snapshot{
		{
			ID:        "s1",
			Name:      "GitHub + Go • Mar 7",
			CreatedAt: exportNow.Add(-3 * 24 * time.Hour),
			Tabs: []types.Tab{
				{Title: "Go docs", URL: "https://go.dev/doc"},
				{Title: "Bubble Tea", URL: "https://github.com/charmbracelet/bubbletea", Pinned: true},
			},
		},
		{
			ID:        "s2",
			Name:      "Example • Mar 10",
			CreatedAt: exportNow.Add(-5 * time.Hour),
			Tabs: []types.Tab{
				{Title: "Example", URL: "https://example.com"},
				{URL: "https://example.com/untitled"},
				{},
			},
		},
	}
}

func TestMarkdown_AllSnapshots(t *testing.T) {
	views := filter.Apply(sampleSnapshots(), types.NewFilterState("", ""))
	result := Markdown(views, Options{Now: exportNow})

	for _, want := range []string{
		"# Tab snapshots",
		"> Exported 2026-03-10 12:00",
		"## GitHub + Go • Mar 7 (2 tabs)",
		"Saved 3 days ago",
		"## Example • Mar 10 (3 tabs)",
		"Saved 5 hours ago",
		"- [Go docs](https://go.dev/doc)",
		"- [Bubble Tea](https://github.com/charmbracelet/bubbletea) (pinned)",
		"- [Example](https://example.com)",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("missing %q, got:\n%s", want, result)
		}
	}
	if strings.Contains(result, "> Filter:") {
		t.Errorf("unexpected filter line without active filter:\n%s", result)
	}
}

func TestMarkdown_TitleFallbackToURL(t *testing.T) {
	views := filter.Apply(sampleSnapshots()[1:], types.NewFilterState("", ""))
	result := Markdown(views, Options{Now: exportNow})

	if !strings.Contains(result, "[https://example.com/untitled](https://example.com/untitled)") {
		t.Errorf("expected URL as title fallback, got:\n%s", result)
	}
	if !strings.Contains(result, "- (No title)\n") {
		t.Errorf("expected placeholder for tab without title or URL, got:\n%s", result)
	}
}

func TestMarkdown_FilteredCounts(t *testing.T) {
	views := filter.Apply(sampleSnapshots(), types.NewFilterState("example", ""))
	result := Markdown(views, Options{Filter: types.NewFilterState("example", ""), Now: exportNow})

	if !strings.Contains(result, `> Filter: "example"`) {
		t.Errorf("missing filter line, got:\n%s", result)
	}
	if !strings.Contains(result, "## Example • Mar 10 (2 of 3 tabs)") {
		t.Errorf("missing pruned count, got:\n%s", result)
	}
	if strings.Contains(result, "GitHub + Go") {
		t.Errorf("snapshot without matching tabs should be dropped, got:\n%s", result)
	}
}

func TestMarkdown_Empty(t *testing.T) {
	result := Markdown(nil, Options{Now: exportNow})
	if !strings.Contains(result, "No snapshots.") {
		t.Errorf("expected empty notice, got:\n%s", result)
	}
}

func TestMarkdown_EscapesBrackets(t *testing.T) {
	snaps := []types.Snapshot{{
		ID: "s", Name: "S", CreatedAt: exportNow,
		Tabs: []types.Tab{{Title: "[WIP] fix", URL: "https://github.com/a/b/pull/1"}},
	}}
	result := Markdown(filter.Apply(snaps, types.NewFilterState("", "")), Options{Now: exportNow})
	if !strings.Contains(result, `[\[WIP\] fix](https://github.com/a/b/pull/1)`) {
		t.Errorf("expected escaped brackets, got:\n%s", result)
	}
}
