package snapshot

import (
	"strings"
	"testing"

	"github.com/lotas/tabstash/internal/types"
)

func TestDiff(t *testing.T) {
	from := types.Snapshot{Name: "old", Tabs: []types.Tab{
		{URL: "https://kept.com", Title: "Kept"},
		{URL: "https://removed.com", Title: "Removed"},
		{Title: "no url"},
	}}
	to := types.Snapshot{Name: "new", Tabs: []types.Tab{
		{URL: "https://kept.com", Title: "Kept"},
		{URL: "https://added.com", Title: "Added"},
		{URL: "https://added.com", Title: "Added again"},
	}}

	result := Diff(from, to)

	if len(result.Added) != 1 || result.Added[0].URL != "https://added.com" {
		t.Errorf("expected 1 added (added.com), got %v", result.Added)
	}
	if len(result.Removed) != 1 || result.Removed[0].URL != "https://removed.com" {
		t.Errorf("expected 1 removed (removed.com), got %v", result.Removed)
	}
}

func TestFormatDiff(t *testing.T) {
	d := &DiffResult{
		From:    "old",
		To:      "new",
		Added:   []DiffEntry{{URL: "https://new.com"}},
		Removed: []DiffEntry{{URL: "https://gone.com"}},
	}
	out := FormatDiff(d)

	if !strings.Contains(out, `Diff "old" -> "new"`) {
		t.Errorf("missing header in output:\n%s", out)
	}
	if !strings.Contains(out, "+ https://new.com") {
		t.Errorf("missing added entry in output:\n%s", out)
	}
	if !strings.Contains(out, "- https://gone.com") {
		t.Errorf("missing removed entry in output:\n%s", out)
	}
}

func TestFormatDiffNoChanges(t *testing.T) {
	out := FormatDiff(&DiffResult{From: "a", To: "b"})
	if !strings.Contains(out, "No changes.") {
		t.Errorf("expected 'No changes.' in output:\n%s", out)
	}
}
