package snapshot

import (
	"fmt"
	"strings"

	"github.com/lotas/tabstash/internal/types"
)

// DiffEntry represents a single tab in a diff result.
type DiffEntry struct {
	URL   string
	Title string
}

// DiffResult holds the result of comparing two snapshots.
type DiffResult struct {
	From    string      // name of the older snapshot
	To      string      // name of the newer snapshot
	Added   []DiffEntry // in To but not in From
	Removed []DiffEntry // in From but not in To
}

// Diff compares two snapshots by URL. Entries keep the tab order of the
// snapshot they come from; tabs without a URL are ignored.
func Diff(from, to types.Snapshot) *DiffResult {
	result := &DiffResult{From: from.Name, To: to.Name}

	fromURLs := urlSet(from.Tabs)
	toURLs := urlSet(to.Tabs)

	seen := make(map[string]bool)
	for _, tab := range to.Tabs {
		if tab.URL == "" || fromURLs[tab.URL] || seen[tab.URL] {
			continue
		}
		seen[tab.URL] = true
		result.Added = append(result.Added, DiffEntry{URL: tab.URL, Title: tab.Title})
	}

	seen = make(map[string]bool)
	for _, tab := range from.Tabs {
		if tab.URL == "" || toURLs[tab.URL] || seen[tab.URL] {
			continue
		}
		seen[tab.URL] = true
		result.Removed = append(result.Removed, DiffEntry{URL: tab.URL, Title: tab.Title})
	}

	return result
}

func urlSet(tabs []types.Tab) map[string]bool {
	set := make(map[string]bool, len(tabs))
	for _, tab := range tabs {
		if tab.URL != "" {
			set[tab.URL] = true
		}
	}
	return set
}

// FormatDiff returns a human-readable string representation of a DiffResult.
func FormatDiff(d *DiffResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Diff %q -> %q\n", d.From, d.To)
	fmt.Fprintf(&sb, "Added: %d  Removed: %d\n", len(d.Added), len(d.Removed))

	if len(d.Added) > 0 {
		sb.WriteString("\n+ Added:\n")
		for _, e := range d.Added {
			fmt.Fprintf(&sb, "  + %s\n", e.URL)
		}
	}

	if len(d.Removed) > 0 {
		sb.WriteString("\n- Removed:\n")
		for _, e := range d.Removed {
			fmt.Fprintf(&sb, "  - %s\n", e.URL)
		}
	}

	if len(d.Added) == 0 && len(d.Removed) == 0 {
		sb.WriteString("\nNo changes.\n")
	}

	return sb.String()
}
