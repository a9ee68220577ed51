// Package filter applies the free-text query and domain facet to a snapshot
// collection and produces tab-pruned view-models for display.
package filter

import (
	"github.com/lotas/tabstash/internal/analyzer"
	"github.com/lotas/tabstash/internal/types"
)

// TabMatch carries highlight spans for one surviving tab.
type TabMatch struct {
	Index int // position of the tab in the unfiltered snapshot
	Title Span
	URL   Span
}

// View is a snapshot reduced to the tabs that satisfy the filter. Snapshot
// is a copy; its Tabs slice never aliases the input.
type View struct {
	Snapshot  types.Snapshot
	Position  int // index of the snapshot in the unfiltered collection
	TotalTabs int
	Name      Span // over the display name
	Tabs      []TabMatch // parallel to Snapshot.Tabs
}

// Apply filters snaps with fs. Query matching is tab-scoped: a matching
// snapshot name is highlighted but keeps no tabs on its own. Snapshots left
// with no tabs are dropped. Input order is preserved.
func Apply(snaps []types.Snapshot, fs types.FilterState) []View {
	views := make([]View, 0, len(snaps))
	for pos, s := range snaps {
		v := View{
			Snapshot: types.Snapshot{
				ID:        s.ID,
				CreatedAt: s.CreatedAt,
				Name:      s.Name,
			},
			Position:  pos,
			TotalTabs: len(s.Tabs),
			Name:      MatchSpan(types.DisplayName(s, pos), fs.Query),
		}
		for i, tab := range s.Tabs {
			m, ok := TabMatches(tab, fs)
			if !ok {
				continue
			}
			m.Index = i
			v.Snapshot.Tabs = append(v.Snapshot.Tabs, tab)
			v.Tabs = append(v.Tabs, m)
		}
		if len(v.Snapshot.Tabs) == 0 {
			continue
		}
		views = append(views, v)
	}
	return views
}

// TabMatches reports whether tab satisfies every active condition of fs and
// returns its highlight spans.
func TabMatches(tab types.Tab, fs types.FilterState) (TabMatch, bool) {
	m := TabMatch{
		Title: MatchSpan(tab.Title, fs.Query),
		URL:   MatchSpan(tab.URL, fs.Query),
	}
	if fs.Query != "" && !m.Title.Matched && !m.URL.Matched {
		return m, false
	}
	if fs.Domain != "" && fs.Domain != types.DomainAll {
		if tab.URL == "" || analyzer.DomainOf(tab.URL) != fs.Domain {
			return m, false
		}
	}
	return m, true
}

// Snapshots projects views back to plain snapshots.
func Snapshots(views []View) []types.Snapshot {
	out := make([]types.Snapshot, len(views))
	for i, v := range views {
		out[i] = v.Snapshot
	}
	return out
}
