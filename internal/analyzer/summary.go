package analyzer

import "github.com/lotas/tabstash/internal/types"

// Stats holds aggregate numbers over a snapshot collection.
type Stats struct {
	Snapshots     int
	Tabs          int
	Domains       int
	PinnedTabs    int
	DuplicateTabs int // duplicates within the same snapshot
}

func ComputeStats(snaps []types.Snapshot) Stats {
	stats := Stats{
		Snapshots: len(snaps),
		Domains:   len(CountsByDomain(snaps)),
	}
	for _, s := range snaps {
		stats.Tabs += len(s.Tabs)
		stats.DuplicateTabs += len(DuplicateTabs(s.Tabs))
		for _, tab := range s.Tabs {
			if tab.Pinned {
				stats.PinnedTabs++
			}
		}
	}
	return stats
}
