package catalog

import (
	"strings"

	"github.com/lotas/tabstash/internal/types"
)

// Prepend returns a new collection with s in front of snaps.
func Prepend(snaps []types.Snapshot, s types.Snapshot) []types.Snapshot {
	out := make([]types.Snapshot, 0, len(snaps)+1)
	out = append(out, s)
	return append(out, snaps...)
}

// Renamed returns a copy of snaps with the name of id replaced. The second
// result is false when name is blank or id is absent; snaps is then
// returned as is.
func Renamed(snaps []types.Snapshot, id, name string) ([]types.Snapshot, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return snaps, false
	}
	idx := indexOf(snaps, id)
	if idx < 0 {
		return snaps, false
	}
	out := make([]types.Snapshot, len(snaps))
	copy(out, snaps)
	out[idx].Name = name
	return out, true
}

// Without returns a copy of snaps minus id. The second result reports
// whether anything was removed.
func Without(snaps []types.Snapshot, id string) ([]types.Snapshot, bool) {
	idx := indexOf(snaps, id)
	if idx < 0 {
		return snaps, false
	}
	out := make([]types.Snapshot, 0, len(snaps)-1)
	out = append(out, snaps[:idx]...)
	return append(out, snaps[idx+1:]...), true
}

// Find returns the snapshot with the given id.
func Find(snaps []types.Snapshot, id string) (types.Snapshot, bool) {
	if idx := indexOf(snaps, id); idx >= 0 {
		return snaps[idx], true
	}
	return types.Snapshot{}, false
}

// URLs returns the non-empty tab URLs of s in capture order.
func URLs(s types.Snapshot) []string {
	urls := make([]string, 0, len(s.Tabs))
	for _, tab := range s.Tabs {
		if tab.URL != "" {
			urls = append(urls, tab.URL)
		}
	}
	return urls
}

func indexOf(snaps []types.Snapshot, id string) int {
	for i, s := range snaps {
		if s.ID == id {
			return i
		}
	}
	return -1
}
