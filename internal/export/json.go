package export

import (
	"encoding/json"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lotas/tabstash/internal/analyzer"
	"github.com/lotas/tabstash/internal/filter"
)

type jsonExport struct {
	ExportedAt time.Time      `json:"exported_at"`
	Query      string         `json:"query,omitempty"`
	Domain     string         `json:"domain,omitempty"`
	Snapshots  []jsonSnapshot `json:"snapshots"`
}

type jsonSnapshot struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedPretty string    `json:"created_pretty"`
	TotalTabs     int       `json:"total_tabs"`
	Tabs          []jsonTab `json:"tabs"`
}

type jsonTab struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Domain string `json:"domain,omitempty"`
	Pinned bool   `json:"pinned,omitempty"`
}

// JSON formats filtered snapshot views as a JSON document.
func JSON(views []filter.View, opts Options) (string, error) {
	now := opts.now()
	out := jsonExport{
		ExportedAt: now,
		Snapshots:  make([]jsonSnapshot, 0, len(views)),
	}
	if opts.Filter.Active() {
		out.Query = opts.Filter.Query
		out.Domain = opts.Filter.Domain
	}

	for _, v := range views {
		snap := jsonSnapshot{
			ID:            v.Snapshot.ID,
			Name:          v.Snapshot.Name,
			CreatedAt:     v.Snapshot.CreatedAt,
			CreatedPretty: humanize.RelTime(v.Snapshot.CreatedAt, now, "ago", "from now"),
			TotalTabs:     v.TotalTabs,
			Tabs:          make([]jsonTab, 0, len(v.Snapshot.Tabs)),
		}
		for _, tab := range v.Snapshot.Tabs {
			snap.Tabs = append(snap.Tabs, jsonTab{
				Title:  tab.Title,
				URL:    tab.URL,
				Domain: analyzer.DomainOf(tab.URL),
				Pinned: tab.Pinned,
			})
		}
		out.Snapshots = append(out.Snapshots, snap)
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
