package types

import (
	"strconv"
	"strings"
	"time"
)

// Tab is a single captured browser tab. Empty strings mean the field was
// not reported by the browser.
type Tab struct {
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
	FavIconURL string `json:"favIconUrl,omitempty"`
	Pinned     bool   `json:"pinned,omitempty"`
}

// Snapshot is a named, timestamped set of captured tabs.
type Snapshot struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name"`
	Tabs      []Tab     `json:"tabs"`
}

// OpenTab is a tab currently open in the browser, as reported by a tab source.
type OpenTab struct {
	WindowIndex int
	NativeID    int // browser tab ID; 0 when read from a session file
	Tab         Tab
}

// Profile represents a Firefox profile.
type Profile struct {
	Name       string
	Path       string // absolute path to profile directory
	IsDefault  bool
	IsRelative bool
}

// DomainAll is the domain facet value that disables domain filtering.
const DomainAll = "all"

// FilterState is the free-text query plus domain facet currently applied.
type FilterState struct {
	Query  string // trimmed, matched ignoring case
	Domain string // DomainAll or a domain label
}

// NewFilterState normalizes a raw query and domain selection.
func NewFilterState(query, domain string) FilterState {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		domain = DomainAll
	}
	return FilterState{
		Query:  strings.TrimSpace(query),
		Domain: domain,
	}
}

// Active reports whether any filter condition is in effect.
func (f FilterState) Active() bool {
	return f.Query != "" || (f.Domain != "" && f.Domain != DomainAll)
}

// DisplayName returns the label shown for s, falling back to its 1-based
// position in the catalog when the name is blank.
func DisplayName(s Snapshot, pos int) string {
	if strings.TrimSpace(s.Name) != "" {
		return s.Name
	}
	return "Snapshot " + strconv.Itoa(pos+1)
}

// DisplayTitle returns the text shown for a tab row.
func DisplayTitle(t Tab) string {
	switch {
	case t.Title != "":
		return t.Title
	case t.URL != "":
		return t.URL
	default:
		return "(No title)"
	}
}
