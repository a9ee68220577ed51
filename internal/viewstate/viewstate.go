// Package viewstate tracks which snapshots are expanded in the browser view.
package viewstate

// PreviewLimit is the number of tabs a collapsed snapshot shows.
const PreviewLimit = 10

// State maps snapshot IDs to their expanded flag. Absent IDs are collapsed.
// The zero value is ready to use. State is not safe for concurrent use; it
// is owned by the presentation layer's event loop.
type State struct {
	expanded map[string]bool
}

// New returns an empty State.
func New() *State {
	return &State{expanded: make(map[string]bool)}
}

// IsExpanded reports whether snapshot id is shown in full. An active filter
// forces every snapshot open so matches are never hidden.
func (s *State) IsExpanded(id string, filterActive bool) bool {
	if filterActive {
		return true
	}
	return s.expanded[id]
}

// SetExpanded stores the expanded flag for id.
func (s *State) SetExpanded(id string, value bool) {
	if s.expanded == nil {
		s.expanded = make(map[string]bool)
	}
	if !value {
		delete(s.expanded, id)
		return
	}
	s.expanded[id] = true
}

// Toggle flips the stored flag for id and returns the new value.
func (s *State) Toggle(id string) bool {
	v := !s.expanded[id]
	s.SetExpanded(id, v)
	return v
}

// Clear forgets every stored flag.
func (s *State) Clear() {
	s.expanded = make(map[string]bool)
}

// Forget drops the flag of a deleted snapshot.
func (s *State) Forget(id string) {
	delete(s.expanded, id)
}

// Window returns how many of total tabs are shown for id and how many are
// hidden behind the "more tabs" line.
func (s *State) Window(id string, total int, filterActive bool) (shown, hidden int) {
	if s.IsExpanded(id, filterActive) || total <= PreviewLimit {
		return total, 0
	}
	return PreviewLimit, total - PreviewLimit
}
