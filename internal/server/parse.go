package server

import (
	"encoding/json"
	"fmt"

	"github.com/lotas/tabstash/internal/types"
)

type wireTab struct {
	ID         int    `json:"id"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	WindowID   int    `json:"windowId"`
	Index      int    `json:"index"`
	FavIconURL string `json:"favIconUrl"`
	Pinned     bool   `json:"pinned"`
}

// ParseSnapshot converts an IncomingMsg of type "snapshot" into open tabs.
// Browser window ids are renumbered 0, 1, ... in order of first appearance.
func ParseSnapshot(msg IncomingMsg) ([]types.OpenTab, error) {
	if len(msg.Tabs) == 0 {
		return nil, nil
	}
	var tabs []wireTab
	if err := json.Unmarshal(msg.Tabs, &tabs); err != nil {
		return nil, fmt.Errorf("parse tabs: %w", err)
	}

	windows := make(map[int]int)
	result := make([]types.OpenTab, 0, len(tabs))
	for _, wt := range tabs {
		w, ok := windows[wt.WindowID]
		if !ok {
			w = len(windows)
			windows[wt.WindowID] = w
		}
		result = append(result, types.OpenTab{
			WindowIndex: w,
			NativeID:    wt.ID,
			Tab: types.Tab{
				Title:      wt.Title,
				URL:        wt.URL,
				FavIconURL: wt.FavIconURL,
				Pinned:     wt.Pinned,
			},
		})
	}
	return result, nil
}
