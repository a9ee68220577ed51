package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/lotas/tabstash/internal/applog"
	"github.com/lotas/tabstash/internal/types"
)

// TabSource lists the tabs currently open in the browser.
type TabSource interface {
	ListOpenTabs(ctx context.Context) ([]types.OpenTab, error)
}

// Opener opens URLs in a new browser window.
type Opener interface {
	OpenURLs(ctx context.Context, urls []string) error
}

// Selection picks which open tabs go into a capture. The zero value selects
// every tab.
type Selection struct {
	OnlyWindow bool  // restrict the capture to Window
	Window     int   // window index, used when OnlyWindow is set
	Indices    []int // 0-based positions within the window-filtered list
}

// Select applies sel to open tabs, preserving their order.
func Select(open []types.OpenTab, sel Selection) ([]types.Tab, error) {
	var pool []types.Tab
	for _, ot := range open {
		if sel.OnlyWindow && ot.WindowIndex != sel.Window {
			continue
		}
		pool = append(pool, ot.Tab)
	}
	if len(sel.Indices) == 0 {
		return pool, nil
	}

	picked := make([]bool, len(pool))
	for _, i := range sel.Indices {
		if i < 0 || i >= len(pool) {
			return nil, fmt.Errorf("tab index %d out of range (0-%d)", i, len(pool)-1)
		}
		picked[i] = true
	}
	tabs := make([]types.Tab, 0, len(sel.Indices))
	for i, tab := range pool {
		if picked[i] {
			tabs = append(tabs, tab)
		}
	}
	return tabs, nil
}

// Capture reads the open tabs from src, applies sel and stores the result
// as a new snapshot.
func (c *Catalog) Capture(ctx context.Context, src TabSource, sel Selection, createdAt time.Time) (types.Snapshot, error) {
	open, err := src.ListOpenTabs(ctx)
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("list open tabs: %w", err)
	}
	tabs, err := Select(open, sel)
	if err != nil {
		return types.Snapshot{}, err
	}
	return c.Create(ctx, tabs, createdAt)
}

// Open sends the URLs of s to opener. Snapshots without any URL are a no-op.
func Open(ctx context.Context, opener Opener, s types.Snapshot) error {
	urls := URLs(s)
	if len(urls) == 0 {
		return nil
	}
	if err := opener.OpenURLs(ctx, urls); err != nil {
		return fmt.Errorf("open snapshot %s: %w", s.ID, err)
	}
	applog.Info("catalog.open", "id", s.ID, "urls", len(urls))
	return nil
}
