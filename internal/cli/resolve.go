package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lotas/tabstash/internal/catalog"
	"github.com/lotas/tabstash/internal/firefox"
	"github.com/lotas/tabstash/internal/types"
)

// errAmbiguous is returned when an id prefix matches several snapshots.
var errAmbiguous = errors.New("ambiguous snapshot reference")

// resolveSnapshot finds a snapshot by exact id, by its 1-based position in
// the list output, or by a unique id prefix.
func resolveSnapshot(snaps []types.Snapshot, ref string) (types.Snapshot, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return types.Snapshot{}, fmt.Errorf("%w: empty reference", catalog.ErrNotFound)
	}
	if s, ok := catalog.Find(snaps, ref); ok {
		return s, nil
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(snaps) {
			return snaps[n-1], nil
		}
		return types.Snapshot{}, fmt.Errorf("%w: no snapshot at position %d", catalog.ErrNotFound, n)
	}

	var matches []types.Snapshot
	for _, s := range snaps {
		if strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return types.Snapshot{}, fmt.Errorf("%w: %s", catalog.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return types.Snapshot{}, fmt.Errorf("%w: %q matches %d snapshots", errAmbiguous, ref, len(matches))
}

// loadSnapshot lists the catalog and resolves ref against it.
func (a *app) loadSnapshot(ctx context.Context, ref string) (types.Snapshot, error) {
	snaps, err := a.catalog().List(ctx)
	if err != nil {
		return types.Snapshot{}, err
	}
	return resolveSnapshot(snaps, ref)
}

// maxIndices bounds how many tabs one --index list may name.
const maxIndices = 10000

// parseIndices turns a 1-based list such as "1,3,5-7" into 0-based indices.
func parseIndices(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || first < 1 {
			return nil, fmt.Errorf("invalid tab index %q", part)
		}
		last := first
		if isRange {
			last, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || last < first {
				return nil, fmt.Errorf("invalid tab range %q", part)
			}
		}
		if last-first >= maxIndices-len(out) {
			return nil, fmt.Errorf("tab selection %q names more than %d tabs", spec, maxIndices)
		}
		for i := first; i <= last; i++ {
			out = append(out, i-1)
		}
	}
	return out, nil
}

// captureSource picks where capture reads open tabs from.
func (a *app) captureSource(ctx context.Context, live bool, stderr io.Writer) (catalog.TabSource, error) {
	if a.source != nil {
		return a.source, nil
	}
	if live {
		_, bridge := a.startBridge(ctx)
		fmt.Fprintf(stderr, "Waiting for Firefox extension on port %d...\n", a.cfg.Port)
		return bridge, nil
	}
	p, err := a.selectedProfile()
	if err != nil {
		return nil, err
	}
	return firefox.SessionSource{ProfileDir: p.Path}, nil
}

// windowOpener picks how open starts a browser window.
func (a *app) windowOpener(ctx context.Context, live bool, stderr io.Writer) catalog.Opener {
	if a.opener != nil {
		return a.opener
	}
	if live {
		_, bridge := a.startBridge(ctx)
		fmt.Fprintf(stderr, "Waiting for Firefox extension on port %d...\n", a.cfg.Port)
		return bridge
	}
	return firefox.Launcher{Profile: a.cfg.Profile}
}
