package firefox

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"

	"github.com/lotas/tabstash/internal/applog"
	"github.com/lotas/tabstash/internal/types"
)

// mozlz4 header: 8-byte magic "mozLz40\x00"
var mozLz4Magic = []byte("mozLz40\x00")

// DecompressMozLz4 decompresses data in Mozilla's mozlz4 format.
// The format is: 8-byte magic "mozLz40\x00" + 4-byte LE uint32 uncompressed size + lz4 block data.
func DecompressMozLz4(data []byte) ([]byte, error) {
	const headerSize = 12 // 8 magic + 4 size

	if len(data) < headerSize {
		return nil, fmt.Errorf("mozlz4: data too short (%d bytes)", len(data))
	}

	if !bytes.Equal(data[:len(mozLz4Magic)], mozLz4Magic) {
		return nil, fmt.Errorf("mozlz4: invalid header magic")
	}

	// Read uncompressed size (4-byte little-endian uint32).
	uncompressedSize := binary.LittleEndian.Uint32(data[8:12])

	// Decompress using raw lz4 block decompression.
	dst := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(data[headerSize:], dst)
	if err != nil {
		return nil, fmt.Errorf("mozlz4: decompress failed: %w", err)
	}

	return dst[:n], nil
}

// Raw JSON types for Firefox session file parsing.
type rawEntry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type rawTab struct {
	Entries []rawEntry `json:"entries"`
	Index   int        `json:"index"`
	Image   string     `json:"image"`
	Pinned  bool       `json:"pinned"`
}

type rawWindow struct {
	Tabs []rawTab `json:"tabs"`
}

type rawSession struct {
	Windows []rawWindow `json:"windows"`
}

// ParseSession parses raw JSON session data into the open tabs of every
// window, in window then tab order. Tabs without history entries are skipped.
func ParseSession(data []byte) ([]types.OpenTab, error) {
	var raw rawSession
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse session JSON: %w", err)
	}

	var tabs []types.OpenTab
	for winIdx, window := range raw.Windows {
		for _, rt := range window.Tabs {
			if len(rt.Entries) == 0 {
				continue
			}

			// index is 1-based; current page is entries[index-1].
			entryIdx := rt.Index - 1
			if entryIdx < 0 || entryIdx >= len(rt.Entries) {
				entryIdx = len(rt.Entries) - 1
			}
			entry := rt.Entries[entryIdx]

			tabs = append(tabs, types.OpenTab{
				WindowIndex: winIdx,
				Tab: types.Tab{
					Title:      entry.Title,
					URL:        entry.URL,
					FavIconURL: rt.Image,
					Pinned:     rt.Pinned,
				},
			})
		}
	}
	return tabs, nil
}

// sessionFiles are tried in order: the running session, then the last
// closed one.
var sessionFiles = []string{"recovery.jsonlz4", "previous.jsonlz4"}

// ReadSessionFile reads and parses a Firefox session recovery file from the given profile directory.
func ReadSessionFile(profileDir string) ([]types.OpenTab, error) {
	backupDir := filepath.Join(profileDir, "sessionstore-backups")
	var data []byte
	var err error
	for _, name := range sessionFiles {
		data, err = os.ReadFile(filepath.Join(backupDir, name))
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("no session file found in %s", backupDir)
	}

	decompressed, err := DecompressMozLz4(data)
	if err != nil {
		return nil, fmt.Errorf("decompress session file: %w", err)
	}

	return ParseSession(decompressed)
}

// SessionSource reads open tabs from a profile's session file, so tabs can
// be captured while the extension is not running.
type SessionSource struct {
	ProfileDir string
}

// ListOpenTabs returns the tabs recorded in the session file.
func (s SessionSource) ListOpenTabs(ctx context.Context) ([]types.OpenTab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tabs, err := ReadSessionFile(s.ProfileDir)
	if err != nil {
		return nil, err
	}
	applog.Info("firefox.session", "profile", s.ProfileDir, "tabs", len(tabs))
	return tabs, nil
}
