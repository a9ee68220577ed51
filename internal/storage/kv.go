package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
	"github.com/pierrec/lz4/v4"

	"github.com/lotas/tabstash/internal/applog"
	"github.com/lotas/tabstash/internal/types"
)

// snapshotsKey is the single key holding the whole collection.
const snapshotsKey = "snapshots"

// KVStore keeps the snapshot collection as one lz4-compressed JSON value
// in a diskv directory.
type KVStore struct {
	d *diskv.Diskv
}

// NewKVStore opens a key-value store rooted at dir.
func NewKVStore(dir string) (*KVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	return &KVStore{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 1024 * 1024, // 1MB
		Compression:  lz4Compression{},
	})}, nil
}

// DefaultKVDir returns the default key-value directory:
// ~/.local/share/tabstash/kv
func DefaultKVDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "tabstash", "kv"), nil
}

// Load returns every snapshot in collection order. A missing value means an
// empty collection.
func (s *KVStore) Load(ctx context.Context) ([]types.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.d.Has(snapshotsKey) {
		return nil, nil
	}
	val, err := s.d.Read(snapshotsKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", snapshotsKey, err)
	}
	var snaps []types.Snapshot
	if err := json.Unmarshal(val, &snaps); err != nil {
		return nil, fmt.Errorf("decode %s: %w", snapshotsKey, err)
	}
	return snaps, nil
}

// Save replaces the stored collection with snaps.
func (s *KVStore) Save(ctx context.Context, snaps []types.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snaps == nil {
		snaps = []types.Snapshot{}
	}
	val, err := json.Marshal(snaps)
	if err != nil {
		return fmt.Errorf("encode %s: %w", snapshotsKey, err)
	}
	if err := s.d.Write(snapshotsKey, val); err != nil {
		return fmt.Errorf("write %s: %w", snapshotsKey, err)
	}
	applog.Info("store.save", "backend", "kv", "snapshots", len(snaps), "bytes", len(val))
	return nil
}

// lz4Compression adapts lz4 frame streams to diskv.Compression.
type lz4Compression struct{}

func (lz4Compression) Writer(dst io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(dst), nil
}

func (lz4Compression) Reader(src io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(src)), nil
}
