package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lotas/tabstash/internal/applog"
	"github.com/lotas/tabstash/internal/types"
)

// Default wait limits for Bridge calls.
const (
	DefaultWaitTimeout  = 10 * time.Second
	DefaultReplyTimeout = 30 * time.Second
)

// Bridge reads open tabs from the extension and asks it to open URLs.
// The extension pushes a "snapshot" message when it connects and whenever
// its tabs change. Calls are serialized.
type Bridge struct {
	srv *Server

	// WaitTimeout bounds waiting for the extension's first snapshot.
	WaitTimeout time.Duration
	// ReplyTimeout bounds waiting for a command response.
	ReplyTimeout time.Duration

	mu     sync.Mutex
	seq    int
	latest []types.OpenTab
	from   uint64 // session that pushed latest
	have   bool
}

// NewBridge returns a Bridge reading srv's messages. The Bridge must be the
// only consumer of srv.Messages.
func NewBridge(srv *Server) *Bridge {
	return &Bridge{
		srv:          srv,
		WaitTimeout:  DefaultWaitTimeout,
		ReplyTimeout: DefaultReplyTimeout,
	}
}

// ListOpenTabs returns the most recent snapshot pushed by the connected
// extension, waiting for one if none has arrived on this connection yet.
// Tabs from a connection that has gone away are never served.
func (b *Bridge) ListOpenTabs(ctx context.Context) ([]types.OpenTab, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.drain()
	if !b.current() {
		b.latest, b.have = nil, false
		ctx, cancel := withTimeout(ctx, b.WaitTimeout)
		defer cancel()
		if _, err := b.await(ctx, func(IncomingMsg) bool { return b.current() }); err != nil {
			return nil, fmt.Errorf("wait for tabs: %w", err)
		}
	}
	return append([]types.OpenTab(nil), b.latest...), nil
}

// current reports whether latest came from the connection attached now.
func (b *Bridge) current() bool {
	session, ok := b.srv.Session()
	return ok && b.have && b.from == session
}

// OpenURLs asks the extension to open urls in a new window and waits for
// its confirmation.
func (b *Bridge) OpenURLs(ctx context.Context, urls []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.srv.Connected() {
		wctx, cancel := withTimeout(ctx, b.WaitTimeout)
		_, err := b.await(wctx, isSnapshot)
		cancel()
		if err != nil {
			return fmt.Errorf("wait for extension: %w", err)
		}
	}

	b.seq++
	id := fmt.Sprintf("open-%d", b.seq)
	tabs := make([]TabToOpen, 0, len(urls))
	for _, u := range urls {
		tabs = append(tabs, TabToOpen{URL: u})
	}
	if err := b.srv.Send(ctx, OutgoingMsg{ID: id, Action: "open", Tabs: tabs}); err != nil {
		return fmt.Errorf("send open: %w", err)
	}

	rctx, cancel := withTimeout(ctx, b.ReplyTimeout)
	defer cancel()
	resp, err := b.await(rctx, func(m IncomingMsg) bool { return m.ID == id })
	if err != nil {
		return fmt.Errorf("wait for open confirmation: %w", err)
	}
	if resp.OK != nil && !*resp.OK {
		return fmt.Errorf("open tabs failed: %s", resp.Error)
	}
	applog.Info("bridge.open", "id", id, "urls", len(urls))
	return nil
}

func isSnapshot(m IncomingMsg) bool { return m.Type == "snapshot" }

// drain consumes already queued messages without blocking.
func (b *Bridge) drain() {
	for {
		select {
		case msg, ok := <-b.srv.Messages():
			if !ok {
				return
			}
			b.observe(msg)
		default:
			return
		}
	}
}

// await consumes messages until match accepts one or ctx ends.
func (b *Bridge) await(ctx context.Context, match func(IncomingMsg) bool) (IncomingMsg, error) {
	for {
		select {
		case msg, ok := <-b.srv.Messages():
			if !ok {
				return IncomingMsg{}, ErrNotConnected
			}
			b.observe(msg)
			if match(msg) {
				return msg, nil
			}
		case <-ctx.Done():
			if !b.srv.Connected() {
				return IncomingMsg{}, fmt.Errorf("%w: %w", ErrNotConnected, ctx.Err())
			}
			return IncomingMsg{}, ctx.Err()
		}
	}
}

func (b *Bridge) observe(msg IncomingMsg) {
	if !isSnapshot(msg) {
		return
	}
	tabs, err := ParseSnapshot(msg)
	if err != nil {
		applog.Error("bridge.snapshot", err)
		return
	}
	b.latest = tabs
	b.from = msg.session
	b.have = true
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
