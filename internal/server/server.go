package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/lotas/tabstash/internal/applog"
)

// ErrNotConnected is returned when no extension is connected.
var ErrNotConnected = errors.New("browser extension not connected")

// IncomingMsg is a message from the extension.
type IncomingMsg struct {
	Type string          `json:"type"`
	Tabs json.RawMessage `json:"tabs,omitempty"`
	// Command response fields
	ID    string `json:"id,omitempty"`
	OK    *bool  `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`

	session uint64 // connection the message arrived on
}

// TabToOpen specifies a tab to create in the browser.
type TabToOpen struct {
	URL    string `json:"url"`
	Pinned bool   `json:"pinned,omitempty"`
}

// OutgoingMsg is a command to the extension.
type OutgoingMsg struct {
	ID     string      `json:"id"`
	Action string      `json:"action"`
	Tabs   []TabToOpen `json:"tabs,omitempty"`
}

// writeTimeout bounds a single command write to the extension.
const writeTimeout = 5 * time.Second

// Server accepts the extension's websocket and fans its messages into a
// buffered channel. Only the most recent connection is kept.
type Server struct {
	port int
	msgs chan IncomingMsg

	mu      sync.Mutex
	conn    *websocket.Conn
	session uint64 // bumped on every accepted connection
}

// New creates a Server for port. Port 0 means the caller serves Handler.
func New(port int) *Server {
	return &Server{
		port: port,
		msgs: make(chan IncomingMsg, 64),
	}
}

// Messages returns the channel of incoming messages from the extension.
func (s *Server) Messages() <-chan IncomingMsg {
	return s.msgs
}

// Connected reports whether an extension is connected.
func (s *Server) Connected() bool {
	_, ok := s.Session()
	return ok
}

// Session returns the number of the active connection and whether one is
// attached. Every new connection gets a higher number.
func (s *Server) Session() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, s.conn != nil
}

// Send writes a command to the connected extension.
func (s *Server) Send(ctx context.Context, msg OutgoingMsg) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", msg.Action, err)
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("write %s: %w", msg.Action, err)
	}
	applog.Info("ws.send", "action", msg.Action, "id", msg.ID)
	return nil
}

// attach makes conn the active connection, closing any previous one, and
// returns its session number.
func (s *Server) attach(conn *websocket.Conn) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		applog.Info("ws.replaced")
		s.conn.CloseNow()
	}
	s.conn = conn
	s.session++
	return s.session
}

// detach forgets conn unless a newer connection already replaced it.
func (s *Server) detach(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	conn.CloseNow()
}

// Handler returns an http.Handler that accepts websocket upgrades.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extension pages connect with a moz-extension:// origin.
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			applog.Error("ws.accept", err)
			return
		}
		conn.SetReadLimit(16 << 20) // windows with many tabs get large

		session := s.attach(conn)
		applog.Info("ws.connected", "remote", r.RemoteAddr, "session", session)
		defer func() {
			s.detach(conn)
			applog.Info("ws.disconnected", "remote", r.RemoteAddr)
		}()

		s.readLoop(r.Context(), conn, session)
	})
}

// readLoop decodes messages until the connection fails. Messages that do
// not fit in the channel are dropped.
func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn, session uint64) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var msg IncomingMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			applog.Error("ws.parse", err)
			continue
		}
		msg.session = session
		applog.Debug("ws.recv", "type", msg.Type, "id", msg.ID)
		select {
		case s.msgs <- msg:
		default:
			applog.Info("ws.dropped", "type", msg.Type)
		}
	}
}

// ListenAndServe serves the websocket on 127.0.0.1 until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/", s.Handler())

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	applog.Info("server.start", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("listen on %s: %w", addr, err)
}
