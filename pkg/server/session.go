package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/dvue"
	"github.com/vango-dev/dvue/pkg/dom"
	"github.com/vango-dev/dvue/pkg/protocol"
	"github.com/vango-dev/dvue/pkg/render"
)

// Session is one mounted instance mirrored to one browser tab.
type Session struct {
	// Identity
	ID        string
	CreatedAt time.Time

	lastActive atomic.Int64 // unix nanos

	// Instance
	vm       *dvue.Instance
	doc      *dom.Document
	renderer *render.Renderer
	unwatch  func()

	// Connection
	conn     *websocket.Conn
	mu       sync.Mutex // Protects conn writes
	attached atomic.Bool
	closed   atomic.Bool
	once     sync.Once

	sendSeq atomic.Uint64

	// pending holds patches recorded since the last flush.
	pending   []protocol.Patch
	pendingMu sync.Mutex

	// Channels
	events chan *protocol.Event
	done   chan struct{}

	dispatch EventHandler
	onClose  func(*Session)

	config *SessionConfig
	logger *slog.Logger

	// Metrics
	eventCount atomic.Uint64
	patchCount atomic.Uint64
	bytesSent  atomic.Uint64
	bytesRecv  atomic.Uint64
}

// generateSessionID generates a cryptographically random session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// newSession wraps a mounted instance. DOM writes made from now on are
// recorded as patches; writes made while mounting are part of the first
// render.
func newSession(vm *dvue.Instance, config *SessionConfig, logger *slog.Logger, mws []EventMiddleware) *Session {
	now := time.Now()
	s := &Session{
		ID:        generateSessionID(),
		CreatedAt: now,
		vm:        vm,
		doc:       vm.Document(),
		renderer:  render.NewRenderer(render.RendererConfig{}),
		events:    make(chan *protocol.Event, config.MaxEventQueue),
		done:      make(chan struct{}),
		config:    config,
	}
	s.logger = logger.With("session_id", s.ID)
	s.lastActive.Store(now.UnixNano())
	s.dispatch = chain(s.dispatchEvent, mws)
	s.unwatch = s.doc.OnMutation(s.record)
	return s
}

// Instance returns the session's view model.
func (s *Session) Instance() *dvue.Instance { return s.vm }

// Document returns the session's document.
func (s *Session) Document() *dom.Document { return s.doc }

// LastActive returns when the client last sent a message.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// IsAttached reports whether a client connection was attached.
func (s *Session) IsAttached() bool { return s.attached.Load() }

// IsClosed reports whether the session has been closed.
func (s *Session) IsClosed() bool { return s.closed.Load() }

// EventCount returns the number of events processed.
func (s *Session) EventCount() uint64 { return s.eventCount.Load() }

// PatchCount returns the number of patches sent.
func (s *Session) PatchCount() uint64 { return s.patchCount.Load() }

// touch records client activity.
func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// Attach binds the client connection and starts the session loops.
func (s *Session) Attach(conn *websocket.Conn) error {
	if err := s.claim(); err != nil {
		return err
	}
	s.attach(conn)
	return nil
}

// claim reserves the session for one connection.
func (s *Session) claim() error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	if !s.attached.CompareAndSwap(false, true) {
		return ErrSessionAttached
	}
	return nil
}

// attach starts serving conn on a claimed session.
func (s *Session) attach(conn *websocket.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	conn.SetReadLimit(s.config.MaxMessageSize)
	s.touch()
	s.Start()
	s.logger.Info("session attached")
}

// Start starts all session loops.
func (s *Session) Start() {
	go s.ReadLoop()
	go s.WriteLoop()
	go s.EventLoop()
}

// QueueEvent queues an event for the event loop.
func (s *Session) QueueEvent(ev *protocol.Event) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	select {
	case s.events <- ev:
		return nil
	default:
		return ErrEventQueueFull
	}
}

// record turns a DOM mutation into a pending patch. Writes to nodes the
// client cannot address, such as detached ones, are dropped.
func (s *Session) record(m dom.Mutation) {
	p, ok := s.patchFor(m)
	if !ok {
		return
	}
	s.pendingMu.Lock()
	s.pending = append(s.pending, p)
	s.pendingMu.Unlock()
}

func (s *Session) patchFor(m dom.Mutation) (protocol.Patch, bool) {
	target := m.Target

	if m.Op == dom.MutSetText && !target.IsElement() {
		parent := target.Parent()
		if parent == nil || !parent.IsElement() || !s.addressable(parent) {
			return protocol.Patch{}, false
		}
		for i, c := range parent.ChildNodes() {
			if c == target {
				return protocol.NewSetChildTextPatch(parent.HID(), i, m.Value), true
			}
		}
		return protocol.Patch{}, false
	}

	if !target.IsElement() || !s.addressable(target) {
		return protocol.Patch{}, false
	}

	hid := target.HID()
	switch m.Op {
	case dom.MutSetText:
		return protocol.NewSetTextPatch(hid, m.Value), true
	case dom.MutSetAttr:
		return protocol.NewSetAttrPatch(hid, m.Key, m.Value), true
	case dom.MutRemoveAttr:
		return protocol.NewRemoveAttrPatch(hid, m.Key), true
	case dom.MutSetValue:
		return protocol.NewSetValuePatch(hid, m.Value), true
	case dom.MutSetHTML:
		html, err := s.renderer.InnerHTML(target)
		if err != nil {
			s.logger.Error("render inner html", "hid", hid, "error", err)
			return protocol.Patch{}, false
		}
		return protocol.NewSetHTMLPatch(hid, html), true
	}
	return protocol.Patch{}, false
}

// addressable reports whether n is attached to the session's document.
func (s *Session) addressable(n *dom.Node) bool {
	return s.doc.NodeByHID(n.HID()) == n
}

// takePending removes and returns the pending patches.
func (s *Session) takePending() []protocol.Patch {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	patches := s.pending
	s.pending = nil
	return patches
}

// flush sends the pending patches as one frame and returns how many
// were sent.
func (s *Session) flush() int {
	patches := s.takePending()
	if len(patches) == 0 {
		return 0
	}
	s.SendPatches(patches)
	return len(patches)
}

// Close closes the session. It is safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.done)
		s.unwatch()

		s.mu.Lock()
		if s.conn != nil {
			s.conn.Close()
		}
		s.mu.Unlock()

		s.logger.Info("session closed",
			"events", s.eventCount.Load(),
			"patches", s.patchCount.Load())

		if s.onClose != nil {
			s.onClose(s)
		}
	})
}
