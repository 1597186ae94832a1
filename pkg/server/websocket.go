package server

import (
	"errors"
	"runtime/debug"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/dvue/pkg/dom"
	"github.com/vango-dev/dvue/pkg/protocol"
)

// ReadLoop continuously reads messages from the WebSocket connection.
// It decodes frames, answers control messages, and queues events.
// This method blocks until the connection is closed or an error occurs.
func (s *Session) ReadLoop() {
	defer s.Close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		s.touch()
		s.bytesRecv.Add(uint64(len(msg)))

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Warn("frame decode error", "error", err)
			s.sendError(protocol.ErrInvalidFrame, "invalid frame", false)
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			if err := s.QueueEvent(frame.Event); err != nil {
				s.logger.Warn("event dropped", "hid", frame.Event.HID, "type", frame.Event.Type, "error", err)
				s.sendError(protocol.ErrRateLimited, "event queue full", false)
			}

		case protocol.FrameControl:
			s.handleControl(frame.Control)

		default:
			s.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

// handleControl handles ping, pong and close.
func (s *Session) handleControl(c *protocol.Control) {
	switch c.Type {
	case protocol.ControlPing:
		s.sendFrame(protocol.NewControlFrame(protocol.ControlPong))
	case protocol.ControlPong:
		s.logger.Debug("received pong")
	case protocol.ControlClose:
		s.logger.Info("client closing", "reason", c.Reason)
		s.Close()
	}
}

// WriteLoop sends heartbeat pings until the session is closed.
func (s *Session) WriteLoop() {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.sendFrame(protocol.NewControlFrame(protocol.ControlPing)); err != nil {
				s.Close()
				return
			}

		case <-s.done:
			return
		}
	}
}

// EventLoop dispatches queued events one at a time.
func (s *Session) EventLoop() {
	for {
		select {
		case ev := <-s.events:
			s.handleEvent(ev)

		case <-s.done:
			return
		}
	}
}

// handleEvent runs the middleware chain for ev and reports failures to
// the client.
func (s *Session) handleEvent(ev *protocol.Event) {
	s.eventCount.Add(1)

	ec := &EventContext{Session: s, Event: ev}
	err := s.dispatch(ec)
	if err == nil {
		return
	}

	var handlerErr *HandlerError
	switch {
	case errors.Is(err, ErrNodeNotFound):
		s.logger.Warn("event target not found", "hid", ev.HID, "type", ev.Type)
		s.sendError(protocol.ErrHandlerNotFound, "unknown event target", false)
	case errors.As(err, &handlerErr):
		s.logger.Error("handler panic",
			"hid", ev.HID,
			"type", ev.Type,
			"panic", handlerErr.Panic,
			"stack", string(handlerErr.Stack))
		s.sendError(protocol.ErrHandlerPanic, "event handler failed", false)
	default:
		s.logger.Error("event failed", "hid", ev.HID, "type", ev.Type, "error", err)
		s.sendError(protocol.ErrServerError, "event failed", false)
	}
}

// dispatchEvent is the innermost EventHandler: it replays the event on
// the in-memory DOM and flushes the patches that produced.
func (s *Session) dispatchEvent(ec *EventContext) error {
	ev := ec.Event
	node := s.doc.NodeByHID(ev.HID)
	if node == nil {
		return NewSessionError(s.ID, "dispatch", ErrNodeNotFound)
	}

	// The browser already shows this value; don't echo it back.
	if ev.Value != nil {
		node.SyncValue(*ev.Value)
	}

	err := s.safeExecute(ev, func() {
		node.DispatchEvent(dom.NewEvent(ev.Type))
	})

	// Patches recorded before a panic still reflect DOM state.
	ec.PatchCount = s.flush()
	return err
}

// safeExecute runs fn, converting a panic into a HandlerError.
func (s *Session) safeExecute(ev *protocol.Event, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerError{
				SessionID: s.ID,
				HID:       ev.HID,
				EventType: ev.Type,
				Panic:     r,
				Stack:     debug.Stack(),
			}
		}
	}()
	fn()
	return nil
}

// SendPatches sends patches as the next sequenced frame.
func (s *Session) SendPatches(patches []protocol.Patch) {
	seq := s.sendSeq.Add(1)
	if err := s.sendFrame(protocol.NewPatchesFrame(seq, patches)); err != nil {
		s.logger.Error("write error", "error", err)
		s.Close()
		return
	}
	s.patchCount.Add(uint64(len(patches)))
}

// sendError sends an error frame to the client.
func (s *Session) sendError(code protocol.ErrorCode, message string, fatal bool) {
	if err := s.sendFrame(protocol.NewErrorFrame(code, message, fatal)); err != nil {
		s.logger.Debug("error frame not sent", "error", err)
	}
}

// sendFrame encodes and writes one frame.
func (s *Session) sendFrame(f *protocol.Frame) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() || s.conn == nil {
		return ErrSessionClosed
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	s.bytesSent.Add(uint64(len(data)))
	return nil
}
