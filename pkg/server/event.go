package server

import (
	"context"

	"github.com/vango-dev/dvue/pkg/protocol"
)

// EventContext carries one client event through the middleware chain.
type EventContext struct {
	ctx context.Context

	// Session is the session the event arrived on.
	Session *Session

	// Event is the decoded client event.
	Event *protocol.Event

	// PatchCount is the number of patches the event produced. It is set
	// once dispatch returns.
	PatchCount int
}

// Context returns the event's context.
func (ec *EventContext) Context() context.Context {
	if ec.ctx == nil {
		return context.Background()
	}
	return ec.ctx
}

// SetContext replaces the event's context, e.g. with one carrying a span.
func (ec *EventContext) SetContext(ctx context.Context) {
	ec.ctx = ctx
}

// EventHandler handles a client event.
type EventHandler func(ec *EventContext) error

// EventMiddleware wraps an EventHandler.
type EventMiddleware func(next EventHandler) EventHandler

// chain applies mws so that mws[0] runs outermost.
func chain(h EventHandler, mws []EventMiddleware) EventHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}
