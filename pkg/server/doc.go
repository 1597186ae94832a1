// Package server mirrors dvue instances into browsers.
//
// Each page load mounts a fresh instance and renders its document with
// hydration IDs. The thin client then opens a WebSocket for that session;
// from then on client events are dispatched into the in-memory DOM and
// every DOM write the instance makes is streamed back as a patch.
//
// # Architecture
//
//   - Server: chi router serving the page, the WebSocket endpoint, the
//     thin client script and a health check
//   - SessionManager: tracks sessions and expires ones whose client
//     never connected
//   - Session: one instance plus its connection
//
// The session runs three goroutines:
//   - ReadLoop: Receives WebSocket frames, decodes events, queues them
//   - EventLoop: Dispatches events into the DOM and flushes patches
//   - WriteLoop: Sends heartbeat pings
//
// All work on a session's instance happens on its EventLoop goroutine,
// so reactive updates for one session never interleave.
//
// # Event Middleware
//
// EventMiddleware wraps event dispatch. The middleware package provides
// Prometheus metrics and OpenTelemetry tracing implementations.
package server
