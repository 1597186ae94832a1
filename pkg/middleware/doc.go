// Package middleware provides event middleware for dvue servers.
//
// # Prometheus Metrics
//
// Metrics counts and times every client event and tracks the session
// lifecycle:
//   - dvue_events_total: events by type and status
//   - dvue_event_duration_seconds: event handling duration by type
//   - dvue_event_errors_total: failed events by error category
//   - dvue_patches_sent_total: patches produced by events
//   - dvue_active_sessions: live sessions
//   - dvue_sessions_total: sessions created
//
// Wire it into a server like this:
//
//	m := middleware.NewMetrics(middleware.WithNamespace("myapp"))
//	srv := server.New(&server.ServerConfig{
//	    Middleware:     []server.EventMiddleware{m.Middleware()},
//	    OnSessionStart: m.SessionStarted,
//	    OnSessionClose: m.SessionClosed,
//	}, mount)
//	srv.Router().Handle("/metrics", m.Handler())
//
// # OpenTelemetry
//
// OpenTelemetry starts a span per event on the global tracer provider
// and hands the span's context to the rest of the chain.
//
//	middleware.OpenTelemetry(middleware.WithTracerName("my-app"))
package middleware
