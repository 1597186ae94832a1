package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/vango-dev/dvue/pkg/protocol"
	"github.com/vango-dev/dvue/pkg/server"
)

func newEvent(typ string) *server.EventContext {
	return &server.EventContext{Event: &protocol.Event{HID: "h1", Type: typ}}
}

func handlerReturning(err error, patches int) server.EventHandler {
	return func(ec *server.EventContext) error {
		ec.PatchCount = patches
		return err
	}
}

func TestMetricsCountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	mw := m.Middleware()

	if err := mw(handlerReturning(nil, 2))(newEvent("click")); err != nil {
		t.Fatal(err)
	}
	if err := mw(handlerReturning(nil, 1))(newEvent("click")); err != nil {
		t.Fatal(err)
	}
	wantErr := fmt.Errorf("dispatch: %w", server.ErrNodeNotFound)
	if err := mw(handlerReturning(wantErr, 0))(newEvent("input")); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}

	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues("click", "success")); got != 2 {
		t.Errorf("click successes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.eventsTotal.WithLabelValues("input", "error")); got != 1 {
		t.Errorf("input errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.eventErrors.WithLabelValues("not_found")); got != 1 {
		t.Errorf("not_found errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.patchesSent); got != 3 {
		t.Errorf("patches = %v, want 3", got)
	}
	if n := testutil.CollectAndCount(m.eventDuration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
}

func TestMetricsSessions(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	m.SessionStarted(nil)
	m.SessionStarted(nil)
	m.SessionClosed(nil)

	if got := testutil.ToFloat64(m.activeSessions); got != 1 {
		t.Errorf("active = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.sessionsTotal); got != 2 {
		t.Errorf("total = %v, want 2", got)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()), WithNamespace("app"))
	m.SessionStarted(nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "app_active_sessions 1") {
		t.Errorf("body missing gauge:\n%s", rec.Body.String())
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{server.ErrNodeNotFound, "not_found"},
		{&server.HandlerError{Panic: "x"}, "panic"},
		{server.ErrSessionClosed, "closed"},
		{errors.New("other"), "internal"},
	}
	for _, tt := range tests {
		if got := categorizeError(tt.err); got != tt.want {
			t.Errorf("categorizeError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
