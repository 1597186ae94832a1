package server

import (
	"errors"
	"testing"
	"time"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	vm, err := counterMount()
	if err != nil {
		t.Fatal(err)
	}
	return newSession(vm, DefaultSessionConfig(), testLogger(), nil)
}

func TestManagerAddGetClose(t *testing.T) {
	sm := NewSessionManager(nil, 0, time.Hour, testLogger())
	defer sm.Shutdown()

	var created, closed int
	sm.SetOnSessionCreate(func(*Session) { created++ })
	sm.SetOnSessionClose(func(*Session) { closed++ })

	s := newTestSession(t)
	if err := sm.Add(s); err != nil {
		t.Fatal(err)
	}
	if sm.Get(s.ID) != s || sm.Count() != 1 {
		t.Fatal("session not registered")
	}

	sm.Close(s.ID)
	if sm.Get(s.ID) != nil {
		t.Error("closed session still registered")
	}

	stats := sm.Stats()
	if stats.TotalCreated != 1 || stats.TotalClosed != 1 || stats.Peak != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if created != 1 || closed != 1 {
		t.Errorf("callbacks = %d/%d, want 1/1", created, closed)
	}
}

func TestManagerLimit(t *testing.T) {
	sm := NewSessionManager(nil, 1, time.Hour, testLogger())
	defer sm.Shutdown()

	if err := sm.Add(newTestSession(t)); err != nil {
		t.Fatal(err)
	}
	if err := sm.Add(newTestSession(t)); !errors.Is(err, ErrMaxSessionsReached) {
		t.Errorf("err = %v, want ErrMaxSessionsReached", err)
	}
}

func TestManagerExpiresUnconnected(t *testing.T) {
	sm := NewSessionManager(&SessionConfig{ConnectTimeout: time.Minute}, 0, time.Hour, testLogger())
	defer sm.Shutdown()

	s := newTestSession(t)
	if err := sm.Add(s); err != nil {
		t.Fatal(err)
	}

	if n := sm.cleanupExpired(s.CreatedAt.Add(30 * time.Second)); n != 0 {
		t.Errorf("expired %d sessions early", n)
	}
	if n := sm.cleanupExpired(s.CreatedAt.Add(2 * time.Minute)); n != 1 {
		t.Errorf("expired %d sessions, want 1", n)
	}
	if !s.IsClosed() || sm.Count() != 0 {
		t.Error("expired session should be closed and removed")
	}
}

func TestManagerShutdownClosesAll(t *testing.T) {
	sm := NewSessionManager(nil, 0, time.Hour, testLogger())
	a, b := newTestSession(t), newTestSession(t)
	sm.Add(a)
	sm.Add(b)

	sm.Shutdown()
	sm.Shutdown()

	if !a.IsClosed() || !b.IsClosed() || sm.Count() != 0 {
		t.Error("shutdown should close every session")
	}
}
