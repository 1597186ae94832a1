package server

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/dvue/pkg/protocol"
)

// SessionManager tracks live sessions by ID.
// It enforces the session limit and discards pages that never connect.
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex

	config      *SessionConfig
	maxSessions int

	cleanupInterval time.Duration
	done            chan struct{}
	cleanupDone     chan struct{}
	shutdownOnce    sync.Once

	// Metrics
	totalCreated atomic.Uint64
	totalClosed  atomic.Uint64
	peakSessions int

	// Callbacks
	onSessionCreate func(*Session)
	onSessionClose  func(*Session)

	logger *slog.Logger
}

// ManagerStats is a snapshot of session counts.
type ManagerStats struct {
	Active       int    `json:"active"`
	Pending      int    `json:"pending"`
	Peak         int    `json:"peak"`
	TotalCreated uint64 `json:"total_created"`
	TotalClosed  uint64 `json:"total_closed"`
}

// NewSessionManager creates a SessionManager and starts its cleanup loop.
// maxSessions of 0 means no limit.
func NewSessionManager(config *SessionConfig, maxSessions int, cleanupInterval time.Duration, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Second
	}
	sm := &SessionManager{
		sessions:        make(map[string]*Session),
		config:          config.withDefaults(),
		maxSessions:     maxSessions,
		cleanupInterval: cleanupInterval,
		done:            make(chan struct{}),
		cleanupDone:     make(chan struct{}),
		logger:          logger.With("component", "session_manager"),
	}
	go sm.cleanupLoop()
	return sm
}

// SetOnSessionCreate sets the callback run after a session is added.
func (sm *SessionManager) SetOnSessionCreate(fn func(*Session)) {
	sm.onSessionCreate = fn
}

// SetOnSessionClose sets the callback run after a session is closed.
func (sm *SessionManager) SetOnSessionClose(fn func(*Session)) {
	sm.onSessionClose = fn
}

// Add registers s. The session removes itself when closed.
func (sm *SessionManager) Add(s *Session) error {
	sm.mu.Lock()
	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		sm.mu.Unlock()
		return ErrMaxSessionsReached
	}
	sm.sessions[s.ID] = s
	if n := len(sm.sessions); n > sm.peakSessions {
		sm.peakSessions = n
	}
	sm.mu.Unlock()

	s.onClose = sm.closed
	sm.totalCreated.Add(1)

	sm.logger.Debug("session created",
		"session_id", s.ID,
		"active_sessions", sm.Count())

	if sm.onSessionCreate != nil {
		sm.onSessionCreate(s)
	}
	return nil
}

// closed is the session's close hook.
func (sm *SessionManager) closed(s *Session) {
	sm.mu.Lock()
	delete(sm.sessions, s.ID)
	sm.mu.Unlock()

	sm.totalClosed.Add(1)
	if sm.onSessionClose != nil {
		sm.onSessionClose(s)
	}
}

// Get returns the session with id, or nil.
func (sm *SessionManager) Get(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// Close closes the session with id if it exists.
func (sm *SessionManager) Close(id string) {
	if s := sm.Get(id); s != nil {
		s.Close()
	}
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ForEach calls fn for each session until fn returns false.
func (sm *SessionManager) ForEach(fn func(*Session) bool) {
	sm.mu.RLock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	for _, s := range sessions {
		if !fn(s) {
			return
		}
	}
}

// Stats returns aggregated session statistics.
func (sm *SessionManager) Stats() ManagerStats {
	sm.mu.RLock()
	stats := ManagerStats{
		Active: len(sm.sessions),
		Peak:   sm.peakSessions,
	}
	for _, s := range sm.sessions {
		if !s.IsAttached() {
			stats.Pending++
		}
	}
	sm.mu.RUnlock()

	stats.TotalCreated = sm.totalCreated.Load()
	stats.TotalClosed = sm.totalClosed.Load()
	return stats
}

// cleanupLoop periodically removes pages that never connected.
func (sm *SessionManager) cleanupLoop() {
	defer close(sm.cleanupDone)

	ticker := time.NewTicker(sm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			sm.cleanupExpired(now)
		case <-sm.done:
			return
		}
	}
}

// cleanupExpired closes sessions that were not attached within
// ConnectTimeout of now. It returns how many were closed.
func (sm *SessionManager) cleanupExpired(now time.Time) int {
	var expired []*Session
	sm.ForEach(func(s *Session) bool {
		if !s.IsAttached() && now.Sub(s.CreatedAt) > sm.config.ConnectTimeout {
			expired = append(expired, s)
		}
		return true
	})

	for _, s := range expired {
		s.Close()
	}

	if len(expired) > 0 {
		sm.logger.Info("cleaned up unconnected sessions",
			"count", len(expired),
			"remaining", sm.Count())
	}
	return len(expired)
}

// Shutdown stops the cleanup loop and closes every session.
func (sm *SessionManager) Shutdown() {
	sm.shutdownOnce.Do(func() {
		close(sm.done)
		<-sm.cleanupDone

		sm.mu.RLock()
		sessions := make([]*Session, 0, len(sm.sessions))
		for _, s := range sm.sessions {
			sessions = append(sessions, s)
		}
		sm.mu.RUnlock()

		var wg sync.WaitGroup
		for _, s := range sessions {
			wg.Add(1)
			go func(s *Session) {
				defer wg.Done()
				s.sendFrame(protocol.NewCloseFrame("server shutdown"))
				s.Close()
			}(s)
		}
		wg.Wait()

		sm.logger.Info("session manager shutdown", "closed_sessions", len(sessions))
	})
}
