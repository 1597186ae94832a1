package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/dvue"
	"github.com/vango-dev/dvue/pkg/render"
)

// Route paths served by the Server.
const (
	PagePath      = "/"
	WebSocketPath = "/ws"
	ClientPath    = render.DefaultClientScript
	HealthPath    = "/healthz"
)

// MountFunc builds a fresh instance for a new page view. Each call must
// return an instance with its own document.
type MountFunc func() (*dvue.Instance, error)

// Server serves mounted instances to browsers and mirrors their DOM over
// WebSocket.
type Server struct {
	config   *ServerConfig
	mount    MountFunc
	sessions *SessionManager
	upgrader websocket.Upgrader
	router   chi.Router

	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Server. A nil config uses DefaultServerConfig.
func New(config *ServerConfig, mount MountFunc) *Server {
	return NewWithLogger(config, mount, slog.Default())
}

// NewWithLogger creates a Server that logs to logger.
func NewWithLogger(config *ServerConfig, mount MountFunc, logger *slog.Logger) *Server {
	config = config.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: config,
		mount:  mount,
		logger: logger.With("component", "server"),
	}

	s.sessions = NewSessionManager(config.SessionConfig, config.MaxSessions, config.CleanupInterval, logger)
	s.sessions.SetOnSessionCreate(config.OnSessionStart)
	s.sessions.SetOnSessionClose(config.OnSessionClose)

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     config.CheckOrigin,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get(PagePath, s.handlePage)
	r.Get(WebSocketPath, s.HandleWebSocket)
	r.Get(ClientPath, s.serveThinClient)
	r.Head(ClientPath, s.serveThinClient)
	r.Get(HealthPath, s.handleHealth)
	if config.Static != nil {
		r.Handle(staticPrefix(config.Static.Prefix)+"*", NewStaticHandler(*config.Static))
	}
	s.router = r

	return s
}

// Router returns the chi router so callers can mount extra routes, such
// as a metrics endpoint.
func (s *Server) Router() chi.Router { return s.router }

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager { return s.sessions }

// Config returns the effective configuration.
func (s *Server) Config() *ServerConfig { return s.config }

// handlePage mounts a new instance, registers it as a pending session and
// renders the page that will connect to it.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	vm, err := s.mount()
	if err != nil {
		s.logger.Error("mount failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if vm == nil || vm.Document() == nil {
		s.logger.Error("mount returned no document", "request_id", middleware.GetReqID(r.Context()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sess := newSession(vm, s.config.SessionConfig, s.logger, s.config.Middleware)
	if err := s.sessions.Add(sess); err != nil {
		sess.Close()
		if errors.Is(err, ErrMaxSessionsReached) {
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	renderer := render.NewRenderer(render.RendererConfig{})
	if err := renderer.RenderPage(&buf, render.PageData{
		Doc:       vm.Document(),
		SessionID: sess.ID,
	}); err != nil {
		s.logger.Error("render failed", "error", err, "session_id", sess.ID)
		sess.Close()
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleWebSocket attaches a browser connection to the session named by
// the "session" query parameter.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	sess := s.sessions.Get(id)
	if sess == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	// Claim before upgrading so a racing second connection gets a plain
	// HTTP error.
	if err := sess.claim(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied.
		s.logger.Warn("websocket upgrade failed", "error", err, "session_id", id)
		sess.Close()
		return
	}
	sess.attach(conn)
}

// handleHealth reports liveness and session counts.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Status   string       `json:"status"`
		Sessions ManagerStats `json:"sessions"`
	}{"ok", s.sessions.Stats()})
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session, then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.sessions.Shutdown()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
