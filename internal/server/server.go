// ABOUTME: HTTP server wiring the access gate, registry, transformer and dispatcher
// ABOUTME: Owns route registration, startup and graceful shutdown

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ultradns/ultradns-push-notifier/internal/authgate"
	"github.com/ultradns/ultradns-push-notifier/internal/config"
	"github.com/ultradns/ultradns-push-notifier/internal/dispatch"
	"github.com/ultradns/ultradns-push-notifier/internal/registry"
	"github.com/ultradns/ultradns-push-notifier/internal/store"
)

// Server is the push-notifier HTTP service.
type Server struct {
	cfg      *config.Config
	store    store.Store
	registry *registry.Service
	sender   dispatch.Sender
	gate     *authgate.Gate
	sessions *authgate.SessionManager
	logger   *slog.Logger

	httpServer *http.Server
}

// New assembles the server from its collaborators.
func New(cfg *config.Config, st store.Store, reg *registry.Service, sender dispatch.Sender, gate *authgate.Gate, sessions *authgate.SessionManager) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		registry: reg,
		sender:   sender,
		gate:     gate,
		sessions: sessions,
		logger:   slog.Default().With("component", "server"),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// registerRoutes attaches all API routes to the mux. Internal routes are
// wrapped by the shared-secret check, platform callbacks by the IP filter.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Bootstrap and health - no auth required
	mux.HandleFunc("GET /init", s.handleInit)
	mux.HandleFunc("GET /gui-status", s.handleGUIStatus)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Internal routes - frontend only
	mux.HandleFunc("GET /status", s.gate.RequireInternal(s.handleStatus))
	mux.HandleFunc("POST /login", s.gate.RequireInternal(s.handleLogin))
	mux.HandleFunc("POST /logout", s.gate.RequireInternal(s.handleLogout))
	mux.HandleFunc("GET /setup", s.gate.RequireInternal(s.handleSetupStatus))
	mux.HandleFunc("POST /setup", s.gate.RequireInternal(s.handleSetup))
	mux.HandleFunc("DELETE /connections/{token}", s.gate.RequireInternal(s.handleDeleteConnection))

	// External routes - platform callbacks
	mux.HandleFunc("POST /slack/{token}", s.gate.RequireExternal(s.handleSlackCallback))
	mux.HandleFunc("POST /teams/{token}", s.gate.RequireExternal(s.handleTeamsCallback))
}

// Handler exposes the configured handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
// Returns nil on graceful shutdown, or an error if the server fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		s.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := s.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is already canceled.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleInit exposes the API token to the frontend during initialization.
func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InitResponse{APIToken: s.gate.APIToken()})
}

// handleGUIStatus returns whether the setup UI should be hidden.
func (s *Server) handleGUIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GUIStatusResponse{GUIDisabled: s.cfg.Security.DisableGUI})
}
