// ABOUTME: Setup orchestration handlers: status, login, logout, setup, deletion
// ABOUTME: Drives the onboarding flow from empty database to verified webhook

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ultradns/ultradns-push-notifier/internal/registry"
	"github.com/ultradns/ultradns-push-notifier/internal/store"
)

// handleStatus reports the overall setup state. The connection list is only
// included for a logged-in caller once webhooks exist.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	hasAdmin, err := s.registry.HasAdmin(ctx)
	if err != nil {
		s.logger.Error("checking admin credential", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	count, err := s.store.CountConnections(ctx)
	if err != nil {
		s.logger.Error("counting connections", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	ready, err := s.registry.Ready(ctx)
	if err != nil {
		s.logger.Error("computing readiness", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	resp := StatusResponse{
		HasAdminPassword: hasAdmin,
		HasWebhooks:      count > 0,
		LoggedIn:         s.sessions.LoggedIn(r),
		SetupComplete:    ready,
		Webhooks:         []WebhookInfo{},
	}

	if resp.LoggedIn && resp.HasWebhooks {
		conns, err := s.store.ListConnections(ctx)
		if err != nil {
			s.logger.Error("listing connections", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal error")
			return
		}
		for _, conn := range conns {
			resp.Webhooks = append(resp.Webhooks, WebhookInfo{
				Type:       string(conn.Platform),
				Status:     string(conn.Status),
				WebhookURL: conn.WebhookURL,
				Token:      conn.Token,
			})
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleLogin processes login requests. If no admin credential is set yet,
// the supplied password becomes the credential and the caller is logged in.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Password is required")
		return
	}

	hasAdmin, err := s.registry.HasAdmin(ctx)
	if err != nil {
		s.logger.Error("checking admin credential", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	if !hasAdmin {
		if err := s.registry.SetAdminPassword(ctx, req.Password); err != nil {
			s.logger.Error("creating admin credential", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal error")
			return
		}
		if err := s.sessions.SetCookie(w, r); err != nil {
			s.logger.Error("issuing session", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal error")
			return
		}
		writeMessage(w, http.StatusOK, "Password set and logged in.")
		return
	}

	if err := s.registry.CheckAdminPassword(ctx, req.Password); err != nil {
		if errors.Is(err, registry.ErrBadCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Invalid password")
			return
		}
		s.logger.Error("checking password", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	if err := s.sessions.SetCookie(w, r); err != nil {
		s.logger.Error("issuing session", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	writeMessage(w, http.StatusOK, "Logged in successfully.")
}

// handleLogout clears the session cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.ClearCookie(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// handleSetupStatus reports whether setup has completed.
func (s *Server) handleSetupStatus(w http.ResponseWriter, r *http.Request) {
	ready, err := s.registry.Ready(r.Context())
	if err != nil {
		s.logger.Error("computing readiness", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	writeJSON(w, http.StatusOK, SetupStatusResponse{SetupComplete: ready})
}

// handleSetup processes setup requests: first the admin password, then
// webhook registrations. Registration dispatches a test message to the new
// destination before responding.
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Admin password setup runs first; webhook registration only makes sense
	// once the credential exists.
	hasAdmin, err := s.registry.HasAdmin(ctx)
	if err != nil {
		s.logger.Error("checking admin credential", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	if !hasAdmin && req.Password != "" {
		if err := s.registry.SetAdminPassword(ctx, req.Password); err != nil {
			s.logger.Error("creating admin credential", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal error")
			return
		}
		writeMessage(w, http.StatusOK, "Admin password set.")
		return
	}

	conn, err := s.registry.Register(ctx, store.Platform(req.Platform), req.WebhookURL)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, RegisterResponse{
			Message:        fmt.Sprintf("%s URL set and test message sent.", capitalize(req.Platform)),
			Token:          conn.Token,
			WaitingForTest: true,
		})
	case errors.Is(err, registry.ErrInvalidPlatform), errors.Is(err, registry.ErrMissingURL):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrDuplicateToken):
		writeMessage(w, http.StatusBadRequest, "Duplicate token detected. Please retry.")
	case errors.Is(err, registry.ErrTestSendFailed):
		writeMessage(w, http.StatusInternalServerError, fmt.Sprintf("Failed to send test message: %v", err))
	default:
		s.logger.Error("registering connection", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}

// handleDeleteConnection removes a registered webhook by token.
func (s *Server) handleDeleteConnection(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	err := s.registry.Delete(r.Context(), token)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Webhook not found.")
		return
	}
	if err != nil {
		s.logger.Error("deleting connection", "token", token, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	writeMessage(w, http.StatusOK, "Webhook deleted successfully.")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
