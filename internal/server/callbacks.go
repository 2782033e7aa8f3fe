// ABOUTME: Platform callback handlers receiving telemetry events from UltraDNS
// ABOUTME: Verifies connections on the sentinel test event, relays the rest

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ultradns/ultradns-push-notifier/internal/store"
	"github.com/ultradns/ultradns-push-notifier/internal/telemetry"
)

// handleSlackCallback processes POST /slack/{token}. The token must belong to
// a Slack connection; tokens registered for other platforms are unknown here.
func (s *Server) handleSlackCallback(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	conn, err := s.store.GetConnectionForPlatform(r.Context(), token, store.PlatformSlack)
	if err != nil {
		s.respondLookupError(w, token, err)
		return
	}

	s.processEvents(w, r, conn)
}

// handleTeamsCallback processes POST /teams/{token}. Lookup is by token only.
func (s *Server) handleTeamsCallback(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	conn, err := s.store.GetConnection(r.Context(), token)
	if err != nil {
		s.respondLookupError(w, token, err)
		return
	}

	s.processEvents(w, r, conn)
}

func (s *Server) respondLookupError(w http.ResponseWriter, token string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Invalid token")
		return
	}
	s.logger.Error("looking up connection", "token", token, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal error")
}

// processEvents relays each event in the payload to the connection's
// destination. The sentinel test event additionally marks the connection
// verified; its verification is persisted before the send attempt and is not
// rolled back on delivery failure.
func (s *Server) processEvents(w http.ResponseWriter, r *http.Request, conn *store.WebhookConnection) {
	ctx := r.Context()

	var payload telemetry.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if len(payload.TelemetryEvents) == 0 {
		s.logger.Warn("invalid telemetryEvents format", "token", conn.Token)
		writeError(w, http.StatusBadRequest, "Invalid telemetryEvents format")
		return
	}

	for _, event := range payload.TelemetryEvents {
		if event.IsTest() {
			if err := s.registry.Verify(ctx, conn.Token); err != nil {
				s.logger.Error("verifying connection", "token", conn.Token, "error", err)
				writeError(w, http.StatusInternalServerError, "Failed to verify connection")
				return
			}

			message, err := telemetry.Message(string(conn.Platform), telemetry.FormatTestTelemetry(event))
			if err != nil {
				writeError(w, http.StatusInternalServerError, "Internal error")
				return
			}
			if err := s.sender.Send(ctx, conn.WebhookURL, message); err != nil {
				s.logger.Error("sending test notification", "token", conn.Token, "error", err)
				writeError(w, http.StatusInternalServerError, "Failed to send test to webhook")
				return
			}

			w.WriteHeader(http.StatusOK)
			return
		}

		message, err := telemetry.Message(string(conn.Platform), event)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Internal error")
			return
		}
		if err := s.sender.Send(ctx, conn.WebhookURL, message); err != nil {
			s.logger.Error("sending notification", "token", conn.Token, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to send notification")
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}
