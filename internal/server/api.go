// ABOUTME: JSON request/response types and helpers for the HTTP API
// ABOUTME: Mirrors the shapes the setup frontend and UltraDNS callbacks expect

package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// LoginRequest is the JSON request body for POST /login.
type LoginRequest struct {
	Password string `json:"password"`
}

// SetupRequest is the JSON request body for POST /setup. Either Password or
// the WebhookURL/Platform pair is set, never both.
type SetupRequest struct {
	Password   string `json:"password,omitempty"`
	WebhookURL string `json:"webhook_url,omitempty"`
	Platform   string `json:"platform,omitempty"`
}

// RegisterResponse is the JSON response for a successful webhook registration.
type RegisterResponse struct {
	Message        string `json:"message"`
	Token          string `json:"token"`
	WaitingForTest bool   `json:"waiting_for_test"`
}

// WebhookInfo is one registered connection as listed by GET /status.
type WebhookInfo struct {
	Type       string `json:"type"`
	Status     string `json:"status"`
	WebhookURL string `json:"webhook_url"`
	Token      string `json:"token"`
}

// StatusResponse is the JSON response for GET /status.
type StatusResponse struct {
	HasAdminPassword bool          `json:"has_admin_password"`
	HasWebhooks      bool          `json:"has_webhooks"`
	LoggedIn         bool          `json:"logged_in"`
	SetupComplete    bool          `json:"setup_complete"`
	Webhooks         []WebhookInfo `json:"webhooks"`
}

// SetupStatusResponse is the JSON response for GET /setup.
type SetupStatusResponse struct {
	SetupComplete bool `json:"setup_complete"`
}

// InitResponse is the JSON response for GET /init.
type InitResponse struct {
	APIToken string `json:"api_token"`
}

// GUIStatusResponse is the JSON response for GET /gui-status.
type GUIStatusResponse struct {
	GUIDisabled bool `json:"gui_disabled"`
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("encoding response", "error", err)
	}
}

// writeMessage writes a {"message": ...} body.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError writes an {"error": ...} body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
