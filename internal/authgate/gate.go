// ABOUTME: Access gate classifying requests as frontend-internal or platform-external
// ABOUTME: Internal routes need the shared API token, external routes pass an IP allow-list

package authgate

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// APITokenHeader carries the shared secret the frontend must present on
// internal routes.
const APITokenHeader = "X-Api-Token"

// forbiddenBody is the constant DENY response. It deliberately does not say
// which check failed.
const forbiddenBody = `{"error":"forbidden"}`

// Gate enforces access control before any handler runs.
type Gate struct {
	apiToken   string
	filterIPs  bool
	allowedIPs map[string]struct{}
	logger     *slog.Logger
}

// New creates a Gate with a freshly generated API token. The token lives only
// in process memory; restarting the service invalidates it.
func New(filterIPs bool, allowedIPs []string) (*Gate, error) {
	token, err := generateAPIToken()
	if err != nil {
		return nil, fmt.Errorf("generating API token: %w", err)
	}

	allowed := make(map[string]struct{}, len(allowedIPs))
	for _, ip := range allowedIPs {
		allowed[ip] = struct{}{}
	}

	return &Gate{
		apiToken:   token,
		filterIPs:  filterIPs,
		allowedIPs: allowed,
		logger:     slog.Default().With("component", "authgate"),
	}, nil
}

// APIToken returns the shared secret exposed to the frontend via /init.
func (g *Gate) APIToken() string {
	return g.apiToken
}

// RequireInternal wraps a handler so it only runs when the request carries
// the shared API token.
func (g *Gate) RequireInternal(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplied := r.Header.Get(APITokenHeader)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(g.apiToken)) != 1 {
			g.deny(w, r)
			return
		}
		next(w, r)
	}
}

// RequireExternal wraps a handler so it only runs when the request originates
// from an allowed platform egress address. With IP filtering disabled it
// allows everything.
func (g *Gate) RequireExternal(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.allowedSource(r) {
			g.deny(w, r)
			return
		}
		next(w, r)
	}
}

// allowedSource checks the forwarding chain and the direct peer against the
// allow-list. Any hop in X-Forwarded-For matching is sufficient; absence of
// the header falls back to the peer address.
func (g *Gate) allowedSource(r *http.Request) bool {
	if !g.filterIPs {
		return true
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for _, hop := range strings.Split(forwarded, ",") {
			if _, ok := g.allowedIPs[strings.TrimSpace(hop)]; ok {
				return true
			}
		}
		return false
	}

	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}
	_, ok := g.allowedIPs[peer]
	return ok
}

// deny writes the opaque 403 response.
func (g *Gate) deny(w http.ResponseWriter, r *http.Request) {
	g.logger.Warn("request denied", "path", r.URL.Path, "remote", r.RemoteAddr)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(forbiddenBody))
}

// generateAPIToken returns a 64-char hex secret from crypto/rand.
func generateAPIToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
