// ABOUTME: Connection registry service owning webhook lifecycle and readiness
// ABOUTME: Drives registration, verification, deletion and the derived readiness flag

package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ultradns/ultradns-push-notifier/internal/dispatch"
	"github.com/ultradns/ultradns-push-notifier/internal/store"
	"github.com/ultradns/ultradns-push-notifier/internal/telemetry"
)

// Registration errors
var (
	ErrInvalidPlatform = errors.New("platform must be slack or teams")
	ErrMissingURL      = errors.New("webhook_url is required")
	ErrTestSendFailed  = errors.New("failed to send test message")
)

// Service owns the webhook connection lifecycle: registration with the
// initial test send, verification on callback, deletion, and the derived
// readiness flag.
type Service struct {
	store  store.Store
	sender dispatch.Sender
	logger *slog.Logger

	// override is the transient readiness value set by registration and
	// verification. When nil, readiness is derived from persisted facts,
	// which also makes it survive restarts.
	mu       sync.Mutex
	override *bool
}

// New creates a registry service.
func New(st store.Store, sender dispatch.Sender) *Service {
	return &Service{
		store:  st,
		sender: sender,
		logger: slog.Default().With("component", "registry"),
	}
}

// Register creates a pending connection for the platform and URL, then
// synchronously dispatches a synthetic test message to the destination.
//
// If the test send fails, the connection record is kept but marked failed, and
// the returned error wraps ErrTestSendFailed. A token collision returns
// store.ErrDuplicateToken; the record is never overwritten.
func (s *Service) Register(ctx context.Context, platform store.Platform, webhookURL string) (*store.WebhookConnection, error) {
	if !platform.Valid() {
		return nil, ErrInvalidPlatform
	}
	if webhookURL == "" {
		return nil, ErrMissingURL
	}

	conn := &store.WebhookConnection{
		Token:      uuid.NewString(),
		Platform:   platform,
		WebhookURL: webhookURL,
		Status:     store.StatusPending,
	}

	if err := s.store.CreateConnection(ctx, conn); err != nil {
		return nil, err
	}

	s.logger.Info("connection registered", "platform", platform, "token", conn.Token)

	testEvent := telemetry.NewSetupTestEvent(time.Now())
	message, err := telemetry.Message(string(platform), testEvent)
	if err != nil {
		return nil, err
	}

	if err := s.sender.Send(ctx, webhookURL, message); err != nil {
		// The record stays so the failure is visible; mark it so it is not
		// mistaken for a connection still awaiting verification.
		if markErr := s.store.UpdateConnectionStatus(ctx, conn.Token, store.StatusFailed); markErr != nil {
			s.logger.Error("marking connection failed", "token", conn.Token, "error", markErr)
		}
		return conn, fmt.Errorf("%w: %v", ErrTestSendFailed, err)
	}

	// The frontend must now wait for the platform to relay the test event
	// back before the system reports ready.
	s.setOverride(false)

	return conn, nil
}

// Verify marks the connection verified. Re-verifying an already verified
// connection is a silent no-op. When the verified connection is the most
// recently registered one, the readiness override is dropped so readiness is
// derived from persisted state again (and comes out true).
func (s *Service) Verify(ctx context.Context, token string) error {
	if err := s.store.UpdateConnectionStatus(ctx, token, store.StatusVerified); err != nil {
		return err
	}

	latest, err := s.store.LatestConnection(ctx)
	if err != nil {
		return err
	}
	if latest.Token == token {
		s.clearOverride()
	}

	s.logger.Info("connection verified", "token", token)
	return nil
}

// Delete removes a connection by token. Unknown tokens return store.ErrNotFound.
func (s *Service) Delete(ctx context.Context, token string) error {
	if err := s.store.DeleteConnection(ctx, token); err != nil {
		return err
	}
	s.logger.Info("connection deleted", "token", token)
	return nil
}

// Ready reports whether setup is complete: an admin credential exists, at
// least one connection is registered, and the most recent registration has
// completed its verification round-trip. A transient override from an
// in-flight registration takes precedence.
func (s *Service) Ready(ctx context.Context) (bool, error) {
	s.mu.Lock()
	override := s.override
	s.mu.Unlock()
	if override != nil {
		return *override, nil
	}

	hasAdmin, err := s.HasAdmin(ctx)
	if err != nil {
		return false, err
	}
	if !hasAdmin {
		return false, nil
	}

	latest, err := s.store.LatestConnection(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return latest.Status == store.StatusVerified, nil
}

func (s *Service) setOverride(v bool) {
	s.mu.Lock()
	s.override = &v
	s.mu.Unlock()
}

func (s *Service) clearOverride() {
	s.mu.Lock()
	s.override = nil
	s.mu.Unlock()
}
