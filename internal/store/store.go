// ABOUTME: Store interface and data types for push-notifier persistence
// ABOUTME: Defines AdminCredential, WebhookConnection and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateToken is returned when creating a connection whose token is
// already registered. The caller must retry with a fresh token.
var ErrDuplicateToken = errors.New("duplicate token")

// ErrAdminExists is returned when creating an admin credential while one is
// already stored. There is no password-change path.
var ErrAdminExists = errors.New("admin credential already exists")

// Platform identifies the chat platform a connection delivers to.
type Platform string

const (
	PlatformSlack Platform = "slack"
	PlatformTeams Platform = "teams"
)

// Valid reports whether the platform is one the relay supports.
func (p Platform) Valid() bool {
	return p == PlatformSlack || p == PlatformTeams
}

// Status is the lifecycle state of a webhook connection.
type Status string

const (
	// StatusPending means the connection was registered but the platform has
	// not yet relayed the verification test event back.
	StatusPending Status = "pending"

	// StatusVerified means the verification round-trip completed.
	StatusVerified Status = "verified"

	// StatusFailed means the initial test message could not be delivered to
	// the destination URL. The record is kept so the failure is visible.
	StatusFailed Status = "failed"
)

// AdminCredential is the singleton admin login record. Only a bcrypt verifier
// is stored, never the password itself.
type AdminCredential struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// WebhookConnection is one registered message destination. The token doubles
// as the callback path segment and as the destination's bearer credential.
type WebhookConnection struct {
	Token      string
	Platform   Platform
	WebhookURL string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Store defines the persistence interface for the relay.
type Store interface {
	// Admin credential (singleton, username "admin")
	CreateAdminCredential(ctx context.Context, cred *AdminCredential) error
	GetAdminCredential(ctx context.Context) (*AdminCredential, error)

	// Webhook connections
	CreateConnection(ctx context.Context, conn *WebhookConnection) error
	GetConnection(ctx context.Context, token string) (*WebhookConnection, error)
	GetConnectionForPlatform(ctx context.Context, token string, platform Platform) (*WebhookConnection, error)
	ListConnections(ctx context.Context) ([]*WebhookConnection, error)
	CountConnections(ctx context.Context) (int, error)
	LatestConnection(ctx context.Context) (*WebhookConnection, error)
	UpdateConnectionStatus(ctx context.Context, token string, status Status) error
	DeleteConnection(ctx context.Context, token string) error

	// Close releases any resources held by the store
	Close() error
}
