// ABOUTME: Tests for the SQLite store
// ABOUTME: Covers credential singleton, token uniqueness, and status transitions

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func testConnection(token string) *WebhookConnection {
	return &WebhookConnection{
		Token:      token,
		Platform:   PlatformSlack,
		WebhookURL: "https://hooks.example/" + token,
		Status:     StatusPending,
	}
}

func TestStore_CreateAdminCredential(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.CreateAdminCredential(ctx, &AdminCredential{PasswordHash: "$2a$10$hash"})
	require.NoError(t, err)

	cred, err := store.GetAdminCredential(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", cred.Username)
	assert.Equal(t, "$2a$10$hash", cred.PasswordHash)
}

func TestStore_CreateAdminCredential_AlreadyExists(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateAdminCredential(ctx, &AdminCredential{PasswordHash: "first"}))

	err := store.CreateAdminCredential(ctx, &AdminCredential{PasswordHash: "second"})
	assert.ErrorIs(t, err, ErrAdminExists)

	// The original credential is untouched.
	cred, err := store.GetAdminCredential(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", cred.PasswordHash)
}

func TestStore_GetAdminCredential_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetAdminCredential(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_CreateConnection(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	conn := testConnection("tok-1")
	require.NoError(t, store.CreateConnection(ctx, conn))

	retrieved, err := store.GetConnection(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", retrieved.Token)
	assert.Equal(t, PlatformSlack, retrieved.Platform)
	assert.Equal(t, StatusPending, retrieved.Status)
}

func TestStore_CreateConnection_DuplicateToken(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateConnection(ctx, testConnection("tok-1")))

	dup := testConnection("tok-1")
	dup.WebhookURL = "https://hooks.example/other"
	err := store.CreateConnection(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateToken)

	// Exactly one record for the token, with the original URL.
	conns, err := store.ListConnections(ctx)
	require.NoError(t, err)
	require.Len(t, conns, 1)
	assert.Equal(t, "https://hooks.example/tok-1", conns[0].WebhookURL)
}

func TestStore_GetConnectionForPlatform(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateConnection(ctx, testConnection("tok-1")))

	conn, err := store.GetConnectionForPlatform(ctx, "tok-1", PlatformSlack)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", conn.Token)

	// Same token under the wrong platform is unknown.
	_, err = store.GetConnectionForPlatform(ctx, "tok-1", PlatformTeams)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateConnectionStatus(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateConnection(ctx, testConnection("tok-1")))
	require.NoError(t, store.UpdateConnectionStatus(ctx, "tok-1", StatusVerified))

	conn, err := store.GetConnection(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, conn.Status)

	// Re-applying the same status stays verified.
	require.NoError(t, store.UpdateConnectionStatus(ctx, "tok-1", StatusVerified))
	conn, err = store.GetConnection(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, conn.Status)
}

func TestStore_UpdateConnectionStatus_NotFound(t *testing.T) {
	store := setupTestStore(t)

	err := store.UpdateConnectionStatus(context.Background(), "nonexistent", StatusVerified)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteConnection(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateConnection(ctx, testConnection("tok-1")))
	require.NoError(t, store.DeleteConnection(ctx, "tok-1"))

	_, err := store.GetConnection(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := store.CountConnections(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStore_DeleteConnection_NotFound(t *testing.T) {
	store := setupTestStore(t)

	err := store.DeleteConnection(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_LatestConnection(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.LatestConnection(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	first := testConnection("tok-1")
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	first.UpdatedAt = first.CreatedAt
	require.NoError(t, store.CreateConnection(ctx, first))

	second := testConnection("tok-2")
	second.Platform = PlatformTeams
	require.NoError(t, store.CreateConnection(ctx, second))

	latest, err := store.LatestConnection(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", latest.Token)
}

func TestStore_ListConnections_Order(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first := testConnection("tok-1")
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	first.UpdatedAt = first.CreatedAt
	require.NoError(t, store.CreateConnection(ctx, first))
	require.NoError(t, store.CreateConnection(ctx, testConnection("tok-2")))

	conns, err := store.ListConnections(ctx)
	require.NoError(t, err)
	require.Len(t, conns, 2)
	assert.Equal(t, "tok-1", conns[0].Token)
	assert.Equal(t, "tok-2", conns[1].Token)
}
