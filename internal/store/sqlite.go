// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides credential/connection persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// adminUsername is the fixed username of the singleton credential.
const adminUsername = "admin"

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS admin_credentials (
			username      TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS webhook_connections (
			token       TEXT PRIMARY KEY,
			platform    TEXT NOT NULL,
			webhook_url TEXT NOT NULL,
			status      TEXT NOT NULL,
			created_at  DATETIME NOT NULL,
			updated_at  DATETIME NOT NULL,

			CHECK (platform IN ('slack', 'teams')),
			CHECK (status IN ('pending', 'verified', 'failed'))
		);

		CREATE INDEX IF NOT EXISTS idx_connections_created
			ON webhook_connections(created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateAdminCredential stores the singleton admin credential. It returns
// ErrAdminExists if a credential is already present.
func (s *SQLiteStore) CreateAdminCredential(ctx context.Context, cred *AdminCredential) error {
	if cred.Username == "" {
		cred.Username = adminUsername
	}
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_credentials (username, password_hash, created_at) VALUES (?, ?, ?)`,
		cred.Username, cred.PasswordHash, cred.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrAdminExists
		}
		return fmt.Errorf("inserting admin credential: %w", err)
	}

	return nil
}

// GetAdminCredential fetches the singleton admin credential, or ErrNotFound.
func (s *SQLiteStore) GetAdminCredential(ctx context.Context) (*AdminCredential, error) {
	var cred AdminCredential
	err := s.db.QueryRowContext(ctx,
		`SELECT username, password_hash, created_at FROM admin_credentials WHERE username = ?`,
		adminUsername,
	).Scan(&cred.Username, &cred.PasswordHash, &cred.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying admin credential: %w", err)
	}

	return &cred, nil
}

// isUniqueConstraintError checks if an error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	// SQLite returns "UNIQUE constraint failed" in the error message
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "unique constraint"))
}
