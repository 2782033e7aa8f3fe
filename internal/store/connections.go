// ABOUTME: Webhook connection CRUD methods for the SQLite store
// ABOUTME: Token uniqueness is enforced by the primary key, never overwritten

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateConnection inserts a new webhook connection. If the token is already
// registered it returns ErrDuplicateToken and leaves the existing record
// untouched.
func (s *SQLiteStore) CreateConnection(ctx context.Context, conn *WebhookConnection) error {
	now := time.Now().UTC()
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = now
	}
	if conn.UpdatedAt.IsZero() {
		conn.UpdatedAt = now
	}
	if conn.Status == "" {
		conn.Status = StatusPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO webhook_connections (token, platform, webhook_url, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		conn.Token, string(conn.Platform), conn.WebhookURL, string(conn.Status),
		conn.CreatedAt, conn.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateToken
		}
		return fmt.Errorf("inserting connection: %w", err)
	}

	return nil
}

// GetConnection fetches a connection by token, or ErrNotFound.
func (s *SQLiteStore) GetConnection(ctx context.Context, token string) (*WebhookConnection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT token, platform, webhook_url, status, created_at, updated_at
		 FROM webhook_connections WHERE token = ?`,
		token,
	)
	return scanConnection(row)
}

// GetConnectionForPlatform fetches a connection by token, additionally
// requiring its platform to match. A token registered for another platform is
// treated as unknown.
func (s *SQLiteStore) GetConnectionForPlatform(ctx context.Context, token string, platform Platform) (*WebhookConnection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT token, platform, webhook_url, status, created_at, updated_at
		 FROM webhook_connections WHERE token = ? AND platform = ?`,
		token, string(platform),
	)
	return scanConnection(row)
}

// ListConnections returns all registered connections, oldest first.
func (s *SQLiteStore) ListConnections(ctx context.Context) ([]*WebhookConnection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT token, platform, webhook_url, status, created_at, updated_at
		 FROM webhook_connections ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying connections: %w", err)
	}
	defer rows.Close()

	var conns []*WebhookConnection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, conn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating connections: %w", err)
	}

	return conns, nil
}

// CountConnections returns the number of registered connections.
func (s *SQLiteStore) CountConnections(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM webhook_connections`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting connections: %w", err)
	}
	return count, nil
}

// LatestConnection returns the most recently registered connection, or
// ErrNotFound when none exist.
func (s *SQLiteStore) LatestConnection(ctx context.Context) (*WebhookConnection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT token, platform, webhook_url, status, created_at, updated_at
		 FROM webhook_connections ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	)
	return scanConnection(row)
}

// UpdateConnectionStatus transitions a connection to the given status. It
// returns ErrNotFound for unknown tokens. Setting a status the connection
// already has is a no-op success.
func (s *SQLiteStore) UpdateConnectionStatus(ctx context.Context, token string, status Status) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE webhook_connections SET status = ?, updated_at = ? WHERE token = ?`,
		string(status), time.Now().UTC(), token,
	)
	if err != nil {
		return fmt.Errorf("updating connection status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteConnection removes a connection by token, or ErrNotFound.
func (s *SQLiteStore) DeleteConnection(ctx context.Context, token string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM webhook_connections WHERE token = ?`, token,
	)
	if err != nil {
		return fmt.Errorf("deleting connection: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanConnection(row rowScanner) (*WebhookConnection, error) {
	var conn WebhookConnection
	var platform, status string
	err := row.Scan(&conn.Token, &platform, &conn.WebhookURL, &status, &conn.CreatedAt, &conn.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning connection: %w", err)
	}

	conn.Platform = Platform(platform)
	conn.Status = Status(status)
	return &conn, nil
}
