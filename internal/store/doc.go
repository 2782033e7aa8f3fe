// Package store provides persistence for the push notifier.
//
// Two record types are kept in a file-backed SQLite database: the singleton
// admin credential (a bcrypt verifier, never the password) and registered
// webhook connections keyed by their opaque token.
//
// # Error Handling
//
// Methods return sentinel errors that callers can match with errors.Is:
//
//   - ErrNotFound: requested record does not exist
//   - ErrDuplicateToken: connection token already registered
//   - ErrAdminExists: admin credential already set
package store
