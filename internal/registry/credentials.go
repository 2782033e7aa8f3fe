// ABOUTME: Admin credential operations on top of the store
// ABOUTME: Stores bcrypt verifiers, compares without ever recovering the password

package registry

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ultradns/ultradns-push-notifier/internal/store"
)

// ErrBadCredentials is returned when a login password does not match.
var ErrBadCredentials = errors.New("invalid password")

// HasAdmin reports whether the admin credential has been set.
func (s *Service) HasAdmin(ctx context.Context) (bool, error) {
	_, err := s.store.GetAdminCredential(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetAdminPassword creates the singleton admin credential. Returns
// store.ErrAdminExists if one is already set; there is no change path.
func (s *Service) SetAdminPassword(ctx context.Context, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	cred := &store.AdminCredential{PasswordHash: string(hash)}
	if err := s.store.CreateAdminCredential(ctx, cred); err != nil {
		return err
	}

	s.logger.Info("admin credential created")
	return nil
}

// CheckAdminPassword compares a login attempt against the stored verifier.
// Returns store.ErrNotFound when no credential exists and ErrBadCredentials
// on mismatch.
func (s *Service) CheckAdminPassword(ctx context.Context, password string) error {
	cred, err := s.store.GetAdminCredential(ctx)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return nil
}
