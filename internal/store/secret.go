package store

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sandeepkv93/chorechart/internal/model"
)

const secretHashCost = bcrypt.DefaultCost

// SetSecret replaces the admin PIN. Surrounding whitespace is dropped and a
// blank PIN is rejected.
func (s *Store) SetSecret(ctx context.Context, secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return fmt.Errorf("%w: pin is required", model.ErrInvalidInput)
	}
	encoded, err := s.encodeSecret(secret)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.mutateLocked(ctx, func(st *model.AppState) error {
		st.PIN = encoded
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("store_event", "event", "pin_changed", "hashed", isSecretHash(encoded))
	return nil
}

// VerifySecret reports whether candidate matches the stored PIN exactly.
// Stored bcrypt hashes are checked as hashes whatever the current option.
func (s *Store) VerifySecret(candidate string) bool {
	if candidate == "" {
		return false
	}
	s.mu.Lock()
	stored := ""
	if s.state != nil {
		stored = s.state.PIN
	}
	s.mu.Unlock()
	if stored == "" {
		return false
	}
	if isSecretHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

func (s *Store) encodeSecret(secret string) (string, error) {
	if !s.hashPIN {
		return secret, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), secretHashCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hash), nil
}

func isSecretHash(v string) bool {
	if len(v) != 60 {
		return false
	}
	return strings.HasPrefix(v, "$2a$") || strings.HasPrefix(v, "$2b$") || strings.HasPrefix(v, "$2y$")
}
