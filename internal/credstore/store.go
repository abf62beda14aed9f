// Package credstore holds the process-wide credential snapshot and its
// persistence lifecycle. The store is the only holder of credential state;
// the token lifecycle manager is its only writer.
package credstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/slimenefellah/myguide/internal/common"
	"github.com/slimenefellah/myguide/internal/interfaces"
	"github.com/slimenefellah/myguide/internal/models"
)

// Store is the in-memory credential holder backed by persistent storage.
// Reads return consistent snapshots; partial updates are never visible.
type Store struct {
	mu      sync.RWMutex
	creds   models.Credentials
	backend interfaces.CredentialStorage
	logger  *common.Logger
}

// Option configures the store
type Option func(*Store)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a credential store over a persistence backend and loads
// whatever credentials survive from a previous run. A snapshot that breaks
// the pairing invariant (access token without refresh token) is discarded
// rather than trusted.
func NewStore(backend interfaces.CredentialStorage, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		logger:  common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	creds, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if !creds.Complete() {
		s.logger.Warn().Msg("Persisted credentials incomplete, clearing")
		if err := backend.Clear(); err != nil {
			return nil, fmt.Errorf("failed to clear incomplete credentials: %w", err)
		}
		creds = models.Credentials{}
	}
	s.creds = creds

	return s, nil
}

// Snapshot returns the current credentials.
func (s *Store) Snapshot() models.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Set replaces the credential set, persisting it. Called on login and on
// profile updates.
func (s *Store) Set(creds models.Credentials) error {
	if !creds.Complete() {
		return fmt.Errorf("refusing to store access token without refresh token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Save(creds); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}
	s.creds = creds
	s.logger.Debug().Msg("Credentials stored")
	return nil
}

// SetAccessToken replaces only the access token after a successful refresh,
// keeping the refresh token and user untouched.
func (s *Store) SetAccessToken(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.creds.RefreshToken == "" {
		return fmt.Errorf("no refresh token held, cannot accept access token")
	}

	updated := s.creds
	updated.AccessToken = access
	if err := s.backend.Save(updated); err != nil {
		return fmt.Errorf("failed to persist refreshed access token: %w", err)
	}
	s.creds = updated
	return nil
}

// Clear wipes credentials from memory and from the persistent layer. All
// records go together; a partial clear is a correctness bug.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Clear(); err != nil {
		return fmt.Errorf("failed to clear persisted credentials: %w", err)
	}
	s.creds = models.Credentials{}
	s.logger.Debug().Msg("Credentials cleared")
	return nil
}

// AccessTokenExpired reports whether the held access token has an exp claim
// in the past. The token is decoded without signature verification: the
// server remains the authority, this is only a hint to skip a doomed call.
func (s *Store) AccessTokenExpired(now time.Time) bool {
	s.mu.RLock()
	token := s.creds.AccessToken
	s.mu.RUnlock()

	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.After(exp.Time)
}

// Close releases the persistence backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
