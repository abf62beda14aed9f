// Package interfaces defines service contracts for the MyGuide client
package interfaces

import "github.com/slimenefellah/myguide/internal/models"

// CredentialStorage persists credentials between runs. Implementations keep
// the three records (access token, refresh token, user) under well-known
// keys; Clear removes all of them, never a subset.
type CredentialStorage interface {
	Load() (models.Credentials, error)
	Save(creds models.Credentials) error
	Clear() error
	Close() error
}
