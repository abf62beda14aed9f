// Package interfaces defines service contracts for the MyGuide client
package interfaces

import (
	"context"

	"github.com/slimenefellah/myguide/internal/models"
)

// TravelAPI is the raw MyGuide REST surface. Methods take the bearer token
// explicitly; credential state, refresh and retry live a layer up in the
// auth manager.
type TravelAPI interface {
	// Login exchanges an email/password pair for a credential set
	Login(ctx context.Context, email, password string) (*models.Credentials, error)

	// RefreshToken trades a refresh token for a fresh access token
	RefreshToken(ctx context.Context, refreshToken string) (string, error)

	// Logout posts the refresh token for server-side blacklisting
	Logout(ctx context.Context, token, refreshToken string) error

	// GetProfile fetches the account behind the access token
	GetProfile(ctx context.Context, token string) (*models.User, error)

	// ActiveSession fetches the active chat session, nil when none exists
	ActiveSession(ctx context.Context, token string) (*models.Session, error)

	// CreateActiveSession creates a new chat session and marks it active
	CreateActiveSession(ctx context.Context, token, title string) (*models.Session, error)

	// SessionMessages fetches the full message history for a session
	SessionMessages(ctx context.Context, token, sessionID string) ([]models.Message, error)

	// SendMessage posts a user turn and returns the assistant's reply
	SendMessage(ctx context.Context, token, sessionID, content string) (*models.Message, error)

	// DeleteSession removes a session and all its messages server-side
	DeleteSession(ctx context.Context, token, sessionID string) error
}

// AuthTransport is the authenticated call path owned by the token lifecycle
// manager. Do runs fn with the current access token; when the call reports
// Unauthorized, Do coordinates a single refresh and reruns fn exactly once
// with the new token.
type AuthTransport interface {
	Do(ctx context.Context, fn func(ctx context.Context, token string) error) error

	// Refresh drives the refresh path directly, without a pending request.
	// Used by the route guard when a probe rejected the credentials.
	Refresh(ctx context.Context) error

	// Credentials returns the current credential snapshot.
	Credentials() models.Credentials
}
