package auth

import (
	"context"

	"github.com/slimenefellah/myguide/internal/models"
)

// Login authenticates and stores the returned credential set. A successful
// login resets the session-expired latch.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	creds, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := m.store.Set(*creds); err != nil {
		return nil, err
	}
	m.resetExpired()

	m.logger.Info().Str("email", email).Msg("Logged in")
	return creds.User, nil
}

// Logout posts the refresh token for blacklisting, then clears local
// credentials regardless of the server's answer.
func (m *Manager) Logout(ctx context.Context) error {
	creds := m.store.Snapshot()
	if creds.RefreshToken != "" {
		if err := m.client.Logout(ctx, creds.AccessToken, creds.RefreshToken); err != nil {
			m.logger.Warn().Err(err).Msg("Server logout failed, clearing local credentials anyway")
		}
	}
	return m.store.Clear()
}

// SessionExpired reports whether a terminal refresh failure has happened
// since the last successful login. The route guard short-circuits on this
// without another network probe.
func (m *Manager) SessionExpired() bool {
	m.signalMu.Lock()
	defer m.signalMu.Unlock()
	return m.expired
}

// Subscribe returns a channel that receives a signal when the session
// expires terminally. The channel is buffered; a slow consumer misses
// repeats, not the fact.
func (m *Manager) Subscribe() <-chan struct{} {
	m.signalMu.Lock()
	defer m.signalMu.Unlock()
	ch := make(chan struct{}, 1)
	m.subs = append(m.subs, ch)
	return ch
}

func (m *Manager) broadcastExpired() {
	m.signalMu.Lock()
	defer m.signalMu.Unlock()
	m.expired = true
	for _, ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (m *Manager) resetExpired() {
	m.signalMu.Lock()
	defer m.signalMu.Unlock()
	m.expired = false
}
