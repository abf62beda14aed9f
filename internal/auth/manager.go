// Package auth implements the token lifecycle: attaching credentials to
// outbound calls, coordinating at most one refresh in flight, and tearing
// the session down when the refresh token stops being honoured.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/slimenefellah/myguide/internal/clients/myguide"
	"github.com/slimenefellah/myguide/internal/common"
	"github.com/slimenefellah/myguide/internal/credstore"
	"github.com/slimenefellah/myguide/internal/interfaces"
	"github.com/slimenefellah/myguide/internal/models"
)

// ErrSessionExpired is returned when the refresh token itself is rejected or
// absent. Credentials are cleared before this error is surfaced; the only way
// forward is a new login.
var ErrSessionExpired = errors.New("session expired, please log in again")

// ErrRefreshTimeout is returned to callers whose wait on an in-flight refresh
// exceeded the configured bound.
var ErrRefreshTimeout = errors.New("timed out waiting for token refresh")

const DefaultRefreshTimeout = 30 * time.Second

// refreshOutcome is what each queued caller receives when the in-flight
// refresh settles.
type refreshOutcome struct {
	token string
	err   error
}

// Manager owns the at-most-one-refresh-in-flight invariant and the FIFO
// queue of callers suspended behind it. It is the sole writer of the
// credential store.
type Manager struct {
	client  interfaces.TravelAPI
	store   *credstore.Store
	logger  *common.Logger
	timeout time.Duration

	mu       sync.Mutex
	inflight bool
	waiters  []chan refreshOutcome

	signalMu sync.Mutex
	expired  bool
	subs     []chan struct{}
}

// Option configures the manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRefreshTimeout bounds how long a caller waits on the refresh
// coordination point.
func WithRefreshTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.timeout = d
	}
}

// NewManager creates a token lifecycle manager over an API client and a
// credential store.
func NewManager(client interfaces.TravelAPI, store *credstore.Store, opts ...Option) *Manager {
	m := &Manager{
		client:  client,
		store:   store,
		logger:  common.NewSilentLogger(),
		timeout: DefaultRefreshTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Credentials returns the current credential snapshot.
func (m *Manager) Credentials() models.Credentials {
	return m.store.Snapshot()
}

// Do runs fn with the current access token. When fn reports Unauthorized,
// Do joins the refresh coordination point and, on success, reruns fn exactly
// once with the fresh token. A second Unauthorized is terminal. Network
// errors and every other failure pass through unchanged.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context, token string) error) error {
	token := m.store.Snapshot().AccessToken

	err := fn(ctx, token)
	if err == nil || !myguide.IsUnauthorized(err) {
		return err
	}

	newToken, refreshErr := m.awaitRefresh(ctx)
	if refreshErr != nil {
		return refreshErr
	}

	// One retry only. If the fresh token is itself rejected, the call fails
	// terminally rather than re-entering the refresh path.
	return fn(ctx, newToken)
}

// Refresh drives the refresh path directly, with no pending request. Used by
// the route guard after a failed credential probe.
func (m *Manager) Refresh(ctx context.Context) error {
	_, err := m.awaitRefresh(ctx)
	return err
}

// Probe checks the held access token against the server without entering the
// refresh path. The route guard owns the decision about what a rejection
// means for the navigation in progress.
func (m *Manager) Probe(ctx context.Context) error {
	_, err := m.client.GetProfile(ctx, m.store.Snapshot().AccessToken)
	return err
}

// awaitRefresh returns a usable access token, coordinating so that no matter
// how many callers arrive while the token is bad, exactly one refresh call
// goes out. Queued callers are released in arrival order, all with the same
// outcome.
func (m *Manager) awaitRefresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.inflight {
		ch := make(chan refreshOutcome, 1)
		m.waiters = append(m.waiters, ch)
		m.mu.Unlock()

		select {
		case outcome := <-ch:
			return outcome.token, outcome.err
		case <-time.After(m.timeout):
			return "", ErrRefreshTimeout
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	m.inflight = true
	m.mu.Unlock()

	// The flight is process-wide: the leader navigating away must not kill
	// it for everyone queued behind it. Detach from the leader's
	// cancellation, keep the time bound.
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	outcome := m.doRefresh(refreshCtx)
	cancel()

	m.mu.Lock()
	m.inflight = false
	waiters := m.waiters
	m.waiters = nil
	m.mu.Unlock()

	// FIFO release; buffered channels so no waiter is silently dropped even
	// if it already timed out.
	for _, w := range waiters {
		w <- outcome
	}

	return outcome.token, outcome.err
}

// doRefresh issues the single refresh call and settles credential state.
func (m *Manager) doRefresh(ctx context.Context) refreshOutcome {
	refreshToken := m.store.Snapshot().RefreshToken
	if refreshToken == "" {
		return refreshOutcome{err: m.terminate(nil)}
	}

	access, err := m.client.RefreshToken(ctx, refreshToken)
	if err != nil {
		if myguide.IsNetwork(err) {
			// The server never saw the token; it may still be good.
			m.logger.Warn().Err(err).Msg("Token refresh did not reach the server")
			return refreshOutcome{err: fmt.Errorf("token refresh failed: %w", err)}
		}
		m.logger.Warn().Err(err).Msg("Token refresh rejected")
		return refreshOutcome{err: m.terminate(err)}
	}

	if err := m.store.SetAccessToken(access); err != nil {
		return refreshOutcome{err: fmt.Errorf("failed to store refreshed token: %w", err)}
	}

	m.logger.Debug().Msg("Access token refreshed")
	return refreshOutcome{token: access}
}

// Ensure Manager implements AuthTransport
var _ interfaces.AuthTransport = (*Manager)(nil)

// terminate handles unrecoverable refresh failure: clear all credentials,
// latch the expired state and broadcast it. No further refresh attempts are
// made for the callers being failed.
func (m *Manager) terminate(cause error) error {
	if err := m.store.Clear(); err != nil {
		m.logger.Error().Err(err).Msg("Failed to clear credentials")
	}
	m.broadcastExpired()

	if cause != nil {
		return fmt.Errorf("%w: %v", ErrSessionExpired, cause)
	}
	return ErrSessionExpired
}
