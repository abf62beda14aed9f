// Package chat maintains chat session continuity: a single authoritative
// active conversation and strict message ordering under concurrent fetch and
// send operations.
package chat

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/slimenefellah/myguide/internal/common"
	"github.com/slimenefellah/myguide/internal/interfaces"
	"github.com/slimenefellah/myguide/internal/models"
)

// DefaultSessionTitle names sessions created implicitly on first chat
// interaction.
const DefaultSessionTitle = "New Chat"

// ensureTimeout bounds the shared get-or-create flight once it is detached
// from the initiating caller's context.
const ensureTimeout = 30 * time.Second

// Manager is the sole writer of the active-session pointer and the message
// list. All server traffic goes through the authenticated transport.
type Manager struct {
	api       interfaces.TravelAPI
	transport interfaces.AuthTransport
	logger    *common.Logger
	now       func() time.Time

	// ensure collapses concurrent get-or-create calls so at most one
	// session-creation request is ever outstanding.
	ensure singleflight.Group

	mu        sync.Mutex
	activeID  string
	messages  []models.Message
	selectSeq uint64
}

// Option configures the manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock overrides the timestamp source for optimistic entries.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session continuity manager.
func NewManager(api interfaces.TravelAPI, transport interfaces.AuthTransport, opts ...Option) *Manager {
	m := &Manager{
		api:       api,
		transport: transport,
		logger:    common.NewSilentLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ActiveSessionID returns the active-session pointer, empty when none.
func (m *Manager) ActiveSessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// Messages returns the display-ordered message list for the active session.
func (m *Manager) Messages() []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// GetOrCreateActive asks the server for the active session, creating one if
// none exists. Concurrent callers before the first resolves share a single
// in-flight request and receive the same session; two creations can never
// race out of one interaction burst.
func (m *Manager) GetOrCreateActive(ctx context.Context) (*models.Session, error) {
	v, err, _ := m.ensure.Do("active", func() (interface{}, error) {
		// Every concurrent caller shares this flight; the one that happened
		// to start it navigating away must not fail the rest. Detach from
		// its cancellation, keep a time bound.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ensureTimeout)
		defer cancel()

		var session *models.Session
		err := m.transport.Do(ctx, func(ctx context.Context, token string) error {
			existing, err := m.api.ActiveSession(ctx, token)
			if err != nil {
				return err
			}
			if existing != nil {
				session = existing
				return nil
			}
			created, err := m.api.CreateActiveSession(ctx, token, DefaultSessionTitle)
			if err != nil {
				return err
			}
			session = created
			return nil
		})
		return session, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Session), nil
}

// SelectSession fetches the message history for id and, only after the fetch
// succeeds, moves the active pointer. A fetch that resolves after a later
// SelectSession has started is dropped silently: last selection wins, stale
// history never overwrites a newer session's view.
func (m *Manager) SelectSession(ctx context.Context, id string) error {
	m.mu.Lock()
	m.selectSeq++
	seq := m.selectSeq
	m.mu.Unlock()

	var fetched []models.Message
	err := m.transport.Do(ctx, func(ctx context.Context, token string) error {
		msgs, err := m.api.SessionMessages(ctx, token, id)
		if err != nil {
			return err
		}
		fetched = msgs
		return nil
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.selectSeq {
		m.logger.Debug().Str("session", id).Msg("Discarding stale session fetch")
		return nil
	}
	m.activeID = id
	m.messages = fetched
	sortMessages(m.messages)
	return nil
}

// Send appends an optimistic user turn synchronously, then posts it. On
// success only the assistant's reply is appended; the server does not echo
// the user turn, so the optimistic entry remains the user-turn record. On
// failure the entry is flagged failed and kept visible; the caller decides
// whether to re-drive the send.
func (m *Manager) Send(ctx context.Context, sessionID, content string) (models.Message, error) {
	optimistic := models.Message{
		ID:         models.NewLocalMessageID(),
		SessionID:  sessionID,
		Role:       models.RoleUser,
		Content:    content,
		CreatedAt:  m.now(),
		Optimistic: true,
	}
	m.appendIfActive(sessionID, optimistic)

	var reply *models.Message
	err := m.transport.Do(ctx, func(ctx context.Context, token string) error {
		r, err := m.api.SendMessage(ctx, token, sessionID, content)
		if err != nil {
			return err
		}
		reply = r
		return nil
	})
	if err != nil {
		m.markFailed(optimistic.ID)
		return optimistic, err
	}

	m.confirm(optimistic.ID)
	if reply != nil {
		m.appendIfActive(sessionID, *reply)
	}
	return optimistic, nil
}

// DeleteSession removes the session server-side, then drops local records.
// A failed deletion leaves prior state untouched. The active pointer is
// cleared, never reassigned; the next chat interaction re-runs
// GetOrCreateActive.
func (m *Manager) DeleteSession(ctx context.Context, id string) error {
	err := m.transport.Do(ctx, func(ctx context.Context, token string) error {
		return m.api.DeleteSession(ctx, token, id)
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeID == id {
		m.activeID = ""
		m.messages = nil
	}
	m.logger.Debug().Str("session", id).Msg("Session deleted")
	return nil
}

// appendIfActive adds a message to the display list when it belongs to the
// session currently addressed; results destined for another session are
// dropped.
func (m *Manager) appendIfActive(sessionID string, msg models.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeID != "" && m.activeID != sessionID {
		return
	}
	if m.activeID == "" {
		m.activeID = sessionID
	}
	m.messages = append(m.messages, msg)
	sortMessages(m.messages)
}

func (m *Manager) markFailed(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].Failed = true
			return
		}
	}
}

func (m *Manager) confirm(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].Optimistic = false
			return
		}
	}
}

func sortMessages(msgs []models.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Before(msgs[j])
	})
}
