package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageRole identifies who authored a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Session is a chat conversation. At most one session is active at a time
// for a user; "active" is a pointer held by the session manager, not a
// property of the session itself.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocalIDPrefix marks message IDs generated client-side for optimistic
// entries. The prefix sorts after the server's numeric IDs so an optimistic
// user turn is never displaced by a same-timestamp server record.
const LocalIDPrefix = "local-"

// NewLocalMessageID returns a fresh client-side message ID.
func NewLocalMessageID() string {
	return LocalIDPrefix + uuid.NewString()
}

// Message is one chat turn. Messages are append-only: the list for a session
// only grows, and an optimistic entry is retained as the user-turn record
// (the server never echoes the user message back).
type Message struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`

	// Optimistic marks a locally created entry not yet confirmed by the
	// server. Failed marks an optimistic entry whose send did not succeed;
	// it stays visible so the UI can offer a retry.
	Optimistic bool `json:"optimistic,omitempty"`
	Failed     bool `json:"failed,omitempty"`
}

// IsLocal reports whether the message ID was generated client-side.
func (m Message) IsLocal() bool {
	return strings.HasPrefix(m.ID, LocalIDPrefix)
}

// Before reports whether m sorts before other in display order. The ordering
// key is (CreatedAt, ID); for equal timestamps server IDs sort before local
// IDs, and two server IDs compare numerically when possible.
func (m Message) Before(other Message) bool {
	if !m.CreatedAt.Equal(other.CreatedAt) {
		return m.CreatedAt.Before(other.CreatedAt)
	}
	ml, ol := m.IsLocal(), other.IsLocal()
	if ml != ol {
		return !ml // server record first
	}
	if !ml {
		if a, errA := strconv.ParseInt(m.ID, 10, 64); errA == nil {
			if b, errB := strconv.ParseInt(other.ID, 10, 64); errB == nil {
				return a < b
			}
		}
	}
	return m.ID < other.ID
}
