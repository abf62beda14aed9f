package models

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessageBefore_OrdersByTimestamp(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	earlier := Message{ID: "2", CreatedAt: base}
	later := Message{ID: "1", CreatedAt: base.Add(time.Second)}

	assert.True(t, earlier.Before(later))
	assert.False(t, later.Before(earlier))
}

func TestMessageBefore_ServerBeforeLocalOnEqualTimestamps(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	server := Message{ID: "42", CreatedAt: ts}
	local := Message{ID: NewLocalMessageID(), CreatedAt: ts}

	assert.True(t, server.Before(local), "server record should sort before a same-timestamp optimistic entry")
	assert.False(t, local.Before(server))
}

func TestMessageBefore_NumericServerIDs(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// Lexicographic comparison would put "9" after "10"; numeric must not.
	a := Message{ID: "9", CreatedAt: ts}
	b := Message{ID: "10", CreatedAt: ts}

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
}

func TestMessageOrdering_UserTurnPrecedesReply(t *testing.T) {
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	optimistic := Message{ID: NewLocalMessageID(), Role: RoleUser, CreatedAt: ts, Optimistic: true}
	reply := Message{ID: "100", Role: RoleAssistant, CreatedAt: ts.Add(50 * time.Millisecond)}

	msgs := []Message{reply, optimistic}
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Before(msgs[j]) })

	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
}

func TestCredentialsComplete(t *testing.T) {
	assert.True(t, Credentials{}.Complete())
	assert.True(t, Credentials{AccessToken: "a", RefreshToken: "r"}.Complete())
	assert.True(t, Credentials{RefreshToken: "r"}.Complete())
	assert.False(t, Credentials{AccessToken: "a"}.Complete(), "access token without refresh breaks the pairing invariant")
}

func TestCredentialsAnonymous(t *testing.T) {
	assert.True(t, Credentials{}.Anonymous())
	assert.False(t, Credentials{AccessToken: "a", RefreshToken: "r"}.Anonymous())
}
