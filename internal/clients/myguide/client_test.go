package myguide

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_ReturnsCredentialSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "amira@example.com", body["email"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access":  "access-1",
			"refresh": "refresh-1",
			"user":    map[string]interface{}{"id": 7, "username": "amira", "email": "amira@example.com"},
		})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	creds, err := client.Login(context.Background(), "amira@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "access-1", creds.AccessToken)
	assert.Equal(t, "refresh-1", creds.RefreshToken)
	require.NotNil(t, creds.User)
	assert.Equal(t, "amira", creds.User.Username)
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, IsUnauthorized},
		{"forbidden", http.StatusForbidden, IsForbidden},
		{"not found", http.StatusNotFound, IsNotFound},
		{"validation", http.StatusBadRequest, IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]string{"detail": "nope"})
			}))
			defer srv.Close()

			client := NewClient(WithBaseURL(srv.URL))
			_, err := client.GetProfile(context.Background(), "token")
			require.Error(t, err)
			assert.True(t, tt.check(err))
			assert.False(t, IsNetwork(err))

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestNetworkError_NotUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetProfile(context.Background(), "token")
	require.Error(t, err)

	assert.True(t, IsNetwork(err), "transport failure must be a NetworkError")
	assert.False(t, IsUnauthorized(err), "transport failure must never look like an auth failure")
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 1, "username": "x"})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetProfile(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestActiveSession_NilWhenNoneExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"session": nil})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	session, err := client.ActiveSession(context.Background(), "tok")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionMessages_MapsRolesAndIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chatbot/sessions/12/messages/", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 1, "session": 12, "message_type": "user", "content": "hi", "created_at": "2025-06-01T10:00:00Z"},
			{"id": 2, "session": 12, "message_type": "bot", "content": "hello", "created_at": "2025-06-01T10:00:01Z"},
		})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	msgs, err := client.SessionMessages(context.Background(), "tok", "12")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "1", msgs[0].ID)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Equal(t, "12", msgs[0].SessionID)
}

func TestRefreshToken_UnauthorizedWhenRevoked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "token blacklisted"})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.RefreshToken(context.Background(), "stale-refresh")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestReadDetail_FallsBackToRawBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetProfile(context.Background(), "tok")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream exploded", apiErr.Message)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
