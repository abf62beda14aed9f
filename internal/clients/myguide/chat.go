package myguide

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/slimenefellah/myguide/internal/models"
)

// sessionData is the wire shape of a chat session.
type sessionData struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updated_at"`
}

func (s sessionData) toModel() *models.Session {
	updated, _ := time.Parse(time.RFC3339, s.UpdatedAt)
	return &models.Session{
		ID:        strconv.FormatInt(s.ID, 10),
		Title:     s.Title,
		UpdatedAt: updated,
	}
}

// messageData is the wire shape of a chat message. The server labels turns
// with message_type "user" or "bot".
type messageData struct {
	ID          int64  `json:"id"`
	Session     int64  `json:"session"`
	MessageType string `json:"message_type"`
	Content     string `json:"content"`
	CreatedAt   string `json:"created_at"`
}

func (m messageData) toModel() models.Message {
	role := models.RoleAssistant
	if m.MessageType == "user" {
		role = models.RoleUser
	}
	created, _ := time.Parse(time.RFC3339, m.CreatedAt)
	return models.Message{
		ID:        strconv.FormatInt(m.ID, 10),
		SessionID: strconv.FormatInt(m.Session, 10),
		Role:      role,
		Content:   m.Content,
		CreatedAt: created,
	}
}

// ActiveSession fetches the server's notion of the active chat session.
// Returns nil without error when no session exists yet.
func (c *Client) ActiveSession(ctx context.Context, token string) (*models.Session, error) {
	var resp struct {
		Session *sessionData `json:"session"`
	}
	if err := c.get(ctx, "/chatbot/sessions/active/", token, &resp); err != nil {
		return nil, err
	}
	if resp.Session == nil {
		return nil, nil
	}
	return resp.Session.toModel(), nil
}

// CreateActiveSession creates a new chat session and marks it active
// server-side.
func (c *Client) CreateActiveSession(ctx context.Context, token, title string) (*models.Session, error) {
	body := map[string]string{"title": title}

	var resp sessionData
	if err := c.post(ctx, "/chatbot/sessions/active/", token, body, &resp); err != nil {
		return nil, err
	}
	return resp.toModel(), nil
}

// SessionMessages fetches the full message history for a session in server
// order.
func (c *Client) SessionMessages(ctx context.Context, token, sessionID string) ([]models.Message, error) {
	var resp []messageData
	path := fmt.Sprintf("/chatbot/sessions/%s/messages/", sessionID)
	if err := c.get(ctx, path, token, &resp); err != nil {
		return nil, err
	}

	messages := make([]models.Message, len(resp))
	for i, m := range resp {
		messages[i] = m.toModel()
	}
	return messages, nil
}

// SendMessage posts a user turn and returns the assistant's reply. The server
// records both turns but only the reply comes back; the caller already holds
// the user turn as its optimistic entry.
func (c *Client) SendMessage(ctx context.Context, token, sessionID, content string) (*models.Message, error) {
	body := map[string]interface{}{
		"content":      content,
		"message_type": "user",
		"session":      sessionID,
	}

	var resp struct {
		Reply messageData `json:"reply"`
	}
	if err := c.post(ctx, "/chatbot/messages/", token, body, &resp); err != nil {
		return nil, err
	}

	reply := resp.Reply.toModel()
	return &reply, nil
}

// DeleteSession removes a session and all its messages server-side.
func (c *Client) DeleteSession(ctx context.Context, token, sessionID string) error {
	path := fmt.Sprintf("/chatbot/sessions/%s/", sessionID)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}
