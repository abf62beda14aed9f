package myguide

import (
	"context"

	"github.com/slimenefellah/myguide/internal/models"
)

// loginResponse is the wire shape of POST /auth/login/.
type loginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *models.User `json:"user"`
}

// Login exchanges an email/password pair for a credential set.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Credentials, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp loginResponse
	if err := c.post(ctx, "/auth/login/", "", body, &resp); err != nil {
		return nil, err
	}

	return &models.Credentials{
		AccessToken:  resp.Access,
		RefreshToken: resp.Refresh,
		User:         resp.User,
	}, nil
}

// RegisterRequest holds the fields for account creation.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Register creates a new account. The caller still logs in afterwards; the
// server does not issue tokens on registration.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	var user models.User
	if err := c.post(ctx, "/auth/register/", "", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RefreshToken trades a refresh token for a fresh access token. It is called
// outside the authenticated transport path: a 401 here means the refresh
// token itself is no longer honoured.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refresh": refreshToken}

	var resp struct {
		Access string `json:"access"`
	}
	if err := c.post(ctx, "/auth/token/refresh/", "", body, &resp); err != nil {
		return "", err
	}
	return resp.Access, nil
}

// Logout posts the refresh token for server-side blacklisting. Local
// credential clearing is the credential store's job and happens regardless
// of this call's outcome.
func (c *Client) Logout(ctx context.Context, token, refreshToken string) error {
	body := map[string]string{"refresh": refreshToken}
	return c.post(ctx, "/auth/logout/", token, body, nil)
}

// GetProfile fetches the account behind the access token. The route guard
// uses this as its credential probe.
func (c *Client) GetProfile(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/auth/profile/", token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile saves profile changes and returns the updated account.
func (c *Client) UpdateProfile(ctx context.Context, token string, user *models.User) (*models.User, error) {
	var updated models.User
	if err := c.do(ctx, "PUT", "/auth/profile/", token, user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ChangePassword replaces the account password.
func (c *Client) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	body := map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	}
	return c.do(ctx, "PUT", "/auth/change-password/", token, body, nil)
}
