package xano

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// LoginRequest holds credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest creates a new account
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Signup registers an account and starts a session
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doPublicRequest(ctx, http.MethodPost, GroupAuth, "/signup", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}
	if err := c.startSession(&resp); err != nil {
		return nil, err
	}

	c.logger.Info("Account created", zap.String("email", req.Email))
	return &resp, nil
}

// Login authenticates and starts a session
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doPublicRequest(ctx, http.MethodPost, GroupAuth, "/login", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if err := c.startSession(&resp); err != nil {
		return nil, err
	}

	c.logger.Info("Logged in",
		zap.String("email", req.Email),
		zap.Int64("user_id", resp.User.ID))
	return &resp, nil
}

func (c *Client) startSession(resp *AuthResponse) error {
	if resp.AuthToken == "" {
		return fmt.Errorf("failed to start session: response contains no auth token")
	}
	var user *User
	if resp.User.ID != 0 || resp.User.Email != "" {
		u := resp.User
		user = &u
	}
	return c.session.Set(resp.AuthToken, user)
}

// Logout ends the session locally. The backend keeps no logout endpoint.
func (c *Client) Logout() error {
	if err := c.session.Clear(); err != nil {
		return err
	}
	c.logger.Info("Logged out")
	return nil
}

// Me returns the signed-in user and refreshes the session's cached copy
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doRequest(ctx, http.MethodGet, GroupAuth, "/me", nil, nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	if err := c.session.SetUser(&user); err != nil {
		c.logger.Warn("Failed to persist user", zap.Error(err))
	}

	c.logger.Debug("Current user identified",
		zap.Int64("id", user.ID),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))
	return &user, nil
}
