package xano

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// UserQuery filters the admin user list
type UserQuery struct {
	Role     Role
	IsActive *bool
	Page     int
	PerPage  int
}

func (q UserQuery) values() url.Values {
	v := url.Values{}
	if q.Role != "" {
		v.Set("role", string(q.Role))
	}
	if q.IsActive != nil {
		v.Set("is_active", strconv.FormatBool(*q.IsActive))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	return v
}

// UserUpdate changes a user's role or activation
type UserUpdate struct {
	Role     *Role `json:"role,omitempty"`
	IsActive *bool `json:"is_active,omitempty"`
}

// ListUsers lists accounts (admin)
func (c *Client) ListUsers(ctx context.Context, q UserQuery) (*Page[User], error) {
	var page Page[User]
	if err := c.doRequest(ctx, http.MethodGet, GroupAdmin, "/get_users_list", q.values(), nil, &page); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &page, nil
}

// GetUser fetches one account (admin)
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))

	var user User
	if err := c.doRequest(ctx, http.MethodGet, GroupAdmin, "/get_user_id", q, nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// UserTimeEntries lists another user's time entries (admin)
func (c *Client) UserTimeEntries(ctx context.Context, userID int64, q TimeEntryQuery) (*Page[TimeEntry], error) {
	v := q.values()
	v.Set("user_id", strconv.FormatInt(userID, 10))

	var page Page[TimeEntry]
	if err := c.doRequest(ctx, http.MethodGet, GroupAdmin, "/user_time_entries", v, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to get time entries of user %d: %w", userID, err)
	}
	return &page, nil
}

// UpdateUser changes role or activation of an account (admin)
func (c *Client) UpdateUser(ctx context.Context, id int64, req UserUpdate) (*User, error) {
	if req.Role != nil && !req.Role.Valid() {
		return nil, fmt.Errorf("invalid user update: unknown role %q", *req.Role)
	}

	body := struct {
		ID int64 `json:"id"`
		UserUpdate
	}{ID: id, UserUpdate: req}

	var user User
	if err := c.doRequest(ctx, http.MethodPatch, GroupAdmin, "/patch_user", nil, body, &user); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}

	c.logger.Info("User updated",
		zap.Int64("id", id),
		zap.String("role", string(user.Role)),
		zap.Bool("is_active", user.IsActive))
	return &user, nil
}
