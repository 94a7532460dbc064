package xano

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// SessionData is the persisted form of a session
type SessionData struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

// SessionStore persists a session between process runs
type SessionStore interface {
	Load() (*SessionData, error)
	Save(data *SessionData) error
	Clear() error
}

// Session holds the bearer token and the signed-in user. It is created
// explicitly, restored from its store with Restore and torn down with Clear.
type Session struct {
	mu     sync.RWMutex
	token  string
	user   *User
	store  SessionStore
	logger *zap.Logger
}

// NewSession creates an empty session backed by store (may be nil)
func NewSession(store SessionStore, logger *zap.Logger) *Session {
	return &Session{
		store:  store,
		logger: logger,
	}
}

// Restore loads a persisted session, if any
func (s *Session) Restore() error {
	if s.store == nil {
		return nil
	}

	data, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if data == nil || data.Token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = data.Token
	s.user = data.User
	s.mu.Unlock()

	if data.User != nil {
		s.logger.Debug("Session restored",
			zap.Int64("user_id", data.User.ID),
			zap.String("email", data.User.Email))
	}
	return nil
}

// Set replaces token and user and persists them
func (s *Session) Set(token string, user *User) error {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	if err := s.store.Save(&SessionData{Token: token, User: user}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// SetUser updates the cached user without touching the token
func (s *Session) SetUser(user *User) error {
	s.mu.Lock()
	token := s.token
	s.user = user
	s.mu.Unlock()

	if s.store == nil || token == "" {
		return nil
	}
	if err := s.store.Save(&SessionData{Token: token, User: user}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear drops the token and removes the persisted session
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Authenticated reports whether a token is present
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// User returns the cached user, or nil
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// TokenSource returns a bearer token source for the current token
func (s *Session) TokenSource() oauth2.TokenSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: s.token,
		TokenType:   "Bearer",
	})
}
