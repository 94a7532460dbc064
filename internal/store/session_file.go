package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/username/zeiterfassung/internal/xano"
)

// SessionFile persists the session token and user as JSON with owner-only permissions
type SessionFile struct {
	path   string
	logger *zap.Logger
}

// NewSessionFile creates a new SessionFile
func NewSessionFile(path string, logger *zap.Logger) *SessionFile {
	return &SessionFile{
		path:   path,
		logger: logger,
	}
}

// Path returns the file location
func (sf *SessionFile) Path() string {
	return sf.path
}

// Load reads the session. A missing file yields nil without error.
func (sf *SessionFile) Load() (*xano.SessionData, error) {
	data, err := os.ReadFile(sf.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session xano.SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}

	sf.logger.Debug("Session file loaded", zap.String("path", sf.path))
	return &session, nil
}

// Save writes the session
func (sf *SessionFile) Save(session *xano.SessionData) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if dir := filepath.Dir(sf.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	if err := os.WriteFile(sf.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	sf.logger.Debug("Session file saved", zap.String("path", sf.path))
	return nil
}

// Clear removes the session file
func (sf *SessionFile) Clear() error {
	if err := os.Remove(sf.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
