//go:build !windows

package timeclock

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// TrayApp represents system tray application (stub for non-Windows platforms)
type TrayApp struct{}

// NewTrayApp creates a new system tray application (not supported on this platform)
func NewTrayApp(watcher *Watcher, logger *zap.Logger) (*TrayApp, error) {
	return nil, errors.New("system tray is only supported on Windows")
}

// Run does nothing on non-Windows platforms
func (t *TrayApp) Run(ctx context.Context) {}

// Update does nothing on non-Windows platforms
func (t *TrayApp) Update(status Status) {}

// Stop does nothing on non-Windows platforms
func (t *TrayApp) Stop() {}
