//go:build windows

package timeclock

import (
	"context"
	"sync"
	"syscall"
	"unsafe"

	"fyne.io/systray"
	"go.uber.org/zap"
)

var (
	user32      = syscall.NewLazyDLL("user32.dll")
	messageBoxW = user32.NewProc("MessageBoxW")
)

const (
	MB_OK              = 0x00000000
	MB_ICONINFORMATION = 0x00000040
)

// TrayApp shows the running timer in the system tray
type TrayApp struct {
	watcher  *Watcher
	logger   *zap.Logger
	quit     chan struct{}
	stopOnce sync.Once
	cancel   context.CancelFunc
}

// NewTrayApp creates a new system tray application
func NewTrayApp(watcher *Watcher, logger *zap.Logger) (*TrayApp, error) {
	return &TrayApp{
		watcher: watcher,
		logger:  logger,
		quit:    make(chan struct{}),
	}, nil
}

// Run starts the tray and the watcher loop (blocks until Quit)
func (t *TrayApp) Run(ctx context.Context) {
	ctx, t.cancel = context.WithCancel(ctx)
	systray.Run(func() { t.onReady(ctx) }, t.onExit)
}

func (t *TrayApp) onReady(ctx context.Context) {
	systray.SetIcon(clockIcon())
	systray.SetTitle("ZE")
	systray.SetTooltip("Zeiterfassung")

	mSync := systray.AddMenuItem("Aktualisieren", "Timer vom Server neu laden")
	systray.AddSeparator()
	mStatus := systray.AddMenuItem("Status", "Aktuellen Timer anzeigen")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Beenden", "Programm beenden")

	go func() {
		if err := t.watcher.Run(ctx); err != nil {
			t.logger.Error("Timer watcher failed", zap.Error(err))
		}
	}()

	go func() {
		for {
			select {
			case <-mSync.ClickedCh:
				t.logger.Info("Sync clicked from tray")
				go func() {
					if err := t.watcher.Sync(ctx); err != nil {
						t.logger.Warn("Timer sync failed", zap.Error(err))
					}
				}()
			case <-mStatus.ClickedCh:
				showMessageBox("Zeiterfassung", t.watcher.Status().String())
			case <-mQuit.ClickedCh:
				t.logger.Info("Quit clicked from tray")
				t.cancel()
				systray.Quit()
				return
			case <-t.quit:
				systray.Quit()
				return
			}
		}
	}()
}

func (t *TrayApp) onExit() {
	t.logger.Info("System tray exited")
}

// Update refreshes the tooltip with the current status
func (t *TrayApp) Update(status Status) {
	systray.SetTooltip(status.String())
	if status.Running {
		systray.SetTitle(FormatClock(status.Elapsed))
	} else {
		systray.SetTitle("ZE")
	}
}

// Stop stops the system tray application
func (t *TrayApp) Stop() {
	t.stopOnce.Do(func() { close(t.quit) })
}

func showMessageBox(title, message string) {
	titlePtr, _ := syscall.UTF16PtrFromString(title)
	messagePtr, _ := syscall.UTF16PtrFromString(message)
	messageBoxW.Call(
		0,
		uintptr(unsafe.Pointer(messagePtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		uintptr(MB_OK|MB_ICONINFORMATION),
	)
}
