package timeclock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/zeiterfassung/internal/xano"
)

func TestElapsed(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"same instant", start, 0},
		{"truncates sub-second", start.Add(90*time.Minute + 700*time.Millisecond), 90 * time.Minute},
		{"future start", start.Add(-time.Minute), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Elapsed(start, tt.now))
		})
	}

	assert.Equal(t, time.Duration(0), Elapsed(time.Time{}, start))
}

func TestElapsedDoesNotDriftAcrossSkippedTicks(t *testing.T) {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	// A tick delayed by several seconds must land on the same value as
	// one computed from scratch
	assert.Equal(t, 3*time.Hour+7*time.Second, Elapsed(start, start.Add(3*time.Hour+7*time.Second+300*time.Millisecond)))
}

func TestProgressAndFormatClock(t *testing.T) {
	assert.InDelta(t, 50.0, Progress(4*time.Hour, 8*time.Hour), 0.001)
	assert.InDelta(t, 100.0, Progress(10*time.Hour, 8*time.Hour), 0.001)
	assert.Equal(t, 0.0, Progress(0, 0))
	assert.Equal(t, 100.0, Progress(time.Hour, 0))

	assert.Equal(t, "00:00:00", FormatClock(0))
	assert.Equal(t, "01:02:03", FormatClock(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "27:00:00", FormatClock(27*time.Hour))
	assert.Equal(t, "00:00:00", FormatClock(-time.Second))
}

func TestStatusAt(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	idle := StatusAt(nil, now, 0)
	assert.False(t, idle.Running)
	assert.Equal(t, DefaultDailyTarget, idle.Target)
	assert.Equal(t, "Kein Timer aktiv", idle.String())

	timer := &xano.TimeClock{ID: 5, StartedAt: xano.NewTimestamp(now.Add(-2 * time.Hour)), Comment: "Projekt"}
	s := StatusAt(timer, now, 8*time.Hour)
	assert.True(t, s.Running)
	assert.Equal(t, int64(5), s.TimerID)
	assert.Equal(t, 2*time.Hour, s.Elapsed)
	assert.InDelta(t, 25.0, s.Progress, 0.001)
	assert.Equal(t, "Arbeit 02:00:00 (2.0h / 8h, 25%)", s.String())

	timer.IsBreak = true
	assert.Contains(t, StatusAt(timer, now, 8*time.Hour).String(), "Pause")
}

type fakeSource struct {
	mu    sync.Mutex
	calls int
	timer *xano.TimeClock
	err   error
}

func (f *fakeSource) CurrentTimer(ctx context.Context) (*xano.TimeClock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.timer, f.err
}

func (f *fakeSource) set(timer *xano.TimeClock) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timer = timer
}

func (f *fakeSource) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestWatcherSync(t *testing.T) {
	started := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	src := &fakeSource{}
	w := NewWatcher(src, WatcherOptions{}, zap.NewNop())
	w.now = func() time.Time { return started.Add(time.Hour) }

	require.NoError(t, w.Sync(context.Background()))
	assert.False(t, w.Status().Running)

	src.set(&xano.TimeClock{ID: 1, StartedAt: xano.NewTimestamp(started)})
	require.NoError(t, w.Sync(context.Background()))
	status := w.Status()
	assert.True(t, status.Running)
	assert.Equal(t, time.Hour, status.Elapsed)

	// A failed sync keeps the last known timer
	src.mu.Lock()
	src.err = errors.New("offline")
	src.mu.Unlock()
	assert.Error(t, w.Sync(context.Background()))
	assert.True(t, w.Status().Running)
}

func TestWatcherRunTicksAndResyncs(t *testing.T) {
	src := &fakeSource{timer: &xano.TimeClock{ID: 9, StartedAt: xano.NewTimestamp(time.Now().Add(-time.Minute))}}
	w := NewWatcher(src, WatcherOptions{
		TickInterval:   5 * time.Millisecond,
		ResyncInterval: 10 * time.Millisecond,
	}, zap.NewNop())

	ticks := make(chan Status, 100)
	w.OnTick(func(s Status) {
		select {
		case ticks <- s:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for i := 0; i < 5; i++ {
		select {
		case s := <-ticks:
			assert.True(t, s.Running)
			assert.GreaterOrEqual(t, s.Elapsed, time.Minute)
		case <-time.After(2 * time.Second):
			t.Fatal("no tick received")
		}
	}

	require.Eventually(t, func() bool { return src.count() >= 2 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestStartWithoutTrayFallsBackToRun(t *testing.T) {
	w := NewWatcher(&fakeSource{}, WatcherOptions{TickInterval: time.Millisecond}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, w.Start(ctx))
}

func TestClockIcon(t *testing.T) {
	icon := clockIcon()
	require.Greater(t, len(icon), 22)
	// ICONDIR: reserved 0, type 1, count 1
	assert.Equal(t, []byte{0, 0, 1, 0, 1, 0}, icon[:6])
	assert.Equal(t, byte(16), icon[6])
	assert.Len(t, icon, 22+40+16*16*4+16*4)
}
