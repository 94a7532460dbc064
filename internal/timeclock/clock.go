package timeclock

import (
	"fmt"
	"time"

	"github.com/username/zeiterfassung/internal/report"
	"github.com/username/zeiterfassung/internal/xano"
)

// DefaultDailyTarget is the workday length the running timer is measured against
const DefaultDailyTarget = 8 * time.Hour

// Elapsed returns the time since startedAt, truncated to whole seconds.
// It is always derived from the authoritative start so that skipped or
// delayed ticks never accumulate drift. A start in the future yields 0.
func Elapsed(startedAt, now time.Time) time.Duration {
	if startedAt.IsZero() {
		return 0
	}
	d := now.Sub(startedAt)
	if d < 0 {
		return 0
	}
	return d.Truncate(time.Second)
}

// Progress returns elapsed/target as a percentage capped at 100
func Progress(elapsed, target time.Duration) float64 {
	return report.ProgressPercentage(elapsed.Hours(), target.Hours())
}

// FormatClock renders a duration as HH:MM:SS
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// Status is the state of the time clock at one instant
type Status struct {
	Running  bool          `json:"running"`
	TimerID  int64         `json:"timer_id,omitempty"`
	IsBreak  bool          `json:"is_break"`
	Comment  string        `json:"comment,omitempty"`
	Started  time.Time     `json:"started_at,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
	Target   time.Duration `json:"target"`
	Progress float64       `json:"progress"`
}

// String renders the status as a one-line summary
func (s Status) String() string {
	if !s.Running {
		return "Kein Timer aktiv"
	}
	kind := "Arbeit"
	if s.IsBreak {
		kind = "Pause"
	}
	return fmt.Sprintf("%s %s (%.1fh / %.0fh, %.0f%%)",
		kind, FormatClock(s.Elapsed), s.Elapsed.Hours(), s.Target.Hours(), s.Progress)
}

// StatusAt computes the status of timer at now. A nil timer is not running.
func StatusAt(timer *xano.TimeClock, now time.Time, target time.Duration) Status {
	if target <= 0 {
		target = DefaultDailyTarget
	}
	if timer == nil {
		return Status{Target: target}
	}

	elapsed := Elapsed(timer.StartedAt.Time, now)
	return Status{
		Running:  true,
		TimerID:  timer.ID,
		IsBreak:  timer.IsBreak,
		Comment:  timer.Comment,
		Started:  timer.StartedAt.Time,
		Elapsed:  elapsed,
		Target:   target,
		Progress: Progress(elapsed, target),
	}
}
