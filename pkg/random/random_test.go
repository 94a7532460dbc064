package random

import (
	"testing"
	"time"
)

func TestJitter(t *testing.T) {
	tests := []struct {
		name    string
		value   time.Duration
		percent float64
		min     time.Duration
		max     time.Duration
	}{
		{"1s ±20%", time.Second, 20, 800 * time.Millisecond, 1200 * time.Millisecond},
		{"500ms ±10%", 500 * time.Millisecond, 10, 450 * time.Millisecond, 550 * time.Millisecond},
		{"capped at 100%", time.Second, 250, 0, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				result := Jitter(tt.value, tt.percent)
				if result < tt.min || result > tt.max {
					t.Errorf("Jitter(%v, %v) = %v, want in range [%v, %v]",
						tt.value, tt.percent, result, tt.min, tt.max)
				}
			}
		})
	}
}

func TestJitterNoop(t *testing.T) {
	if got := Jitter(time.Second, 0); got != time.Second {
		t.Errorf("Jitter with 0%% = %v, want 1s", got)
	}
	if got := Jitter(0, 50); got != 0 {
		t.Errorf("Jitter of zero duration = %v, want 0", got)
	}
}

func TestBackoff(t *testing.T) {
	if got := Backoff(time.Second, 3, 0); got != 3*time.Second {
		t.Errorf("Backoff(1s, 3, 0) = %v, want 3s", got)
	}
	if got := Backoff(time.Second, 0, 0); got != time.Second {
		t.Errorf("Backoff(1s, 0, 0) = %v, want 1s", got)
	}
}
