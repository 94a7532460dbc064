package xano

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// StartTimerRequest starts a work or break timer
type StartTimerRequest struct {
	IsBreak bool   `json:"is_break"`
	Comment string `json:"comment,omitempty"`
}

// StopTimerRequest stops the running timer
type StopTimerRequest struct {
	Comment string `json:"comment,omitempty"`
}

// StartTimer starts the time clock
func (c *Client) StartTimer(ctx context.Context, req StartTimerRequest) (*TimeClock, error) {
	var timer TimeClock
	if err := c.doRequest(ctx, http.MethodPost, GroupMain, "/start", nil, req, &timer); err != nil {
		return nil, fmt.Errorf("failed to start timer: %w", err)
	}

	c.logger.Info("Timer started",
		zap.Int64("id", timer.ID),
		zap.Bool("is_break", timer.IsBreak),
		zap.Time("started_at", timer.StartedAt.Time))
	return &timer, nil
}

// StopTimer stops the running timer and returns the resulting time entry
func (c *Client) StopTimer(ctx context.Context, req *StopTimerRequest) (*TimeEntry, error) {
	var body interface{}
	if req != nil {
		body = req
	}

	var resp struct {
		TimeEntry TimeEntry `json:"time_entry"`
	}
	if err := c.doRequest(ctx, http.MethodPost, GroupMain, "/stop", nil, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to stop timer: %w", err)
	}

	c.logger.Info("Timer stopped",
		zap.Int64("entry_id", resp.TimeEntry.ID),
		zap.Duration("duration", resp.TimeEntry.Duration()))
	return &resp.TimeEntry, nil
}

// CurrentTimer returns the running timer, or nil when none is running
func (c *Client) CurrentTimer(ctx context.Context) (*TimeClock, error) {
	var timer *TimeClock
	err := c.doRequest(ctx, http.MethodGet, GroupMain, "/current", nil, nil, &timer)
	if err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get current timer: %w", err)
	}

	if timer == nil || timer.StartedAt.IsZero() {
		return nil, nil
	}
	return timer, nil
}
