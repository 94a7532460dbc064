package xano

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/username/zeiterfassung/pkg/dateutil"
)

// TimeEntryCreate describes a manual time entry
type TimeEntryCreate struct {
	Start   time.Time
	End     time.Time
	IsBreak bool
	Comment string
}

// Validate checks that the interval is well-formed
func (r TimeEntryCreate) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("start and end are required")
	}
	if !r.End.After(r.Start) {
		return fmt.Errorf("end must be after start")
	}
	return nil
}

type timeEntryCreateBody struct {
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
	IsBreak bool   `json:"is_break"`
	Comment string `json:"comment,omitempty"`
}

// TimeEntryUpdate is a partial update; nil fields are left unchanged
type TimeEntryUpdate struct {
	Start   *time.Time
	End     *time.Time
	IsBreak *bool
	Comment *string
}

type timeEntryUpdateBody struct {
	Start   *int64  `json:"start,omitempty"`
	End     *int64  `json:"end,omitempty"`
	IsBreak *bool   `json:"is_break,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// TimeEntryQuery filters time entry listings
type TimeEntryQuery struct {
	StartDate time.Time
	EndDate   time.Time
	Page      int
	PerPage   int
}

func (q TimeEntryQuery) values() url.Values {
	v := url.Values{}
	if !q.StartDate.IsZero() {
		v.Set("start_date", dateutil.FormatDate(q.StartDate))
	}
	if !q.EndDate.IsZero() {
		v.Set("end_date", dateutil.FormatDate(q.EndDate))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	return v
}

// CreateTimeEntry stores a manual time entry
func (c *Client) CreateTimeEntry(ctx context.Context, req TimeEntryCreate) (*TimeEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid time entry: %w", err)
	}

	body := timeEntryCreateBody{
		Start:   dateutil.ToMillis(req.Start),
		End:     dateutil.ToMillis(req.End),
		IsBreak: req.IsBreak,
		Comment: req.Comment,
	}

	var entry TimeEntry
	if err := c.doRequest(ctx, http.MethodPost, GroupTimeEntries, "/create", nil, body, &entry); err != nil {
		return nil, fmt.Errorf("failed to create time entry: %w", err)
	}

	c.logger.Info("Time entry created",
		zap.Int64("id", entry.ID),
		zap.Time("start", req.Start),
		zap.Time("end", req.End),
		zap.Bool("is_break", req.IsBreak))
	return &entry, nil
}

// ListTimeEntries lists the signed-in user's entries
func (c *Client) ListTimeEntries(ctx context.Context, q TimeEntryQuery) (*Page[TimeEntry], error) {
	var page Page[TimeEntry]
	if err := c.doRequest(ctx, http.MethodGet, GroupTimeEntries, "/list", q.values(), nil, &page); err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	return &page, nil
}

// ListAllTimeEntries lists entries of all users (office/admin)
func (c *Client) ListAllTimeEntries(ctx context.Context, page, limit int) (*Page[TimeEntry], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	q := url.Values{}
	q.Set("p", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var result Page[TimeEntry]
	if err := c.doRequest(ctx, http.MethodGet, GroupTimeEntries, "/time_entries", q, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list all time entries: %w", err)
	}
	return &result, nil
}

// GetTimeEntry fetches one entry
func (c *Client) GetTimeEntry(ctx context.Context, id int64) (*TimeEntry, error) {
	var entry TimeEntry
	if err := c.doRequest(ctx, http.MethodGet, GroupMain, fmt.Sprintf("/time-entries/%d", id), nil, nil, &entry); err != nil {
		return nil, fmt.Errorf("failed to get time entry %d: %w", id, err)
	}
	return &entry, nil
}

// UpdateTimeEntry patches an entry
func (c *Client) UpdateTimeEntry(ctx context.Context, id int64, req TimeEntryUpdate) (*TimeEntry, error) {
	body := timeEntryUpdateBody{
		IsBreak: req.IsBreak,
		Comment: req.Comment,
	}
	if req.Start != nil {
		ms := dateutil.ToMillis(*req.Start)
		body.Start = &ms
	}
	if req.End != nil {
		ms := dateutil.ToMillis(*req.End)
		body.End = &ms
	}
	if req.Start != nil && req.End != nil && !req.End.After(*req.Start) {
		return nil, fmt.Errorf("invalid time entry: end must be after start")
	}

	var entry TimeEntry
	if err := c.doRequest(ctx, http.MethodPatch, GroupMain, fmt.Sprintf("/time-entries/%d", id), nil, body, &entry); err != nil {
		return nil, fmt.Errorf("failed to update time entry %d: %w", id, err)
	}

	c.logger.Info("Time entry updated", zap.Int64("id", id))
	return &entry, nil
}

// DeleteTimeEntry removes an entry
func (c *Client) DeleteTimeEntry(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, GroupMain, fmt.Sprintf("/time-entries/%d", id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete time entry %d: %w", id, err)
	}

	c.logger.Info("Time entry deleted", zap.Int64("id", id))
	return nil
}
