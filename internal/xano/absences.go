package xano

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/username/zeiterfassung/pkg/dateutil"
)

// AbsenceCreate requests an absence
type AbsenceCreate struct {
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Type      AbsenceType `json:"type"`
	Comment   string      `json:"comment,omitempty"`
}

// Validate checks dates and type
func (r AbsenceCreate) Validate() error {
	start, err := dateutil.ParseDate(r.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := dateutil.ParseDate(r.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end_date: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end_date must not be before start_date")
	}
	if !r.Type.Valid() {
		return fmt.Errorf("unknown absence type %q", r.Type)
	}
	return nil
}

// AbsenceUpdate is a partial update, typically a status change
type AbsenceUpdate struct {
	StartDate *string        `json:"start_date,omitempty"`
	EndDate   *string        `json:"end_date,omitempty"`
	Type      *AbsenceType   `json:"type,omitempty"`
	Status    *AbsenceStatus `json:"status,omitempty"`
	Comment   *string        `json:"comment,omitempty"`
}

// AbsenceQuery filters absence listings
type AbsenceQuery struct {
	StartDate string
	EndDate   string
	Status    AbsenceStatus
	Page      int
	PerPage   int
}

func (q AbsenceQuery) values() url.Values {
	v := url.Values{}
	if q.StartDate != "" {
		v.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		v.Set("end_date", q.EndDate)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	return v
}

// CreateAbsence submits a pending absence request
func (c *Client) CreateAbsence(ctx context.Context, req AbsenceCreate) (*Absence, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid absence: %w", err)
	}

	var absence Absence
	if err := c.doRequest(ctx, http.MethodPost, GroupAbsences, "/post_absences", nil, req, &absence); err != nil {
		return nil, fmt.Errorf("failed to create absence: %w", err)
	}

	c.logger.Info("Absence requested",
		zap.Int64("id", absence.ID),
		zap.String("type", string(req.Type)),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate))
	return &absence, nil
}

// ListAbsences lists absences visible to the signed-in user
func (c *Client) ListAbsences(ctx context.Context, q AbsenceQuery) ([]Absence, error) {
	var resp struct {
		Items []Absence `json:"items"`
	}
	if err := c.doRequest(ctx, http.MethodGet, GroupAbsences, "/get_absences", q.values(), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	return resp.Items, nil
}

// UpdateAbsence patches an absence
func (c *Client) UpdateAbsence(ctx context.Context, id int64, req AbsenceUpdate) (*Absence, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, fmt.Errorf("invalid absence: unknown status %q", *req.Status)
	}

	var absence Absence
	if err := c.doRequest(ctx, http.MethodPatch, GroupAbsences, fmt.Sprintf("/absences/%d", id), nil, req, &absence); err != nil {
		return nil, fmt.Errorf("failed to update absence %d: %w", id, err)
	}

	c.logger.Info("Absence updated",
		zap.Int64("id", id),
		zap.String("status", string(absence.Status)))
	return &absence, nil
}

// SetAbsenceStatus approves or rejects an absence
func (c *Client) SetAbsenceStatus(ctx context.Context, id int64, status AbsenceStatus) (*Absence, error) {
	return c.UpdateAbsence(ctx, id, AbsenceUpdate{Status: &status})
}

// DeleteAbsence removes an absence
func (c *Client) DeleteAbsence(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, GroupAbsences, fmt.Sprintf("/delet_absences/%d", id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete absence %d: %w", id, err)
	}

	c.logger.Info("Absence deleted", zap.Int64("id", id))
	return nil
}
