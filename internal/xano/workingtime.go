package xano

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/username/zeiterfassung/pkg/dateutil"
)

// WorkingTime returns the active weekly schedule
func (c *Client) WorkingTime(ctx context.Context) (*WorkingTime, error) {
	var wt WorkingTime
	if err := c.doRequest(ctx, http.MethodGet, GroupMain, "/working-time", nil, nil, &wt); err != nil {
		return nil, fmt.Errorf("failed to get working time: %w", err)
	}
	return &wt, nil
}

// CreateWorkingTime stores a new schedule starting at wt.ValidFrom
func (c *Client) CreateWorkingTime(ctx context.Context, wt WorkingTime) (*WorkingTime, error) {
	if _, err := dateutil.ParseDate(wt.ValidFrom); err != nil {
		return nil, fmt.Errorf("invalid valid_from: %w", err)
	}
	for _, h := range []Number{wt.MondayHours, wt.TuesdayHours, wt.WednesdayHours, wt.ThursdayHours,
		wt.FridayHours, wt.SaturdayHours, wt.SundayHours} {
		if h < 0 || h > 24 {
			return nil, fmt.Errorf("invalid working time: daily hours must be between 0 and 24")
		}
	}

	body := struct {
		ValidFrom            string  `json:"valid_from"`
		MondayHours          float64 `json:"monday_hours"`
		TuesdayHours         float64 `json:"tuesday_hours"`
		WednesdayHours       float64 `json:"wednesday_hours"`
		ThursdayHours        float64 `json:"thursday_hours"`
		FridayHours          float64 `json:"friday_hours"`
		SaturdayHours        float64 `json:"saturday_hours"`
		SundayHours          float64 `json:"sunday_hours"`
		WorksOnPublicHoliday bool    `json:"works_on_public_holiday"`
	}{
		ValidFrom:            wt.ValidFrom,
		MondayHours:          wt.MondayHours.Float64(),
		TuesdayHours:         wt.TuesdayHours.Float64(),
		WednesdayHours:       wt.WednesdayHours.Float64(),
		ThursdayHours:        wt.ThursdayHours.Float64(),
		FridayHours:          wt.FridayHours.Float64(),
		SaturdayHours:        wt.SaturdayHours.Float64(),
		SundayHours:          wt.SundayHours.Float64(),
		WorksOnPublicHoliday: wt.WorksOnPublicHoliday,
	}

	var created WorkingTime
	if err := c.doRequest(ctx, http.MethodPost, GroupMain, "/working-time", nil, body, &created); err != nil {
		return nil, fmt.Errorf("failed to create working time: %w", err)
	}

	c.logger.Info("Working time saved",
		zap.String("valid_from", wt.ValidFrom),
		zap.Float64("weekly_hours", wt.WeeklyHours()))
	return &created, nil
}
