package xano

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/username/zeiterfassung/internal/report"
	"github.com/username/zeiterfassung/pkg/dateutil"
)

type wireEntry struct {
	ID            int64     `json:"id"`
	Start         Timestamp `json:"start"`
	End           Timestamp `json:"end"`
	IsBreak       bool      `json:"is_break"`
	Comment       *string   `json:"comment"`
	DurationHours Number    `json:"duration_hours"`
}

type wireDay struct {
	Date        string      `json:"date"`
	Weekday     string      `json:"weekday"`
	WorkedHours Number      `json:"worked_hours"`
	ShouldHours Number      `json:"should_hours"`
	Entries     []wireEntry `json:"entries"`
}

// legacyTotals are the summary field names used by older backend versions.
// The difference (overtime_delta) is not decoded; it is always recomputed.
type legacyTotals struct {
	TotalHours    *Number `json:"total_hours"`
	ExpectedHours *Number `json:"expected_hours"`
}

type wireSummary struct {
	TotalWorked *Number `json:"total_worked"`
	TotalShould *Number `json:"total_should"`
	legacyTotals
}

type wireWeekReport struct {
	WeekStart string       `json:"week_start"`
	WeekEnd   string       `json:"week_end"`
	Days      []wireDay    `json:"days"`
	Summary   *wireSummary `json:"summary"`
	legacyTotals
}

type wireMonthReport struct {
	Year      Number       `json:"year"`
	Month     Number       `json:"month"`
	MonthName string       `json:"month_name"`
	Days      []wireDay    `json:"days"`
	Summary   *wireSummary `json:"summary"`
	legacyTotals
}

// WeekReport fetches the report of the week containing date
func (c *Client) WeekReport(ctx context.Context, date time.Time) (*report.WeekReport, error) {
	q := url.Values{}
	q.Set("date", dateutil.FormatDate(date))

	var raw wireWeekReport
	if err := c.doRequest(ctx, http.MethodGet, GroupReports, "/week", q, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to get week report: %w", err)
	}

	rep := normalizeWeekReport(&raw, date, c.logger)
	c.logger.Debug("Week report retrieved",
		zap.String("week_start", dateutil.FormatDate(rep.WeekStart)),
		zap.Int("days", len(rep.Days)),
		zap.Float64("total_worked", rep.Summary.TotalWorked))
	return rep, nil
}

// MonthReport fetches the report of a calendar month
func (c *Client) MonthReport(ctx context.Context, year int, month time.Month) (*report.MonthReport, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(int(month)))

	var raw wireMonthReport
	if err := c.doRequest(ctx, http.MethodGet, GroupReports, "/month", q, nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to get month report: %w", err)
	}

	rep := normalizeMonthReport(&raw, year, month, c.logger)
	c.logger.Debug("Month report retrieved",
		zap.Int("year", rep.Year),
		zap.Int("month", int(rep.Month)),
		zap.Int("days", len(rep.Days)),
		zap.Float64("total_worked", rep.Summary.TotalWorked))
	return rep, nil
}

// OvertimeBalance returns the signed-in user's overtime account
func (c *Client) OvertimeBalance(ctx context.Context) (*OvertimeAccount, error) {
	var account OvertimeAccount
	if err := c.doRequest(ctx, http.MethodGet, GroupMain, "/overtime/balance", nil, nil, &account); err != nil {
		return nil, fmt.Errorf("failed to get overtime balance: %w", err)
	}
	return &account, nil
}

// RecalculateOvertime asks the backend to recompute the overtime balance
func (c *Client) RecalculateOvertime(ctx context.Context) (*OvertimeRecalculation, error) {
	var result OvertimeRecalculation
	if err := c.doRequest(ctx, http.MethodPost, GroupMain, "/overtime/recalculate", nil, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to recalculate overtime: %w", err)
	}

	c.logger.Info("Overtime recalculated",
		zap.Int64("user_id", result.UserID),
		zap.Float64("previous_balance", result.PreviousBalance.Float64()),
		zap.Float64("new_balance", result.NewBalance.Float64()))
	return &result, nil
}

func normalizeWeekReport(raw *wireWeekReport, requested time.Time, logger *zap.Logger) *report.WeekReport {
	days := normalizeDays(raw.Days, logger)

	start, err := dateutil.ParseDate(raw.WeekStart)
	if err != nil {
		start = dateutil.StartOfWeek(requested)
	}
	end, err := dateutil.ParseDate(raw.WeekEnd)
	if err != nil {
		end = dateutil.EndOfWeek(start)
	}

	return &report.WeekReport{
		WeekStart: start,
		WeekEnd:   end,
		Days:      days,
		Summary:   normalizeSummary(raw.Summary, raw.legacyTotals, days),
	}
}

func normalizeMonthReport(raw *wireMonthReport, year int, month time.Month, logger *zap.Logger) *report.MonthReport {
	days := normalizeDays(raw.Days, logger)
	rep := &report.MonthReport{
		Year:      int(raw.Year),
		Month:     time.Month(int(raw.Month)),
		MonthName: raw.MonthName,
		Days:      days,
		Summary:   normalizeSummary(raw.Summary, raw.legacyTotals, days),
	}
	if rep.Year == 0 {
		rep.Year = year
	}
	if rep.Month < time.January || rep.Month > time.December {
		rep.Month = month
	}
	if rep.MonthName == "" {
		rep.MonthName = rep.Month.String()
	}
	return rep
}

// normalizeSummary maps current and legacy summary shapes onto report.Summary.
// Each field prefers the current name, then the legacy name inside the summary,
// then the legacy name at the report's top level, then the sum over days.
// Difference is recomputed from the totals rather than taken from the wire.
func normalizeSummary(s *wireSummary, top legacyTotals, days []report.Day) report.Summary {
	var inner wireSummary
	if s != nil {
		inner = *s
	}

	sums := report.Summarize(days)
	worked := firstNumber(sums.TotalWorked, inner.TotalWorked, inner.TotalHours, top.TotalHours)
	should := firstNumber(sums.TotalShould, inner.TotalShould, inner.ExpectedHours, top.ExpectedHours)
	return report.NewSummary(worked, should)
}

// firstNumber returns the first non-nil candidate, or fallback
func firstNumber(fallback float64, candidates ...*Number) float64 {
	for _, n := range candidates {
		if n != nil {
			return n.Float64()
		}
	}
	return fallback
}

func normalizeDays(raw []wireDay, logger *zap.Logger) []report.Day {
	days := make([]report.Day, 0, len(raw))
	for _, d := range raw {
		date, err := dateutil.ParseDate(d.Date)
		if err != nil {
			logger.Warn("Skipping report day with invalid date",
				zap.String("date", d.Date),
				zap.Error(err))
			continue
		}

		entries := make([]report.EntrySummary, 0, len(d.Entries))
		for _, e := range d.Entries {
			entry := report.EntrySummary{
				ID:            e.ID,
				Start:         e.Start.Time,
				End:           e.End.Time,
				IsBreak:       e.IsBreak,
				DurationHours: e.DurationHours.Float64(),
			}
			if e.Comment != nil {
				entry.Comment = *e.Comment
			}
			entries = append(entries, entry)
		}

		days = append(days, report.NewDay(date, d.Weekday, d.WorkedHours.Float64(), d.ShouldHours.Float64(), entries))
	}
	return days
}
