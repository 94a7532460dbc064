package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/username/zeiterfassung/internal/calendar"
	"github.com/username/zeiterfassung/internal/report"
	"github.com/username/zeiterfassung/pkg/dateutil"
)

// ReportSource fetches reports from the backend
type ReportSource interface {
	WeekReport(ctx context.Context, date time.Time) (*report.WeekReport, error)
	MonthReport(ctx context.Context, year int, month time.Month) (*report.MonthReport, error)
}

// ReportCache stores the last good copy of each report
type ReportCache interface {
	PutWeek(rep *report.WeekReport) error
	GetWeek(weekStart time.Time) (*report.WeekReport, time.Time, bool, error)
	PutMonth(rep *report.MonthReport) error
	GetMonth(year int, month time.Month) (*report.MonthReport, time.Time, bool, error)
}

// WeekView is a week report prepared for display
type WeekView struct {
	Report    *report.WeekReport  `json:"report"`
	Rows      []report.Cell       `json:"rows"`
	Progress  float64             `json:"progress"`
	Band      report.ProgressBand `json:"band"`
	Stale     bool                `json:"stale"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// MonthView is a month report prepared for display
type MonthView struct {
	Report    *report.MonthReport `json:"report"`
	Grid      report.Grid         `json:"grid"`
	Progress  float64             `json:"progress"`
	Band      report.ProgressBand `json:"band"`
	Stale     bool                `json:"stale"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// Holiday is one named holiday
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// Service combines backend reports, the holiday calendar and the offline cache
type Service struct {
	source   ReportSource
	cache    ReportCache
	calendar calendar.HolidayCalendar
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new Service. cache may be nil.
func NewService(source ReportSource, cache ReportCache, cal calendar.HolidayCalendar, logger *zap.Logger) *Service {
	return &Service{
		source:   source,
		cache:    cache,
		calendar: cal,
		logger:   logger,
		now:      time.Now,
	}
}

// Week returns the week containing date. When the backend is unreachable a
// cached copy is returned and marked stale.
func (s *Service) Week(ctx context.Context, date time.Time) (*WeekView, error) {
	rep, err := s.source.WeekReport(ctx, date)
	if err == nil {
		if s.cache != nil {
			if cacheErr := s.cache.PutWeek(rep); cacheErr != nil {
				s.logger.Warn("Failed to cache week report", zap.Error(cacheErr))
			}
		}
		return s.weekView(rep, false, s.now()), nil
	}

	if s.cache == nil || ctx.Err() != nil {
		return nil, err
	}

	monday := dateutil.StartOfWeek(date)
	cached, fetchedAt, ok, cacheErr := s.cache.GetWeek(monday)
	if cacheErr != nil {
		s.logger.Warn("Failed to read cached week report", zap.Error(cacheErr))
	}
	if !ok {
		return nil, err
	}

	s.logger.Warn("Backend unavailable, using cached week report",
		zap.String("week_start", dateutil.FormatDate(monday)),
		zap.Time("fetched_at", fetchedAt),
		zap.Error(err))
	return s.weekView(cached, true, fetchedAt), nil
}

// Month returns the month report. Falls back to the cache like Week.
func (s *Service) Month(ctx context.Context, year int, month time.Month) (*MonthView, error) {
	rep, err := s.source.MonthReport(ctx, year, month)
	if err == nil {
		if s.cache != nil {
			if cacheErr := s.cache.PutMonth(rep); cacheErr != nil {
				s.logger.Warn("Failed to cache month report", zap.Error(cacheErr))
			}
		}
		return s.monthView(rep, false, s.now()), nil
	}

	if s.cache == nil || ctx.Err() != nil {
		return nil, err
	}

	cached, fetchedAt, ok, cacheErr := s.cache.GetMonth(year, month)
	if cacheErr != nil {
		s.logger.Warn("Failed to read cached month report", zap.Error(cacheErr))
	}
	if !ok {
		return nil, err
	}

	s.logger.Warn("Backend unavailable, using cached month report",
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Time("fetched_at", fetchedAt),
		zap.Error(err))
	return s.monthView(cached, true, fetchedAt), nil
}

// Holidays lists the holidays of a year in date order
func (s *Service) Holidays(year int) []Holiday {
	table := s.calendar.Holidays(year)
	out := make([]Holiday, 0, len(table))
	for date, name := range table {
		out = append(out, Holiday{Date: date, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// HolidayName resolves a single date
func (s *Service) HolidayName(date time.Time) (string, bool) {
	return s.calendar.HolidayName(date)
}

func (s *Service) weekView(rep *report.WeekReport, stale bool, fetchedAt time.Time) *WeekView {
	progress := rep.Summary.Progress()
	return &WeekView{
		Report:    rep,
		Rows:      report.BuildWeekRows(rep.Days, s.calendar),
		Progress:  progress,
		Band:      report.Band(progress),
		Stale:     stale,
		FetchedAt: fetchedAt,
	}
}

func (s *Service) monthView(rep *report.MonthReport, stale bool, fetchedAt time.Time) *MonthView {
	progress := rep.Summary.Progress()
	return &MonthView{
		Report:    rep,
		Grid:      report.BuildMonthGrid(rep.Days, s.calendar),
		Progress:  progress,
		Band:      report.Band(progress),
		Stale:     stale,
		FetchedAt: fetchedAt,
	}
}

// ParseMonth parses "YYYY-MM" into year and month
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}
