package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/zeiterfassung/internal/calendar"
	"github.com/username/zeiterfassung/internal/report"
)

type fakeSource struct {
	week  *report.WeekReport
	month *report.MonthReport
	err   error
}

func (f *fakeSource) WeekReport(_ context.Context, _ time.Time) (*report.WeekReport, error) {
	return f.week, f.err
}

func (f *fakeSource) MonthReport(_ context.Context, _ int, _ time.Month) (*report.MonthReport, error) {
	return f.month, f.err
}

type memCache struct {
	weeks  map[string]*report.WeekReport
	months map[string]*report.MonthReport
}

func newMemCache() *memCache {
	return &memCache{weeks: map[string]*report.WeekReport{}, months: map[string]*report.MonthReport{}}
}

func (m *memCache) PutWeek(rep *report.WeekReport) error {
	m.weeks[rep.WeekStart.Format("2006-01-02")] = rep
	return nil
}

func (m *memCache) GetWeek(start time.Time) (*report.WeekReport, time.Time, bool, error) {
	rep, ok := m.weeks[start.Format("2006-01-02")]
	return rep, time.Time{}, ok, nil
}

func (m *memCache) PutMonth(rep *report.MonthReport) error {
	m.months[report.MonthSelection{Year: rep.Year, Month: rep.Month}.Key()] = rep
	return nil
}

func (m *memCache) GetMonth(year int, month time.Month) (*report.MonthReport, time.Time, bool, error) {
	rep, ok := m.months[report.MonthSelection{Year: year, Month: month}.Key()]
	return rep, time.Time{}, ok, nil
}

func januaryReport() *report.MonthReport {
	var days []report.Day
	for d := 1; d <= 31; d++ {
		date := time.Date(2025, time.January, d, 0, 0, 0, 0, time.Local)
		should := 8.0
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			should = 0
		}
		days = append(days, report.NewDay(date, date.Weekday().String(), 4, should, nil))
	}
	return &report.MonthReport{
		Year:    2025,
		Month:   time.January,
		Days:    days,
		Summary: report.Summarize(days),
	}
}

func TestMonthView(t *testing.T) {
	src := &fakeSource{month: januaryReport()}
	svc := NewService(src, newMemCache(), calendar.NewGaussCalendar(), zap.NewNop())

	view, err := svc.Month(context.Background(), 2025, time.January)
	require.NoError(t, err)
	assert.False(t, view.Stale)

	// January 2025 starts on a Wednesday
	assert.Equal(t, 2, view.Grid.Offset)
	first := view.Grid.Cells[2]
	assert.True(t, first.Class.Holiday)
	assert.Equal(t, "Neujahr", first.Class.HolidayName)

	epiphany := view.Grid.Cells[2+5]
	assert.Equal(t, "Heilige Drei Könige", epiphany.Class.HolidayName)

	// 23 workdays * 8h should, 31 * 4h worked
	assert.Equal(t, 124.0, view.Report.Summary.TotalWorked)
	assert.Equal(t, 184.0, view.Report.Summary.TotalShould)
	assert.InDelta(t, 124.0/184.0*100, view.Progress, 1e-9)
	assert.Equal(t, report.BandMedium, view.Band)
}

func TestFallbackToCache(t *testing.T) {
	cache := newMemCache()
	src := &fakeSource{month: januaryReport()}
	svc := NewService(src, cache, calendar.NewGaussCalendar(), zap.NewNop())

	_, err := svc.Month(context.Background(), 2025, time.January)
	require.NoError(t, err)

	src.err = errors.New("connection refused")
	view, err := svc.Month(context.Background(), 2025, time.January)
	require.NoError(t, err)
	assert.True(t, view.Stale)
	assert.Len(t, view.Report.Days, 31)

	_, err = svc.Month(context.Background(), 2025, time.February)
	assert.Error(t, err)

	_, err = svc.Week(context.Background(), time.Date(2025, time.January, 8, 0, 0, 0, 0, time.Local))
	assert.Error(t, err)
}

func TestWeekWithoutCache(t *testing.T) {
	monday := time.Date(2025, time.April, 14, 0, 0, 0, 0, time.Local)
	var days []report.Day
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		days = append(days, report.NewDay(d, d.Weekday().String(), 0, 0, nil))
	}
	src := &fakeSource{week: &report.WeekReport{WeekStart: monday, WeekEnd: monday.AddDate(0, 0, 6), Days: days}}
	svc := NewService(src, nil, calendar.NewGaussCalendar(), zap.NewNop())

	view, err := svc.Week(context.Background(), monday)
	require.NoError(t, err)
	require.Len(t, view.Rows, 7)
	assert.Equal(t, "Karfreitag", view.Rows[4].Class.HolidayName)
	assert.Equal(t, report.DayStateEmpty, view.Rows[4].Class.State)
	assert.Equal(t, 0.0, view.Progress)

	src.err = errors.New("down")
	_, err = svc.Week(context.Background(), monday)
	assert.Error(t, err)
}

func TestHolidays(t *testing.T) {
	svc := NewService(&fakeSource{}, nil, calendar.NewGaussCalendar(), zap.NewNop())
	holidays := svc.Holidays(2025)
	require.Len(t, holidays, 12)
	assert.Equal(t, Holiday{Date: "2025-01-01", Name: "Neujahr"}, holidays[0])
	assert.Equal(t, Holiday{Date: "2025-12-26", Name: "2. Weihnachtstag"}, holidays[11])
}

func TestParseMonth(t *testing.T) {
	y, m, err := ParseMonth("2024-12")
	require.NoError(t, err)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.December, m)

	_, _, err = ParseMonth("12/2024")
	assert.Error(t, err)
}
