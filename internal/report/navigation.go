package report

import (
	"fmt"
	"time"

	"github.com/username/zeiterfassung/pkg/dateutil"
)

// Period is the kind of report period selected for display
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// WeekSelection is the week containing Date
type WeekSelection struct {
	Date time.Time
}

// WeekOf selects the week containing date
func WeekOf(date time.Time) WeekSelection {
	return WeekSelection{Date: dateutil.StartOfDay(date)}
}

// Next shifts the selection forward by exactly 7 calendar days
func (w WeekSelection) Next() WeekSelection {
	return WeekSelection{Date: w.Date.AddDate(0, 0, 7)}
}

// Prev shifts the selection back by exactly 7 calendar days
func (w WeekSelection) Prev() WeekSelection {
	return WeekSelection{Date: w.Date.AddDate(0, 0, -7)}
}

// Start returns the Monday of the selected week
func (w WeekSelection) Start() time.Time {
	return dateutil.StartOfWeek(w.Date)
}

// End returns the Sunday of the selected week
func (w WeekSelection) End() time.Time {
	return dateutil.EndOfWeek(w.Date)
}

// Key identifies the week as YYYY-MM-DD of its Monday
func (w WeekSelection) Key() string {
	return dateutil.FormatDate(w.Start())
}

// String returns a label like "2025-W03"
func (w WeekSelection) String() string {
	year, week := w.Date.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthSelection is a calendar month
type MonthSelection struct {
	Year  int
	Month time.Month
}

// MonthOf selects the month containing date
func MonthOf(date time.Time) MonthSelection {
	return MonthSelection{Year: date.Year(), Month: date.Month()}
}

// Next moves to the following month, wrapping December to January of the next year
func (m MonthSelection) Next() MonthSelection {
	y, mo := dateutil.AddMonths(m.Year, m.Month, 1)
	return MonthSelection{Year: y, Month: mo}
}

// Prev moves to the previous month, wrapping January to December of the previous year
func (m MonthSelection) Prev() MonthSelection {
	y, mo := dateutil.AddMonths(m.Year, m.Month, -1)
	return MonthSelection{Year: y, Month: mo}
}

// First returns the first day of the month
func (m MonthSelection) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.Local)
}

// Key identifies the month as YYYY-MM
func (m MonthSelection) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// String returns the key
func (m MonthSelection) String() string {
	return m.Key()
}
