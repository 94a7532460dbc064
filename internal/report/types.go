package report

import (
	"math"
	"time"

	"github.com/username/zeiterfassung/pkg/dateutil"
)

// EntrySummary is a time entry contributing to a report day
type EntrySummary struct {
	ID            int64     `json:"id"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	IsBreak       bool      `json:"is_break"`
	Comment       string    `json:"comment,omitempty"`
	DurationHours float64   `json:"duration_hours"`
}

// Day is one calendar day's time accounting
type Day struct {
	Date        time.Time      `json:"date"`
	Weekday     string         `json:"weekday"`
	WorkedHours float64        `json:"worked_hours"`
	ShouldHours float64        `json:"should_hours"`
	Difference  float64        `json:"difference"`
	Entries     []EntrySummary `json:"entries"`
}

// NewDay builds a Day keeping Difference == WorkedHours - ShouldHours.
// Non-finite hour values are treated as 0. An empty weekday is derived from date.
func NewDay(date time.Time, weekday string, worked, should float64, entries []EntrySummary) Day {
	worked = finite(worked)
	should = finite(should)
	if weekday == "" {
		weekday = date.Weekday().String()
	}
	if entries == nil {
		entries = []EntrySummary{}
	}

	return Day{
		Date:        date,
		Weekday:     weekday,
		WorkedHours: worked,
		ShouldHours: should,
		Difference:  worked - should,
		Entries:     entries,
	}
}

// DateKey returns the day's date as YYYY-MM-DD
func (d Day) DateKey() string {
	return dateutil.FormatDate(d.Date)
}

// IsWeekend reports whether the weekday is Saturday or Sunday
func (d Day) IsWeekend() bool {
	return dayOffset(d) >= weekdayColumns["saturday"]
}

// Summary aggregates a week or month
type Summary struct {
	TotalWorked float64 `json:"total_worked"`
	TotalShould float64 `json:"total_should"`
	Difference  float64 `json:"difference"`
}

// NewSummary builds a Summary keeping Difference == TotalWorked - TotalShould
func NewSummary(worked, should float64) Summary {
	worked = finite(worked)
	should = finite(should)
	return Summary{
		TotalWorked: worked,
		TotalShould: should,
		Difference:  worked - should,
	}
}

// Progress returns the capped progress percentage of the summary
func (s Summary) Progress() float64 {
	return ProgressPercentage(s.TotalWorked, s.TotalShould)
}

// WeekReport is the report for one Monday-to-Sunday week
type WeekReport struct {
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`
	Days      []Day     `json:"days"`
	Summary   Summary   `json:"summary"`
}

// MonthReport is the report for one calendar month
type MonthReport struct {
	Year      int        `json:"year"`
	Month     time.Month `json:"month"`
	MonthName string     `json:"month_name"`
	Days      []Day      `json:"days"`
	Summary   Summary    `json:"summary"`
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
