package report

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DayState is the mutually exclusive numeric render state of a day
type DayState int

const (
	// DayStateRegular is a workday with should hours
	DayStateRegular DayState = iota + 1
	// DayStateExtraWork is work logged on a day without should hours
	DayStateExtraWork
	// DayStateEmpty is a day without should hours and without work
	DayStateEmpty
)

// String returns the state name
func (s DayState) String() string {
	switch s {
	case DayStateRegular:
		return "regular"
	case DayStateExtraWork:
		return "extra"
	case DayStateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Classification describes how a day is rendered. Weekend and Holiday are
// independent flags; State is exactly one of the DayState values.
type Classification struct {
	State       DayState `json:"state"`
	Weekend     bool     `json:"weekend"`
	Holiday     bool     `json:"holiday"`
	HolidayName string   `json:"holiday_name,omitempty"`
}

// Dimmed reports whether the day is a non-working calendar day (weekend or holiday)
func (c Classification) Dimmed() bool {
	return c.Weekend || c.Holiday
}

// ProgressPercentage returns worked/should as a percentage capped at 100.
// With should == 0 any work counts as 100%, no work as 0%.
func ProgressPercentage(worked, should float64) float64 {
	worked = finite(worked)
	should = finite(should)

	if should == 0 {
		if worked > 0 {
			return 100
		}
		return 0
	}
	return math.Min((worked/should)*100, 100)
}

// Classify determines the render state of a day. holidayName is empty when
// the date is not a holiday.
func Classify(day Day, holidayName string) Classification {
	c := Classification{
		Weekend:     day.IsWeekend(),
		Holiday:     holidayName != "",
		HolidayName: holidayName,
	}

	switch {
	case day.ShouldHours > 0:
		c.State = DayStateRegular
	case day.WorkedHours > 0:
		c.State = DayStateExtraWork
	default:
		c.State = DayStateEmpty
	}

	return c
}

var weekdayColumns = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// WeekOffset returns the number of blank leading cells in a Monday-first
// 7-column grid for a sequence starting on the given weekday. Unknown names map to 0.
func WeekOffset(weekday string) int {
	return weekdayColumns[normalizeWeekday(weekday)]
}

func normalizeWeekday(weekday string) string {
	return strings.ToLower(strings.TrimSpace(weekday))
}

// dayOffset is WeekOffset for a day, falling back to the date when the
// weekday name is unknown
func dayOffset(d Day) int {
	if col, ok := weekdayColumns[normalizeWeekday(d.Weekday)]; ok {
		return col
	}
	return WeekdayOffset(d.Date.Weekday())
}

// WeekdayOffset is WeekOffset for a time.Weekday
func WeekdayOffset(weekday time.Weekday) int {
	return (int(weekday) + 6) % 7
}

// Summarize sums worked and should hours over days using exact decimal arithmetic
func Summarize(days []Day) Summary {
	worked := decimal.Zero
	should := decimal.Zero
	for _, d := range days {
		worked = worked.Add(decimal.NewFromFloat(finite(d.WorkedHours)))
		should = should.Add(decimal.NewFromFloat(finite(d.ShouldHours)))
	}

	w, _ := worked.Float64()
	s, _ := should.Float64()
	return Summary{
		TotalWorked: w,
		TotalShould: s,
		Difference:  mustFloat(worked.Sub(should)),
	}
}

// ProgressBand buckets a progress percentage for coloring
type ProgressBand int

const (
	BandLow ProgressBand = iota + 1
	BandMedium
	BandHigh
	BandComplete
)

// Band returns the progress band: >=100 complete, >=75 high, >=50 medium, else low
func Band(progress float64) ProgressBand {
	switch {
	case progress >= 100:
		return BandComplete
	case progress >= 75:
		return BandHigh
	case progress >= 50:
		return BandMedium
	default:
		return BandLow
	}
}

func mustFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
