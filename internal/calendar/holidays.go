package calendar

import "time"

// Easter calculates Easter Sunday of the Gregorian year using the Gauss
// algorithm (integer arithmetic only). The result is noon UTC so formatting
// to YYYY-MM-DD never shifts the day.
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
}

// BadenWuerttemberg returns all public holidays in Baden-Württemberg for the
// given year as YYYY-MM-DD -> name
func BadenWuerttemberg(year int) map[string]string {
	holidays := make(map[string]string, 12)

	// Fixed holidays
	holidays[fixedDate(year, time.January, 1)] = "Neujahr"
	holidays[fixedDate(year, time.January, 6)] = "Heilige Drei Könige"
	holidays[fixedDate(year, time.May, 1)] = "Tag der Arbeit"
	holidays[fixedDate(year, time.October, 3)] = "Tag der Deutschen Einheit"
	holidays[fixedDate(year, time.November, 1)] = "Allerheiligen"
	holidays[fixedDate(year, time.December, 25)] = "1. Weihnachtstag"
	holidays[fixedDate(year, time.December, 26)] = "2. Weihnachtstag"

	// Easter-based holidays
	easter := Easter(year)
	holidays[dateKey(easter.AddDate(0, 0, -2))] = "Karfreitag"
	holidays[dateKey(easter.AddDate(0, 0, 1))] = "Ostermontag"
	holidays[dateKey(easter.AddDate(0, 0, 39))] = "Christi Himmelfahrt"
	holidays[dateKey(easter.AddDate(0, 0, 50))] = "Pfingstmontag"
	holidays[dateKey(easter.AddDate(0, 0, 60))] = "Fronleichnam"

	return holidays
}

func fixedDate(year int, month time.Month, day int) string {
	return dateKey(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

// GaussCalendar serves the Baden-Württemberg table, memoized per year
type GaussCalendar struct {
	cache *yearCache
}

// NewGaussCalendar creates a new GaussCalendar
func NewGaussCalendar() *GaussCalendar {
	return &GaussCalendar{cache: newYearCache()}
}

// Holidays returns the holiday table for the year
func (gc *GaussCalendar) Holidays(year int) map[string]string {
	return gc.cache.get(year, BadenWuerttemberg)
}

// HolidayName returns the holiday name for the date, derived from the date's own year
func (gc *GaussCalendar) HolidayName(date time.Time) (string, bool) {
	return gc.cache.lookup(date, BadenWuerttemberg)
}
