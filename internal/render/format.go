package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.German)

var weekdayShort = [...]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"}

var monthNames = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// Hours formats fractional hours as "7h 30m", "8h" or "0h".
// Minutes are rounded; 59.6 minutes carry into the next hour.
func Hours(h float64) string {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		h = 0
	}
	sign := ""
	if h < 0 {
		sign = "-"
		h = -h
	}

	whole := math.Floor(h)
	minutes := math.Round((h - whole) * 60)
	if minutes == 60 {
		whole++
		minutes = 0
	}

	switch {
	case whole == 0 && minutes == 0:
		return "0h"
	case minutes == 0:
		return fmt.Sprintf("%s%.0fh", sign, whole)
	default:
		return fmt.Sprintf("%s%.0fh %.0fm", sign, whole, minutes)
	}
}

// SignedHours formats a difference with an explicit sign, "+1h 30m" or "-45m"
func SignedHours(h float64) string {
	if h < 0 {
		return "-" + strings.TrimPrefix(Hours(-h), "0h ")
	}
	return "+" + strings.TrimPrefix(Hours(h), "0h ")
}

// Decimal formats hours with two decimals in German notation ("1.234,50")
func Decimal(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// Percent formats a percentage without decimals ("87 %")
func Percent(p float64) string {
	return printer.Sprintf("%.0f %%", p)
}

// Date formats a date as DD.MM.YYYY
func Date(t time.Time) string {
	return t.Format("02.01.2006")
}

// WeekdayShort returns the German two-letter weekday
func WeekdayShort(d time.Weekday) string {
	return weekdayShort[d]
}

// MonthName returns the German month name
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// ProgressBar draws a bar of width cells filled to percent
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = math.Max(0, math.Min(100, percent))
	filled := int(math.Round(percent / 100 * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
