package render

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/username/zeiterfassung/internal/report"
)

func TestHours(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0h"},
		{7, "7h"},
		{7.5, "7h 30m"},
		{0.25, "0h 15m"},
		{7.999, "8h"},
		{-1.5, "-1h 30m"},
		{math.NaN(), "0h"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Hours(tt.in))
		})
	}
}

func TestSignedHours(t *testing.T) {
	assert.Equal(t, "+1h 30m", SignedHours(1.5))
	assert.Equal(t, "-30m", SignedHours(-0.5))
	assert.Equal(t, "+0h", SignedHours(0))
}

func TestGermanFormatting(t *testing.T) {
	assert.Equal(t, "7,50", Decimal(7.5))
	assert.Equal(t, "87 %", Percent(87.4))
	assert.Equal(t, "03.03.2025", Date(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Mo", WeekdayShort(time.Monday))
	assert.Equal(t, "März", MonthName(time.March))
	assert.Equal(t, "", MonthName(0))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", ProgressBar(50, 10))
	assert.Equal(t, "██████████", ProgressBar(140, 10))
	assert.Equal(t, "░░░░░░░░░░", ProgressBar(-5, 10))
	assert.Equal(t, "", ProgressBar(50, 0))
}

type holidays map[string]string

func (h holidays) HolidayName(date time.Time) (string, bool) {
	name, ok := h[date.Format("2006-01-02")]
	return name, ok
}

func TestMonthGrid(t *testing.T) {
	days := []report.Day{
		report.NewDay(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), "Thursday", 0, 0, nil),
		report.NewDay(time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), "Friday", 7.5, 8, nil),
		report.NewDay(time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC), "Saturday", 2, 0, nil),
	}
	grid := report.BuildMonthGrid(days, holidays{"2025-05-01": "Tag der Arbeit"})

	out := MonthGrid(grid)
	assert.Contains(t, out, "Mo")
	assert.Contains(t, out, "So")
	assert.Contains(t, out, " 1*")
	assert.Contains(t, out, "7h 30m")
	assert.Contains(t, out, " 3+")
	assert.Contains(t, out, "2h")
}

func TestWeekTable(t *testing.T) {
	days := []report.Day{
		report.NewDay(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), "Monday", 8.5, 8, nil),
		report.NewDay(time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), "Saturday", 0, 0, nil),
	}
	out := WeekTable(report.BuildWeekRows(days, nil))

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4) // border + 2 rows + border
	assert.Contains(t, out, "Mo 03.03.")
	assert.Contains(t, out, "8h 30m")
	assert.Contains(t, out, "+30m")
	assert.Contains(t, out, "100 %")
	assert.Contains(t, out, "Wochenende")
}

func TestSummary(t *testing.T) {
	out := Summary(report.NewSummary(23.6, 24))
	assert.Contains(t, out, "Ist:  23h 36m (23,60 h)")
	assert.Contains(t, out, "Soll: 24h (24,00 h)")
	assert.Contains(t, out, "Fehlstunden: 0h 24m")
	assert.Contains(t, out, "98 %")

	assert.Contains(t, Summary(report.NewSummary(9, 8)), "Überstunden: 1h")
}
