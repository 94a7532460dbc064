package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/username/zeiterfassung/internal/report"
)

const cellWidth = 9

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(cellWidth).
			Align(lipgloss.Center)

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	holidayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	extraStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	staleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	bandStyles = map[report.ProgressBand]lipgloss.Style{
		report.BandLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		report.BandMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		report.BandHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		report.BandComplete: lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
	}
)

// Title renders a heading
func Title(s string) string {
	return titleStyle.Render(s)
}

// Stale renders the offline marker shown for cached reports
func Stale(note string) string {
	return staleStyle.Render("⚠ " + note)
}

// MonthGrid renders a Monday-first month calendar. Each cell shows the day
// number and the worked hours colored by progress; weekends and holidays are
// dimmed, extra work on non-working days is highlighted.
func MonthGrid(grid report.Grid) string {
	headers := make([]string, 0, 7)
	for i := 1; i <= 7; i++ {
		headers = append(headers, headerStyle.Render(weekdayShort[i%7]))
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, headers...)}
	for _, week := range grid.Weeks() {
		cells := make([]string, 0, 7)
		for _, c := range week {
			cells = append(cells, monthCell(c))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func monthCell(c report.Cell) string {
	if c.Blank {
		return cellStyle.Render("\n")
	}

	marker := " "
	switch {
	case c.Class.Holiday:
		marker = "*"
	case c.Class.State == report.DayStateExtraWork:
		marker = "+"
	}
	day := fmt.Sprintf("%2d%s", c.Day.Date.Day(), marker)

	var hours string
	switch c.Class.State {
	case report.DayStateEmpty:
		hours = "·"
	case report.DayStateExtraWork:
		hours = extraStyle.Render(Hours(c.Day.WorkedHours))
	default:
		hours = bandStyles[c.Band].Render(Hours(c.Day.WorkedHours))
	}

	switch {
	case c.Class.Holiday:
		day = holidayStyle.Render(day)
	case c.Class.Dimmed():
		day = dimStyle.Render(day)
	}
	return cellStyle.Render(day + "\n" + hours)
}

// WeekTable renders one line per day with worked and should hours,
// difference, progress and the holiday name
func WeekTable(rows []report.Cell) string {
	var sb strings.Builder
	for i, c := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(weekLine(c))
	}
	return boxStyle.Render(sb.String())
}

func weekLine(c report.Cell) string {
	d := c.Day
	label := fmt.Sprintf("%s %s", WeekdayShort(d.Date.Weekday()), d.Date.Format("02.01."))

	worked := fmt.Sprintf("%-8s", Hours(d.WorkedHours))
	should := fmt.Sprintf("Soll %-7s", Hours(d.ShouldHours))
	diff := fmt.Sprintf("%-8s", "")
	progress := fmt.Sprintf("%6s", "")

	switch c.Class.State {
	case report.DayStateRegular:
		diff = fmt.Sprintf("%-8s", SignedHours(d.Difference))
		progress = bandStyles[c.Band].Render(fmt.Sprintf("%6s", Percent(c.Progress)))
	case report.DayStateExtraWork:
		worked = extraStyle.Render(worked)
		diff = extraStyle.Render(fmt.Sprintf("%-8s", SignedHours(d.WorkedHours)))
	}

	note := ""
	switch {
	case c.Class.Holiday:
		note = holidayStyle.Render(c.Class.HolidayName)
	case c.Class.Weekend:
		note = dimStyle.Render("Wochenende")
	}

	if c.Class.Dimmed() {
		label = dimStyle.Render(label)
	}
	return strings.TrimRight(strings.Join([]string{label, worked, should, diff, progress, note}, "  "), " ")
}

// Summary renders the totals block with a progress bar
func Summary(s report.Summary) string {
	label := "Überstunden"
	if s.Difference < 0 {
		label = "Fehlstunden"
	}
	progress := s.Progress()
	bar := bandStyles[report.Band(progress)].Render(ProgressBar(progress, 20))

	lines := []string{
		fmt.Sprintf("Ist:  %s (%s h)", Hours(s.TotalWorked), Decimal(s.TotalWorked)),
		fmt.Sprintf("Soll: %s (%s h)", Hours(s.TotalShould), Decimal(s.TotalShould)),
		fmt.Sprintf("%s: %s", label, Hours(absFloat(s.Difference))),
		fmt.Sprintf("%s %s", bar, Percent(progress)),
	}
	return strings.Join(lines, "\n")
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
