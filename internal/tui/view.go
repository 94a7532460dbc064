package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/username/zeiterfassung/internal/render"
	"github.com/username/zeiterfassung/internal/report"
)

var (
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)
)

func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(render.Title(m.title()))
	if m.Loading {
		sb.WriteString(helpStyle.Render("  lädt…"))
	}
	sb.WriteString("\n\n")

	if m.Timer != nil && m.Timer.Running {
		sb.WriteString(timerRunningStyle.Render("● " + m.Timer.String()))
		sb.WriteString("\n\n")
	}

	if m.Err != nil {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("Fehler: %v", m.Err)))
		sb.WriteString("\n\n")
	}

	switch m.Period {
	case report.PeriodWeek:
		sb.WriteString(m.weekView())
	default:
		sb.WriteString(m.monthView())
	}

	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("Zurück/Vor: ←/→ | Woche: w | Monat: m | Heute: t | Neu laden: r | Beenden: q"))
	return sb.String()
}

func (m *Model) title() string {
	if m.Period == report.PeriodWeek {
		start, end := m.Week.Start(), m.Week.End()
		_, week := start.ISOWeek()
		return fmt.Sprintf("KW %d: %s - %s", week, render.Date(start), render.Date(end))
	}
	return fmt.Sprintf("%s %d", render.MonthName(m.Month.Month), m.Month.Year)
}

func (m *Model) weekView() string {
	v := m.WeekView
	if v == nil || v.Report == nil {
		return ""
	}

	var sb strings.Builder
	if v.Stale {
		sb.WriteString(render.Stale("Offline, Stand " + v.FetchedAt.Local().Format("02.01.2006 15:04")))
		sb.WriteString("\n")
	}
	sb.WriteString(render.WeekTable(v.Rows))
	sb.WriteString("\n")
	sb.WriteString(render.Summary(v.Report.Summary))
	return sb.String()
}

func (m *Model) monthView() string {
	v := m.MonthView
	if v == nil || v.Report == nil {
		return ""
	}

	var sb strings.Builder
	if v.Stale {
		sb.WriteString(render.Stale("Offline, Stand " + v.FetchedAt.Local().Format("02.01.2006 15:04")))
		sb.WriteString("\n")
	}
	sb.WriteString(render.MonthGrid(v.Grid))
	sb.WriteString("\n")
	sb.WriteString(render.Summary(v.Report.Summary))
	return sb.String()
}
