package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/username/zeiterfassung/internal/dashboard"
	"github.com/username/zeiterfassung/internal/report"
	"github.com/username/zeiterfassung/internal/timeclock"
)

const defaultFetchTimeout = 30 * time.Second

// Reports loads prepared week and month views
type Reports interface {
	Week(ctx context.Context, date time.Time) (*dashboard.WeekView, error)
	Month(ctx context.Context, year int, month time.Month) (*dashboard.MonthView, error)
}

// MsgTimer carries the running timer status into the model
type MsgTimer struct {
	Status timeclock.Status
}

type msgWeekLoaded struct {
	seq  uint64
	view *dashboard.WeekView
	err  error
}

type msgMonthLoaded struct {
	seq  uint64
	view *dashboard.MonthView
	err  error
}

// Model browses week and month reports. Every navigation issues a new fetch
// tagged with a sequence number; responses for older sequences are dropped,
// so the last navigation always wins.
type Model struct {
	Period report.Period
	Week   report.WeekSelection
	Month  report.MonthSelection

	WeekView  *dashboard.WeekView
	MonthView *dashboard.MonthView
	Loading   bool
	Err       error
	Timer     *timeclock.Status

	reports      Reports
	ctx          context.Context
	fetchTimeout time.Duration
	now          func() time.Time
	seq          uint64
}

// NewModel creates a model starting on the current month
func NewModel(ctx context.Context, reports Reports) *Model {
	now := time.Now()
	return &Model{
		Period:       report.PeriodMonth,
		Week:         report.WeekOf(now),
		Month:        report.MonthOf(now),
		reports:      reports,
		ctx:          ctx,
		fetchTimeout: defaultFetchTimeout,
		now:          time.Now,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case msgWeekLoaded:
		if msg.seq != m.seq {
			return m, nil
		}
		m.Loading = false
		m.Err = msg.err
		if msg.err == nil {
			m.WeekView = msg.view
		}
		return m, nil

	case msgMonthLoaded:
		if msg.seq != m.seq {
			return m, nil
		}
		m.Loading = false
		m.Err = msg.err
		if msg.err == nil {
			m.MonthView = msg.view
		}
		return m, nil

	case MsgTimer:
		status := msg.Status
		m.Timer = &status
		return m, nil

	case tea.WindowSizeMsg:
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "left", "h":
		if m.Period == report.PeriodWeek {
			m.Week = m.Week.Prev()
		} else {
			m.Month = m.Month.Prev()
		}
		return m, m.fetch()
	case "right", "l":
		if m.Period == report.PeriodWeek {
			m.Week = m.Week.Next()
		} else {
			m.Month = m.Month.Next()
		}
		return m, m.fetch()
	case "w":
		if m.Period == report.PeriodWeek {
			return m, nil
		}
		m.Period = report.PeriodWeek
		return m, m.fetch()
	case "m":
		if m.Period == report.PeriodMonth {
			return m, nil
		}
		m.Period = report.PeriodMonth
		return m, m.fetch()
	case "t":
		now := m.now()
		m.Week = report.WeekOf(now)
		m.Month = report.MonthOf(now)
		return m, m.fetch()
	case "r":
		return m, m.fetch()
	}
	return m, nil
}

// fetch starts loading the current selection and supersedes any fetch in flight
func (m *Model) fetch() tea.Cmd {
	m.seq++
	seq := m.seq
	m.Loading = true

	parent := m.ctx
	if parent == nil {
		parent = context.Background()
	}
	timeout := m.fetchTimeout
	reports := m.reports

	if m.Period == report.PeriodWeek {
		date := m.Week.Date
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()
			view, err := reports.Week(ctx, date)
			return msgWeekLoaded{seq: seq, view: view, err: err}
		}
	}

	sel := m.Month
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		view, err := reports.Month(ctx, sel.Year, sel.Month)
		return msgMonthLoaded{seq: seq, view: view, err: err}
	}
}
