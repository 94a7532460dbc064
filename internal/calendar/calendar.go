package calendar

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultState is the rule set used when no state is configured
const DefaultState = "BW"

// HolidayCalendar answers public holiday questions for a rule set
type HolidayCalendar interface {
	// Holidays returns all holidays of the year as YYYY-MM-DD -> display name
	Holidays(year int) map[string]string

	// HolidayName returns the holiday name for the date, if it is one
	HolidayName(date time.Time) (string, bool)
}

// New creates the holiday calendar for a German state code, optionally merged
// with company days off read from extraFile
func New(state, extraFile string, logger *zap.Logger) (HolidayCalendar, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	if state == "" {
		state = DefaultState
	}

	var base HolidayCalendar
	if state == DefaultState {
		base = NewGaussCalendar()
	} else {
		sc, err := NewStateCalendar(state)
		if err != nil {
			return nil, err
		}
		base = sc
	}

	logger.Info("Holiday calendar initialized", zap.String("state", state))

	if extraFile == "" {
		return base, nil
	}

	extra := NewFileCalendar(extraFile, logger)
	composite := NewCompositeCalendar(base, extra, logger)
	if err := composite.LoadExtra(); err != nil {
		return nil, fmt.Errorf("failed to load extra holidays: %w", err)
	}

	return composite, nil
}

// SupportedStates returns the state codes accepted by New, sorted
func SupportedStates() []string {
	states := []string{DefaultState, nationwide}
	for code := range stateHolidays {
		if code != DefaultState {
			states = append(states, code)
		}
	}
	sort.Strings(states)
	return states
}

// IsSupportedState reports whether New accepts the state code
func IsSupportedState(state string) bool {
	state = strings.ToUpper(strings.TrimSpace(state))
	if state == "" || state == DefaultState || state == nationwide {
		return true
	}
	_, ok := stateHolidays[state]
	return ok
}

// dateKey formats the calendar date of t (in its own location) as YYYY-MM-DD
func dateKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// yearCache memoizes per-year holiday tables
type yearCache struct {
	mu    sync.RWMutex
	years map[int]map[string]string
}

func newYearCache() *yearCache {
	return &yearCache{years: make(map[int]map[string]string)}
}

// get returns a copy of the cached table, computing it on first use
func (c *yearCache) get(year int, compute func(int) map[string]string) map[string]string {
	c.mu.RLock()
	table, ok := c.years[year]
	c.mu.RUnlock()

	if !ok {
		table = compute(year)
		c.mu.Lock()
		c.years[year] = table
		c.mu.Unlock()
	}

	out := make(map[string]string, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

// lookup returns a single entry without copying the table
func (c *yearCache) lookup(date time.Time, compute func(int) map[string]string) (string, bool) {
	year := date.Year()

	c.mu.RLock()
	table, ok := c.years[year]
	c.mu.RUnlock()

	if !ok {
		table = compute(year)
		c.mu.Lock()
		c.years[year] = table
		c.mu.Unlock()
	}

	name, found := table[dateKey(date)]
	return name, found
}
