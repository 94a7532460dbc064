package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"
)

const nationwide = "DE"

// stateHolidays maps German state codes to their rule sets
var stateHolidays = map[string][]*cal.Holiday{
	"BB": de.HolidaysBB,
	"BE": de.HolidaysBE,
	"BW": de.HolidaysBW,
	"BY": de.HolidaysBY,
	"HB": de.HolidaysHB,
	"HE": de.HolidaysHE,
	"HH": de.HolidaysHH,
	"MV": de.HolidaysMV,
	"NI": de.HolidaysNI,
	"NW": de.HolidaysNW,
	"RP": de.HolidaysRP,
	"SH": de.HolidaysSH,
	"SL": de.HolidaysSL,
	"SN": de.HolidaysSN,
	"ST": de.HolidaysST,
	"TH": de.HolidaysTH,
}

// StateCalendar implements HolidayCalendar on top of rickar/cal rule sets
type StateCalendar struct {
	state    string
	holidays []*cal.Holiday
	cache    *yearCache
}

// NewStateCalendar creates a calendar for a German state code ("DE" = nationwide only)
func NewStateCalendar(state string) (*StateCalendar, error) {
	state = strings.ToUpper(strings.TrimSpace(state))

	var set []*cal.Holiday
	if state == nationwide {
		set = de.Holidays
	} else {
		var ok bool
		set, ok = stateHolidays[state]
		if !ok {
			return nil, fmt.Errorf("unsupported state %q", state)
		}
	}

	return &StateCalendar{
		state:    state,
		holidays: set,
		cache:    newYearCache(),
	}, nil
}

// State returns the configured state code
func (sc *StateCalendar) State() string {
	return sc.state
}

// Holidays returns the holiday table for the year
func (sc *StateCalendar) Holidays(year int) map[string]string {
	return sc.cache.get(year, sc.compute)
}

// HolidayName returns the holiday name for the date
func (sc *StateCalendar) HolidayName(date time.Time) (string, bool) {
	return sc.cache.lookup(date, sc.compute)
}

func (sc *StateCalendar) compute(year int) map[string]string {
	table := make(map[string]string, len(sc.holidays))
	for _, h := range sc.holidays {
		actual, _ := h.Calc(year)
		// Holidays outside their valid year range calculate to zero time
		if actual.IsZero() {
			continue
		}
		table[dateKey(actual)] = h.Name
	}
	return table
}
