package calendar

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CompositeCalendar merges a public holiday calendar with extra days off.
// Public holiday names win when both define the same date.
type CompositeCalendar struct {
	primary HolidayCalendar
	extra   HolidayCalendar
	logger  *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(primary, extra HolidayCalendar, logger *zap.Logger) *CompositeCalendar {
	return &CompositeCalendar{
		primary: primary,
		extra:   extra,
		logger:  logger,
	}
}

// Holidays returns the merged table for the year
func (cc *CompositeCalendar) Holidays(year int) map[string]string {
	merged := cc.primary.Holidays(year)
	for date, name := range cc.extra.Holidays(year) {
		if existing, ok := merged[date]; ok {
			cc.logger.Debug("Extra day off collides with public holiday",
				zap.String("date", date),
				zap.String("holiday", existing),
				zap.String("ignored", name))
			continue
		}
		merged[date] = name
	}
	return merged
}

// HolidayName checks the primary calendar first, then the extra days off
func (cc *CompositeCalendar) HolidayName(date time.Time) (string, bool) {
	if name, ok := cc.primary.HolidayName(date); ok {
		return name, true
	}
	return cc.extra.HolidayName(date)
}

// LoadExtra loads the extra calendar (if FileCalendar)
func (cc *CompositeCalendar) LoadExtra() error {
	if fc, ok := cc.extra.(*FileCalendar); ok {
		if err := fc.Load(); err != nil {
			return fmt.Errorf("failed to load extra calendar: %w", err)
		}
		cc.logger.Info("Extra holiday calendar loaded successfully")
	}
	return nil
}
