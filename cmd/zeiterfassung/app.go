package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/username/zeiterfassung/internal/calendar"
	"github.com/username/zeiterfassung/internal/dashboard"
	"github.com/username/zeiterfassung/internal/geocode"
	"github.com/username/zeiterfassung/internal/store"
	"github.com/username/zeiterfassung/internal/xano"
)

// app holds the components built from the loaded config
type app struct {
	client   *xano.Client
	session  *xano.Session
	calendar calendar.HolidayCalendar
	cache    *store.ReportCache
}

// newApp restores the session and creates the backend client
func newApp() (*app, error) {
	sessionStore := store.NewSessionFile(cfg.Session.File, logger)
	session := xano.NewSession(sessionStore, logger)
	if err := session.Restore(); err != nil {
		logger.Warn("Failed to restore session, continuing logged out", zap.Error(err))
	}

	client := xano.NewClient(cfg.Backend.Options(), session, logger)

	return &app{
		client:  client,
		session: session,
	}, nil
}

// requireLogin fails early with a helpful message when no session exists
func (a *app) requireLogin() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("not logged in, run 'zeiterfassung login' first")
	}
	return nil
}

// holidayCalendar builds the configured holiday calendar
func (a *app) holidayCalendar() (calendar.HolidayCalendar, error) {
	if a.calendar != nil {
		return a.calendar, nil
	}
	cal, err := calendar.New(cfg.Calendar.State, cfg.Calendar.ExtraHolidaysFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize holiday calendar: %w", err)
	}
	a.calendar = cal
	return cal, nil
}

// dashboard builds the report service with the offline cache when enabled
func (a *app) dashboard() (*dashboard.Service, error) {
	cal, err := a.holidayCalendar()
	if err != nil {
		return nil, err
	}

	var cache dashboard.ReportCache
	if cfg.Cache.Enabled {
		rc, err := store.OpenReportCache(cfg.Cache.File, logger)
		if err != nil {
			logger.Warn("Report cache unavailable, continuing without it", zap.Error(err))
		} else {
			a.cache = rc
			cache = rc
			if removed, err := rc.Purge(time.Now().Add(-cfg.Cache.GetMaxAge())); err != nil {
				logger.Warn("Failed to purge report cache", zap.Error(err))
			} else if removed > 0 {
				logger.Debug("Purged cached reports", zap.Int64("removed", removed))
			}
		}
	}

	return dashboard.NewService(a.client, cache, cal, logger), nil
}

// addressValidator builds the Nominatim-backed validator
func (a *app) addressValidator() *geocode.Validator {
	searcher := geocode.NewClient(cfg.Geocode.BaseURL, cfg.Geocode.UserAgent, cfg.Geocode.Limit, logger)
	return geocode.NewValidator(searcher, logger)
}

func (a *app) Close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Warn("Failed to close report cache", zap.Error(err))
		}
	}
}

// signalContext is cancelled on SIGINT/SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
