package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/zeiterfassung/internal/dashboard"
	"github.com/username/zeiterfassung/internal/geocode"
	"github.com/username/zeiterfassung/internal/report"
	"github.com/username/zeiterfassung/internal/timeclock"
	"github.com/username/zeiterfassung/internal/xano"
)

type fakeReports struct {
	weekDate   time.Time
	monthYear  int
	monthMonth time.Month
	err        error
}

func (f *fakeReports) Week(ctx context.Context, date time.Time) (*dashboard.WeekView, error) {
	f.weekDate = date
	if f.err != nil {
		return nil, f.err
	}
	return &dashboard.WeekView{Report: &report.WeekReport{WeekStart: report.WeekOf(date).Start()}}, nil
}

func (f *fakeReports) Month(ctx context.Context, year int, month time.Month) (*dashboard.MonthView, error) {
	f.monthYear, f.monthMonth = year, month
	if f.err != nil {
		return nil, f.err
	}
	return &dashboard.MonthView{Report: &report.MonthReport{Year: year, Month: month}, Progress: 50}, nil
}

func (f *fakeReports) Holidays(year int) []dashboard.Holiday {
	return []dashboard.Holiday{{Date: fmt.Sprintf("%d-01-01", year), Name: "Neujahr"}}
}

type fakeBackend struct {
	timer    *xano.TimeClock
	started  *xano.StartTimerRequest
	stopped  *xano.StopTimerRequest
	stopCall bool
	err      error
}

func (f *fakeBackend) CurrentTimer(ctx context.Context) (*xano.TimeClock, error) {
	return f.timer, f.err
}

func (f *fakeBackend) StartTimer(ctx context.Context, req xano.StartTimerRequest) (*xano.TimeClock, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.started = &req
	f.timer = &xano.TimeClock{ID: 1, StartedAt: xano.NewTimestamp(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)), IsBreak: req.IsBreak}
	return f.timer, nil
}

func (f *fakeBackend) StopTimer(ctx context.Context, req *xano.StopTimerRequest) (*xano.TimeEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.stopCall = true
	f.stopped = req
	return &xano.TimeEntry{ID: 77}, nil
}

func (f *fakeBackend) OvertimeBalance(ctx context.Context) (*xano.OvertimeAccount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &xano.OvertimeAccount{ID: 1, CurrentBalance: 12.5}, nil
}

type fakeValidator struct {
	got geocode.Input
}

func (f *fakeValidator) Validate(ctx context.Context, in geocode.Input) geocode.Result {
	f.got = in
	return geocode.Result{Status: geocode.StatusValid, Valid: true}
}

type fixture struct {
	reports   *fakeReports
	backend   *fakeBackend
	validator *fakeValidator
	server    *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		reports:   &fakeReports{},
		backend:   &fakeBackend{},
		validator: &fakeValidator{},
	}
	h := NewHandler(f.reports, f.backend, f.validator, 8*time.Hour, zap.NewNop())
	h.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	f.server = httptest.NewServer(NewRouter(h, nil))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestHolidays(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.server.URL + "/api/holidays/2025")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var holidays []dashboard.Holiday
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&holidays))
	assert.Equal(t, []dashboard.Holiday{{Date: "2025-01-01", Name: "Neujahr"}}, holidays)

	resp2, _ := f.do(t, http.MethodGet, "/api/holidays/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestWeekReport(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodGet, "/api/reports/week?date=2025-03-12", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2025-03-12", f.reports.weekDate.Format("2006-01-02"))

	resp, _ = f.do(t, http.MethodGet, "/api/reports/week", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2025-03-10", f.reports.weekDate.Format("2006-01-02"))

	resp, body := f.do(t, http.MethodGet, "/api/reports/week?date=2025/03/12", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestMonthReport(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/api/reports/month?month=2024-12", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2024, f.reports.monthYear)
	assert.Equal(t, time.December, f.reports.monthMonth)
	assert.Equal(t, 50.0, body["progress"])

	resp, _ = f.do(t, http.MethodGet, "/api/reports/month?month=2024-13", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBackendErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not authenticated", xano.ErrNotAuthenticated, http.StatusUnauthorized},
		{"client error", fmt.Errorf("failed: %w", &xano.APIError{StatusCode: http.StatusNotFound, Message: "nope"}), http.StatusNotFound},
		{"server error", &xano.APIError{StatusCode: http.StatusInternalServerError}, http.StatusBadGateway},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.reports.err = tt.err
			resp, body := f.do(t, http.MethodGet, "/api/reports/month", "")
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Equal(t, "Failed to load month report", body["error"])
		})
	}
}

func TestTimerEndpoints(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodGet, "/api/timer", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["running"])

	resp, body = f.do(t, http.MethodPost, "/api/timer/start", `{"is_break":true,"comment":"Mittag"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, f.backend.started)
	assert.True(t, f.backend.started.IsBreak)
	assert.Equal(t, "Mittag", f.backend.started.Comment)
	assert.Equal(t, true, body["running"])
	assert.Equal(t, float64(4*time.Hour), body["elapsed"])

	resp, body = f.do(t, http.MethodPost, "/api/timer/stop", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, f.backend.stopCall)
	assert.Nil(t, f.backend.stopped)
	assert.Equal(t, float64(77), body["id"])

	resp, _ = f.do(t, http.MethodPost, "/api/timer/start", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTimerStatusUsesStartTimestamp(t *testing.T) {
	f := newFixture(t)
	f.backend.timer = &xano.TimeClock{ID: 3, StartedAt: xano.NewTimestamp(time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC))}

	resp, err := http.Get(f.server.URL + "/api/timer")
	require.NoError(t, err)
	defer resp.Body.Close()

	var status timeclock.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status.Running)
	assert.Equal(t, 90*time.Minute, status.Elapsed)
}

func TestOvertime(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/api/overtime", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 12.5, body["current_balance"])
}

func TestValidateAddress(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/api/addresses/validate",
		`{"street":"Königstraße","house_number":"1","postal_code":"70173","city":"Stuttgart","country":"Deutschland"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "valid", body["status"])
	assert.Equal(t, "Stuttgart", f.validator.got.City)

	resp, body = f.do(t, http.MethodPost, "/api/addresses/validate", `{"street":"Königstraße"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["details"], "postal_code")
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)

	req, err := http.NewRequest(http.MethodOptions, f.server.URL+"/api/timer/start", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
