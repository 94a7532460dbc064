package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/username/zeiterfassung/internal/dashboard"
	"github.com/username/zeiterfassung/internal/geocode"
	"github.com/username/zeiterfassung/internal/timeclock"
	"github.com/username/zeiterfassung/internal/xano"
	"github.com/username/zeiterfassung/pkg/dateutil"
)

// Reports serves prepared report views and holidays
type Reports interface {
	Week(ctx context.Context, date time.Time) (*dashboard.WeekView, error)
	Month(ctx context.Context, year int, month time.Month) (*dashboard.MonthView, error)
	Holidays(year int) []dashboard.Holiday
}

// Backend is the part of the gateway the dashboard proxies
type Backend interface {
	CurrentTimer(ctx context.Context) (*xano.TimeClock, error)
	StartTimer(ctx context.Context, req xano.StartTimerRequest) (*xano.TimeClock, error)
	StopTimer(ctx context.Context, req *xano.StopTimerRequest) (*xano.TimeEntry, error)
	OvertimeBalance(ctx context.Context) (*xano.OvertimeAccount, error)
}

// AddressValidator checks postal addresses
type AddressValidator interface {
	Validate(ctx context.Context, in geocode.Input) geocode.Result
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	reports   Reports
	backend   Backend
	addresses AddressValidator
	target    time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewHandler creates a new Handler. addresses may be nil to disable validation.
func NewHandler(reports Reports, backend Backend, addresses AddressValidator, dailyTarget time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		reports:   reports,
		backend:   backend,
		addresses: addresses,
		target:    dailyTarget,
		logger:    logger,
		now:       time.Now,
	}
}

// ErrorResponse is the JSON body of failed requests
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListHolidays returns the holidays of a year
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1583 || year > 9999 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	writeJSON(w, http.StatusOK, h.reports.Holidays(year))
}

// GetWeekReport returns the week containing ?date=YYYY-MM-DD (default today)
func (h *Handler) GetWeekReport(w http.ResponseWriter, r *http.Request) {
	date := h.now()
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := dateutil.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		date = parsed
	}

	view, err := h.reports.Week(r.Context(), date)
	if err != nil {
		h.backendError(w, "Failed to load week report", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetMonthReport returns ?month=YYYY-MM (default current month)
func (h *Handler) GetMonthReport(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	year, month := now.Year(), now.Month()
	if s := r.URL.Query().Get("month"); s != "" {
		var err error
		year, month, err = dashboard.ParseMonth(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
			return
		}
	}

	view, err := h.reports.Month(r.Context(), year, month)
	if err != nil {
		h.backendError(w, "Failed to load month report", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetTimer returns the running timer status with elapsed time computed now
func (h *Handler) GetTimer(w http.ResponseWriter, r *http.Request) {
	timer, err := h.backend.CurrentTimer(r.Context())
	if err != nil {
		h.backendError(w, "Failed to load timer", err)
		return
	}
	writeJSON(w, http.StatusOK, timeclock.StatusAt(timer, h.now(), h.target))
}

// StartTimer starts the time clock
func (h *Handler) StartTimer(w http.ResponseWriter, r *http.Request) {
	var req xano.StartTimerRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	timer, err := h.backend.StartTimer(r.Context(), req)
	if err != nil {
		h.backendError(w, "Failed to start timer", err)
		return
	}
	writeJSON(w, http.StatusCreated, timeclock.StatusAt(timer, h.now(), h.target))
}

// StopTimer stops the time clock and returns the stored entry
func (h *Handler) StopTimer(w http.ResponseWriter, r *http.Request) {
	var req *xano.StopTimerRequest
	if r.ContentLength != 0 {
		req = &xano.StopTimerRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	entry, err := h.backend.StopTimer(r.Context(), req)
	if err != nil {
		h.backendError(w, "Failed to stop timer", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// GetOvertime returns the overtime account
func (h *Handler) GetOvertime(w http.ResponseWriter, r *http.Request) {
	account, err := h.backend.OvertimeBalance(r.Context())
	if err != nil {
		h.backendError(w, "Failed to load overtime balance", err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// ValidateAddress geocodes an address
func (h *Handler) ValidateAddress(w http.ResponseWriter, r *http.Request) {
	if h.addresses == nil {
		writeError(w, http.StatusNotImplemented, "Address validation is disabled", nil)
		return
	}

	var in geocode.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := in.Check(); err != nil {
		writeError(w, http.StatusBadRequest, "Incomplete address", err)
		return
	}

	writeJSON(w, http.StatusOK, h.addresses.Validate(r.Context(), in))
}

// backendError maps gateway errors onto HTTP status codes
func (h *Handler) backendError(w http.ResponseWriter, message string, err error) {
	status := http.StatusBadGateway

	var apiErr *xano.APIError
	switch {
	case errors.Is(err, xano.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		status = apiErr.StatusCode
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	h.logger.Warn(message, zap.Int("status", status), zap.Error(err))
	writeError(w, status, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
