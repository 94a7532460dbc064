package xano

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/username/zeiterfassung/pkg/random"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultRetries      = 3
	defaultRetryBackoff = time.Second
	retryJitterPercent  = 20
)

// Group selects one of the backend's API groups
type Group int

const (
	GroupAuth Group = iota
	GroupMain
	GroupTimeEntries
	GroupReports
	GroupCRM
	GroupAdmin
	GroupAbsences
)

// String returns the group name used in logs
func (g Group) String() string {
	switch g {
	case GroupAuth:
		return "auth"
	case GroupMain:
		return "main"
	case GroupTimeEntries:
		return "time_entries"
	case GroupReports:
		return "reports"
	case GroupCRM:
		return "crm"
	case GroupAdmin:
		return "admin"
	case GroupAbsences:
		return "absences"
	default:
		return "unknown"
	}
}

// Groups holds the path segment of each API group
type Groups struct {
	Auth        string `mapstructure:"auth"`
	Main        string `mapstructure:"main"`
	TimeEntries string `mapstructure:"time_entries"`
	Reports     string `mapstructure:"reports"`
	CRM         string `mapstructure:"crm"`
	Admin       string `mapstructure:"admin"`
	Absences    string `mapstructure:"absences"`
}

// DefaultGroups returns the group segments of the hosted workspace
func DefaultGroups() Groups {
	return Groups{
		Auth:        "api:eltyNUzq",
		Main:        "api:uMXZ3Fde",
		TimeEntries: "api:time_entries",
		Reports:     "api:p3vCYW4E",
		CRM:         "api:2dZRWuiU",
		Admin:       "admin",
		Absences:    "api:Y4Tu20lh",
	}
}

func (g Groups) segment(group Group) string {
	defaults := DefaultGroups()
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}

	switch group {
	case GroupAuth:
		return pick(g.Auth, defaults.Auth)
	case GroupTimeEntries:
		return pick(g.TimeEntries, defaults.TimeEntries)
	case GroupReports:
		return pick(g.Reports, defaults.Reports)
	case GroupCRM:
		return pick(g.CRM, defaults.CRM)
	case GroupAdmin:
		return pick(g.Admin, defaults.Admin)
	case GroupAbsences:
		return pick(g.Absences, defaults.Absences)
	default:
		return pick(g.Main, defaults.Main)
	}
}

// ErrNotAuthenticated is returned when a call needs a session token but none is set
var ErrNotAuthenticated = errors.New("not authenticated")

// APIError is a non-2xx backend response
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements error
func (e *APIError) Error() string {
	return e.Message
}

// Retryable reports whether repeating the request may succeed
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsStatus reports whether err wraps an APIError with the given status code
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Options configure a Client
type Options struct {
	BaseURL      string
	Groups       Groups
	Timeout      time.Duration
	Retries      int
	RetryBackoff time.Duration
	HTTPClient   *http.Client
}

// Client is the backend API client
type Client struct {
	baseURL      string
	groups       Groups
	retries      int
	retryBackoff time.Duration
	httpClient   *http.Client
	session      *Session
	logger       *zap.Logger
}

// NewClient creates a new backend API client bound to session
func NewClient(opts Options, session *Session, logger *zap.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := opts.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	if session == nil {
		session = NewSession(nil, logger)
	}

	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		groups:       opts.Groups,
		retries:      retries,
		retryBackoff: backoff,
		httpClient:   httpClient,
		session:      session,
		logger:       logger,
	}
}

// Session returns the session the client authenticates with
func (c *Client) Session() *Session {
	return c.session
}

// endpoint builds the full URL for a group path
func (c *Client) endpoint(group Group, path string, query url.Values) string {
	u := c.baseURL + "/" + c.groups.segment(group) + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doRequest performs an authenticated request
func (c *Client) doRequest(ctx context.Context, method string, group Group, path string, query url.Values, body, result interface{}) error {
	if !c.session.Authenticated() {
		return ErrNotAuthenticated
	}
	return c.send(ctx, method, group, path, query, body, result, true)
}

// doPublicRequest performs a request without a bearer token
func (c *Client) doPublicRequest(ctx context.Context, method string, group Group, path string, body, result interface{}) error {
	return c.send(ctx, method, group, path, nil, body, result, false)
}

// send marshals the body once and retries idempotent requests on transient failures
func (c *Client) send(ctx context.Context, method string, group Group, path string, query url.Values, body, result interface{}, authenticated bool) error {
	var payload []byte
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = jsonData
	}

	target := c.endpoint(group, path, query)
	attempts := 1
	if method == http.MethodGet {
		attempts = c.retries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.doRequestOnce(ctx, method, target, payload, result, authenticated)
		if err == nil {
			c.logger.Debug("Request succeeded",
				zap.String("method", method),
				zap.Stringer("group", group),
				zap.String("path", path))
			return nil
		}

		lastErr = err
		if !retryable(err) || attempt == attempts {
			break
		}

		wait := random.Backoff(c.retryBackoff, attempt, retryJitterPercent)
		c.logger.Warn("Request failed, retrying",
			zap.String("method", method),
			zap.Stringer("group", group),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", attempts),
			zap.Duration("wait", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	if attempts > 1 {
		return fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
	}
	return lastErr
}

// doRequestOnce performs a single HTTP request
func (c *Client) doRequestOnce(ctx context.Context, method, target string, payload []byte, result interface{}, authenticated bool) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if authenticated {
		token, err := c.session.TokenSource().Token()
		if err != nil {
			return fmt.Errorf("failed to get session token: %w", err)
		}
		token.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Body:       string(body),
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
	}

	return apiErr
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return false
	}
	return true
}
