package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public OpenStreetMap Nominatim instance
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "Zeiterfassung-CRM-App"
	DefaultLimit     = 5
	defaultTimeout   = 10 * time.Second
)

// PlaceAddress is the structured address of a search hit
type PlaceAddress struct {
	Road        string `json:"road,omitempty"`
	Street      string `json:"street,omitempty"`
	HouseNumber string `json:"house_number,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	City        string `json:"city,omitempty"`
	Town        string `json:"town,omitempty"`
	Village     string `json:"village,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
}

// Place is one search hit
type Place struct {
	PlaceID     int64        `json:"place_id"`
	DisplayName string       `json:"display_name"`
	Lat         string       `json:"lat"`
	Lon         string       `json:"lon"`
	Address     PlaceAddress `json:"address"`
}

// Searcher looks up free-form address queries
type Searcher interface {
	Search(ctx context.Context, query string) ([]Place, error)
}

// Client queries a Nominatim search endpoint
type Client struct {
	baseURL    string
	userAgent  string
	limit      int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Nominatim client. Empty values fall back to the public defaults.
func NewClient(baseURL, userAgent string, limit int, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		limit:     limit,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Search runs a free-form query
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query geocoder: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read geocoder response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d: %s", resp.StatusCode, string(body))
	}

	var places []Place
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("failed to parse geocoder response: %w", err)
	}

	c.logger.Debug("Geocoder search",
		zap.String("query", query),
		zap.Int("results", len(places)))

	return places, nil
}
