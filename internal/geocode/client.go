// Package geocode resolves coordinates to display addresses through the
// Nominatim reverse geocoding API. Lookups are cached and rate limited;
// callers fall back to a formatted coordinate string when a lookup fails,
// so a geocoding outage never blocks report creation.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/cityfix/cityfix-go/internal/errors"
	"github.com/cityfix/cityfix-go/internal/logging"
)

// Package-level logger specific to the geocode service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar)
	closeLogger     func() error
)

func init() {
	var err error
	logFilePath := filepath.Join("logs", "geocode.log")
	serviceLevelVar.Set(slog.LevelInfo)

	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "geocode", serviceLevelVar)
	if err != nil {
		// Fallback: log the problem once and keep a discard logger so the
		// client never nil-panics.
		log.Printf("warning: failed to initialize geocode file logger at %s: %v", logFilePath, err)
		logger = logging.NewDiscardLogger("geocode")
		closeLogger = func() error { return nil }
	}
}

// Config holds configuration for the geocode client.
type Config struct {
	BaseURL     string        // Nominatim instance base URL
	Timeout     time.Duration // per-request timeout
	CacheTTL    time.Duration // how long resolved addresses are cached
	UserAgent   string        // Nominatim requires an identifying UA
	MinInterval time.Duration // minimum spacing between requests
}

// DefaultConfig returns the client defaults, honoring the public
// Nominatim usage policy of at most one request per second.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://nominatim.openstreetmap.org",
		Timeout:     15 * time.Second,
		CacheTTL:    24 * time.Hour,
		UserAgent:   "CityFix-Go",
		MinInterval: time.Second,
	}
}

// Client is a cached, rate-limited Nominatim reverse geocoding client.
// Thread-safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
	cache      *cache.Cache

	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient creates a geocode client, filling missing config values with
// defaults.
func NewClient(config Config) (*Client, error) {
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = defaults.CacheTTL
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if config.MinInterval == 0 {
		config.MinInterval = defaults.MinInterval
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Component("geocode").
			Context("base_url", config.BaseURL).
			Build()
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		cache:      cache.New(config.CacheTTL, config.CacheTTL/2),
	}, nil
}

// reverseResponse is the subset of the Nominatim reverse payload we use.
type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// Reverse resolves latitude/longitude to a display address. Results are
// cached by rounded coordinates.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	key := fmt.Sprintf("%.6f,%.6f", lat, lon)
	if cached, found := c.cache.Get(key); found {
		logger.Debug("reverse geocode cache hit", "key", key)
		return cached.(string), nil
	}

	c.waitForRateLimit()

	reqURL := fmt.Sprintf("%s/reverse?format=json&lat=%.6f&lon=%.6f",
		strings.TrimRight(c.config.BaseURL, "/"), lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategoryNetwork).
			Component("geocode").
			Build()
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("reverse geocode request failed", "error", err)
		return "", errors.New(err).
			Category(errors.CategoryNetwork).
			Component("geocode").
			Build()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("reverse geocode returned non-OK status", "status", resp.StatusCode)
		return "", errors.Newf("geocoding failed with status %d", resp.StatusCode).
			Category(errors.CategoryHTTP).
			Component("geocode").
			Context("status", resp.StatusCode).
			Build()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategoryNetwork).
			Component("geocode").
			Build()
	}

	var parsed reverseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.New(err).
			Category(errors.CategoryHTTP).
			Component("geocode").
			Build()
	}
	if parsed.DisplayName == "" {
		return "", errors.Newf("reverse geocode response has no display name").
			Category(errors.CategoryHTTP).
			Component("geocode").
			Build()
	}

	c.cache.Set(key, parsed.DisplayName, cache.DefaultExpiration)
	logger.Info("reverse geocode resolved", "key", key)
	return parsed.DisplayName, nil
}

// ResolveLocation resolves coordinates to an address, falling back to the
// formatted coordinate string on any failure. This is the call report
// submission uses; it cannot fail.
func (c *Client) ResolveLocation(ctx context.Context, lat, lon float64) string {
	address, err := c.Reverse(ctx, lat, lon)
	if err != nil {
		logger.Info("falling back to coordinate string", "error", err)
		return FallbackCoordinates(lat, lon)
	}
	return address
}

// FallbackCoordinates formats coordinates the way the tracking UI shows
// them when no address is available.
func FallbackCoordinates(lat, lon float64) string {
	return fmt.Sprintf("Lat: %.6f, Lng: %.6f", lat, lon)
}

func (c *Client) waitForRateLimit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if wait := c.config.MinInterval - time.Since(c.lastRequest); wait > 0 {
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}

// Close releases the service logger's file handle.
func Close() error {
	return closeLogger()
}
