package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL:     server.URL,
		Timeout:     2 * time.Second,
		CacheTTL:    time.Minute,
		MinInterval: time.Millisecond,
	})
	require.NoError(t, err)
	return client, server
}

func TestReverseResolvesDisplayName(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "12.971599", r.URL.Query().Get("lat"))
		assert.Equal(t, "77.594566", r.URL.Query().Get("lon"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name": "MG Road, Bengaluru, Karnataka, India"}`))
	})

	address, err := client.Reverse(context.Background(), 12.971599, 77.594566)
	require.NoError(t, err)
	assert.Equal(t, "MG Road, Bengaluru, Karnataka, India", address)
}

func TestReverseCachesByCoordinates(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"display_name": "Somewhere"}`))
	})

	for i := 0; i < 3; i++ {
		_, err := client.Reverse(context.Background(), 1.5, 2.5)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestReverseErrorOnServerFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Reverse(context.Background(), 1, 2)
	require.Error(t, err)
}

func TestReverseErrorOnEmptyDisplayName(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Reverse(context.Background(), 1, 2)
	require.Error(t, err)
}

func TestResolveLocationFallsBackToCoordinates(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server.Close()

	got := client.ResolveLocation(context.Background(), 12.971599, 77.594566)
	assert.Equal(t, "Lat: 12.971599, Lng: 77.594566", got)
}

func TestFallbackCoordinates(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Lat: -33.868820, Lng: 151.209290", FallbackCoordinates(-33.86882, 151.20929))
}

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()
	client, err := NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().BaseURL, client.config.BaseURL)
	assert.Equal(t, DefaultConfig().MinInterval, client.config.MinInterval)
}

func TestCloseReleasesServiceLogger(t *testing.T) {
	// Not parallel: Close releases the package logger's file handle,
	// which lumberjack reopens on the next write.
	assert.NoError(t, Close())
}
