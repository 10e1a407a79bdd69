// Package app wires the application's components together for the CLI
// entry points.
package app

import (
	"fmt"

	"github.com/cityfix/cityfix-go/internal/conf"
	"github.com/cityfix/cityfix-go/internal/datastore"
	"github.com/cityfix/cityfix-go/internal/geocode"
	"github.com/cityfix/cityfix-go/internal/logging"
	"github.com/cityfix/cityfix-go/internal/observability"
	"github.com/cityfix/cityfix-go/internal/report"
	"github.com/cityfix/cityfix-go/internal/security"
)

// App holds the constructed application components. The report store is
// built once per process over one datastore backend; everything else
// hangs off it.
type App struct {
	Settings *conf.Settings
	DS       datastore.Interface
	Store    *report.Store
	Gate     *security.Gate
	Geocoder *geocode.Client
	Metrics  *observability.Metrics
}

// New opens the datastore and constructs the application components.
func New(settings *conf.Settings) (*App, error) {
	ds := datastore.New(settings)
	if err := ds.Open(); err != nil {
		return nil, fmt.Errorf("opening datastore: %w", err)
	}

	store := report.NewStore(ds, logging.Logger().With("service", "report-store"))
	gate := security.NewGate(security.NewSharedSecret(settings.Security.AdminSecret), ds)

	var geocoder *geocode.Client
	if settings.Geocode.Enabled {
		client, err := geocode.NewClient(geocode.Config{
			BaseURL:   settings.Geocode.BaseURL,
			Timeout:   settings.Geocode.Timeout,
			CacheTTL:  settings.Geocode.CacheTTL,
			UserAgent: settings.Geocode.UserAgent,
		})
		if err != nil {
			ds.Close()
			return nil, fmt.Errorf("creating geocode client: %w", err)
		}
		geocoder = client
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		ds.Close()
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	return &App{
		Settings: settings,
		DS:       ds,
		Store:    store,
		Gate:     gate,
		Geocoder: geocoder,
		Metrics:  metrics,
	}, nil
}

// Close releases the datastore.
func (a *App) Close() error {
	return a.DS.Close()
}
