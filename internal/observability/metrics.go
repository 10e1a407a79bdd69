// Package observability provides the application's Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application metric collectors.
type Metrics struct {
	registry *prometheus.Registry

	ReportsCreated   prometheus.Counter
	StatusUpdates    *prometheus.CounterVec
	GeocodeLookups   prometheus.Counter
	GeocodeFallbacks prometheus.Counter
	ImageNormalized  prometheus.Counter
	ImageRejected    *prometheus.CounterVec
}

// NewMetrics creates and registers the application metrics on a private
// registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		ReportsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cityfix_reports_created_total",
			Help: "Total number of reports created",
		}),
		StatusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cityfix_status_updates_total",
			Help: "Total number of report status updates by target status",
		}, []string{"status"}),
		GeocodeLookups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cityfix_geocode_lookups_total",
			Help: "Total number of reverse geocoding lookups attempted",
		}),
		GeocodeFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cityfix_geocode_fallbacks_total",
			Help: "Reverse geocoding lookups that fell back to raw coordinates",
		}),
		ImageNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cityfix_images_normalized_total",
			Help: "Total number of report photos normalized",
		}),
		ImageRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cityfix_images_rejected_total",
			Help: "Report photos rejected by the normalizer, by reason",
		}, []string{"reason"}),
	}

	collectors := []prometheus.Collector{
		m.ReportsCreated,
		m.StatusUpdates,
		m.GeocodeLookups,
		m.GeocodeFallbacks,
		m.ImageNormalized,
		m.ImageRejected,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
