package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the Prometheus metrics for the analysis pipeline.
type Registry struct {
	reg *prometheus.Registry

	ListingsScored    *prometheus.CounterVec
	FieldDefects      *prometheus.CounterVec
	PriceRangeResults *prometheus.CounterVec
	SessionDuration   prometheus.Histogram
	LastSessionSize   prometheus.Gauge
}

// NewRegistry creates a Registry backed by its own prometheus.Registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		ListingsScored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wholesale_listings_scored_total",
				Help: "Listings scored, by recommended action",
			},
			[]string{"action"},
		),
		FieldDefects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wholesale_field_defects_total",
				Help: "Raw fields replaced by a sentinel during normalisation",
			},
			[]string{"field"},
		),
		PriceRangeResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wholesale_price_range_calculations_total",
				Help: "Price range calculations, by result",
			},
			[]string{"result"},
		),
		SessionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wholesale_session_duration_seconds",
				Help:    "Duration of a search session from fetch to export",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		LastSessionSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wholesale_last_session_listings",
				Help: "Listings analysed in the most recent session",
			},
		),
	}

	r.reg.MustRegister(
		r.ListingsScored,
		r.FieldDefects,
		r.PriceRangeResults,
		r.SessionDuration,
		r.LastSessionSize,
	)
	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// WriteFile dumps the current values in text format, for node_exporter's
// textfile collector.
func (r *Registry) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("metrics: write %q: %w", path, err)
	}
	return nil
}
