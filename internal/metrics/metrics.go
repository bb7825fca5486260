// Package metrics holds the Prometheus collectors of the BOM service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sink-bom-backend/internal/catalog"
)

// Registry groups every collector behind its own prometheus.Registry.
type Registry struct {
	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec
	WarningsTotal      *prometheus.CounterVec
	FaultsTotal        *prometheus.CounterVec

	CatalogReloadsTotal *prometheus.CounterVec
	CatalogItems        *prometheus.GaugeVec
	CatalogLoadedAt     prometheus.Gauge

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CacheLookupsTotal   *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with all collectors registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initResolutionMetrics()
	r.initCatalogMetrics()
	r.initHTTPMetrics()
	return r
}

func (r *Registry) initResolutionMetrics() {
	r.ResolutionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bom_resolutions_total",
			Help: "Total number of BOM resolutions",
		},
		[]string{"outcome"}, // ok, faulted, invalid, error
	)

	r.ResolutionDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bom_resolution_duration_seconds",
			Help:    "BOM resolution latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"outcome"},
	)

	r.WarningsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bom_warnings_total",
			Help: "Resolution warnings by code",
		},
		[]string{"code"},
	)

	r.FaultsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bom_structural_faults_total",
			Help: "Structural faults by code",
		},
		[]string{"code"},
	)
}

func (r *Registry) initCatalogMetrics() {
	r.CatalogReloadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bom_catalog_reloads_total",
			Help: "Catalog reload attempts",
		},
		[]string{"result"}, // success, failure
	)

	r.CatalogItems = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bom_catalog_items",
			Help: "Entries in the active catalog snapshot",
		},
		[]string{"kind"},
	)

	r.CatalogLoadedAt = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "bom_catalog_loaded_timestamp_seconds",
			Help: "Unix time the active catalog snapshot was built",
		},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bom_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bom_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	r.CacheLookupsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bom_cache_lookups_total",
			Help: "Response cache lookups",
		},
		[]string{"cache", "result"}, // hit, miss
	)
}

// ObserveResolution records one resolution and its latency.
func (r *Registry) ObserveResolution(outcome string, elapsed time.Duration) {
	r.ResolutionsTotal.WithLabelValues(outcome).Inc()
	r.ResolutionDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// IncWarning counts a resolution warning.
func (r *Registry) IncWarning(code string) {
	r.WarningsTotal.WithLabelValues(code).Inc()
}

// IncFault counts a structural fault.
func (r *Registry) IncFault(code string) {
	r.FaultsTotal.WithLabelValues(code).Inc()
}

// RecordReload counts a reload attempt and, on success, publishes the new snapshot's size.
func (r *Registry) RecordReload(err error, snap *catalog.Snapshot) {
	if err != nil {
		r.CatalogReloadsTotal.WithLabelValues("failure").Inc()
		return
	}
	r.CatalogReloadsTotal.WithLabelValues("success").Inc()
	if snap == nil {
		return
	}
	s := snap.Stats()
	r.CatalogItems.WithLabelValues("parts").Set(float64(s.Parts))
	r.CatalogItems.WithLabelValues("assemblies").Set(float64(s.Assemblies))
	r.CatalogItems.WithLabelValues("components").Set(float64(s.Components))
	r.CatalogItems.WithLabelValues("models").Set(float64(s.Models))
	r.CatalogLoadedAt.Set(float64(snap.LoadedAt().Unix()))
}

// RecordHTTPRequest records an HTTP request with its duration.
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCacheLookup counts a hit or miss on the named cache.
func (r *Registry) RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
