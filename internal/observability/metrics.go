package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL run.
type Metrics struct {
	RowsRead      prometheus.Counter
	Observations  prometheus.Counter
	SentinelCells prometheus.Counter
	RowsDropped   *prometheus.CounterVec // labels: reason={missing_aod,incomplete,filtered_site,orphaned}

	// Per-stage wall time.
	StageDuration *prometheus.HistogramVec // labels: stage={extract,transform,load}

	// Warehouse loading.
	RowsLoaded *prometheus.CounterVec // labels: table={dim_wavelength,dim_date,dim_site,fact_aod}

	// Spatial enrichment.
	GeoLookups *prometheus.CounterVec // labels: outcome={within,touching,miss}
	GeoEnabled prometheus.Gauge

	RunRunning prometheus.Gauge
}

// NewMetrics creates and registers all ETL metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsRead,
		m.Observations,
		m.SentinelCells,
		m.RowsDropped,
		m.StageDuration,
		m.RowsLoaded,
		m.GeoLookups,
		m.GeoEnabled,
		m.RunRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aeronet_etl",
			Name:      "rows_read_total",
			Help:      "Wide input rows read from the source CSV.",
		}),
		Observations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aeronet_etl",
			Name:      "observations_total",
			Help:      "Long-format observations surviving the unpivot.",
		}),
		SentinelCells: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aeronet_etl",
			Name:      "sentinel_cells_total",
			Help:      "-999 missing-value cells rewritten during normalization.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aeronet_etl",
			Name:      "rows_dropped_total",
			Help:      "Rows removed during the transform, by reason.",
		}, []string{"reason"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aeronet_etl",
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each pipeline stage.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"stage"}),
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aeronet_etl",
			Name:      "rows_loaded_total",
			Help:      "Rows inserted into the warehouse, by table.",
		}, []string{"table"}),
		GeoLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aeronet_etl",
			Name:      "geo_lookups_total",
			Help:      "Spatial point lookups by outcome (within, touching fallback, miss).",
		}, []string{"outcome"}),
		GeoEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aeronet_etl",
			Name:      "geo_enabled",
			Help:      "1 when spatial enrichment is active, 0 when degraded to no-op.",
		}),
		RunRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aeronet_etl",
			Name:      "run_running",
			Help:      "1 while an ETL run is in flight.",
		}),
	}
}
