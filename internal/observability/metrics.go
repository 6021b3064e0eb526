package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the report run.
type Metrics struct {
	VerticesLoaded      prometheus.Counter
	AttributeRowsLoaded prometheus.Counter
	RecordsJoined       prometheus.Counter
	VerticesOutsideBBox prometheus.Counter
	HoleVerticesDropped prometheus.Counter
	SummariesPublished  prometheus.Counter
	PipelineRunning     prometheus.Gauge

	// Per-stage timing, labelled stage={load,validate,join,filter,render,publish}.
	StageDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all report metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.VerticesLoaded,
		m.AttributeRowsLoaded,
		m.RecordsJoined,
		m.VerticesOutsideBBox,
		m.HoleVerticesDropped,
		m.SummariesPublished,
		m.PipelineRunning,
		m.StageDuration,
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
		VerticesLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "award_map",
			Name:      "vertices_loaded_total",
			Help:      "Polygon-ring vertices flattened from the shapefile.",
		}),
		AttributeRowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "award_map",
			Name:      "attribute_rows_loaded_total",
			Help:      "Attribute rows parsed from the state CSV.",
		}),
		RecordsJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "award_map",
			Name:      "records_joined_total",
			Help:      "Joined geometry+attribute records produced.",
		}),
		VerticesOutsideBBox: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "award_map",
			Name:      "vertices_outside_bbox_total",
			Help:      "Vertices dropped by the continental-US bounding box filter.",
		}),
		HoleVerticesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "award_map",
			Name:      "hole_vertices_dropped_total",
			Help:      "Interior-ring vertices removed before rendering.",
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "award_map",
			Name:      "summaries_published_total",
			Help:      "Region summaries written to the sink topic.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "award_map",
			Name:      "pipeline_running",
			Help:      "1 while the report pipeline is active, 0 after it finishes.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "award_map",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),
	}
}
