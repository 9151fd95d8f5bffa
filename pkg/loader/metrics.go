package loader

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hazyhaar/covidgraph/pkg/region"
)

// Metrics holds the Prometheus collectors updated by each load.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Files        *prometheus.CounterVec
	Rows         prometheus.Counter
	RowsRejected prometheus.Counter
	Regions      *prometheus.GaugeVec
	LoadDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Files: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "covidgraph_files_total",
			Help: "Daily report files processed, by schema and outcome",
		}, []string{"schema", "status"}),
		Rows: factory.NewCounter(prometheus.CounterOpts{
			Name: "covidgraph_rows_total",
			Help: "Data rows aggregated into the catalog",
		}),
		RowsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "covidgraph_rows_rejected_total",
			Help: "Data rows rejected because a date or count did not parse",
		}),
		Regions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "covidgraph_regions",
			Help: "Regions in the published catalog, by kind",
		}, []string{"kind"}),
		LoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "covidgraph_load_duration_seconds",
			Help:    "Time to load the whole dataset directory",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
}

func (m *Metrics) observeFile(fr FileReport) {
	if m == nil {
		return
	}
	schema := fr.Schema
	if schema == "" {
		schema = "unknown"
	}
	m.Files.WithLabelValues(schema, string(fr.Status)).Inc()
	if fr.Status == StatusLoaded {
		m.Rows.Add(float64(fr.Rows))
	}
	m.RowsRejected.Add(float64(fr.Rejected))
}

func (m *Metrics) observeCatalog(c *region.Catalog, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Regions.WithLabelValues(region.State.String()).Set(float64(c.Len(region.State)))
	m.Regions.WithLabelValues(region.Country.String()).Set(float64(c.Len(region.Country)))
	m.LoadDuration.Observe(elapsed.Seconds())
}
