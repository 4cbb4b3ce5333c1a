package exporter

import (
	"github.com/mrincompetent/pivpn-exporter/pkg/scrape"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "pivpn_exporter"

// Metrics instrument the exporter itself. They are served by the telemetry server, not in the peer document.
type Metrics struct {
	scrapeDuration prometheus.Histogram
	scrapeErrors   *prometheus.CounterVec
	peers          prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		scrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "scrape_duration_seconds",
			Help:      "Duration of building the peer metrics document",
			Buckets:   prometheus.DefBuckets,
		}),
		scrapeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scrape_errors_total",
			Help:      "Number of failed scrapes by error kind",
		}, []string{"kind"}),
		peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "peers",
			Help:      "Number of peers in the last successful scrape",
		}),
	}

	for _, kind := range []scrape.Kind{scrape.KindIO, scrape.KindProcess, scrape.KindParse} {
		m.scrapeErrors.WithLabelValues(kind.String())
	}

	return m
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.scrapeDuration, m.scrapeErrors, m.peers} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
