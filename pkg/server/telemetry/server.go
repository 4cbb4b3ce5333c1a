package telemetry

import (
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/mrincompetent/pivpn-exporter/pkg/server"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	name = "telemetry_server"

	// Upper bound for goroutines before the process is considered unhealthy
	maxGoroutines = 1000
	checkTimeout  = 2 * time.Second
)

// Checks are added to the readiness endpoint.
type Checks map[string]healthcheck.Check

// NewHandler serves the exporter's own metrics, health endpoints and pprof.
func NewHandler(registry *prometheus.Registry, readiness Checks) http.Handler {
	health := healthcheck.NewMetricsHandler(registry, "pivpn_exporter")
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(maxGoroutines))
	for checkName, check := range readiness {
		health.AddReadinessCheck(checkName, healthcheck.Timeout(check, checkTimeout))
	}

	router := http.NewServeMux()

	registries := prometheus.Gatherers{
		registry,
		prometheus.DefaultGatherer,
	}

	// Metrics
	router.Handle("/metrics", promhttp.HandlerFor(registries, promhttp.HandlerOpts{Timeout: 5 * time.Second}))

	// Liveness / Readiness
	router.HandleFunc("/live", health.LiveEndpoint)
	router.HandleFunc("/ready", health.ReadyEndpoint)

	// PProf
	router.HandleFunc("/debug/pprof/", pprof.Index)
	router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("/debug/pprof/profile", pprof.Profile)
	router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return router
}

func New(log *zap.Logger, listenAddress string, registry *prometheus.Registry, readiness Checks) *server.HTTPServer {
	return server.NewHTTPServer(log, name, listenAddress, NewHandler(registry, readiness))
}
