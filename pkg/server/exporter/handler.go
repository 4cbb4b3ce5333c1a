package exporter

import (
	"context"
	"net/http"

	"github.com/mrincompetent/pivpn-exporter/pkg/server"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
)

const (
	name = "exporter_server"

	MetricsPath = "/metrics"
)

// Scraper builds the metrics document.
type Scraper interface {
	Scrape(ctx context.Context) ([]byte, error)
}

// NewHandler serves the document on GET /metrics. Everything else is answered with 404.
func NewHandler(log *zap.Logger, scraper Scraper) http.Handler {
	router := chi.NewRouter()
	router.Use(server.RequestLogger(log))

	router.NotFound(notFound)
	// Other methods on /metrics are treated like unknown paths
	router.MethodNotAllowed(notFound)

	router.Get(MetricsPath, func(w http.ResponseWriter, r *http.Request) {
		body, err := scraper.Scrape(r.Context())
		if err != nil {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("Error: " + err.Error()))
			return
		}

		w.Header().Set("Content-Type", string(expfmt.FmtText))
		_, _ = w.Write(body)
	})

	return router
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Not Found"))
}

// New returns the server publishing the peer metrics on listenAddress.
func New(parentLog *zap.Logger, listenAddress string, scraper Scraper) *server.HTTPServer {
	log := parentLog.Named(name)
	return server.NewHTTPServer(parentLog, name, listenAddress, NewHandler(log, scraper))
}
