package exporter

import (
	"context"
	"time"

	"github.com/mrincompetent/pivpn-exporter/pkg/scrape"
	"github.com/mrincompetent/pivpn-exporter/pkg/wireguard/dump"
	"github.com/mrincompetent/pivpn-exporter/pkg/wireguard/key"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	name = "exporter"
)

// Exporter builds the peer metrics document of a single interface.
// Nothing is cached, every scrape reads the key directory and the interface again.
type Exporter struct {
	log           *zap.Logger
	fs            afero.Fs
	keysDir       string
	interfaceName string
	reader        dump.Reader
	metrics       *Metrics
	now           func() time.Time
}

func New(parentLog *zap.Logger, fs afero.Fs, keysDir, interfaceName string, reader dump.Reader, metrics *Metrics) *Exporter {
	return &Exporter{
		log:           parentLog.Named(name).With(zap.String("interface", interfaceName)),
		fs:            fs,
		keysDir:       keysDir,
		interfaceName: interfaceName,
		reader:        reader,
		metrics:       metrics,
		now:           time.Now,
	}
}

func (e *Exporter) Scrape(ctx context.Context) ([]byte, error) {
	timer := prometheus.NewTimer(e.metrics.scrapeDuration)
	defer timer.ObserveDuration()

	records, err := e.records(ctx)
	if err != nil {
		kind := scrape.KindOf(err)
		e.metrics.scrapeErrors.WithLabelValues(kind.String()).Inc()
		e.log.Error("Failed to scrape the interface", zap.Stringer("kind", kind), zap.Error(err))
		return nil, err
	}

	e.metrics.peers.Set(float64(len(records)))
	e.log.Debug("Scraped the interface", zap.Int("peers", len(records)))

	return Format(records), nil
}

func (e *Exporter) records(ctx context.Context) ([]Record, error) {
	clients, err := key.LoadDirectory(e.log, e.fs, e.keysDir)
	if err != nil {
		return nil, err
	}

	raw, err := e.reader.ReadDump(ctx, e.interfaceName)
	if err != nil {
		return nil, err
	}

	return Aggregate(e.interfaceName, clients, raw, e.now())
}
