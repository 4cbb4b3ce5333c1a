package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrincompetent/pivpn-exporter/pkg/config"
	"github.com/mrincompetent/pivpn-exporter/pkg/exporter"
	pkglog "github.com/mrincompetent/pivpn-exporter/pkg/log"
	"github.com/mrincompetent/pivpn-exporter/pkg/server"
	exporterserver "github.com/mrincompetent/pivpn-exporter/pkg/server/exporter"
	"github.com/mrincompetent/pivpn-exporter/pkg/server/telemetry"
	"github.com/mrincompetent/pivpn-exporter/pkg/wireguard/dump"
	wgnetlink "github.com/mrincompetent/pivpn-exporter/pkg/wireguard/netlink"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type flags struct {
	configFile string
	cfg        *config.Config
	encoding   *pkglog.Encoding
}

func parseFlags(args []string) (*flags, *flag.FlagSet, error) {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	f := &flags{cfg: config.Default()}

	fs.StringVar(&f.configFile, "config", "", "Path to an optional YAML configuration file")
	fs.StringVar(&f.cfg.Interface, "interface", config.DefaultInterface, "Name of the WireGuard interface to export")
	fs.StringVar(&f.cfg.Interface, "i", config.DefaultInterface, "Shorthand for -interface")
	fs.IntVar(&f.cfg.Port, "port", config.DefaultPort, "Port the metrics endpoint listens on")
	fs.IntVar(&f.cfg.Port, "p", config.DefaultPort, "Shorthand for -port")
	fs.StringVar(&f.cfg.KeysDir, "keys-dir", config.DefaultKeysDir, "Directory containing the <client>_pub key files")
	fs.StringVar(&f.cfg.StatusSource, "status-source", config.DefaultStatusSource, "How the interface is queried: wg or wgctrl")
	fs.StringVar(&f.cfg.WgBinary, "wg-binary", config.DefaultWgBinary, "The wg tool used by the wg status source")
	fs.StringVar(&f.cfg.TelemetryListenAddr, "telemetry-listen-address", "", "Listen address for the telemetry http server, disabled when empty")
	fs.StringVar(&f.cfg.Log.Level, "log-level", config.DefaultLogLevel, "Log level")
	f.encoding = pkglog.EncodingFlag(fs, "log-encoding", config.DefaultLogEncoding, fmt.Sprintf("Log encoding. Supported encodings: %s", pkglog.SupportedEncodings))

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	f.cfg.Log.Encoding = *f.encoding

	return f, fs, nil
}

// loadConfig reads the configuration file and lets flags set on the command line override it.
func loadConfig(fileSystem afero.Fs, f *flags, fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(fileSystem, f.configFile)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "interface", "i":
			cfg.Interface = f.cfg.Interface
		case "port", "p":
			cfg.Port = f.cfg.Port
		case "keys-dir":
			cfg.KeysDir = f.cfg.KeysDir
		case "status-source":
			cfg.StatusSource = f.cfg.StatusSource
		case "wg-binary":
			cfg.WgBinary = f.cfg.WgBinary
		case "telemetry-listen-address":
			cfg.TelemetryListenAddr = f.cfg.TelemetryListenAddr
		case "log-level":
			cfg.Log.Level = f.cfg.Log.Level
		case "log-encoding":
			cfg.Log.Encoding = f.cfg.Log.Encoding
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newReader(log *zap.Logger, cfg *config.Config) dump.Reader {
	if cfg.StatusSource == config.StatusSourceDevice {
		return dump.NewDeviceReader(log)
	}
	return dump.NewCommandReader(log, dump.OSRunner{}, cfg.WgBinary)
}

func main() {
	f, fs, err := parseFlags(os.Args)
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := loadConfig(afero.NewOsFs(), f, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load the configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := pkglog.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := pkglog.New(level, cfg.Log.Encoding)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Using configuration",
		zap.String("interface", cfg.Interface),
		zap.String("listen-address", cfg.ListenAddr()),
		zap.String("keys-dir", cfg.KeysDir),
		zap.String("status-source", cfg.StatusSource),
		zap.String("telemetry-listen-address", cfg.TelemetryListenAddr),
	)

	registry := prometheus.NewRegistry()
	metrics := exporter.NewMetrics()
	if err := metrics.Register(registry); err != nil {
		log.Fatal("Unable to register the exporter metrics", zap.Error(err))
	}

	keysFs := afero.NewReadOnlyFs(afero.NewOsFs())
	e := exporter.New(log, keysFs, cfg.KeysDir, cfg.Interface, newReader(log, cfg), metrics)

	runnables := []server.Runnable{
		exporterserver.New(log, cfg.ListenAddr(), e),
	}
	if cfg.TelemetryListenAddr != "" {
		runnables = append(runnables, telemetry.New(log, cfg.TelemetryListenAddr, registry, telemetry.Checks{
			"interface": wgnetlink.NewChecker(cfg.Interface).Check,
			"keys-dir":  telemetry.DirectoryReadableCheck(keysFs, cfg.KeysDir),
		}))
	}

	log.Info("Starting servers")

	if err := server.Run(server.SetupSignalHandler(), runnables...); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}
