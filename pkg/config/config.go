package config

import (
	"io"
	"net"
	"strconv"

	"github.com/mrincompetent/pivpn-exporter/pkg/log"

	"github.com/asaskevich/govalidator"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	DefaultInterface    = "wg0"
	DefaultPort         = 9200
	DefaultKeysDir      = "/etc/wireguard/keys"
	DefaultStatusSource = StatusSourceCommand
	DefaultWgBinary     = "wg"
	DefaultLogLevel     = "info"
	DefaultLogEncoding  = log.EncodingConsole

	// StatusSourceCommand queries the interface with `wg show <interface> dump`.
	StatusSourceCommand = "wg"
	// StatusSourceDevice queries the interface through the WireGuard control API.
	StatusSourceDevice = "wgctrl"
)

type Config struct {
	Interface    string `yaml:"interface" valid:"ifname,required"`
	Port         int    `yaml:"port" valid:"port,required"`
	KeysDir      string `yaml:"keys_dir" valid:"path,required"`
	StatusSource string `yaml:"status_source" valid:"in(wg|wgctrl),required"`
	WgBinary     string `yaml:"wg_binary" valid:"required"`
	// Empty disables the telemetry server
	TelemetryListenAddr string `yaml:"telemetry_listen_addr" valid:"listen_addr"`
	Log                 Log    `yaml:"log"`
}

type Log struct {
	Level    string       `yaml:"level" valid:"log_level,required"`
	Encoding log.Encoding `yaml:"encoding" valid:"in(json|console),required"`
}

func Default() *Config {
	return &Config{
		Interface:    DefaultInterface,
		Port:         DefaultPort,
		KeysDir:      DefaultKeysDir,
		StatusSource: DefaultStatusSource,
		WgBinary:     DefaultWgBinary,
		Log: Log{
			Level:    DefaultLogLevel,
			Encoding: DefaultLogEncoding,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns the defaults.
// The result is not validated, as flags might still override it.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open config file %s", path)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "unable to decode config file %s", path)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if ok, err := govalidator.ValidateStruct(c); !ok {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// ListenAddr is the address of the metrics endpoint, all IPv6 and IPv4 addresses on Port.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort("::", strconv.Itoa(c.Port))
}
