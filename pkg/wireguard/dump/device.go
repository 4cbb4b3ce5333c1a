package dump

import (
	"context"
	"strconv"
	"strings"

	"github.com/mrincompetent/pivpn-exporter/pkg/scrape"

	"go.uber.org/zap"
	"golang.zx2c4.com/wireguard/wgctrl"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

const none = "(none)"

type deviceClient interface {
	Device(name string) (*wgtypes.Device, error)
	Close() error
}

// DeviceReader reads the interface through the WireGuard control API instead of the wg tool.
// The device is rendered in the dump format, so it goes through the same parser.
type DeviceReader struct {
	log  *zap.Logger
	open func() (deviceClient, error)
}

func NewDeviceReader(log *zap.Logger) *DeviceReader {
	return &DeviceReader{
		log: log.Named("wgctrl"),
		open: func() (deviceClient, error) {
			client, err := wgctrl.New()
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	}
}

func (r *DeviceReader) ReadDump(_ context.Context, interfaceName string) (string, error) {
	command := "wgctrl device " + interfaceName

	client, err := r.open()
	if err != nil {
		return "", scrape.ProcessError(command, err)
	}
	defer client.Close()

	device, err := client.Device(interfaceName)
	if err != nil {
		return "", scrape.ProcessError(command, err)
	}

	r.log.Debug("Read device", zap.String("interface", device.Name), zap.Int("peers", len(device.Peers)))
	return Render(device), nil
}

// Render prints the device like `wg show <interface> dump` does. The private key is never rendered.
func Render(device *wgtypes.Device) string {
	b := &strings.Builder{}

	fwMark := "off"
	if device.FirewallMark != 0 {
		fwMark = strconv.Itoa(device.FirewallMark)
	}
	writeLine(b, "(hidden)", device.PublicKey.String(), strconv.Itoa(device.ListenPort), fwMark)

	for _, peer := range device.Peers {
		presharedKey := none
		if peer.PresharedKey != (wgtypes.Key{}) {
			presharedKey = peer.PresharedKey.String()
		}

		endpoint := none
		if peer.Endpoint != nil {
			endpoint = peer.Endpoint.String()
		}

		allowedIPs := none
		if len(peer.AllowedIPs) > 0 {
			ips := make([]string, 0, len(peer.AllowedIPs))
			for _, ip := range peer.AllowedIPs {
				ips = append(ips, ip.String())
			}
			allowedIPs = strings.Join(ips, ",")
		}

		var latestHandshake int64
		if !peer.LastHandshakeTime.IsZero() {
			latestHandshake = peer.LastHandshakeTime.Unix()
		}

		keepalive := "off"
		if peer.PersistentKeepaliveInterval > 0 {
			keepalive = strconv.Itoa(int(peer.PersistentKeepaliveInterval.Seconds()))
		}

		writeLine(b,
			peer.PublicKey.String(),
			presharedKey,
			endpoint,
			allowedIPs,
			strconv.FormatInt(latestHandshake, 10),
			strconv.FormatInt(peer.ReceiveBytes, 10),
			strconv.FormatInt(peer.TransmitBytes, 10),
			keepalive,
		)
	}

	return b.String()
}

func writeLine(b *strings.Builder, fields ...string) {
	b.WriteString(strings.Join(fields, "\t"))
	b.WriteByte('\n')
}
