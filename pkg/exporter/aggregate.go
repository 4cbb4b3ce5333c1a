package exporter

import (
	"time"

	"github.com/mrincompetent/pivpn-exporter/pkg/wireguard/dump"
	"github.com/mrincompetent/pivpn-exporter/pkg/wireguard/key"
)

// Record holds the values exported for a single peer.
type Record struct {
	Interface          string
	Client             string
	LastHandshake      int64
	SinceLastHandshake int64
	ReceivedBytesTotal int64
	SentBytesTotal     int64
}

// Aggregate turns the dump of an interface into one record per peer, in dump order.
// Peers are named by the client directory, unknown keys are kept as they are.
// A peer without a handshake reports 0 as last handshake, so the time since equals now.
func Aggregate(interfaceName string, clients key.Directory, raw string, now time.Time) ([]Record, error) {
	rows, err := dump.Parse(raw)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			Interface:          interfaceName,
			Client:             clients.Lookup(row.Peer),
			LastHandshake:      row.LatestHandshake,
			SinceLastHandshake: now.Unix() - row.LatestHandshake,
			ReceivedBytesTotal: row.ReceivedBytes,
			SentBytesTotal:     row.SentBytes,
		})
	}

	return records, nil
}
