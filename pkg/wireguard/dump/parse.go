package dump

import (
	"strconv"
	"strings"

	"github.com/mrincompetent/pivpn-exporter/pkg/scrape"

	"github.com/pkg/errors"
)

// Field positions of a peer line in `wg show <interface> dump`.
const (
	FieldPublicKey = iota
	FieldPresharedKey
	FieldEndpoint
	FieldAllowedIPs
	FieldLatestHandshake
	FieldReceivedBytes
	FieldSentBytes
	FieldPersistentKeepalive
)

// MinPeerFields is the number of fields a peer line needs for all consumed fields to be present.
const MinPeerFields = FieldSentBytes + 1

// Row is a single peer line of the dump.
type Row struct {
	LineNumber int

	// Peer is the public key of the peer
	Peer            string
	LatestHandshake int64
	ReceivedBytes   int64
	SentBytes       int64
}

// Lines splits the dump into lines and drops the interface line which always comes first.
func Lines(raw string) []string {
	raw = strings.TrimSuffix(raw, "\n")
	if raw == "" {
		return nil
	}

	lines := strings.Split(raw, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines[1:]
}

// Parse parses all peer lines of a dump. A single malformed line fails the whole dump.
func Parse(raw string) ([]Row, error) {
	lines := Lines(raw)
	rows := make([]Row, 0, len(lines))
	for i, line := range lines {
		// +2: 1-based and the interface line was dropped
		row, err := ParseLine(i+2, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}
	return rows, nil
}

// ParseLine parses a single tab separated peer line.
func ParseLine(lineNumber int, line string) (*Row, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < MinPeerFields {
		return nil, scrape.ParseError(lineNumber, line, errors.Errorf("expected at least %d fields, got %d", MinPeerFields, len(fields)))
	}

	row := &Row{
		LineNumber: lineNumber,
		Peer:       fields[FieldPublicKey],
	}

	var err error
	if row.LatestHandshake, err = parseInt(fields, FieldLatestHandshake, "latest handshake"); err != nil {
		return nil, scrape.ParseError(lineNumber, line, err)
	}
	if row.ReceivedBytes, err = parseInt(fields, FieldReceivedBytes, "received bytes"); err != nil {
		return nil, scrape.ParseError(lineNumber, line, err)
	}
	if row.SentBytes, err = parseInt(fields, FieldSentBytes, "sent bytes"); err != nil {
		return nil, scrape.ParseError(lineNumber, line, err)
	}

	return row, nil
}

func parseInt(fields []string, index int, name string) (int64, error) {
	v, err := strconv.ParseInt(fields[index], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s in field %d", name, index)
	}
	return v, nil
}
