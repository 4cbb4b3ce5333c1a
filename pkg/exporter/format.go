package exporter

import (
	"bytes"
	"strconv"
	"strings"
)

const (
	MetricSentBytes          = "pivpn_sent_bytes_total"
	MetricReceivedBytes      = "pivpn_received_bytes_total"
	MetricSinceLastHandshake = "pivpn_since_last_handshake_seconds"
	MetricLastHandshake      = "pivpn_last_handshake_seconds"
)

type metricFamily struct {
	name       string
	help       string
	metricType string
	value      func(r Record) int64
}

// Group order of the document.
var families = []metricFamily{
	{
		name:       MetricSentBytes,
		help:       "Bytes sent to peer",
		metricType: "counter",
		value:      func(r Record) int64 { return r.SentBytesTotal },
	},
	{
		name:       MetricReceivedBytes,
		help:       "Bytes received from peer",
		metricType: "counter",
		value:      func(r Record) int64 { return r.ReceivedBytesTotal },
	},
	{
		name:       MetricSinceLastHandshake,
		help:       "Seconds passed since the last handshake",
		metricType: "gauge",
		value:      func(r Record) int64 { return r.SinceLastHandshake },
	},
	{
		name:       MetricLastHandshake,
		help:       "Seconds registered last handshake",
		metricType: "gauge",
		value:      func(r Record) int64 { return r.LastHandshake },
	},
}

var labelValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// Format renders the records in the Prometheus text exposition format.
// Every metric gets its HELP and TYPE line even when there are no records.
func Format(records []Record) []byte {
	b := &bytes.Buffer{}

	for _, family := range families {
		b.WriteString("# HELP " + family.name + " " + family.help + "\n")
		b.WriteString("# TYPE " + family.name + " " + family.metricType + "\n")

		for _, record := range records {
			b.WriteString(family.name)
			b.WriteString(`{interface="`)
			b.WriteString(labelValueEscaper.Replace(record.Interface))
			b.WriteString(`",client="`)
			b.WriteString(labelValueEscaper.Replace(record.Client))
			b.WriteString(`"} `)
			b.WriteString(strconv.FormatInt(family.value(record), 10))
			b.WriteByte('\n')
		}
	}

	return b.Bytes()
}
