package exporter

import (
	"fmt"
	"testing"
	"time"

	"github.com/mrincompetent/pivpn-exporter/pkg/scrape"
	testhelper "github.com/mrincompetent/pivpn-exporter/pkg/test"
	"github.com/mrincompetent/pivpn-exporter/pkg/wireguard/key"

	"github.com/go-test/deep"
)

func TestAggregate(t *testing.T) {
	now := time.Unix(1700000100, 0)

	tests := []struct {
		name            string
		clients         key.Directory
		dump            string
		expectedRecords []Record
		expectedErr     string
	}{
		{
			name:    "known client",
			clients: key.Directory{"AAAA": "alice"},
			dump:    testhelper.Dump(testhelper.DumpLine("AAAA", "(none)", "1.2.3.4:51820", "0.0.0.0/0", "1700000000", "1024", "2048", "25")),
			expectedRecords: []Record{
				{Interface: "wg0", Client: "alice", LastHandshake: 1700000000, SinceLastHandshake: 100, ReceivedBytesTotal: 1024, SentBytesTotal: 2048},
			},
		},
		{
			name:    "unknown keys stay as they are",
			clients: key.Directory{},
			dump: testhelper.Dump(
				testhelper.DumpLine(testhelper.KeyBob, "(none)", "(none)", "(none)", "1700000050", "1", "2", "off"),
				testhelper.DumpLine(testhelper.KeyAlice, "(none)", "(none)", "(none)", "1700000000", "3", "4", "off"),
			),
			expectedRecords: []Record{
				{Interface: "wg0", Client: testhelper.KeyBob, LastHandshake: 1700000050, SinceLastHandshake: 50, ReceivedBytesTotal: 1, SentBytesTotal: 2},
				{Interface: "wg0", Client: testhelper.KeyAlice, LastHandshake: 1700000000, SinceLastHandshake: 100, ReceivedBytesTotal: 3, SentBytesTotal: 4},
			},
		},
		{
			name:    "client name is only applied to the public key field",
			clients: key.Directory{"1024": "mallory", "AAAA": "alice"},
			dump:    testhelper.Dump(testhelper.DumpLine("AAAA", "(none)", "(none)", "(none)", "1700000000", "1024", "1024", "off")),
			expectedRecords: []Record{
				{Interface: "wg0", Client: "alice", LastHandshake: 1700000000, SinceLastHandshake: 100, ReceivedBytesTotal: 1024, SentBytesTotal: 1024},
			},
		},
		{
			name:    "peer without handshake",
			clients: key.Directory{"AAAA": "alice"},
			dump:    testhelper.Dump(testhelper.DumpLine("AAAA", "(none)", "(none)", "(none)", "0", "0", "0", "off")),
			expectedRecords: []Record{
				{Interface: "wg0", Client: "alice", LastHandshake: 0, SinceLastHandshake: 1700000100},
			},
		},
		{
			name:            "no peers",
			clients:         key.Directory{"AAAA": "alice"},
			dump:            testhelper.Dump(),
			expectedRecords: []Record{},
		},
		{
			name:        "malformed line",
			clients:     key.Directory{},
			dump:        testhelper.Dump(testhelper.DumpLine("AAAA", "(none)", "(none)")),
			expectedErr: "unable to parse dump line 2 'AAAA (none) (none)': expected at least 7 fields, got 3",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			records, err := Aggregate("wg0", test.clients, test.dump, now)
			if test.expectedErr != "" {
				if fmt.Sprint(err) != test.expectedErr {
					t.Fatalf("expected error %q, got %v", test.expectedErr, err)
				}
				if !scrape.IsParseError(err) {
					t.Errorf("expected a parse error, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			if diff := deep.Equal(test.expectedRecords, records); diff != nil {
				t.Errorf("got records do not match the expected records. Diff: \n%v", diff)
			}
		})
	}
}

func TestAggregateRecordCount(t *testing.T) {
	for peers := 1; peers <= 5; peers++ {
		lines := make([]string, 0, peers)
		for i := 0; i < peers; i++ {
			lines = append(lines, testhelper.DumpLine(fmt.Sprintf("peer%d", i), "(none)", "(none)", "(none)", "1700000000", "0", "0", "off"))
		}
		raw := testhelper.Dump(lines...)

		before := time.Now()
		records, err := Aggregate("wg0", key.Directory{}, raw, time.Now())
		if err != nil {
			t.Fatal(err)
		}

		if len(records) != peers {
			t.Fatalf("expected %d records, got %d", peers, len(records))
		}
		for _, record := range records {
			delta := record.SinceLastHandshake - (before.Unix() - record.LastHandshake)
			if delta < 0 || delta > 1 {
				t.Errorf("since last handshake %d is not within tolerance of now", record.SinceLastHandshake)
			}
		}
	}
}
