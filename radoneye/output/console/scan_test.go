package console

import (
	"bytes"
	"iter"
	"testing"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alepar/radoneye/radoneye"
)

func events(ds []radoneye.Discovery, err error) iter.Seq2[radoneye.Discovery, error] {
	return func(yield func(radoneye.Discovery, error) bool) {
		for _, d := range ds {
			if !yield(d, nil) {
				return
			}
		}
		if err != nil {
			yield(radoneye.Discovery{}, err)
		}
	}
}

func TestScanReporter(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := NewScanReporter(&buf)

	err := r.Report(events([]radoneye.Discovery{
		{Address: "AA:BB:CC:D7:21:A0", AddressType: "random", RSSI: -60, New: true,
			Fields: []radoneye.AdField{{Desc: "Complete Local Name", Value: "FR:R20"}}},
		{Address: "11:22:33:44:55:66", AddressType: "public", RSSI: -80, New: true},
		{Address: "AA:BB:CC:D7:21:A0", AddressType: "random", RSSI: -58,
			Fields: []radoneye.AdField{{Desc: "Complete Local Name", Value: "FR:R20"}, {Desc: "Tx Power", Value: "0"}}},
	}, nil))
	require.NoError(t, err)

	want := "Discovered device AA:BB:CC:D7:21:A0\n" +
		"Discovered device 11:22:33:44:55:66\n" +
		"Received new data from AA:BB:CC:D7:21:A0\n" +
		"Device 11:22:33:44:55:66 (public), RSSI=-80 dB\n" +
		"Device AA:BB:CC:D7:21:A0 (random), RSSI=-58 dB\n" +
		"  Complete Local Name = FR:R20\n" +
		"  Tx Power = 0\n"
	assert.Equal(t, want, buf.String())
}

func TestScanReporterError(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := NewScanReporter(&buf)

	err := r.Report(events([]radoneye.Discovery{{Address: "AA:BB:CC:D7:21:A0", New: true}}, errors.New("failed to scan for devices")))
	require.Error(t, err)
	assert.Equal(t, "Discovered device AA:BB:CC:D7:21:A0\n", buf.String())
}
