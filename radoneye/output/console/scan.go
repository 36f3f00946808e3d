package console

import (
	"fmt"
	"io"
	"iter"
	"sort"

	"github.com/fatih/color"

	"github.com/alepar/radoneye/radoneye"
)

// ScanReporter prints discovery events as they arrive and a per-device summary
// once the scan is over.
type ScanReporter struct {
	out       io.Writer
	highlight func(a ...interface{}) string
}

func NewScanReporter(out io.Writer) *ScanReporter {
	return &ScanReporter{
		out:       out,
		highlight: color.New(color.FgHiCyan).SprintFunc(),
	}
}

func (r *ScanReporter) Report(events iter.Seq2[radoneye.Discovery, error]) error {
	devices := map[string]radoneye.Discovery{}
	for d, err := range events {
		if err != nil {
			return err
		}
		if d.New {
			fmt.Fprintln(r.out, "Discovered device", r.highlight(d.Address))
		} else {
			fmt.Fprintln(r.out, "Received new data from", d.Address)
		}
		devices[d.Address] = d
	}

	addrs := make([]string, 0, len(devices))
	for addr := range devices {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	for _, addr := range addrs {
		d := devices[addr]
		fmt.Fprintf(r.out, "Device %s (%s), RSSI=%d dB\n", r.highlight(d.Address), d.AddressType, d.RSSI)
		for _, f := range d.Fields {
			fmt.Fprintf(r.out, "  %s = %s\n", f.Desc, f.Value)
		}
	}
	return nil
}
