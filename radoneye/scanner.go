package radoneye

import (
	"context"
	"iter"
)

type Scanner interface {

	// yields discovery events until the scan window closes; a non-nil error ends the sequence
	Scan(ctx context.Context) iter.Seq2[Discovery, error]
}

// AdField is a single advertisement record, e.g. "Complete Local Name" = "FR:R20".
type AdField struct {
	Desc  string
	Value string
}

// Discovery is emitted when a device is first seen or its advertisement data changes.
type Discovery struct {
	Address     string
	AddressType string
	RSSI        int
	Fields      []AdField

	// false when the device was seen before and only its data changed
	New bool
}
