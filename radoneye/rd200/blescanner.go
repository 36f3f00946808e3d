package rd200

import (
	"context"
	"encoding/hex"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux/adv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/alepar/radoneye/radoneye"
)

const DefaultScanDuration = 10 * time.Second

var _ radoneye.Scanner = (*BleScanner)(nil)

// rawAdvertisement is implemented by the linux hci advertisement.
type rawAdvertisement interface {
	Data() []byte
	ScanResponse() []byte
}

// ScanDevice is implemented by linux.Device.
type ScanDevice interface {
	Scan(ctx context.Context, allowDup bool, h ble.AdvHandler) error
}

// BleScanner lists every advertising peripheral in range, not only RD200s.
type BleScanner struct {
	Device       ScanDevice
	ScanDuration time.Duration
	Log          log.FieldLogger
}

func (scanner *BleScanner) Scan(ctx context.Context) iter.Seq2[radoneye.Discovery, error] {
	return func(yield func(radoneye.Discovery, error) bool) {
		ctx, cancel := context.WithTimeout(ctx, scanner.ScanDuration)
		defer cancel()
		if scanner.Log != nil {
			scanner.Log.Debugf("scanning for %s", scanner.ScanDuration)
		}

		// ads is never closed: the adv handler stays installed on the device
		// after Scan returns, so late reports fall through on ctx.Done instead
		ads := make(chan ble.Advertisement)
		errc := make(chan error, 1)
		go func() {
			errc <- scanner.Device.Scan(ctx, true, func(a ble.Advertisement) {
				select {
				case ads <- a:
				case <-ctx.Done():
				}
			})
		}()

		seen := map[string]radoneye.Discovery{}
		for {
			select {
			case a := <-ads:
				d, changed := track(seen, a)
				if !changed {
					continue
				}
				if !yield(d, nil) {
					cancel()
					<-errc
					return
				}
			case err := <-errc:
				switch errors.Cause(err) {
				case nil:
				case context.DeadlineExceeded:
					// end of the scan window
				case context.Canceled:
					yield(radoneye.Discovery{}, errors.Wrap(err, "scan for devices cancelled"))
				default:
					yield(radoneye.Discovery{}, errors.Wrap(err, "failed to scan for devices"))
				}
				return
			}
		}
	}
}

// track records a in seen and reports whether it is a new device or carries
// advertisement data different from the last one.
func track(seen map[string]radoneye.Discovery, a ble.Advertisement) (radoneye.Discovery, bool) {
	addr := strings.ToUpper(a.Addr().String())
	d := radoneye.Discovery{
		Address:     addr,
		AddressType: addressType(a),
		RSSI:        a.RSSI(),
		Fields:      adFields(a),
	}

	prev, known := seen[addr]
	seen[addr] = d
	if !known {
		d.New = true
		return d, true
	}
	return d, !slices.Equal(prev.Fields, d.Fields)
}

func addressType(a ble.Advertisement) string {
	typed, ok := a.(interface{ AddressType() uint8 })
	if !ok {
		return "unknown"
	}
	if typed.AddressType() == 1 {
		return "random"
	}
	return "public"
}

func adFields(a ble.Advertisement) []radoneye.AdField {
	var fields []radoneye.AdField
	add := func(desc, value string) {
		fields = append(fields, radoneye.AdField{Desc: desc, Value: value})
	}

	if name := a.LocalName(); name != "" {
		add("Complete Local Name", name)
	}
	if tx, ok := txPower(a); ok {
		add("Tx Power", fmt.Sprint(tx))
	}
	if services := a.Services(); len(services) > 0 {
		add("Services", joinUUIDs(services))
	}
	if solicited := a.SolicitedService(); len(solicited) > 0 {
		add("Solicited Services", joinUUIDs(solicited))
	}
	for _, sd := range a.ServiceData() {
		add("Service Data", sd.UUID.String()+" "+hex.EncodeToString(sd.Data))
	}
	if md := a.ManufacturerData(); len(md) > 0 {
		add("Manufacturer", hex.EncodeToString(md))
	}
	return fields
}

// txPower reports the advertised tx power only when the field is present;
// TxPowerLevel alone cannot tell a missing field from 0 dBm.
func txPower(a ble.Advertisement) (int, bool) {
	raw, ok := a.(rawAdvertisement)
	if !ok {
		return 0, false
	}
	return adv.NewRawPacket(raw.Data(), raw.ScanResponse()).TxPower()
}

func joinUUIDs(uuids []ble.UUID) string {
	s := make([]string, len(uuids))
	for i, u := range uuids {
		s[i] = u.String()
	}
	return strings.Join(s, ",")
}
