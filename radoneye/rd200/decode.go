package rd200

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/alepar/radoneye/radoneye"
)

const (
	responseMinLen = 6
	valueOffset    = 2

	// the device occasionally reports spurious huge values
	MaxPlausibleValue = 1000
)

// DecodeResponse extracts the radon level in pCi/L from the read characteristic
// value: a little-endian float32 at offset 2.
func DecodeResponse(raw []byte) (float32, error) {
	if len(raw) < responseMinLen {
		return 0, radoneye.DecodeError(radoneye.ErrShortResponse, fmt.Sprintf("got %d bytes, need %d", len(raw), responseMinLen))
	}

	return math.Float32frombits(binary.LittleEndian.Uint32(raw[valueOffset:responseMinLen])), nil
}

func checkPlausible(value float32) error {
	if math.IsNaN(float64(value)) || value > MaxPlausibleValue {
		return radoneye.SanityError(radoneye.ErrImplausibleReading, fmt.Sprintf("value %f exceeds %d", value, MaxPlausibleValue))
	}
	return nil
}
