package radoneye

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		value     float64
		becquerel bool
		want      float64
		unit      string
	}{
		{1.0, false, 1.0, "pCi/L"},
		{1.0, true, 37.0, "Bq/m³"},
		{0.0, true, 0.0, "Bq/m³"},
		{2.5, false, 2.5, "pCi/L"},
	}
	for _, tt := range tests {
		got, unit := Convert(tt.value, tt.becquerel)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.unit, unit)
	}
}

func TestMeasurementDisplay(t *testing.T) {
	m := Measurement{Value: 2, Unit: PicoCuriesPerLiter, Address: "AA:BB:CC:DD:EE:FF", Timestamp: time.Now()}

	bq := m.Display(true)
	assert.Equal(t, 74.0, bq.Value)
	assert.Equal(t, BecquerelsPerCubicMeter, bq.Unit)
	assert.Equal(t, m.Address, bq.Address)
	assert.Equal(t, m.Timestamp, bq.Timestamp)

	// m itself is unchanged and converting twice is a no-op
	assert.Equal(t, 2.0, m.Value)
	assert.Equal(t, bq, bq.Display(true))
	assert.Equal(t, m, m.Display(false))
}
