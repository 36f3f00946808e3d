package radoneye

import (
	"context"
	"time"
)

type Sensor interface {
	Address() Address

	// performs one full read cycle against the device
	Receive(ctx context.Context) (Measurement, error)
}

type Unit string

const (
	PicoCuriesPerLiter      Unit = "pCi/L"
	BecquerelsPerCubicMeter Unit = "Bq/m³"
)

// pCi/L to Bq/m³
const becquerelFactor = 37

type Measurement struct {
	Value     float64
	Unit      Unit
	Address   Address
	Timestamp time.Time
}

// Convert maps a reading in pCi/L to its display value and unit label.
func Convert(valuePCiL float64, toBecquerel bool) (float64, string) {
	if toBecquerel {
		return valuePCiL * becquerelFactor, string(BecquerelsPerCubicMeter)
	}
	return valuePCiL, string(PicoCuriesPerLiter)
}

// Display returns the measurement expressed in the requested unit. Only
// measurements in pCi/L are converted; anything else is returned as is.
func (m Measurement) Display(becquerel bool) Measurement {
	if m.Unit != PicoCuriesPerLiter {
		return m
	}
	value, unit := Convert(m.Value, becquerel)
	m.Value = value
	m.Unit = Unit(unit)
	return m
}
