package output

import "github.com/alepar/radoneye/radoneye"

// Output receives a measurement already converted to the display unit.
type Output interface {
	Publish(m radoneye.Measurement) error
	Close() error
}
