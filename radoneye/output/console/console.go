package console

import (
	"fmt"
	"io"

	"github.com/alepar/radoneye/radoneye"
	"github.com/alepar/radoneye/radoneye/output"
)

const timestampLayout = "2006-01-02 [15:04:05]"

type ConsoleOutput struct {
	out    io.Writer
	silent bool
}

// NewConsole prints measurements to out; silent prints the bare value only.
func NewConsole(out io.Writer, silent bool) output.Output {
	return &ConsoleOutput{out: out, silent: silent}
}

func (c *ConsoleOutput) Publish(m radoneye.Measurement) error {
	_, err := fmt.Fprintln(c.out, FormatMeasurement(m, c.silent))
	return err
}

func (c *ConsoleOutput) Close() error { return nil }

func FormatMeasurement(m radoneye.Measurement, silent bool) string {
	if silent {
		return fmt.Sprintf("%0.2f", m.Value)
	}
	return fmt.Sprintf("%s - %s - Radon Value: %0.2f %s", m.Timestamp.Format(timestampLayout), m.Address, m.Value, m.Unit)
}
