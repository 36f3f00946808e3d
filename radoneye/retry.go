package radoneye

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultRetries   = 3
	DefaultRetryWait = 5 * time.Second
)

// RetryingSensor wraps a Sensor and repeats the whole read cycle when it fails.
// Every kind of failure is retried the same way, including implausible readings.
type RetryingSensor struct {
	Sensor Sensor

	// additional attempts after the first one
	Retries int

	// pause before each retry
	Wait time.Duration

	// OnFailure, if set, is called after every failed attempt
	OnFailure func(attempt int, err error)

	Log   log.FieldLogger
	Sleep func(time.Duration)
}

func NewRetryingSensor(sensor Sensor, logger log.FieldLogger) *RetryingSensor {
	return &RetryingSensor{
		Sensor:  sensor,
		Retries: DefaultRetries,
		Wait:    DefaultRetryWait,
		Log:     logger,
		Sleep:   time.Sleep,
	}
}

func (r *RetryingSensor) Address() Address {
	return r.Sensor.Address()
}

func (r *RetryingSensor) Receive(ctx context.Context) (Measurement, error) {
	attempts := r.Retries + 1
	var lastErr error
	for i := 1; i <= attempts; i++ {
		if i > 1 {
			r.logger().Debugf("trying again (%d)...", i)
			r.sleep(r.Wait)
			if ctx.Err() != nil {
				return Measurement{}, errors.Wrap(ctx.Err(), "receive cancelled")
			}
		}

		m, err := r.Sensor.Receive(ctx)
		if err == nil {
			return m, nil
		}
		lastErr = err

		r.logger().WithField("kind", KindOf(err)).Errorf("attempt %d failed with error: %s", i, err)
		if r.OnFailure != nil {
			r.OnFailure(i, err)
		}
	}

	return Measurement{}, &Error{Kind: KindExhaustedRetries, Attempts: attempts, Err: lastErr}
}

func (r *RetryingSensor) sleep(d time.Duration) {
	if r.Sleep == nil {
		time.Sleep(d)
		return
	}
	r.Sleep(d)
}

func (r *RetryingSensor) logger() log.FieldLogger {
	if r.Log == nil {
		return log.StandardLogger()
	}
	return r.Log
}
