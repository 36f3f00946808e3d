package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/version"

	"github.com/alepar/radoneye/radoneye"
)

const (
	jobName  = "radoneye"
	keyLabel = "device"
)

// Run collects the outcome of one read for a Pushgateway.
type Run struct {
	registry    *prometheus.Registry
	radonLevel  *prometheus.GaugeVec
	attempts    prometheus.Counter
	failures    prometheus.Counter
	lastSuccess prometheus.Gauge
}

func NewRun() *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),
		radonLevel: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "radoneye_radon_level",
				Help: "Radon concentration reported by the RadonEye (units: label unit)",
			},
			[]string{"unit"},
		),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radoneye_read_attempts",
			Help: "Read cycles started against the device in this run",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "radoneye_read_failures",
			Help: "Read cycles that failed in this run",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "radoneye_last_success_timestamp_seconds",
			Help: "Time of the last successful read",
		}),
	}

	r.registry.MustRegister(r.radonLevel)
	r.registry.MustRegister(r.attempts)
	r.registry.MustRegister(r.failures)
	r.registry.MustRegister(r.lastSuccess)
	r.registry.MustRegister(version.NewCollector(jobName))
	return r
}

func (r *Run) AttemptFailed(attempt int, err error) {
	r.attempts.Inc()
	r.failures.Inc()
}

func (r *Run) Succeeded(m radoneye.Measurement) {
	r.attempts.Inc()
	r.radonLevel.WithLabelValues(string(m.Unit)).Set(m.Value)
	r.lastSuccess.Set(float64(m.Timestamp.Unix()))
}

// Push replaces the metrics of this device on the Pushgateway at url.
func (r *Run) Push(url string, addr radoneye.Address) error {
	err := push.New(url, jobName).
		Gatherer(r.registry).
		Grouping(keyLabel, addr.Key()).
		Push()
	return errors.Wrapf(err, "failed to push metrics to %s", url)
}
