package sink

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/marcodamonte/timed/timed"
)

// callDurationBuckets span 100µs to roughly 26s.
var callDurationBuckets = prometheus.ExponentialBuckets(0.0001, 4, 10)

// Histogram observes Record durations into a histogram labelled by unit of
// work name and outcome.
type Histogram struct {
	vec *prometheus.HistogramVec
}

// NewHistogram registers <namespace>_call_duration_seconds on reg.
func NewHistogram(reg prometheus.Registerer, namespace string) (*Histogram, error) {
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "call_duration_seconds",
		Help:      "wall-clock duration of instrumented calls",
		Buckets:   callDurationBuckets,
	}, []string{"name", "outcome"})

	if err := reg.Register(vec); err != nil {
		return nil, errors.Wrap(err, "register call duration histogram")
	}

	return &Histogram{vec: vec}, nil
}

// Report observes rec.
func (h *Histogram) Report(rec timed.Record) {
	h.vec.WithLabelValues(rec.Name, string(rec.Outcome())).Observe(rec.Seconds())
}
