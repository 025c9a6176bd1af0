// Package sink provides timed.Reporter implementations backed by zap,
// Prometheus and OpenTelemetry.
package sink

import (
	"io"

	"github.com/marcodamonte/timed/timed"
)

// Names of the sinks selectable from configuration.
const (
	NameText    = "text"
	NameZap     = "zap"
	NameMetrics = "metrics"
	NameTrace   = "trace"
)

// Known lists every sink name in display order.
var Known = []string{NameText, NameZap, NameMetrics, NameTrace}

// Text writes one human-readable line per Record to w.
func Text(w io.Writer) timed.Reporter {
	return timed.NewWriterReporter(w)
}
