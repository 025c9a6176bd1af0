package sink

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/marcodamonte/timed/timed"
)

// Zap logs each Record: Info for successful calls, Warn for errors and Error
// for panics.
func Zap(log *zap.Logger) timed.Reporter {
	return timed.ReporterFunc(func(rec timed.Record) {
		fields := []zap.Field{
			zap.String("name", rec.Name),
			zap.Duration("elapsed", rec.Elapsed()),
			zap.String("seconds", strconv.FormatFloat(rec.Seconds(), 'f', 4, 64)),
		}

		switch rec.Outcome() {
		case timed.OutcomePanic:
			log.Error("call panicked", fields...)
		case timed.OutcomeError:
			log.Warn("call failed", append(fields, zap.Error(rec.Err))...)
		default:
			log.Info("execution time", fields...)
		}
	})
}
