package timed

import (
	"sync/atomic"
	"time"
)

// Tally is a Reporter that aggregates Records into counters. All fields are
// updated atomically, so one Tally can be shared by any number of Funcs.
type Tally struct {
	calls     atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	panicked  atomic.Int64
	total     atomic.Int64 // nanoseconds
	max       atomic.Int64 // nanoseconds
}

// TallySnapshot is a point-in-time copy of a Tally. Fields are consistent
// individually but not across each other (no global lock).
type TallySnapshot struct {
	Calls     int64
	Succeeded int64
	Failed    int64
	Panicked  int64
	Total     time.Duration
	Max       time.Duration
}

// Mean is Total divided by Calls, or zero before the first call.
func (s TallySnapshot) Mean() time.Duration {
	if s.Calls == 0 {
		return 0
	}

	return s.Total / time.Duration(s.Calls)
}

// Report adds rec to the counters.
func (t *Tally) Report(rec Record) {
	t.calls.Add(1)

	switch rec.Outcome() {
	case OutcomeOK:
		t.succeeded.Add(1)
	case OutcomeError:
		t.failed.Add(1)
	case OutcomePanic:
		t.panicked.Add(1)
	}

	d := int64(rec.Elapsed())
	t.total.Add(d)

	for {
		prev := t.max.Load()
		if d <= prev || t.max.CompareAndSwap(prev, d) {
			break
		}
	}
}

// Snapshot returns the current counters.
func (t *Tally) Snapshot() TallySnapshot {
	return TallySnapshot{
		Calls:     t.calls.Load(),
		Succeeded: t.succeeded.Load(),
		Failed:    t.failed.Load(),
		Panicked:  t.panicked.Load(),
		Total:     time.Duration(t.total.Load()),
		Max:       time.Duration(t.max.Load()),
	}
}
