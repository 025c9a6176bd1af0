package timed

import (
	"fmt"
	"time"
)

// Outcome classifies how a call ended.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
	OutcomePanic Outcome = "panic"
)

// Record is the timing of a single call. It is built when the call ends and
// handed to the Reporter; Wrap keeps no reference to it.
type Record struct {
	Name     string
	Start    time.Time
	End      time.Time
	Err      error // error returned by the unit of work, if any
	Panicked bool
}

// Elapsed is End minus Start, never negative.
func (r Record) Elapsed() time.Duration {
	d := r.End.Sub(r.Start)
	if d < 0 {
		return 0
	}

	return d
}

// Seconds is Elapsed as fractional seconds.
func (r Record) Seconds() float64 {
	return r.Elapsed().Seconds()
}

// Outcome reports whether the call returned, failed or panicked.
func (r Record) Outcome() Outcome {
	switch {
	case r.Panicked:
		return OutcomePanic
	case r.Err != nil:
		return OutcomeError
	default:
		return OutcomeOK
	}
}

// String renders the one-line report written by the text reporter.
func (r Record) String() string {
	switch r.Outcome() {
	case OutcomePanic:
		return fmt.Sprintf("'%s' panicked after %.4fs", r.Name, r.Seconds())
	case OutcomeError:
		return fmt.Sprintf("'%s' failed after %.4fs: %v", r.Name, r.Seconds(), r.Err)
	default:
		return fmt.Sprintf("'%s' execution time: %.4fs", r.Name, r.Seconds())
	}
}
