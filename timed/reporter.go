package timed

import (
	"fmt"
	"io"
	"sync"
)

// Reporter receives one Record per reported call. Implementations shared by
// concurrently called Funcs must be safe for concurrent use.
type Reporter interface {
	Report(Record)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Record)

// Report calls f(rec).
func (f ReporterFunc) Report(rec Record) {
	f(rec)
}

// Discard drops every Record.
var Discard Reporter = ReporterFunc(func(Record) {})

// WriterReporter writes Record.String plus a newline to w.
type WriterReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterReporter returns a text reporter writing to w.
func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

// Report writes rec. Write errors are dropped; the report is a side channel
// and must not fail the call it describes.
func (r *WriterReporter) Report(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintln(r.w, rec.String())
}

type multi []Reporter

func (m multi) Report(rec Record) {
	for _, r := range m {
		r.Report(rec)
	}
}

// Multi sends each Record to every reporter in order. Nil entries are skipped.
func Multi(reporters ...Reporter) Reporter {
	out := make(multi, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}

	if len(out) == 1 {
		return out[0]
	}

	return out
}
