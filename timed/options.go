package timed

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrUnknownPolicy is returned by ParsePolicy for names it does not know.
var ErrUnknownPolicy = errors.New("unknown report policy")

// Policy decides which calls produce a report.
type Policy int

const (
	// ReportAlways reports every call, including failed and panicking ones.
	ReportAlways Policy = iota
	// ReportOnSuccess reports only calls that returned a nil error.
	ReportOnSuccess
)

func (p Policy) String() string {
	switch p {
	case ReportAlways:
		return "always"
	case ReportOnSuccess:
		return "on-success"
	default:
		return "unknown"
	}
}

func (p Policy) reports(rec Record) bool {
	if p == ReportOnSuccess {
		return rec.Outcome() == OutcomeOK
	}

	return true
}

// ParsePolicy maps "always" and "on-success" to their Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "always":
		return ReportAlways, nil
	case "on-success", "onsuccess", "success":
		return ReportOnSuccess, nil
	default:
		return ReportAlways, errors.Wrapf(ErrUnknownPolicy, "%q", s)
	}
}

// Clock supplies instants. time.Now readings carry a monotonic component, so
// the default clock is unaffected by wall-clock jumps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Option configures Wrap.
type Option func(*config)

type config struct {
	clock    Clock
	reporter Reporter
	policy   Policy
}

func newConfig(opts []Option) config {
	cfg := config{
		clock:  SystemClock{},
		policy: ReportAlways,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.reporter == nil {
		cfg.reporter = NewWriterReporter(os.Stdout)
	}

	return cfg
}

// WithReporter sets where Records go. Defaults to a text reporter on stdout.
func WithReporter(r Reporter) Option {
	return func(c *config) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithClock replaces the time source, mostly for tests.
func WithClock(clock Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithPolicy sets the report policy. Defaults to ReportAlways.
func WithPolicy(p Policy) Option {
	return func(c *config) {
		c.policy = p
	}
}
