// Package timed wraps units of work so every call reports how long it took.
//
// A unit of work is any Func[A, R]: one argument value in, one result and an
// error out. Wrap returns a Func of the same type, so wrapped work can be
// passed anywhere the unwrapped func was accepted, and wrapped again.
//
//	task := timed.Wrap("some_task", func(d time.Duration) (string, error) {
//		time.Sleep(d)
//		return "done", nil
//	})
//	out, err := task(500 * time.Millisecond)
//	// stdout: 'some_task' execution time: 0.5003s
package timed

// Func is a unit of work. A carries the arguments (a struct, a scalar, or
// Args for positional plus named values) and R is the result.
type Func[A, R any] func(A) (R, error)

// Variadic is a unit of work taking positional and named arguments.
type Variadic = Func[Args, any]

// Wrap returns fn instrumented with a timer. The returned Func calls fn in the
// calling goroutine with the arguments it was given, reports one Record, and
// returns fn's result and error exactly as fn produced them.
//
// A panic in fn is not recovered. Under ReportAlways the Record is reported
// with Panicked set while the panic unwinds.
func Wrap[A, R any](name string, fn Func[A, R], opts ...Option) Func[A, R] {
	if fn == nil {
		panic("timed: Wrap called with nil func")
	}

	cfg := newConfig(opts)

	return func(args A) (result R, err error) {
		start := cfg.clock.Now()
		returned := false

		defer func() {
			rec := Record{
				Name:     name,
				Start:    start,
				End:      cfg.clock.Now(),
				Err:      err,
				Panicked: !returned,
			}
			if cfg.policy.reports(rec) {
				cfg.reporter.Report(rec)
			}
		}()

		result, err = fn(args)
		returned = true

		return result, err
	}
}

// Do times a function without arguments or result.
func Do(name string, fn func() error, opts ...Option) error {
	_, err := Wrap(name, func(struct{}) (struct{}, error) {
		return struct{}{}, fn()
	}, opts...)(struct{}{})

	return err
}

// Value times a function without arguments.
func Value[R any](name string, fn func() (R, error), opts ...Option) (R, error) {
	return Wrap(name, func(struct{}) (R, error) {
		return fn()
	}, opts...)(struct{}{})
}
