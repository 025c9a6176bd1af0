package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/marcodamonte/timed/scoped"
	"github.com/marcodamonte/timed/timed"
)

var errForced = errors.New("forced failure")

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n━━━ %s ━━━\n", title)
}

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Time a task that sleeps and returns a value",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.demoSleepingTask()
		},
	}
}

func (a *app) argsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "args",
		Short: "Time a call with positional and named arguments",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.demoArgs()
		},
	}
}

func (a *app) failCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fail",
		Short: "Time a call that fails; the error reaches the caller untouched",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.demoFailure()
		},
	}
}

func (a *app) scopedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scoped",
		Short: "Write a temporary file that is closed and removed on every exit path",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.demoScoped()
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Time a chained task several times and print aggregate counters",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.demoStats()
		},
	}
	cmd.Flags().IntVar(&a.count, "count", 3, "number of calls")

	return cmd
}

func (a *app) allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every demonstration in order",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			steps := []struct {
				title string
				run   func() error
			}{
				{"Wrap — sleeping task", a.demoSleepingTask},
				{"Args — positional and named arguments", a.demoArgs},
				{"Failure — error passes through unchanged", a.demoFailure},
				{"Scoped — release on every exit path", a.demoScoped},
				{"Chain + Tally — aggregate timings", a.demoStats},
			}

			for _, s := range steps {
				section(a.out, s.title)
				if err := s.run(); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

// ── Demonstrations ───────────────────────────────────────────────────────────

func (a *app) demoSleepingTask() error {
	someTask := timed.Wrap(a.cfg.Demo.Name, func(delay time.Duration) (string, error) {
		fmt.Fprintf(a.out, "  ... working for %s ...\n", delay)
		time.Sleep(delay)
		fmt.Fprintln(a.out, "  ... done!")
		return a.cfg.Demo.Result, nil
	}, a.options()...)

	result, err := someTask(a.cfg.Demo.Sleep)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "  returned: %q\n", result)

	return nil
}

func (a *app) demoArgs() error {
	demoFunc := timed.Wrap("demo_func", timed.Variadic(func(args timed.Args) (any, error) {
		required, ok := args.Arg(0)
		if !ok {
			return nil, errors.New("demo_func: missing required argument")
		}

		fmt.Fprintf(a.out, "  required:   %v\n", required)
		fmt.Fprintf(a.out, "  positional: %v\n", args.Positional[1:])
		for _, k := range args.Keys() {
			fmt.Fprintf(a.out, "  named:      %s=%v\n", k, args.Named[k])
		}

		return args.Len() + len(args.Named), nil
	}), a.options()...)

	args := timed.NewArgs("first", "second", "third").
		With("id", 123).
		With("job", "developer")

	n, err := demoFunc(args)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "  called with %s, %v values seen\n", args, n)

	return nil
}

func (a *app) demoFailure() error {
	flaky := timed.Wrap("flaky_task", func(attempt int) (string, error) {
		return "", errors.Wrapf(errForced, "attempt %d", attempt)
	}, a.options()...)

	_, err := flaky(1)
	fmt.Fprintf(a.out, "  error: %v\n", err)
	fmt.Fprintf(a.out, "  errors.Is(err, errForced) = %t\n", errors.Is(err, errForced))
	fmt.Fprintf(a.out, "  policy %q\n", a.cfg.Policy())

	return nil
}

func (a *app) demoScoped() error {
	write := func(fail bool) (string, error) {
		return scoped.TempFile("", "timed-scoped-*.txt", func(f *os.File) (string, error) {
			if _, err := f.WriteString("Hello, scoped file!\n"); err != nil {
				return f.Name(), err
			}
			if fail {
				return f.Name(), errForced
			}
			return f.Name(), nil
		})
	}

	for _, fail := range []bool{false, true} {
		name, err := write(fail)

		switch {
		case err == nil:
			fmt.Fprintf(a.out, "  wrote %s\n", name)
		case errors.Is(err, errForced):
			fmt.Fprintf(a.out, "  failed inside %s: %v\n", name, err)
		default:
			return err
		}

		if _, statErr := os.Stat(name); errors.Is(statErr, os.ErrNotExist) {
			fmt.Fprintln(a.out, "  (file closed and removed)")
		} else {
			return errors.Newf("temporary file %s still present", name)
		}
	}

	return nil
}

func (a *app) demoStats() error {
	tally := &timed.Tally{}

	step := a.cfg.Demo.Sleep / 10
	fetch := timed.Chain(
		func(i int) (int, error) {
			time.Sleep(step)
			return i * i, nil
		},
		timed.Instrument[int, int]("fetch_total", timed.WithReporter(tally)),
		timed.Instrument[int, int]("fetch", a.options()...),
	)

	for i := range a.count {
		if _, err := fetch(i); err != nil {
			return err
		}
	}

	snap := tally.Snapshot()
	fmt.Fprintf(a.out, "  calls=%d ok=%d failed=%d mean=%s max=%s\n",
		snap.Calls, snap.Succeeded, snap.Failed,
		snap.Mean().Round(time.Microsecond), snap.Max.Round(time.Microsecond))

	return nil
}
