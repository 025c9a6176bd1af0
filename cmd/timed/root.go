package main

import (
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/marcodamonte/timed/internal/config"
	"github.com/marcodamonte/timed/internal/logging"
	"github.com/marcodamonte/timed/sink"
	"github.com/marcodamonte/timed/timed"
)

const tracerName = "github.com/marcodamonte/timed"

// app holds flag values and everything built from the loaded configuration.
type app struct {
	out    io.Writer
	errOut io.Writer

	// flags
	cfgPath  string
	logLevel string
	sinks    []string
	policy   string
	sleep    time.Duration
	count    int

	cfg      *config.Config
	log      *zap.Logger
	reporter timed.Reporter
	registry *prometheus.Registry
	tracer   *sdktrace.TracerProvider
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, count: 3}

	root := &cobra.Command{
		Use:                "timed",
		Short:              "Demonstrate timing instrumentation around units of work",
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "path to a TOML configuration file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringSliceVar(&a.sinks, "sink", nil, "report sinks: "+strings.Join(sink.Known, ", "))
	pf.StringVar(&a.policy, "policy", "", "report policy (always, on-success)")
	pf.DurationVar(&a.sleep, "sleep", 0, "how long the demo task sleeps")

	root.AddCommand(
		a.runCmd(),
		a.argsCmd(),
		a.failCmd(),
		a.scopedCmd(),
		a.statsCmd(),
		a.allCmd(),
	)

	return root
}

// flagOverrides returns only the flags set on the command line, keyed by
// their configuration path.
func (a *app) flagOverrides(cmd *cobra.Command) map[string]any {
	flags := map[string]any{}
	f := cmd.Flags()

	if f.Changed("log-level") {
		flags["log.level"] = a.logLevel
	}
	if f.Changed("sink") {
		flags["report.sinks"] = a.sinks
	}
	if f.Changed("policy") {
		flags["report.policy"] = a.policy
	}
	if f.Changed("sleep") {
		flags["demo.sleep"] = a.sleep
	}

	return flags
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Loader{Path: a.cfgPath}.Load(a.flagOverrides(cmd))
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Log.Level, a.errOut)
	if err != nil {
		return err
	}
	a.log = log

	reporters := make([]timed.Reporter, 0, len(cfg.Report.Sinks))
	for _, name := range cfg.Report.Sinks {
		r, err := a.buildSink(cmd, name)
		if err != nil {
			return errors.Wrapf(err, "sink %s", name)
		}
		reporters = append(reporters, r)
	}

	a.reporter = timed.Discard
	if len(reporters) > 0 {
		a.reporter = timed.Multi(reporters...)
	}

	a.log.Debug("configuration loaded",
		zap.Strings("sinks", cfg.Report.Sinks),
		zap.Stringer("policy", cfg.Policy()),
		zap.Duration("sleep", cfg.Demo.Sleep),
	)

	return nil
}

func (a *app) buildSink(cmd *cobra.Command, name string) (timed.Reporter, error) {
	switch name {
	case sink.NameText:
		return sink.Text(a.out), nil

	case sink.NameZap:
		return sink.Zap(a.log.Named("timing")), nil

	case sink.NameMetrics:
		if a.registry == nil {
			a.registry = prometheus.NewRegistry()
		}
		h, err := sink.NewHistogram(a.registry, a.cfg.Report.Namespace)
		if err != nil {
			return nil, err
		}
		return h, nil

	case sink.NameTrace:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(a.errOut), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, errors.Wrap(err, "create stdout trace exporter")
		}
		a.tracer = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
		return sink.Span(cmd.Context(), a.tracer.Tracer(tracerName)), nil

	default:
		return nil, errors.Wrapf(config.ErrInvalidSink, "%q", name)
	}
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	defer func() { _ = a.log.Sync() }()

	if a.tracer != nil {
		if err := a.tracer.Shutdown(cmd.Context()); err != nil {
			return errors.Wrap(err, "shutdown tracer provider")
		}
	}

	if a.registry != nil {
		mfs, err := a.registry.Gather()
		if err != nil {
			return errors.Wrap(err, "gather metrics")
		}

		for _, mf := range mfs {
			if _, err := expfmt.MetricFamilyToText(a.out, mf); err != nil {
				return errors.Wrap(err, "write metrics")
			}
		}
	}

	return nil
}

// options are the timed options every demo wraps its work with.
func (a *app) options(extra ...timed.Reporter) []timed.Option {
	reporter := a.reporter
	if len(extra) > 0 {
		reporter = timed.Multi(append([]timed.Reporter{reporter}, extra...)...)
	}

	return []timed.Option{
		timed.WithReporter(reporter),
		timed.WithPolicy(a.cfg.Policy()),
	}
}
