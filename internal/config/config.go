// Package config loads the timed command configuration.
package config

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/marcodamonte/timed/sink"
	"github.com/marcodamonte/timed/timed"
)

var (
	// ErrConfigNotFound is returned when an explicit config file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidSink is returned for a sink name outside sink.Known.
	ErrInvalidSink = errors.New("invalid sink")

	// ErrInvalidPolicy is returned for an unknown report policy.
	ErrInvalidPolicy = errors.New("invalid report policy")

	// ErrInvalidDuration is returned for a negative demo sleep.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrEmptyName is returned when the demo task has no name.
	ErrEmptyName = errors.New("task name must not be empty")
)

// EnvPrefix is the prefix of environment overrides: TIMED_DEMO_SLEEP → demo.sleep.
const EnvPrefix = "TIMED_"

// Config is the full command configuration.
type Config struct {
	Log    LogConfig    `koanf:"log"`
	Report ReportConfig `koanf:"report"`
	Demo   DemoConfig   `koanf:"demo"`
}

// LogConfig controls the lifecycle logger.
type LogConfig struct {
	Level string `koanf:"level"`
}

// ReportConfig selects where timing reports go.
type ReportConfig struct {
	Sinks     []string `koanf:"sinks"`
	Policy    string   `koanf:"policy"`
	Namespace string   `koanf:"namespace"`
}

// DemoConfig parameterizes the sleeping demo task.
type DemoConfig struct {
	Name   string        `koanf:"name"`
	Sleep  time.Duration `koanf:"sleep"`
	Result string        `koanf:"result"`
}

// Policy parses Report.Policy.
func (c *Config) Policy() timed.Policy {
	p, _ := timed.ParsePolicy(c.Report.Policy)
	return p
}

func defaults() map[string]any {
	return map[string]any{
		"log.level":        "info",
		"report.sinks":     []string{sink.NameText},
		"report.policy":    timed.ReportAlways.String(),
		"report.namespace": "timed",
		"demo.name":        "some_task",
		"demo.sleep":       "500ms",
		"demo.result":      "작업 결과물",
	}
}

// Loader reads configuration from, lowest to highest precedence:
// defaults, the TOML file at Path (if set), TIMED_* environment variables,
// and command-line flags.
type Loader struct {
	Path string
}

// Load merges every source, then validates the result.
func (l Loader) Load(flags map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if l.Path != "" {
		if _, err := os.Stat(l.Path); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(ErrConfigNotFound, "%s", l.Path)
			}

			return nil, errors.Wrap(err, "failed to stat config file")
		}

		if err := k.Load(file.Provider(l.Path), tomlparser.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", l.Path)
		}
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}
	if err := k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if len(flags) > 0 {
		if err := k.Load(confmap.Provider(flags, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envTransform maps TIMED_REPORT_SINKS=text,zap to report.sinks=[text zap].
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "_", ".")

	if key == "report.sinks" {
		return key, splitList(value)
	}

	return key, value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

// Validate checks sink names, the policy, and demo parameters.
func (c *Config) Validate() error {
	for _, s := range c.Report.Sinks {
		if !slices.Contains(sink.Known, s) {
			return errors.Wrapf(ErrInvalidSink, "%q (known: %s)", s, strings.Join(sink.Known, ", "))
		}
	}

	if _, err := timed.ParsePolicy(c.Report.Policy); err != nil {
		return errors.Wrapf(ErrInvalidPolicy, "%q", c.Report.Policy)
	}

	if c.Demo.Sleep < 0 {
		return errors.Wrapf(ErrInvalidDuration, "demo.sleep %s is negative", c.Demo.Sleep)
	}

	if strings.TrimSpace(c.Demo.Name) == "" {
		return ErrEmptyName
	}

	return nil
}
