package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/gomega"

	"github.com/marcodamonte/timed/internal/config"
	"github.com/marcodamonte/timed/timed"
)

func writeTOML(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "timed.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return path
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	cfg, err := config.Loader{}.Load(nil)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(cfg.Log.Level).To(Equal("info"))
	g.Expect(cfg.Report.Sinks).To(HaveExactElements("text"))
	g.Expect(cfg.Policy()).To(Equal(timed.ReportAlways))
	g.Expect(cfg.Report.Namespace).To(Equal("timed"))
	g.Expect(cfg.Demo.Name).To(Equal("some_task"))
	g.Expect(cfg.Demo.Sleep).To(Equal(500 * time.Millisecond))
	g.Expect(cfg.Demo.Result).To(Equal("작업 결과물"))
}

func TestFileOverridesDefaults(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	path := writeTOML(t, `
[report]
sinks = ["zap", "metrics"]
policy = "on-success"

[demo]
sleep = "250ms"
`)

	cfg, err := config.Loader{Path: path}.Load(nil)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(cfg.Report.Sinks).To(HaveExactElements("zap", "metrics"))
	g.Expect(cfg.Policy()).To(Equal(timed.ReportOnSuccess))
	g.Expect(cfg.Demo.Sleep).To(Equal(250 * time.Millisecond))
	g.Expect(cfg.Demo.Name).To(Equal("some_task"))
}

func TestFlagsOverrideFile(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	path := writeTOML(t, "[demo]\nsleep = \"250ms\"\n")

	cfg, err := config.Loader{Path: path}.Load(map[string]any{
		"demo.sleep":   10 * time.Millisecond,
		"report.sinks": []string{"trace"},
	})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(cfg.Demo.Sleep).To(Equal(10 * time.Millisecond))
	g.Expect(cfg.Report.Sinks).To(HaveExactElements("trace"))
}

// Not parallel: t.Setenv.
func TestEnvOverridesFile(t *testing.T) {
	g := NewWithT(t)

	path := writeTOML(t, "[log]\nlevel = \"debug\"\n")
	t.Setenv("TIMED_LOG_LEVEL", "error")
	t.Setenv("TIMED_REPORT_SINKS", "text, zap")

	cfg, err := config.Loader{Path: path}.Load(nil)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(cfg.Log.Level).To(Equal("error"))
	g.Expect(cfg.Report.Sinks).To(HaveExactElements("text", "zap"))
}

func TestMissingFile(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := config.Loader{Path: filepath.Join(t.TempDir(), "absent.toml")}.Load(nil)
	g.Expect(errors.Is(err, config.ErrConfigNotFound)).To(BeTrue())
}

func TestInvalidTOML(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := config.Loader{Path: writeTOML(t, "[report\nsinks = ")}.Load(nil)
	g.Expect(err).To(HaveOccurred())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() config.Config {
		return config.Config{
			Log:    config.LogConfig{Level: "info"},
			Report: config.ReportConfig{Sinks: []string{"text"}, Policy: "always"},
			Demo:   config.DemoConfig{Name: "some_task", Sleep: time.Second},
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"valid", func(*config.Config) {}, nil},
		{"unknown sink", func(c *config.Config) { c.Report.Sinks = []string{"text", "kafka"} }, config.ErrInvalidSink},
		{"unknown policy", func(c *config.Config) { c.Report.Policy = "sometimes" }, config.ErrInvalidPolicy},
		{"negative sleep", func(c *config.Config) { c.Demo.Sleep = -time.Second }, config.ErrInvalidDuration},
		{"zero sleep", func(c *config.Config) { c.Demo.Sleep = 0 }, nil},
		{"empty name", func(c *config.Config) { c.Demo.Name = " " }, config.ErrEmptyName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.want == nil {
				g.Expect(err).NotTo(HaveOccurred())
				return
			}
			g.Expect(errors.Is(err, tt.want)).To(BeTrue())
		})
	}
}
