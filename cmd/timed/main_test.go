package main

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/gomega"

	"github.com/marcodamonte/timed/internal/config"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), errOut.String(), err
}

func TestRunReportsAndReturns(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	out, _, err := execute(t, "run", "--sleep", "1ms")
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(out).To(MatchRegexp(`'some_task' execution time: \d+\.\d{4}s\n`))
	g.Expect(out).To(ContainSubstring(`returned: "작업 결과물"`))
}

func TestArgsForwarded(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	out, _, err := execute(t, "args")
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(out).To(ContainSubstring("required:   first"))
	g.Expect(out).To(ContainSubstring("positional: [second third]"))
	g.Expect(out).To(ContainSubstring("named:      id=123"))
	g.Expect(out).To(ContainSubstring("named:      job=developer"))
	g.Expect(out).To(ContainSubstring("'demo_func' execution time:"))
}

func TestFailurePolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		policy     string
		wantReport bool
	}{
		{"always", true},
		{"on-success", false},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			out, _, err := execute(t, "fail", "--policy", tt.policy)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(out).To(ContainSubstring("errors.Is(err, errForced) = true"))

			if tt.wantReport {
				g.Expect(out).To(ContainSubstring("'flaky_task' failed after"))
			} else {
				g.Expect(out).NotTo(ContainSubstring("'flaky_task'"))
			}
		})
	}
}

func TestScopedRemovesFiles(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	out, _, err := execute(t, "scoped")
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(bytes.Count([]byte(out), []byte("(file closed and removed)"))).To(Equal(2))
	g.Expect(out).To(ContainSubstring("forced failure"))
}

func TestStatsCounts(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	out, _, err := execute(t, "stats", "--count", "4", "--sleep", "0s", "--sink", "metrics")
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(out).To(ContainSubstring("calls=4 ok=4 failed=0"))
	g.Expect(out).To(ContainSubstring(`timed_call_duration_seconds_count{name="fetch",outcome="ok"} 4`))
}

func TestZapSinkLogsToStderr(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	out, errOut, err := execute(t, "run", "--sleep", "0s", "--sink", "zap")
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(out).NotTo(ContainSubstring("execution time:"))
	g.Expect(errOut).To(ContainSubstring("execution time"))
	g.Expect(errOut).To(ContainSubstring("some_task"))
}

func TestTraceSinkExportsSpans(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, errOut, err := execute(t, "run", "--sleep", "0s", "--sink", "trace")
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(errOut).To(ContainSubstring(`"Name": "some_task"`))
}

func TestAllSections(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	out, _, err := execute(t, "all", "--sleep", "0s")
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(bytes.Count([]byte(out), []byte("━━━"))).To(Equal(10))
	g.Expect(out).To(ContainSubstring("calls=3"))
}

func TestInvalidSinkRejected(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, _, err := execute(t, "run", "--sink", "kafka")
	g.Expect(errors.Is(err, config.ErrInvalidSink)).To(BeTrue())
}
