// Command timed runs small demonstrations of instrumented calls: a sleeping
// task timed end to end, a call with positional and named arguments, a
// failing call, and a scoped temporary file.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
