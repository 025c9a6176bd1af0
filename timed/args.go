package timed

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Args is an argument list with ordered positional values and named values.
// Keys in Named are unique and their order carries no meaning.
//
// Args values are treated as immutable: With copies Named instead of writing
// to it, and Wrap passes Args to the unit of work as received.
type Args struct {
	Positional []any
	Named      map[string]any
}

// NewArgs builds Args from positional values.
func NewArgs(pos ...any) Args {
	return Args{Positional: pos}
}

// With returns a copy of a with key set to v. a itself is left untouched.
func (a Args) With(key string, v any) Args {
	named := make(map[string]any, len(a.Named)+1)
	maps.Copy(named, a.Named)
	named[key] = v

	return Args{Positional: a.Positional, Named: named}
}

// Arg returns the i-th positional value.
func (a Args) Arg(i int) (any, bool) {
	if i < 0 || i >= len(a.Positional) {
		return nil, false
	}

	return a.Positional[i], true
}

// Get returns the named value for key.
func (a Args) Get(key string) (any, bool) {
	v, ok := a.Named[key]
	return v, ok
}

// Len is the number of positional values.
func (a Args) Len() int {
	return len(a.Positional)
}

// Keys returns the named keys in sorted order.
func (a Args) Keys() []string {
	return slices.Sorted(maps.Keys(a.Named))
}

// String renders a as "(p1, p2; k1=v1, k2=v2)" with keys sorted.
func (a Args) String() string {
	var b strings.Builder

	b.WriteByte('(')
	for i, v := range a.Positional {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprint(&b, v)
	}

	if len(a.Named) > 0 {
		b.WriteString("; ")
		for i, k := range a.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, a.Named[k])
		}
	}
	b.WriteByte(')')

	return b.String()
}
