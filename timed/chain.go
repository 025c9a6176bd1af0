package timed

// ── Middleware signature ──────────────────────────────────────────────────────
// A middleware wraps a Func to add cross-cutting behaviour without changing
// its type.
//
//	type Middleware[A, R any] func(Func[A, R]) Func[A, R]
//
// Execution order with Chain(fn, mw1, mw2, mw3):
//
//	call   → mw1 → mw2 → mw3 → fn
//	return → mw3 → mw2 → mw1

// Middleware decorates a Func.
type Middleware[A, R any] func(Func[A, R]) Func[A, R]

// Instrument returns Wrap as a Middleware, for use with Chain.
func Instrument[A, R any](name string, opts ...Option) Middleware[A, R] {
	return func(next Func[A, R]) Func[A, R] {
		return Wrap(name, next, opts...)
	}
}

// Chain applies middlewares right-to-left so the first listed runs outermost.
//
//	Chain(fn, mw1, mw2, mw3) ≡ mw1(mw2(mw3(fn)))
func Chain[A, R any](fn Func[A, R], mws ...Middleware[A, R]) Func[A, R] {
	for i := len(mws) - 1; i >= 0; i-- {
		fn = mws[i](fn)
	}

	return fn
}
