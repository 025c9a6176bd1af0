// Package scoped acquires a resource, hands it to a function, and releases it
// on every way out of that function: normal return, error, or panic.
//
// It is the function-shaped form of
//
//	r, err := acquire()
//	if err != nil { ... }
//	defer release(r)
//
// with the release error reported instead of dropped.
package scoped

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// Use acquires a resource, runs use with it, and releases it.
//
// If acquire fails, use and release are never called. Release runs even if
// use panics; the panic then continues unchanged. When both use and release
// fail, the use error is returned with the release error attached as a
// secondary error, so errors.Is still matches the use error.
func Use[R, T any](acquire func() (R, error), release func(R) error, use func(R) (T, error)) (result T, err error) {
	res, err := acquire()
	if err != nil {
		return result, errors.Wrap(err, "acquire")
	}

	defer func() {
		if rerr := release(res); rerr != nil {
			err = errors.CombineErrors(err, errors.Wrap(rerr, "release"))
		}
	}()

	return use(res)
}

// Close is Use for resources released by their Close method.
func Close[C io.Closer, T any](acquire func() (C, error), use func(C) (T, error)) (T, error) {
	return Use(acquire, func(c C) error { return c.Close() }, use)
}

// File opens path and closes it when use returns.
func File[T any](path string, flag int, perm os.FileMode, use func(*os.File) (T, error)) (T, error) {
	return Close(func() (*os.File, error) {
		//nolint:gosec // path comes from the caller
		return os.OpenFile(path, flag, perm)
	}, use)
}

// TempFile creates a temporary file in dir, then closes and removes it when
// use returns.
func TempFile[T any](dir, pattern string, use func(*os.File) (T, error)) (T, error) {
	return Use(
		func() (*os.File, error) { return os.CreateTemp(dir, pattern) },
		func(f *os.File) error {
			return errors.CombineErrors(f.Close(), os.Remove(f.Name()))
		},
		use,
	)
}
