package errs

import (
	cr "github.com/cockroachdb/errors"
)

// Thin wrappers over cockroachdb/errors so the rest of the codebase never
// imports it directly. Mark attaches a sentinel without changing the chain,
// which is how usecases surface domain failures to the HTTP layer.

func New(msg string) error {
	return cr.New(msg)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// marked carries a sentinel alongside the cause. Unwrap exposes both
// branches, so errors.Is matches the sentinel as well as the cause chain;
// cockroachdb's own Mark hides the sentinel from stdlib errors.Is.
type marked struct {
	cause error
	mark  error
}

func (m *marked) Error() string { return m.cause.Error() }

func (m *marked) Unwrap() []error { return []error{m.cause, m.mark} }

func Mark(err error, mark error) error {
	if err == nil {
		return mark
	}
	return &marked{cause: err, mark: mark}
}
