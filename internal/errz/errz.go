// Package errz defines error types for two of the four error kinds
// spec.md §7 names: precondition violations (PreconditionError) and
// embedder-observable construction-time failures (ConstructionError).
// Fixed-point budget exhaustion and arithmetic failures have no type
// here. The
// wrapping idiom (a stack-carrying error rather than a bare fmt.Errorf)
// follows github.com/pkg/errors, the pattern the retrieved corpus uses
// throughout its storage and distributed-systems code (cockroachdb's and
// grailbio's error packages wrap the same way); it buys a recoverable
// stack trace for exactly the class of bug — a broken builder or cursor
// invariant — that is otherwise hardest to root-cause after the fact.
package errz

import "github.com/pkg/errors"

// PreconditionError marks a fatal programmer error in the embedder's
// circuit construction or operator usage: ordering broken in a builder,
// the gather channel's unique-producer invariant broken, a cursor
// outliving its container. Per spec.md §7 these are never recovered from
// locally; the core panics and the surrounding runtime tears the worker
// down.
type PreconditionError struct {
	msg   string
	stack error
}

func (e *PreconditionError) Error() string { return e.msg }
func (e *PreconditionError) Unwrap() error { return e.stack }

// Precondition builds a PreconditionError carrying a stack trace at the
// call site, for use with panic() at the point the invariant broke.
func Precondition(msg string) *PreconditionError {
	return &PreconditionError{msg: msg, stack: errors.New(msg)}
}

// Preconditionf is the formatted form of Precondition.
func Preconditionf(format string, args ...any) *PreconditionError {
	return &PreconditionError{msg: errors.Errorf(format, args...).Error(), stack: errors.Errorf(format, args...)}
}

// ConstructionError marks an embedder-observable failure detected while
// wiring a circuit: an exchange partner that does not exist, a receiver
// worker index out of range. These are distinct from PreconditionError
// because they are expected to be surfaced to the embedder at
// construction time (spec.md §7) rather than treated as an internal bug,
// though the response — refuse to build the circuit — is the same.
type ConstructionError struct {
	msg string
}

func (e *ConstructionError) Error() string { return e.msg }

// Construction builds a ConstructionError.
func Construction(format string, args ...any) *ConstructionError {
	return &ConstructionError{msg: errors.Errorf(format, args...).Error()}
}

// Wrap annotates err with msg, preserving its stack if it already carries
// one (github.com/pkg/errors.Wrap semantics).
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}
