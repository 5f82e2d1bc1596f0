// Package logz wraps go.uber.org/zap the way the rest of the runtime
// needs it used: passed to the worker runtime's constructor and
// installed into the exchange package through exchange.SetLogger (the
// circuit builder takes none), so a
// library embedder controls exactly how much (if any) of flowcore's
// own logging reaches their process. Log fields carry circuit-local
// identity (worker id, node id, scope), the same role the teacher's
// coordinator logs give node and shard ids.
package logz

import "go.uber.org/zap"

// Logger is the handle passed to worker.New and exchange.SetLogger.
// It is just *zap.Logger; the alias exists so callers outside
// this package never need their own zap import only to hold a field.
type Logger = zap.Logger

// NewNop returns a logger that discards everything — the default for
// library use, where flowcore must not write to an embedder's stdout
// uninvited.
func NewNop() *Logger { return zap.NewNop() }

// NewDevelopment returns a human-readable, level-colored logger, for
// the example cmd/ binary and for tests that want to see merge and
// fuel decisions as they happen. Panics if zap's development config
// fails to build, which happens only if the process's stderr is
// unusable.
func NewDevelopment() *Logger {
	l, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return l
}

// Worker returns a child logger scoped to one worker, the field every
// worker-runtime log line carries.
func Worker(l *Logger, id int) *Logger {
	return l.With(zap.Int("worker", id))
}

// Node returns a child logger additionally scoped to one stream's
// origin identity.
func Node(l *Logger, id string) *Logger {
	return l.With(zap.String("node", id))
}

// Scope returns a child logger additionally scoped to one inner-clock
// nesting depth.
func Scope(l *Logger, scope int) *Logger {
	return l.With(zap.Int("scope", scope))
}
