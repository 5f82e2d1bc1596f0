package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dreamware/flowcore/internal/logz"
)

// Stepper is the one method Runtime needs from a worker's circuit:
// *circuit.Circuit[K,V,T,R] satisfies it without this package ever
// needing to know K, V, T, or R. Keeping Runtime non-generic means an
// embedder can drive circuits of different concrete instantiations
// (unusual, but nothing here forbids it) through the same Runtime.
type Stepper interface {
	Step()
}

// Fixedpointer is the additional method a Stepper may implement to
// participate in RunToFixedpoint's convergence check
// (*circuit.Circuit already does).
type Fixedpointer interface {
	Fixedpoint() bool
}

// Runtime owns the N worker goroutines (spec.md §5: "N parallel OS
// threads, one per worker"). Go's scheduler multiplexes goroutines onto
// OS threads rather than dedicating one apiece, the same substitution
// every goroutine-based concurrent engine in the retrieved pack makes;
// nothing here assumes a 1:1 mapping.
type Runtime struct {
	steppers []Stepper
	log      *logz.Logger
}

// New returns a runtime driving one goroutine per stepper. A nil log
// is replaced with logz.NewNop, matching library-default silence.
func New(log *logz.Logger, steppers ...Stepper) *Runtime {
	if log == nil {
		log = logz.NewNop()
	}
	return &Runtime{steppers: steppers, log: log}
}

// Run drives every worker through exactly ticks calls to its own Step,
// returning once all have finished or ctx is cancelled. A worker panic
// is re-raised by runOne and ends the process rather than returning here.
// Workers proceed independently between ticks (spec.md §5: "workers
// proceed independently between barriers") — whatever per-tick
// synchronization a circuit's gather nodes need happens inside Step
// itself, not in this loop.
func (r *Runtime) Run(ctx context.Context, ticks int) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, st := range r.steppers {
		i, st := i, st
		g.Go(func() error {
			return r.runOne(ctx, i, st, func(t int) bool { return t >= ticks })
		})
	}
	return g.Wait()
}

// RunToFixedpoint drives every worker until every Stepper that also
// implements Fixedpointer reports Fixedpoint() true on the same tick,
// or maxTicks is exhausted — spec.md §7: "Fixed-point not reached
// within budget: reported to the scheduler, not the user". Steppers
// that do not implement Fixedpointer are driven every tick regardless
// and never block convergence.
func (r *Runtime) RunToFixedpoint(ctx context.Context, maxTicks int) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, st := range r.steppers {
		i, st := i, st
		g.Go(func() error {
			done := func(t int) bool {
				if t >= maxTicks {
					return true
				}
				if fp, ok := st.(Fixedpointer); ok {
					return t > 0 && fp.Fixedpoint()
				}
				return false
			}
			return r.runOne(ctx, i, st, done)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, st := range r.steppers {
		if fp, ok := st.(Fixedpointer); ok && !fp.Fixedpoint() {
			return fmt.Errorf("worker %d: fixed point not reached within %d ticks", i, maxTicks)
		}
	}
	return nil
}

// runOne steps st until done(tickIndex) or ctx is cancelled, recovering
// a panic just long enough to attach this worker's identity before
// re-raising it — spec.md §7: core errors are never recovered from
// locally, and a re-panic crosses the errgroup goroutine boundary and
// takes the whole process down with it, satisfying "the host is
// expected to tear down all workers together".
func (r *Runtime) runOne(ctx context.Context, id int, st Stepper, done func(tick int) bool) (err error) {
	log := logz.Worker(r.log, id)
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("worker panicked", zap.Any("recover", rec))
			panic(fmt.Sprintf("worker %d: %v", id, rec))
		}
	}()
	for tick := 0; !done(tick); tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		st.Step()
	}
	return nil
}
