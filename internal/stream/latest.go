package stream

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mrlokans/shoplist/internal/taskresult"
)

// Latest runs one operation per submitted input with switch-latest
// semantics: submitting a new input cancels the attempt in flight, and once
// Submit returns no result of an older input is delivered.
type Latest[K, T any] struct {
	op   func(ctx context.Context, input K) (T, error)
	opts []Option
	out  chan taskresult.Result[T]

	ctx    context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	sendMu sync.Mutex

	ctlMu   sync.Mutex
	cancel  context.CancelFunc
	closed  bool
	gen     atomic.Uint64
	doneGen atomic.Uint64
}

// NewLatest creates a switch-latest runner. Cancelling ctx stops it like Close.
func NewLatest[K, T any](ctx context.Context, op func(ctx context.Context, input K) (T, error), opts ...Option) *Latest[K, T] {
	ctx, stop := context.WithCancel(ctx)
	return &Latest[K, T]{
		op:   op,
		opts: opts,
		out:  make(chan taskresult.Result[T]),
		ctx:  ctx,
		stop: stop,
	}
}

// Results is the single result stream for all inputs. It is closed by Close.
func (l *Latest[K, T]) Results() <-chan taskresult.Result[T] {
	return l.out
}

// Submit cancels the attempt in flight and starts a new one for input.
func (l *Latest[K, T]) Submit(input K) {
	l.submit(input, false)
}

// SubmitIfIdle starts an attempt for input only when none is in flight and
// reports whether it did.
func (l *Latest[K, T]) SubmitIfIdle(input K) bool {
	return l.submit(input, true)
}

// Busy reports whether an attempt is in flight.
func (l *Latest[K, T]) Busy() bool {
	return l.doneGen.Load() != l.gen.Load()
}

func (l *Latest[K, T]) submit(input K, onlyIfIdle bool) bool {
	l.ctlMu.Lock()
	if l.closed || l.ctx.Err() != nil {
		l.ctlMu.Unlock()
		return false
	}
	if onlyIfIdle && l.Busy() {
		l.ctlMu.Unlock()
		return false
	}

	gen := l.gen.Add(1)
	if l.cancel != nil {
		l.cancel()
	}
	attemptCtx, cancel := context.WithCancel(l.ctx)
	l.cancel = cancel
	l.wg.Add(1)
	l.ctlMu.Unlock()

	// Barrier: a forwarder of an older attempt that already passed its
	// generation check finishes its send before the new attempt starts.
	l.sendMu.Lock()
	l.sendMu.Unlock()

	go l.forward(attemptCtx, gen, input)
	return true
}

func (l *Latest[K, T]) forward(ctx context.Context, gen uint64, input K) {
	defer l.wg.Done()
	defer l.finish(gen)

	results := Run(ctx, func(ctx context.Context) (T, error) {
		return l.op(ctx, input)
	}, l.opts...)

	for r := range results {
		l.sendMu.Lock()
		if l.gen.Load() != gen {
			l.sendMu.Unlock()
			continue
		}
		select {
		case l.out <- r:
		case <-ctx.Done():
		}
		l.sendMu.Unlock()
	}
}

func (l *Latest[K, T]) finish(gen uint64) {
	l.ctlMu.Lock()
	defer l.ctlMu.Unlock()
	if l.gen.Load() == gen {
		l.doneGen.Store(gen)
	}
}

// Close cancels the attempt in flight, waits for it and closes Results.
func (l *Latest[K, T]) Close() {
	l.ctlMu.Lock()
	if l.closed {
		l.ctlMu.Unlock()
		return
	}
	l.closed = true
	l.ctlMu.Unlock()

	l.stop()
	l.wg.Wait()
	close(l.out)
}
