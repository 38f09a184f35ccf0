package loader

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 10 * time.Second

// FetchFunc fetches one resource.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// ObserveFunc receives the outcome of every resolved fetch.
type ObserveFunc func(resource string, status Status, elapsed time.Duration)

// Option configures a Loader.
type Option[T any] func(*Loader[T])

// WithTimeout overrides DefaultTimeout. A non-positive value disables the timeout.
func WithTimeout[T any](d time.Duration) Option[T] {
	return func(l *Loader[T]) { l.timeout = d }
}

// WithLogger sets the logger used for fetch outcomes.
func WithLogger[T any](logger *zap.Logger) Option[T] {
	return func(l *Loader[T]) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithResource names the resource in logs, errors and observations.
func WithResource[T any](name string) Option[T] {
	return func(l *Loader[T]) { l.resource = name }
}

// WithObserver registers fn to be called after each fetch resolves.
func WithObserver[T any](fn ObserveFunc) Option[T] {
	return func(l *Loader[T]) { l.observe = fn }
}

// WithOnChange registers fn to be called with every new state.
func WithOnChange[T any](fn func(State[T])) Option[T] {
	return func(l *Loader[T]) { l.onChange = fn }
}

// Loader drives one resource fetch. Load triggers the fetch once per loader (one mount);
// Refetch triggers it again. Overlapping fetches are not cancelled: whichever resolves
// last determines the final state.
type Loader[T any] struct {
	fetch    FetchFunc[T]
	timeout  time.Duration
	logger   *zap.Logger
	resource string
	observe  ObserveFunc
	onChange func(State[T])

	mu       sync.Mutex
	state    State[T]
	started  bool
	closed   bool
	inflight int
	// idle is closed whenever inflight is zero and replaced on the next fetch.
	idle chan struct{}

	// base is cancelled on Close to abandon in-flight fetches.
	base   context.Context
	cancel context.CancelFunc
}

// New creates a loader in the loading state. No fetch is issued until Load.
func New[T any](fetch FetchFunc[T], opts ...Option[T]) *Loader[T] {
	base, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)
	l := &Loader[T]{
		idle:    idle,
		fetch:   fetch,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
		state:   loadingState[T](),
		base:    base,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current snapshot.
func (l *Loader[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Resource returns the configured resource name.
func (l *Loader[T]) Resource() string {
	return l.resource
}

// Load issues the mount fetch. Calls after the first are no-ops.
func (l *Loader[T]) Load(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if l.started {
		l.mu.Unlock()
		return nil
	}
	l.started = true
	onChange := l.beginLocked()
	l.mu.Unlock()

	l.issue(ctx, onChange)
	return nil
}

// Refetch issues another fetch regardless of previous ones. An in-flight fetch is
// left running.
func (l *Loader[T]) Refetch(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.started = true
	onChange := l.beginLocked()
	l.mu.Unlock()

	l.issue(ctx, onChange)
	return nil
}

// Wait blocks until no fetch is in flight or ctx is done.
func (l *Loader[T]) Wait(ctx context.Context) error {
	l.mu.Lock()
	idle := l.idle
	l.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close unmounts the loader: in-flight fetches are cancelled and their results discarded.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	idle := l.idle
	l.mu.Unlock()

	l.cancel()
	<-idle
}

// beginLocked registers a new in-flight fetch and moves to the loading state.
// l.mu must be held.
func (l *Loader[T]) beginLocked() func(State[T]) {
	if l.inflight == 0 {
		l.idle = make(chan struct{})
	}
	l.inflight++
	l.state = loadingState[T]()
	return l.onChange
}

func (l *Loader[T]) issue(ctx context.Context, onChange func(State[T])) {
	if onChange != nil {
		onChange(loadingState[T]())
	}

	go func() {
		defer l.finish()
		start := time.Now()

		fetchCtx, cancel := l.fetchContext(ctx)
		defer cancel()
		stop := context.AfterFunc(l.base, cancel)
		defer stop()

		data, err := l.run(fetchCtx)
		if err != nil && errors.Is(err, context.DeadlineExceeded) && l.timeout > 0 {
			err = &TimeoutError{Resource: l.resource, After: l.timeout}
		}

		l.resolve(data, err, time.Since(start))
	}()
}

func (l *Loader[T]) finish() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight--
	if l.inflight == 0 {
		close(l.idle)
	}
}

type result[T any] struct {
	data T
	err  error
}

// run calls the fetch function and stops waiting for it once ctx is done, so a fetch
// that ignores its context still resolves to an error when the timeout fires.
func (l *Loader[T]) run(ctx context.Context) (T, error) {
	done := make(chan result[T], 1)
	go func() {
		data, err := l.fetch(ctx)
		done <- result[T]{data: data, err: err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (l *Loader[T]) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if l.timeout > 0 {
		return context.WithTimeout(ctx, l.timeout)
	}
	return context.WithCancel(ctx)
}

func (l *Loader[T]) resolve(data T, err error, elapsed time.Duration) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.logger.Debug("discarding fetch result after close", zap.String("resource", l.resource))
		return
	}
	var next State[T]
	if err != nil {
		next = errorState[T](err)
	} else {
		next = successState(data)
	}
	l.state = next
	onChange := l.onChange
	l.mu.Unlock()

	if err != nil {
		l.logger.Warn("resource fetch failed",
			zap.String("resource", l.resource),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
	} else {
		l.logger.Debug("resource fetched",
			zap.String("resource", l.resource),
			zap.Duration("elapsed", elapsed))
	}
	if l.observe != nil {
		l.observe(l.resource, next.Status, elapsed)
	}
	if onChange != nil {
		onChange(next)
	}
}
