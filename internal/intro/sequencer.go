package intro

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/portfolio/internal/scrolllock"
	"go.uber.org/zap"
)

// LockOwner is the scroll-lock owner name used by the sequencer.
const LockOwner = "intro"

// State is the sequencer state.
type State int

// Sequencer states. StateRevealed is terminal.
const (
	StateIntro State = iota
	StateRevealed
)

func (s State) String() string {
	switch s {
	case StateIntro:
		return "intro"
	case StateRevealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// Mount identifies what is mounted on the page.
type Mount string

// Mount values.
const (
	MountIntro    Mount = "intro"
	MountSections Mount = "sections"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RealSleep waits on a timer.
func RealSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Options configures a Sequencer.
type Options struct {
	ReducedMotion bool
	Logger        *zap.Logger
	// OnStep is called as each step completes, in completion order.
	OnStep func(Step)
}

// Sequencer gates the page behind the intro animation. It starts in StateIntro with the
// scroll lock held and moves to StateRevealed exactly once.
type Sequencer struct {
	mu       sync.Mutex
	state    State
	mounted  Mount
	timeline Timeline
	lock     *scrolllock.Lock
	logger   *zap.Logger
	onStep   func(Step)
	onReveal []func()
	once     sync.Once
	done     chan struct{}
}

// New creates a sequencer and performs the INTRO entry action: the scroll lock is
// acquired and only the intro visual is mounted.
func New(lock *scrolllock.Lock, timeline Timeline, opts Options) *Sequencer {
	if opts.ReducedMotion {
		timeline = timeline.ReducedMotion()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Sequencer{
		state:    StateIntro,
		mounted:  MountIntro,
		timeline: timeline,
		lock:     lock,
		logger:   logger,
		onStep:   opts.OnStep,
		done:     make(chan struct{}),
	}
	if lock != nil {
		lock.Acquire(LockOwner)
	}
	return s
}

// Timeline returns the (possibly reduced) timeline the sequencer plays.
func (s *Sequencer) Timeline() Timeline {
	return s.timeline
}

// State returns the current state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mounted returns what is currently mounted.
func (s *Sequencer) Mounted() Mount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// OnReveal registers fn to run once on the INTRO -> REVEALED transition. If the
// sequencer has already revealed, fn runs immediately.
func (s *Sequencer) OnReveal(fn func()) {
	s.mu.Lock()
	if s.state == StateRevealed {
		s.mu.Unlock()
		fn()
		return
	}
	s.onReveal = append(s.onReveal, fn)
	s.mu.Unlock()
}

// Done returns a channel closed when the page is revealed.
func (s *Sequencer) Done() <-chan struct{} {
	return s.done
}

// Finish performs the INTRO -> REVEALED transition: the scroll lock is released, the
// intro visual is replaced by the section tree and reveal callbacks run.
// Only the first call has any effect. It reports whether this call performed the transition.
func (s *Sequencer) Finish() bool {
	fired := false
	s.once.Do(func() {
		fired = true

		s.mu.Lock()
		s.state = StateRevealed
		s.mounted = MountSections
		callbacks := s.onReveal
		s.onReveal = nil
		s.mu.Unlock()

		if s.lock != nil {
			s.lock.Release(LockOwner)
		}
		close(s.done)
		s.logger.Debug("intro revealed")

		for _, fn := range callbacks {
			fn()
		}
	})
	if !fired {
		s.logger.Debug("ignoring repeated intro completion")
	}
	return fired
}

// Run plays the timeline using sleep and calls Finish after the last step completes.
// The sequence has no user-facing cancel; a cancelled ctx only stops this goroutine
// from waiting and leaves the sequencer in StateIntro.
func (s *Sequencer) Run(ctx context.Context, sleep SleepFunc) error {
	if sleep == nil {
		sleep = RealSleep
	}
	if err := s.timeline.Validate(); err != nil {
		return err
	}

	var elapsed time.Duration
	for _, i := range s.timeline.completionOrder() {
		step := s.timeline.Steps[i]
		if wait := step.End() - elapsed; wait > 0 {
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			elapsed = step.End()
		}
		if s.onStep != nil {
			s.onStep(step)
		}
	}

	s.Finish()
	return nil
}
