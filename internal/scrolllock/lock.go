// Package scrolllock provides the page-wide scroll lock shared by blocking UI elements.
//
// The lock is an owner set: scrolling is disabled while at least one owner holds it.
// Owners are free-form names such as "intro" or "modal:certificate".
package scrolllock

import (
	"sort"
	"sync"
)

// Lock is a set of active lockers. The zero value is not usable; use New.
type Lock struct {
	mu       sync.Mutex
	owners   map[string]struct{}
	onChange []func(locked bool)
}

// New returns an unlocked Lock.
func New() *Lock {
	return &Lock{owners: make(map[string]struct{})}
}

// OnChange registers fn to be called whenever the locked state flips.
// Callbacks run synchronously after the state change, outside the internal mutex.
func (l *Lock) OnChange(fn func(locked bool)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Acquire adds owner to the lock set. Acquiring twice with the same owner is a no-op.
func (l *Lock) Acquire(owner string) {
	l.mu.Lock()
	before := len(l.owners) > 0
	l.owners[owner] = struct{}{}
	after := len(l.owners) > 0
	callbacks := l.callbacksLocked(before, after)
	l.mu.Unlock()

	for _, fn := range callbacks {
		fn(after)
	}
}

// Release removes owner from the lock set. Releasing an owner that does not hold
// the lock is a no-op and never unlocks on behalf of other owners.
func (l *Lock) Release(owner string) {
	l.mu.Lock()
	before := len(l.owners) > 0
	delete(l.owners, owner)
	after := len(l.owners) > 0
	callbacks := l.callbacksLocked(before, after)
	l.mu.Unlock()

	for _, fn := range callbacks {
		fn(after)
	}
}

// Locked reports whether any owner currently holds the lock.
func (l *Lock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.owners) > 0
}

// Holds reports whether owner is in the lock set.
func (l *Lock) Holds(owner string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.owners[owner]
	return ok
}

// Owners returns the current owners sorted by name.
func (l *Lock) Owners() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.owners))
	for o := range l.owners {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

func (l *Lock) callbacksLocked(before, after bool) []func(bool) {
	if before == after {
		return nil
	}
	out := make([]func(bool), len(l.onChange))
	copy(out, l.onChange)
	return out
}
