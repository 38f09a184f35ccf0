package loader

// FallbackNotice is the inline notice shown when a section renders seed data because
// its live fetch failed.
const FallbackNotice = "Using static data as fallback"

// Resolved is what a section renders after the fallback policy has been applied.
type Resolved[T any] struct {
	Data          T
	Loading       bool
	UsingFallback bool
	// Notice is set only when the fallback was triggered by an error. A successful
	// but empty fetch falls back silently.
	Notice string
	// Err is the underlying fetch error, if any.
	Err error
}

// WithFallback applies the fallback policy to a loader state: on error, or on a
// successful fetch that isEmpty reports as empty, seed replaces the live data.
// A nil isEmpty treats every successful payload as non-empty.
func WithFallback[T any](s State[T], seed T, isEmpty func(T) bool) Resolved[T] {
	switch s.Status {
	case StatusLoading:
		return Resolved[T]{Loading: true}
	case StatusError:
		return Resolved[T]{Data: seed, UsingFallback: true, Notice: FallbackNotice, Err: s.Err}
	default:
		if isEmpty != nil && isEmpty(s.Data) {
			return Resolved[T]{Data: seed, UsingFallback: true}
		}
		return Resolved[T]{Data: s.Data}
	}
}

// EmptySlice reports whether a slice payload has no elements.
func EmptySlice[E any](v []E) bool {
	return len(v) == 0
}
