// Package loader implements the fetch-with-fallback contract every page section uses:
// fetch a resource once per mount, expose loading/success/error, and let the caller
// substitute bundled seed data when the live fetch fails or comes back empty.
package loader

// Status is the observable phase of a loader.
type Status int

// Loader statuses.
const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of a loader. Exactly one of three shapes holds:
// loading (no data, no error), success (data, no error) or error (no data, Err and Message set).
type State[T any] struct {
	Status  Status
	Data    T
	Err     error
	Message string
}

// Loading reports whether the loader is waiting for its first or a repeated fetch.
func (s State[T]) Loading() bool {
	return s.Status == StatusLoading
}

func loadingState[T any]() State[T] {
	return State[T]{Status: StatusLoading}
}

func successState[T any](data T) State[T] {
	return State[T]{Status: StatusSuccess, Data: data}
}

func errorState[T any](err error) State[T] {
	return State[T]{Status: StatusError, Err: err, Message: Message(err)}
}
