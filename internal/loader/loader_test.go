package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonathan/portfolio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitIdle(t *testing.T, w interface{ Wait(context.Context) error }) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Wait(ctx))
}

func TestLoader_InitialStateIsLoading(t *testing.T) {
	l := New(func(context.Context) ([]types.Project, error) { return nil, nil })
	defer l.Close()

	s := l.State()
	assert.Equal(t, StatusLoading, s.Status)
	assert.True(t, s.Loading())
	assert.Nil(t, s.Data)
	assert.NoError(t, s.Err)
}

func TestLoader_LoadFetchesOncePerMount(t *testing.T) {
	var calls atomic.Int32
	l := New(func(context.Context) ([]types.Skill, error) {
		calls.Add(1)
		return []types.Skill{{Name: "Go"}}, nil
	}, WithLogger[[]types.Skill](zaptest.NewLogger(t)))
	defer l.Close()

	require.NoError(t, l.Load(context.Background()))
	require.NoError(t, l.Load(context.Background()))
	require.NoError(t, l.Load(context.Background()))
	waitIdle(t, l)

	assert.Equal(t, int32(1), calls.Load())
	s := l.State()
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Equal(t, []types.Skill{{Name: "Go"}}, s.Data)
}

func TestLoader_EmptyListIsSuccess(t *testing.T) {
	l := New(func(context.Context) ([]types.Skill, error) { return []types.Skill{}, nil })
	defer l.Close()

	require.NoError(t, l.Load(context.Background()))
	waitIdle(t, l)

	s := l.State()
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Empty(t, s.Data)
	assert.NoError(t, s.Err)
	assert.Empty(t, s.Message)
}

func TestLoader_ErrorState(t *testing.T) {
	l := New(func(context.Context) ([]types.Certificate, error) {
		return []types.Certificate{{ID: 1}}, errors.New("connection refused")
	})
	defer l.Close()

	require.NoError(t, l.Load(context.Background()))
	waitIdle(t, l)

	s := l.State()
	assert.Equal(t, StatusError, s.Status)
	assert.Nil(t, s.Data, "error state carries no data")
	assert.Equal(t, "connection refused", s.Message)
}

func TestLoader_RefetchIssuesAgain(t *testing.T) {
	var calls atomic.Int32
	l := New(func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	})
	defer l.Close()

	require.NoError(t, l.Load(context.Background()))
	waitIdle(t, l)
	require.NoError(t, l.Refetch(context.Background()))
	waitIdle(t, l)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, l.State().Data)
}

func TestLoader_LastResolvedWins(t *testing.T) {
	first := make(chan struct{})
	var call atomic.Int32
	l := New(func(ctx context.Context) (string, error) {
		if call.Add(1) == 1 {
			select {
			case <-first:
			case <-ctx.Done():
				return "", ctx.Err()
			}
			return "first", nil
		}
		return "second", nil
	})
	defer l.Close()

	require.NoError(t, l.Load(context.Background()))
	require.NoError(t, l.Refetch(context.Background()))

	require.Eventually(t, func() bool {
		return l.State().Data == "second"
	}, time.Second, 5*time.Millisecond)

	// The first request was issued earlier but resolves later, so it wins.
	close(first)
	waitIdle(t, l)
	assert.Equal(t, "first", l.State().Data)
}

func TestLoader_ConcurrentRefetchAndWait(t *testing.T) {
	var calls atomic.Int32
	l := New(func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	})
	defer l.Close()

	const pairs = 200
	var wg sync.WaitGroup
	for range pairs {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Refetch(context.Background()))
		}()
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			assert.NoError(t, l.Wait(ctx))
		}()
	}
	wg.Wait()
	waitIdle(t, l)

	assert.Equal(t, int32(pairs), calls.Load())
	assert.Equal(t, StatusSuccess, l.State().Status)
}

func TestLoader_WaitReturnsOnContextDone(t *testing.T) {
	release := make(chan struct{})
	l := New(func(ctx context.Context) (int, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return 1, nil
	})
	defer l.Close()
	defer close(release)

	require.NoError(t, l.Load(context.Background()))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.DeadlineExceeded)
}

func TestLoader_TimeoutBecomesError(t *testing.T) {
	l := New(func(ctx context.Context) ([]types.Project, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, WithTimeout[[]types.Project](20*time.Millisecond), WithResource[[]types.Project]("projects"))
	defer l.Close()

	require.NoError(t, l.Load(context.Background()))
	waitIdle(t, l)

	s := l.State()
	require.Equal(t, StatusError, s.Status)
	var te *TimeoutError
	require.ErrorAs(t, s.Err, &te)
	assert.Equal(t, "projects", te.Resource)
	assert.Contains(t, s.Message, "timed out")
}

func TestLoader_CloseDiscardsLateResult(t *testing.T) {
	release := make(chan struct{})
	var observed atomic.Int32
	l := New(func(ctx context.Context) (string, error) {
		select {
		case <-release:
			return "late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}, WithObserver[string](func(string, Status, time.Duration) { observed.Add(1) }))

	require.NoError(t, l.Load(context.Background()))
	l.Close()
	close(release)

	assert.Equal(t, StatusLoading, l.State().Status)
	assert.Equal(t, int32(0), observed.Load())
	assert.ErrorIs(t, l.Load(context.Background()), ErrClosed)
	assert.ErrorIs(t, l.Refetch(context.Background()), ErrClosed)
}

func TestLoader_ObserverAndOnChange(t *testing.T) {
	var mu sync.Mutex
	var statuses []Status
	var observed []string

	l := New(func(context.Context) (int, error) { return 1, nil },
		WithResource[int]("skills"),
		WithObserver[int](func(resource string, status Status, _ time.Duration) {
			mu.Lock()
			observed = append(observed, resource+":"+status.String())
			mu.Unlock()
		}),
		WithOnChange(func(s State[int]) {
			mu.Lock()
			statuses = append(statuses, s.Status)
			mu.Unlock()
		}),
	)
	defer l.Close()

	require.NoError(t, l.Load(context.Background()))
	waitIdle(t, l)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusLoading, StatusSuccess}, statuses)
	assert.Equal(t, []string{"skills:success"}, observed)
}

func TestLoader_IndependentInstances(t *testing.T) {
	failing := New(func(context.Context) ([]types.Certificate, error) {
		return nil, errors.New("network down")
	})
	defer failing.Close()
	working := New(func(context.Context) ([]types.Skill, error) {
		return []types.Skill{{Name: "Go", Category: "Backend"}}, nil
	})
	defer working.Close()

	require.NoError(t, failing.Load(context.Background()))
	require.NoError(t, working.Load(context.Background()))
	waitIdle(t, failing)
	waitIdle(t, working)

	assert.Equal(t, StatusError, failing.State().Status)
	assert.Equal(t, StatusSuccess, working.State().Status)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "request was cancelled", Message(context.Canceled))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}
