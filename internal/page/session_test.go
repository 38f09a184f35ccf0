package page

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/portfolio/internal/intro"
	"github.com/jonathan/portfolio/internal/loader"
	"github.com/jonathan/portfolio/internal/seed"
	"github.com/jonathan/portfolio/internal/types"
)

func instantSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

var liveSkills = []types.Skill{
	{Name: "Go", Category: "Backend", Proficiency: 90, Icon: "server"},
	{Name: "PostgreSQL", Category: "Database", Proficiency: 80, Icon: "database"},
	{Name: "gRPC", Category: "Backend", Proficiency: 70},
}

// liveSources serves the seed dataset except where a test overrides a section.
func liveSources(t *testing.T) Sources {
	t.Helper()
	store, err := seed.NewStore(nil)
	require.NoError(t, err)
	src := StoreSources(store)
	src.Skills = func(context.Context) ([]types.Skill, error) {
		return append([]types.Skill(nil), liveSkills...), nil
	}
	return src
}

func newTestSession(t *testing.T, src Sources) *Session {
	t.Helper()
	s := NewSession(src, Options{
		Sleep:   instantSleep,
		Timeout: time.Second,
		Logger:  zaptest.NewLogger(t),
	})
	t.Cleanup(s.Close)
	return s
}

func TestSession_IntroGatesSections(t *testing.T) {
	var calls atomic.Int32
	src := liveSources(t)
	src.Projects = func(context.Context) ([]types.Project, error) {
		calls.Add(1)
		return seed.MustDefault().Projects, nil
	}
	s := newTestSession(t, src)

	assert.Equal(t, intro.StateIntro, s.Intro().State())
	assert.Equal(t, intro.MountIntro, s.Intro().Mounted())
	assert.True(t, s.Lock().Locked())
	assert.True(t, s.Lock().Holds(intro.LockOwner))

	v := s.Sections()
	assert.False(t, v.Revealed)
	assert.True(t, v.Projects.Loading)
	assert.Equal(t, int32(0), calls.Load())

	require.NoError(t, s.Start(context.Background()))

	assert.Equal(t, intro.StateRevealed, s.Intro().State())
	assert.False(t, s.Lock().Locked())
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, s.Sections().Revealed)
}

func TestSession_CancelledIntroFetchesNothing(t *testing.T) {
	var calls atomic.Int32
	src := liveSources(t)
	src.Certificates = func(context.Context) ([]types.Certificate, error) {
		calls.Add(1)
		return nil, nil
	}
	s := newTestSession(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Start(ctx)
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, intro.StateIntro, s.Intro().State())
	assert.True(t, s.Lock().Locked())
	assert.Equal(t, int32(0), calls.Load())
}

func TestSession_FailedSectionFallsBackWithoutBlockingOthers(t *testing.T) {
	src := liveSources(t)
	src.Certificates = func(context.Context) ([]types.Certificate, error) {
		return nil, errors.New("dial tcp: connection refused")
	}
	s := newTestSession(t, src)
	require.NoError(t, s.Start(context.Background()))

	v := s.Sections()

	assert.True(t, v.Certificates.UsingFallback)
	assert.Equal(t, loader.FallbackNotice, v.Certificates.Notice)
	assert.Len(t, v.Certificates.Data, 7)
	assert.Error(t, v.Certificates.Err)

	assert.False(t, v.Skills.UsingFallback)
	assert.Empty(t, v.Skills.Notice)
	require.Len(t, v.Skills.Data, 2)
	assert.Equal(t, "Backend", v.Skills.Data[0].Category)
	assert.Len(t, v.Skills.Data[0].Skills, 2)
	assert.Equal(t, "Database", v.Skills.Data[1].Category)
}

func TestSession_RetryFailedRecoversSection(t *testing.T) {
	var calls atomic.Int32
	src := liveSources(t)
	src.Certificates = func(context.Context) ([]types.Certificate, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("dial tcp: connection refused")
		}
		return []types.Certificate{{ID: 9, Title: "CKA"}}, nil
	}
	s := newTestSession(t, src)
	require.NoError(t, s.Start(context.Background()))
	require.True(t, s.Sections().Certificates.UsingFallback)

	retried, err := s.RetryFailed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{types.ResourceCertificates}, retried)

	v := s.Sections()
	assert.False(t, v.Certificates.UsingFallback)
	assert.Empty(t, v.Certificates.Notice)
	assert.Equal(t, []types.Certificate{{ID: 9, Title: "CKA"}}, v.Certificates.Data)

	retried, err = s.RetryFailed(context.Background())
	require.NoError(t, err)
	assert.Empty(t, retried)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSession_RefetchUnknownSection(t *testing.T) {
	s := newTestSession(t, liveSources(t))
	err := s.Refetch(context.Background(), "testimonials")
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestSession_EmptySkillsAreNotReplaced(t *testing.T) {
	src := liveSources(t)
	src.Skills = func(context.Context) ([]types.Skill, error) { return []types.Skill{}, nil }
	s := newTestSession(t, src)
	require.NoError(t, s.Start(context.Background()))

	v := s.Sections()
	assert.False(t, v.Skills.Loading)
	assert.False(t, v.Skills.UsingFallback)
	assert.Empty(t, v.Skills.Notice)
	assert.Empty(t, v.Skills.Data)
}

func TestSession_EmptyProjectsFallBackSilently(t *testing.T) {
	src := liveSources(t)
	src.Projects = func(context.Context) ([]types.Project, error) { return nil, nil }
	s := newTestSession(t, src)
	require.NoError(t, s.Start(context.Background()))

	v := s.Sections()
	assert.True(t, v.Projects.UsingFallback)
	assert.Empty(t, v.Projects.Notice)
	assert.Equal(t, seed.MustDefault().Projects, v.Projects.Data)
}

func TestSession_SlowSectionTimesOutToFallback(t *testing.T) {
	src := liveSources(t)
	src.PersonalInfo = func(ctx context.Context) (types.PersonalInfo, error) {
		<-ctx.Done()
		return types.PersonalInfo{}, ctx.Err()
	}
	s := NewSession(src, Options{Sleep: instantSleep, Timeout: 20 * time.Millisecond})
	defer s.Close()
	require.NoError(t, s.Start(context.Background()))

	v := s.Sections()
	assert.True(t, v.Profile.UsingFallback)
	assert.Equal(t, "Alex Morgan", v.Profile.Data.Name)
	var timeout *loader.TimeoutError
	assert.ErrorAs(t, v.Profile.Err, &timeout)
}

func TestSession_MissingSourceIsAnError(t *testing.T) {
	src := liveSources(t)
	src.Projects = nil
	s := newTestSession(t, src)
	require.NoError(t, s.Start(context.Background()))

	v := s.Sections()
	assert.True(t, v.Projects.UsingFallback)
	assert.Equal(t, loader.FallbackNotice, v.Projects.Notice)
}

func TestSession_DetailSelectionHoldsScrollLock(t *testing.T) {
	s := newTestSession(t, liveSources(t))
	require.NoError(t, s.Start(context.Background()))
	require.False(t, s.Lock().Locked())

	require.True(t, s.SelectProject(2))
	assert.True(t, s.Lock().Holds(ProjectModalOwner))

	require.True(t, s.SelectCertificate(3))
	assert.True(t, s.Lock().Holds(CertificateModalOwner))

	s.SelectedProject.Clear()
	assert.True(t, s.Lock().Locked(), "certificate modal still open")

	s.SelectedCertificate.Clear()
	assert.False(t, s.Lock().Locked())

	assert.False(t, s.SelectProject(999))
	_, open := s.SelectedProject.Current()
	assert.False(t, open)
}

func TestSession_ReducedMotionShortensTimeline(t *testing.T) {
	s := NewSession(liveSources(t), Options{ReducedMotion: true, Sleep: instantSleep})
	defer s.Close()

	full := intro.DefaultTimeline()
	got := s.Intro().Timeline()
	require.Len(t, got.Steps, len(full.Steps))
	assert.Less(t, got.Total(), full.Total())
}
