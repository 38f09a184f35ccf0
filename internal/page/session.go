package page

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/portfolio/internal/intro"
	"github.com/jonathan/portfolio/internal/loader"
	"github.com/jonathan/portfolio/internal/logging"
	"github.com/jonathan/portfolio/internal/metrics"
	"github.com/jonathan/portfolio/internal/scrolllock"
	"github.com/jonathan/portfolio/internal/seed"
	"github.com/jonathan/portfolio/internal/selection"
	"github.com/jonathan/portfolio/internal/skills"
	"github.com/jonathan/portfolio/internal/types"
)

// ErrUnknownSection is returned by Refetch for a resource the page does not load.
var ErrUnknownSection = errors.New("unknown section")

// Scroll lock owners for the detail modals.
const (
	ProjectModalOwner     = "project-modal"
	CertificateModalOwner = "certificate-modal"
)

// Options configures a Session.
type Options struct {
	// Timeline defaults to intro.DefaultTimeline when it has no steps.
	Timeline      intro.Timeline
	ReducedMotion bool
	// Sleep drives the intro clock. Nil uses real time.
	Sleep   intro.SleepFunc
	Timeout time.Duration
	Logger  *zap.Logger
	// Seed is the fallback dataset. Nil uses the embedded one.
	Seed *seed.Dataset
}

// Session is one page visit: a scroll lock, the intro sequencer, and one loader per section.
type Session struct {
	lock  *scrolllock.Lock
	intro *intro.Sequencer
	sleep intro.SleepFunc

	personal     *loader.Loader[types.PersonalInfo]
	projects     *loader.Loader[[]types.Project]
	skills       *loader.Loader[[]types.Skill]
	certificates *loader.Loader[[]types.Certificate]

	// SelectedProject and SelectedCertificate back the detail modals.
	SelectedProject     *selection.Selection[types.Project]
	SelectedCertificate *selection.Selection[types.Certificate]

	seed   *seed.Dataset
	logger *zap.Logger
}

// NewSession builds a session in the intro state. Nothing is fetched until Start.
func NewSession(src Sources, opts Options) *Session {
	logger := logging.OrNop(opts.Logger)
	timeline := opts.Timeline
	if len(timeline.Steps) == 0 {
		timeline = intro.DefaultTimeline()
	}
	data := opts.Seed
	if data == nil {
		data = seed.MustDefault()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = loader.DefaultTimeout
	}

	lock := scrolllock.New()
	s := &Session{
		lock: lock,
		intro: intro.New(lock, timeline, intro.Options{
			ReducedMotion: opts.ReducedMotion,
			Logger:        logger,
		}),
		sleep:               opts.Sleep,
		SelectedProject:     selection.New(selection.WithScrollLock[types.Project](lock, ProjectModalOwner)),
		SelectedCertificate: selection.New(selection.WithScrollLock[types.Certificate](lock, CertificateModalOwner)),
		seed:                data,
		logger:              logger,
	}

	s.personal = newSectionLoader(src.PersonalInfo, types.ResourcePersonalInfo, timeout, logger,
		func(p types.PersonalInfo) bool { return p.IsZero() })
	s.projects = newSectionLoader(src.Projects, types.ResourceProjects, timeout, logger, loader.EmptySlice[types.Project])
	// An empty skills list is rendered as such, never replaced by seed data.
	s.skills = newSectionLoader(src.Skills, types.ResourceSkills, timeout, logger, nil)
	s.certificates = newSectionLoader(src.Certificates, types.ResourceCertificates, timeout, logger, loader.EmptySlice[types.Certificate])
	return s
}

func newSectionLoader[T any](fetch loader.FetchFunc[T], resource string, timeout time.Duration, logger *zap.Logger, isEmpty func(T) bool) *loader.Loader[T] {
	if fetch == nil {
		fetch = func(context.Context) (T, error) {
			var zero T
			return zero, fmt.Errorf("no source configured for %s", resource)
		}
	}
	return loader.New(fetch,
		loader.WithResource[T](resource),
		loader.WithTimeout[T](timeout),
		loader.WithLogger[T](logger),
		loader.WithObserver[T](func(resource string, status loader.Status, elapsed time.Duration) {
			metrics.ObserveFetch(resource, status.String(), elapsed)
		}),
		loader.WithOnChange(func(st loader.State[T]) {
			switch {
			case st.Status == loader.StatusError:
				metrics.ObserveFallback(resource, "error")
			case st.Status == loader.StatusSuccess && isEmpty != nil && isEmpty(st.Data):
				metrics.ObserveFallback(resource, "empty")
			}
		}),
	)
}

// Lock returns the page scroll lock.
func (s *Session) Lock() *scrolllock.Lock {
	return s.lock
}

// Intro returns the intro sequencer.
func (s *Session) Intro() *intro.Sequencer {
	return s.intro
}

// Start plays the intro and, once the page is revealed, mounts every section. Each
// section fetches on its own; a failing section never holds up the others. Start
// returns when every section has settled or ctx is done.
func (s *Session) Start(ctx context.Context) error {
	if err := s.intro.Run(ctx, s.sleep); err != nil {
		return err
	}
	s.mount(ctx)
	return s.Wait(ctx)
}

func (s *Session) mount(ctx context.Context) {
	for _, load := range []func(context.Context) error{
		s.personal.Load,
		s.projects.Load,
		s.skills.Load,
		s.certificates.Load,
	} {
		if err := load(ctx); err != nil {
			s.logger.Debug("section not mounted", zap.Error(err))
		}
	}
}

// Wait blocks until no section fetch is in flight or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.personal.Wait(ctx) })
	g.Go(func() error { return s.projects.Wait(ctx) })
	g.Go(func() error { return s.skills.Wait(ctx) })
	g.Go(func() error { return s.certificates.Wait(ctx) })
	return g.Wait()
}

// Refetch reissues the fetch for one section, named by its types.Resource* constant.
// A fetch already in flight keeps running and whichever resolves last is shown.
func (s *Session) Refetch(ctx context.Context, resource string) error {
	switch resource {
	case types.ResourcePersonalInfo:
		return s.personal.Refetch(ctx)
	case types.ResourceProjects:
		return s.projects.Refetch(ctx)
	case types.ResourceSkills:
		return s.skills.Refetch(ctx)
	case types.ResourceCertificates:
		return s.certificates.Refetch(ctx)
	}
	return fmt.Errorf("%w: %s", ErrUnknownSection, resource)
}

// RetryFailed refetches every section whose last fetch failed and waits for them to
// settle. It returns the resources it retried.
func (s *Session) RetryFailed(ctx context.Context) ([]string, error) {
	sections := []struct {
		resource string
		status   loader.Status
	}{
		{types.ResourcePersonalInfo, s.personal.State().Status},
		{types.ResourceProjects, s.projects.State().Status},
		{types.ResourceSkills, s.skills.State().Status},
		{types.ResourceCertificates, s.certificates.State().Status},
	}

	var retried []string
	for _, sec := range sections {
		if sec.status != loader.StatusError {
			continue
		}
		if err := s.Refetch(ctx, sec.resource); err != nil {
			return retried, err
		}
		retried = append(retried, sec.resource)
	}
	if len(retried) == 0 {
		return nil, nil
	}
	return retried, s.Wait(ctx)
}

// Close unmounts the page. Pending fetch results are discarded and open modals closed.
func (s *Session) Close() {
	s.personal.Close()
	s.projects.Close()
	s.skills.Close()
	s.certificates.Close()
	s.SelectedProject.Clear()
	s.SelectedCertificate.Clear()
}

// View is the renderable state of every section after the fallback policy.
type View struct {
	Revealed     bool
	Profile      loader.Resolved[types.PersonalInfo]
	Projects     loader.Resolved[[]types.Project]
	Skills       loader.Resolved[[]types.SkillCategory]
	Certificates loader.Resolved[[]types.Certificate]
}

// Sections resolves the current loader states.
func (s *Session) Sections() View {
	v := View{
		Revealed: s.intro.State() == intro.StateRevealed,
		Profile: loader.WithFallback(s.personal.State(), s.seed.PersonalInfo,
			func(p types.PersonalInfo) bool { return p.IsZero() }),
		Projects:     loader.WithFallback(s.projects.State(), s.seed.Projects, loader.EmptySlice[types.Project]),
		Certificates: loader.WithFallback(s.certificates.State(), s.seed.Certificates, loader.EmptySlice[types.Certificate]),
	}

	flat := loader.WithFallback(s.skills.State(), s.seed.Skills, nil)
	v.Skills = loader.Resolved[[]types.SkillCategory]{
		Data:          skills.GroupByCategory(flat.Data),
		Loading:       flat.Loading,
		UsingFallback: flat.UsingFallback,
		Notice:        flat.Notice,
		Err:           flat.Err,
	}
	return v
}

// SelectProject opens the project modal for id. It reports whether id is on the page.
func (s *Session) SelectProject(id int) bool {
	return selection.SelectByID(s.SelectedProject, s.Sections().Projects.Data, id,
		func(p types.Project) int { return p.ID })
}

// SelectCertificate opens the certificate modal for id. It reports whether id is on the page.
func (s *Session) SelectCertificate(id int) bool {
	return selection.SelectByID(s.SelectedCertificate, s.Sections().Certificates.Data, id,
		func(c types.Certificate) int { return c.ID })
}
