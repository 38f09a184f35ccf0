package cache

import (
	"context"

	"github.com/jonathan/portfolio/internal/types"
	"go.uber.org/zap"
)

// Source is the read side of a content store.
type Source interface {
	GetPersonalInfo(ctx context.Context) (*types.PersonalInfo, error)
	ListProjects(ctx context.Context, category string) ([]types.Project, error)
	GetProject(ctx context.Context, id int) (*types.Project, error)
	ListSkills(ctx context.Context) ([]types.Skill, error)
	ListCertificates(ctx context.Context) ([]types.Certificate, error)
	GetCertificate(ctx context.Context, id int) (*types.Certificate, error)
}

// Store is a read-through Source. Whole resources are cached; filtered and by-id
// reads are answered from the cached resource. A Redis failure falls through to the
// wrapped source.
type Store struct {
	cache *Cache
	src   Source
}

// Wrap returns a read-through store in front of src.
func (c *Cache) Wrap(src Source) *Store {
	return &Store{cache: c, src: src}
}

// Cache returns the cache the store writes to.
func (s *Store) Cache() *Cache {
	return s.cache
}

func readThrough[T any](ctx context.Context, c *Cache, resource string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := c.Get(ctx, resource, &cached)
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("resource", resource), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, resource, v); err != nil {
		c.logger.Warn("cache write failed", zap.String("resource", resource), zap.Error(err))
	}
	return v, nil
}

// GetPersonalInfo implements Source. A missing profile is not cached.
func (s *Store) GetPersonalInfo(ctx context.Context) (*types.PersonalInfo, error) {
	var cached types.PersonalInfo
	hit, err := s.cache.Get(ctx, types.ResourcePersonalInfo, &cached)
	if err != nil {
		s.cache.logger.Warn("cache read failed", zap.String("resource", types.ResourcePersonalInfo), zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	info, err := s.src.GetPersonalInfo(ctx)
	if err != nil || info == nil {
		return info, err
	}
	if err := s.cache.Set(ctx, types.ResourcePersonalInfo, info); err != nil {
		s.cache.logger.Warn("cache write failed", zap.String("resource", types.ResourcePersonalInfo), zap.Error(err))
	}
	return info, nil
}

func (s *Store) allProjects(ctx context.Context) ([]types.Project, error) {
	return readThrough(ctx, s.cache, types.ResourceProjects, func(ctx context.Context) ([]types.Project, error) {
		return s.src.ListProjects(ctx, "")
	})
}

// ListProjects implements Source.
func (s *Store) ListProjects(ctx context.Context, category string) ([]types.Project, error) {
	all, err := s.allProjects(ctx)
	if err != nil || category == "" {
		return all, err
	}
	out := make([]types.Project, 0, len(all))
	for _, p := range all {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetProject implements Source.
func (s *Store) GetProject(ctx context.Context, id int) (*types.Project, error) {
	all, err := s.allProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

// ListSkills implements Source.
func (s *Store) ListSkills(ctx context.Context) ([]types.Skill, error) {
	return readThrough(ctx, s.cache, types.ResourceSkills, s.src.ListSkills)
}

// ListCertificates implements Source.
func (s *Store) ListCertificates(ctx context.Context) ([]types.Certificate, error) {
	return readThrough(ctx, s.cache, types.ResourceCertificates, s.src.ListCertificates)
}

// GetCertificate implements Source.
func (s *Store) GetCertificate(ctx context.Context, id int) (*types.Certificate, error) {
	all, err := s.ListCertificates(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}
