package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonathan/portfolio/internal/seed"
	"github.com/jonathan/portfolio/internal/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// countingSource counts calls through to the seed store.
type countingSource struct {
	*seed.Store
	projects     atomic.Int32
	skills       atomic.Int32
	certificates atomic.Int32
	personal     atomic.Int32
	fail         error
}

func (c *countingSource) ListProjects(ctx context.Context, category string) ([]types.Project, error) {
	c.projects.Add(1)
	if c.fail != nil {
		return nil, c.fail
	}
	return c.Store.ListProjects(ctx, category)
}

func (c *countingSource) ListSkills(ctx context.Context) ([]types.Skill, error) {
	c.skills.Add(1)
	return c.Store.ListSkills(ctx)
}

func (c *countingSource) ListCertificates(ctx context.Context) ([]types.Certificate, error) {
	c.certificates.Add(1)
	return c.Store.ListCertificates(ctx)
}

func (c *countingSource) GetPersonalInfo(ctx context.Context) (*types.PersonalInfo, error) {
	c.personal.Add(1)
	return c.Store.GetPersonalInfo(ctx)
}

func newTestCache(t *testing.T, opts ...Option) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return New(rdb, opts...), mr
}

func newCountingSource(t *testing.T) *countingSource {
	t.Helper()
	store, err := seed.NewStore(nil)
	require.NoError(t, err)
	return &countingSource{Store: store}
}

func TestCache_GetSet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var got []types.Skill
	hit, err := c.Get(ctx, types.ResourceSkills, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	want := []types.Skill{{Name: "Go", Category: "Backend", Proficiency: 80}}
	require.NoError(t, c.Set(ctx, types.ResourceSkills, want))
	assert.True(t, mr.Exists("portfolio:skills"))

	hit, err = c.Get(ctx, types.ResourceSkills, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)
}

func TestCache_Prefix(t *testing.T) {
	c, mr := newTestCache(t, WithPrefix("site-a:"))
	require.NoError(t, c.Set(context.Background(), types.ResourceProjects, []types.Project{}))
	assert.True(t, mr.Exists("site-a:projects"))

	c, _ = newTestCache(t, WithPrefix(""))
	assert.Equal(t, DefaultPrefix+types.ResourceProjects, c.Key(types.ResourceProjects))
}

func TestCache_TTLExpiry(t *testing.T) {
	c, mr := newTestCache(t, WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, types.ResourceProjects, []types.Project{{ID: 1}}))
	assert.Equal(t, time.Minute, mr.TTL("portfolio:projects"))

	mr.FastForward(2 * time.Minute)

	var got []types.Project
	hit, err := c.Get(ctx, types.ResourceProjects, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_CorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("portfolio:skills", "{not json"))

	var got []types.Skill
	hit, err := c.Get(context.Background(), types.ResourceSkills, &got)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestCache_Invalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for _, r := range types.Resources {
		require.NoError(t, c.Set(ctx, r, []int{1}))
	}

	require.NoError(t, c.Invalidate(ctx, types.ResourceSkills))
	assert.False(t, mr.Exists("portfolio:skills"))
	assert.True(t, mr.Exists("portfolio:projects"))

	err := c.Invalidate(ctx, "education")
	var unknown *UnknownResourceError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "education", unknown.Resource)

	require.NoError(t, c.InvalidateAll(ctx))
	for _, r := range types.Resources {
		assert.False(t, mr.Exists(c.Key(r)), r)
	}
}

func TestStore_ReadThrough(t *testing.T) {
	c, _ := newTestCache(t)
	src := newCountingSource(t)
	store := c.Wrap(src)
	ctx := context.Background()

	first, err := store.ListSkills(ctx)
	require.NoError(t, err)
	second, err := store.ListSkills(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), src.skills.Load())

	require.NoError(t, c.Invalidate(ctx, types.ResourceSkills))
	_, err = store.ListSkills(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.skills.Load())
}

func TestStore_ProjectsServedFromOneEntry(t *testing.T) {
	c, _ := newTestCache(t)
	src := newCountingSource(t)
	store := c.Wrap(src)
	ctx := context.Background()

	all, err := store.ListProjects(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, all)

	frontend, err := store.ListProjects(ctx, "Frontend")
	require.NoError(t, err)
	for _, p := range frontend {
		assert.Equal(t, "Frontend", p.Category)
	}

	p, err := store.GetProject(ctx, all[0].ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, all[0].Title, p.Title)

	missing, err := store.GetProject(ctx, -1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Equal(t, int32(1), src.projects.Load())
}

func TestStore_SourceErrorIsNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	src := newCountingSource(t)
	src.fail = errors.New("db down")
	store := c.Wrap(src)

	_, err := store.ListProjects(context.Background(), "")
	require.Error(t, err)
	assert.False(t, mr.Exists("portfolio:projects"))
}

func TestStore_RedisDownFallsThrough(t *testing.T) {
	c, mr := newTestCache(t)
	src := newCountingSource(t)
	store := c.Wrap(src)
	mr.Close()

	certs, err := store.ListCertificates(context.Background())
	require.NoError(t, err)
	assert.Len(t, certs, 7)
}

func TestStore_PersonalInfo(t *testing.T) {
	c, _ := newTestCache(t)
	src := newCountingSource(t)
	store := c.Wrap(src)
	ctx := context.Background()

	info, err := store.GetPersonalInfo(ctx)
	require.NoError(t, err)
	require.NotNil(t, info)

	again, err := store.GetPersonalInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, info.Name, again.Name)
	assert.Equal(t, int32(1), src.personal.Load())
}
