package seed

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/jonathan/portfolio/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_EmbeddedDatasetIsValid(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "Alex Morgan", d.PersonalInfo.Name)
	assert.Equal(t, "/images/profile.jpg", d.PersonalInfo.ProfileImage.URL())
	assert.NotEmpty(t, d.Projects)
	assert.NotEmpty(t, d.Skills)
	assert.Len(t, d.Certificates, 7)
}

func TestDefault_IDsAreUnique(t *testing.T) {
	d := MustDefault()

	projectIDs := map[int]bool{}
	for _, p := range d.Projects {
		assert.False(t, projectIDs[p.ID], "duplicate project id %d", p.ID)
		projectIDs[p.ID] = true
	}

	certIDs := map[int]bool{}
	for _, c := range d.Certificates {
		assert.False(t, certIDs[c.ID], "duplicate certificate id %d", c.ID)
		certIDs[c.ID] = true
	}
}

func TestParse_RejectsInvalidDocument(t *testing.T) {
	src := validSource(t)
	src["data/skills.json"] = &fstest.MapFile{Data: []byte(`[{"name":"Go","category":"Backend","proficiency":140}]`)}

	_, err := Parse(src)
	require.Error(t, err)

	var docErr *DocumentError
	require.True(t, errors.As(err, &docErr))
	assert.Equal(t, "data/skills.json", docErr.File)

	var validationErr *schemas.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestParse_MissingDocument(t *testing.T) {
	src := validSource(t)
	delete(src, "data/certificates.json")

	_, err := Parse(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data/certificates.json")
}

func TestStore_ListProjects(t *testing.T) {
	store, err := NewStore(nil)
	require.NoError(t, err)
	ctx := context.Background()

	all, err := store.ListProjects(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, MustDefault().Projects, all)

	frontend, err := store.ListProjects(ctx, "Frontend")
	require.NoError(t, err)
	require.NotEmpty(t, frontend)
	for _, p := range frontend {
		assert.Equal(t, "Frontend", p.Category)
	}

	none, err := store.ListProjects(ctx, "Quantum")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_ReturnsCopies(t *testing.T) {
	store, err := NewStore(nil)
	require.NoError(t, err)
	ctx := context.Background()

	skills, err := store.ListSkills(ctx)
	require.NoError(t, err)
	original := skills[0].Name
	skills[0].Name = "mutated"

	again, err := store.ListSkills(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, again[0].Name)
}

func TestStore_GetByID(t *testing.T) {
	store, err := NewStore(nil)
	require.NoError(t, err)
	ctx := context.Background()

	p, err := store.GetProject(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 1, p.ID)

	missing, err := store.GetProject(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	c, err := store.GetCertificate(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 7, c.ID)

	noCert, err := store.GetCertificate(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, noCert)
}

func TestStore_PersonalInfo(t *testing.T) {
	store, err := NewStore(nil)
	require.NoError(t, err)

	info, err := store.GetPersonalInfo(context.Background())
	require.NoError(t, err)
	assert.False(t, info.IsZero())
	assert.Equal(t, 7, info.Statistics.CertificatesEarned)
}

func validSource(t *testing.T) fstest.MapFS {
	t.Helper()
	src := fstest.MapFS{}
	for _, name := range []string{
		"data/personal_info.json",
		"data/projects.json",
		"data/skills.json",
		"data/certificates.json",
	} {
		raw, err := files.ReadFile(name)
		require.NoError(t, err)
		src[name] = &fstest.MapFile{Data: raw}
	}
	return src
}
