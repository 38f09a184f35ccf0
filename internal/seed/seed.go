// Package seed bundles the static portfolio dataset. It is served when no database is
// configured and is the fallback payload the page renders when a live fetch fails.
package seed

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/jonathan/portfolio/internal/schemas"
	"github.com/jonathan/portfolio/internal/types"
	bundled "github.com/jonathan/portfolio/schemas"
)

//go:embed data/*.json
var files embed.FS

// Dataset is the decoded seed content. Each field mirrors the unwrapped API payload of its resource.
type Dataset struct {
	PersonalInfo types.PersonalInfo
	Projects     []types.Project
	Skills       []types.Skill
	Certificates []types.Certificate
}

var (
	defaultOnce sync.Once
	defaultData *Dataset
	defaultErr  error
)

// Default returns the embedded dataset, decoding and validating it on first use.
func Default() (*Dataset, error) {
	defaultOnce.Do(func() {
		defaultData, defaultErr = Parse(files)
	})
	return defaultData, defaultErr
}

// MustDefault is like Default but panics if the embedded dataset is invalid.
func MustDefault() *Dataset {
	d, err := Default()
	if err != nil {
		panic(err)
	}
	return d
}

// DocumentError reports a seed document that failed to load, validate, or decode.
type DocumentError struct {
	File  string
	Cause error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("seed document %s: %v", e.File, e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// Source is the set of files a dataset is read from. embed.FS and fstest.MapFS both satisfy it.
type Source interface {
	ReadFile(name string) ([]byte, error)
}

// Parse reads data/*.json from src, validates each document against its schema and decodes it.
func Parse(src Source) (*Dataset, error) {
	d := &Dataset{}
	docs := []struct {
		file   string
		schema string
		into   any
	}{
		{"data/personal_info.json", bundled.PersonalInfo, &d.PersonalInfo},
		{"data/projects.json", bundled.Projects, &d.Projects},
		{"data/skills.json", bundled.Skills, &d.Skills},
		{"data/certificates.json", bundled.Certificates, &d.Certificates},
	}

	for _, doc := range docs {
		raw, err := src.ReadFile(doc.file)
		if err != nil {
			return nil, &DocumentError{File: doc.file, Cause: err}
		}
		if err := schemas.Validate(doc.schema, raw); err != nil {
			return nil, &DocumentError{File: doc.file, Cause: err}
		}
		if err := json.Unmarshal(raw, doc.into); err != nil {
			return nil, &DocumentError{File: doc.file, Cause: err}
		}
	}

	return d, nil
}

// Store serves a Dataset through the same read interface as the database store.
// Returned slices are copies; callers may modify them freely.
type Store struct {
	data *Dataset
}

// NewStore wraps d. A nil d serves the embedded default dataset.
func NewStore(d *Dataset) (*Store, error) {
	if d == nil {
		var err error
		if d, err = Default(); err != nil {
			return nil, err
		}
	}
	return &Store{data: d}, nil
}

// GetPersonalInfo returns the owner profile.
func (s *Store) GetPersonalInfo(_ context.Context) (*types.PersonalInfo, error) {
	info := s.data.PersonalInfo
	return &info, nil
}

// ListProjects returns every project, or only those in category when it is non-empty.
func (s *Store) ListProjects(_ context.Context, category string) ([]types.Project, error) {
	if category == "" {
		return slices.Clone(s.data.Projects), nil
	}
	out := make([]types.Project, 0, len(s.data.Projects))
	for _, p := range s.data.Projects {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetProject returns the project with id, or nil if there is none.
func (s *Store) GetProject(_ context.Context, id int) (*types.Project, error) {
	for _, p := range s.data.Projects {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

// ListSkills returns every skill in seed order.
func (s *Store) ListSkills(_ context.Context) ([]types.Skill, error) {
	return slices.Clone(s.data.Skills), nil
}

// ListCertificates returns every certificate in seed order.
func (s *Store) ListCertificates(_ context.Context) ([]types.Certificate, error) {
	return slices.Clone(s.data.Certificates), nil
}

// GetCertificate returns the certificate with id, or nil if there is none.
func (s *Store) GetCertificate(_ context.Context, id int) (*types.Certificate, error) {
	for _, c := range s.data.Certificates {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}
