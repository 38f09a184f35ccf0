// Package page composes the portfolio page: the intro gate, one independent loader per
// section, the fallback policy and the rendered section markup.
package page

import (
	"context"

	"github.com/jonathan/portfolio/internal/client"
	"github.com/jonathan/portfolio/internal/loader"
	"github.com/jonathan/portfolio/internal/types"
)

// Sources are the fetch functions behind the four section loaders.
type Sources struct {
	PersonalInfo loader.FetchFunc[types.PersonalInfo]
	Projects     loader.FetchFunc[[]types.Project]
	Skills       loader.FetchFunc[[]types.Skill]
	Certificates loader.FetchFunc[[]types.Certificate]
}

// ClientSources fetches every section from a remote API.
func ClientSources(c *client.Client) Sources {
	return Sources{
		PersonalInfo: c.PersonalInfo,
		Projects:     c.Projects,
		Skills:       c.Skills,
		Certificates: c.Certificates,
	}
}

// ContentReader is the read side of a content store.
type ContentReader interface {
	GetPersonalInfo(ctx context.Context) (*types.PersonalInfo, error)
	ListProjects(ctx context.Context, category string) ([]types.Project, error)
	ListSkills(ctx context.Context) ([]types.Skill, error)
	ListCertificates(ctx context.Context) ([]types.Certificate, error)
}

// StoreSources reads every section in-process, for pages rendered by the API server itself.
func StoreSources(r ContentReader) Sources {
	return Sources{
		PersonalInfo: func(ctx context.Context) (types.PersonalInfo, error) {
			info, err := r.GetPersonalInfo(ctx)
			if err != nil {
				return types.PersonalInfo{}, err
			}
			if info == nil {
				// An unset profile is empty content, not a failure.
				return types.PersonalInfo{}, nil
			}
			return *info, nil
		},
		Projects: func(ctx context.Context) ([]types.Project, error) {
			return r.ListProjects(ctx, "")
		},
		Skills:       r.ListSkills,
		Certificates: r.ListCertificates,
	}
}
