package page

import (
	"encoding/json"
	"io"
	"strconv"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"

	"github.com/jonathan/portfolio/internal/icons"
	"github.com/jonathan/portfolio/internal/intro"
	"github.com/jonathan/portfolio/internal/loader"
	"github.com/jonathan/portfolio/internal/skills"
	"github.com/jonathan/portfolio/internal/types"
)

// EmptySkillsMessage is shown in place of the category grid when there are no skills.
const EmptySkillsMessage = "No skills added yet"

// Render writes the full HTML document for v.
func Render(w io.Writer, v View, timeline intro.Timeline) error {
	return Document(v, timeline).Render(w)
}

// Document returns the page document. Before the intro has revealed the page only
// the intro overlay is emitted.
func Document(v View, timeline intro.Timeline) g.Node {
	title := "Portfolio"
	if v.Profile.Data.Name != "" {
		title = v.Profile.Data.Name + " | " + v.Profile.Data.Title
	}

	var body []g.Node
	if !v.Revealed {
		body = append(body, introOverlay(timeline))
	} else {
		body = append(body, h.Main(
			profileSection(v.Profile),
			skillsSection(v.Skills),
			projectsSection(v.Projects),
			certificatesSection(v.Certificates),
		))
	}

	return c.HTML5(c.HTML5Props{
		Title:    title,
		Language: "en",
		Body:     body,
	})
}

func introOverlay(timeline intro.Timeline) g.Node {
	raw, err := json.Marshal(timeline)
	if err != nil {
		raw = []byte(`{"steps":[]}`)
	}
	return h.Div(h.ID("loader"), h.Class("intro"),
		g.Attr("data-timeline", string(raw)),
		h.Div(h.ID("logo"), h.Class("logo")),
	)
}

func sectionShell(id, heading string, notice string, children ...g.Node) g.Node {
	return h.Section(h.ID(id), g.Attr("data-section", id),
		h.H2(g.Text(heading)),
		g.If(notice != "", h.P(h.Class("fallback-notice"), g.Attr("role", "status"), g.Text(notice))),
		g.Group(children),
	)
}

func loading() g.Node {
	return h.P(h.Class("loading"), g.Text("Loading..."))
}

func profileSection(r loader.Resolved[types.PersonalInfo]) g.Node {
	if r.Loading {
		return sectionShell("about", "About", "", loading())
	}
	p := r.Data
	return sectionShell("about", "About", r.Notice,
		h.H1(h.Class("name"), g.Text(p.Name)),
		h.P(h.Class("title"), g.Text(p.Title)),
		g.If(p.ProfileImage != "", h.Img(h.Src(p.ProfileImage.URL()), h.Alt(p.Name))),
		h.P(h.Class("bio"), g.Text(p.Bio)),
		h.Ul(h.Class("stats"),
			stat("Years of experience", p.Statistics.YearsOfExperience),
			stat("Projects completed", p.Statistics.ProjectsCompleted),
			stat("Happy clients", p.Statistics.HappyClients),
			stat("Certificates earned", p.Statistics.CertificatesEarned),
		),
		socialLinks(p.SocialLinks),
	)
}

func stat(label string, n int) g.Node {
	return h.Li(h.Span(h.Class("value"), g.Text(strconv.Itoa(n))), h.Span(h.Class("label"), g.Text(label)))
}

func socialLinks(l types.SocialLinks) g.Node {
	links := []struct{ name, href string }{
		{"github", l.GitHub},
		{"linkedin", l.LinkedIn},
		{"twitter", l.Twitter},
		{"instagram", l.Instagram},
		{"website", l.Website},
	}
	var items []g.Node
	for _, link := range links {
		if link.href == "" {
			continue
		}
		items = append(items, h.Li(h.A(h.Href(link.href), iconNode(link.name), g.Text(link.name))))
	}
	if l.Email != "" {
		items = append(items, h.Li(h.A(h.Href("mailto:"+l.Email), iconNode("email"), g.Text(l.Email))))
	}
	if len(items) == 0 {
		return nil
	}
	return h.Ul(h.Class("social"), g.Group(items))
}

func iconNode(name string) g.Node {
	icon := icons.Lookup(name)
	return h.Span(h.Class("icon"), g.Attr("data-icon", icon.String()), g.Text(icon.Glyph()))
}

func skillsSection(r loader.Resolved[[]types.SkillCategory]) g.Node {
	if r.Loading {
		return sectionShell("skills", "Skills", "", loading())
	}
	if len(r.Data) == 0 {
		return sectionShell("skills", "Skills", r.Notice, h.P(h.Class("empty"), g.Text(EmptySkillsMessage)))
	}
	return sectionShell("skills", "Skills", r.Notice,
		g.Map(r.Data, func(cat types.SkillCategory) g.Node {
			return h.Div(h.Class("skill-category"), g.Attr("data-category", cat.Category),
				h.H3(g.Text(cat.Category)),
				h.Span(h.Class("average"), g.Text(strconv.Itoa(skills.AverageProficiency(cat))+"%")),
				h.Ul(g.Map(cat.Skills, func(s types.Skill) g.Node {
					return h.Li(h.Class("skill"),
						iconNode(s.Icon),
						h.Span(h.Class("skill-name"), g.Text(s.Name)),
						g.El("progress", g.Attr("max", "100"), g.Attr("value", strconv.Itoa(s.Proficiency))),
					)
				})),
			)
		}),
	)
}

func projectsSection(r loader.Resolved[[]types.Project]) g.Node {
	if r.Loading {
		return sectionShell("projects", "Projects", "", loading())
	}
	return sectionShell("projects", "Projects", r.Notice,
		h.Div(h.Class("grid"), g.Map(r.Data, func(p types.Project) g.Node {
			return h.Article(h.Class("project"), g.Attr("data-id", strconv.Itoa(p.ID)),
				h.H3(g.Text(p.Title)),
				h.Span(h.Class("category"), g.Text(p.Category)),
				h.P(g.Text(p.Description)),
				h.Ul(h.Class("tech"), g.Map(p.Technologies, func(t string) g.Node {
					return h.Li(g.Text(t))
				})),
				optionalLink("github", p.GitHubURL),
				optionalLink("live", p.LiveURL),
			)
		})),
	)
}

func optionalLink(label string, href *string) g.Node {
	if href == nil || *href == "" {
		return nil
	}
	return h.A(h.Class(label), h.Href(*href), g.Text(label))
}

func certificatesSection(r loader.Resolved[[]types.Certificate]) g.Node {
	if r.Loading {
		return sectionShell("certificates", "Certificates", "", loading())
	}
	return sectionShell("certificates", "Certificates", r.Notice,
		h.Div(h.Class("grid"), g.Map(r.Data, func(cert types.Certificate) g.Node {
			return h.Article(h.Class("certificate"), g.Attr("data-id", strconv.Itoa(cert.ID)),
				h.H3(g.Text(cert.Title)),
				h.P(h.Class("issuer"), g.Text(cert.Issuer)),
				h.Span(h.Class("date"), g.Text(cert.Date)),
				g.If(cert.Verified != nil && *cert.Verified, h.Span(h.Class("verified"), g.Text("Verified"))),
				optionalLink("credential", cert.CredentialURL),
			)
		})),
	)
}
