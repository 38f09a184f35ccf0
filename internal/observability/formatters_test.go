package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/portfolio/internal/db"
	"github.com/jonathan/portfolio/internal/intro"
	"github.com/jonathan/portfolio/internal/loader"
	"github.com/jonathan/portfolio/internal/page"
	"github.com/jonathan/portfolio/internal/types"
)

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfile(&types.PersonalInfo{
		Name:       "Alex Morgan",
		Title:      "Full-Stack Developer",
		Email:      "alex@example.com",
		Location:   types.Location{City: "Lisbon", Country: "Portugal"},
		Statistics: types.Statistics{YearsOfExperience: 6, ProjectsCompleted: 40, HappyClients: 25},
	})
	output := buf.String()

	assert.Contains(t, output, "PROFILE")
	assert.Contains(t, output, "Alex Morgan")
	assert.Contains(t, output, "Lisbon, Portugal")
	assert.Contains(t, output, "6 years, 40 projects, 25 clients")
}

func TestPrintProfile_NilOrEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfile(nil)
	p.PrintProfile(&types.PersonalInfo{})

	assert.Empty(t, buf.String())
}

func TestPrintSkillCategories(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSkillCategories([]types.SkillCategory{
		{Category: "Frontend", Skills: []types.Skill{
			{Name: "React", Proficiency: 90, Icon: "FaReact"},
			{Name: "Vue", Proficiency: 70},
		}},
	})
	output := buf.String()

	assert.Contains(t, output, "Frontend (2)")
	assert.Contains(t, output, "React")
	assert.Contains(t, output, " 90%")
}

func TestPrintSkillCategories_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSkillCategories(nil)

	assert.Contains(t, buf.String(), page.EmptySkillsMessage)
}

func TestPrintProjects_TruncatesList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	projects := make([]types.Project, 8)
	for i := range projects {
		projects[i] = types.Project{ID: i + 1, Title: "Project", Category: "web"}
	}
	p.PrintProjects(projects)
	output := buf.String()

	assert.Contains(t, output, "PROJECTS (8)")
	assert.Contains(t, output, "#5 Project")
	assert.NotContains(t, output, "#6 Project")
	assert.Contains(t, output, "... and 3 more")
}

func TestPrintCertificates_VerifiedMark(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	verified := true
	p.PrintCertificates([]types.Certificate{
		{ID: 1, Title: "AWS Solutions Architect", Issuer: "Amazon", Date: "2023", Verified: &verified},
		{ID: 2, Title: "CKA", Issuer: "CNCF", Date: "2022"},
	})
	output := buf.String()

	assert.Contains(t, output, "✓ AWS Solutions Architect (Amazon, 2023)")
	assert.Contains(t, output, "  CKA (CNCF, 2022)")
}

func TestPrintView_MarksFallbackSections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	v := page.View{
		Revealed: true,
		Profile:  loader.Resolved[types.PersonalInfo]{Data: types.PersonalInfo{Name: "Alex Morgan"}},
		Projects: loader.Resolved[[]types.Project]{Data: []types.Project{{ID: 1, Title: "Shop"}}, UsingFallback: true},
		Skills:   loader.Resolved[[]types.SkillCategory]{Loading: true},
		Certificates: loader.Resolved[[]types.Certificate]{
			Data:          []types.Certificate{{ID: 1, Title: "CKA"}},
			UsingFallback: true,
			Notice:        loader.FallbackNotice,
			Err:           errors.New("connection refused"),
		},
	}
	p.PrintView(v)
	output := buf.String()

	assert.Contains(t, output, "SKILLS (loading)")
	assert.Contains(t, output, "PROJECTS (1) (static)")
	assert.Contains(t, output, "CERTIFICATES (1) (static)")
	assert.Contains(t, output, loader.FallbackNotice)
	// Only the error-triggered fallback carries a notice.
	assert.Equal(t, 1, strings.Count(output, loader.FallbackNotice))
}

func TestPrintView_NotRevealed(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintView(page.View{})

	assert.Contains(t, buf.String(), "content not revealed")
	assert.NotContains(t, buf.String(), "PROJECTS")
}

func TestPrintTimeline(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTimeline(intro.Timeline{Steps: []intro.Step{
		{Target: "logo", Property: "opacity", From: 1, To: 0, Duration: 400 * time.Millisecond, Offset: 100 * time.Millisecond},
	}})
	output := buf.String()

	assert.Contains(t, output, "INTRO TIMELINE (1 steps)")
	assert.Contains(t, output, "logo.opacity")
	assert.Contains(t, output, "Total: 500ms")
}

func TestPrintImportCounts(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintImportCounts(db.ImportCounts{Projects: 6, Skills: 12, Certificates: 7})
	output := buf.String()

	assert.Contains(t, output, "CONTENT IMPORTED")
	assert.Contains(t, output, "Skills:       12")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", boxWidth*2))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[3], "...")
}
