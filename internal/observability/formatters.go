// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/portfolio/internal/db"
	"github.com/jonathan/portfolio/internal/icons"
	"github.com/jonathan/portfolio/internal/intro"
	"github.com/jonathan/portfolio/internal/loader"
	"github.com/jonathan/portfolio/internal/page"
	"github.com/jonathan/portfolio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for CLI summaries
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for _, line := range lines {
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// sectionTitle appends the fallback marker to a box title.
func sectionTitle[T any](title string, r loader.Resolved[T]) string {
	switch {
	case r.Loading:
		return title + " (loading)"
	case r.UsingFallback:
		return title + " (static)"
	}
	return title
}

// writeNotice records why a section is showing static data.
func writeNotice[T any](sb *strings.Builder, r loader.Resolved[T]) {
	if r.Notice == "" {
		return
	}
	sb.WriteString(r.Notice)
	if r.Err != nil {
		sb.WriteString(": " + loader.Message(r.Err))
	}
	sb.WriteString("\n\n")
}

// PrintProfile outputs the owner profile.
func (p *Printer) PrintProfile(info *types.PersonalInfo) {
	if info == nil || info.IsZero() {
		return
	}
	p.printBox("PROFILE", profileContent(*info))
}

func profileContent(info types.PersonalInfo) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", info.Name))
	sb.WriteString(fmt.Sprintf("Title:    %s\n", info.Title))
	if info.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", info.Email))
	}
	if loc := strings.Trim(info.Location.City+", "+info.Location.Country, ", "); loc != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", loc))
	}
	st := info.Statistics
	sb.WriteString(fmt.Sprintf("Stats:    %d years, %d projects, %d clients\n",
		st.YearsOfExperience, st.ProjectsCompleted, st.HappyClients))
	return sb.String()
}

// PrintSkillCategories outputs grouped skills with their proficiency.
func (p *Printer) PrintSkillCategories(categories []types.SkillCategory) {
	p.printBox("SKILLS", skillsContent(categories))
}

func skillsContent(categories []types.SkillCategory) string {
	if len(categories) == 0 {
		return page.EmptySkillsMessage
	}
	var sb strings.Builder
	for _, c := range categories {
		sb.WriteString(fmt.Sprintf("%s (%d)\n", c.Category, len(c.Skills)))
		count := min(len(c.Skills), maxItemsToShow)
		for _, s := range c.Skills[:count] {
			sb.WriteString(fmt.Sprintf("  %s %-20s %3d%%\n", icons.Lookup(s.Icon).Glyph(), s.Name, s.Proficiency))
		}
		if len(c.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(c.Skills)-maxItemsToShow))
		}
	}
	return sb.String()
}

// PrintProjects outputs the project list.
func (p *Printer) PrintProjects(projects []types.Project) {
	p.printBox(fmt.Sprintf("PROJECTS (%d)", len(projects)), projectsContent(projects))
}

func projectsContent(projects []types.Project) string {
	if len(projects) == 0 {
		return "No projects"
	}
	var sb strings.Builder
	count := min(len(projects), maxItemsToShow)
	for _, pr := range projects[:count] {
		sb.WriteString(fmt.Sprintf("#%d %s [%s]\n", pr.ID, pr.Title, pr.Category))
		if len(pr.Technologies) > 0 {
			sb.WriteString(fmt.Sprintf("   %s\n", strings.Join(pr.Technologies, ", ")))
		}
	}
	if len(projects) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(projects)-maxItemsToShow))
	}
	return sb.String()
}

// PrintCertificates outputs the certificate list.
func (p *Printer) PrintCertificates(certs []types.Certificate) {
	p.printBox(fmt.Sprintf("CERTIFICATES (%d)", len(certs)), certificatesContent(certs))
}

func certificatesContent(certs []types.Certificate) string {
	if len(certs) == 0 {
		return "No certificates"
	}
	var sb strings.Builder
	count := min(len(certs), maxItemsToShow)
	for _, c := range certs[:count] {
		mark := " "
		if c.Verified != nil && *c.Verified {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %s (%s, %s)\n", mark, c.Title, c.Issuer, c.Date))
	}
	if len(certs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(certs)-maxItemsToShow))
	}
	return sb.String()
}

// PrintView outputs every section of a resolved page view, marking sections that
// fell back to static data.
func (p *Printer) PrintView(v page.View) {
	if !v.Revealed {
		p.printBox("PORTFOLIO", "Intro still playing; content not revealed")
		return
	}

	var sb strings.Builder
	writeNotice(&sb, v.Profile)
	if !v.Profile.Loading {
		sb.WriteString(profileContent(v.Profile.Data))
	}
	p.printBox(sectionTitle("PROFILE", v.Profile), sb.String())

	sb.Reset()
	writeNotice(&sb, v.Skills)
	if !v.Skills.Loading {
		sb.WriteString(skillsContent(v.Skills.Data))
	}
	p.printBox(sectionTitle("SKILLS", v.Skills), sb.String())

	sb.Reset()
	writeNotice(&sb, v.Projects)
	if !v.Projects.Loading {
		sb.WriteString(projectsContent(v.Projects.Data))
	}
	p.printBox(sectionTitle(fmt.Sprintf("PROJECTS (%d)", len(v.Projects.Data)), v.Projects), sb.String())

	sb.Reset()
	writeNotice(&sb, v.Certificates)
	if !v.Certificates.Loading {
		sb.WriteString(certificatesContent(v.Certificates.Data))
	}
	p.printBox(sectionTitle(fmt.Sprintf("CERTIFICATES (%d)", len(v.Certificates.Data)), v.Certificates), sb.String())
}

// PrintTimeline outputs the intro steps in timeline order with their window.
func (p *Printer) PrintTimeline(t intro.Timeline) {
	var sb strings.Builder
	for _, s := range t.Steps {
		sb.WriteString(fmt.Sprintf("%6dms-%6dms %s.%s %g→%g\n",
			s.Offset.Milliseconds(), s.End().Milliseconds(), s.Target, s.Property, s.From, s.To))
	}
	sb.WriteString(fmt.Sprintf("\nTotal: %s", t.Total()))
	p.printBox(fmt.Sprintf("INTRO TIMELINE (%d steps)", len(t.Steps)), sb.String())
}

// PrintImportCounts outputs the row counts written by a content import.
func (p *Printer) PrintImportCounts(c db.ImportCounts) {
	content := fmt.Sprintf("Projects:     %d\nSkills:       %d\nCertificates: %d",
		c.Projects, c.Skills, c.Certificates)
	p.printBox("CONTENT IMPORTED", content)
}
