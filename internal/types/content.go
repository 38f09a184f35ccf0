// Package types provides type definitions for the portfolio content served by the API
// and consumed by the client toolkit.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Location is the city/country pair shown in the About section.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// SocialLinks holds the optional profile links rendered in the footer and contact section.
type SocialLinks struct {
	GitHub    string `json:"github,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Website   string `json:"website,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Statistics are the headline counters displayed on the Home section.
type Statistics struct {
	YearsOfExperience  int `json:"yearsOfExperience"`
	ProjectsCompleted  int `json:"projectsCompleted"`
	HappyClients       int `json:"happyClients"`
	CertificatesEarned int `json:"certificatesEarned"`
}

// FileRef points at a downloadable asset such as the resume PDF.
type FileRef struct {
	URL string `json:"url"`
}

// ImageRef is an image URL that decodes from either a bare string or an object of the form {"url": "..."}.
// It always encodes as a bare string.
type ImageRef string

// UnmarshalJSON accepts both "https://..." and {"url": "https://..."}.
func (i *ImageRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid image reference: %w", err)
		}
		*i = ImageRef(s)
		return nil
	}

	var ref FileRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return fmt.Errorf("invalid image reference: %w", err)
	}
	*i = ImageRef(ref.URL)
	return nil
}

// URL returns the image location.
func (i ImageRef) URL() string {
	return string(i)
}

// PersonalInfo is the owner profile. It is created externally and read-only to the UI.
type PersonalInfo struct {
	Name         string      `json:"name"`
	Title        string      `json:"title"`
	Bio          string      `json:"bio"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone,omitempty"`
	Location     Location    `json:"location"`
	ProfileImage ImageRef    `json:"profileImage,omitempty"`
	SocialLinks  SocialLinks `json:"socialLinks"`
	Statistics   Statistics  `json:"statistics"`
	ResumeFile   *FileRef    `json:"resumeFile,omitempty"`
}

// IsZero reports whether the record carries no identifying content.
func (p PersonalInfo) IsZero() bool {
	return p.Name == "" && p.Title == "" && p.Email == ""
}

// Project is a portfolio project. ID is used as list key and as the selection identity.
type Project struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription,omitempty"`
	Image           string   `json:"image,omitempty"`
	VideoURL        *string  `json:"videoUrl,omitempty"`
	Technologies    []string `json:"technologies"`
	Features        []string `json:"features"`
	GitHubURL       *string  `json:"githubUrl,omitempty"`
	LiveURL         *string  `json:"liveUrl,omitempty"`
	Duration        string   `json:"duration,omitempty"`
	TeamSize        string   `json:"teamSize,omitempty"`
	Role            string   `json:"role,omitempty"`
	Status          string   `json:"status,omitempty"`
}

// Certificate is an earned certification.
type Certificate struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Issuer        string   `json:"issuer"`
	Date          string   `json:"date"`
	Image         string   `json:"image,omitempty"`
	CredentialID  *string  `json:"credentialId,omitempty"`
	CredentialURL *string  `json:"credentialUrl,omitempty"`
	Skills        []string `json:"skills"`
	Description   string   `json:"description,omitempty"`
	Verified      *bool    `json:"verified,omitempty"`
}

// Skill is a single proficiency entry. Proficiency ranges from 0 to 100.
type Skill struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Proficiency int    `json:"proficiency"`
	Icon        string `json:"icon,omitempty"`
}

// SkillCategory is the derived grouping of skills by category. It is never persisted.
type SkillCategory struct {
	Category string  `json:"category"`
	Skills   []Skill `json:"skills"`
}

// Resource names used across the API, cache and loaders.
const (
	ResourcePersonalInfo = "personal-info"
	ResourceProjects     = "projects"
	ResourceSkills       = "skills"
	ResourceCertificates = "certificates"
)

// Resources lists every cacheable content resource.
var Resources = []string{
	ResourcePersonalInfo,
	ResourceProjects,
	ResourceSkills,
	ResourceCertificates,
}

// IsResource reports whether name is a known content resource.
func IsResource(name string) bool {
	for _, r := range Resources {
		if r == name {
			return true
		}
	}
	return false
}
