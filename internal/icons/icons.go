// Package icons resolves skill and social icon names to a closed set of icons.
package icons

import "strings"

// Icon identifies a known icon. Unknown is returned for names outside the table.
type Icon int

// Known icons.
const (
	Unknown Icon = iota
	Code
	Database
	Cloud
	Server
	Mobile
	Design
	Terminal
	GitHub
	LinkedIn
	Twitter
	Instagram
	Email
	Website
	Certificate
)

var names = map[Icon]string{
	Unknown:     "unknown",
	Code:        "code",
	Database:    "database",
	Cloud:       "cloud",
	Server:      "server",
	Mobile:      "mobile",
	Design:      "design",
	Terminal:    "terminal",
	GitHub:      "github",
	LinkedIn:    "linkedin",
	Twitter:     "twitter",
	Instagram:   "instagram",
	Email:       "email",
	Website:     "website",
	Certificate: "certificate",
}

var glyphs = map[Icon]string{
	Unknown:     "•",
	Code:        "</>",
	Database:    "DB",
	Cloud:       "☁",
	Server:      "▤",
	Mobile:      "▯",
	Design:      "✎",
	Terminal:    ">_",
	GitHub:      "GH",
	LinkedIn:    "in",
	Twitter:     "X",
	Instagram:   "IG",
	Email:       "@",
	Website:     "⌂",
	Certificate: "✓",
}

// aliases maps the free-form names found in content data to icons.
var aliases = map[string]Icon{
	"code":        Code,
	"react":       Code,
	"javascript":  Code,
	"typescript":  Code,
	"go":          Code,
	"python":      Code,
	"database":    Database,
	"mongodb":     Database,
	"postgresql":  Database,
	"sql":         Database,
	"cloud":       Cloud,
	"aws":         Cloud,
	"server":      Server,
	"node":        Server,
	"nodejs":      Server,
	"mobile":      Mobile,
	"design":      Design,
	"figma":       Design,
	"terminal":    Terminal,
	"git":         Terminal,
	"docker":      Terminal,
	"github":      GitHub,
	"linkedin":    LinkedIn,
	"twitter":     Twitter,
	"x":           Twitter,
	"instagram":   Instagram,
	"email":       Email,
	"mail":        Email,
	"website":     Website,
	"globe":       Website,
	"certificate": Certificate,
	"award":       Certificate,
}

// Lookup resolves a free-form icon name. Matching ignores case, surrounding space,
// and an optional "Fa"/"Si" component prefix. Unrecognised names resolve to Unknown.
func Lookup(name string) Icon {
	key := strings.ToLower(strings.TrimSpace(name))
	if icon, ok := aliases[key]; ok {
		return icon
	}
	for _, prefix := range []string{"fa", "si"} {
		if trimmed, ok := strings.CutPrefix(key, prefix); ok && trimmed != "" {
			if icon, ok := aliases[trimmed]; ok {
				return icon
			}
		}
	}
	return Unknown
}

// String returns the canonical icon name.
func (i Icon) String() string {
	if n, ok := names[i]; ok {
		return n
	}
	return names[Unknown]
}

// Glyph returns a short textual rendering. It is never empty.
func (i Icon) Glyph() string {
	if g, ok := glyphs[i]; ok {
		return g
	}
	return glyphs[Unknown]
}
