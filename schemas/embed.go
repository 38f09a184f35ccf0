// Package schemas bundles the JSON Schemas describing each API payload.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

// Names of the bundled schemas.
const (
	Common       = "common.schema.json"
	PersonalInfo = "personal_info.schema.json"
	Projects     = "projects.schema.json"
	Skills       = "skills.schema.json"
	Certificates = "certificates.schema.json"
	Contact      = "contact.schema.json"
)

// All lists every bundled schema file.
var All = []string{Common, PersonalInfo, Projects, Skills, Certificates, Contact}
