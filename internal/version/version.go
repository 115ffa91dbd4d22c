// Package version provides the version of the vrbuild command.
// The version is described by an embedded version properties file, the
// same format that vrbuild manages for Java projects.
package version

import (
	"bytes"
	_ "embed" // is required to initialize the rawVersion variable with content from the properties file
	"fmt"

	"github.com/vrsoftware/vrbuild/pkg/versionfile"
)

var (
	// GitCommit contains the git commit of this version.
	// It's set via -ldflags.
	GitCommit = ""

	//go:embed version.properties
	rawVersion []byte

	// Cur is the current version, it is set by LoadPackageVars.
	Cur = Version{}
)

// LoadPackageVars parses the embedded version file and sets Cur.
func LoadPackageVars() error {
	v, err := FromProperties(rawVersion)
	if err != nil {
		return err
	}

	Cur = *v
	Cur.GitCommit = GitCommit

	return nil
}

// Version is a version of the vrbuild command.
type Version struct {
	Fields    versionfile.Fields
	GitCommit string
}

// Short returns the version without GitCommit.
func (v *Version) Short() string {
	return v.Fields.Version()
}

// String returns the version, followed by the git commit in parenthesis if
// it is known.
func (v *Version) String() string {
	ver := v.Short()

	if v.GitCommit != "" {
		ver += fmt.Sprintf(" (%s)", v.GitCommit)
	}

	return ver
}

// FromProperties parses a version from the content of a version properties
// file.
func FromProperties(content []byte) (*Version, error) {
	fields, err := versionfile.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing version failed: %w", err)
	}

	return &Version{Fields: *fields}, nil
}
