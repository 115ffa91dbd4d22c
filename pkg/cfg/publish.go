package cfg

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vrsoftware/vrbuild/internal/validation"
)

// Maven dependency scopes.
const (
	ScopeCompile  = "compile"
	ScopeRuntime  = "runtime"
	ScopeProvided = "provided"
	ScopeTest     = "test"
)

var scopes = []string{ScopeCompile, ScopeRuntime, ScopeProvided, ScopeTest}

// Publish describes where artifacts are published to.
type Publish struct {
	ArtifactID   string        `toml:"artifact_id" comment:"Maven artifact ID, defaults to the lower-cased project name"`
	Destinations []string      `toml:"destinations" comment:"Maven repositories the archives and the POM are uploaded to, supports templates.\n Supported schemes: s3://<bucket>/<prefix>, file://<path> or a plain directory path."`
	Dependencies []*Dependency `toml:"Dependencies" comment:"Dependencies listed in the published POM"`
}

// Dependency is a Maven dependency of the project.
type Dependency struct {
	Group    string `toml:"group"`
	Artifact string `toml:"artifact"`
	Version  string `toml:"version"`
	Scope    string `toml:"scope" comment:"compile, runtime, provided or test"`
}

func (p *Publish) validate(projectName string) error {
	if p.ArtifactID == "" {
		p.ArtifactID = strings.ToLower(projectName)
	}

	if !nameRegex.MatchString(p.ArtifactID) {
		return newFieldError(fmt.Sprintf("%q contains invalid characters", p.ArtifactID), "artifact_id")
	}

	for _, dest := range p.Destinations {
		if strings.TrimSpace(dest) == "" {
			return newFieldError("can not contain empty elements", "destinations")
		}
	}

	for i, dep := range p.Dependencies {
		if err := dep.validate(); err != nil {
			return fieldErrorWrap(err, "Dependencies["+strconv.Itoa(i)+"]")
		}
	}

	return nil
}

func (p *Publish) resolve(resolver Resolver) error {
	for i, dest := range p.Destinations {
		var err error

		if p.Destinations[i], err = resolver.Resolve(dest); err != nil {
			return fieldErrorWrap(err, "destinations")
		}
	}

	return nil
}

func (d *Dependency) validate() error {
	for _, f := range []struct{ name, val string }{
		{"group", d.Group},
		{"artifact", d.Artifact},
		{"version", d.Version},
	} {
		if err := validation.Coordinate(f.val); err != nil {
			return newFieldError(err.Error(), f.name)
		}
	}

	if d.Scope == "" {
		d.Scope = ScopeCompile
	}
	if !slices.Contains(scopes, d.Scope) {
		return newFieldError(
			fmt.Sprintf("invalid value %q, must be one of: %s", d.Scope, strings.Join(scopes, ", ")),
			"scope",
		)
	}

	return nil
}
