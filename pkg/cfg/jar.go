package cfg

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vrsoftware/vrbuild/pkg/archive"
)

const (
	defaultBuildDir    = "build/libs"
	defaultArchiveName = "{{ .project }}_v{{ .version }}.jar"
	defaultDuplicates  = string(archive.DuplicatesExclude)
)

// uuidActionRegex matches template actions calling the uuid function. The
// archive name is resolved again by publish, it must be the same value.
var uuidActionRegex = regexp.MustCompile(`\{\{[^}]*\buuid\b`)

// Jar describes how the JAR archives are assembled.
type Jar struct {
	BuildDir     string   `toml:"build_dir" comment:"Directory where the archives are created"`
	ArchiveName  string   `toml:"archive_name" comment:"File name of the main archive, supports templates.\n Valid variables: {{ .project }}, {{ .version }}, {{ .group }}, {{ .artifact_id }}, {{ .root }}.\n Valid functions: {{ env \"NAME\" }}, {{ gitcommit }}."`
	ClassDirs    []string `toml:"class_dirs" comment:"Directories containing compiled classes and resources, their content is added to the archive"`
	Libs         []string `toml:"libs" comment:"Glob patterns matching dependency JARs whose content is merged into the archive"`
	SourcesDirs  []string `toml:"sources_dirs" comment:"Directories whose content is packaged into a <archive>-sources.jar, optional"`
	Exclude      []string `toml:"exclude" comment:"Glob patterns of archive entries to skip, in addition to signature and license files"`
	Duplicates   string   `toml:"duplicates" comment:"Handling of entries that exist multiple times: exclude, warn, include or fail"`
	Reproducible bool     `toml:"reproducible" comment:"Write entries in lexical order with a constant timestamp"`

	Manifest Manifest
}

// Manifest contains additional manifest attributes.
type Manifest struct {
	Attributes map[string]string `toml:"attributes" comment:"Additional main section attributes, values support templates"`
}

func (j *Jar) validate() error {
	if j.BuildDir == "" {
		j.BuildDir = defaultBuildDir
	}

	if j.ArchiveName == "" {
		j.ArchiveName = defaultArchiveName
	}
	if strings.ContainsAny(j.ArchiveName, `/\`) {
		return newFieldError("must be a file name, not a path", "archive_name")
	}
	if uuidActionRegex.MatchString(j.ArchiveName) {
		return newFieldError("the uuid function is not supported, the name must be the same for every command", "archive_name")
	}

	if len(j.ClassDirs) == 0 {
		return newFieldError("can not be empty", "class_dirs")
	}

	for _, dir := range j.ClassDirs {
		if dir == "" {
			return newFieldError("can not contain empty elements", "class_dirs")
		}
	}

	for _, pattern := range j.Libs {
		if !doublestar.ValidatePathPattern(pattern) {
			return newFieldError(fmt.Sprintf("%q is not a valid glob pattern", pattern), "libs")
		}
	}

	for _, pattern := range j.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return newFieldError(fmt.Sprintf("%q is not a valid glob pattern", pattern), "exclude")
		}
	}

	if j.Duplicates == "" {
		j.Duplicates = defaultDuplicates
	}
	if !slices.Contains(archive.DuplicatesStrategies, archive.DuplicatesStrategy(j.Duplicates)) {
		return newFieldError(
			fmt.Sprintf("invalid value %q, must be one of: %s", j.Duplicates, archive.DuplicatesStrategies),
			"duplicates",
		)
	}

	for name := range j.Manifest.Attributes {
		if name == "" {
			return newFieldError("attribute names can not be empty", "Manifest", "attributes")
		}
	}

	return nil
}

func (j *Jar) resolve(resolver Resolver) error {
	var err error

	if j.ArchiveName, err = resolver.Resolve(j.ArchiveName); err != nil {
		return fieldErrorWrap(err, "archive_name")
	}

	for name, val := range j.Manifest.Attributes {
		if j.Manifest.Attributes[name], err = resolver.Resolve(val); err != nil {
			return fieldErrorWrap(err, "Manifest", "attributes", name)
		}
	}

	return nil
}

// SourcesArchiveName returns the file name of the sources archive that
// belongs to the main archive.
func (j *Jar) SourcesArchiveName() string {
	return strings.TrimSuffix(j.ArchiveName, ".jar") + "-sources.jar"
}
