package cfg

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vrsoftware/vrbuild/internal/deepcopy"
)

const (
	// Version identifies the format of the configuration files that the
	// package can parse. Whenever an incompatible change is made, the
	// Version number is increased.
	Version int = 1

	// ProjectFile is the name of the project configuration file.
	ProjectFile = ".vrbuild.toml"
	// DatabaseURLEnvVar overrides the Database.url setting.
	DatabaseURLEnvVar = "VRBUILD_DATABASE_URL"

	defaultVersionFile = "src/main/resources/vrlog.properties"
)

var (
	nameRegex    = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	groupIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+)*$`)
)

// Project contains the project configuration.
type Project struct {
	ConfigVersion int    `toml:"config_version" comment:"Internal field, version of vrbuild configuration format"`
	Name          string `toml:"name" comment:"Project name, used as Implementation-Title and in archive names"`
	Group         string `toml:"group" comment:"Maven group ID of the published artifacts"`
	VersionFile   string `toml:"version_file" comment:"Properties file containing the version.* and app.data keys,\n relative to the directory of this file"`

	Database Database
	Jar      Jar
	Dist     Dist
	Publish  Publish

	filePath string
}

// Database contains the build history database configuration.
type Database struct {
	URL string `toml:"url" comment:"Build history database.\n postgres:// and postgresql:// URLs select PostgreSQL, sqlite://<path> or a plain path selects SQLite.\n The setting is overwritten by the environment variable VRBUILD_DATABASE_URL.\n If empty, builds are not recorded."`
}

// ProjectFromFile reads the project config from a file and returns it.
func ProjectFromFile(cfgPath string) (*Project, error) {
	var config Project

	err := fromFile(cfgPath, &config)
	if err != nil {
		return nil, err
	}

	config.filePath = cfgPath

	return &config, nil
}

// ExampleProject returns an exemplary Project config.
func ExampleProject(name string) *Project {
	return &Project{
		ConfigVersion: Version,
		Name:          name,
		Group:         "br.com.vrsoftware",
		VersionFile:   defaultVersionFile,

		Database: Database{
			URL: "sqlite://build/vrbuild.db",
		},

		Jar: Jar{
			BuildDir:    defaultBuildDir,
			ArchiveName: defaultArchiveName,
			ClassDirs:   []string{"build/classes/java/main", "build/resources/main"},
			Libs:        []string{"build/dependencies/*.jar"},
			SourcesDirs: []string{"src/main/java", "src/main/resources"},
			Exclude:     []string{"META-INF/maven/**"},
			Duplicates:  defaultDuplicates,
			Manifest: Manifest{
				Attributes: map[string]string{
					"Built-By": `{{ env "USER" }}`,
				},
			},
		},

		Dist: Dist{
			Dir:  defaultDistDir,
			Name: defaultDistName,
		},

		Publish: Publish{
			ArtifactID:   strings.ToLower(name),
			Destinations: []string{"file://{{ .root }}/build/repository"},
			Dependencies: []*Dependency{
				{
					Group:    "ch.qos.logback",
					Artifact: "logback-classic",
					Version:  "1.2.3",
					Scope:    ScopeCompile,
				},
				{
					Group:    "org.slf4j",
					Artifact: "slf4j-api",
					Version:  "1.7.30",
					Scope:    ScopeCompile,
				},
				{
					Group:    "commons-configuration",
					Artifact: "commons-configuration",
					Version:  "1.10",
					Scope:    ScopeRuntime,
				},
			},
		},
	}
}

// ToFile writes the Project configuration to filepath.
func (p *Project) ToFile(filepath string, opts ...toFileOpt) error {
	return toFile(p, filepath, opts...)
}

// FilePath returns the path of the file the configuration was read from.
func (p *Project) FilePath() string {
	return p.filePath
}

// Dir returns the directory containing the configuration file, relative
// paths in the configuration are relative to it.
func (p *Project) Dir() string {
	return filepath.Dir(p.filePath)
}

// Validate validates a project configuration and sets defaults for unset
// optional fields.
func (p *Project) Validate() error {
	if p.ConfigVersion == 0 {
		return newFieldError("can not be unset or 0", "config_version")
	}
	if p.ConfigVersion != Version {
		return fmt.Errorf("incompatible configuration file\n"+
			"config_version value is %d, expecting version: %d\n"+
			"Update your vrbuild configuration file or downgrade vrbuild.", p.ConfigVersion, Version)
	}

	if p.Name == "" {
		return newFieldError("can not be empty", "name")
	}
	if !nameRegex.MatchString(p.Name) {
		return newFieldError(
			fmt.Sprintf("%q contains invalid characters, allowed are letters, digits, '_', '.' and '-'", p.Name),
			"name",
		)
	}

	if p.Group != "" && !groupIDRegex.MatchString(p.Group) {
		return newFieldError(fmt.Sprintf("%q is not a valid Maven group ID", p.Group), "group")
	}

	if p.VersionFile == "" {
		p.VersionFile = defaultVersionFile
	}

	if err := p.Jar.validate(); err != nil {
		return fieldErrorWrap(err, "Jar")
	}

	if err := p.Dist.validate(); err != nil {
		return fieldErrorWrap(err, "Dist")
	}

	if err := p.Publish.validate(p.Name); err != nil {
		return fieldErrorWrap(err, "Publish")
	}

	if len(p.Publish.Destinations) > 0 && p.Group == "" {
		return newFieldError("can not be empty when Publish.destinations is set", "group")
	}

	return nil
}

// Resolve replaces template expressions in the settings that support them.
func (p *Project) Resolve(resolver Resolver) error {
	var err error

	if err = p.Jar.resolve(resolver); err != nil {
		return fieldErrorWrap(err, "Jar")
	}

	if err = p.Dist.resolve(resolver); err != nil {
		return fieldErrorWrap(err, "Dist")
	}

	if err = p.Publish.resolve(resolver); err != nil {
		return fieldErrorWrap(err, "Publish")
	}

	return nil
}

// VersionFilePath returns the absolute path of the version file.
func (p *Project) VersionFilePath() string {
	return p.AbsPath(p.VersionFile)
}

// AbsPath returns path as absolute path, relative paths are interpreted as
// relative to the directory of the configuration file.
func (p *Project) AbsPath(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(p.Dir(), path)
}

// AbsPaths calls AbsPath for every element in paths.
func (p *Project) AbsPaths(paths []string) []string {
	res := make([]string, 0, len(paths))
	for _, path := range paths {
		res = append(res, p.AbsPath(path))
	}

	return res
}

// Clone returns a deep copy of the configuration.
func (p *Project) Clone() *Project {
	var result Project

	deepcopy.MustCopy(p, &result)
	result.filePath = p.filePath

	return &result
}
