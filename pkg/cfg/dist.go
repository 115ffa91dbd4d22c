package cfg

import "strings"

const (
	defaultDistDir  = "dist"
	defaultDistName = "{{ .project }}.jar"
)

// Dist describes where the main archive is copied to after it was built.
type Dist struct {
	Dir  string `toml:"dir" comment:"Distribution directory"`
	Name string `toml:"name" comment:"File name of the archive in the distribution directory, supports templates"`
}

func (d *Dist) validate() error {
	if d.Dir == "" {
		d.Dir = defaultDistDir
	}

	if d.Name == "" {
		d.Name = defaultDistName
	}

	if strings.ContainsAny(d.Name, `/\`) {
		return newFieldError("must be a file name, not a path", "name")
	}

	return nil
}

func (d *Dist) resolve(resolver Resolver) error {
	var err error

	if d.Dir, err = resolver.Resolve(d.Dir); err != nil {
		return fieldErrorWrap(err, "dir")
	}

	if d.Name, err = resolver.Resolve(d.Name); err != nil {
		return fieldErrorWrap(err, "name")
	}

	return nil
}
