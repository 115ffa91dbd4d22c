// Package resolver evaluates the Go templates supported in configuration
// values.
package resolver

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"github.com/vrsoftware/vrbuild/internal/vcs"
)

const (
	rootVar       = "root"
	projectVar    = "project"
	groupVar      = "group"
	groupPathVar  = "group_path"
	artifactIDVar = "artifact_id"
	versionVar    = "version"

	gitcommitFunc = "gitcommit"
	envFunc       = "env"
	uuidFunc      = "uuid"
)

// Vars are the values of the variables available in templates.
type Vars struct {
	Root       string
	Project    string
	Group      string
	ArtifactID string
	Version    string
}

type GoTemplate struct {
	gitCommitFn  func() (string, error)
	templateVars map[string]string
	funcMap      template.FuncMap
}

func newUUID() string {
	return uuid.NewString()
}

func lookupEnv(envVarName string) (string, error) {
	envVal, exist := os.LookupEnv(envVarName)
	if !exist {
		return "", fmt.Errorf("environment variable %q is undefined", envVarName)
	}

	return envVal, nil
}

func (s *GoTemplate) gitCommit() (string, error) {
	commit, err := s.gitCommitFn()
	if errors.Is(err, vcs.ErrVCSRepositoryNotExist) {
		return "", errors.New("project is not part of a git repository")
	}

	return commit, err
}

// groupPath converts a Maven group ID to its repository path
// ("br.com.vrsoftware" -> "br/com/vrsoftware").
func groupPath(group string) string {
	return strings.ReplaceAll(group, ".", "/")
}

func NewGoTemplate(vars *Vars, gitCommitFn func() (string, error)) *GoTemplate {
	result := &GoTemplate{
		gitCommitFn: gitCommitFn,
		templateVars: map[string]string{
			rootVar:       vars.Root,
			projectVar:    vars.Project,
			groupVar:      vars.Group,
			groupPathVar:  groupPath(vars.Group),
			artifactIDVar: vars.ArtifactID,
			versionVar:    vars.Version,
		},
	}

	result.funcMap = template.FuncMap{
		gitcommitFunc: result.gitCommit,
		envFunc:       lookupEnv,
		uuidFunc:      newUUID,
	}

	return result
}

func (s *GoTemplate) Resolve(in string) (string, error) {
	t, err := template.New("vrbuild").
		Funcs(s.funcMap).
		Option("missingkey=error").
		Parse(in)
	if err != nil {
		return "", fmt.Errorf("failed parsing go template: %w", err)
	}

	output := new(bytes.Buffer)
	if err = t.Execute(output, s.templateVars); err != nil {
		return "", fmt.Errorf("failed evaluating template: %w", err)
	}

	return output.String(), nil
}
