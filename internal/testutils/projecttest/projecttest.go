// Package projecttest creates Java project directories with a vrbuild
// configuration for tests.
package projecttest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"

	"github.com/vrsoftware/vrbuild/internal/testutils/fstest"
	"github.com/vrsoftware/vrbuild/pkg/cfg"
	"github.com/vrsoftware/vrbuild/pkg/versionfile"
)

const (
	// Name is the name of created projects.
	Name = "VRLog"
	// Version is the version that the version file of created projects
	// describes.
	Version = "4.1.2-7"
	// RepoPath is the path of the artifacts in a Maven repository without
	// the file suffix.
	RepoPath = "br/com/vrsoftware/vrlog/4.1.2-7/vrlog-4.1.2-7"
)

// Project is a project directory created by New.
type Project struct {
	Dir     string
	CfgPath string
}

// Path returns the absolute path of the slash separated relPath in the
// project directory.
func (p *Project) Path(relPath string) string {
	return filepath.Join(p.Dir, filepath.FromSlash(relPath))
}

type options struct {
	modifyCfg func(*cfg.Project)
}

// Opt is an option for New.
type Opt func(*options)

// WithCfg registers fn to modify the project configuration before it is
// written.
func WithCfg(fn func(*cfg.Project)) Opt {
	return func(o *options) {
		o.modifyCfg = fn
	}
}

// New creates a project in a temporary directory, consisting of a
// configuration file, a version file, compiled classes, resources, sources
// and a dependency archive.
// The configuration is based on cfg.ExampleProject, without a database
// and with 2 filecopy publish destinations, build/repository and mirror.
// The USER environment variable is set to "tester" for the testcase.
func New(t *testing.T, opts ...Opt) *Project {
	t.Helper()

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	t.Setenv("USER", "tester")

	dir := t.TempDir()
	p := Project{
		Dir:     dir,
		CfgPath: filepath.Join(dir, cfg.ProjectFile),
	}

	projectCfg := cfg.ExampleProject(Name)
	projectCfg.Database.URL = ""
	projectCfg.Publish.Destinations = []string{
		"file://{{ .root }}/build/repository",
		filepath.Join(dir, "mirror"),
	}
	if o.modifyCfg != nil {
		o.modifyCfg(projectCfg)
	}

	require.NoError(t, projectCfg.ToFile(p.CfgPath))

	fstest.WriteToFile(t, []byte("class"), p.Path("build/classes/java/main/br/com/vrsoftware/vrlog/LogManager.class"))
	fstest.WriteToFile(t, []byte("<configuration/>"), p.Path("build/resources/main/vrlog.xml"))
	fstest.WriteToFile(t, []byte("package br.com.vrsoftware.vrlog;"), p.Path("src/main/java/br/com/vrsoftware/vrlog/LogManager.java"))

	require.NoError(t, versionfile.Write(
		p.Path("src/main/resources/vrlog.properties"),
		&versionfile.Fields{Major: 4, Minor: 1, Release: 2, Build: 7, AppDate: "01/02/2020"},
	))

	WriteJar(t, p.Path("build/dependencies/slf4j-api-1.7.30.jar"), map[string]string{
		"META-INF/MANIFEST.MF":                              "Manifest-Version: 1.0\r\n\r\n",
		"META-INF/LICENSE.txt":                              "MIT",
		"META-INF/maven/org.slf4j/slf4j-api/pom.properties": "version=1.7.30",
		"org/slf4j/Logger.class":                            "interface",
	})

	return &p
}

// WriteJar creates a zip archive at path containing files, the keys are the
// entry names.
func WriteJar(t *testing.T, path string, files map[string]string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)

		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
}
