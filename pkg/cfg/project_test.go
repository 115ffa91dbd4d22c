package cfg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ProjectFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestExampleProjectIsValid(t *testing.T) {
	p := ExampleProject("VRLog")
	require.NoError(t, p.Validate())
}

func TestExampleProjectWrittenAndReadIsValid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), ProjectFile)

	p := ExampleProject("VRLog")
	require.NoError(t, p.Validate())
	require.NoError(t, p.ToFile(cfgPath))

	pRead, err := ProjectFromFile(cfgPath)
	require.NoError(t, err)
	require.NoError(t, pRead.Validate())

	assert.Equal(t, cfgPath, pRead.FilePath())
	assert.Equal(t, p.Name, pRead.Name)
	assert.Equal(t, p.Jar, pRead.Jar)
	assert.Equal(t, p.Publish, pRead.Publish)
}

func TestToFileDoesNotOverwriteByDefault(t *testing.T) {
	cfgPath := writeConfig(t, "")

	err := ExampleProject("VRLog").ToFile(cfgPath)
	require.ErrorIs(t, err, os.ErrExist)

	require.NoError(t, ExampleProject("VRLog").ToFile(cfgPath, ToFileOptOverwrite()))
}

func TestExampleIsLoadable(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), ProjectFile)
	require.NoError(t, ExampleProject("VRLog").ToFile(cfgPath))

	p, err := ProjectFromFile(cfgPath)
	require.NoError(t, err)
	require.NoError(t, p.Validate())
	assert.Equal(t, Version, p.ConfigVersion)
	assert.Equal(t, "VRLog", p.Name)
}

func TestMinimalConfigGetsDefaults(t *testing.T) {
	cfgPath := writeConfig(t, `
config_version = 1
name = "VRLog"

[Jar]
class_dirs = ["build/classes/java/main"]
`)

	p, err := ProjectFromFile(cfgPath)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, "src/main/resources/vrlog.properties", p.VersionFile)
	assert.Equal(t, "build/libs", p.Jar.BuildDir)
	assert.Equal(t, "{{ .project }}_v{{ .version }}.jar", p.Jar.ArchiveName)
	assert.Equal(t, "exclude", p.Jar.Duplicates)
	assert.Equal(t, "dist", p.Dist.Dir)
	assert.Equal(t, "{{ .project }}.jar", p.Dist.Name)
	assert.Equal(t, "vrlog", p.Publish.ArtifactID)

	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), "src/main/resources/vrlog.properties"), p.VersionFilePath())
	assert.Equal(t, "/abs/dir", p.AbsPath("/abs/dir"))
}

func TestUnknownKeysAreRejected(t *testing.T) {
	cfgPath := writeConfig(t, `
config_version = 1
name = "VRLog"
nmae = "typo"
`)

	_, err := ProjectFromFile(cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nmae")
}

func TestSyntaxErrorContainsPosition(t *testing.T) {
	cfgPath := writeConfig(t, "config_version = 1\nname = \n")

	_, err := ProjectFromFile(cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), cfgPath+":2:")
}

func TestValidationErrors(t *testing.T) {
	testCases := []struct {
		name        string
		modify      func(*Project)
		errContains string
	}{
		{
			name:        "config version unset",
			modify:      func(p *Project) { p.ConfigVersion = 0 },
			errContains: "config_version: can not be unset or 0",
		},
		{
			name:        "config version incompatible",
			modify:      func(p *Project) { p.ConfigVersion = Version + 1 },
			errContains: "incompatible configuration file",
		},
		{
			name:        "name empty",
			modify:      func(p *Project) { p.Name = "" },
			errContains: "name: can not be empty",
		},
		{
			name:        "name with slash",
			modify:      func(p *Project) { p.Name = "a/b" },
			errContains: "name: ",
		},
		{
			name:        "invalid group",
			modify:      func(p *Project) { p.Group = "br..com" },
			errContains: "group: ",
		},
		{
			name:        "group missing with destinations",
			modify:      func(p *Project) { p.Group = "" },
			errContains: "group: can not be empty when Publish.destinations is set",
		},
		{
			name:        "class dirs empty",
			modify:      func(p *Project) { p.Jar.ClassDirs = nil },
			errContains: "Jar.class_dirs: can not be empty",
		},
		{
			name:        "archive name is path",
			modify:      func(p *Project) { p.Jar.ArchiveName = "../x.jar" },
			errContains: "Jar.archive_name: must be a file name",
		},
		{
			name:        "invalid duplicates strategy",
			modify:      func(p *Project) { p.Jar.Duplicates = "merge" },
			errContains: `Jar.duplicates: invalid value "merge"`,
		},
		{
			name:        "invalid exclude pattern",
			modify:      func(p *Project) { p.Jar.Exclude = []string{"META-INF/[a"} },
			errContains: "Jar.exclude: ",
		},
		{
			name:        "archive name with uuid",
			modify:      func(p *Project) { p.Jar.ArchiveName = "{{ .project }}-{{uuid}}.jar" },
			errContains: "Jar.archive_name: the uuid function is not supported",
		},
		{
			name:        "dist name is path",
			modify:      func(p *Project) { p.Dist.Name = "sub/VRLog.jar" },
			errContains: "Dist.name: must be a file name",
		},
		{
			name:        "empty destination",
			modify:      func(p *Project) { p.Publish.Destinations = []string{" "} },
			errContains: "Publish.destinations: can not contain empty elements",
		},
		{
			name:        "dependency without version",
			modify:      func(p *Project) { p.Publish.Dependencies[1].Version = "" },
			errContains: "Publish.Dependencies[1].version: can not be empty",
		},
		{
			name:        "dependency with invalid scope",
			modify:      func(p *Project) { p.Publish.Dependencies[0].Scope = "system" },
			errContains: `Publish.Dependencies[0].scope: invalid value "system"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := ExampleProject("VRLog")
			tc.modify(p)

			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

type mapResolver map[string]string

func (m mapResolver) Resolve(in string) (string, error) {
	if out, exists := m[in]; exists {
		return out, nil
	}

	return "", errors.New("unresolvable")
}

func TestResolve(t *testing.T) {
	p := ExampleProject("VRLog")
	p.Jar.Manifest.Attributes = map[string]string{"Built-By": "$user"}
	p.Publish.Destinations = []string{"$repo"}
	require.NoError(t, p.Validate())

	err := p.Resolve(mapResolver{
		p.Jar.ArchiveName: "VRLog_v1.0.0-1.jar",
		p.Dist.Dir:        "dist",
		p.Dist.Name:       "VRLog.jar",
		"$user":           "ci",
		"$repo":           "/srv/maven",
	})
	require.NoError(t, err)

	assert.Equal(t, "VRLog_v1.0.0-1.jar", p.Jar.ArchiveName)
	assert.Equal(t, "VRLog_v1.0.0-1-sources.jar", p.Jar.SourcesArchiveName())
	assert.Equal(t, "VRLog.jar", p.Dist.Name)
	assert.Equal(t, "ci", p.Jar.Manifest.Attributes["Built-By"])
	assert.Equal(t, []string{"/srv/maven"}, p.Publish.Destinations)
}

func TestResolveErrorContainsElementPath(t *testing.T) {
	p := ExampleProject("VRLog")
	require.NoError(t, p.Validate())

	err := p.Resolve(mapResolver{p.Jar.ArchiveName: "x.jar"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Jar.Manifest.attributes.Built-By: unresolvable")
}

func TestCloneIsIndependent(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), ProjectFile)
	require.NoError(t, ExampleProject("VRLog").ToFile(cfgPath))

	p, err := ProjectFromFile(cfgPath)
	require.NoError(t, err)

	c := p.Clone()
	assert.Equal(t, p.FilePath(), c.FilePath())

	c.Jar.Manifest.Attributes["Built-By"] = "changed"
	c.Publish.Destinations[0] = "changed"

	assert.Equal(t, `{{ env "USER" }}`, p.Jar.Manifest.Attributes["Built-By"])
	assert.NotEqual(t, "changed", p.Publish.Destinations[0])
}

func TestDependencyWithWhiteSpaceIsInvalid(t *testing.T) {
	for _, version := range []string{"1.2.3 ", " 1.2.3", "1.2 .3"} {
		t.Run(version, func(t *testing.T) {
			p := ExampleProject("VRLog")
			p.Publish.Dependencies[0].Version = version

			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "Publish.Dependencies[0].version: contains white spaces")
		})
	}
}
