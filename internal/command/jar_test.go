package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsoftware/vrbuild/internal/testutils/projecttest"
	"github.com/vrsoftware/vrbuild/pkg/archive"
	"github.com/vrsoftware/vrbuild/pkg/cfg"
)

func TestJar(t *testing.T) {
	initTest(t)
	p := initProject(t)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, newJarCmd(), exitCodeSuccess)

	assert.FileExists(t, p.Path("build/libs/VRLog_v4.1.2-7.jar"))
	assert.FileExists(t, p.Path("build/libs/VRLog_v4.1.2-7-sources.jar"))
	assert.FileExists(t, p.Path("dist/VRLog.jar"))

	assert.Contains(t, stdoutBuf.String(), "packaged VRLog v4.1.2-7")
	assert.Contains(t, stdoutBuf.String(), "copied to "+p.Path("dist/VRLog.jar"))
	assert.NotContains(t, stdoutBuf.String(), "recorded build")

	m, err := archive.ReadManifest(p.Path("dist/VRLog.jar"))
	require.NoError(t, err)

	ver, exist := m.Get("Implementation-Version")
	require.True(t, exist)
	assert.Equal(t, projecttest.Version, ver)
}

func TestJarQuiet(t *testing.T) {
	initTest(t)
	p := initProject(t)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, newJarCmd(), exitCodeSuccess, "-q")

	assert.Equal(t, p.Path("dist/VRLog.jar")+"\n", stdoutBuf.String())
}

func TestJarDuplicatesFlagOverwritesConfig(t *testing.T) {
	initTest(t)
	p := initProject(t, projecttest.WithCfg(func(c *cfg.Project) {
		c.Jar.Duplicates = string(archive.DuplicatesExclude)
	}))

	projecttest.WriteJar(t, p.Path("build/dependencies/vrlog-old.jar"), map[string]string{
		"br/com/vrsoftware/vrlog/LogManager.class": "old class",
	})

	execCheck(t, newJarCmd(), exitCodeError, "--duplicates", "fail")
	execCheck(t, newJarCmd(), exitCodeSuccess, "--duplicates", "warn")
}

func TestJarInvalidDuplicatesFlag(t *testing.T) {
	initTest(t)
	initProject(t)

	cmd := newJarCmd()
	cmd.SetArgs([]string{"--duplicates", "merge"})

	assert.Error(t, cmd.Execute())
}

func TestJarRecordsBuild(t *testing.T) {
	initTest(t)
	initProject(t, withDatabase())
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, newInitDbCmd(), exitCodeSuccess)
	execCheck(t, newJarCmd(), exitCodeSuccess)

	assert.Contains(t, stdoutBuf.String(), "recorded build: ")
}

func TestJarFailsWhenDatabaseDoesNotExist(t *testing.T) {
	initTest(t)
	p := initProject(t, withDatabase())
	_, stderrBuf := interceptCmdOutput(t)

	execCheck(t, newJarCmd(), exitCodeError)

	assert.Contains(t, stderrBuf.String(), "the database does not exist")
	assert.NoFileExists(t, p.Path("dist/VRLog.jar"))
}
