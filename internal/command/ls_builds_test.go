package command

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLsBuilds(t *testing.T) {
	initTest(t)
	initProject(t, withDatabase())

	execCheck(t, newInitDbCmd(), exitCodeSuccess)
	execCheck(t, newJarCmd(), exitCodeSuccess)
	execCheck(t, newJarCmd(), exitCodeSuccess)

	t.Run("csv", func(t *testing.T) {
		stdoutBuf, _ := interceptCmdOutput(t)
		execCheck(t, newLsBuildsCmd(), exitCodeSuccess, "--format", "csv")

		lines := strings.Split(strings.TrimSpace(stdoutBuf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "ID,Version,Revision,Started At,Duration (s)", lines[0])
		assert.Contains(t, lines[1], ",4.1.2-7,")
	})

	t.Run("limit-quiet", func(t *testing.T) {
		stdoutBuf, _ := interceptCmdOutput(t)
		execCheck(t, newLsBuildsCmd(), exitCodeSuccess, "--limit", "1", "-q")

		lines := strings.Split(strings.TrimSpace(stdoutBuf.String()), "\n")
		require.Len(t, lines, 1)
		assert.Len(t, lines[0], 36)
	})

	t.Run("json-artifacts", func(t *testing.T) {
		stdoutBuf, _ := interceptCmdOutput(t)
		execCheck(t, newLsBuildsCmd(), exitCodeSuccess, "--format", "json", "--artifacts")

		var builds []map[string]any
		require.NoError(t, json.Unmarshal(stdoutBuf.Bytes(), &builds))
		require.Len(t, builds, 2)
		assert.Equal(t, "4.1.2-7", builds[0]["Version"])
		assert.Contains(t, builds[0]["Artifacts"], "VRLog.jar (1 uploads)")
	})

	t.Run("unknown-version", func(t *testing.T) {
		execCheck(t, newLsBuildsCmd(), exitCodeNotExist, "--version", "9.9.9-9")
	})
}

func TestLsBuildsWithoutDatabaseFails(t *testing.T) {
	initTest(t)
	initProject(t)
	t.Setenv(envVarDatabaseURL, "")
	_, stderrBuf := interceptCmdOutput(t)

	execCheck(t, newLsBuildsCmd(), exitCodeError)

	assert.Contains(t, stderrBuf.String(), "no database is configured")
}
