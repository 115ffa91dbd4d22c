package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsoftware/vrbuild/pkg/versionfile"
)

func TestReleaseIncrementsBuildAndStampsDate(t *testing.T) {
	initTest(t)
	p := initProject(t)
	stdoutBuf, _ := interceptCmdOutput(t)

	execCheck(t, newReleaseCmd(), exitCodeSuccess)
	execCheck(t, newReleaseCmd(), exitCodeSuccess)

	assert.Equal(t, "VRLog v4.1.2-8\nVRLog v4.1.2-9\n", stdoutBuf.String())

	fields, err := versionfile.Load(p.Path("src/main/resources/vrlog.properties"))
	require.NoError(t, err)

	assert.Equal(t, 9, fields.Build)
	assert.Equal(t, time.Now().Format(versionfile.DateLayout), fields.AppDate)
}
