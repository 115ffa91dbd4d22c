package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPackageVars(t *testing.T) {
	oldCommit := GitCommit
	t.Cleanup(func() { GitCommit = oldCommit })

	GitCommit = "3c1e5a8"

	require.NoError(t, LoadPackageVars())
	assert.Equal(t, "1.0.0-1", Cur.Short())
	assert.Equal(t, "1.0.0-1 (3c1e5a8)", Cur.String())
}

func TestFromProperties(t *testing.T) {
	v, err := FromProperties([]byte("version.major=2\nversion.minor=1\nversion.build=5\nversion.beta=3\n"))
	require.NoError(t, err)

	assert.Equal(t, "2.1.0-5-beta3", v.String())
}
