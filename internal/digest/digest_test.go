package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	const shash = "sha384:5cb48e5ee7ec1305b3b6b26325bde82cc734f17dca9ea58510948156e3c4c51df04a580604b7b4c3f183bdda47b93322"

	d, err := FromString(shash)
	require.NoError(t, err)

	assert.Equal(t, SHA384, d.Algorithm)
	assert.Equal(t, shash, d.String())
}

func TestFromStringErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"sha384",
		"md5:d41d8cd98f00b204e9800998ecf8427e",
		"sha256:abc",
		"sha256:zz" + "00000000000000000000000000000000000000000000000000000000000000"[2:],
	} {
		_, err := FromString(in)
		assert.Error(t, err, "input: %q", in)
	}
}
