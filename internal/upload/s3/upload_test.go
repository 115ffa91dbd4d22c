//go:build s3test

package s3

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsoftware/vrbuild/internal/log"
	"github.com/vrsoftware/vrbuild/internal/testutils/fstest"
	"github.com/vrsoftware/vrbuild/internal/testutils/s3test"
)

func TestUploadToS3Mock(t *testing.T) {
	s3test.SetupEnv(t)
	log.RedirectToTestingLog(t)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "VRLog.jar")
	fstest.WriteToFile(t, []byte("jar"), src)

	clt, err := NewClient(ctx, log.StdLogger)
	require.NoError(t, err)

	url, err := clt.Upload(ctx, src, s3test.Bucket, "br/com/vrsoftware/vrlog/VRLog.jar")
	require.NoError(t, err)
	assert.Equal(t, "s3://"+s3test.Bucket+"/br/com/vrsoftware/vrlog/VRLog.jar", url)
}
