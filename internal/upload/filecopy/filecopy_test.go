package filecopy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsoftware/vrbuild/internal/testutils/fstest"
)

func TestUploadCreatesDirectories(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "build", "libs", "VRLog_v1.0.0-1.jar")
	dst := filepath.Join(tempDir, "dist", "sub", "VRLog.jar")

	fstest.WriteToFile(t, []byte("jar"), src)

	res, err := New(t.Logf).Upload(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, dst, res)
	assert.Equal(t, "jar", string(fstest.ReadFile(t, dst)))

	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file was not removed")
}

func TestUploadOverwritesDifferentFile(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "new.jar")
	dst := filepath.Join(tempDir, "dist", "VRLog.jar")

	fstest.WriteToFile(t, []byte("new content"), src)
	fstest.WriteToFile(t, []byte("old content"), dst)

	_, err := New(t.Logf).Upload(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(fstest.ReadFile(t, dst)))
}

func TestUploadSkipsIdenticalFile(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "new.jar")
	dst := filepath.Join(tempDir, "dist", "VRLog.jar")

	fstest.WriteToFile(t, []byte("content"), src)
	fstest.WriteToFile(t, []byte("content"), dst)

	var logs []string
	logFn := func(format string, _ ...any) { logs = append(logs, format) }

	_, err := New(logFn).Upload(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Contains(t, logs, "filecopy: '%s' already exist with the same content then '%s'")
}

func TestUploadSameFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "VRLog.jar")
	fstest.WriteToFile(t, []byte("content"), src)

	res, err := New(nil).Upload(context.Background(), src, src)
	require.NoError(t, err)
	assert.Equal(t, src, res)
	assert.Equal(t, "content", string(fstest.ReadFile(t, src)))
}

func TestUploadToDirectoryFails(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "VRLog.jar")
	fstest.WriteToFile(t, []byte("content"), src)

	dst := filepath.Join(tempDir, "dist")
	require.NoError(t, os.Mkdir(dst, 0o755))

	_, err := New(nil).Upload(context.Background(), src, dst)
	require.ErrorContains(t, err, "not a regular file")
}

func TestUploadKeepsFileMode(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "VRLog.jar")
	dst := filepath.Join(tempDir, "dist", "VRLog.jar")
	fstest.WriteToFile(t, []byte("content"), src)
	require.NoError(t, os.Chmod(src, 0o640))

	_, err := New(nil).Upload(context.Background(), src, dst)
	require.NoError(t, err)

	fi, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())
}

func TestUploadCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Upload(ctx, "a", "b")
	require.ErrorIs(t, err, context.Canceled)
}
