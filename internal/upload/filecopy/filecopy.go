// Package filecopy publishes files by copying them to a local or mounted
// directory.
package filecopy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vrsoftware/vrbuild/internal/digest/sha384"
	"github.com/vrsoftware/vrbuild/internal/fs"
)

var defLogFn = func(string, ...any) {}

// Client copies files from one path to another
type Client struct {
	debugLogFn func(string, ...any)
}

// New returns a client
func New(debugLogFn func(string, ...any)) *Client {
	logFn := defLogFn
	if debugLogFn != nil {
		logFn = debugLogFn
	}

	return &Client{debugLogFn: logFn}
}

// copyFile copies src to a temporary file in the directory of dst and
// renames it to dst.
func copyFile(src, dst string) error {
	srcFd, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s failed: %w", src, err)
	}

	defer srcFd.Close() //nolint: errcheck

	srcFi, err := srcFd.Stat()
	if err != nil {
		return fmt.Errorf("stat %s failed: %w", src, err)
	}

	tmpFd, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}

	tmpPath := tmpFd.Name()

	_, err = io.Copy(tmpFd, srcFd)
	if err == nil {
		err = tmpFd.Chmod(srcFi.Mode().Perm())
	}
	if closeErr := tmpFd.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpPath, dst)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("copying %s to %s failed: %w", src, dst, err)
	}

	return nil
}

func equalContent(a, b string) (bool, error) {
	aSize, err := fs.FileSize(a)
	if err != nil {
		return false, err
	}

	bSize, err := fs.FileSize(b)
	if err != nil {
		return false, err
	}

	if aSize != bSize {
		return false, nil
	}

	aDigest, err := sha384.File(a)
	if err != nil {
		return false, err
	}

	bDigest, err := sha384.File(b)
	if err != nil {
		return false, err
	}

	return aDigest.String() == bDigest.String(), nil
}

// Upload copies the file with src path to the dst path and returns dst.
// If the destination directory does not exist, it is created.
// If the destination path exist and is not a regular file an error is returned.
// If it exists, is a file and its content differs the file is overwritten.
func (c *Client) Upload(ctx context.Context, src string, dst string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	destDir := filepath.Dir(dst)

	isDir, err := fs.IsDir(destDir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		err = fs.Mkdir(destDir)
		if err != nil {
			return "", fmt.Errorf("creating directory %s failed: %w", destDir, err)
		}
		c.debugLogFn("filecopy: created directory '%s'", destDir)
	} else if !isDir {
		return "", fmt.Errorf("%s is not a directory", destDir)
	}

	regFile, err := fs.IsFile(dst)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		return dst, copyFile(src, dst)
	}

	if !regFile {
		return "", fmt.Errorf("%s exist but is not a regular file", dst)
	}

	sameFile, err := fs.SameFile(src, dst)
	if err != nil {
		return "", err
	}

	if sameFile {
		c.debugLogFn("filecopy: '%s' is the same file then '%s'", dst, src)
		return dst, nil
	}

	equal, err := equalContent(src, dst)
	if err != nil {
		return "", err
	}

	if equal {
		c.debugLogFn("filecopy: '%s' already exist with the same content then '%s'", dst, src)
		return dst, nil
	}

	c.debugLogFn("filecopy: '%s' already exist, overwriting file", dst)

	return dst, copyFile(src, dst)
}
