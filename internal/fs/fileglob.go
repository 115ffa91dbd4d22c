package fs

import (
	"errors"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// FileGlob resolves pattern to paths of regular files.
// If the pattern is an absolute path, absolute paths are returned, otherwise
// relative paths.
// In addition to the syntax of filepath.Glob(), '**' matches files and
// directories recursively.
// If a directory part of the pattern does not exist, an error that can be
// tested with os.IsNotExist() is returned.
// If the pattern does not match any file, an empty slice and a nil error is
// returned.
func FileGlob(pattern string) ([]string, error) {
	globRes, err := doublestar.FilepathGlob(
		pattern,
		doublestar.WithFailOnIOErrors(),
		doublestar.WithFailOnPatternNotExist(),
		doublestar.WithFilesOnly(),
	)
	if err != nil {
		if errors.Is(err, doublestar.ErrPatternNotExist) {
			return nil, os.ErrNotExist
		}
		return nil, err
	}

	return globRes, nil
}

// MatchGlob returns true if the slash separated path matches pattern.
func MatchGlob(pattern, path string) (bool, error) {
	return doublestar.Match(pattern, path)
}

// ValidateGlob returns an error if pattern is not a valid glob pattern.
func ValidateGlob(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return doublestar.ErrBadPattern
	}

	return nil
}
