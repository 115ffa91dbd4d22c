// Package fs provides helpers for files and directories.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// IsFile returns true if path is a regular file.
// If the path does not exist, the error from os.Stat() is returned.
func IsFile(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return fi.Mode().IsRegular(), nil
}

// FileExists returns true if path exists and is a regular file.
func FileExists(path string) bool {
	ret, _ := IsFile(path)

	return ret
}

// IsDir returns true if path is a directory.
// If the path does not exist, the error from os.Stat() is returned.
func IsDir(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return fi.IsDir(), nil
}

// DirsExist returns an error if one of paths does not exist or is not a
// directory.
func DirsExist(paths ...string) error {
	for _, path := range paths {
		isDir, err := IsDir(path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("'%s' does not exist: %w", path, err)
			}

			return fmt.Errorf("%s: %w", path, err)
		}

		if !isDir {
			return fmt.Errorf("'%s' is not a directory", path)
		}
	}

	return nil
}

// SameFile calls os.SameFile() for both paths.
// If one of the files does not exist, the error from os.Stat() is returned.
func SameFile(a, b string) (bool, error) {
	aFi, err := os.Stat(a)
	if err != nil {
		return false, err
	}

	bFi, err := os.Stat(b)
	if err != nil {
		return false, err
	}

	return os.SameFile(aFi, bFi), nil
}

// FindFileInParentDirs searches for a file called filename in startPath and
// its parent directories.
// It returns the absolute path of the first match.
// If the root directory is reached without finding the file, os.ErrNotExist
// is returned.
func FindFileInParentDirs(startPath, filename string) (string, error) {
	return findInParentDirs(startPath, filename, func(fi os.FileInfo) bool {
		return !fi.IsDir()
	})
}

// FindDirInParentDirs searches for a directory called dirName in startPath
// and its parent directories.
// It returns the absolute path of the first match.
// If the root directory is reached without finding it, os.ErrNotExist is
// returned.
func FindDirInParentDirs(startPath, dirName string) (string, error) {
	return findInParentDirs(startPath, dirName, func(fi os.FileInfo) bool {
		return fi.IsDir()
	})
}

func findInParentDirs(startPath, name string, accept func(os.FileInfo) bool) (string, error) {
	// filepath.Clean() removes trailing separators, otherwise a path ending
	// in a separator would be interpreted as the root directory
	searchDir, err := filepath.Abs(filepath.Clean(startPath))
	if err != nil {
		return "", err
	}

	for {
		p := filepath.Join(searchDir, name)

		fi, err := os.Stat(p)
		if err == nil && accept(fi) {
			return p, nil
		}

		if err != nil && !os.IsNotExist(err) {
			return "", err
		}

		parent := filepath.Dir(searchDir)
		if parent == searchDir {
			return "", os.ErrNotExist
		}

		searchDir = parent
	}
}

// FileSize returns the size of a file in bytes.
func FileSize(path string) (int64, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return -1, err
	}

	return stat.Size(), nil
}

// Mkdir creates path and all its missing parent directories.
func Mkdir(path string) error {
	return os.MkdirAll(path, os.FileMode(0o755))
}

// AbsPaths returns paths with every relative element joined to rootPath.
func AbsPaths(rootPath string, paths []string) []string {
	result := make([]string, len(paths))

	for i, p := range paths {
		result[i] = AbsPath(rootPath, p)
	}

	return result
}

// AbsPath returns path if it is absolute, otherwise path joined to rootPath.
func AbsPath(rootPath, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(rootPath, path)
}
