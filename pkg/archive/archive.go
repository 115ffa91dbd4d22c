// Package archive creates JAR archives.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/vrsoftware/vrbuild/internal/digest"
	"github.com/vrsoftware/vrbuild/internal/digest/sha384"
	vrfs "github.com/vrsoftware/vrbuild/internal/fs"
	"github.com/vrsoftware/vrbuild/pkg/manifest"
)

// ErrDuplicateEntry is returned when an entry exists in multiple inputs and
// the DuplicatesFail strategy is used.
var ErrDuplicateEntry = errors.New("duplicate archive entry")

// DuplicatesStrategy defines how entries that exist in multiple inputs are
// handled.
type DuplicatesStrategy string

const (
	// DuplicatesExclude keeps the first entry and skips later ones.
	DuplicatesExclude DuplicatesStrategy = "exclude"
	// DuplicatesWarn is DuplicatesExclude with a warning per skipped entry.
	DuplicatesWarn DuplicatesStrategy = "warn"
	// DuplicatesInclude writes every entry, the archive contains the name
	// multiple times.
	DuplicatesInclude DuplicatesStrategy = "include"
	// DuplicatesFail aborts the build.
	DuplicatesFail DuplicatesStrategy = "fail"
)

// DuplicatesStrategies lists all valid strategies.
var DuplicatesStrategies = []DuplicatesStrategy{
	DuplicatesExclude,
	DuplicatesWarn,
	DuplicatesInclude,
	DuplicatesFail,
}

// DefaultExcludes are patterns of entries that are never copied from
// inputs: signatures of merged jars would be invalid in the new archive.
var DefaultExcludes = []string{
	"META-INF/*.RSA",
	"META-INF/*.SF",
	"META-INF/*.DSA",
	"META-INF/LICENSE",
	"META-INF/LICENSE.txt",
	"META-INF/NOTICE",
	"META-INF/NOTICE.txt",
}

// ReproducibleTime is the modification time of all entries when
// Spec.Reproducible is set.
var ReproducibleTime = time.Date(1980, time.February, 1, 0, 0, 0, 0, time.UTC)

// Logger is the interface of the logger used by the Builder.
type Logger interface {
	Debugf(format string, v ...any)
	Warnf(format string, v ...any)
}

// Spec describes the content of an archive.
type Spec struct {
	// Manifest is written as first file to META-INF/MANIFEST.MF. It can be
	// nil, then no manifest is written.
	Manifest *manifest.Manifest
	// Dirs are directories whose content is added to the archive root.
	// Directories that do not exist are skipped.
	Dirs []string
	// Jars are archives whose entries are merged into the archive.
	Jars []string
	// Exclude are glob patterns, entries with a matching name are not
	// added.
	Exclude []string
	// Duplicates is the strategy for entries with the same name, it
	// defaults to DuplicatesExclude.
	Duplicates DuplicatesStrategy
	// Reproducible writes all entries following the manifest in lexical
	// order, sets their modification time to ReproducibleTime and
	// normalizes their permissions.
	Reproducible bool
}

// Result describes a created archive.
type Result struct {
	Path      string
	Entries   int
	SizeBytes uint64
	Digest    *digest.Digest
}

// Builder creates archives.
type Builder struct {
	logger Logger
}

// NewBuilder returns a Builder.
func NewBuilder(logger Logger) *Builder {
	return &Builder{logger: logger}
}

// Build creates the archive described by spec at dest.
// The archive is written to a temporary file first, that is renamed to dest
// when it was completed. Missing parent directories of dest are created.
func (b *Builder) Build(ctx context.Context, dest string, spec *Spec) (*Result, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	destDir := filepath.Dir(dest)
	if err := vrfs.Mkdir(destDir); err != nil {
		return nil, fmt.Errorf("creating directory %s failed: %w", destDir, err)
	}

	tmp, err := os.CreateTemp(destDir, "."+filepath.Base(dest)+".*")
	if err != nil {
		return nil, err
	}

	// nolint: errcheck
	defer os.Remove(tmp.Name())

	w := newWriter(zip.NewWriter(tmp), spec, b.logger)
	if err := w.writeAll(ctx); err != nil {
		_ = tmp.Close()
		return nil, err
	}

	if err := w.zw.Close(); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("finalizing archive failed: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing %s failed: %w", tmp.Name(), err)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return nil, err
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return nil, fmt.Errorf("renaming %s to %s failed: %w", tmp.Name(), dest, err)
	}

	size, err := vrfs.FileSize(dest)
	if err != nil {
		return nil, err
	}

	d, err := sha384.File(dest)
	if err != nil {
		return nil, fmt.Errorf("computing digest of %s failed: %w", dest, err)
	}

	b.logger.Debugf("archive: created %s with %d entries, %d bytes, %s\n", dest, w.entries, size, d)

	return &Result{
		Path:      dest,
		Entries:   w.entries,
		SizeBytes: uint64(size),
		Digest:    d,
	}, nil
}

func validateSpec(spec *Spec) error {
	switch spec.Duplicates {
	case "":
		spec.Duplicates = DuplicatesExclude
	case DuplicatesExclude, DuplicatesWarn, DuplicatesInclude, DuplicatesFail:
	default:
		return fmt.Errorf("unsupported duplicates strategy %q", spec.Duplicates)
	}

	for _, p := range spec.Exclude {
		if err := vrfs.ValidateGlob(p); err != nil {
			return fmt.Errorf("exclude pattern %q: %w", p, err)
		}
	}

	return nil
}

type writer struct {
	zw     *zip.Writer
	spec   *Spec
	logger Logger

	excludes []string
	written  map[string]struct{}
	dirs     map[string]struct{}
	entries  int

	// pending are the accepted entries of a reproducible archive, they
	// are written sorted after all inputs were read.
	pending []*entry
	inputs  []io.Closer
}

// entry is a file from an input directory or jar.
type entry struct {
	name     string
	source   string
	modified time.Time
	mode     fs.FileMode
	open     func() (io.ReadCloser, error)
}

func newWriter(zw *zip.Writer, spec *Spec, logger Logger) *writer {
	excludes := make([]string, 0, len(DefaultExcludes)+len(spec.Exclude))
	excludes = append(excludes, DefaultExcludes...)
	excludes = append(excludes, spec.Exclude...)

	return &writer{
		zw:       zw,
		spec:     spec,
		logger:   logger,
		excludes: excludes,
		written:  map[string]struct{}{},
		dirs:     map[string]struct{}{},
	}
}

func (w *writer) writeAll(ctx context.Context) error {
	defer w.closeInputs()

	if w.spec.Manifest != nil {
		if err := w.writeManifest(); err != nil {
			return err
		}
	}

	for _, dir := range w.spec.Dirs {
		if err := w.addDir(ctx, dir); err != nil {
			return fmt.Errorf("adding directory %s failed: %w", dir, err)
		}
	}

	for _, jar := range w.spec.Jars {
		if err := w.mergeJar(ctx, jar); err != nil {
			return fmt.Errorf("merging %s failed: %w", jar, err)
		}
	}

	if !w.spec.Reproducible {
		return nil
	}

	// stable, entries with the same name keep their input order
	slices.SortStableFunc(w.pending, func(a, b *entry) int {
		return strings.Compare(a.name, b.name)
	})

	for _, e := range w.pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := w.writeEntry(e); err != nil {
			return err
		}
	}

	return nil
}

func (w *writer) closeInputs() {
	for _, c := range w.inputs {
		_ = c.Close()
	}
	w.inputs = nil
}

func (w *writer) modTime(t time.Time) time.Time {
	if w.spec.Reproducible {
		return ReproducibleTime
	}

	return t
}

func (w *writer) writeManifest() error {
	now := time.Now()

	if err := w.addDirEntry("META-INF/", now); err != nil {
		return err
	}

	fw, err := w.createFile(manifest.Path, now, 0o644)
	if err != nil {
		return err
	}

	if _, err := w.spec.Manifest.WriteTo(fw); err != nil {
		return fmt.Errorf("writing manifest failed: %w", err)
	}

	w.written[manifest.Path] = struct{}{}

	return nil
}

func (w *writer) createFile(name string, modified time.Time, mode fs.FileMode) (io.Writer, error) {
	hdr := zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: w.modTime(modified),
	}

	if w.spec.Reproducible {
		mode = 0o644
	}
	hdr.SetMode(mode)

	fw, err := w.zw.CreateHeader(&hdr)
	if err != nil {
		return nil, fmt.Errorf("creating archive entry %s failed: %w", name, err)
	}

	w.entries++

	return fw, nil
}

// addDirEntry adds an entry for the directory name and all its parents that
// have not been added yet. name must end with a slash.
func (w *writer) addDirEntry(name string, modified time.Time) error {
	if _, exist := w.dirs[name]; exist {
		return nil
	}

	if parent := parentDir(name); parent != "" {
		if err := w.addDirEntry(parent, modified); err != nil {
			return err
		}
	}

	hdr := zip.FileHeader{
		Name:     name,
		Method:   zip.Store,
		Modified: w.modTime(modified),
	}
	hdr.SetMode(fs.ModeDir | 0o755)

	if _, err := w.zw.CreateHeader(&hdr); err != nil {
		return fmt.Errorf("creating directory entry %s failed: %w", name, err)
	}

	w.dirs[name] = struct{}{}
	w.entries++

	return nil
}

func parentDir(dirName string) string {
	idx := strings.LastIndexByte(strings.TrimSuffix(dirName, "/"), '/')
	if idx == -1 {
		return ""
	}

	return dirName[:idx+1]
}

// accept returns true if an entry called name should be written.
func (w *writer) accept(name, source string) (bool, error) {
	if strings.EqualFold(name, manifest.Path) {
		return false, nil
	}

	for _, pattern := range w.excludes {
		match, err := vrfs.MatchGlob(pattern, name)
		if err != nil {
			return false, err
		}

		if match {
			w.logger.Debugf("archive: %s from %s is excluded by %q\n", name, source, pattern)
			return false, nil
		}
	}

	if _, exist := w.written[name]; !exist {
		w.written[name] = struct{}{}
		return true, nil
	}

	switch w.spec.Duplicates {
	case DuplicatesInclude:
		return true, nil
	case DuplicatesWarn:
		w.logger.Warnf("archive: %s from %s already exists in the archive, skipping it\n", name, source)
		return false, nil
	case DuplicatesFail:
		return false, fmt.Errorf("%w: %s from %s", ErrDuplicateEntry, name, source)
	default:
		w.logger.Debugf("archive: %s from %s already exists in the archive, skipping it\n", name, source)
		return false, nil
	}
}

func (w *writer) addDir(ctx context.Context, root string) error {
	isDir, err := vrfs.IsDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			w.logger.Debugf("archive: directory %s does not exist, skipping it\n", root)
			return nil
		}

		return err
	}

	if !isDir {
		return fmt.Errorf("%s is not a directory", root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		fi, err := os.Stat(path)
		if err != nil {
			return err
		}

		if fi.IsDir() {
			if d.Type()&fs.ModeSymlink != 0 {
				w.logger.Debugf("archive: not following directory symlink %s\n", path)
			}

			return nil
		}

		if !fi.Mode().IsRegular() {
			w.logger.Debugf("archive: skipping %s, it is not a regular file\n", path)
			return nil
		}

		ok, err := w.accept(name, root)
		if err != nil || !ok {
			return err
		}

		return w.add(&entry{
			name:     name,
			source:   root,
			modified: fi.ModTime(),
			mode:     fi.Mode().Perm(),
			open:     func() (io.ReadCloser, error) { return os.Open(path) },
		})
	})
}

// add writes e or, for reproducible archives, queues it.
func (w *writer) add(e *entry) error {
	if w.spec.Reproducible {
		w.pending = append(w.pending, e)
		return nil
	}

	return w.writeEntry(e)
}

func (w *writer) writeEntry(e *entry) error {
	if parent := parentDir(e.name); parent != "" {
		if err := w.addDirEntry(parent, e.modified); err != nil {
			return err
		}
	}

	rc, err := e.open()
	if err != nil {
		return err
	}
	defer rc.Close()

	fw, err := w.createFile(e.name, e.modified, e.mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(fw, rc); err != nil {
		return fmt.Errorf("copying %s from %s to archive failed: %w", e.name, e.source, err)
	}

	return nil
}

// mergeJar adds the entries of the archive at path. The archive stays open
// until all entries were written.
func (w *writer) mergeJar(ctx context.Context, path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	w.inputs = append(w.inputs, r)

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			continue
		}

		ok, err := w.accept(f.Name, path)
		if err != nil {
			return err
		}

		if !ok {
			continue
		}

		mode := f.Mode().Perm()
		if mode == 0 {
			mode = 0o644
		}

		err = w.add(&entry{
			name:     f.Name,
			source:   path,
			modified: f.Modified,
			mode:     mode,
			open:     f.Open,
		})
		if err != nil {
			return fmt.Errorf("copying entry %s failed: %w", f.Name, err)
		}
	}

	return nil
}

// ReadManifest returns the manifest of the JAR archive at path.
// If the archive does not contain a manifest, an error wrapping
// os.ErrNotExist is returned.
func ReadManifest(path string) (*manifest.Manifest, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if !strings.EqualFold(f.Name, manifest.Path) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		return manifest.Parse(rc)
	}

	return nil, fmt.Errorf("%s: %s: %w", path, manifest.Path, os.ErrNotExist)
}

// EntryNames returns the names of all entries of the archive at path in
// the order they are stored.
func EntryNames(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	res := make([]string, 0, len(r.File))
	for _, f := range r.File {
		res = append(res, f.Name)
	}

	return res, nil
}
