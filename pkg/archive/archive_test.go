package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsoftware/vrbuild/internal/digest/sha384"
	"github.com/vrsoftware/vrbuild/internal/log"
	"github.com/vrsoftware/vrbuild/internal/testutils/fstest"
	"github.com/vrsoftware/vrbuild/pkg/manifest"
	"github.com/vrsoftware/vrbuild/pkg/versionfile"
)

func createJar(t *testing.T, path string, entries map[string]string, order []string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)

		_, err = w.Write([]byte(entries[name]))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func readEntry(t *testing.T, archivePath, name string) []string {
	t.Helper()

	r, err := zip.OpenReader(archivePath)
	require.NoError(t, err)
	defer r.Close()

	var res []string
	for _, f := range r.File {
		if f.Name != name {
			continue
		}

		rc, err := f.Open()
		require.NoError(t, err)

		buf, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()

		res = append(res, string(buf))
	}

	return res
}

type testProject struct {
	classesDir   string
	resourcesDir string
	libJar       string
}

func newTestProject(t *testing.T) *testProject {
	t.Helper()
	log.RedirectToTestingLog(t)

	dir := t.TempDir()
	p := testProject{
		classesDir:   filepath.Join(dir, "build", "classes"),
		resourcesDir: filepath.Join(dir, "build", "resources"),
		libJar:       filepath.Join(dir, "lib", "slf4j-api.jar"),
	}

	fstest.WriteToFile(t, []byte("class-logmanager"), filepath.Join(p.classesDir, "br/com/vrsoftware/vrlog/LogManager.class"))
	fstest.WriteToFile(t, []byte("class-texto"), filepath.Join(p.classesDir, "br/com/vrsoftware/vrlog/util/Texto.class"))
	fstest.WriteToFile(t, []byte("version.major=1\n"), filepath.Join(p.resourcesDir, "vrlog.properties"))
	fstest.WriteToFile(t, []byte("from-resources"), filepath.Join(p.resourcesDir, "shared.txt"))

	createJar(t, p.libJar,
		map[string]string{
			"META-INF/MANIFEST.MF":   "Manifest-Version: 1.0\r\nCreated-By: other\r\n\r\n",
			"META-INF/SIGNER.SF":     "signature",
			"META-INF/SIGNER.RSA":    "signature",
			"META-INF/LICENSE.txt":   "license",
			"org/slf4j/Logger.class": "class-logger",
			"shared.txt":             "from-jar",
			"org/slf4j/impl/A.class": "class-a",
		},
		[]string{
			"META-INF/MANIFEST.MF",
			"META-INF/SIGNER.SF",
			"META-INF/SIGNER.RSA",
			"META-INF/LICENSE.txt",
			"org/slf4j/Logger.class",
			"shared.txt",
			"org/slf4j/impl/A.class",
		},
	)

	return &p
}

func (p *testProject) spec(duplicates DuplicatesStrategy) *Spec {
	return &Spec{
		Manifest:   manifest.New("VRLog", &versionfile.Fields{Major: 1, Minor: 2, Release: 3, Build: 4}),
		Dirs:       []string{p.classesDir, p.resourcesDir},
		Jars:       []string{p.libJar},
		Duplicates: duplicates,
	}
}

func TestBuild(t *testing.T) {
	p := newTestProject(t)
	dest := filepath.Join(t.TempDir(), "libs", "VRLog_v1.2.3-4.jar")

	res, err := NewBuilder(log.StdLogger).Build(context.Background(), dest, p.spec(""))
	require.NoError(t, err)

	names, err := EntryNames(dest)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"META-INF/",
		"META-INF/MANIFEST.MF",
		"br/",
		"br/com/",
		"br/com/vrsoftware/",
		"br/com/vrsoftware/vrlog/",
		"br/com/vrsoftware/vrlog/LogManager.class",
		"br/com/vrsoftware/vrlog/util/",
		"br/com/vrsoftware/vrlog/util/Texto.class",
		"shared.txt",
		"vrlog.properties",
		"org/",
		"org/slf4j/",
		"org/slf4j/Logger.class",
		"org/slf4j/impl/",
		"org/slf4j/impl/A.class",
	}, names)

	assert.Equal(t, dest, res.Path)
	assert.Equal(t, len(names), res.Entries)
	assert.Equal(t, []string{"from-resources"}, readEntry(t, dest, "shared.txt"))

	fi, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, uint64(fi.Size()), res.SizeBytes)

	d, err := sha384.File(dest)
	require.NoError(t, err)
	assert.Equal(t, d.String(), res.Digest.String())

	m, err := ReadManifest(dest)
	require.NoError(t, err)

	v, exist := m.Get(manifest.AttrImplementationVersion)
	require.True(t, exist)
	assert.Equal(t, "1.2.3-4", v)
	_, exist = m.Get("Created-By")
	assert.False(t, exist, "manifest of merged jar must not be used")
}

func TestBuildDuplicatesInclude(t *testing.T) {
	p := newTestProject(t)
	dest := filepath.Join(t.TempDir(), "out.jar")

	_, err := NewBuilder(log.StdLogger).Build(context.Background(), dest, p.spec(DuplicatesInclude))
	require.NoError(t, err)

	assert.Equal(t, []string{"from-resources", "from-jar"}, readEntry(t, dest, "shared.txt"))
}

func TestBuildDuplicatesWarn(t *testing.T) {
	p := newTestProject(t)
	dest := filepath.Join(t.TempDir(), "out.jar")

	_, err := NewBuilder(log.StdLogger).Build(context.Background(), dest, p.spec(DuplicatesWarn))
	require.NoError(t, err)

	assert.Equal(t, []string{"from-resources"}, readEntry(t, dest, "shared.txt"))
}

func TestBuildDuplicatesFail(t *testing.T) {
	p := newTestProject(t)
	dest := filepath.Join(t.TempDir(), "out.jar")

	_, err := NewBuilder(log.StdLogger).Build(context.Background(), dest, p.spec(DuplicatesFail))
	require.ErrorIs(t, err, ErrDuplicateEntry)

	_, err = os.Stat(dest)
	assert.ErrorIs(t, err, os.ErrNotExist, "archive must not be created on errors")
}

func TestBuildInvalidDuplicatesStrategy(t *testing.T) {
	p := newTestProject(t)

	_, err := NewBuilder(log.StdLogger).Build(context.Background(), filepath.Join(t.TempDir(), "out.jar"), p.spec("merge"))
	require.Error(t, err)
}

func TestBuildExcludes(t *testing.T) {
	p := newTestProject(t)
	dest := filepath.Join(t.TempDir(), "out.jar")

	spec := p.spec("")
	spec.Exclude = []string{"**/util/**", "org/slf4j/impl/*"}

	_, err := NewBuilder(log.StdLogger).Build(context.Background(), dest, spec)
	require.NoError(t, err)

	names, err := EntryNames(dest)
	require.NoError(t, err)

	assert.NotContains(t, names, "br/com/vrsoftware/vrlog/util/Texto.class")
	assert.NotContains(t, names, "org/slf4j/impl/A.class")
	assert.Contains(t, names, "org/slf4j/Logger.class")
}

func TestBuildSkipsMissingDirs(t *testing.T) {
	log.RedirectToTestingLog(t)
	dest := filepath.Join(t.TempDir(), "out.jar")

	res, err := NewBuilder(log.StdLogger).Build(context.Background(), dest, &Spec{
		Dirs: []string{filepath.Join(t.TempDir(), "missing")},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Entries)

	_, err = ReadManifest(dest)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildReproducible(t *testing.T) {
	p := newTestProject(t)
	outDir := t.TempDir()

	spec := p.spec("")
	spec.Reproducible = true

	res1, err := NewBuilder(log.StdLogger).Build(context.Background(), filepath.Join(outDir, "1.jar"), spec)
	require.NoError(t, err)

	now := ReproducibleTime.AddDate(30, 0, 0)
	require.NoError(t, os.Chtimes(filepath.Join(p.resourcesDir, "shared.txt"), now, now))

	res2, err := NewBuilder(log.StdLogger).Build(context.Background(), filepath.Join(outDir, "2.jar"), spec)
	require.NoError(t, err)

	assert.Equal(t, res1.Digest.String(), res2.Digest.String())
}

func TestBuildReproducibleEntriesAreSorted(t *testing.T) {
	p := newTestProject(t)
	dest := filepath.Join(t.TempDir(), "out.jar")

	spec := p.spec(DuplicatesInclude)
	spec.Reproducible = true

	_, err := NewBuilder(log.StdLogger).Build(context.Background(), dest, spec)
	require.NoError(t, err)

	names, err := EntryNames(dest)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(names), 2)
	assert.Equal(t, []string{"META-INF/", "META-INF/MANIFEST.MF"}, names[:2])
	assert.True(t, slices.IsSorted(names[2:]), "entries are not sorted: %v", names)
	assert.Contains(t, names, "org/slf4j/impl/A.class")

	assert.Equal(t, []string{"from-resources", "from-jar"}, readEntry(t, dest, "shared.txt"))
}

func TestBuildCanceled(t *testing.T) {
	p := newTestProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(log.StdLogger).Build(ctx, filepath.Join(t.TempDir(), "out.jar"), p.spec(""))
	require.ErrorIs(t, err, context.Canceled)
}
