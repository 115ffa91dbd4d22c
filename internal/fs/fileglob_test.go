package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrsoftware/vrbuild/internal/testutils/fstest"
)

func TestFileGlob(t *testing.T) {
	testcases := []struct {
		files           []string
		pattern         string
		expectedMatches []string
	}{
		{
			files:           []string{"lib/slf4j-api.jar", "lib/logback-classic.jar", "lib/README"},
			pattern:         "lib/*.jar",
			expectedMatches: []string{"lib/logback-classic.jar", "lib/slf4j-api.jar"},
		},
		{
			files:           []string{"lib/a.jar", "lib/sub/b.jar", "lib/sub/deeper/c.jar"},
			pattern:         "lib/**/*.jar",
			expectedMatches: []string{"lib/a.jar", "lib/sub/b.jar", "lib/sub/deeper/c.jar"},
		},
		{
			files:           []string{"lib/a.jar", "lib/dir.jar/x"},
			pattern:         "lib/*.jar",
			expectedMatches: []string{"lib/a.jar"},
		},
		{
			files:   []string{"lib/a.zip"},
			pattern: "lib/*.jar",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.pattern, func(t *testing.T) {
			tempdir := t.TempDir()

			for _, f := range tc.files {
				fstest.WriteToFile(t, nil, filepath.Join(tempdir, f))
			}

			res, err := FileGlob(filepath.Join(tempdir, tc.pattern))
			require.NoError(t, err)

			var relPaths []string
			for _, p := range res {
				rel, err := filepath.Rel(tempdir, p)
				require.NoError(t, err)
				relPaths = append(relPaths, filepath.ToSlash(rel))
			}

			assert.ElementsMatch(t, tc.expectedMatches, relPaths)
		})
	}
}

func TestFileGlobNonExistingDir(t *testing.T) {
	_, err := FileGlob(filepath.Join(t.TempDir(), "missing", "*.jar"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGlobMatch(t *testing.T) {
	tcs := []struct {
		pattern     string
		path        string
		expectMatch bool
	}{
		{pattern: "META-INF/*.RSA", path: "META-INF/CERT.RSA", expectMatch: true},
		{pattern: "META-INF/*.RSA", path: "META-INF/sub/CERT.RSA", expectMatch: false},
		{pattern: "META-INF/LICENSE", path: "META-INF/LICENSE.txt", expectMatch: false},
		{pattern: "**/*.class", path: "br/com/vrsoftware/vrlog/LogManager.class", expectMatch: true},
		{pattern: "?", path: "a", expectMatch: true},
	}

	for _, tc := range tcs {
		t.Run(fmt.Sprintf("pattern:%s,path:%s", tc.pattern, tc.path), func(t *testing.T) {
			match, err := MatchGlob(tc.pattern, tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.expectMatch, match)
		})
	}
}

func TestValidateGlob(t *testing.T) {
	assert.NoError(t, ValidateGlob("META-INF/*.SF"))
	assert.Error(t, ValidateGlob("META-INF/[.SF"))
}
