package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vrsoftware/vrbuild/internal/command/term"
	"github.com/vrsoftware/vrbuild/internal/log"
	"github.com/vrsoftware/vrbuild/internal/prettyprint"
	"github.com/vrsoftware/vrbuild/internal/upload/filecopy"
	"github.com/vrsoftware/vrbuild/internal/upload/s3"
	"github.com/vrsoftware/vrbuild/internal/vcs"
	"github.com/vrsoftware/vrbuild/pkg/cfg"
	"github.com/vrsoftware/vrbuild/pkg/storage"
	"github.com/vrsoftware/vrbuild/pkg/storage/sqlite"
	"github.com/vrsoftware/vrbuild/pkg/versionfile"
	"github.com/vrsoftware/vrbuild/pkg/vrbuild"
)

const envVarDatabaseURL = cfg.DatabaseURLEnvVar

func exitOnErr(err error, msg ...any) {
	if err == nil {
		return
	}

	if len(msg) == 0 {
		stderr.Printf("%s %s\n", term.RedHighlight("ERROR:"), err)
	} else {
		stderr.Printf("%s %s: %s\n", term.RedHighlight("ERROR:"), fmt.Sprint(msg...), err)
	}

	exitFunc(exitCodeError)
}

func exitOnErrf(err error, format string, v ...any) {
	if err == nil {
		return
	}

	exitOnErr(err, fmt.Sprintf(format, v...))
}

func fatal(msg ...any) {
	stderr.Printf("%s %s\n", term.RedHighlight("ERROR:"), fmt.Sprint(msg...))
	exitFunc(exitCodeError)
}

func fatalf(format string, v ...any) {
	fatal(fmt.Sprintf(format, v...))
}

func findProject() (*vrbuild.Project, error) {
	log.Debugln("searching for project config...")

	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	project, err := vrbuild.FindProject(wd)
	if err != nil {
		return nil, err
	}

	log.Debugf("project config found: %s", project.CfgPath)
	log.Debugf("project config:\n%s", prettyprint.AsString(project.Cfg))

	return project, nil
}

func mustFindProject() *vrbuild.Project {
	project, err := findProject()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			stderr.Printf("could not find a '%s' project config file in the current directory or its parents.\n"+
				"Run '%s' first.\n",
				term.Highlight(vrbuild.ProjectCfgFile), term.Highlight(cmdInit))
			exitFunc(exitCodeError)
			return nil
		}

		exitOnErr(err)
	}

	return project
}

// exitOnVersionFileErr terminates with a user visible message when err is
// a missing version file error.
func exitOnVersionFileErr(project *vrbuild.Project, err error) {
	if err == nil {
		return
	}

	if errors.Is(err, versionfile.ErrNotFound) {
		fatalf("version file not found: %s\nRun '%s' to create it.",
			project.VersionFilePath(), term.Highlight(cmdInit+" --version-file"))
		return
	}

	exitOnErr(err)
}

// databaseURL returns the URL of the build history database.
// The URL from the environment variable envVarDatabaseURL has precedence
// over the one from the project config. Relative SQLite database paths are
// interpreted as relative to the project directory.
// If no URL is configured, an empty string is returned.
func databaseURL(project *vrbuild.Project) string {
	url := os.Getenv(envVarDatabaseURL)
	if url != "" {
		log.Debugf("using database URL from $%s environment variable", envVarDatabaseURL)
	} else {
		url = project.Cfg.Database.URL
	}

	if url == "" || vrbuild.IsPostgresURL(url) {
		return url
	}

	path := sqlite.PathFromURL(url)
	if path == ":memory:" || filepath.IsAbs(path) {
		return url
	}

	return sqlite.URLScheme + project.Cfg.AbsPath(path)
}

func newStorageClient(ctx context.Context, url string) (storage.Storer, error) {
	return vrbuild.OpenStorage(ctx, url, log.StdLogger)
}

// mustNewCompatibleStorage opens the storage and verifies that its schema
// is compatible. If it does not exist, the program terminates with an
// error.
func mustNewCompatibleStorage(ctx context.Context, url string) storage.Storer {
	clt, err := newStorageClient(ctx, url)
	exitOnErr(err, "establishing database connection failed")

	err = clt.IsCompatible(ctx)
	if err != nil {
		clt.Close()

		if errors.Is(err, storage.ErrNotExist) {
			stderr.Printf("the database does not exist, run '%s' to create it\n", term.Highlight(cmdInitDb))
			exitFunc(exitCodeError)
			return nil
		}

		exitOnErr(err)
	}

	return clt
}

// mustStorageOpts returns the options to record builds in the database of
// the project and a function to close the database connection.
// If no database is configured, no options are returned.
func mustStorageOpts(ctx context.Context, project *vrbuild.Project) ([]vrbuild.Option, func()) {
	url := databaseURL(project)
	if url == "" {
		log.Debugf("no database is configured, builds are not recorded")
		return nil, func() {}
	}

	storer := mustNewCompatibleStorage(ctx, url)

	return []vrbuild.Option{vrbuild.WithStorage(storer)}, func() { storer.Close() }
}

func mustVCSOpt(project *vrbuild.Project) vrbuild.Option {
	state, err := vcs.GetState(project.Path, log.Debugf)
	exitOnErr(err)

	return vrbuild.WithVCSState(state)
}

func newFileCopier() *filecopy.Client {
	return filecopy.New(log.Debugf)
}

// mustNewUploader returns an Uploader. An S3 client is only created when a
// destination of the project refers to S3.
func mustNewUploader(ctx context.Context, project *vrbuild.Project) *vrbuild.Uploader {
	var s3Clt vrbuild.S3Uploader

	if slices.ContainsFunc(project.Cfg.Publish.Destinations, func(d string) bool {
		return strings.HasPrefix(d, "s3://")
	}) {
		clt, err := s3.NewClient(ctx, log.StdLogger)
		exitOnErr(err, "creating s3 client failed")

		s3Clt = clt
	}

	return vrbuild.NewUploader(s3Clt, newFileCopier())
}
