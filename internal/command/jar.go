package command

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vrsoftware/vrbuild/internal/command/flag"
	"github.com/vrsoftware/vrbuild/internal/command/term"
	"github.com/vrsoftware/vrbuild/internal/log"
	"github.com/vrsoftware/vrbuild/pkg/archive"
	"github.com/vrsoftware/vrbuild/pkg/vrbuild"
)

var jarLongHelp = fmt.Sprintf(`
Package the current version of the project into JAR archives.

The main archive contains the class and resource directories of the project
and the content of the dependency archives. The version components, the
build date and, if the project is part of a git repository, the commit are
stamped into its manifest.
If source directories are configured, a sources archive is created.
The main archive is copied to the distribution directory afterwards.

If a database is configured, the build is recorded in it. The database URL
can be overwritten by setting the %s environment variable.`,
	term.Highlight(envVarDatabaseURL),
)

type jarCmd struct {
	cobra.Command

	duplicates *flag.OneOf
	quiet      bool
}

func init() {
	rootCmd.AddCommand(&newJarCmd().Command)
}

func newJarCmd() *jarCmd {
	strategies := make([]string, 0, len(archive.DuplicatesStrategies))
	for _, s := range archive.DuplicatesStrategies {
		strategies = append(strategies, string(s))
	}

	cmd := jarCmd{
		Command: cobra.Command{
			Use:               "jar",
			Short:             "package the project into JAR archives",
			Long:              strings.TrimSpace(jarLongHelp),
			Args:              cobra.NoArgs,
			ValidArgsFunction: cobra.NoFileCompletions,
		},
		duplicates: flag.NewOneOfFlag("duplicates", "", "overwrite the configured handling of duplicate entries", strategies...),
	}

	cmd.Run = cmd.run
	cmd.Flags().Var(cmd.duplicates, "duplicates", cmd.duplicates.Usage(term.Highlight))
	cmd.Flags().BoolVarP(&cmd.quiet, "quiet", "q", false,
		"only print the path of the distributed archive")

	if err := cmd.duplicates.RegisterFlagCompletion(&cmd.Command); err != nil {
		panic(err)
	}

	return &cmd
}

func (c *jarCmd) run(cmd *cobra.Command, _ []string) {
	ctx := cmd.Context()
	project := mustFindProject()

	if c.duplicates.IsSet() {
		log.Debugf("duplicates strategy overwritten with %q", c.duplicates.Val)
		project.Cfg.Jar.Duplicates = c.duplicates.Val
	}

	opts, closeFn := mustStorageOpts(ctx, project)
	defer closeFn()
	opts = append(opts, mustVCSOpt(project))

	packager := vrbuild.NewPackager(project, log.StdLogger, newFileCopier(), opts...)

	res, err := packager.Package(ctx)
	exitOnVersionFileErr(project, err)

	if c.quiet {
		stdout.Println(res.DistPath)
		return
	}

	stdout.Printf("%s %s v%s\n", term.GreenHighlight("packaged"), project.Name(), term.Highlight(res.Version))
	stdout.PrintSep()

	for _, a := range []*vrbuild.Artifact{res.Jar, res.Sources} {
		if a == nil {
			continue
		}

		stdout.ArtifactPrintf(filepath.Base(a.Path), "created %s (%d entries, %s)\n",
			a.Path, a.Result.Entries, term.FormatSize(a.Result.SizeBytes))
		stdout.ArtifactPrintf(filepath.Base(a.Path), "digest: %s\n", a.Result.Digest)
	}

	stdout.ArtifactPrintf(filepath.Base(res.Jar.Path), "copied to %s\n", res.DistPath)

	if rev := res.VCSState.String(); rev != "" {
		stdout.Printf("revision: %s\n", term.ColoredVCSRevision(res.VCSState.CommitID, res.VCSState.IsDirty))
	}

	if res.BuildID != "" {
		stdout.Printf("recorded build: %s\n", term.Highlight(res.BuildID))
	}

	stdout.Printf("duration: %ss\n", term.StrDurationSec(res.StartTime, res.StopTime))
}
