package command

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vrsoftware/vrbuild/internal/command/term"
	"github.com/vrsoftware/vrbuild/internal/log"
	"github.com/vrsoftware/vrbuild/pkg/vrbuild"
)

var publishLongHelp = fmt.Sprintf(`
Publish the archives of the current version to Maven repositories.

The main archive, the sources archive and a generated POM file are uploaded
to every destination that is configured in the [Publish] section, in the
Maven repository layout:
  <group>/<artifact_id>/<version>/<artifact_id>-<version>.jar

The archives must have been created by '%s' before.

Supported destinations are:
  s3://<bucket>/[<prefix>]  - AWS S3, the credentials are read from the
                              default AWS configuration sources
  file://<path> or <path>   - directory in the local filesystem

If a database is configured, the uploads are attached to the latest recorded
build of the version.`,
	term.Highlight(cmdJar),
)

type publishCmd struct {
	cobra.Command
}

func init() {
	rootCmd.AddCommand(&newPublishCmd().Command)
}

func newPublishCmd() *publishCmd {
	cmd := publishCmd{
		Command: cobra.Command{
			Use:               "publish",
			Short:             "upload the archives and the POM to Maven repositories",
			Long:              strings.TrimSpace(publishLongHelp),
			Args:              cobra.NoArgs,
			ValidArgsFunction: cobra.NoFileCompletions,
		},
	}

	cmd.Run = cmd.run

	return &cmd
}

func (c *publishCmd) run(cmd *cobra.Command, _ []string) {
	ctx := cmd.Context()
	project := mustFindProject()

	opts, closeFn := mustStorageOpts(ctx, project)
	defer closeFn()
	opts = append(opts, mustVCSOpt(project))

	publisher := vrbuild.NewPublisher(project, log.StdLogger, mustNewUploader(ctx, project), opts...)

	res, err := publisher.Publish(ctx)
	if errors.Is(err, vrbuild.ErrNoDestinations) {
		fatalf("%s, add destinations to the [Publish] section in %s", err, project.CfgPath)
		return
	}
	exitOnVersionFileErr(project, err)

	for _, u := range res.Uploads {
		stdout.ArtifactPrintf(filepath.Base(u.Src), "uploaded to %s (%ss)\n",
			u.URL, term.StrDurationSec(u.Start, u.Stop))
	}

	stdout.PrintSep()
	stdout.Printf("published %s v%s, %d files uploaded\n",
		project.Name(), term.Highlight(res.Version), len(res.Uploads))

	if res.BuildID != "" {
		stdout.Printf("uploads recorded for build: %s\n", term.Highlight(res.BuildID))
	}
}
