package command

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vrsoftware/vrbuild/internal/command/term"
	"github.com/vrsoftware/vrbuild/internal/log"
)

const releaseLongHelp = `
Increment the build number of the project version and set the date of the
version file to the current date.

All other entries of the version file are preserved.
The new version is printed.`

type releaseCmd struct {
	cobra.Command
}

func init() {
	rootCmd.AddCommand(&newReleaseCmd().Command)
}

func newReleaseCmd() *releaseCmd {
	cmd := releaseCmd{
		Command: cobra.Command{
			Use:               "release",
			Short:             "increment the build number and stamp the version file",
			Long:              strings.TrimSpace(releaseLongHelp),
			Args:              cobra.NoArgs,
			ValidArgsFunction: cobra.NoFileCompletions,
		},
	}

	cmd.Run = cmd.run

	return &cmd
}

func (c *releaseCmd) run(_ *cobra.Command, _ []string) {
	project := mustFindProject()

	fields, err := project.Release(time.Now())
	exitOnVersionFileErr(project, err)

	log.Debugf("updated %s, build: %d, date: %s", project.VersionFilePath(), fields.Build, fields.AppDate)

	stdout.Printf("%s v%s\n", project.Name(), term.Highlight(fields.Version()))
}
