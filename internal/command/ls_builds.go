package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vrsoftware/vrbuild/internal/command/flag"
	"github.com/vrsoftware/vrbuild/internal/command/term"
	"github.com/vrsoftware/vrbuild/internal/format"
	"github.com/vrsoftware/vrbuild/internal/format/csv"
	"github.com/vrsoftware/vrbuild/internal/format/jsonformat"
	"github.com/vrsoftware/vrbuild/internal/format/table"
	"github.com/vrsoftware/vrbuild/pkg/storage"
)

var lsBuildsLongHelp = fmt.Sprintf(`
List the builds of the project that were recorded by '%s'.

The newest build is listed first.
The database URL can be overwritten by setting the %s environment variable.

Exit Codes:
  %d - Success
  %d - Error
  %d - No matching build exists
`,
	term.Highlight(cmdJar),
	term.Highlight(envVarDatabaseURL),
	exitCodeSuccess,
	exitCodeError,
	exitCodeNotExist,
)

const lsBuildsExample = `
vrbuild ls builds --limit 5
vrbuild ls builds --version 4.1.2-7 --format json
`

type lsBuildsCmd struct {
	cobra.Command

	format    *flag.OneOf
	version   string
	limit     uint
	quiet     bool
	artifacts bool
}

func init() {
	lsCmd.AddCommand(&newLsBuildsCmd().Command)
}

func newLsBuildsCmd() *lsBuildsCmd {
	cmd := lsBuildsCmd{
		Command: cobra.Command{
			Use:               "builds",
			Short:             "list recorded builds",
			Long:              strings.TrimSpace(lsBuildsLongHelp),
			Example:           strings.TrimSpace(lsBuildsExample),
			Args:              cobra.NoArgs,
			ValidArgsFunction: cobra.NoFileCompletions,
		},
		format: flag.NewFormatFlag(),
	}

	cmd.Run = cmd.run

	cmd.Flags().VarP(cmd.format, "format", "f", cmd.format.Usage(term.Highlight))
	cmd.Flags().StringVar(&cmd.version, "version", "",
		"only list builds of VERSION")
	cmd.Flags().UintVarP(&cmd.limit, "limit", "l", storage.NoLimit,
		"limit the number of listed builds, 0 lists all")
	cmd.Flags().BoolVarP(&cmd.quiet, "quiet", "q", false,
		"only print build IDs")
	cmd.Flags().BoolVarP(&cmd.artifacts, "artifacts", "a", false,
		"also list the artifacts of every build")

	if err := cmd.format.RegisterFlagCompletion(&cmd.Command); err != nil {
		panic(err)
	}

	return &cmd
}

func (c *lsBuildsCmd) headers() []string {
	if c.quiet {
		return []string{"ID"}
	}

	headers := []string{"ID", "Version", "Revision", "Started At", "Duration (s)"}
	if c.artifacts {
		headers = append(headers, "Artifacts")
	}

	return headers
}

func (c *lsBuildsCmd) run(cmd *cobra.Command, _ []string) {
	ctx := cmd.Context()
	project := mustFindProject()

	url := databaseURL(project)
	if url == "" {
		fatalf("no database is configured, set [Database] url in %s or the $%s environment variable",
			project.CfgPath, envVarDatabaseURL)
		return
	}

	storageClt := mustNewCompatibleStorage(ctx, url)
	defer storageClt.Close()

	var formatter format.Formatter
	headers := c.headers()

	printedHeaders := headers
	if c.quiet {
		printedHeaders = nil
	}

	switch c.format.Val {
	case flag.FormatCSV:
		formatter = csv.New(printedHeaders, stdout)
	case flag.FormatJSON:
		formatter = jsonformat.New(headers, stdout)
	default:
		formatter = table.New(printedHeaders, stdout)
	}

	filter := storage.Filter{Project: project.Name(), Version: c.version}

	err := storageClt.Builds(ctx, &filter, c.limit, func(b *storage.Build) error {
		if c.quiet {
			return formatter.WriteRow(b.ID)
		}

		row := []any{
			b.ID,
			b.Version,
			c.revision(b),
			b.StartTimestamp.Format(time.DateTime),
			term.StrDurationSec(b.StartTimestamp, b.StopTimestamp),
		}

		if c.artifacts {
			artifacts, err := storageClt.Artifacts(ctx, b.ID)
			if err != nil && !errors.Is(err, storage.ErrNotExist) {
				return err
			}

			row = append(row, c.artifactsStr(artifacts))
		}

		return formatter.WriteRow(row...)
	})
	if errors.Is(err, storage.ErrNotExist) {
		stderr.Println("no matching builds exist")
		exitFunc(exitCodeNotExist)
		return
	}
	exitOnErr(err)

	exitOnErr(formatter.Flush())
}

func (c *lsBuildsCmd) revision(b *storage.Build) string {
	if c.format.Val != flag.FormatPlain {
		if b.VCSIsDirty {
			return b.VCSRevision + "-dirty"
		}

		return b.VCSRevision
	}

	return term.ColoredVCSRevision(b.VCSRevision, b.VCSIsDirty)
}

func (c *lsBuildsCmd) artifactsStr(artifacts []*storage.Artifact) string {
	names := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		names = append(names, fmt.Sprintf("%s (%d uploads)", a.Name, len(a.Uploads)))
	}

	return strings.Join(names, ", ")
}
