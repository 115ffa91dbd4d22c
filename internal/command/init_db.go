package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vrsoftware/vrbuild/internal/command/term"
	"github.com/vrsoftware/vrbuild/pkg/storage"
)

const initDbExample = `
vrbuild init db
vrbuild init db postgres://postgres@localhost:5432/vrbuild?sslmode=disable
vrbuild init db sqlite:///var/lib/vrbuild/builds.db
`

var initDbLongHelp = fmt.Sprintf(`
Create the tables of the build history database.

The database URL is read from the project configuration file.
Alternatively the URL can be passed as argument or by setting the '%s'
environment variable.
PostgreSQL databases are referenced by postgres:// URLs, SQLite database
files by sqlite:// URLs or plain paths.`,
	term.Highlight(envVarDatabaseURL))

type initDbCmd struct {
	cobra.Command
}

func init() {
	initCommand.AddCommand(&newInitDbCmd().Command)
}

func newInitDbCmd() *initDbCmd {
	cmd := initDbCmd{
		Command: cobra.Command{
			Use:               "db [DATABASE-URL]",
			Short:             "create the build history database",
			Example:           strings.TrimSpace(initDbExample),
			Long:              strings.TrimSpace(initDbLongHelp),
			Args:              cobra.MaximumNArgs(1),
			ValidArgsFunction: cobra.NoFileCompletions,
		},
	}

	cmd.Run = cmd.run

	return &cmd
}

func (c *initDbCmd) run(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	var dbURL string

	if len(args) == 1 {
		dbURL = args[0]
	} else {
		project := mustFindProject()

		dbURL = databaseURL(project)
		if dbURL == "" {
			fatalf("no database is configured, set [Database] url in %s, the $%s environment variable or pass the URL as argument",
				project.CfgPath, envVarDatabaseURL)
			return
		}
	}

	storageClt, err := newStorageClient(ctx, dbURL)
	exitOnErr(err, "establishing connection failed")
	defer storageClt.Close()

	err = storageClt.Init(ctx)
	if errors.Is(err, storage.ErrExists) {
		stderr.Println("database already exists")
		exitFunc(exitCodeAlreadyExist)
		return
	}
	exitOnErr(err)

	stdout.Println(term.GreenHighlight("database tables created successfully"))
}
