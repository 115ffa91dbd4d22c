package command

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vrsoftware/vrbuild/internal/command/term"
	"github.com/vrsoftware/vrbuild/internal/fs"
	"github.com/vrsoftware/vrbuild/pkg/cfg"
	"github.com/vrsoftware/vrbuild/pkg/versionfile"
	"github.com/vrsoftware/vrbuild/pkg/vrbuild"
)

const (
	cmdInit   = "vrbuild init"
	cmdInitDb = "vrbuild init db"
	cmdJar    = "vrbuild jar"
)

var initLongHelp = fmt.Sprintf(`
Create an example %s project configuration file in the current directory.
The name of the directory is used as project name.

With --version-file a version file with all version components set to 0 is
created too, if it does not exist.

To setup vrbuild for the first time, the following commands should be run:
1.) %s --version-file
2.) %s, if a database is configured
`,
	term.Highlight(vrbuild.ProjectCfgFile),
	term.Highlight(cmdInit),
	term.Highlight(cmdInitDb),
)

type initCmd struct {
	cobra.Command

	versionFile bool
	name        string
}

var initCommand = newInitCmd()

func init() {
	rootCmd.AddCommand(&initCommand.Command)
}

func newInitCmd() *initCmd {
	cmd := initCmd{
		Command: cobra.Command{
			Use:               "init",
			Short:             "create a project config file, a version file or the database",
			Long:              strings.TrimSpace(initLongHelp),
			Args:              cobra.NoArgs,
			ValidArgsFunction: cobra.NoFileCompletions,
		},
	}

	cmd.Run = cmd.run
	cmd.Flags().BoolVar(&cmd.versionFile, "version-file", false,
		"also create the version file")
	cmd.Flags().StringVarP(&cmd.name, "name", "n", "",
		"project name, defaults to the name of the current directory")

	return &cmd
}

func (c *initCmd) run(_ *cobra.Command, _ []string) {
	cwd, err := os.Getwd()
	exitOnErr(err)

	name := c.name
	if name == "" {
		name = filepath.Base(cwd)
	}

	cfgPath := filepath.Join(cwd, vrbuild.ProjectCfgFile)
	projectCfg := cfg.ExampleProject(name)

	err = projectCfg.Validate()
	exitOnErrf(err, "%q can not be used as project name", name)

	err = projectCfg.ToFile(cfgPath)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			stderr.Printf("%s already exist\n", cfgPath)
			exitFunc(exitCodeAlreadyExist)
			return
		}

		exitOnErr(err)
	}

	stdout.Printf("project configuration file was written to %s\n", term.Highlight(cfgPath))

	if c.versionFile {
		c.writeVersionFile(filepath.Join(cwd, projectCfg.VersionFile))
	}

	stdout.Printf("\nAdapt the configuration to your needs, then run '%s' to package the project.\n",
		term.Highlight(cmdJar))
}

func (c *initCmd) writeVersionFile(path string) {
	if fs.FileExists(path) {
		stdout.Printf("version file %s already exists, keeping it\n", path)
		return
	}

	err := fs.Mkdir(filepath.Dir(path))
	exitOnErr(err)

	err = versionfile.Write(path, &versionfile.Fields{})
	exitOnErrf(err, "creating version file %s failed", path)

	stdout.Printf("version file was written to %s\n", term.Highlight(path))
}
