package command

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/vrsoftware/vrbuild/internal/command/term"
	"github.com/vrsoftware/vrbuild/pkg/versionfile"
)

var versionLongHelp = fmt.Sprintf(`
Print the current version of the project.

The version is read from the version file of the project and has the format
<major>.<minor>.<release>-<build>, followed by -alpha<N> if the alpha
component is greater than 0 or -beta<N> if the beta component is greater
than 0.

With --satisfies the <major>.<minor>.<release> part of the version is checked
against a semantic version constraint, e.g. ">= 4.1, < 5".

Exit Codes:
  %d - Success
  %d - Error
  %d - Version does not satisfy the constraint
`,
	exitCodeSuccess,
	exitCodeError,
	exitCodeVersionNotSatisfying,
)

const versionExample = `
vrbuild version
vrbuild version --short
vrbuild version --satisfies '^4.1'
`

type versionCmd struct {
	cobra.Command

	short     bool
	satisfies string
}

func init() {
	rootCmd.AddCommand(&newVersionCmd().Command)
}

func newVersionCmd() *versionCmd {
	cmd := versionCmd{
		Command: cobra.Command{
			Use:               "version",
			Short:             "print the project version",
			Long:              strings.TrimSpace(versionLongHelp),
			Example:           strings.TrimSpace(versionExample),
			Args:              cobra.NoArgs,
			ValidArgsFunction: cobra.NoFileCompletions,
		},
	}

	cmd.Run = cmd.run
	cmd.Flags().BoolVarP(&cmd.short, "short", "s", false,
		"only print the version string")
	cmd.Flags().StringVar(&cmd.satisfies, "satisfies", "",
		"exit with code 5 if the version does not satisfy the semantic version CONSTRAINT")

	return &cmd
}

func (c *versionCmd) run(_ *cobra.Command, _ []string) {
	var constraint *semver.Constraints

	if c.satisfies != "" {
		var err error

		constraint, err = semver.NewConstraint(c.satisfies)
		exitOnErrf(err, "parsing constraint %q failed", c.satisfies)
	}

	project := mustFindProject()

	fields, err := project.Fields()
	exitOnVersionFileErr(project, err)

	if c.short {
		stdout.Println(fields.Version())
	} else {
		stdout.Printf("%s v%s\n", project.Name(), term.Highlight(fields.Version()))
	}

	if constraint == nil {
		return
	}

	ok, reasons := constraint.Validate(coreSemver(fields))
	if !ok {
		for _, r := range reasons {
			stderr.Println(r)
		}

		exitFunc(exitCodeVersionNotSatisfying)
	}
}

// coreSemver returns <major>.<minor>.<release> of the fields as semantic
// version. Build, alpha and beta are ignored, they are not comparable with
// semver pre-release identifiers.
func coreSemver(f *versionfile.Fields) *semver.Version {
	return semver.New(uint64(max(f.Major, 0)), uint64(max(f.Minor, 0)), uint64(max(f.Release, 0)), "", "")
}
