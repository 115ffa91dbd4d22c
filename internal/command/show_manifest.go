package command

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vrsoftware/vrbuild/internal/log"
	"github.com/vrsoftware/vrbuild/pkg/archive"
	"github.com/vrsoftware/vrbuild/pkg/manifest"
	"github.com/vrsoftware/vrbuild/pkg/vrbuild"
)

const showManifestLongHelp = `
Print the manifest of a JAR archive.

Without an argument the manifest that '` + cmdJar + `' stamps into the archives
of the current version is printed.
When the path of a JAR archive is passed, the manifest is read from it.`

const showManifestExample = `
vrbuild show manifest
vrbuild show manifest dist/VRLog.jar
`

type showManifestCmd struct {
	cobra.Command
}

func init() {
	showCmd.AddCommand(&newShowManifestCmd().Command)
}

func newShowManifestCmd() *showManifestCmd {
	cmd := showManifestCmd{
		Command: cobra.Command{
			Use:     "manifest [JAR-FILE]",
			Short:   "print a JAR manifest",
			Long:    strings.TrimSpace(showManifestLongHelp),
			Example: strings.TrimSpace(showManifestExample),
			Args:    cobra.MaximumNArgs(1),
		},
	}

	cmd.Run = cmd.run

	return &cmd
}

func (c *showManifestCmd) run(cmd *cobra.Command, args []string) {
	var m *manifest.Manifest
	var err error

	if len(args) == 1 {
		m, err = archive.ReadManifest(args[0])
		exitOnErrf(err, "reading manifest from %s failed", args[0])
	} else {
		project := mustFindProject()
		packager := vrbuild.NewPackager(project, log.StdLogger, newFileCopier(), mustVCSOpt(project))

		m, err = packager.Manifest(cmd.Context())
		exitOnVersionFileErr(project, err)
	}

	for _, attr := range m.Attributes() {
		stdout.Printf("%s: %s\n", attr.Name, attr.Value)
	}
}
