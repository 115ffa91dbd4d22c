// Package command implements the vrbuild command line interface.
package command

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vrsoftware/vrbuild/internal/command/term"
	"github.com/vrsoftware/vrbuild/internal/exec"
	"github.com/vrsoftware/vrbuild/internal/log"
	"github.com/vrsoftware/vrbuild/internal/version"
	"github.com/vrsoftware/vrbuild/pkg/versionfile"
)

var rootCmd = &cobra.Command{
	Use:   "vrbuild",
	Short: "vrbuild versions, packages and publishes the VRLog Java library.",
	Long: `vrbuild versions, packages and publishes the VRLog Java library.

The project is described by a .vrbuild.toml file, it is searched in the
current directory and its parents.`,
	PersistentPreRun: initSb,
	SilenceUsage:     true,
}

var (
	verboseFlag bool
	noColorFlag bool
)

var (
	stdout = term.NewStream(os.Stdout)
	stderr = term.NewStream(os.Stderr)
)

var exitFunc = func(code int) { os.Exit(code) }

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable color output")
}

func initSb(_ *cobra.Command, _ []string) {
	if verboseFlag {
		log.StdLogger.EnableDebug(verboseFlag)
		exec.DefaultLogFn = log.StdLogger.Debugf
		versionfile.DefaultDebugfFn = log.StdLogger.Debugf
	}

	if noColorFlag {
		color.NoColor = true
	}
}

// Execute parses commandline flags and execute their actions
func Execute() {
	if err := version.LoadPackageVars(); err != nil {
		stderr.Printf("setting version failed: %s\n", err)
	}
	rootCmd.Version = version.Cur.String()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	exitOnErr(err)
}
