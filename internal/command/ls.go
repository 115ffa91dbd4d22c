package command

import (
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "list recorded builds",
	Long:  "List records of the build history database.\nRun '" + cmdInitDb + "' to create the database.",
	Args:  cobra.NoArgs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
