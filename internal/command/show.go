package command

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "show information about the project",
	Long:  "Show information about the project in the current directory or about JAR archives.",
	Args:  cobra.NoArgs,
}

func init() {
	rootCmd.AddCommand(showCmd)
}
