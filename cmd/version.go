package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quillchat/desktop/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "prints quill version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Version())
	},
}
