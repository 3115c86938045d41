package cmd

import (
	"github.com/praetorian-inc/aperture/internal/message"
	"github.com/praetorian-inc/aperture/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Aperture",
	Long:  `All software has versions. This is Aperture's`,
	Run: func(cmd *cobra.Command, args []string) {
		message.Info("%s", version.FullVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
