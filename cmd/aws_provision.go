package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var awsProvisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "AWS provisioning modules",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func init() {
	awsCmd.AddCommand(awsProvisionCmd)
}
