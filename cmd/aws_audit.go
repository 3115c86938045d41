package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var awsAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "AWS audit modules",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func init() {
	awsCmd.AddCommand(awsAuditCmd)
}
