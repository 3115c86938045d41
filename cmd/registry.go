package cmd

import (
	"os"
	"strings"

	"github.com/praetorian-inc/aperture/internal/logs"
	"github.com/praetorian-inc/aperture/modules"
	auditaws "github.com/praetorian-inc/aperture/modules/audit/aws"
	o "github.com/praetorian-inc/aperture/modules/options"
	provisionaws "github.com/praetorian-inc/aperture/modules/provision/aws"
	"github.com/spf13/cobra"
)

// ModuleInfo tracks a registered module for list-modules.
type ModuleInfo struct {
	CommandPath string
	Description string
}

var registeredModules = []ModuleInfo{}

func init() {
	// AWS Provision
	RegisterModule(awsProvisionCmd, provisionaws.AwsCreateEndpointMetadata, provisionaws.AwsCreateEndpointOptions, awsCommonOptions, provisionaws.NewAwsCreateEndpoint)
	RegisterModule(awsProvisionCmd, provisionaws.AwsValidateProfileMetadata, provisionaws.AwsValidateProfileOptions, awsCommonOptions, provisionaws.NewAwsValidateProfile)

	// AWS Audit
	RegisterModule(awsAuditCmd, auditaws.AwsApiGatewayAuditMetadata, auditaws.AwsApiGatewayAuditOptions, awsCommonOptions, auditaws.NewAwsApiGatewayAudit)
}

func RegisterModule(cmd *cobra.Command, metadata modules.Metadata, required []*o.Option, common []*o.Option, factoryFn func(options []*o.Option, run modules.Run) (modules.Module, error)) {
	c := &cobra.Command{
		Use:   metadata.Id,
		Short: metadata.Description,
		Run: func(cmd *cobra.Command, args []string) {
			options := getOpts(cmd, required, common)
			run := modules.Run{Data: make(chan modules.Result)}
			m, err := factoryFn(options, run)
			if err != nil {
				logs.ConsoleLogger().Error(err.Error())
				os.Exit(1)
			}
			runModule(m, metadata, options, run)
		},
	}

	options2Flag(required, common, c)
	cmd.AddCommand(c)

	registeredModules = append(registeredModules, ModuleInfo{
		CommandPath: modulePath(c),
		Description: metadata.Description,
	})
}

// modulePath renders a command's place in the tree as "aws/provision/create-endpoint".
func modulePath(c *cobra.Command) string {
	parts := strings.Fields(c.CommandPath())
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, "/")
}
