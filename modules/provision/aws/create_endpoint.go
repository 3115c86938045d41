package provisionaws

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/praetorian-inc/aperture/internal/helpers"
	op "github.com/praetorian-inc/aperture/internal/output_providers"
	"github.com/praetorian-inc/aperture/modules"
	o "github.com/praetorian-inc/aperture/modules/options"
	"github.com/praetorian-inc/aperture/pkg/gateway"
)

type AwsCreateEndpoint struct {
	modules.BaseModule
}

var AwsCreateEndpointOptions = []*o.Option{
	&o.BackendPathOpt,
	&o.MethodsOpt,
	&o.ProfilesFileOpt,
	&o.EndpointProfileOpt,
	&o.ApiIdOpt,
	&o.BackendHostOpt,
	&o.ConnectionVariableOpt,
	&o.AuthTypeOpt,
	&o.CorsTypeOpt,
	&o.AuthorizerIdOpt,
	&o.CognitoPoolOpt,
	&o.TimeoutOpt,
}

var AwsCreateEndpointMetadata = modules.Metadata{
	Id:          "create-endpoint",
	Name:        "API Gateway Create Endpoint",
	Description: "Create an API Gateway endpoint with methods, a VPC Link integration and CORS.",
	Platform:    modules.AWS,
	Authors:     []string{"Praetorian"},
	OpsecLevel:  modules.None,
	References: []string{
		"https://docs.aws.amazon.com/apigateway/latest/developerguide/getting-started-with-private-integration.html",
	},
}

var AwsCreateEndpointOutputProviders = []func(options []*o.Option) modules.OutputProvider{
	op.NewJsonFileProvider,
}

func NewAwsCreateEndpoint(options []*o.Option, run modules.Run) (modules.Module, error) {
	return &AwsCreateEndpoint{
		BaseModule: modules.BaseModule{
			Metadata:        AwsCreateEndpointMetadata,
			Options:         options,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(AwsCreateEndpointOutputProviders, options),
		},
	}, nil
}

func (m *AwsCreateEndpoint) Invoke() error {
	defer close(m.Run.Data)

	profile, err := m.resolveProfile()
	if err != nil {
		return err
	}

	region := m.GetOptionByName(o.AwsRegionOpt.Name).Value
	cfg, err := helpers.GetAWSCfg(region, m.GetOptionByName(o.AwsProfileOpt.Name).Value)
	if err != nil {
		return err
	}
	accountId, err := helpers.GetAccountId(cfg)
	if err != nil {
		return err
	}

	workflow := gateway.NewWorkflow(apigateway.NewFromConfig(cfg))
	report, runErr := workflow.Run(context.Background(), gateway.EndpointRequest{
		Profile:     profile,
		BackendPath: m.GetOptionByName(o.BackendPathOpt.Name).Value,
		Methods:     m.GetOptionByName(o.MethodsOpt.Name).Value,
	})

	filepath := helpers.CreateFilePath(string(m.Platform), "apigateway", accountId, "create-endpoint", region, profile.ApiID)
	m.Run.Data <- m.MakeResultCustomFilename(report, filepath)

	return runErr
}

// resolveProfile merges the named profile from the profiles file, when one is
// selected, with any per-flag overrides.
func (m *AwsCreateEndpoint) resolveProfile() (gateway.Profile, error) {
	var profile gateway.Profile

	profileName := m.GetOptionByName(o.EndpointProfileOpt.Name).Value
	if profileName != "" {
		profilesFile := m.GetOptionByName(o.ProfilesFileOpt.Name).Value
		if profilesFile == "" {
			return profile, errors.New("endpoint-profile requires profiles-file")
		}
		set, err := gateway.LoadProfiles(profilesFile)
		if err != nil {
			return profile, err
		}
		profile, err = set.Get(profileName)
		if err != nil {
			return profile, err
		}
	}

	if v := m.GetOptionByName(o.ApiIdOpt.Name).Value; v != "" {
		profile.ApiID = v
	}
	if v := m.GetOptionByName(o.BackendHostOpt.Name).Value; v != "" {
		profile.BackendHost = v
	}
	if v := m.GetOptionByName(o.ConnectionVariableOpt.Name).Value; v != "" {
		profile.ConnectionVariable = v
	}
	if v := m.GetOptionByName(o.AuthTypeOpt.Name).Value; v != "" {
		profile.AuthType = v
	}
	if v := m.GetOptionByName(o.CorsTypeOpt.Name).Value; v != "" {
		profile.CorsType = v
	}
	if v := m.GetOptionByName(o.AuthorizerIdOpt.Name).Value; v != "" {
		profile.AuthorizerID = v
	}
	if v := m.GetOptionByName(o.CognitoPoolOpt.Name).Value; v != "" {
		profile.CognitoPool = v
	}
	if v := m.GetOptionByName(o.TimeoutOpt.Name).Value; v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return profile, fmt.Errorf("timeout-ms: %w", err)
		}
		profile.TimeoutMillis = int32(ms)
	}

	return profile, nil
}
