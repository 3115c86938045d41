package provisionaws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/praetorian-inc/aperture/internal/helpers"
	"github.com/praetorian-inc/aperture/internal/message"
	op "github.com/praetorian-inc/aperture/internal/output_providers"
	"github.com/praetorian-inc/aperture/modules"
	o "github.com/praetorian-inc/aperture/modules/options"
	"github.com/praetorian-inc/aperture/pkg/gateway"
)

type AwsValidateProfile struct {
	modules.BaseModule
}

var AwsValidateProfileOptions = []*o.Option{
	o.WithRequired(o.ProfilesFileOpt, true),
	o.WithRequired(o.EndpointProfileOpt, true),
}

var AwsValidateProfileMetadata = modules.Metadata{
	Id:          "validate-profile",
	Name:        "API Gateway Validate Profile",
	Description: "Check an endpoint profile against the live account before using it.",
	Platform:    modules.AWS,
	Authors:     []string{"Praetorian"},
	OpsecLevel:  modules.Moderate,
	References:  []string{},
}

var AwsValidateProfileOutputProviders = []func(options []*o.Option) modules.OutputProvider{
	op.NewConsoleProvider,
	op.NewJsonFileProvider,
}

func NewAwsValidateProfile(options []*o.Option, run modules.Run) (modules.Module, error) {
	return &AwsValidateProfile{
		BaseModule: modules.BaseModule{
			Metadata:        AwsValidateProfileMetadata,
			Options:         options,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(AwsValidateProfileOutputProviders, options),
		},
	}, nil
}

type profileValidationResult struct {
	Profile string                    `json:"profile"`
	Passed  bool                      `json:"passed"`
	Checks  []gateway.ValidationCheck `json:"checks"`
}

func (m *AwsValidateProfile) Invoke() error {
	defer close(m.Run.Data)

	profileName := m.GetOptionByName(o.EndpointProfileOpt.Name).Value
	set, err := gateway.LoadProfiles(m.GetOptionByName(o.ProfilesFileOpt.Name).Value)
	if err != nil {
		return err
	}
	profile, err := set.Get(profileName)
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

	validator := gateway.NewProfileValidator(apigateway.NewFromConfig(cfg), cognitoidentityprovider.NewFromConfig(cfg))
	checks := validator.Validate(context.Background(), profile)

	result := profileValidationResult{Profile: profileName, Passed: true, Checks: checks}
	for _, check := range checks {
		if check.Passed {
			message.Success("%s: %s", check.Name, check.Detail)
		} else {
			result.Passed = false
			message.Error("%s: %s", check.Name, check.Detail)
		}
	}

	filepath := helpers.CreateFilePath(string(m.Platform), "apigateway", accountId, "validate-profile", region, profileName)
	m.Run.Data <- m.MakeResultCustomFilename(result, filepath)

	if !result.Passed {
		message.Warning("Profile %s failed validation", profileName)
	}

	return nil
}
