package gateway

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"gopkg.in/yaml.v3"
)

// Profile is a named bundle of endpoint-creation choices. Profiles are
// operator-maintained input; this tool never writes the file. BackendHost
// includes the scheme and may reference a stage variable.
type Profile struct {
	ApiID              string            `yaml:"api_id"`
	ConnectionVariable string            `yaml:"connection_variable"`
	AuthorizerID       string            `yaml:"authorizer_id"`
	CognitoPool        string            `yaml:"cognito_pool"`
	BackendHost        string            `yaml:"backend_host"`
	AuthType           string            `yaml:"auth_type"`
	CorsType           string            `yaml:"cors_type"`
	Stage              string            `yaml:"stage"`
	TimeoutMillis      int32             `yaml:"timeout_ms"`
	CustomHeaders      map[string]string `yaml:"custom_headers"`
}

type ProfileSet map[string]Profile

type profilesFile struct {
	Profiles ProfileSet `yaml:"profiles"`
}

func LoadProfiles(path string) (ProfileSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles file: %w", err)
	}

	var file profilesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing profiles file %s: %w", path, err)
	}
	if len(file.Profiles) == 0 {
		return nil, fmt.Errorf("profiles file %s defines no profiles", path)
	}

	return file.Profiles, nil
}

func (s ProfileSet) Get(name string) (Profile, error) {
	profile, ok := s[name]
	if !ok {
		names := make([]string, 0, len(s))
		for n := range s {
			names = append(names, n)
		}
		return Profile{}, fmt.Errorf("profile %q not found, available: %s", name, strings.Join(names, ", "))
	}
	return profile, nil
}

// Normalize fills defaults for optional fields.
func (p *Profile) Normalize() {
	if p.AuthType == "" {
		p.AuthType = string(AuthNone)
	}
	if p.CorsType == "" {
		p.CorsType = string(CorsDefault)
	}
	if p.TimeoutMillis == 0 {
		p.TimeoutMillis = DefaultTimeoutMillis
	}
}

// ValidateStatic checks everything that does not need an AWS call.
func (p Profile) ValidateStatic() error {
	if p.ApiID == "" {
		return fmt.Errorf("profile has no api_id")
	}
	if p.BackendHost == "" {
		return fmt.Errorf("profile has no backend_host")
	}
	if strings.HasSuffix(p.BackendHost, "/") {
		return fmt.Errorf("backend_host %q must not end with a slash", p.BackendHost)
	}
	if _, err := ParseAuthType(p.AuthType); err != nil {
		return err
	}
	if _, err := ParseCorsType(p.CorsType); err != nil {
		return err
	}
	if p.TimeoutMillis != 0 {
		if err := ValidateTimeout(p.TimeoutMillis); err != nil {
			return err
		}
	}

	auth, _ := ParseAuthType(p.AuthType)
	if auth.IsCognito() && p.AuthorizerID == "" {
		return fmt.Errorf("auth_type %s requires authorizer_id", p.AuthType)
	}

	return nil
}

type profileAPI interface {
	GetRestApi(ctx context.Context, params *apigateway.GetRestApiInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApiOutput, error)
	GetStages(ctx context.Context, params *apigateway.GetStagesInput, optFns ...func(*apigateway.Options)) (*apigateway.GetStagesOutput, error)
	GetAuthorizers(ctx context.Context, params *apigateway.GetAuthorizersInput, optFns ...func(*apigateway.Options)) (*apigateway.GetAuthorizersOutput, error)
}

type ValidationCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// ProfileValidator re-checks a profile against the live account.
type ProfileValidator struct {
	api     profileAPI
	cognito cognitoidentityprovider.ListUserPoolsAPIClient
}

func NewProfileValidator(api *apigateway.Client, cognito *cognitoidentityprovider.Client) *ProfileValidator {
	return &ProfileValidator{api: api, cognito: cognito}
}

func newProfileValidator(api profileAPI, cognito cognitoidentityprovider.ListUserPoolsAPIClient) *ProfileValidator {
	return &ProfileValidator{api: api, cognito: cognito}
}

// Validate runs every live check and reports them individually. A check
// failure does not stop the remaining checks.
func (v *ProfileValidator) Validate(ctx context.Context, p Profile) []ValidationCheck {
	var checks []ValidationCheck

	if err := p.ValidateStatic(); err != nil {
		checks = append(checks, ValidationCheck{Name: "static", Detail: err.Error()})
		return checks
	}
	checks = append(checks, ValidationCheck{Name: "static", Passed: true})

	api, err := v.api.GetRestApi(ctx, &apigateway.GetRestApiInput{RestApiId: aws.String(p.ApiID)})
	if err != nil {
		checks = append(checks, ValidationCheck{Name: "api-exists", Detail: fmt.Sprintf("API %s: %v", p.ApiID, err)})
		return checks
	}
	checks = append(checks, ValidationCheck{Name: "api-exists", Passed: true, Detail: aws.ToString(api.Name)})

	checks = append(checks, v.checkConnectionVariable(ctx, p))

	auth, _ := ParseAuthType(p.AuthType)
	if auth.IsCognito() {
		checks = append(checks, v.checkAuthorizer(ctx, p))
	}

	if p.CognitoPool != "" {
		checks = append(checks, v.checkCognitoPool(ctx, p))
	}

	return checks
}

func (v *ProfileValidator) checkConnectionVariable(ctx context.Context, p Profile) ValidationCheck {
	check := ValidationCheck{Name: "connection-variable"}
	if p.ConnectionVariable == "" {
		check.Detail = "profile has no connection_variable"
		return check
	}

	stages, err := v.api.GetStages(ctx, &apigateway.GetStagesInput{RestApiId: aws.String(p.ApiID)})
	if err != nil {
		check.Detail = err.Error()
		return check
	}

	var defined []string
	for _, stage := range stages.Item {
		if p.Stage != "" && aws.ToString(stage.StageName) != p.Stage {
			continue
		}
		if _, ok := stage.Variables[p.ConnectionVariable]; ok {
			defined = append(defined, aws.ToString(stage.StageName))
		}
	}

	if len(defined) == 0 {
		if p.Stage != "" {
			check.Detail = fmt.Sprintf("stage %s does not define %s", p.Stage, p.ConnectionVariable)
		} else {
			check.Detail = fmt.Sprintf("no stage defines %s", p.ConnectionVariable)
		}
		return check
	}

	check.Passed = true
	check.Detail = "defined in stage " + strings.Join(defined, ", ")
	return check
}

func (v *ProfileValidator) checkAuthorizer(ctx context.Context, p Profile) ValidationCheck {
	check := ValidationCheck{Name: "authorizer"}

	authorizers, err := v.api.GetAuthorizers(ctx, &apigateway.GetAuthorizersInput{
		RestApiId: aws.String(p.ApiID),
		Limit:     aws.Int32(500),
	})
	if err != nil {
		check.Detail = err.Error()
		return check
	}

	for _, authorizer := range authorizers.Items {
		if aws.ToString(authorizer.Id) == p.AuthorizerID {
			check.Passed = true
			check.Detail = aws.ToString(authorizer.Name)
			return check
		}
	}

	check.Detail = fmt.Sprintf("authorizer %s not found in API %s", p.AuthorizerID, p.ApiID)
	return check
}

func (v *ProfileValidator) checkCognitoPool(ctx context.Context, p Profile) ValidationCheck {
	check := ValidationCheck{Name: "cognito-pool"}

	paginator := cognitoidentityprovider.NewListUserPoolsPaginator(v.cognito, &cognitoidentityprovider.ListUserPoolsInput{
		MaxResults: aws.Int32(60),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			check.Detail = err.Error()
			return check
		}
		for _, pool := range page.UserPools {
			if aws.ToString(pool.Name) == p.CognitoPool {
				check.Passed = true
				check.Detail = aws.ToString(pool.Id)
				return check
			}
		}
	}

	check.Detail = fmt.Sprintf("user pool %q not found", p.CognitoPool)
	return check
}
