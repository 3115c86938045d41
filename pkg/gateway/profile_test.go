package gateway

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cogtypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profilesYaml = `
profiles:
  billing:
    api_id: abc123
    connection_variable: vpcLinkId
    authorizer_id: auth1
    cognito_pool: customers
    backend_host: https://${stageVariables.urlBackend}
    auth_type: COGNITO_CUSTOMER
    cors_type: DEFAULT
    stage: prod
    timeout_ms: 10000
    custom_headers:
      X-Api-Version: "2024-01-01"
  minimal:
    api_id: def456
    backend_host: https://internal.example.com
    connection_variable: vpcLinkId
`

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfiles(t *testing.T) {
	profiles, err := LoadProfiles(writeProfiles(t, profilesYaml))
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	billing, err := profiles.Get("billing")
	require.NoError(t, err)
	assert.Equal(t, "abc123", billing.ApiID)
	assert.Equal(t, "vpcLinkId", billing.ConnectionVariable)
	assert.Equal(t, "https://${stageVariables.urlBackend}", billing.BackendHost)
	assert.Equal(t, int32(10000), billing.TimeoutMillis)
	assert.Equal(t, map[string]string{"X-Api-Version": "2024-01-01"}, billing.CustomHeaders)
}

func TestLoadProfilesErrors(t *testing.T) {
	_, err := LoadProfiles(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadProfiles(writeProfiles(t, "profiles: [not, a, map]"))
	assert.Error(t, err)

	_, err = LoadProfiles(writeProfiles(t, "other_key: {}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profiles")
}

func TestProfileSetGet(t *testing.T) {
	profiles, err := LoadProfiles(writeProfiles(t, profilesYaml))
	require.NoError(t, err)

	_, err = profiles.Get("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope" not found`)
	assert.Contains(t, err.Error(), "billing")
}

func TestProfileNormalize(t *testing.T) {
	p := Profile{ApiID: "abc123", BackendHost: "https://internal.example.com"}
	p.Normalize()
	assert.Equal(t, string(AuthNone), p.AuthType)
	assert.Equal(t, string(CorsDefault), p.CorsType)
	assert.Equal(t, int32(DefaultTimeoutMillis), p.TimeoutMillis)

	p = Profile{AuthType: "API_KEY", CorsType: "NONE", TimeoutMillis: 500}
	p.Normalize()
	assert.Equal(t, "API_KEY", p.AuthType)
	assert.Equal(t, "NONE", p.CorsType)
	assert.Equal(t, int32(500), p.TimeoutMillis)
}

func TestProfileValidateStatic(t *testing.T) {
	valid := Profile{
		ApiID:       "abc123",
		BackendHost: "https://internal.example.com",
	}

	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr string
	}{
		{name: "valid", mutate: func(p *Profile) {}},
		{name: "no api id", mutate: func(p *Profile) { p.ApiID = "" }, wantErr: "no api_id"},
		{name: "no backend host", mutate: func(p *Profile) { p.BackendHost = "" }, wantErr: "no backend_host"},
		{name: "trailing slash", mutate: func(p *Profile) { p.BackendHost += "/" }, wantErr: "must not end with a slash"},
		{name: "bad auth type", mutate: func(p *Profile) { p.AuthType = "MAGIC" }, wantErr: "unknown auth type"},
		{name: "bad cors type", mutate: func(p *Profile) { p.CorsType = "MAGIC" }, wantErr: "unknown cors type"},
		{name: "timeout out of range", mutate: func(p *Profile) { p.TimeoutMillis = 40000 }, wantErr: "out of range"},
		{name: "cognito needs authorizer", mutate: func(p *Profile) { p.AuthType = "COGNITO_ADMIN" }, wantErr: "requires authorizer_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.ValidateStatic()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

type fakeProfileAPI struct {
	getRestApiErr error
	apiName       string
	getStagesErr  error
	stages        []types.Stage
	authorizers   []types.Authorizer
}

func (f *fakeProfileAPI) GetRestApi(_ context.Context, params *apigateway.GetRestApiInput, _ ...func(*apigateway.Options)) (*apigateway.GetRestApiOutput, error) {
	if f.getRestApiErr != nil {
		return nil, f.getRestApiErr
	}
	return &apigateway.GetRestApiOutput{Id: params.RestApiId, Name: aws.String(f.apiName)}, nil
}

func (f *fakeProfileAPI) GetStages(_ context.Context, _ *apigateway.GetStagesInput, _ ...func(*apigateway.Options)) (*apigateway.GetStagesOutput, error) {
	if f.getStagesErr != nil {
		return nil, f.getStagesErr
	}
	return &apigateway.GetStagesOutput{Item: f.stages}, nil
}

func (f *fakeProfileAPI) GetAuthorizers(_ context.Context, _ *apigateway.GetAuthorizersInput, _ ...func(*apigateway.Options)) (*apigateway.GetAuthorizersOutput, error) {
	return &apigateway.GetAuthorizersOutput{Items: f.authorizers}, nil
}

type fakePoolLister struct {
	pages [][]cogtypes.UserPoolDescriptionType
	calls int
}

func (f *fakePoolLister) ListUserPools(_ context.Context, params *cognitoidentityprovider.ListUserPoolsInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ListUserPoolsOutput, error) {
	f.calls++
	idx := 0
	if params.NextToken != nil {
		fmt.Sscanf(*params.NextToken, "%d", &idx)
	}
	out := &cognitoidentityprovider.ListUserPoolsOutput{UserPools: f.pages[idx]}
	if idx+1 < len(f.pages) {
		out.NextToken = aws.String(fmt.Sprintf("%d", idx+1))
	}
	return out, nil
}

func checkByName(t *testing.T, checks []ValidationCheck, name string) ValidationCheck {
	t.Helper()
	for _, check := range checks {
		if check.Name == name {
			return check
		}
	}
	t.Fatalf("no %q check in %v", name, checks)
	return ValidationCheck{}
}

func validatorProfile() Profile {
	return Profile{
		ApiID:              "abc123",
		ConnectionVariable: "vpcLinkId",
		AuthorizerID:       "auth1",
		CognitoPool:        "customers",
		BackendHost:        "https://${stageVariables.urlBackend}",
		AuthType:           "COGNITO_CUSTOMER",
		Stage:              "prod",
	}
}

func TestProfileValidatorAllChecksPass(t *testing.T) {
	api := &fakeProfileAPI{
		apiName: "billing-api",
		stages: []types.Stage{{
			StageName: aws.String("prod"),
			Variables: map[string]string{"vpcLinkId": "abc"},
		}},
		authorizers: []types.Authorizer{{Id: aws.String("auth1"), Name: aws.String("cognito-auth")}},
	}
	pools := &fakePoolLister{pages: [][]cogtypes.UserPoolDescriptionType{
		{{Id: aws.String("us-east-1_AaBbCc"), Name: aws.String("admins")}},
		{{Id: aws.String("us-east-1_DdEeFf"), Name: aws.String("customers")}},
	}}

	checks := newProfileValidator(api, pools).Validate(context.Background(), validatorProfile())
	require.Len(t, checks, 5)
	for _, check := range checks {
		assert.True(t, check.Passed, "check %s: %s", check.Name, check.Detail)
	}
	assert.Equal(t, "billing-api", checkByName(t, checks, "api-exists").Detail)
	assert.Equal(t, "us-east-1_DdEeFf", checkByName(t, checks, "cognito-pool").Detail)
	assert.Equal(t, 2, pools.calls, "pool pages are walked until a match")
}

func TestProfileValidatorStaticFailureStops(t *testing.T) {
	profile := validatorProfile()
	profile.ApiID = ""

	checks := newProfileValidator(&fakeProfileAPI{}, &fakePoolLister{}).Validate(context.Background(), profile)
	require.Len(t, checks, 1)
	assert.False(t, checks[0].Passed)
	assert.Contains(t, checks[0].Detail, "no api_id")
}

func TestProfileValidatorMissingApi(t *testing.T) {
	api := &fakeProfileAPI{getRestApiErr: &types.NotFoundException{Message: aws.String("gone")}}

	checks := newProfileValidator(api, &fakePoolLister{}).Validate(context.Background(), validatorProfile())
	require.Len(t, checks, 2)
	assert.True(t, checkByName(t, checks, "static").Passed)
	assert.False(t, checkByName(t, checks, "api-exists").Passed)
}

func TestProfileValidatorConnectionVariable(t *testing.T) {
	t.Run("not defined anywhere", func(t *testing.T) {
		api := &fakeProfileAPI{
			apiName:     "billing-api",
			stages:      []types.Stage{{StageName: aws.String("prod"), Variables: map[string]string{}}},
			authorizers: []types.Authorizer{{Id: aws.String("auth1"), Name: aws.String("a")}},
		}
		pools := &fakePoolLister{pages: [][]cogtypes.UserPoolDescriptionType{
			{{Id: aws.String("p1"), Name: aws.String("customers")}},
		}}

		checks := newProfileValidator(api, pools).Validate(context.Background(), validatorProfile())
		check := checkByName(t, checks, "connection-variable")
		assert.False(t, check.Passed)
		assert.Contains(t, check.Detail, "vpcLinkId")
	})

	t.Run("defined in another stage only", func(t *testing.T) {
		api := &fakeProfileAPI{
			apiName: "billing-api",
			stages: []types.Stage{{
				StageName: aws.String("dev"),
				Variables: map[string]string{"vpcLinkId": "abc"},
			}},
			authorizers: []types.Authorizer{{Id: aws.String("auth1"), Name: aws.String("a")}},
		}
		pools := &fakePoolLister{pages: [][]cogtypes.UserPoolDescriptionType{
			{{Id: aws.String("p1"), Name: aws.String("customers")}},
		}}

		// The profile pins stage prod, so a match in dev does not count.
		checks := newProfileValidator(api, pools).Validate(context.Background(), validatorProfile())
		check := checkByName(t, checks, "connection-variable")
		assert.False(t, check.Passed)
		assert.Contains(t, check.Detail, "prod")
	})
}

func TestProfileValidatorMissingAuthorizer(t *testing.T) {
	api := &fakeProfileAPI{
		apiName: "billing-api",
		stages: []types.Stage{{
			StageName: aws.String("prod"),
			Variables: map[string]string{"vpcLinkId": "abc"},
		}},
		authorizers: []types.Authorizer{{Id: aws.String("other"), Name: aws.String("b")}},
	}
	pools := &fakePoolLister{pages: [][]cogtypes.UserPoolDescriptionType{
		{{Id: aws.String("p1"), Name: aws.String("customers")}},
	}}

	checks := newProfileValidator(api, pools).Validate(context.Background(), validatorProfile())
	check := checkByName(t, checks, "authorizer")
	assert.False(t, check.Passed)
	assert.Contains(t, check.Detail, "auth1")
}

func TestProfileValidatorMissingPool(t *testing.T) {
	api := &fakeProfileAPI{
		apiName: "billing-api",
		stages: []types.Stage{{
			StageName: aws.String("prod"),
			Variables: map[string]string{"vpcLinkId": "abc"},
		}},
		authorizers: []types.Authorizer{{Id: aws.String("auth1"), Name: aws.String("a")}},
	}
	pools := &fakePoolLister{pages: [][]cogtypes.UserPoolDescriptionType{
		{{Id: aws.String("p1"), Name: aws.String("admins")}},
	}}

	checks := newProfileValidator(api, pools).Validate(context.Background(), validatorProfile())
	check := checkByName(t, checks, "cognito-pool")
	assert.False(t, check.Passed)
	assert.Contains(t, check.Detail, "customers")
}
