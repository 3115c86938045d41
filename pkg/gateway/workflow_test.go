package gateway

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEndpointAPI composes the per-concern fakes into the full client the
// workflow drives. GetIntegration answers from whatever PutIntegration
// recorded, so verification sees exactly what was configured.
type fakeEndpointAPI struct {
	fakeResourceAPI
	fakeMethodAPI
	fakeIntegrationAPI

	corsIntegrationErr error
	getIntegrationErr  error
}

func newFakeEndpointAPI(paths ...string) *fakeEndpointAPI {
	f := &fakeEndpointAPI{}
	f.fakeResourceAPI.addResource("/")
	for _, p := range paths {
		f.fakeResourceAPI.addResource(p)
	}
	return f
}

func (f *fakeEndpointAPI) PutIntegration(ctx context.Context, params *apigateway.PutIntegrationInput, optFns ...func(*apigateway.Options)) (*apigateway.PutIntegrationOutput, error) {
	if f.corsIntegrationErr != nil && aws.ToString(params.HttpMethod) == "OPTIONS" {
		return nil, f.corsIntegrationErr
	}
	return f.fakeIntegrationAPI.PutIntegration(ctx, params, optFns...)
}

func (f *fakeEndpointAPI) GetIntegration(_ context.Context, params *apigateway.GetIntegrationInput, _ ...func(*apigateway.Options)) (*apigateway.GetIntegrationOutput, error) {
	if f.getIntegrationErr != nil {
		return nil, f.getIntegrationErr
	}
	method := aws.ToString(params.HttpMethod)
	for _, put := range f.integrations {
		if aws.ToString(put.HttpMethod) == method {
			return &apigateway.GetIntegrationOutput{Type: put.Type, Uri: put.Uri}, nil
		}
	}
	return nil, &types.UnauthorizedException{Message: aws.String("integration not configured")}
}

func endpointRequest() EndpointRequest {
	return EndpointRequest{
		Profile: Profile{
			ApiID:              "api1",
			ConnectionVariable: "vpcLinkId",
			BackendHost:        "https://${stageVariables.urlBackend}",
			AuthType:           "NO_AUTH",
			CorsType:           "DEFAULT",
		},
		BackendPath: "/billing/invoices/{invoice_id}",
		Methods:     "GET,POST",
	}
}

func stepStatus(t *testing.T, report *WorkflowReport, name string) StepStatus {
	t.Helper()
	for _, step := range report.Steps {
		if step.Name == name {
			return step.Status
		}
	}
	t.Fatalf("no %q step in %v", name, report.Steps)
	return ""
}

func TestWorkflowRun(t *testing.T) {
	api := newFakeEndpointAPI()
	report, err := newWorkflow(api).Run(context.Background(), endpointRequest())
	require.NoError(t, err)

	assert.Equal(t, "/invoices/{invoice_id}", report.GatewayPath)
	assert.Equal(t, 2, report.Resources.Created)
	assert.Equal(t, []string{"GET", "POST"}, report.MethodsCreated)
	assert.Empty(t, report.MethodsSkipped)
	assert.Empty(t, report.Warnings)

	for _, name := range []string{"parse-path", "resolve-resources", "create-methods", "configure-integrations", "configure-cors", "verify"} {
		assert.Equal(t, StepOk, stepStatus(t, report, name), name)
	}

	// Two proxy integrations plus the CORS mock.
	require.Len(t, api.integrations, 3)
	byMethod := make(map[string]*apigateway.PutIntegrationInput)
	for _, put := range api.integrations {
		byMethod[aws.ToString(put.HttpMethod)] = put
	}
	assert.Equal(t, types.IntegrationTypeHttpProxy, byMethod["GET"].Type)
	assert.Equal(t, types.IntegrationTypeMock, byMethod["OPTIONS"].Type)
	assert.Equal(t, "https://${stageVariables.urlBackend}/billing/invoices/{invoice_id}", aws.ToString(byMethod["GET"].Uri))
	assert.Equal(t, int32(DefaultTimeoutMillis), aws.ToInt32(byMethod["GET"].TimeoutInMillis))

	// The method declares the gateway-side path parameter.
	require.Len(t, api.methods, 3) // GET, POST, OPTIONS
	assert.Equal(t, map[string]bool{"method.request.path.invoice_id": true}, api.methods[0].RequestParameters)

	// OPTIONS is verified along with the created methods.
	require.Len(t, report.Verification, 3)
	for _, result := range report.Verification {
		assert.True(t, result.Verified, result.Method)
	}
}

func TestWorkflowCorsFailureIsWarning(t *testing.T) {
	api := newFakeEndpointAPI()
	api.corsIntegrationErr = &types.BadRequestException{Message: aws.String("mock rejected")}

	report, err := newWorkflow(api).Run(context.Background(), endpointRequest())
	require.NoError(t, err, "CORS failure must not fail the run")

	assert.Equal(t, StepFailed, stepStatus(t, report, "configure-cors"))
	assert.NotEmpty(t, report.Warnings)

	// OPTIONS never materialized, so it is not verified.
	require.Len(t, report.Verification, 2)
	assert.Equal(t, StepOk, stepStatus(t, report, "verify"))
}

func TestWorkflowCorsDisabled(t *testing.T) {
	req := endpointRequest()
	req.Profile.CorsType = "NONE"

	api := newFakeEndpointAPI()
	report, err := newWorkflow(api).Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, StepSkipped, stepStatus(t, report, "configure-cors"))
	assert.Len(t, report.Verification, 2)
	assert.Len(t, api.integrations, 2)
}

func TestWorkflowInvalidInput(t *testing.T) {
	t.Run("bad method list", func(t *testing.T) {
		req := endpointRequest()
		req.Methods = "FETCH"

		report, err := newWorkflow(newFakeEndpointAPI()).Run(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, StepFailed, stepStatus(t, report, "parse-path"))
	})

	t.Run("profile without backend host", func(t *testing.T) {
		req := endpointRequest()
		req.Profile.BackendHost = ""

		report, err := newWorkflow(newFakeEndpointAPI()).Run(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, StepFailed, stepStatus(t, report, "parse-path"))
	})
}

func TestWorkflowExistingMethodsReused(t *testing.T) {
	api := newFakeEndpointAPI()
	api.fakeMethodAPI.putMethodErr = &types.ConflictException{Message: aws.String("exists")}

	report, err := newWorkflow(api).Run(context.Background(), endpointRequest())
	require.NoError(t, err)
	assert.Empty(t, report.MethodsCreated)
	assert.Equal(t, []string{"GET", "POST"}, report.MethodsSkipped)
	assert.NotEmpty(t, report.Warnings)
}

func TestWorkflowVerificationFailure(t *testing.T) {
	api := newFakeEndpointAPI()
	api.getIntegrationErr = &types.UnauthorizedException{Message: aws.String("denied")}

	report, err := newWorkflow(api).Run(context.Background(), endpointRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be verified")
	assert.Equal(t, StepFailed, stepStatus(t, report, "verify"))
}
