package gateway

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigateway/types"
)

type integrationAPI interface {
	PutIntegration(ctx context.Context, params *apigateway.PutIntegrationInput, optFns ...func(*apigateway.Options)) (*apigateway.PutIntegrationOutput, error)
	PutIntegrationResponse(ctx context.Context, params *apigateway.PutIntegrationResponseInput, optFns ...func(*apigateway.Options)) (*apigateway.PutIntegrationResponseOutput, error)
}

// IntegrationSpec describes the VPC-Link proxy integration for one endpoint.
// BackendHost carries its own scheme and may reference a stage variable,
// e.g. https://${stageVariables.urlBackend}.
type IntegrationSpec struct {
	BackendHost        string
	Path               Path
	ConnectionVariable string
	TimeoutMillis      int32
	Auth               AuthConfig
	CustomHeaders      map[string]string
}

func (s IntegrationSpec) validate() error {
	if s.BackendHost == "" {
		return fmt.Errorf("backend host is required")
	}
	if s.ConnectionVariable == "" {
		return fmt.Errorf("connection variable is required")
	}
	return ValidateTimeout(s.TimeoutMillis)
}

// ConnectionID renders the stage-variable reference carrying the VPC Link ID.
func (s IntegrationSpec) ConnectionID() string {
	return "${stageVariables." + s.ConnectionVariable + "}"
}

// URI renders the backend URI. The backend receives its own full path,
// including the service prefix the gateway strips.
func (s IntegrationSpec) URI() string {
	return s.BackendHost + s.Path.String()
}

// BuildIntegrationInput assembles the PutIntegration request: HTTP_PROXY over
// VPC_LINK, path parameters forwarded 1:1, auth headers mapped per catalog
// with custom headers layered on top.
func BuildIntegrationInput(apiID, resourceID, method string, spec IntegrationSpec) (*apigateway.PutIntegrationInput, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	headers := AuthHeaders(spec.Auth.Type)
	for name, value := range spec.CustomHeaders {
		headers[name] = value
	}

	requestParameters := make(map[string]string)
	for name, value := range headers {
		requestParameters["integration.request.header."+name] = HeaderValue(value)
	}
	for _, param := range spec.Path.Params() {
		requestParameters["integration.request.path."+param] = "method.request.path." + param
	}

	return &apigateway.PutIntegrationInput{
		RestApiId:             aws.String(apiID),
		ResourceId:            aws.String(resourceID),
		HttpMethod:            aws.String(method),
		Type:                  types.IntegrationTypeHttpProxy,
		IntegrationHttpMethod: aws.String(method),
		ConnectionType:        types.ConnectionTypeVpcLink,
		ConnectionId:          aws.String(spec.ConnectionID()),
		Uri:                   aws.String(spec.URI()),
		TimeoutInMillis:       aws.Int32(spec.TimeoutMillis),
		PassthroughBehavior:   aws.String(passthroughWhenNoMatch),
		RequestParameters:     requestParameters,
	}, nil
}

func BuildIntegrationResponseInput(apiID, resourceID, method string) *apigateway.PutIntegrationResponseInput {
	return &apigateway.PutIntegrationResponseInput{
		RestApiId:         aws.String(apiID),
		ResourceId:        aws.String(resourceID),
		HttpMethod:        aws.String(method),
		StatusCode:        aws.String("200"),
		ResponseTemplates: map[string]string{"application/json": ""},
	}
}

// ConfigureIntegration attaches the proxy integration and its 200 response.
// PutIntegration overwrites an existing integration, which is what a re-run
// wants.
func ConfigureIntegration(ctx context.Context, client integrationAPI, apiID, resourceID, method string, spec IntegrationSpec) error {
	input, err := BuildIntegrationInput(apiID, resourceID, method, spec)
	if err != nil {
		return err
	}

	if _, err := client.PutIntegration(ctx, input); err != nil {
		return fmt.Errorf("configuring integration for %s: %w", method, err)
	}

	if _, err := client.PutIntegrationResponse(ctx, BuildIntegrationResponseInput(apiID, resourceID, method)); err != nil && !IsConflict(err) {
		return fmt.Errorf("configuring integration response for %s: %w", method, err)
	}

	return nil
}
