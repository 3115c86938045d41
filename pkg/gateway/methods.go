package gateway

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
)

type methodAPI interface {
	PutMethod(ctx context.Context, params *apigateway.PutMethodInput, optFns ...func(*apigateway.Options)) (*apigateway.PutMethodOutput, error)
	PutMethodResponse(ctx context.Context, params *apigateway.PutMethodResponseInput, optFns ...func(*apigateway.Options)) (*apigateway.PutMethodResponseOutput, error)
}

// AuthConfig is the resolved authorization configuration for new methods.
type AuthConfig struct {
	Type         AuthType
	AuthorizerID string
}

func (a AuthConfig) validate() error {
	if a.Type.IsCognito() && a.AuthorizerID == "" {
		return fmt.Errorf("auth type %s requires an authorizer ID", a.Type)
	}
	return nil
}

// BuildMethodInput maps an auth type onto a PutMethod request. Cognito modes
// bind the authorizer; API_KEY keeps authorization NONE but requires a key.
func BuildMethodInput(apiID, resourceID, method string, auth AuthConfig, pathParams []string) (*apigateway.PutMethodInput, error) {
	if err := auth.validate(); err != nil {
		return nil, err
	}

	input := &apigateway.PutMethodInput{
		RestApiId:  aws.String(apiID),
		ResourceId: aws.String(resourceID),
		HttpMethod: aws.String(method),
	}

	switch auth.Type {
	case AuthCognitoAdmin, AuthCognitoCustomer:
		input.AuthorizationType = aws.String("COGNITO_USER_POOLS")
		input.AuthorizerId = aws.String(auth.AuthorizerID)
	case AuthApiKey:
		input.AuthorizationType = aws.String("NONE")
		input.ApiKeyRequired = true
	default:
		input.AuthorizationType = aws.String("NONE")
	}

	if len(pathParams) > 0 {
		input.RequestParameters = make(map[string]bool, len(pathParams))
		for _, param := range pathParams {
			input.RequestParameters["method.request.path."+param] = true
		}
	}

	return input, nil
}

// BuildMethodResponseInput declares the 200 response with the Empty model.
func BuildMethodResponseInput(apiID, resourceID, method string) *apigateway.PutMethodResponseInput {
	return &apigateway.PutMethodResponseInput{
		RestApiId:      aws.String(apiID),
		ResourceId:     aws.String(resourceID),
		HttpMethod:     aws.String(method),
		StatusCode:     aws.String("200"),
		ResponseModels: map[string]string{"application/json": "Empty"},
	}
}

// EnsureMethod creates the method and its 200 response on a resource.
// A conflict means the method already exists; it is reused, not overwritten.
func EnsureMethod(ctx context.Context, client methodAPI, apiID, resourceID, method string, auth AuthConfig, pathParams []string) (bool, error) {
	input, err := BuildMethodInput(apiID, resourceID, method, auth, pathParams)
	if err != nil {
		return false, err
	}

	created := true
	if _, err := client.PutMethod(ctx, input); err != nil {
		if !IsConflict(err) {
			return false, fmt.Errorf("creating method %s: %w", method, err)
		}
		created = false
	}

	if _, err := client.PutMethodResponse(ctx, BuildMethodResponseInput(apiID, resourceID, method)); err != nil && !IsConflict(err) {
		return created, fmt.Errorf("creating method response for %s: %w", method, err)
	}

	return created, nil
}
