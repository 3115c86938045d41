package gateway

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigateway/types"
)

type corsAPI interface {
	methodAPI
	integrationAPI
}

const mockStatusTemplate = `{"statusCode": 200}`

// EnsureCors attaches the OPTIONS preflight method to a resource: an open
// MOCK integration answering 200 with the catalog's Access-Control headers.
func EnsureCors(ctx context.Context, client corsAPI, apiID, resourceID string, cors CorsType) error {
	catalog := CorsHeaders(cors)
	if catalog == nil {
		return nil
	}

	method := &apigateway.PutMethodInput{
		RestApiId:         aws.String(apiID),
		ResourceId:        aws.String(resourceID),
		HttpMethod:        aws.String("OPTIONS"),
		AuthorizationType: aws.String("NONE"),
	}
	if _, err := client.PutMethod(ctx, method); err != nil && !IsConflict(err) {
		return fmt.Errorf("creating OPTIONS method: %w", err)
	}

	integration := &apigateway.PutIntegrationInput{
		RestApiId:           aws.String(apiID),
		ResourceId:          aws.String(resourceID),
		HttpMethod:          aws.String("OPTIONS"),
		Type:                types.IntegrationTypeMock,
		RequestTemplates:    map[string]string{"application/json": mockStatusTemplate},
		PassthroughBehavior: aws.String(passthroughWhenNoMatch),
		TimeoutInMillis:     aws.Int32(DefaultTimeoutMillis),
	}
	if _, err := client.PutIntegration(ctx, integration); err != nil {
		return fmt.Errorf("creating OPTIONS mock integration: %w", err)
	}

	responseParams := make(map[string]bool, len(catalog))
	for name := range catalog {
		responseParams["method.response.header."+name] = true
	}
	methodResponse := &apigateway.PutMethodResponseInput{
		RestApiId:          aws.String(apiID),
		ResourceId:         aws.String(resourceID),
		HttpMethod:         aws.String("OPTIONS"),
		StatusCode:         aws.String("200"),
		ResponseParameters: responseParams,
	}
	if _, err := client.PutMethodResponse(ctx, methodResponse); err != nil && !IsConflict(err) {
		return fmt.Errorf("creating OPTIONS method response: %w", err)
	}

	integrationParams := make(map[string]string, len(catalog))
	for name, value := range catalog {
		integrationParams["method.response.header."+name] = value
	}
	integrationResponse := &apigateway.PutIntegrationResponseInput{
		RestApiId:          aws.String(apiID),
		ResourceId:         aws.String(resourceID),
		HttpMethod:         aws.String("OPTIONS"),
		StatusCode:         aws.String("200"),
		ResponseParameters: integrationParams,
	}
	if _, err := client.PutIntegrationResponse(ctx, integrationResponse); err != nil && !IsConflict(err) {
		return fmt.Errorf("creating OPTIONS integration response: %w", err)
	}

	return nil
}
