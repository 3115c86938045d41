package gateway

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCorsAPI struct {
	fakeMethodAPI
	fakeIntegrationAPI
}

func TestEnsureCorsDefault(t *testing.T) {
	api := &fakeCorsAPI{}
	err := EnsureCors(context.Background(), api, "api1", "res1", CorsDefault)
	require.NoError(t, err)

	require.Len(t, api.methods, 1)
	method := api.methods[0]
	assert.Equal(t, "OPTIONS", aws.ToString(method.HttpMethod))
	assert.Equal(t, "NONE", aws.ToString(method.AuthorizationType))

	require.Len(t, api.integrations, 1)
	mock := api.integrations[0]
	assert.Equal(t, types.IntegrationTypeMock, mock.Type)
	assert.Equal(t, `{"statusCode": 200}`, mock.RequestTemplates["application/json"])
	assert.Equal(t, "WHEN_NO_MATCH", aws.ToString(mock.PassthroughBehavior))

	require.Len(t, api.fakeMethodAPI.responses, 1)
	methodResponse := api.fakeMethodAPI.responses[0]
	assert.Equal(t, "200", aws.ToString(methodResponse.StatusCode))
	assert.Equal(t, map[string]bool{
		"method.response.header.Access-Control-Allow-Headers": true,
		"method.response.header.Access-Control-Allow-Methods": true,
		"method.response.header.Access-Control-Allow-Origin":  true,
	}, methodResponse.ResponseParameters)

	require.Len(t, api.fakeIntegrationAPI.responses, 1)
	integrationResponse := api.fakeIntegrationAPI.responses[0]
	assert.Equal(t, "'*'", integrationResponse.ResponseParameters["method.response.header.Access-Control-Allow-Origin"])
	assert.Equal(t, "'DELETE,GET,HEAD,OPTIONS,PATCH,POST,PUT'",
		integrationResponse.ResponseParameters["method.response.header.Access-Control-Allow-Methods"])
}

func TestEnsureCorsRestricted(t *testing.T) {
	api := &fakeCorsAPI{}
	err := EnsureCors(context.Background(), api, "api1", "res1", CorsRestricted)
	require.NoError(t, err)

	require.Len(t, api.fakeIntegrationAPI.responses, 1)
	params := api.fakeIntegrationAPI.responses[0].ResponseParameters
	assert.Equal(t, "'https://example.com'", params["method.response.header.Access-Control-Allow-Origin"])
	assert.Equal(t, "'GET,POST,OPTIONS'", params["method.response.header.Access-Control-Allow-Methods"])
}

func TestEnsureCorsNone(t *testing.T) {
	api := &fakeCorsAPI{}
	err := EnsureCors(context.Background(), api, "api1", "res1", CorsNone)
	require.NoError(t, err)
	assert.Empty(t, api.methods)
	assert.Empty(t, api.integrations)
}

func TestEnsureCorsExistingOptions(t *testing.T) {
	api := &fakeCorsAPI{}
	api.fakeMethodAPI.putMethodErr = &types.ConflictException{Message: aws.String("exists")}

	err := EnsureCors(context.Background(), api, "api1", "res1", CorsDefault)
	require.NoError(t, err)
	// The mock integration and responses are still reapplied.
	assert.Len(t, api.integrations, 1)
	assert.Len(t, api.fakeIntegrationAPI.responses, 1)
}
