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

type fakeMethodAPI struct {
	putMethodErr         error
	putMethodResponseErr error
	methods              []*apigateway.PutMethodInput
	responses            []*apigateway.PutMethodResponseInput
}

func (f *fakeMethodAPI) PutMethod(_ context.Context, params *apigateway.PutMethodInput, _ ...func(*apigateway.Options)) (*apigateway.PutMethodOutput, error) {
	f.methods = append(f.methods, params)
	if f.putMethodErr != nil {
		return nil, f.putMethodErr
	}
	return &apigateway.PutMethodOutput{}, nil
}

func (f *fakeMethodAPI) PutMethodResponse(_ context.Context, params *apigateway.PutMethodResponseInput, _ ...func(*apigateway.Options)) (*apigateway.PutMethodResponseOutput, error) {
	f.responses = append(f.responses, params)
	if f.putMethodResponseErr != nil {
		return nil, f.putMethodResponseErr
	}
	return &apigateway.PutMethodResponseOutput{}, nil
}

func TestBuildMethodInput(t *testing.T) {
	tests := []struct {
		name           string
		auth           AuthConfig
		wantAuthType   string
		wantAuthorizer string
		wantKey        bool
		wantErr        bool
	}{
		{
			name:           "cognito admin binds authorizer",
			auth:           AuthConfig{Type: AuthCognitoAdmin, AuthorizerID: "auth1"},
			wantAuthType:   "COGNITO_USER_POOLS",
			wantAuthorizer: "auth1",
		},
		{
			name:           "cognito customer binds authorizer",
			auth:           AuthConfig{Type: AuthCognitoCustomer, AuthorizerID: "auth2"},
			wantAuthType:   "COGNITO_USER_POOLS",
			wantAuthorizer: "auth2",
		},
		{
			name:         "no auth",
			auth:         AuthConfig{Type: AuthNone},
			wantAuthType: "NONE",
		},
		{
			name:         "api key keeps auth none but requires key",
			auth:         AuthConfig{Type: AuthApiKey},
			wantAuthType: "NONE",
			wantKey:      true,
		},
		{
			name:    "cognito without authorizer fails",
			auth:    AuthConfig{Type: AuthCognitoAdmin},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := BuildMethodInput("api1", "res1", "GET", tt.auth, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "api1", aws.ToString(input.RestApiId))
			assert.Equal(t, "res1", aws.ToString(input.ResourceId))
			assert.Equal(t, "GET", aws.ToString(input.HttpMethod))
			assert.Equal(t, tt.wantAuthType, aws.ToString(input.AuthorizationType))
			assert.Equal(t, tt.wantKey, input.ApiKeyRequired)
			if tt.wantAuthorizer != "" {
				assert.Equal(t, tt.wantAuthorizer, aws.ToString(input.AuthorizerId))
			} else {
				assert.Nil(t, input.AuthorizerId)
			}
		})
	}
}

func TestBuildMethodInputPathParams(t *testing.T) {
	input, err := BuildMethodInput("api1", "res1", "GET", AuthConfig{Type: AuthNone}, []string{"user_id", "order_id"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{
		"method.request.path.user_id":  true,
		"method.request.path.order_id": true,
	}, input.RequestParameters)

	input, err = BuildMethodInput("api1", "res1", "GET", AuthConfig{Type: AuthNone}, nil)
	require.NoError(t, err)
	assert.Nil(t, input.RequestParameters)
}

func TestEnsureMethod(t *testing.T) {
	ctx := context.Background()

	t.Run("creates method and response", func(t *testing.T) {
		api := &fakeMethodAPI{}
		created, err := EnsureMethod(ctx, api, "api1", "res1", "POST", AuthConfig{Type: AuthNone}, nil)
		require.NoError(t, err)
		assert.True(t, created)
		require.Len(t, api.methods, 1)
		require.Len(t, api.responses, 1)
		assert.Equal(t, "200", aws.ToString(api.responses[0].StatusCode))
		assert.Equal(t, map[string]string{"application/json": "Empty"}, api.responses[0].ResponseModels)
	})

	t.Run("conflict means reuse", func(t *testing.T) {
		api := &fakeMethodAPI{putMethodErr: &types.ConflictException{Message: aws.String("exists")}}
		created, err := EnsureMethod(ctx, api, "api1", "res1", "POST", AuthConfig{Type: AuthNone}, nil)
		require.NoError(t, err)
		assert.False(t, created)
		// The 200 response is still ensured on the existing method.
		assert.Len(t, api.responses, 1)
	})

	t.Run("other errors propagate", func(t *testing.T) {
		api := &fakeMethodAPI{putMethodErr: &types.TooManyRequestsException{Message: aws.String("slow down")}}
		_, err := EnsureMethod(ctx, api, "api1", "res1", "POST", AuthConfig{Type: AuthNone}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "creating method POST")
	})

	t.Run("conflicting response is fine", func(t *testing.T) {
		api := &fakeMethodAPI{putMethodResponseErr: &types.ConflictException{Message: aws.String("exists")}}
		created, err := EnsureMethod(ctx, api, "api1", "res1", "GET", AuthConfig{Type: AuthNone}, nil)
		require.NoError(t, err)
		assert.True(t, created)
	})
}
