package gateway

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cogtypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"golang.org/x/sync/singleflight"
)

type authorizerAPI interface {
	GetAuthorizer(ctx context.Context, params *apigateway.GetAuthorizerInput, optFns ...func(*apigateway.Options)) (*apigateway.GetAuthorizerOutput, error)
}

type userPoolAPI interface {
	DescribeUserPool(ctx context.Context, params *cognitoidentityprovider.DescribeUserPoolInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.DescribeUserPoolOutput, error)
}

type authorizerEntry struct {
	out *apigateway.GetAuthorizerOutput
	err error
}

type poolEntry struct {
	pool *cogtypes.UserPoolType
	err  error
}

// AuthorizerCache memoizes authorizer and user-pool lookups for the lifetime
// of one audit run. Each distinct ID is fetched once; concurrent requests for
// the same ID collapse into a single upstream call, and the result (error
// included) is reused for every later request.
type AuthorizerCache struct {
	api         authorizerAPI
	cognito     userPoolAPI
	authorizers sync.Map
	pools       sync.Map
	group       singleflight.Group
}

func NewAuthorizerCache(api *apigateway.Client, cognito *cognitoidentityprovider.Client) *AuthorizerCache {
	return &AuthorizerCache{api: api, cognito: cognito}
}

func newAuthorizerCache(api authorizerAPI, cognito userPoolAPI) *AuthorizerCache {
	return &AuthorizerCache{api: api, cognito: cognito}
}

// Authorizer returns the authorizer record for authorizerID on apiID,
// fetching it at most once.
func (c *AuthorizerCache) Authorizer(ctx context.Context, apiID, authorizerID string) (*apigateway.GetAuthorizerOutput, error) {
	key := apiID + "/" + authorizerID
	if v, ok := c.authorizers.Load(key); ok {
		entry := v.(authorizerEntry)
		return entry.out, entry.err
	}
	v, _, _ := c.group.Do("authorizer:"+key, func() (interface{}, error) {
		if v, ok := c.authorizers.Load(key); ok {
			return v.(authorizerEntry), nil
		}
		out, err := c.api.GetAuthorizer(ctx, &apigateway.GetAuthorizerInput{
			RestApiId:    aws.String(apiID),
			AuthorizerId: aws.String(authorizerID),
		})
		entry := authorizerEntry{out: out, err: err}
		c.authorizers.Store(key, entry)
		return entry, nil
	})
	entry := v.(authorizerEntry)
	return entry.out, entry.err
}

// UserPool returns the Cognito user pool, fetching it at most once.
func (c *AuthorizerCache) UserPool(ctx context.Context, poolID string) (*cogtypes.UserPoolType, error) {
	if v, ok := c.pools.Load(poolID); ok {
		entry := v.(poolEntry)
		return entry.pool, entry.err
	}
	v, _, _ := c.group.Do("pool:"+poolID, func() (interface{}, error) {
		if v, ok := c.pools.Load(poolID); ok {
			return v.(poolEntry), nil
		}
		out, err := c.cognito.DescribeUserPool(ctx, &cognitoidentityprovider.DescribeUserPoolInput{
			UserPoolId: aws.String(poolID),
		})
		entry := poolEntry{err: err}
		if out != nil {
			entry.pool = out.UserPool
		}
		c.pools.Store(poolID, entry)
		return entry, nil
	})
	entry := v.(poolEntry)
	return entry.pool, entry.err
}
