package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/cenkalti/backoff/v4"
)

type verifyAPI interface {
	GetIntegration(ctx context.Context, params *apigateway.GetIntegrationInput, optFns ...func(*apigateway.Options)) (*apigateway.GetIntegrationOutput, error)
}

type VerifyResult struct {
	Method   string `json:"method"`
	Verified bool   `json:"verified"`
	Detail   string `json:"detail,omitempty"`
}

// VerifyIntegrations reads back every method's integration. The control
// plane is eventually consistent, so NotFound is retried with exponential
// backoff before the method is reported missing.
func VerifyIntegrations(ctx context.Context, client verifyAPI, apiID, resourceID string, methods []string) []VerifyResult {
	results := make([]VerifyResult, 0, len(methods))

	for _, method := range methods {
		result := VerifyResult{Method: method}

		operation := func() error {
			out, err := client.GetIntegration(ctx, &apigateway.GetIntegrationInput{
				RestApiId:  aws.String(apiID),
				ResourceId: aws.String(resourceID),
				HttpMethod: aws.String(method),
			})
			if err != nil {
				if IsNotFound(err) {
					return fmt.Errorf("integration for %s not visible yet: %w", method, err)
				}
				return backoff.Permanent(err)
			}
			if out.Uri == nil && out.Type != "MOCK" {
				return backoff.Permanent(fmt.Errorf("integration for %s has no URI", method))
			}
			result.Detail = string(out.Type)
			return nil
		}

		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = 500 * time.Millisecond
		bo.MaxElapsedTime = 15 * time.Second

		if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
			result.Detail = err.Error()
			results = append(results, result)
			continue
		}

		result.Verified = true
		results = append(results, result)
	}

	return results
}
