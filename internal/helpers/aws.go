package helpers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/praetorian-inc/aperture/internal/logs"
)

func NewArn(identifier string) (arn.ARN, error) {
	valid := arn.IsARN(identifier)
	if !valid {
		return arn.ARN{}, fmt.Errorf("this is not a valid arn %v", identifier)
	}

	a, err := arn.Parse(identifier)
	if err != nil {
		return arn.ARN{}, err
	}

	return a, nil
}

func GetAWSCfg(region string, profile string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(
		context.TODO(),
		config.WithClientLogMode(
			aws.LogRetries|
				aws.LogRequestWithBody|
				aws.LogRequestEventMessage|
				aws.LogResponseEventMessage),
		config.WithLogger(logs.AwsCliLogger()),
		config.WithRegion(region),
		config.WithSharedConfigProfile(profile),
		config.WithRetryMode(aws.RetryModeAdaptive),
	)
	if err != nil {
		return aws.Config{}, err
	}

	return cfg, nil
}

func GetAccountId(cfg aws.Config) (string, error) {
	if strings.ToLower(cfg.Region) == "all" {
		cfg.Region = "us-east-1"
	}
	client := sts.NewFromConfig(cfg)
	input := &sts.GetCallerIdentityInput{}

	result, err := client.GetCallerIdentity(context.TODO(), input)
	if err != nil {
		return "", err
	}

	return *result.Account, nil
}

// CreateFilePath builds the relative output path; the output provider
// prepends the configured output directory.
func CreateFilePath(cloudProvider, service, account, command, region, resource string) string {
	return fmt.Sprintf("%s%s%s%s%s%s%s-%s-%s.json", cloudProvider, string(os.PathSeparator), service, string(os.PathSeparator), account, string(os.PathSeparator), command, region, resource)
}

func CreateFileName(parts ...string) string {
	return strings.Join(parts, "-")
}
