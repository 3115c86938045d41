package auditaws

import (
	"context"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/praetorian-inc/aperture/internal/helpers"
	"github.com/praetorian-inc/aperture/internal/jq"
	"github.com/praetorian-inc/aperture/internal/message"
	op "github.com/praetorian-inc/aperture/internal/output_providers"
	"github.com/praetorian-inc/aperture/modules"
	o "github.com/praetorian-inc/aperture/modules/options"
	"github.com/praetorian-inc/aperture/pkg/gateway"
)

type AwsApiGatewayAudit struct {
	modules.BaseModule
}

var AwsApiGatewayAuditOptions = []*o.Option{
	&o.ApiIdsOpt,
	&o.WorkersOpt,
	&o.FilterOpt,
}

var AwsApiGatewayAuditMetadata = modules.Metadata{
	Id:          "apigateway",
	Name:        "API Gateway Security Audit",
	Description: "Audit REST API methods, authorizers and user pools for weak configurations.",
	Platform:    modules.AWS,
	Authors:     []string{"Praetorian"},
	OpsecLevel:  modules.Moderate,
	References: []string{
		"https://docs.aws.amazon.com/apigateway/latest/developerguide/security-best-practices.html",
	},
}

var AwsApiGatewayAuditOutputProviders = []func(options []*o.Option) modules.OutputProvider{
	op.NewCsvFileProvider,
	op.NewJsonFileProvider,
}

func NewAwsApiGatewayAudit(options []*o.Option, run modules.Run) (modules.Module, error) {
	return &AwsApiGatewayAudit{
		BaseModule: modules.BaseModule{
			Metadata:        AwsApiGatewayAuditMetadata,
			Options:         options,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(AwsApiGatewayAuditOutputProviders, options),
		},
	}, nil
}

func (m *AwsApiGatewayAudit) Invoke() error {
	defer close(m.Run.Data)

	region := m.GetOptionByName(o.AwsRegionOpt.Name).Value
	cfg, err := helpers.GetAWSCfg(region, m.GetOptionByName(o.AwsProfileOpt.Name).Value)
	if err != nil {
		return err
	}
	accountId, err := helpers.GetAccountId(cfg)
	if err != nil {
		return err
	}

	var apiIDs []string
	if raw := m.GetOptionByName(o.ApiIdsOpt.Name).Value; raw != "" {
		for _, id := range strings.Split(raw, ",") {
			apiIDs = append(apiIDs, strings.TrimSpace(id))
		}
	}
	workers, _ := strconv.Atoi(m.GetOptionByName(o.WorkersOpt.Name).Value)

	auditor := gateway.NewAuditor(
		apigateway.NewFromConfig(cfg),
		cognitoidentityprovider.NewFromConfig(cfg),
		gateway.AuditConfig{
			Account: accountId,
			Region:  region,
			ApiIDs:  apiIDs,
			Workers: workers,
		})

	report, err := auditor.Run(context.Background())
	if err != nil {
		return err
	}

	if filter := m.GetOptionByName(o.FilterOpt.Name).Value; filter != "" {
		filtered, err := filterFindings(report.Findings, filter)
		if err != nil {
			return err
		}
		message.Info("Filter kept %d of %d finding(s)", len(filtered), len(report.Findings))
		report.Findings = filtered
		report.Counts = filtered.SeverityCounts()
	}

	message.Info("%d finding(s): %d HIGH, %d MEDIUM, %d LOW, %d INFO",
		len(report.Findings),
		report.Counts[gateway.SeverityHigh],
		report.Counts[gateway.SeverityMedium],
		report.Counts[gateway.SeverityLow],
		report.Counts[gateway.SeverityInfo])
	for _, warning := range report.Warnings {
		message.Warning("%s", warning)
	}

	csvName := helpers.CreateFileName("security_report", accountId, region, op.GenerateShortUUID()) + ".csv"
	m.Run.Data <- m.MakeResultCustomFilename(report.Findings, csvName)

	jsonPath := helpers.CreateFilePath(string(m.Platform), "apigateway", accountId, "audit", region, report.RunID)
	m.Run.Data <- m.MakeResultCustomFilename(report, jsonPath)

	return nil
}

func filterFindings(findings gateway.FindingSet, filter string) (gateway.FindingSet, error) {
	kept := make(gateway.FindingSet, 0, len(findings))
	for _, finding := range findings {
		match, err := jq.Match(finding, filter)
		if err != nil {
			return nil, err
		}
		if match {
			kept = append(kept, finding)
		}
	}
	return kept, nil
}
