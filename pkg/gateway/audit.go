package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cogtypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	u "github.com/mpvl/unique"
	"github.com/praetorian-inc/aperture/internal/helpers"
	"github.com/praetorian-inc/aperture/internal/message"
	"github.com/praetorian-inc/aperture/pkg/stages"
)

const DefaultAuditWorkers = 8

const longTtlSeconds = 3600

type auditAPI interface {
	apigateway.GetRestApisAPIClient
	apigateway.GetResourcesAPIClient
	GetRestApi(ctx context.Context, params *apigateway.GetRestApiInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApiOutput, error)
	GetStages(ctx context.Context, params *apigateway.GetStagesInput, optFns ...func(*apigateway.Options)) (*apigateway.GetStagesOutput, error)
}

// AuditConfig scopes one audit run.
type AuditConfig struct {
	Account string
	Region  string
	// ApiIDs restricts the audit to the listed APIs. Empty audits every
	// REST API in the region.
	ApiIDs  []string
	Workers int
}

type apiTarget struct {
	id   string
	name string
}

// apiSnapshot is everything phase one fetches for one API: its resources
// with methods and integrations embedded, plus its stage names.
type apiSnapshot struct {
	target    apiTarget
	stages    string
	resources []types.Resource
}

// Auditor runs a read-only security review of API Gateway configurations.
// Phase one discovers APIs and fetches their resource trees in parallel;
// phase two evaluates every method against the rule catalog, with authorizer
// and user-pool lookups collapsed through a per-run cache.
type Auditor struct {
	api   auditAPI
	cache *AuthorizerCache
	cfg   AuditConfig

	mu       sync.Mutex
	warnings []string
}

func NewAuditor(api *apigateway.Client, cognito *cognitoidentityprovider.Client, cfg AuditConfig) *Auditor {
	return newAuditor(api, NewAuthorizerCache(api, cognito), cfg)
}

func newAuditor(api auditAPI, cache *AuthorizerCache, cfg AuditConfig) *Auditor {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultAuditWorkers
	}
	return &Auditor{api: api, cache: cache, cfg: cfg}
}

func (a *Auditor) warn(format string, args ...interface{}) {
	a.mu.Lock()
	a.warnings = append(a.warnings, fmt.Sprintf(format, args...))
	a.mu.Unlock()
}

// Run executes the audit and returns the report. Individual API fetch
// failures become report warnings, not run failures.
func (a *Auditor) Run(ctx context.Context) (Report, error) {
	targets, err := a.discoverTargets(ctx)
	if err != nil {
		return Report{}, err
	}
	if len(targets) == 0 {
		message.Warning("No REST APIs found in %s", a.cfg.Region)
		return NewReport(a.cfg.Account, a.cfg.Region, 0, a.warnings, nil), nil
	}
	message.Info("Auditing %d REST API(s) in %s with %d worker(s)", len(targets), a.cfg.Region, a.cfg.Workers)

	snapshots := stages.Collect(stages.FanOut(ctx, stages.Generator(targets), a.cfg.Workers,
		a.fetchSnapshot,
		func(t apiTarget, err error) { a.warn("fetching API %s: %v", t.id, err) }))

	findingSets := stages.Collect(stages.FanOut(ctx, stages.Generator(snapshots), a.cfg.Workers,
		a.evaluateSnapshot,
		func(s apiSnapshot, err error) { a.warn("evaluating API %s: %v", s.target.id, err) }))

	var findings FindingSet
	for _, set := range findingSets {
		findings = append(findings, set...)
	}
	return NewReport(a.cfg.Account, a.cfg.Region, len(snapshots), a.warnings, findings), nil
}

func (a *Auditor) discoverTargets(ctx context.Context) ([]apiTarget, error) {
	if len(a.cfg.ApiIDs) > 0 {
		targets := make([]apiTarget, 0, len(a.cfg.ApiIDs))
		for _, id := range a.cfg.ApiIDs {
			api, err := a.api.GetRestApi(ctx, &apigateway.GetRestApiInput{RestApiId: aws.String(id)})
			if err != nil {
				a.warn("looking up API %s: %v", id, err)
				continue
			}
			targets = append(targets, apiTarget{id: aws.ToString(api.Id), name: aws.ToString(api.Name)})
		}
		return targets, nil
	}

	var targets []apiTarget
	paginator := apigateway.NewGetRestApisPaginator(a.api, &apigateway.GetRestApisInput{
		Limit: aws.Int32(500),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing REST APIs: %w", err)
		}
		for _, item := range page.Items {
			targets = append(targets, apiTarget{id: aws.ToString(item.Id), name: aws.ToString(item.Name)})
		}
	}
	return targets, nil
}

func (a *Auditor) fetchSnapshot(ctx context.Context, target apiTarget) (apiSnapshot, error) {
	snapshot := apiSnapshot{target: target}

	paginator := apigateway.NewGetResourcesPaginator(a.api, &apigateway.GetResourcesInput{
		RestApiId: aws.String(target.id),
		Embed:     []string{"methods"},
		Limit:     aws.Int32(500),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return apiSnapshot{}, fmt.Errorf("fetching resources: %w", err)
		}
		snapshot.resources = append(snapshot.resources, page.Items...)
	}

	stagesOut, err := a.api.GetStages(ctx, &apigateway.GetStagesInput{RestApiId: aws.String(target.id)})
	if err != nil {
		a.warn("fetching stages for %s: %v", target.id, err)
	} else {
		names := make([]string, 0, len(stagesOut.Item))
		for _, stage := range stagesOut.Item {
			names = append(names, aws.ToString(stage.StageName))
		}
		sort.Strings(names)
		snapshot.stages = strings.Join(names, ",")
	}
	return snapshot, nil
}

func (a *Auditor) evaluateSnapshot(ctx context.Context, snapshot apiSnapshot) (FindingSet, error) {
	var findings FindingSet
	var authorizerIDs []string

	for _, resource := range snapshot.resources {
		path := aws.ToString(resource.Path)
		for httpMethod, method := range resource.ResourceMethods {
			findings = append(findings, a.evaluateMethod(snapshot, path, httpMethod, method)...)
			if id := aws.ToString(method.AuthorizerId); id != "" {
				authorizerIDs = append(authorizerIDs, id)
			}
		}
	}

	r := u.StringSlice{P: &authorizerIDs}
	u.Sort(r)
	u.Strings(r.P)
	for _, id := range authorizerIDs {
		findings = append(findings, a.evaluateAuthorizer(ctx, snapshot, id)...)
	}
	return findings, nil
}

func (a *Auditor) finding(snapshot apiSnapshot, path, method string, severity Severity, rule, detail string) Finding {
	return Finding{
		Account:  a.cfg.Account,
		Region:   a.cfg.Region,
		ApiID:    snapshot.target.id,
		ApiName:  snapshot.target.name,
		Stage:    snapshot.stages,
		Path:     path,
		Method:   method,
		Severity: severity,
		Rule:     rule,
		Detail:   detail,
	}
}

func (a *Auditor) evaluateMethod(snapshot apiSnapshot, path, httpMethod string, method types.Method) []Finding {
	var findings []Finding

	authType := aws.ToString(method.AuthorizationType)
	keyRequired := aws.ToBool(method.ApiKeyRequired)
	isOptions := strings.EqualFold(httpMethod, "OPTIONS")

	if strings.EqualFold(authType, "NONE") && !keyRequired && !isOptions {
		findings = append(findings, a.finding(snapshot, path, httpMethod, SeverityHigh, "open-method",
			"method is callable without authorization or an API key"))
	}
	if keyRequired && strings.EqualFold(authType, "NONE") {
		findings = append(findings, a.finding(snapshot, path, httpMethod, SeverityMedium, "api-key-only",
			"API keys identify callers but do not authorize them"))
	}

	integration := method.MethodIntegration
	if integration == nil {
		return findings
	}

	if uri := aws.ToString(integration.Uri); strings.HasPrefix(uri, "http://") {
		findings = append(findings, a.finding(snapshot, path, httpMethod, SeverityHigh, "cleartext-backend",
			fmt.Sprintf("integration URI %s sends traffic in cleartext", uri)))
	}
	if integration.Type == types.IntegrationTypeMock && !isOptions {
		findings = append(findings, a.finding(snapshot, path, httpMethod, SeverityInfo, "mock-non-options",
			"MOCK integration on a non-OPTIONS method"))
	}
	if integration.TimeoutInMillis > DefaultTimeoutMillis {
		findings = append(findings, a.finding(snapshot, path, httpMethod, SeverityInfo, "long-timeout",
			fmt.Sprintf("integration timeout %dms exceeds %dms", integration.TimeoutInMillis, DefaultTimeoutMillis)))
	}
	if isOptions {
		for _, response := range integration.IntegrationResponses {
			origin := response.ResponseParameters["method.response.header.Access-Control-Allow-Origin"]
			if origin == "'*'" {
				findings = append(findings, a.finding(snapshot, path, httpMethod, SeverityLow, "open-cors",
					"CORS allows any origin"))
				break
			}
		}
	}
	return findings
}

func (a *Auditor) evaluateAuthorizer(ctx context.Context, snapshot apiSnapshot, authorizerID string) []Finding {
	authorizer, err := a.cache.Authorizer(ctx, snapshot.target.id, authorizerID)
	if err != nil {
		a.warn("fetching authorizer %s on %s: %v", authorizerID, snapshot.target.id, err)
		return nil
	}

	var findings []Finding
	name := aws.ToString(authorizer.Name)
	path := "authorizer/" + name

	switch authorizer.Type {
	case types.AuthorizerTypeToken, types.AuthorizerTypeRequest:
		if aws.ToString(authorizer.IdentitySource) == "" {
			findings = append(findings, a.finding(snapshot, path, "-", SeverityMedium, "authorizer-no-identity-source",
				"authorizer has no identity source configured"))
		}
	}

	if authorizer.AuthorizerResultTtlInSeconds != nil {
		ttl := *authorizer.AuthorizerResultTtlInSeconds
		if ttl == 0 {
			findings = append(findings, a.finding(snapshot, path, "-", SeverityInfo, "authorizer-cache-disabled",
				"authorizer results are not cached; every request invokes the authorizer"))
		} else if ttl > longTtlSeconds {
			findings = append(findings, a.finding(snapshot, path, "-", SeverityLow, "authorizer-long-ttl",
				fmt.Sprintf("authorization results cached for %ds", ttl)))
		}
	}

	if authorizer.Type == types.AuthorizerTypeCognitoUserPools {
		for _, providerARN := range authorizer.ProviderARNs {
			poolID, err := poolIDFromArn(providerARN)
			if err != nil {
				a.warn("parsing provider ARN %s: %v", providerARN, err)
				continue
			}
			pool, err := a.cache.UserPool(ctx, poolID)
			if err != nil {
				a.warn("fetching user pool %s: %v", poolID, err)
				continue
			}
			if pool != nil && pool.MfaConfiguration == cogtypes.UserPoolMfaTypeOff {
				findings = append(findings, a.finding(snapshot, "userpool/"+poolID, "-", SeverityMedium, "pool-mfa-off",
					fmt.Sprintf("user pool %s backing authorizer %s has MFA disabled", poolID, name)))
			}
		}
	}
	return findings
}

func poolIDFromArn(providerARN string) (string, error) {
	parsed, err := helpers.NewArn(providerARN)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(parsed.Resource, "userpool/") {
		return "", fmt.Errorf("unexpected cognito provider resource %q", parsed.Resource)
	}
	return strings.TrimPrefix(parsed.Resource, "userpool/"), nil
}
