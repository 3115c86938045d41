package gateway

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	"github.com/praetorian-inc/aperture/internal/message"
)

type endpointAPI interface {
	resourceAPI
	methodAPI
	integrationAPI
	verifyAPI
}

// EndpointRequest asks the workflow to expose a backend path on an API.
type EndpointRequest struct {
	Profile     Profile
	BackendPath string
	Methods     string
}

type StepStatus string

const (
	StepOk      StepStatus = "ok"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

type StepResult struct {
	Name   string     `json:"name"`
	Status StepStatus `json:"status"`
	Detail string     `json:"detail,omitempty"`
}

// WorkflowReport is the full record of one endpoint-creation run.
type WorkflowReport struct {
	ApiID          string         `json:"api_id"`
	BackendPath    string         `json:"backend_path"`
	GatewayPath    string         `json:"gateway_path"`
	ResourceID     string         `json:"resource_id,omitempty"`
	Steps          []StepResult   `json:"steps"`
	Resources      EnsureReport   `json:"resources"`
	MethodsCreated []string       `json:"methods_created,omitempty"`
	MethodsSkipped []string       `json:"methods_skipped,omitempty"`
	Warnings       []string       `json:"warnings,omitempty"`
	Verification   []VerifyResult `json:"verification,omitempty"`
}

func (r *WorkflowReport) step(name string, status StepStatus, detail string) {
	r.Steps = append(r.Steps, StepResult{Name: name, Status: status, Detail: detail})
}

func (r *WorkflowReport) warn(format string, args ...interface{}) {
	warning := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, warning)
	message.Warning("%s", warning)
}

// Workflow drives the endpoint-creation steps in order against one API.
type Workflow struct {
	client endpointAPI
}

func NewWorkflow(client *apigateway.Client) *Workflow {
	return &Workflow{client: client}
}

func newWorkflow(client endpointAPI) *Workflow {
	return &Workflow{client: client}
}

// Run executes the workflow. Steps run strictly in order; a failure in a
// critical step stops the run with the failure recorded. CORS is the one
// non-critical step: its failure becomes a warning.
func (w *Workflow) Run(ctx context.Context, req EndpointRequest) (*WorkflowReport, error) {
	profile := req.Profile
	profile.Normalize()

	report := &WorkflowReport{
		ApiID:       profile.ApiID,
		BackendPath: req.BackendPath,
	}

	// parse-path
	message.Section("Parsing path")
	path, err := ParsePath(req.BackendPath)
	if err != nil {
		report.step("parse-path", StepFailed, err.Error())
		return report, err
	}
	methods, err := ParseMethods(req.Methods)
	if err != nil {
		report.step("parse-path", StepFailed, err.Error())
		return report, err
	}
	authType, err := ParseAuthType(profile.AuthType)
	if err != nil {
		report.step("parse-path", StepFailed, err.Error())
		return report, err
	}
	corsType, err := ParseCorsType(profile.CorsType)
	if err != nil {
		report.step("parse-path", StepFailed, err.Error())
		return report, err
	}
	if err := profile.ValidateStatic(); err != nil {
		report.step("parse-path", StepFailed, err.Error())
		return report, err
	}
	report.GatewayPath = path.GatewayPath()
	report.step("parse-path", StepOk, fmt.Sprintf("%s -> %s", path, report.GatewayPath))
	message.Info("Gateway path %s, methods %v", report.GatewayPath, methods)

	auth := AuthConfig{
		Type:         authType,
		AuthorizerID: profile.AuthorizerID,
	}

	// resolve-resources
	message.Section("Resolving resources")
	resolver := newResolver(w.client, profile.ApiID)
	if err := resolver.Resolve(ctx); err != nil {
		report.step("resolve-resources", StepFailed, err.Error())
		return report, err
	}
	resourceID, ensureReport, err := resolver.EnsureHierarchy(ctx, path)
	report.Resources = ensureReport
	if err != nil {
		report.step("resolve-resources", StepFailed, err.Error())
		return report, err
	}
	report.ResourceID = resourceID
	report.step("resolve-resources", StepOk,
		fmt.Sprintf("%d created, %d reused", ensureReport.Created, ensureReport.Reused))
	message.Success("Resource %s ready (%d created, %d reused)", resourceID, ensureReport.Created, ensureReport.Reused)

	// create-methods
	message.Section("Creating methods")
	for _, method := range methods {
		created, err := EnsureMethod(ctx, w.client, profile.ApiID, resourceID, method, auth, path.Params())
		if err != nil {
			report.step("create-methods", StepFailed, err.Error())
			return report, err
		}
		if created {
			report.MethodsCreated = append(report.MethodsCreated, method)
			message.Success("Created %s", method)
		} else {
			report.MethodsSkipped = append(report.MethodsSkipped, method)
			message.Info("%s already exists, reusing", method)
		}
	}
	report.step("create-methods", StepOk,
		fmt.Sprintf("%d created, %d existing", len(report.MethodsCreated), len(report.MethodsSkipped)))
	if len(report.MethodsSkipped) > 0 {
		report.warn("%d method(s) already existed and were reused", len(report.MethodsSkipped))
	}

	// configure-integrations
	message.Section("Configuring integrations")
	spec := IntegrationSpec{
		BackendHost:        profile.BackendHost,
		Path:               path,
		ConnectionVariable: profile.ConnectionVariable,
		TimeoutMillis:      profile.TimeoutMillis,
		Auth:               auth,
		CustomHeaders:      profile.CustomHeaders,
	}
	for _, method := range methods {
		if err := ConfigureIntegration(ctx, w.client, profile.ApiID, resourceID, method, spec); err != nil {
			report.step("configure-integrations", StepFailed, err.Error())
			return report, err
		}
		message.Success("Integration configured for %s -> %s", method, spec.URI())
	}
	report.step("configure-integrations", StepOk, spec.URI())

	// configure-cors
	verifyMethods := methods
	if corsType == CorsNone {
		report.step("configure-cors", StepSkipped, "cors disabled")
	} else {
		message.Section("Configuring CORS")
		if err := EnsureCors(ctx, w.client, profile.ApiID, resourceID, corsType); err != nil {
			report.step("configure-cors", StepFailed, err.Error())
			report.warn("CORS configuration failed: %v", err)
		} else {
			report.step("configure-cors", StepOk, string(corsType))
			verifyMethods = append(append([]string(nil), methods...), "OPTIONS")
		}
	}

	// verify
	message.Section("Verifying integrations")
	report.Verification = VerifyIntegrations(ctx, w.client, profile.ApiID, resourceID, verifyMethods)
	unverified := 0
	for _, result := range report.Verification {
		if !result.Verified {
			unverified++
		}
	}
	if unverified > 0 {
		report.step("verify", StepFailed, fmt.Sprintf("%d integration(s) not verified", unverified))
		return report, fmt.Errorf("%d integration(s) could not be verified", unverified)
	}
	report.step("verify", StepOk, fmt.Sprintf("%d integration(s) verified", len(report.Verification)))
	message.Success("All %d integrations verified", len(report.Verification))

	return report, nil
}
