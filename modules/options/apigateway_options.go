package options

import (
	"regexp"
)

var ApiIdOpt = Option{
	Name:        "api-id",
	Description: "API Gateway REST API ID",
	Required:    false,
	Type:        String,
	Value:       "",
	ValueFormat: regexp.MustCompile("^[a-z0-9]+$"),
}

var ApiIdsOpt = Option{
	Name:        "api-ids",
	Description: "Comma separated list of REST API IDs to audit (all APIs in the region when empty)",
	Required:    false,
	Type:        String,
	Value:       "",
}

var BackendPathOpt = Option{
	Name:        "backend-path",
	Description: "Slash-delimited backend path, e.g. /billing/invoices/{invoice_id}",
	Required:    true,
	Type:        String,
	Value:       "",
	ValueFormat: regexp.MustCompile(`^/[\w\-/{}]+$`),
}

var MethodsOpt = Option{
	Name:        "methods",
	Short:       "m",
	Description: "Comma separated list of HTTP methods to create",
	Required:    true,
	Type:        String,
	Value:       "",
	ValueFormat: regexp.MustCompile(`(?i)^[a-z]+(,[a-z]+)*$`),
}

var AuthTypeOpt = Option{
	Name:        "auth-type",
	Description: "Authorization mode for the created methods",
	Required:    false,
	Type:        String,
	Value:       "",
	ValueList:   []string{"COGNITO_ADMIN", "COGNITO_CUSTOMER", "NO_AUTH", "API_KEY"},
}

var CorsTypeOpt = Option{
	Name:        "cors-type",
	Description: "CORS catalog applied to the OPTIONS method",
	Required:    false,
	Type:        String,
	Value:       "",
	ValueList:   []string{"DEFAULT", "RESTRICTED", "NONE"},
}

var BackendHostOpt = Option{
	Name:        "backend-host",
	Description: "Backend base URL the integration proxies to, e.g. https://${stageVariables.urlBackend}",
	Required:    false,
	Type:        String,
	Value:       "",
}

var ConnectionVariableOpt = Option{
	Name:        "connection-variable",
	Description: "Stage variable holding the VPC Link ID",
	Required:    false,
	Type:        String,
	Value:       "",
}

var AuthorizerIdOpt = Option{
	Name:        "authorizer-id",
	Description: "API Gateway authorizer ID for Cognito auth modes",
	Required:    false,
	Type:        String,
	Value:       "",
}

var CognitoPoolOpt = Option{
	Name:        "cognito-pool",
	Description: "Cognito user pool name the authorizer tokens come from",
	Required:    false,
	Type:        String,
	Value:       "",
}

var TimeoutOpt = Option{
	Name:        "timeout-ms",
	Description: "Integration timeout in milliseconds (29000 when unset)",
	Required:    false,
	Type:        Int,
	Value:       "",
}

var EndpointProfileOpt = Option{
	Name:        "endpoint-profile",
	Description: "Named profile from the profiles file",
	Required:    false,
	Type:        String,
	Value:       "",
}

var ProfilesFileOpt = Option{
	Name:        "profiles-file",
	Description: "Path to the YAML profiles file",
	Required:    false,
	Type:        String,
	Value:       "",
}
