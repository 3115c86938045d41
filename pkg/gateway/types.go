package gateway

import (
	"fmt"
	"strings"
)

// AuthType selects how created methods authorize callers.
type AuthType string

const (
	AuthCognitoAdmin    AuthType = "COGNITO_ADMIN"
	AuthCognitoCustomer AuthType = "COGNITO_CUSTOMER"
	AuthNone            AuthType = "NO_AUTH"
	AuthApiKey          AuthType = "API_KEY"
)

func ParseAuthType(s string) (AuthType, error) {
	switch AuthType(strings.ToUpper(strings.TrimSpace(s))) {
	case AuthCognitoAdmin:
		return AuthCognitoAdmin, nil
	case AuthCognitoCustomer:
		return AuthCognitoCustomer, nil
	case AuthNone, "":
		return AuthNone, nil
	case AuthApiKey:
		return AuthApiKey, nil
	}
	return "", fmt.Errorf("unknown auth type %q", s)
}

// IsCognito reports whether the auth type is backed by a Cognito authorizer.
func (a AuthType) IsCognito() bool {
	return a == AuthCognitoAdmin || a == AuthCognitoCustomer
}

// CorsType selects the header catalog applied to the OPTIONS method.
type CorsType string

const (
	CorsDefault    CorsType = "DEFAULT"
	CorsRestricted CorsType = "RESTRICTED"
	CorsNone       CorsType = "NONE"
)

func ParseCorsType(s string) (CorsType, error) {
	switch CorsType(strings.ToUpper(strings.TrimSpace(s))) {
	case CorsDefault, "":
		return CorsDefault, nil
	case CorsRestricted:
		return CorsRestricted, nil
	case CorsNone:
		return CorsNone, nil
	}
	return "", fmt.Errorf("unknown cors type %q", s)
}

const (
	// DefaultTimeoutMillis is the API Gateway maximum integration timeout.
	DefaultTimeoutMillis = 29000
	MinTimeoutMillis     = 50

	passthroughWhenNoMatch = "WHEN_NO_MATCH"
)

var validMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
	"PATCH":  true,
	"HEAD":   true,
}

// ParseMethods validates and normalizes a comma separated list of HTTP
// methods. OPTIONS is rejected: it is owned by the CORS step.
func ParseMethods(raw string) ([]string, error) {
	var methods []string
	seen := make(map[string]bool)
	for _, m := range strings.Split(raw, ",") {
		method := strings.ToUpper(strings.TrimSpace(m))
		if method == "" {
			continue
		}
		if !validMethods[method] {
			return nil, fmt.Errorf("invalid HTTP method %q, valid methods are GET, POST, PUT, DELETE, PATCH, HEAD", method)
		}
		if !seen[method] {
			seen[method] = true
			methods = append(methods, method)
		}
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("no HTTP methods provided")
	}
	return methods, nil
}

// ValidateTimeout bounds the integration timeout to what API Gateway accepts.
func ValidateTimeout(ms int32) error {
	if ms < MinTimeoutMillis || ms > DefaultTimeoutMillis {
		return fmt.Errorf("timeout %dms out of range [%d, %d]", ms, MinTimeoutMillis, DefaultTimeoutMillis)
	}
	return nil
}
