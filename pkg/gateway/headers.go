package gateway

import (
	"strings"
)

// Mapping expressions understood by API Gateway. Static values must be
// single-quoted on the wire; context and stageVariables references must not.
const (
	claimEmailRef      = "context.authorizer.claims.email"
	claimAdminIdRef    = "context.authorizer.claims.custom:admin_id"
	claimCustomerIdRef = "context.authorizer.claims.custom:customer_id"
	requestIdRef       = "context.requestId"
	knownTokenKeyRef   = "stageVariables.knownTokenKey"
)

// IsMappingRef reports whether a header value is a runtime mapping reference
// rather than a static value.
func IsMappingRef(value string) bool {
	return strings.HasPrefix(value, "context.") || strings.HasPrefix(value, "stageVariables.")
}

// QuoteStatic renders a static header value for a mapping expression.
func QuoteStatic(value string) string {
	return "'" + value + "'"
}

// HeaderValue renders a header value for the integration request mapping:
// runtime references pass through, static values get quoted.
func HeaderValue(value string) string {
	if IsMappingRef(value) {
		return value
	}
	return QuoteStatic(value)
}

// AuthHeaders returns the backend headers forwarded for an auth type, values
// unquoted. The integration builder prefixes the names with
// integration.request.header and quotes static values. API_KEY carries no
// token header: the gateway itself checks the key before the backend is
// reached.
func AuthHeaders(auth AuthType) map[string]string {
	headers := map[string]string{
		"X-Amzn-Request-Id": requestIdRef,
	}

	switch auth {
	case AuthCognitoAdmin:
		headers["Claim-Email"] = claimEmailRef
		headers["Claim-User-Id"] = claimAdminIdRef
		headers["KNOWN-TOKEN-KEY"] = knownTokenKeyRef
	case AuthCognitoCustomer:
		headers["Claim-Email"] = claimEmailRef
		headers["Claim-User-Id"] = claimCustomerIdRef
		headers["KNOWN-TOKEN-KEY"] = knownTokenKeyRef
	case AuthNone:
		headers["KNOWN-TOKEN-KEY"] = knownTokenKeyRef
	}

	return headers
}

const (
	corsAllowHeadersKey = "Access-Control-Allow-Headers"
	corsAllowMethodsKey = "Access-Control-Allow-Methods"
	corsAllowOriginKey  = "Access-Control-Allow-Origin"
)

// CorsHeaders returns the response header catalog for a CORS type, values
// already quoted for the integration response mapping. Nil for CorsNone.
func CorsHeaders(cors CorsType) map[string]string {
	switch cors {
	case CorsDefault:
		return map[string]string{
			corsAllowHeadersKey: "'Content-Type,Authorization,X-Amz-Date,X-Api-Key,X-Amz-Security-Token,X-Api-Version'",
			corsAllowMethodsKey: "'DELETE,GET,HEAD,OPTIONS,PATCH,POST,PUT'",
			corsAllowOriginKey:  "'*'",
		}
	case CorsRestricted:
		return map[string]string{
			corsAllowHeadersKey: "'Content-Type,Authorization'",
			corsAllowMethodsKey: "'GET,POST,OPTIONS'",
			corsAllowOriginKey:  "'https://example.com'",
		}
	}
	return nil
}
