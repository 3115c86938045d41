package gateway

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	pathFormat  = regexp.MustCompile(`^/[\w\-/{}]+$`)
	paramFormat = regexp.MustCompile(`\{(\w+)\}`)
)

// Path is a backend path parsed into its ordered segments. The first segment
// is the backend service prefix; the gateway exposes the path without it.
type Path struct {
	raw      string
	segments []string
}

func ParsePath(raw string) (Path, error) {
	trimmed := strings.TrimSpace(raw)
	if !pathFormat.MatchString(trimmed) {
		return Path{}, fmt.Errorf("invalid path %q: must start with / and contain only letters, digits, -, _, {}", raw)
	}
	if strings.Contains(trimmed, "//") {
		return Path{}, fmt.Errorf("invalid path %q: empty segment", raw)
	}
	if strings.HasSuffix(trimmed, "/") {
		return Path{}, fmt.Errorf("invalid path %q: trailing slash", raw)
	}

	segments := strings.Split(strings.TrimPrefix(trimmed, "/"), "/")
	return Path{raw: trimmed, segments: segments}, nil
}

func (p Path) String() string {
	return p.raw
}

// Segments returns every segment of the backend path in order.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

// GatewaySegments returns the segments exposed on the gateway: the backend
// path minus its leading service prefix. A single-segment path maps to the
// API root and yields nothing.
func (p Path) GatewaySegments() []string {
	if len(p.segments) <= 1 {
		return nil
	}
	return append([]string(nil), p.segments[1:]...)
}

// GatewayPath renders the gateway-side path, "/" for the API root.
func (p Path) GatewayPath() string {
	segs := p.GatewaySegments()
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// Params extracts the {name} path parameters exposed on the gateway, first
// occurrence order, duplicates removed. Parameters in the stripped service
// prefix are not resolvable on the gateway and are ignored.
func (p Path) Params() []string {
	var params []string
	seen := make(map[string]bool)
	for _, segment := range p.GatewaySegments() {
		for _, match := range paramFormat.FindAllStringSubmatch(segment, -1) {
			if !seen[match[1]] {
				seen[match[1]] = true
				params = append(params, match[1])
			}
		}
	}
	return params
}

// IsParam reports whether a segment is a {name} path parameter.
func IsParam(segment string) bool {
	return strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}
