package router

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
)

var (
	wildcardNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	idPattern           = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

type segment struct {
	name    string
	isParam bool
}

type route struct {
	index       int
	pattern     string
	segments    []segment
	staticCount int
	shapeKey    string
}

type Match struct {
	// Index is the position of the matched pattern in the arguments to New.
	Index   int
	Pattern string
	Params  map[string]string
}

// Router matches request paths against patterns such as
// "/formation/[id]/edit". More specific routes (more static segments)
// are tried first.
type Router struct {
	routes []route
}

func New(patterns ...string) (*Router, error) {
	if len(patterns) == 0 {
		return nil, errors.New("router needs at least one pattern")
	}

	routes := make([]route, 0, len(patterns))
	seenShape := make(map[string]string, len(patterns))
	for idx, pattern := range patterns {
		parsed, err := parseRoute(pattern)
		if err != nil {
			return nil, err
		}
		parsed.index = idx

		if existing, ok := seenShape[parsed.shapeKey]; ok {
			return nil, fmt.Errorf("route pattern conflict: %q and %q", existing, parsed.pattern)
		}
		seenShape[parsed.shapeKey] = parsed.pattern
		routes = append(routes, parsed)
	}

	sort.SliceStable(routes, func(i int, j int) bool {
		left := routes[i]
		right := routes[j]

		if left.staticCount != right.staticCount {
			return left.staticCount > right.staticCount
		}
		if len(left.segments) != len(right.segments) {
			return len(left.segments) > len(right.segments)
		}
		return left.pattern < right.pattern
	})

	return &Router{routes: routes}, nil
}

func (router *Router) Patterns() []string {
	out := make([]string, 0, len(router.routes))
	for _, r := range router.routes {
		out = append(out, r.pattern)
	}
	return out
}

func (router *Router) Match(requestPath string) (Match, bool) {
	requestSegments := splitPathSegments(requestPath)

	for _, r := range router.routes {
		params, ok := matchSegments(r.segments, requestSegments)
		if !ok {
			continue
		}
		return Match{Index: r.index, Pattern: r.pattern, Params: params}, true
	}

	return Match{}, false
}

// MatchPathPattern matches a single pattern; params is nil when the
// pattern has no wildcard segments.
func MatchPathPattern(pattern string, requestPath string) (map[string]string, bool) {
	parsed, err := parseRoute(pattern)
	if err != nil {
		return nil, false
	}

	return matchSegments(parsed.segments, splitPathSegments(requestPath))
}

func IsValidID(value string) bool {
	return idPattern.MatchString(value)
}

func parseRoute(pattern string) (route, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(pattern))
	parts := splitPathSegments(cleaned)

	segments := make([]segment, 0, len(parts))
	shapeParts := make([]string, 0, len(parts))
	staticCount := 0
	for _, part := range parts {
		name, isParam, err := parseWildcardSegment(part)
		if err != nil {
			return route{}, fmt.Errorf("route %q: %w", pattern, err)
		}

		if isParam {
			segments = append(segments, segment{name: name, isParam: true})
			shapeParts = append(shapeParts, ":")
			continue
		}

		segments = append(segments, segment{name: part})
		shapeParts = append(shapeParts, part)
		staticCount++
	}

	return route{
		pattern:     cleaned,
		segments:    segments,
		staticCount: staticCount,
		shapeKey:    "/" + strings.Join(shapeParts, "/"),
	}, nil
}

func parseWildcardSegment(part string) (string, bool, error) {
	if strings.HasPrefix(part, "[") || strings.HasSuffix(part, "]") {
		if !strings.HasPrefix(part, "[") || !strings.HasSuffix(part, "]") {
			return "", false, fmt.Errorf("invalid wildcard segment %q", part)
		}

		name := strings.TrimSpace(part[1 : len(part)-1])
		if !wildcardNamePattern.MatchString(name) {
			return "", false, fmt.Errorf("invalid wildcard name %q", name)
		}
		return name, true, nil
	}

	if strings.ContainsAny(part, "[]") {
		return "", false, fmt.Errorf("invalid static segment %q", part)
	}

	return "", false, nil
}

func matchSegments(segments []segment, requestSegments []string) (map[string]string, bool) {
	if len(segments) != len(requestSegments) {
		return nil, false
	}

	var params map[string]string
	for idx, seg := range segments {
		value := requestSegments[idx]
		if !seg.isParam {
			if seg.name != value {
				return nil, false
			}
			continue
		}

		if params == nil {
			params = make(map[string]string, 2)
		}
		params[seg.name] = value
	}

	return params, true
}

func splitPathSegments(raw string) []string {
	cleaned := path.Clean("/" + strings.TrimSpace(raw))
	trimmed := strings.Trim(cleaned, "/")
	if trimmed == "" {
		return []string{}
	}

	return strings.Split(trimmed, "/")
}
