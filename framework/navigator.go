package framework

import (
	"net/url"
	"strings"

	"digiparc/framework/resolve"
)

// requestNavigator records the redirect requested while a page loads.
// The engine applies it once the loader has returned.
type requestNavigator struct {
	params resolve.Params
	target string
	set    bool
}

var _ resolve.Navigator = (*requestNavigator)(nil)

func newRequestNavigator[P interface{}](params P) *requestNavigator {
	nav := &requestNavigator{}
	if routeParams, ok := any(params).(resolve.Params); ok {
		nav.params = routeParams
	}
	return nav
}

// NavigateTo replaces any earlier target; the last navigation wins.
func (n *requestNavigator) NavigateTo(segments ...string) {
	n.target = NavigationPath(segments...)
	n.set = true
}

func (n *requestNavigator) Params() resolve.Params {
	return n.params
}

func (n *requestNavigator) Target() (string, bool) {
	return n.target, n.set
}

// NavigationPath joins route segments into an absolute, escaped path.
func NavigationPath(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.Trim(strings.TrimSpace(segment), "/")
		if segment == "" {
			continue
		}
		escaped = append(escaped, url.PathEscape(segment))
	}

	return "/" + strings.Join(escaped, "/")
}
