package framework

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"digiparc/framework/resolve"
	"digiparc/framework/router"
	"github.com/a-h/templ"
)

type EmptyParams struct{}

type ParamsParser[P interface{}] func(path string) (P, bool)

type PageLoader[C interface{}, P interface{}, VM interface{}] func(
	ctx context.Context,
	appCtx C,
	r *http.Request,
	nav resolve.Navigator,
	params P,
) (VM, error)

type PageRenderer[VM interface{}] func(view VM) templ.Component

type LayoutRenderer[VM interface{}] func(view VM, child templ.Component) templ.Component

type PageModule[C interface{}, P interface{}, VM interface{}] struct {
	Pattern     string
	ParseParams ParamsParser[P]
	Load        PageLoader[C, P, VM]
	Render      PageRenderer[VM]
	Layouts     []LayoutRenderer[VM]

	// LiveSelector is the element id patched for live requests. Empty
	// disables live responses for the page.
	LiveSelector string
}

type RuntimeContext[C interface{}] interface {
	AppContext() C
	IsLiveRequest(r *http.Request) bool
	RenderPage(r *http.Request, w http.ResponseWriter, component templ.Component) error
	PatchLive(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error
	IsNotFound(err error) bool
	RespondNotFound(w http.ResponseWriter, r *http.Request, notFoundContext NotFoundContext)
	RespondRedirect(w http.ResponseWriter, r *http.Request, target string)
	RespondServerError(w http.ResponseWriter, r *http.Request, err error)
}

type NotFoundSource string

const (
	NotFoundSourcePageLoad       NotFoundSource = "page_load"
	NotFoundSourceUnmatchedRoute NotFoundSource = "unmatched_route"
	NotFoundSourceRedirect       NotFoundSource = "redirect"
)

type NotFoundContext struct {
	RequestPath         string
	MatchedRoutePattern string
	Source              NotFoundSource
}

type RouteHandler[C interface{}] interface {
	RoutePattern() string
	TryServe(runtime RuntimeContext[C], w http.ResponseWriter, r *http.Request) bool
}

type PageOnlyRouteHandler[C interface{}, P interface{}, VM interface{}] struct {
	Page PageModule[C, P, VM]
}

func (h PageOnlyRouteHandler[C, P, VM]) RoutePattern() string {
	return h.Page.Pattern
}

func (h PageOnlyRouteHandler[C, P, VM]) TryServe(
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
) bool {
	return servePageModule(runtime, w, r, h.Page)
}

// PatternParams returns a parser that matches the path against pattern
// and exposes its wildcard segments as resolve.Params.
func PatternParams(pattern string) ParamsParser[resolve.Params] {
	return func(path string) (resolve.Params, bool) {
		values, ok := router.MatchPathPattern(pattern, path)
		if !ok {
			return resolve.Params{}, false
		}
		return resolve.NewParams(values), true
	}
}

func applyLayouts[VM interface{}](
	layouts []LayoutRenderer[VM],
	view VM,
	child templ.Component,
) templ.Component {
	wrapped := child
	for idx := len(layouts) - 1; idx >= 0; idx-- {
		wrapped = layouts[idx](view, wrapped)
	}
	return wrapped
}

func servePageModule[C interface{}, P interface{}, VM interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	module PageModule[C, P, VM],
) bool {
	params, ok := module.ParseParams(r.URL.Path)
	if !ok {
		return false
	}

	nav := newRequestNavigator(params)
	view, err := module.Load(r.Context(), runtime.AppContext(), r, nav, params)
	if target, redirected := nav.Target(); redirected {
		runtime.RespondRedirect(w, r, target)
		return true
	}
	if err != nil {
		handleLoadError(runtime, w, r, err, module.Pattern, NotFoundSourcePageLoad)
		return true
	}

	component := module.Render(view)
	if module.LiveSelector != "" && runtime.IsLiveRequest(r) {
		if err := runtime.PatchLive(w, r, module.LiveSelector, component); err != nil {
			runtime.RespondServerError(w, r, fmt.Errorf("patch route %q: %w", module.Pattern, err))
		}
		return true
	}

	component = applyLayouts(module.Layouts, view, component)
	if err := runtime.RenderPage(r, w, component); err != nil {
		runtime.RespondServerError(w, r, fmt.Errorf("render route %q: %w", module.Pattern, err))
	}
	return true
}

func handleLoadError[C interface{}](
	runtime RuntimeContext[C],
	w http.ResponseWriter,
	r *http.Request,
	err error,
	routePattern string,
	source NotFoundSource,
) {
	if runtime.IsNotFound(err) {
		runtime.RespondNotFound(w, r, NotFoundContext{
			RequestPath:         r.URL.Path,
			MatchedRoutePattern: routePattern,
			Source:              source,
		})
		return
	}

	// A loader that abandons without recording a redirect still must not render.
	if errors.Is(err, resolve.ErrAbandoned) {
		runtime.RespondNotFound(w, r, NotFoundContext{
			RequestPath:         r.URL.Path,
			MatchedRoutePattern: routePattern,
			Source:              source,
		})
		return
	}

	runtime.RespondServerError(w, r, fmt.Errorf("load route %q: %w", routePattern, err))
}
