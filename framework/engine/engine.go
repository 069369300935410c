package engine

import (
	"errors"
	"fmt"
	"net/http"

	"digiparc/framework"
	"digiparc/framework/router"
	"github.com/a-h/templ"
)

type Config[C interface{}] struct {
	AppContext C
	Handlers   []framework.RouteHandler[C]

	IsLiveRequest func(r *http.Request) bool
	RenderPage    func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	PatchLive     func(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error

	IsNotFoundError   func(err error) bool
	HandleNotFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	HandleRedirect    func(w http.ResponseWriter, r *http.Request, target string)
	HandleServerError func(w http.ResponseWriter, r *http.Request, err error)
}

type Engine[C interface{}] struct {
	appContext C
	handlers   []framework.RouteHandler[C]
	routes     *router.Router

	isLive     func(r *http.Request) bool
	renderPage func(r *http.Request, w http.ResponseWriter, component templ.Component) error
	patchLive  func(w http.ResponseWriter, r *http.Request, selectorID string, component templ.Component) error

	isNotFound  func(err error) bool
	notFound    func(w http.ResponseWriter, r *http.Request, notFoundContext framework.NotFoundContext)
	redirect    func(w http.ResponseWriter, r *http.Request, target string)
	serverError func(w http.ResponseWriter, r *http.Request, err error)
}

func New[C interface{}](cfg Config[C]) (*Engine[C], error) {
	if cfg.RenderPage == nil {
		return nil, errors.New("render page callback is required")
	}

	isLive := cfg.IsLiveRequest
	if isLive == nil {
		isLive = func(*http.Request) bool { return false }
	}

	patchLive := cfg.PatchLive
	if patchLive == nil {
		patchLive = func(_ http.ResponseWriter, _ *http.Request, _ string, _ templ.Component) error {
			return errors.New("live patches are not supported")
		}
	}

	isNotFound := cfg.IsNotFoundError
	if isNotFound == nil {
		isNotFound = func(error) bool { return false }
	}

	notFound := cfg.HandleNotFound
	if notFound == nil {
		notFound = func(w http.ResponseWriter, r *http.Request, _ framework.NotFoundContext) {
			http.NotFound(w, r)
		}
	}

	redirect := cfg.HandleRedirect
	if redirect == nil {
		redirect = func(w http.ResponseWriter, r *http.Request, target string) {
			http.Redirect(w, r, target, http.StatusSeeOther)
		}
	}

	serverError := cfg.HandleServerError
	if serverError == nil {
		serverError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}

	var routes *router.Router
	if len(cfg.Handlers) > 0 {
		patterns := make([]string, 0, len(cfg.Handlers))
		for _, handler := range cfg.Handlers {
			patterns = append(patterns, handler.RoutePattern())
		}

		var err error
		routes, err = router.New(patterns...)
		if err != nil {
			return nil, fmt.Errorf("build route table: %w", err)
		}
	}

	return &Engine[C]{
		appContext:  cfg.AppContext,
		handlers:    cfg.Handlers,
		routes:      routes,
		isLive:      isLive,
		renderPage:  cfg.RenderPage,
		patchLive:   patchLive,
		isNotFound:  isNotFound,
		notFound:    notFound,
		redirect:    redirect,
		serverError: serverError,
	}, nil
}

// ServeRoute dispatches to the most specific route matching the request
// path. Routes with more static segments win regardless of registration
// order.
func (engine *Engine[C]) ServeRoute(w http.ResponseWriter, r *http.Request) bool {
	if engine.routes == nil {
		return false
	}

	match, ok := engine.routes.Match(r.URL.Path)
	if !ok {
		return false
	}

	return engine.handlers[match.Index].TryServe(engine, w, r)
}

func (engine *Engine[C]) Patterns() []string {
	patterns := make([]string, 0, len(engine.handlers))
	for _, handler := range engine.handlers {
		patterns = append(patterns, handler.RoutePattern())
	}
	return patterns
}

func (engine *Engine[C]) AppContext() C {
	return engine.appContext
}

func (engine *Engine[C]) IsLiveRequest(r *http.Request) bool {
	return engine.isLive(r)
}

func (engine *Engine[C]) RenderPage(
	r *http.Request,
	w http.ResponseWriter,
	component templ.Component,
) error {
	return engine.renderPage(r, w, component)
}

func (engine *Engine[C]) PatchLive(
	w http.ResponseWriter,
	r *http.Request,
	selectorID string,
	component templ.Component,
) error {
	return engine.patchLive(w, r, selectorID, component)
}

func (engine *Engine[C]) IsNotFound(err error) bool {
	return engine.isNotFound(err)
}

func (engine *Engine[C]) RespondNotFound(
	w http.ResponseWriter,
	r *http.Request,
	notFoundContext framework.NotFoundContext,
) {
	engine.notFound(w, r, notFoundContext)
}

func (engine *Engine[C]) RespondRedirect(w http.ResponseWriter, r *http.Request, target string) {
	engine.redirect(w, r, target)
}

func (engine *Engine[C]) RespondServerError(w http.ResponseWriter, r *http.Request, err error) {
	engine.serverError(w, r, err)
}
