package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"digiparc/framework"
	"digiparc/framework/resolve"
	"github.com/a-h/templ"
)

type testAppContext struct {
	formations map[string]string
}

type componentFunc func(ctx context.Context, w io.Writer) error

func (f componentFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

func textComponent(value string) templ.Component {
	return componentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, value)
		return err
	})
}

func wrapComponent(tag string, child templ.Component) templ.Component {
	return componentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "["+tag+"]"); err != nil {
			return err
		}
		if err := child.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "[/"+tag+"]")
		return err
	})
}

func staticPage(load framework.PageLoader[*testAppContext, framework.EmptyParams, string]) framework.RouteHandler[*testAppContext] {
	return framework.PageOnlyRouteHandler[*testAppContext, framework.EmptyParams, string]{
		Page: framework.PageModule[*testAppContext, framework.EmptyParams, string]{
			Pattern: "/formations",
			ParseParams: func(path string) (framework.EmptyParams, bool) {
				return framework.EmptyParams{}, path == "/formations"
			},
			Load:   load,
			Render: func(view string) templ.Component { return textComponent(view) },
		},
	}
}

func formationPage(pattern string) framework.RouteHandler[*testAppContext] {
	return framework.PageOnlyRouteHandler[*testAppContext, resolve.Params, string]{
		Page: framework.PageModule[*testAppContext, resolve.Params, string]{
			Pattern:     pattern,
			ParseParams: framework.PatternParams(pattern),
			Load: func(
				ctx context.Context,
				appCtx *testAppContext,
				_ *http.Request,
				nav resolve.Navigator,
				params resolve.Params,
			) (string, error) {
				finder := resolve.FinderFunc[string](func(_ context.Context, id string) (resolve.Envelope[string], error) {
					title, ok := appCtx.formations[id]
					if !ok {
						return resolve.Missing[string](), nil
					}
					return resolve.Found(title), nil
				})

				title, err := resolve.New[string](finder, nav).Resolve(ctx, params)
				if err != nil {
					return "", err
				}
				if title == nil {
					return "new formation", nil
				}
				return *title, nil
			},
			Render:       func(view string) templ.Component { return textComponent(view) },
			LiveSelector: "formation-content",
		},
	}
}

func renderInto(target *string) func(*http.Request, http.ResponseWriter, templ.Component) error {
	return func(_ *http.Request, _ http.ResponseWriter, component templ.Component) error {
		var b bytes.Buffer
		if err := component.Render(context.Background(), &b); err != nil {
			return err
		}
		*target = b.String()
		return nil
	}
}

func TestServeRoutePageOnly(t *testing.T) {
	var rendered string

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers: []framework.RouteHandler[*testAppContext]{
			staticPage(func(context.Context, *testAppContext, *http.Request, resolve.Navigator, framework.EmptyParams) (string, error) {
				return "page", nil
			}),
		},
		RenderPage: renderInto(&rendered),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/formations", nil)) {
		t.Fatal("expected route to match")
	}
	if rendered != "page" {
		t.Fatalf("expected page content, got %q", rendered)
	}

	if routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil)) {
		t.Fatal("did not expect missing route to match")
	}
}

func TestNewRequiresRenderPage(t *testing.T) {
	if _, err := New(Config[*testAppContext]{}); err == nil {
		t.Fatal("expected error without render page callback")
	}
}

func TestResolvedRoutes(t *testing.T) {
	appCtx := &testAppContext{formations: map[string]string{"42": "Go basics"}}

	var rendered string
	var redirects []string
	serverErrors := 0

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: appCtx,
		Handlers: []framework.RouteHandler[*testAppContext]{
			formationPage("/formation/new"),
			formationPage("/formation/[id]/view"),
		},
		RenderPage: renderInto(&rendered),
		HandleRedirect: func(_ http.ResponseWriter, _ *http.Request, target string) {
			redirects = append(redirects, target)
		},
		HandleServerError: func(http.ResponseWriter, *http.Request, error) {
			serverErrors++
		},
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	t.Run("create route", func(t *testing.T) {
		rendered = ""
		if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/formation/new", nil)) {
			t.Fatal("expected route to match")
		}
		if rendered != "new formation" {
			t.Fatalf("expected create view, got %q", rendered)
		}
	})

	t.Run("found", func(t *testing.T) {
		rendered = ""
		if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/formation/42/view", nil)) {
			t.Fatal("expected route to match")
		}
		if rendered != "Go basics" {
			t.Fatalf("expected formation title, got %q", rendered)
		}
	})

	t.Run("missing redirects without rendering", func(t *testing.T) {
		rendered = ""
		if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/formation/999/view", nil)) {
			t.Fatal("expected route to match")
		}
		if rendered != "" {
			t.Fatalf("did not expect a render, got %q", rendered)
		}
		if len(redirects) != 1 || redirects[0] != "/404" {
			t.Fatalf("expected single redirect to /404, got %v", redirects)
		}
	})

	if serverErrors != 0 {
		t.Fatalf("did not expect server errors, got %d", serverErrors)
	}
}

func TestStaticRouteWinsOverEarlierWildcard(t *testing.T) {
	var rendered string
	var redirects []string

	createPage := framework.PageOnlyRouteHandler[*testAppContext, resolve.Params, string]{
		Page: framework.PageModule[*testAppContext, resolve.Params, string]{
			Pattern:     "/formation/new",
			ParseParams: framework.PatternParams("/formation/new"),
			Load: func(context.Context, *testAppContext, *http.Request, resolve.Navigator, resolve.Params) (string, error) {
				return "create form", nil
			},
			Render: func(view string) templ.Component { return textComponent(view) },
		},
	}

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{formations: map[string]string{"42": "Go basics"}},
		Handlers: []framework.RouteHandler[*testAppContext]{
			formationPage("/formation/[id]"),
			createPage,
		},
		RenderPage: renderInto(&rendered),
		HandleRedirect: func(_ http.ResponseWriter, _ *http.Request, target string) {
			redirects = append(redirects, target)
		},
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/formation/new", nil)) {
		t.Fatal("expected route to match")
	}
	if rendered != "create form" {
		t.Fatalf("expected static route to serve, got %q", rendered)
	}
	if len(redirects) != 0 {
		t.Fatalf("did not expect the wildcard route to resolve, got redirects %v", redirects)
	}

	rendered = ""
	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/formation/42", nil)) {
		t.Fatal("expected wildcard route to match")
	}
	if rendered != "Go basics" {
		t.Fatalf("expected wildcard route to serve, got %q", rendered)
	}
}

func TestNewRejectsConflictingRoutes(t *testing.T) {
	_, err := New(Config[*testAppContext]{
		Handlers: []framework.RouteHandler[*testAppContext]{
			formationPage("/formation/[id]/view"),
			formationPage("/formation/[slug]/view"),
		},
		RenderPage: renderInto(new(string)),
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
}

func TestRedirectWinsOverLoadResult(t *testing.T) {
	var rendered string
	var redirectTarget string

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers: []framework.RouteHandler[*testAppContext]{
			staticPage(func(_ context.Context, _ *testAppContext, _ *http.Request, nav resolve.Navigator, _ framework.EmptyParams) (string, error) {
				nav.NavigateTo("login")
				return "page", nil
			}),
		},
		RenderPage: renderInto(&rendered),
		HandleRedirect: func(_ http.ResponseWriter, _ *http.Request, target string) {
			redirectTarget = target
		},
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/formations", nil))
	if rendered != "" {
		t.Fatalf("did not expect render after redirect, got %q", rendered)
	}
	if redirectTarget != "/login" {
		t.Fatalf("expected redirect to /login, got %q", redirectTarget)
	}
}

func TestDefaultRedirectUsesSeeOther(t *testing.T) {
	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{formations: map[string]string{}},
		Handlers: []framework.RouteHandler[*testAppContext]{
			formationPage("/formation/[id]/view"),
		},
		RenderPage: func(*http.Request, http.ResponseWriter, templ.Component) error { return nil },
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	rec := httptest.NewRecorder()
	routeEngine.ServeRoute(rec, httptest.NewRequest(http.MethodGet, "/formation/999/view", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/404" {
		t.Fatalf("expected Location /404, got %q", location)
	}
}

func TestLiveRequestsPatchWithoutLayouts(t *testing.T) {
	var patchedSelector string
	var patched string
	rendered := false

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{formations: map[string]string{"42": "Go basics"}},
		Handlers: []framework.RouteHandler[*testAppContext]{
			formationPage("/formation/[id]/view"),
		},
		IsLiveRequest: func(*http.Request) bool { return true },
		RenderPage: func(*http.Request, http.ResponseWriter, templ.Component) error {
			rendered = true
			return nil
		},
		PatchLive: func(_ http.ResponseWriter, _ *http.Request, selectorID string, component templ.Component) error {
			var b bytes.Buffer
			if err := component.Render(context.Background(), &b); err != nil {
				return err
			}
			patchedSelector = selectorID
			patched = b.String()
			return nil
		},
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/formation/42/view", nil))
	if rendered {
		t.Fatal("did not expect full page render for live request")
	}
	if patchedSelector != "formation-content" || patched != "Go basics" {
		t.Fatalf("unexpected patch %q into %q", patched, patchedSelector)
	}
}

func TestNotFoundAndServerErrorClassification(t *testing.T) {
	errNotFound := errors.New("not found")
	errBoom := errors.New("boom")

	t.Run("not found", func(t *testing.T) {
		notFoundCalled := false
		serverErrorCalled := false
		var notFoundContext framework.NotFoundContext

		routeEngine, err := New(Config[*testAppContext]{
			AppContext: &testAppContext{},
			Handlers: []framework.RouteHandler[*testAppContext]{
				staticPage(func(context.Context, *testAppContext, *http.Request, resolve.Navigator, framework.EmptyParams) (string, error) {
					return "", errNotFound
				}),
			},
			RenderPage:      func(*http.Request, http.ResponseWriter, templ.Component) error { return nil },
			IsNotFoundError: func(err error) bool { return errors.Is(err, errNotFound) },
			HandleNotFound: func(_ http.ResponseWriter, _ *http.Request, ctx framework.NotFoundContext) {
				notFoundCalled = true
				notFoundContext = ctx
			},
			HandleServerError: func(http.ResponseWriter, *http.Request, error) {
				serverErrorCalled = true
			},
		})
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}

		if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/formations", nil)) {
			t.Fatal("expected route to match")
		}
		if !notFoundCalled {
			t.Fatal("expected not found callback")
		}
		if notFoundContext.Source != framework.NotFoundSourcePageLoad {
			t.Fatalf("expected not-found source %q, got %q", framework.NotFoundSourcePageLoad, notFoundContext.Source)
		}
		if notFoundContext.MatchedRoutePattern != "/formations" {
			t.Fatalf("expected matched route pattern /formations, got %q", notFoundContext.MatchedRoutePattern)
		}
		if notFoundContext.RequestPath != "/formations" {
			t.Fatalf("expected request path /formations, got %q", notFoundContext.RequestPath)
		}
		if serverErrorCalled {
			t.Fatal("did not expect server error callback")
		}
	})

	t.Run("abandoned without redirect", func(t *testing.T) {
		notFoundCalled := false
		serverErrorCalled := false

		routeEngine, err := New(Config[*testAppContext]{
			AppContext: &testAppContext{},
			Handlers: []framework.RouteHandler[*testAppContext]{
				staticPage(func(context.Context, *testAppContext, *http.Request, resolve.Navigator, framework.EmptyParams) (string, error) {
					return "", resolve.ErrAbandoned
				}),
			},
			RenderPage: func(*http.Request, http.ResponseWriter, templ.Component) error { return nil },
			HandleNotFound: func(http.ResponseWriter, *http.Request, framework.NotFoundContext) {
				notFoundCalled = true
			},
			HandleServerError: func(http.ResponseWriter, *http.Request, error) {
				serverErrorCalled = true
			},
		})
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}

		routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/formations", nil))
		if !notFoundCalled || serverErrorCalled {
			t.Fatalf("expected not-found only, got notFound=%v serverError=%v", notFoundCalled, serverErrorCalled)
		}
	})

	t.Run("server error", func(t *testing.T) {
		notFoundCalled := false
		var serverErr error

		routeEngine, err := New(Config[*testAppContext]{
			AppContext: &testAppContext{},
			Handlers: []framework.RouteHandler[*testAppContext]{
				staticPage(func(context.Context, *testAppContext, *http.Request, resolve.Navigator, framework.EmptyParams) (string, error) {
					return "", errBoom
				}),
			},
			RenderPage:      func(*http.Request, http.ResponseWriter, templ.Component) error { return nil },
			IsNotFoundError: func(error) bool { return false },
			HandleNotFound: func(http.ResponseWriter, *http.Request, framework.NotFoundContext) {
				notFoundCalled = true
			},
			HandleServerError: func(_ http.ResponseWriter, _ *http.Request, err error) {
				serverErr = err
			},
		})
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}

		if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/formations", nil)) {
			t.Fatal("expected route to match")
		}
		if notFoundCalled {
			t.Fatal("did not expect not found callback")
		}
		if !errors.Is(serverErr, errBoom) {
			t.Fatalf("expected wrapped boom error, got %v", serverErr)
		}
	})
}

func TestLayoutOrder(t *testing.T) {
	var rendered string

	routeEngine, err := New(Config[*testAppContext]{
		AppContext: &testAppContext{},
		Handlers: []framework.RouteHandler[*testAppContext]{
			framework.PageOnlyRouteHandler[*testAppContext, framework.EmptyParams, string]{
				Page: framework.PageModule[*testAppContext, framework.EmptyParams, string]{
					Pattern: "/formations",
					ParseParams: func(path string) (framework.EmptyParams, bool) {
						return framework.EmptyParams{}, path == "/formations"
					},
					Load: func(context.Context, *testAppContext, *http.Request, resolve.Navigator, framework.EmptyParams) (string, error) {
						return "body", nil
					},
					Render: func(view string) templ.Component { return textComponent(view) },
					Layouts: []framework.LayoutRenderer[string]{
						func(_ string, child templ.Component) templ.Component {
							return wrapComponent("outer", child)
						},
						func(_ string, child templ.Component) templ.Component {
							return wrapComponent("inner", child)
						},
					},
				},
			},
		},
		RenderPage: renderInto(&rendered),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if !routeEngine.ServeRoute(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/formations", nil)) {
		t.Fatal("expected route to match")
	}
	if rendered != "[outer][inner]body[/inner][/outer]" {
		t.Fatalf("unexpected render output: %q", rendered)
	}
	if patterns := routeEngine.Patterns(); len(patterns) != 1 || patterns[0] != "/formations" {
		t.Fatalf("unexpected patterns %v", patterns)
	}
}
