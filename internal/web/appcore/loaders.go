package appcore

import (
	"context"
	"net/http"
	"strings"

	"digiparc/framework"
	"digiparc/framework/resolve"
)

// FormationLoader resolves the formation named by the route's id
// parameter. Routes without an id load an empty create form.
func FormationLoader(mode EditorMode) framework.PageLoader[*Context, resolve.Params, FormationPageView] {
	return func(
		ctx context.Context,
		appCtx *Context,
		_ *http.Request,
		nav resolve.Navigator,
		params resolve.Params,
	) (FormationPageView, error) {
		service, err := catalogService(appCtx)
		if err != nil {
			return FormationPageView{}, err
		}

		formation, err := resolve.New(service.Formations(), nav).Resolve(ctx, params)
		if err != nil {
			return FormationPageView{}, err
		}

		return newFormationPageView(service, mode, formation), nil
	}
}

func SubscriberLoader(mode EditorMode) framework.PageLoader[*Context, resolve.Params, SubscriberPageView] {
	return func(
		ctx context.Context,
		appCtx *Context,
		_ *http.Request,
		nav resolve.Navigator,
		params resolve.Params,
	) (SubscriberPageView, error) {
		service, err := catalogService(appCtx)
		if err != nil {
			return SubscriberPageView{}, err
		}

		subscriber, err := resolve.New(service.Subscribers(), nav).Resolve(ctx, params)
		if err != nil {
			return SubscriberPageView{}, err
		}

		return newSubscriberPageView(mode, subscriber), nil
	}
}

func InscriptionLoader(mode EditorMode) framework.PageLoader[*Context, resolve.Params, InscriptionPageView] {
	return func(
		ctx context.Context,
		appCtx *Context,
		_ *http.Request,
		nav resolve.Navigator,
		params resolve.Params,
	) (InscriptionPageView, error) {
		service, err := catalogService(appCtx)
		if err != nil {
			return InscriptionPageView{}, err
		}

		inscription, err := resolve.New(service.Inscriptions(), nav).Resolve(ctx, params)
		if err != nil {
			return InscriptionPageView{}, err
		}

		return newInscriptionPageView(mode, inscription), nil
	}
}

func LoadLoginPage(
	_ context.Context,
	_ *Context,
	r *http.Request,
	_ resolve.Navigator,
	_ resolve.Params,
) (LoginPageView, error) {
	return LoginPageView{
		PageTitle: "Sign in",
		ReturnTo:  sanitizeReturnTo(r.URL.Query().Get("returnTo")),
	}, nil
}

func NewNotFoundView(notFoundContext framework.NotFoundContext) NotFoundView {
	path := strings.TrimSpace(notFoundContext.RequestPath)
	if path == "" {
		path = "/"
	}
	return NotFoundView{PageTitle: "404 Not Found", RequestPath: path}
}

// sanitizeReturnTo keeps only same-site absolute paths.
func sanitizeReturnTo(value string) string {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "/") || strings.HasPrefix(value, "//") || strings.Contains(value, "\\") {
		return "/"
	}
	return value
}
