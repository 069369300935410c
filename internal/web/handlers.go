package web

import (
	"fmt"
	"net/http"

	"digiparc/framework"
	"digiparc/framework/httpserver"
	"digiparc/framework/router"
	"digiparc/internal/catalog"
	"digiparc/internal/config"
	"digiparc/internal/web/appcore"
	"digiparc/internal/web/components"
	"digiparc/internal/web/features/formation"
	"digiparc/internal/web/features/inscription"
	"digiparc/internal/web/features/login"
	"digiparc/internal/web/features/subscriber"
	"github.com/a-h/templ"
	"go.uber.org/zap"
)

// Handlers lists every page route, feature by feature.
func Handlers() []framework.RouteHandler[*appcore.Context] {
	handlers := make([]framework.RouteHandler[*appcore.Context], 0, 10)
	handlers = append(handlers, formation.Routes()...)
	handlers = append(handlers, subscriber.Routes()...)
	handlers = append(handlers, inscription.Routes()...)
	handlers = append(handlers, login.Routes()...)
	return handlers
}

// RouteTable orders the registered patterns the way the engine dispatches
// them, most specific first.
func RouteTable() (*router.Router, error) {
	handlers := Handlers()
	patterns := make([]string, 0, len(handlers))
	for _, handler := range handlers {
		patterns = append(patterns, handler.RoutePattern())
	}
	return router.New(patterns...)
}

func NewHandler(cfg config.Config, service *catalog.Service, logger *zap.Logger) (http.Handler, error) {
	handler, err := httpserver.New(httpserver.Config[*appcore.Context]{
		AppContext: appcore.NewContext(service),
		Handlers:   Handlers(),
		Static: httpserver.StaticMount{
			URLPrefix: staticURLPrefix,
			Dir:       cfg.StaticDir,
		},
		CachePolicies:   cachePolicies(cfg),
		IsNotFoundError: appcore.IsNotFoundError,
		NotFoundPage:    notFoundPage,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create http server: %w", err)
	}
	return handler, nil
}

func notFoundPage(notFoundContext framework.NotFoundContext) templ.Component {
	view := appcore.NewNotFoundView(notFoundContext)
	return components.Layout(view, components.NotFound(view))
}
