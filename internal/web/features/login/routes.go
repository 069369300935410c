// Package login registers the sign-in page.
package login

import (
	"digiparc/framework"
	"digiparc/framework/resolve"
	"digiparc/internal/web/appcore"
	"digiparc/internal/web/components"
	"github.com/a-h/templ"
)

const Pattern = "/login"

func Routes() []framework.RouteHandler[*appcore.Context] {
	return []framework.RouteHandler[*appcore.Context]{
		framework.PageOnlyRouteHandler[*appcore.Context, resolve.Params, appcore.LoginPageView]{
			Page: framework.PageModule[*appcore.Context, resolve.Params, appcore.LoginPageView]{
				Pattern:     Pattern,
				ParseParams: framework.PatternParams(Pattern),
				Load:        appcore.LoadLoginPage,
				Render:      components.Login,
				Layouts: []framework.LayoutRenderer[appcore.LoginPageView]{
					func(view appcore.LoginPageView, child templ.Component) templ.Component {
						return components.Layout(view, child)
					},
				},
				LiveSelector: components.ContentSelector,
			},
		},
	}
}
