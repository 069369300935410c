// Package subscriber registers the subscriber create, view and edit pages.
package subscriber

import (
	"digiparc/framework"
	"digiparc/framework/resolve"
	"digiparc/internal/web/appcore"
	"digiparc/internal/web/components"
	"github.com/a-h/templ"
)

const (
	NewPattern  = "/subscriber/new"
	ViewPattern = "/subscriber/[id]/view"
	EditPattern = "/subscriber/[id]/edit"
)

func Routes() []framework.RouteHandler[*appcore.Context] {
	return []framework.RouteHandler[*appcore.Context]{
		page(NewPattern, appcore.ModeCreate, components.SubscriberForm),
		page(ViewPattern, appcore.ModeView, components.SubscriberDetail),
		page(EditPattern, appcore.ModeEdit, components.SubscriberForm),
	}
}

func page(
	pattern string,
	mode appcore.EditorMode,
	render func(view appcore.SubscriberPageView) templ.Component,
) framework.RouteHandler[*appcore.Context] {
	return framework.PageOnlyRouteHandler[*appcore.Context, resolve.Params, appcore.SubscriberPageView]{
		Page: framework.PageModule[*appcore.Context, resolve.Params, appcore.SubscriberPageView]{
			Pattern:     pattern,
			ParseParams: framework.PatternParams(pattern),
			Load:        appcore.SubscriberLoader(mode),
			Render: func(view appcore.SubscriberPageView) templ.Component {
				if mode != appcore.ModeCreate && !view.Exists() {
					return components.SubscriberForm(view)
				}
				return render(view)
			},
			Layouts: []framework.LayoutRenderer[appcore.SubscriberPageView]{
				func(view appcore.SubscriberPageView, child templ.Component) templ.Component {
					return components.Layout(view, child)
				},
			},
			LiveSelector: components.ContentSelector,
		},
	}
}
