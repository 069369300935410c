// Package formation registers the formation create, view and edit pages.
package formation

import (
	"digiparc/framework"
	"digiparc/framework/resolve"
	"digiparc/internal/web/appcore"
	"digiparc/internal/web/components"
	"github.com/a-h/templ"
)

const (
	NewPattern  = "/formation/new"
	ViewPattern = "/formation/[id]/view"
	EditPattern = "/formation/[id]/edit"
)

func Routes() []framework.RouteHandler[*appcore.Context] {
	return []framework.RouteHandler[*appcore.Context]{
		page(NewPattern, appcore.ModeCreate, components.FormationForm),
		page(ViewPattern, appcore.ModeView, components.FormationDetail),
		page(EditPattern, appcore.ModeEdit, components.FormationForm),
	}
}

func page(
	pattern string,
	mode appcore.EditorMode,
	render func(view appcore.FormationPageView) templ.Component,
) framework.RouteHandler[*appcore.Context] {
	return framework.PageOnlyRouteHandler[*appcore.Context, resolve.Params, appcore.FormationPageView]{
		Page: framework.PageModule[*appcore.Context, resolve.Params, appcore.FormationPageView]{
			Pattern:     pattern,
			ParseParams: framework.PatternParams(pattern),
			Load:        appcore.FormationLoader(mode),
			Render:      renderFor(mode, render),
			Layouts: []framework.LayoutRenderer[appcore.FormationPageView]{
				func(view appcore.FormationPageView, child templ.Component) templ.Component {
					return components.Layout(view, child)
				},
			},
			LiveSelector: components.ContentSelector,
		},
	}
}

// renderFor falls back to the create form when an id route resolved no
// formation, which happens for blank ids.
func renderFor(
	mode appcore.EditorMode,
	render func(view appcore.FormationPageView) templ.Component,
) framework.PageRenderer[appcore.FormationPageView] {
	return func(view appcore.FormationPageView) templ.Component {
		if mode != appcore.ModeCreate && !view.Exists() {
			return components.FormationForm(view)
		}
		return render(view)
	}
}
