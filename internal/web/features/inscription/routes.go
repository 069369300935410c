// Package inscription registers the pages enrolling a subscriber into a
// formation.
package inscription

import (
	"digiparc/framework"
	"digiparc/framework/resolve"
	"digiparc/internal/web/appcore"
	"digiparc/internal/web/components"
	"github.com/a-h/templ"
)

const (
	NewPattern  = "/inscription/new"
	ViewPattern = "/inscription/[id]/view"
	EditPattern = "/inscription/[id]/edit"
)

func Routes() []framework.RouteHandler[*appcore.Context] {
	return []framework.RouteHandler[*appcore.Context]{
		page(NewPattern, appcore.ModeCreate),
		page(ViewPattern, appcore.ModeView),
		page(EditPattern, appcore.ModeEdit),
	}
}

func page(pattern string, mode appcore.EditorMode) framework.RouteHandler[*appcore.Context] {
	return framework.PageOnlyRouteHandler[*appcore.Context, resolve.Params, appcore.InscriptionPageView]{
		Page: framework.PageModule[*appcore.Context, resolve.Params, appcore.InscriptionPageView]{
			Pattern:     pattern,
			ParseParams: framework.PatternParams(pattern),
			Load:        appcore.InscriptionLoader(mode),
			Render:      render(mode),
			Layouts: []framework.LayoutRenderer[appcore.InscriptionPageView]{
				func(view appcore.InscriptionPageView, child templ.Component) templ.Component {
					return components.Layout(view, child)
				},
			},
			LiveSelector: components.ContentSelector,
		},
	}
}

// render shows the detail page only for a resolved inscription in view
// mode. Every other case, blank ids included, gets the form.
func render(mode appcore.EditorMode) framework.PageRenderer[appcore.InscriptionPageView] {
	return func(view appcore.InscriptionPageView) templ.Component {
		if mode == appcore.ModeView && view.Exists() {
			return components.InscriptionDetail(view)
		}
		return components.InscriptionForm(view)
	}
}
