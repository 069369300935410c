package appcore

import (
	"html/template"
	"strconv"

	"digiparc/internal/catalog"
)

type Section string

const (
	SectionFormations   Section = "formations"
	SectionSubscribers  Section = "subscribers"
	SectionInscriptions Section = "inscriptions"
	SectionAccount      Section = "account"
)

type EditorMode string

const (
	ModeCreate EditorMode = "create"
	ModeView   EditorMode = "view"
	ModeEdit   EditorMode = "edit"
)

const excerptMaxChars = 160

// LayoutView is implemented by every page view rendered inside the root
// layout.
type LayoutView interface {
	LayoutPageTitle() string
	LayoutSection() Section
}

type FormationPageView struct {
	PageTitle       string
	Mode            EditorMode
	Formation       catalog.Formation
	DescriptionHTML template.HTML
	Excerpt         string
}

func (v FormationPageView) LayoutPageTitle() string { return v.PageTitle }
func (v FormationPageView) LayoutSection() Section { return SectionFormations }

func (v FormationPageView) Exists() bool {
	return v.Mode != ModeCreate
}

func (v FormationPageView) ViewURL() string {
	return FormationURL(v.Formation.ID, ModeView)
}

func (v FormationPageView) EditURL() string {
	return FormationURL(v.Formation.ID, ModeEdit)
}

type SubscriberPageView struct {
	PageTitle  string
	Mode       EditorMode
	Subscriber catalog.Subscriber
}

func (v SubscriberPageView) LayoutPageTitle() string { return v.PageTitle }
func (v SubscriberPageView) LayoutSection() Section { return SectionSubscribers }

func (v SubscriberPageView) Exists() bool {
	return v.Mode != ModeCreate
}

func (v SubscriberPageView) ViewURL() string {
	return SubscriberURL(v.Subscriber.ID, ModeView)
}

func (v SubscriberPageView) EditURL() string {
	return SubscriberURL(v.Subscriber.ID, ModeEdit)
}

type InscriptionPageView struct {
	PageTitle   string
	Mode        EditorMode
	Inscription catalog.Inscription
}

func (v InscriptionPageView) LayoutPageTitle() string { return v.PageTitle }
func (v InscriptionPageView) LayoutSection() Section { return SectionInscriptions }

func (v InscriptionPageView) Exists() bool {
	return v.Mode != ModeCreate
}

func (v InscriptionPageView) ViewURL() string {
	return InscriptionURL(v.Inscription.ID, ModeView)
}

func (v InscriptionPageView) EditURL() string {
	return InscriptionURL(v.Inscription.ID, ModeEdit)
}

func (v InscriptionPageView) FormationID() int64 {
	if v.Inscription.Formation == nil {
		return 0
	}
	return v.Inscription.Formation.ID
}

func (v InscriptionPageView) SubscriberID() int64 {
	if v.Inscription.Subscriber == nil {
		return 0
	}
	return v.Inscription.Subscriber.ID
}

// FormationURL links the enrolled formation, or is empty when the
// backend did not embed it.
func (v InscriptionPageView) FormationURL() string {
	if v.Inscription.Formation == nil {
		return ""
	}
	return FormationURL(v.FormationID(), ModeView)
}

func (v InscriptionPageView) SubscriberURL() string {
	if v.Inscription.Subscriber == nil {
		return ""
	}
	return SubscriberURL(v.SubscriberID(), ModeView)
}

type LoginPageView struct {
	PageTitle string
	ReturnTo  string
}

func (v LoginPageView) LayoutPageTitle() string { return v.PageTitle }
func (v LoginPageView) LayoutSection() Section { return SectionAccount }

type NotFoundView struct {
	PageTitle   string
	RequestPath string
}

func (v NotFoundView) LayoutPageTitle() string { return v.PageTitle }
func (v NotFoundView) LayoutSection() Section { return "" }

func newFormationPageView(
	service *catalog.Service,
	mode EditorMode,
	formation *catalog.Formation,
) FormationPageView {
	if formation == nil {
		return FormationPageView{PageTitle: "New formation", Mode: ModeCreate}
	}

	title := formation.Title
	if mode == ModeEdit {
		title = "Edit " + title
	}
	return FormationPageView{
		PageTitle:       title,
		Mode:            mode,
		Formation:       *formation,
		DescriptionHTML: service.DescriptionHTML(*formation),
		Excerpt:         service.DescriptionExcerpt(*formation, excerptMaxChars),
	}
}

func newSubscriberPageView(mode EditorMode, subscriber *catalog.Subscriber) SubscriberPageView {
	if subscriber == nil {
		return SubscriberPageView{PageTitle: "New subscriber", Mode: ModeCreate}
	}

	title := subscriber.FullName()
	if mode == ModeEdit {
		title = "Edit " + title
	}
	return SubscriberPageView{
		PageTitle:  title,
		Mode:       mode,
		Subscriber: *subscriber,
	}
}

func newInscriptionPageView(mode EditorMode, inscription *catalog.Inscription) InscriptionPageView {
	if inscription == nil {
		return InscriptionPageView{PageTitle: "New inscription", Mode: ModeCreate}
	}

	title := "Inscription #" + strconv.FormatInt(inscription.ID, 10)
	if mode == ModeEdit {
		title = "Edit " + title
	}
	return InscriptionPageView{
		PageTitle:   title,
		Mode:        mode,
		Inscription: *inscription,
	}
}

func FormationURL(id int64, mode EditorMode) string {
	return entityURL("formation", id, mode)
}

func SubscriberURL(id int64, mode EditorMode) string {
	return entityURL("subscriber", id, mode)
}

func InscriptionURL(id int64, mode EditorMode) string {
	return entityURL("inscription", id, mode)
}

func entityURL(resource string, id int64, mode EditorMode) string {
	if mode == ModeCreate || id <= 0 {
		return "/" + resource + "/new"
	}
	return "/" + resource + "/" + strconv.FormatInt(id, 10) + "/" + string(mode)
}
