package components

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"digiparc/internal/catalog"
	"digiparc/internal/web/appcore"
	"github.com/a-h/templ"
)

func render(t *testing.T, component templ.Component) string {
	t.Helper()

	var buffer bytes.Buffer
	if err := component.Render(context.Background(), &buffer); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buffer.String()
}

func TestFormationDetailEscapesFields(t *testing.T) {
	view := appcore.FormationPageView{
		PageTitle:       "<Go>",
		Mode:            appcore.ModeView,
		Formation:       catalog.Formation{ID: 3, Title: "<Go>", DurationHours: 2},
		DescriptionHTML: "<p>trusted</p>",
	}

	html := render(t, FormationDetail(view))
	if !strings.Contains(html, "<h1>&lt;Go&gt;</h1>") {
		t.Fatalf("expected escaped title, got %s", html)
	}
	if !strings.Contains(html, "<p>trusted</p>") {
		t.Fatalf("expected rendered description, got %s", html)
	}
	if !strings.Contains(html, `id="page-content"`) {
		t.Fatalf("expected content selector, got %s", html)
	}
	if !strings.Contains(html, `href="/formation/3/edit"`) {
		t.Fatalf("expected edit link, got %s", html)
	}
	if !strings.Contains(html, "2 hours") {
		t.Fatalf("expected duration, got %s", html)
	}
}

func TestFormationFormModes(t *testing.T) {
	create := render(t, FormationForm(appcore.FormationPageView{PageTitle: "New formation", Mode: appcore.ModeCreate}))
	if !strings.Contains(create, ">Create</button>") {
		t.Fatalf("expected create button, got %s", create)
	}
	if strings.Contains(create, "Cancel") {
		t.Fatalf("create form should not link back, got %s", create)
	}

	edit := render(t, FormationForm(appcore.FormationPageView{
		PageTitle: "Edit Go",
		Mode:      appcore.ModeEdit,
		Formation: catalog.Formation{ID: 9, Title: "Go", Description: "a & b"},
	}))
	if !strings.Contains(edit, `data-formation-id="9"`) {
		t.Fatalf("expected formation id, got %s", edit)
	}
	if !strings.Contains(edit, `value="Go"`) {
		t.Fatalf("expected bound title, got %s", edit)
	}
	if !strings.Contains(edit, "a &amp; b</textarea>") {
		t.Fatalf("expected escaped description, got %s", edit)
	}
	if !strings.Contains(edit, `href="/formation/9/view"`) {
		t.Fatalf("expected cancel link, got %s", edit)
	}
}

func TestSubscriberPages(t *testing.T) {
	view := appcore.SubscriberPageView{
		PageTitle:  "Ada Lovelace",
		Mode:       appcore.ModeView,
		Subscriber: catalog.Subscriber{ID: 7, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org"},
	}

	detail := render(t, SubscriberDetail(view))
	if !strings.Contains(detail, "<h1>Ada Lovelace</h1>") || !strings.Contains(detail, "ada@example.org") {
		t.Fatalf("unexpected detail %s", detail)
	}

	view.Mode = appcore.ModeEdit
	form := render(t, SubscriberForm(view))
	if !strings.Contains(form, `data-bind="email"`) || !strings.Contains(form, ">Edit</button>") {
		t.Fatalf("unexpected form %s", form)
	}
}

func TestInscriptionPages(t *testing.T) {
	view := appcore.InscriptionPageView{
		PageTitle: "Inscription #3",
		Mode:      appcore.ModeView,
		Inscription: catalog.Inscription{
			ID:              3,
			InscriptionDate: "2026-10-01",
			Status:          "CONFIRMED",
			Formation:       &catalog.Formation{ID: 1, Title: "Go <basics>"},
		},
	}

	detail := render(t, InscriptionDetail(view))
	if !strings.Contains(detail, `href="/formation/1/view"`) || !strings.Contains(detail, "Go &lt;basics&gt;</a>") {
		t.Fatalf("expected linked formation, got %s", detail)
	}
	if !strings.Contains(detail, "<dt>Subscriber</dt><dd>-</dd>") {
		t.Fatalf("expected dash for missing subscriber, got %s", detail)
	}
	if !strings.Contains(detail, `href="/inscription/3/edit"`) {
		t.Fatalf("expected edit link, got %s", detail)
	}

	view.Mode = appcore.ModeEdit
	form := render(t, InscriptionForm(view))
	if !strings.Contains(form, `name="formationId" value="1"`) || !strings.Contains(form, `name="subscriberId" value=""`) {
		t.Fatalf("unexpected form %s", form)
	}
	if !strings.Contains(form, `href="/inscription/3/view"`) {
		t.Fatalf("expected cancel link, got %s", form)
	}
}

func TestLayoutWrapsChild(t *testing.T) {
	view := appcore.LoginPageView{PageTitle: "Sign in", ReturnTo: "/formation/1/edit"}
	html := render(t, Layout(view, Login(view)))

	if !strings.Contains(html, "<title>Sign in :: digiparc</title>") {
		t.Fatalf("expected title, got %s", html)
	}
	if !strings.Contains(html, `class="section-link active" href="/login"`) {
		t.Fatalf("expected active account link, got %s", html)
	}
	if !strings.Contains(html, `class="section-link" href="/inscription/new"`) {
		t.Fatalf("expected inscriptions link, got %s", html)
	}
	if !strings.Contains(html, `value="/formation/1/edit"`) {
		t.Fatalf("expected return target, got %s", html)
	}
	if !strings.HasSuffix(html, "</main></body></html>") {
		t.Fatalf("expected closed document, got %s", html)
	}
}

func TestNotFoundEscapesPath(t *testing.T) {
	html := render(t, NotFound(appcore.NotFoundView{PageTitle: "404 Not Found", RequestPath: "/<script>"}))
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected escaped path, got %s", html)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestRenderStopsOnWriteError(t *testing.T) {
	err := NotFound(appcore.NotFoundView{RequestPath: "/x"}).Render(context.Background(), failingWriter{})
	if err == nil {
		t.Fatal("expected write error")
	}
}
