package catalog

import (
	"context"
	"errors"
	"html/template"
	"strings"

	"digiparc/framework/resolve"
	"digiparc/framework/router"
	md "digiparc/internal/markdown"
)

var ErrNotFound = errors.New("not found")

var errFinderUnavailable = errors.New("entity finder unavailable")

type Formation struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartDate     string `json:"startDate"`
	DurationHours int    `json:"durationHours"`
	Capacity      int    `json:"capacity"`
}

type Subscriber struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (s Subscriber) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
}

// Inscription enrolls a subscriber in a formation. The backend embeds
// both sides when it loads one by id.
type Inscription struct {
	ID              int64       `json:"id"`
	InscriptionDate string      `json:"inscriptionDate"`
	Status          string      `json:"status"`
	Formation       *Formation  `json:"formation"`
	Subscriber      *Subscriber `json:"subscriber"`
}

func (i Inscription) FormationTitle() string {
	if i.Formation == nil {
		return ""
	}
	return i.Formation.Title
}

func (i Inscription) SubscriberName() string {
	if i.Subscriber == nil {
		return ""
	}
	return i.Subscriber.FullName()
}

// Finders are the per-entity fetch services backing the catalog.
type Finders struct {
	Formations   resolve.Finder[Formation]
	Subscribers  resolve.Finder[Subscriber]
	Inscriptions resolve.Finder[Inscription]
}

type Service struct {
	finders Finders
	rootURL string
}

func NewService(finders Finders, rootURL string) *Service {
	return &Service{
		finders: finders,
		rootURL: strings.TrimSpace(rootURL),
	}
}

// Formations returns the finder used by formation routes. Identifiers
// that could never name an entity are rejected with ErrNotFound before
// reaching the backend.
func (s *Service) Formations() resolve.Finder[Formation] {
	return validated(s.finders.Formations)
}

func (s *Service) Subscribers() resolve.Finder[Subscriber] {
	return validated(s.finders.Subscribers)
}

func (s *Service) Inscriptions() resolve.Finder[Inscription] {
	return validated(s.finders.Inscriptions)
}

func (s *Service) DescriptionHTML(formation Formation) template.HTML {
	return md.ToHTML(formation.Description, md.Options{RootURL: s.rootURL})
}

func (s *Service) DescriptionExcerpt(formation Formation, maxChars int) string {
	return md.Excerpt(formation.Description, maxChars)
}

func validated[T interface{}](next resolve.Finder[T]) resolve.Finder[T] {
	return resolve.FinderFunc[T](func(ctx context.Context, id string) (resolve.Envelope[T], error) {
		if next == nil {
			return resolve.Envelope[T]{}, errFinderUnavailable
		}
		if !router.IsValidID(id) {
			return resolve.Envelope[T]{}, ErrNotFound
		}
		return next.Find(ctx, id)
	})
}
