package gql

import (
	"context"
	"fmt"

	"digiparc/framework/resolve"
	"digiparc/internal/catalog"
	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

type FormationFinder struct {
	client genqlientgraphql.Client
}

func NewFormationFinder(client genqlientgraphql.Client) *FormationFinder {
	return &FormationFinder{client: client}
}

func (f *FormationFinder) Find(ctx context.Context, id string) (resolve.Envelope[catalog.Formation], error) {
	response, err := FormationByID(ctx, f.client, id)
	if err != nil {
		return resolve.Envelope[catalog.Formation]{}, fmt.Errorf("query formation %q: %w", id, err)
	}
	if response == nil || response.Formation == nil {
		return resolve.Missing[catalog.Formation](), nil
	}

	doc := response.Formation
	return resolve.Found(catalog.Formation{
		ID:            doc.ID,
		Title:         doc.Title,
		Description:   strOr(doc.Description, ""),
		StartDate:     strOr(doc.StartDate, ""),
		DurationHours: intOr(doc.DurationHours, 0),
		Capacity:      intOr(doc.Capacity, 0),
	}), nil
}

type SubscriberFinder struct {
	client genqlientgraphql.Client
}

func NewSubscriberFinder(client genqlientgraphql.Client) *SubscriberFinder {
	return &SubscriberFinder{client: client}
}

func (f *SubscriberFinder) Find(ctx context.Context, id string) (resolve.Envelope[catalog.Subscriber], error) {
	response, err := SubscriberByID(ctx, f.client, id)
	if err != nil {
		return resolve.Envelope[catalog.Subscriber]{}, fmt.Errorf("query subscriber %q: %w", id, err)
	}
	if response == nil || response.Subscriber == nil {
		return resolve.Missing[catalog.Subscriber](), nil
	}

	doc := response.Subscriber
	return resolve.Found(catalog.Subscriber{
		ID:        doc.ID,
		FirstName: doc.FirstName,
		LastName:  doc.LastName,
		Email:     doc.Email,
		Phone:     strOr(doc.Phone, ""),
	}), nil
}

type InscriptionFinder struct {
	client genqlientgraphql.Client
}

func NewInscriptionFinder(client genqlientgraphql.Client) *InscriptionFinder {
	return &InscriptionFinder{client: client}
}

func (f *InscriptionFinder) Find(ctx context.Context, id string) (resolve.Envelope[catalog.Inscription], error) {
	response, err := InscriptionByID(ctx, f.client, id)
	if err != nil {
		return resolve.Envelope[catalog.Inscription]{}, fmt.Errorf("query inscription %q: %w", id, err)
	}
	if response == nil || response.Inscription == nil {
		return resolve.Missing[catalog.Inscription](), nil
	}

	doc := response.Inscription
	inscription := catalog.Inscription{
		ID:              doc.ID,
		InscriptionDate: strOr(doc.InscriptionDate, ""),
		Status:          strOr(doc.Status, ""),
	}
	if doc.Formation != nil {
		inscription.Formation = &catalog.Formation{ID: doc.Formation.ID, Title: doc.Formation.Title}
	}
	if doc.Subscriber != nil {
		inscription.Subscriber = &catalog.Subscriber{
			ID:        doc.Subscriber.ID,
			FirstName: doc.Subscriber.FirstName,
			LastName:  doc.Subscriber.LastName,
		}
	}
	return resolve.Found(inscription), nil
}

func strOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}
