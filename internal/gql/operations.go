package gql

import (
	"context"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

const formationByIDOperation = `
query FormationByID ($id: ID!) {
	formation(id: $id) {
		id
		title
		description
		startDate
		durationHours
		capacity
	}
}
`

const subscriberByIDOperation = `
query SubscriberByID ($id: ID!) {
	subscriber(id: $id) {
		id
		firstName
		lastName
		email
		phone
	}
}
`

const inscriptionByIDOperation = `
query InscriptionByID ($id: ID!) {
	inscription(id: $id) {
		id
		inscriptionDate
		status
		formation {
			id
			title
		}
		subscriber {
			id
			firstName
			lastName
		}
	}
}
`

type idInput struct {
	ID string `json:"id"`
}

type FormationByIDResponse struct {
	Formation *FormationFields `json:"formation"`
}

type FormationFields struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	StartDate     *string `json:"startDate"`
	DurationHours *int    `json:"durationHours"`
	Capacity      *int    `json:"capacity"`
}

type SubscriberByIDResponse struct {
	Subscriber *SubscriberFields `json:"subscriber"`
}

type SubscriberFields struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
}

type InscriptionByIDResponse struct {
	Inscription *InscriptionFields `json:"inscription"`
}

type InscriptionFields struct {
	ID              int64                        `json:"id"`
	InscriptionDate *string                      `json:"inscriptionDate"`
	Status          *string                      `json:"status"`
	Formation       *InscriptionFormationFields  `json:"formation"`
	Subscriber      *InscriptionSubscriberFields `json:"subscriber"`
}

type InscriptionFormationFields struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type InscriptionSubscriberFields struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func FormationByID(ctx context.Context, client genqlientgraphql.Client, id string) (*FormationByIDResponse, error) {
	req := &genqlientgraphql.Request{
		OpName:    "FormationByID",
		Query:     formationByIDOperation,
		Variables: &idInput{ID: id},
	}

	data := &FormationByIDResponse{}
	resp := &genqlientgraphql.Response{Data: data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}
	return data, nil
}

func SubscriberByID(ctx context.Context, client genqlientgraphql.Client, id string) (*SubscriberByIDResponse, error) {
	req := &genqlientgraphql.Request{
		OpName:    "SubscriberByID",
		Query:     subscriberByIDOperation,
		Variables: &idInput{ID: id},
	}

	data := &SubscriberByIDResponse{}
	resp := &genqlientgraphql.Response{Data: data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}
	return data, nil
}

func InscriptionByID(ctx context.Context, client genqlientgraphql.Client, id string) (*InscriptionByIDResponse, error) {
	req := &genqlientgraphql.Request{
		OpName:    "InscriptionByID",
		Query:     inscriptionByIDOperation,
		Variables: &idInput{ID: id},
	}

	data := &InscriptionByIDResponse{}
	resp := &genqlientgraphql.Response{Data: data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}
	return data, nil
}
