package gql

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Khan/genqlient/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGraphQLClient struct {
	mu      sync.Mutex
	opNames []string
	fail    error
}

func (c *fakeGraphQLClient) MakeRequest(
	_ context.Context,
	req *graphql.Request,
	resp *graphql.Response,
) error {
	c.mu.Lock()
	c.opNames = append(c.opNames, req.OpName)
	c.mu.Unlock()

	if c.fail != nil {
		return c.fail
	}

	id := requestVarString(req, "id")
	switch req.OpName {
	case "FormationByID":
		if id != "1" {
			return decodeGraphQLData(resp, `{"formation": null}`)
		}
		return decodeGraphQLData(resp, `{
			"formation": {
				"id": 1,
				"title": "Go basics",
				"description": "# Intro",
				"startDate": "2026-11-02",
				"durationHours": 14,
				"capacity": null
			}
		}`)
	case "SubscriberByID":
		if id != "7" {
			return decodeGraphQLData(resp, `{"subscriber": null}`)
		}
		return decodeGraphQLData(resp, `{
			"subscriber": {
				"id": 7,
				"firstName": "Ada",
				"lastName": "Lovelace",
				"email": "ada@example.org",
				"phone": null
			}
		}`)
	case "InscriptionByID":
		if id != "3" {
			return decodeGraphQLData(resp, `{"inscription": null}`)
		}
		return decodeGraphQLData(resp, `{
			"inscription": {
				"id": 3,
				"inscriptionDate": "2026-10-01",
				"status": "CONFIRMED",
				"formation": {"id": 1, "title": "Go basics"},
				"subscriber": null
			}
		}`)
	}
	return errors.New("unexpected operation " + req.OpName)
}

func (c *fakeGraphQLClient) calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.opNames...)
}

func decodeGraphQLData(resp *graphql.Response, payload string) error {
	return json.Unmarshal([]byte(payload), resp.Data)
}

func requestVarString(req *graphql.Request, key string) string {
	if req == nil || req.Variables == nil {
		return ""
	}

	raw, err := json.Marshal(req.Variables)
	if err != nil {
		return ""
	}

	values := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &values); err != nil {
		return ""
	}

	var value string
	if err := json.Unmarshal(values[key], &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func TestFormationFinder(t *testing.T) {
	t.Parallel()
	client := &fakeGraphQLClient{}
	finder := NewFormationFinder(client)

	envelope, err := finder.Find(context.Background(), "1")
	require.NoError(t, err)
	formation, ok := envelope.Body()
	require.True(t, ok)
	assert.Equal(t, int64(1), formation.ID)
	assert.Equal(t, "Go basics", formation.Title)
	assert.Equal(t, "2026-11-02", formation.StartDate)
	assert.Equal(t, 14, formation.DurationHours)
	assert.Zero(t, formation.Capacity)

	envelope, err = finder.Find(context.Background(), "999")
	require.NoError(t, err)
	assert.False(t, envelope.Present())

	assert.Equal(t, []string{"FormationByID", "FormationByID"}, client.calls())
}

func TestSubscriberFinder(t *testing.T) {
	t.Parallel()
	finder := NewSubscriberFinder(&fakeGraphQLClient{})

	envelope, err := finder.Find(context.Background(), "7")
	require.NoError(t, err)
	subscriber, ok := envelope.Body()
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", subscriber.FullName())
	assert.Empty(t, subscriber.Phone)

	envelope, err = finder.Find(context.Background(), "8")
	require.NoError(t, err)
	assert.False(t, envelope.Present())
}

func TestInscriptionFinder(t *testing.T) {
	t.Parallel()
	finder := NewInscriptionFinder(&fakeGraphQLClient{})

	envelope, err := finder.Find(context.Background(), "3")
	require.NoError(t, err)
	inscription, ok := envelope.Body()
	require.True(t, ok)
	assert.Equal(t, "CONFIRMED", inscription.Status)
	assert.Equal(t, "Go basics", inscription.FormationTitle())
	assert.Nil(t, inscription.Subscriber)

	envelope, err = finder.Find(context.Background(), "4")
	require.NoError(t, err)
	assert.False(t, envelope.Present())
}

func TestFindersWrapTransportErrors(t *testing.T) {
	t.Parallel()
	boom := errors.New("connection refused")
	client := &fakeGraphQLClient{fail: boom}

	_, err := NewFormationFinder(client).Find(context.Background(), "1")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `query formation "1"`)

	_, err = NewSubscriberFinder(client).Find(context.Background(), "7")
	require.ErrorIs(t, err, boom)

	_, err = NewInscriptionFinder(client).Find(context.Background(), "3")
	require.ErrorIs(t, err, boom)
}
