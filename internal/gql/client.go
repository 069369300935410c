package gql

import (
	"net/http"

	"digiparc/internal/backend"
	"digiparc/internal/config"
	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

func NewClient(cfg config.BackendConfig) genqlientgraphql.Client {
	return NewClientWithHTTP(cfg.GraphQLEndpoint, backend.NewHTTPClient(cfg.AuthToken, cfg.Timeout))
}

func NewClientWithHTTP(endpoint string, client *http.Client) genqlientgraphql.Client {
	return genqlientgraphql.NewClient(endpoint, client)
}
