package backend

import (
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// NewHTTPClient returns the client shared by the REST and GraphQL
// finders. token is sent as a bearer token when set.
func NewHTTPClient(token string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &authTransport{
			base:  http.DefaultTransport,
			token: token,
		},
	}
}

type authTransport struct {
	base  http.RoundTripper
	token string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == "" {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(clone)
}
