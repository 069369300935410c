// Package backend fetches entities from the JHipster REST API.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"digiparc/framework/resolve"
	json "github.com/goccy/go-json"
)

const maxBodyBytes = 1 << 20

// StatusError reports an answer that is neither a body nor a 404.
type StatusError struct {
	StatusCode int
	Resource   string
	ID         string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s %q: unexpected status %d", e.Resource, e.ID, e.StatusCode)
}

type Finder[T interface{}] struct {
	client   *http.Client
	baseURL  string
	resource string
}

var _ resolve.Finder[struct{}] = (*Finder[struct{}])(nil)

// NewFinder builds a finder for GET {baseURL}/api/{resource}/{id}.
func NewFinder[T interface{}](client *http.Client, baseURL string, resource string) *Finder[T] {
	if client == nil {
		client = http.DefaultClient
	}

	return &Finder[T]{
		client:   client,
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		resource: strings.Trim(strings.TrimSpace(resource), "/"),
	}
}

func (f *Finder[T]) Find(ctx context.Context, id string) (resolve.Envelope[T], error) {
	endpoint := f.baseURL + "/api/" + f.resource + "/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return resolve.Envelope[T]{}, fmt.Errorf("build %s request: %w", f.resource, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return resolve.Envelope[T]{}, fmt.Errorf("fetch %s %q: %w", f.resource, id, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return resolve.Missing[T](), nil
	default:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return resolve.Envelope[T]{}, &StatusError{StatusCode: resp.StatusCode, Resource: f.resource, ID: id}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resolve.Envelope[T]{}, fmt.Errorf("read %s %q: %w", f.resource, id, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return resolve.Missing[T](), nil
	}

	var body T
	if err := json.Unmarshal(raw, &body); err != nil {
		return resolve.Envelope[T]{}, fmt.Errorf("decode %s %q: %w", f.resource, id, err)
	}
	return resolve.Found(body), nil
}
