// Package resolve gates route activation on entity retrieval.
//
// A Resolver reads the identifier parameter of a route, fetches the entity
// through a Finder and either hands it to the page, passes through with no
// entity (create routes), or asks the Navigator to redirect to a fixed
// not-found destination and abandons the resolution.
package resolve

import (
	"context"
	"errors"
	"strings"
)

const defaultIDParam = "id"

// ErrAbandoned is returned after a redirect superseded the navigation.
// No entity accompanies it.
var ErrAbandoned = errors.New("resolve: navigation abandoned")

var defaultNotFoundPath = []string{"404"}

type Params struct {
	values map[string]string
}

func NewParams(values map[string]string) Params {
	if len(values) == 0 {
		return Params{}
	}

	copied := make(map[string]string, len(values))
	for key, value := range values {
		copied[key] = value
	}
	return Params{values: copied}
}

func (p Params) Get(name string) (string, bool) {
	if p.values == nil {
		return "", false
	}

	value, ok := p.values[name]
	return value, ok
}

// Envelope distinguishes "found with body" from "not found" without
// treating the latter as an error.
type Envelope[T interface{}] struct {
	body    T
	present bool
}

func Found[T interface{}](body T) Envelope[T] {
	return Envelope[T]{body: body, present: true}
}

func Missing[T interface{}]() Envelope[T] {
	return Envelope[T]{}
}

func (e Envelope[T]) Body() (*T, bool) {
	if !e.present {
		return nil, false
	}

	body := e.body
	return &body, true
}

func (e Envelope[T]) Present() bool {
	return e.present
}

type Finder[T interface{}] interface {
	Find(ctx context.Context, id string) (Envelope[T], error)
}

// FinderFunc adapts a function to the Finder interface.
type FinderFunc[T interface{}] func(ctx context.Context, id string) (Envelope[T], error)

func (f FinderFunc[T]) Find(ctx context.Context, id string) (Envelope[T], error) {
	return f(ctx, id)
}

type Navigator interface {
	NavigateTo(segments ...string)
	Params() Params
}

type Option func(*options)

type options struct {
	param    string
	notFound []string
}

func WithParam(name string) Option {
	return func(o *options) {
		if strings.TrimSpace(name) != "" {
			o.param = name
		}
	}
}

func WithNotFoundPath(segments ...string) Option {
	return func(o *options) {
		if len(segments) > 0 {
			o.notFound = append([]string(nil), segments...)
		}
	}
}

type Resolver[T interface{}] struct {
	finder    Finder[T]
	navigator Navigator
	param     string
	notFound  []string
}

func New[T interface{}](finder Finder[T], navigator Navigator, opts ...Option) *Resolver[T] {
	o := options{
		param:    defaultIDParam,
		notFound: defaultNotFoundPath,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Resolver[T]{
		finder:    finder,
		navigator: navigator,
		param:     o.param,
		notFound:  o.notFound,
	}
}

// Resolve returns (nil, nil) when the route carries no identifier or a
// blank one, the entity when the finder returns a body, and
// (nil, ErrAbandoned) after redirecting when it does not. Finder errors
// are returned unchanged.
func (r *Resolver[T]) Resolve(ctx context.Context, params Params) (*T, error) {
	id, ok := params.Get(r.param)
	if !ok || strings.TrimSpace(id) == "" {
		return nil, nil
	}

	envelope, err := r.finder.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if entity, ok := envelope.Body(); ok {
		return entity, nil
	}

	r.navigator.NavigateTo(r.notFound...)
	return nil, ErrAbandoned
}

// ResolveCurrent resolves against the navigator's current route params.
func (r *Resolver[T]) ResolveCurrent(ctx context.Context) (*T, error) {
	return r.Resolve(ctx, r.navigator.Params())
}

func (r *Resolver[T]) NotFoundPath() []string {
	return append([]string(nil), r.notFound...)
}
