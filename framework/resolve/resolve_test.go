package resolve

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type testFormation struct {
	ID    int
	Title string
}

type fakeFinder struct {
	mu    sync.Mutex
	calls []string
	find  func(ctx context.Context, id string) (Envelope[testFormation], error)
}

func (f *fakeFinder) Find(ctx context.Context, id string) (Envelope[testFormation], error) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()

	return f.find(ctx, id)
}

func (f *fakeFinder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeNavigator struct {
	mu        sync.Mutex
	redirects [][]string
	params    Params
}

func (n *fakeNavigator) NavigateTo(segments ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects = append(n.redirects, segments)
}

func (n *fakeNavigator) Params() Params {
	return n.params
}

func (n *fakeNavigator) redirectCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.redirects)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestResolveWithoutIDSkipsFetch(t *testing.T) {
	finder := &fakeFinder{find: func(context.Context, string) (Envelope[testFormation], error) {
		t.Fatal("finder must not be called without id")
		return Missing[testFormation](), nil
	}}
	navigator := &fakeNavigator{}
	resolver := New[testFormation](finder, navigator)

	cases := []struct {
		name   string
		params Params
	}{
		{name: "empty", params: NewParams(nil)},
		{name: "zero value", params: Params{}},
		{name: "other keys", params: NewParams(map[string]string{"slug": "go"})},
		{name: "blank id", params: NewParams(map[string]string{"id": ""})},
		{name: "whitespace id", params: NewParams(map[string]string{"id": " \t"})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entity, err := resolver.Resolve(context.Background(), tc.params)
			require.NoError(t, err)
			assert.Nil(t, entity)
		})
	}

	assert.Equal(t, 0, finder.callCount())
	assert.Equal(t, 0, navigator.redirectCount())
}

func TestResolveFoundReturnsEntity(t *testing.T) {
	finder := &fakeFinder{find: func(_ context.Context, id string) (Envelope[testFormation], error) {
		require.Equal(t, "42", id)
		return Found(testFormation{ID: 42, Title: "Go basics"}), nil
	}}
	navigator := &fakeNavigator{}

	entity, err := New[testFormation](finder, navigator).Resolve(
		context.Background(),
		NewParams(map[string]string{"id": "42"}),
	)

	require.NoError(t, err)
	require.NotNil(t, entity)
	assert.Equal(t, testFormation{ID: 42, Title: "Go basics"}, *entity)
	assert.Equal(t, 1, finder.callCount())
	assert.Equal(t, 0, navigator.redirectCount())
}

func TestResolveMissingRedirectsOnce(t *testing.T) {
	finder := &fakeFinder{find: func(context.Context, string) (Envelope[testFormation], error) {
		return Missing[testFormation](), nil
	}}
	navigator := &fakeNavigator{}

	entity, err := New[testFormation](finder, navigator).Resolve(
		context.Background(),
		NewParams(map[string]string{"id": "999"}),
	)

	require.ErrorIs(t, err, ErrAbandoned)
	assert.Nil(t, entity)
	require.Equal(t, 1, navigator.redirectCount())
	assert.Equal(t, []string{"404"}, navigator.redirects[0])
}

func TestResolveFetchFailurePropagates(t *testing.T) {
	errTransport := errors.New("connection refused")
	finder := &fakeFinder{find: func(context.Context, string) (Envelope[testFormation], error) {
		return Envelope[testFormation]{}, errTransport
	}}
	navigator := &fakeNavigator{}

	entity, err := New[testFormation](finder, navigator).Resolve(
		context.Background(),
		NewParams(map[string]string{"id": "7"}),
	)

	assert.Same(t, errTransport, err)
	assert.Nil(t, entity)
	assert.Equal(t, 0, navigator.redirectCount())
}

func TestResolvePassesContextToFinder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	finder := &fakeFinder{find: func(ctx context.Context, _ string) (Envelope[testFormation], error) {
		return Envelope[testFormation]{}, ctx.Err()
	}}
	navigator := &fakeNavigator{}

	_, err := New[testFormation](finder, navigator).Resolve(ctx, NewParams(map[string]string{"id": "1"}))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, navigator.redirectCount())
}

func TestResolveOptions(t *testing.T) {
	finder := FinderFunc[testFormation](func(_ context.Context, id string) (Envelope[testFormation], error) {
		if id == "known" {
			return Found(testFormation{ID: 1}), nil
		}
		return Missing[testFormation](), nil
	})
	navigator := &fakeNavigator{}
	resolver := New[testFormation](
		finder,
		navigator,
		WithParam("formationId"),
		WithNotFoundPath("errors", "not-found"),
	)

	entity, err := resolver.Resolve(context.Background(), NewParams(map[string]string{"id": "known"}))
	require.NoError(t, err)
	assert.Nil(t, entity, "default id key must be ignored when a custom param is set")

	entity, err = resolver.Resolve(context.Background(), NewParams(map[string]string{"formationId": "known"}))
	require.NoError(t, err)
	require.NotNil(t, entity)

	_, err = resolver.Resolve(context.Background(), NewParams(map[string]string{"formationId": "gone"}))
	require.ErrorIs(t, err, ErrAbandoned)
	require.Equal(t, 1, navigator.redirectCount())
	assert.Equal(t, []string{"errors", "not-found"}, navigator.redirects[0])
	assert.Equal(t, []string{"errors", "not-found"}, resolver.NotFoundPath())
}

func TestResolveCurrentUsesNavigatorParams(t *testing.T) {
	finder := &fakeFinder{find: func(_ context.Context, id string) (Envelope[testFormation], error) {
		return Found(testFormation{Title: id}), nil
	}}
	navigator := &fakeNavigator{params: NewParams(map[string]string{"id": "12"})}

	entity, err := New[testFormation](finder, navigator).ResolveCurrent(context.Background())
	require.NoError(t, err)
	require.NotNil(t, entity)
	assert.Equal(t, "12", entity.Title)
}

func TestParamsAreCopied(t *testing.T) {
	source := map[string]string{"id": "1"}
	params := NewParams(source)
	source["id"] = "2"

	value, ok := params.Get("id")
	require.True(t, ok)
	assert.Equal(t, "1", value)
	_, ok = params.Get("slug")
	assert.False(t, ok)
}

func TestEnvelopeBodyIsACopy(t *testing.T) {
	envelope := Found(testFormation{ID: 3})
	first, ok := envelope.Body()
	require.True(t, ok)
	first.ID = 4

	second, _ := envelope.Body()
	assert.Equal(t, 3, second.ID)

	_, ok = Missing[testFormation]().Body()
	assert.False(t, ok)
	assert.False(t, Missing[testFormation]().Present())
}

func TestResolveAsyncSettlesOnce(t *testing.T) {
	release := make(chan struct{})
	finder := &fakeFinder{find: func(_ context.Context, id string) (Envelope[testFormation], error) {
		<-release
		if id == "999" {
			return Missing[testFormation](), nil
		}
		return Found(testFormation{ID: 42}), nil
	}}
	navigator := &fakeNavigator{}
	resolver := New[testFormation](finder, navigator)

	found := resolver.ResolveAsync(context.Background(), NewParams(map[string]string{"id": "42"}))
	missing := resolver.ResolveAsync(context.Background(), NewParams(map[string]string{"id": "999"}))

	select {
	case <-found.Done():
		t.Fatal("future settled before the fetch completed")
	default:
	}

	close(release)

	entity, err := found.Wait()
	require.NoError(t, err)
	require.NotNil(t, entity)
	assert.Equal(t, 42, entity.ID)

	entity, err = missing.Wait()
	require.ErrorIs(t, err, ErrAbandoned)
	assert.Nil(t, entity)
	assert.Equal(t, 1, navigator.redirectCount())

	entity, err = found.Wait()
	require.NoError(t, err)
	assert.Equal(t, 42, entity.ID)
}

func TestFutureAwaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	finder := &fakeFinder{find: func(context.Context, string) (Envelope[testFormation], error) {
		<-release
		return Found(testFormation{ID: 1}), nil
	}}
	resolver := New[testFormation](finder, &fakeNavigator{})
	future := resolver.ResolveAsync(context.Background(), NewParams(map[string]string{"id": "1"}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := future.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	entity, err := future.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, entity.ID)
}
