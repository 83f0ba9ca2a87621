// internal/domain/product/service_test.go
package product

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
	"github.com/your-org/storefront-gateway/internal/pkg/cache"
)

type fakeCatalog struct {
	getCalls  int
	responses map[string]string
}

func (f *fakeCatalog) GetJSON(_ context.Context, _ string, path string, _ url.Values, dest interface{}) error {
	f.getCalls++
	body, ok := f.responses[path]
	if !ok {
		return fmt.Errorf("unexpected path %s", path)
	}
	return json.Unmarshal([]byte(body), dest)
}

func (f *fakeCatalog) PostJSON(_ context.Context, _ string, _ string, _ interface{}, dest interface{}) error {
	return json.Unmarshal([]byte(`{"_id":"p-new","name":"Created"}`), dest)
}

func (f *fakeCatalog) PutJSON(_ context.Context, _ string, _ string, _ interface{}, dest interface{}) error {
	return json.Unmarshal([]byte(`{"_id":"p1","name":"Updated"}`), dest)
}

func (f *fakeCatalog) Delete(_ context.Context, _ string, _ string) error {
	return nil
}

func newTestService(catalog *fakeCatalog) *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewService(catalog, cache.NewMemoryCache(), storage.NewMemoryStore(), logger)
}

func TestListServesRepeatQueriesFromCache(t *testing.T) {
	catalog := &fakeCatalog{responses: map[string]string{
		"/products": `[{"_id":"p1","name":"Widget","price":499}]`,
	}}
	svc := newTestService(catalog)
	ctx := context.Background()

	first, err := svc.List(ctx, "s1", nil)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.List(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, catalog.getCalls)
}

func TestListAcceptsEnvelopeShape(t *testing.T) {
	catalog := &fakeCatalog{responses: map[string]string{
		"/products": `{"items":[{"_id":"p1","name":"Widget"}],"page":1}`,
	}}
	svc := newTestService(catalog)

	items, err := svc.List(context.Background(), "s1", nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Widget", items[0].Name)
}

func TestCreateInvalidatesListCache(t *testing.T) {
	catalog := &fakeCatalog{responses: map[string]string{
		"/products": `[{"_id":"p1","name":"Widget"}]`,
	}}
	svc := newTestService(catalog)
	ctx := context.Background()

	_, err := svc.List(ctx, "s1", nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, "s1", &ProductInput{Name: "Created"})
	require.NoError(t, err)

	_, err = svc.List(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.getCalls)
}

func TestMarkViewedFrontInsertsAndDedupes(t *testing.T) {
	svc := newTestService(&fakeCatalog{})
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3", "p2"} {
		require.NoError(t, svc.MarkViewed(ctx, "s1", &Product{ID: id, Name: "Product " + id}))
	}

	viewed, err := svc.RecentlyViewed(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, viewed, 3)
	assert.Equal(t, "p2", viewed[0].ID)
	assert.Equal(t, "p3", viewed[1].ID)
	assert.Equal(t, "p1", viewed[2].ID)
}

func TestMarkViewedCapsAtLimit(t *testing.T) {
	svc := newTestService(&fakeCatalog{})
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		require.NoError(t, svc.MarkViewed(ctx, "s1", &Product{ID: fmt.Sprintf("p%d", i)}))
	}

	viewed, err := svc.RecentlyViewed(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, viewed, recentlyViewedLimit)
	assert.Equal(t, "p7", viewed[0].ID)
	assert.Equal(t, "p3", viewed[len(viewed)-1].ID)
}

func TestRecentlyViewedEmptyForFreshSession(t *testing.T) {
	svc := newTestService(&fakeCatalog{})

	viewed, err := svc.RecentlyViewed(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Empty(t, viewed)
}
