package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/shoplist/internal/catalog"
	"github.com/mrlokans/shoplist/internal/entities"
	"github.com/mrlokans/shoplist/internal/mediator"
	"github.com/mrlokans/shoplist/internal/remote"
	"github.com/mrlokans/shoplist/internal/stream"
	"github.com/mrlokans/shoplist/internal/taskresult"
)

type fakeLoader struct {
	endpoint string
	result   mediator.LoadResult
	err      error

	mu    sync.Mutex
	loads []mediator.LoadType
}

func (l *fakeLoader) Endpoint() string { return l.endpoint }

func (l *fakeLoader) Load(ctx context.Context, loadType mediator.LoadType) (mediator.LoadResult, error) {
	l.mu.Lock()
	l.loads = append(l.loads, loadType)
	l.mu.Unlock()
	return l.result, l.err
}

type fakeCatalog struct {
	loaders map[string]*fakeLoader
	rows    map[string][]entities.Shop
	cursors []entities.RemoteKey

	products  []entities.Product
	searchErr error
	searched  []string
	addErr    error
	removeErr error
	added     []catalog.NewShoppingListItem
	removed   []uint
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		loaders: map[string]*fakeLoader{"shops": {endpoint: "/api/shops/"}},
		rows:    map[string][]entities.Shop{"shops": {}},
	}
}

func (f *fakeCatalog) Loader(name string) (mediator.Loader, bool) {
	l, ok := f.loaders[name]
	return l, ok
}

func (f *fakeCatalog) Cursors() ([]entities.RemoteKey, error) {
	return f.cursors, nil
}

func (f *fakeCatalog) Names() []string {
	names := make([]string, 0, len(f.rows))
	for name := range f.rows {
		names = append(names, name)
	}
	return names
}

func (f *fakeCatalog) List(name string, limit, offset int) (any, error) {
	rows, ok := f.rows[name]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", name)
	}
	end := min(offset+limit, len(rows))
	if offset > end {
		offset = end
	}
	return rows[offset:end], nil
}

func (f *fakeCatalog) Count(name string) (int64, error) {
	return int64(len(f.rows[name])), nil
}

func (f *fakeCatalog) AddToShoppingList(ctx context.Context, item catalog.NewShoppingListItem) <-chan taskresult.Result[entities.ShoppingListItem] {
	return stream.Run(ctx, func(ctx context.Context) (entities.ShoppingListItem, error) {
		if f.addErr != nil {
			return entities.ShoppingListItem{}, f.addErr
		}
		f.added = append(f.added, item)
		return entities.ShoppingListItem{ID: 1, ProductID: item.ProductID, Quantity: item.Quantity, Note: item.Note}, nil
	})
}

func (f *fakeCatalog) RemoveFromShoppingList(ctx context.Context, id uint) <-chan taskresult.Result[remote.Empty] {
	return stream.Run(ctx, func(ctx context.Context) (remote.Empty, error) {
		if f.removeErr != nil {
			return remote.Empty{}, f.removeErr
		}
		f.removed = append(f.removed, id)
		return remote.Empty{}, nil
	})
}

func (f *fakeCatalog) SearchProducts(ctx context.Context) *stream.Latest[string, []entities.Product] {
	return stream.NewLatest(ctx, func(ctx context.Context, query string) ([]entities.Product, error) {
		f.searched = append(f.searched, query)
		if f.searchErr != nil {
			return nil, f.searchErr
		}
		return f.products, nil
	})
}

type enqueued struct {
	entity   string
	loadType mediator.LoadType
}

type fakeQueue struct {
	enqueued []enqueued
	statuses map[string]backlite.TaskStatus
}

func (q *fakeQueue) EnqueueLoad(entity string, loadType mediator.LoadType) (string, error) {
	q.enqueued = append(q.enqueued, enqueued{entity: entity, loadType: loadType})
	return fmt.Sprintf("task-%d", len(q.enqueued)), nil
}

func (q *fakeQueue) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	status, ok := q.statuses[taskID]
	if !ok {
		return backlite.TaskStatusNotFound, nil
	}
	return status, nil
}

type fakeRefresh struct {
	next *time.Time
}

func (f *fakeRefresh) IsRunning() bool         { return f.next != nil }
func (f *fakeRefresh) IsSyncing() bool         { return false }
func (f *fakeRefresh) NextRunTime() *time.Time { return f.next }

type mapSettings map[string]string

func (m mapSettings) GetValue(key string) (string, error) { return m[key], nil }

func (m mapSettings) SetSettings(values map[string]string) error {
	for k, v := range values {
		m[k] = v
	}
	return nil
}

func serve(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
