package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/shoplist/internal/database/records"
	"github.com/mrlokans/shoplist/internal/entities"
	"github.com/mrlokans/shoplist/internal/mediator"
	"github.com/mrlokans/shoplist/internal/paging"
	"github.com/mrlokans/shoplist/internal/remote"
)

// Source binds one remote listing endpoint to its local table.
type Source[T records.Model] struct {
	client   *remote.Client
	endpoint string
	records  *records.Repository[T]
}

var _ mediator.Source[entities.Shop] = (*Source[entities.Shop])(nil)

// NewSource creates the mediator source of endpoint.
func NewSource[T records.Model](client *remote.Client, endpoint string, repo *records.Repository[T]) *Source[T] {
	return &Source[T]{client: client, endpoint: endpoint, records: repo}
}

// Fetch requests one page and unwraps the task result into (envelope, error).
func (s *Source[T]) Fetch(ctx context.Context, page, pageSize int, cacheMode remote.CacheMode) (paging.Envelope[T], error) {
	result, err := remote.FetchPage[T](ctx, s.client, s.endpoint, page, pageSize, cacheMode)
	if err != nil {
		return paging.Envelope[T]{}, err
	}
	return result.Value(), result.Err()
}

// DeleteLocal removes every row of the endpoint table.
func (s *Source[T]) DeleteLocal(tx *gorm.DB) error {
	return s.records.WithTx(tx).DeleteAll()
}

// InsertLocal upserts rows into the endpoint table.
func (s *Source[T]) InsertLocal(tx *gorm.DB, rows []T) error {
	return s.records.WithTx(tx).InsertOrReplace(rows)
}
