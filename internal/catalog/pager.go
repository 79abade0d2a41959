package catalog

import (
	"context"
	"sync/atomic"

	"github.com/mrlokans/shoplist/internal/database/records"
	"github.com/mrlokans/shoplist/internal/mediator"
	"github.com/mrlokans/shoplist/internal/stream"
	"github.com/mrlokans/shoplist/internal/taskresult"
)

// Pager drives one entity list: Refresh reloads from page one and
// LoadNextPage extends the list while the remote side has more pages. Every
// successful load emits the whole locally stored list on Results.
type Pager[T records.Model] struct {
	loads   *stream.Latest[mediator.LoadType, []T]
	records *records.Repository[T]
	end     atomic.Bool
}

// NewPager creates a pager over loader and the table it fills.
func NewPager[T records.Model](ctx context.Context, loader mediator.Loader, repo *records.Repository[T]) *Pager[T] {
	p := &Pager[T]{records: repo}
	p.loads = stream.NewLatest(ctx, func(ctx context.Context, loadType mediator.LoadType) ([]T, error) {
		result, err := loader.Load(ctx, loadType)
		if err != nil {
			return nil, err
		}
		// A refresh resets the list, so only page loads can end it.
		p.end.Store(loadType != mediator.Refresh && result.EndOfPaginationReached)
		return repo.List(0, 0)
	})
	return p
}

// Results streams the list after every load, preceded by Loading. The
// consumer must drain it.
func (p *Pager[T]) Results() <-chan taskresult.Result[[]T] {
	return p.loads.Results()
}

// Refresh replaces the list, superseding any load in flight.
func (p *Pager[T]) Refresh() {
	p.loads.Submit(mediator.Refresh)
}

// LoadNextPage requests the following page unless a load is in flight or
// the end was already reached. It reports whether a load was started.
func (p *Pager[T]) LoadNextPage() bool {
	if p.end.Load() {
		return false
	}
	return p.loads.SubmitIfIdle(mediator.Prepend)
}

// EndReached reports whether the last page load hit the end of pagination.
func (p *Pager[T]) EndReached() bool {
	return p.end.Load()
}

// Collect refreshes the list, then loads up to pages more pages, stopping
// early at the end of pagination. It returns the rows after the last load.
func (p *Pager[T]) Collect(ctx context.Context, pages int) ([]T, error) {
	p.Refresh()
	for loaded := 0; ; loaded++ {
		result, err := stream.Await(ctx, p.Results())
		if err != nil {
			return nil, err
		}
		if result.IsError() {
			return nil, result.Err()
		}
		if loaded >= pages || p.EndReached() {
			return result.Value(), nil
		}
		// The previous load already delivered its result.
		p.loads.Submit(mediator.Prepend)
	}
}

// Items reads a window of the locally stored rows without loading.
func (p *Pager[T]) Items(limit, offset int) ([]T, error) {
	return p.records.List(limit, offset)
}

// Close stops the pager and closes Results.
func (p *Pager[T]) Close() {
	p.loads.Close()
}
