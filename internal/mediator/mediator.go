// Package mediator keeps a local table in step with a remote paged endpoint.
//
// A Mediator is a single-shot state machine invoked once per page-load
// request. The load direction decides what happens:
//
//   - Refresh fetches the first page bypassing caches and, in one
//     transaction, replaces the cursor and every local row of the endpoint.
//   - Append never calls the remote API and reports pagination complete.
//     The API is newest-first, so older data is fetched through Prepend.
//   - Prepend follows the persisted cursor, appending the fetched rows and
//     the new cursor in one transaction.
//
// Loads of one endpoint are serialized; loads of different endpoints run
// concurrently.
package mediator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/shoplist/internal/database/remotekeys"
	"github.com/mrlokans/shoplist/internal/entities"
	"github.com/mrlokans/shoplist/internal/paging"
	"github.com/mrlokans/shoplist/internal/remote"
	"github.com/mrlokans/shoplist/internal/retry"
)

// DefaultPageSize is used when Config.PageSize is not positive.
const DefaultPageSize = 20

// Source is the entity-specific I/O of one endpoint.
type Source[T any] interface {
	// Fetch requests one page from the remote API.
	Fetch(ctx context.Context, page, pageSize int, cacheMode remote.CacheMode) (paging.Envelope[T], error)
	// DeleteLocal removes every local row of the endpoint inside tx.
	DeleteLocal(tx *gorm.DB) error
	// InsertLocal upserts rows inside tx.
	InsertLocal(tx *gorm.DB, rows []T) error
}

// Transactor runs a function inside one atomic transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Config parameterizes a Mediator.
type Config struct {
	// Endpoint identifies the cursor row, e.g. "/api/shops/".
	Endpoint string
	// PageSize is the number of items requested per page.
	PageSize int
	// InitialPageMultiplier is the page a refresh leaves the cursor at and
	// the factor by which it enlarges the initial load.
	InitialPageMultiplier int
	// Retry builds the policy for transient fetch failures. nil disables retries.
	Retry retry.Factory
	// Locks is shared by all mediators of one store. nil gives the mediator
	// its own.
	Locks *KeyedMutex
	// OnLoad, when set, observes every finished load. It runs while the
	// endpoint lock is held and must not block.
	OnLoad func(LoadEvent)
}

// Mediator synchronizes one endpoint.
type Mediator[T any] struct {
	cfg    Config
	source Source[T]
	store  Transactor
	keys   *remotekeys.Repository
	locks  *KeyedMutex
}

// New creates a mediator for source.
func New[T any](cfg Config, source Source[T], store Transactor, keys *remotekeys.Repository) *Mediator[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	cfg.InitialPageMultiplier = paging.RefreshPage(cfg.InitialPageMultiplier)
	locks := cfg.Locks
	if locks == nil {
		locks = &KeyedMutex{}
	}
	return &Mediator[T]{cfg: cfg, source: source, store: store, keys: keys, locks: locks}
}

// Endpoint returns the endpoint key of the mediator.
func (m *Mediator[T]) Endpoint() string {
	return m.cfg.Endpoint
}

// Load performs one page load. Failures come back as *LoadError and leave
// the local rows and cursor at their last committed state. Cancellation is
// returned unwrapped.
func (m *Mediator[T]) Load(ctx context.Context, loadType LoadType) (LoadResult, error) {
	unlock, err := m.locks.Lock(ctx, m.cfg.Endpoint)
	if err != nil {
		return LoadResult{}, err
	}
	defer unlock()

	start := time.Now()
	result, err := m.load(ctx, loadType)
	if m.cfg.OnLoad != nil {
		m.cfg.OnLoad(LoadEvent{
			Endpoint: m.cfg.Endpoint,
			LoadType: loadType,
			Result:   result,
			Err:      err,
			Duration: time.Since(start),
		})
	}
	return result, err
}

func (m *Mediator[T]) load(ctx context.Context, loadType LoadType) (LoadResult, error) {
	var (
		result LoadResult
		err    error
	)
	switch loadType {
	case Refresh:
		result, err = m.refresh(ctx)
	case Append:
		return EndOfPagination(), nil
	case Prepend:
		result, err = m.prepend(ctx)
	default:
		return LoadResult{}, fmt.Errorf("unknown load type %d", loadType)
	}

	if err != nil {
		if isCancellation(ctx, err) {
			if !errors.Is(err, context.Canceled) {
				err = ctx.Err()
			}
			return LoadResult{}, err
		}
		log.Printf("[SYNC] %s %s failed: %v", m.cfg.Endpoint, loadType, err)
		return LoadResult{}, &LoadError{Endpoint: m.cfg.Endpoint, LoadType: loadType, Err: err}
	}
	return result, nil
}

func (m *Mediator[T]) refresh(ctx context.Context) (LoadResult, error) {
	env, err := m.fetch(ctx, 1, m.cfg.PageSize*m.cfg.InitialPageMultiplier, remote.NoCache)
	if err != nil {
		return LoadResult{}, err
	}

	key := refreshCursor(m.cfg.Endpoint, env, m.cfg.InitialPageMultiplier)
	err = m.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		keys := m.keys.WithTx(tx)
		if err := keys.Delete(m.cfg.Endpoint); err != nil {
			return fmt.Errorf("delete cursor: %w", err)
		}
		if err := m.source.DeleteLocal(tx); err != nil {
			return fmt.Errorf("delete rows: %w", err)
		}
		if err := m.source.InsertLocal(tx, env.Results); err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
		if err := keys.Save(&key); err != nil {
			return fmt.Errorf("save cursor: %w", err)
		}
		return nil
	})
	if err != nil {
		return LoadResult{}, err
	}

	log.Printf("[SYNC] %s refreshed: %d rows, next page %s", m.cfg.Endpoint, len(env.Results), pageString(key.NextPage))
	return LoadResult{EndOfPaginationReached: len(env.Results) == 0}, nil
}

func (m *Mediator[T]) prepend(ctx context.Context) (LoadResult, error) {
	current, err := m.keys.Get(m.cfg.Endpoint)
	if err != nil {
		return LoadResult{}, fmt.Errorf("read cursor: %w", err)
	}
	if !current.HasNext() {
		return EndOfPagination(), nil
	}

	env, err := m.fetch(ctx, *current.NextPage, m.cfg.PageSize, remote.OnlyIfCached)
	if err != nil {
		return LoadResult{}, err
	}

	key := envelopeCursor(m.cfg.Endpoint, env)
	err = m.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := m.keys.WithTx(tx).Save(&key); err != nil {
			return fmt.Errorf("save cursor: %w", err)
		}
		if err := m.source.InsertLocal(tx, env.Results); err != nil {
			return fmt.Errorf("insert rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return LoadResult{}, err
	}

	log.Printf("[SYNC] %s page %d: %d rows, next page %s", m.cfg.Endpoint, *current.NextPage, len(env.Results), pageString(key.NextPage))
	return LoadResult{EndOfPaginationReached: len(env.Results) == 0 || !key.HasNext()}, nil
}

func (m *Mediator[T]) fetch(ctx context.Context, page, pageSize int, cacheMode remote.CacheMode) (paging.Envelope[T], error) {
	var policy *retry.Policy
	if m.cfg.Retry != nil {
		policy = m.cfg.Retry()
	}

	var env paging.Envelope[T]
	err := retry.Do(ctx, policy, remote.Retryable, func(ctx context.Context) error {
		var err error
		env, err = m.source.Fetch(ctx, page, pageSize, cacheMode)
		return err
	})
	return env, err
}

// refreshCursor is the cursor persisted after a refresh. The next page skips
// ahead to multiplier because the enlarged initial load already covers the
// pages before it.
func refreshCursor[T any](endpoint string, env paging.Envelope[T], multiplier int) entities.RemoteKey {
	key := envelopeCursor(endpoint, env)
	if env.HasNext() {
		next := env.NextPageForLoad(true, multiplier)
		key.NextPage = &next
	}
	return key
}

// envelopeCursor derives the cursor from the envelope links. A single,
// unpaged response yields a cursor with neither direction.
func envelopeCursor[T any](endpoint string, env paging.Envelope[T]) entities.RemoteKey {
	if !env.HasNext() && !env.HasPrevious() {
		return entities.RemoteKey{Endpoint: endpoint, TotalItems: env.Count}
	}
	return env.ToCursor(endpoint)
}

func isCancellation(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled)
}

func pageString(page *int) string {
	if page == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *page)
}
