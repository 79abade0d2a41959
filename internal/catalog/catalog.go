// Package catalog wires the four synced entity sets (shops, products,
// shopping-list items and addresses) onto the generic sync engine, and
// exposes list pagers, product search and shopping-list mutations as task
// result streams.
package catalog

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/shoplist/internal/database"
	"github.com/mrlokans/shoplist/internal/database/records"
	"github.com/mrlokans/shoplist/internal/database/remotekeys"
	"github.com/mrlokans/shoplist/internal/entities"
	"github.com/mrlokans/shoplist/internal/mediator"
	"github.com/mrlokans/shoplist/internal/remote"
	"github.com/mrlokans/shoplist/internal/retry"
	"github.com/mrlokans/shoplist/internal/stream"
	"github.com/mrlokans/shoplist/internal/taskresult"
)

// Entity names and the endpoints they are synced from.
const (
	EntityShops        = "shops"
	EntityProducts     = "products"
	EntityShoppingList = "shopping-list"
	EntityAddresses    = "addresses"

	ShopsEndpoint        = "/api/shops/"
	ProductsEndpoint     = "/api/products/"
	ShoppingListEndpoint = "/api/shopping-list/"
	AddressesEndpoint    = "/api/addresses/"
)

// Config holds the sync settings shared by every entity.
type Config struct {
	PageSize              int
	InitialPageMultiplier int
	// Retry governs retries of idempotent reads. nil disables retries.
	Retry retry.Factory
	// OnLoad observes every finished page load of every entity.
	OnLoad func(mediator.LoadEvent)
}

// entry is the type-erased handle of one entity set.
type entry struct {
	loader mediator.Loader
	list   func(limit, offset int) (any, error)
	count  func() (int64, error)
	browse func(ctx context.Context, pages int) (any, error)
}

// Catalog owns the mediators of all entity sets.
type Catalog struct {
	cfg    Config
	db     *database.Database
	client *remote.Client
	keys   *remotekeys.Repository

	Shops        *mediator.Mediator[entities.Shop]
	Products     *mediator.Mediator[entities.Product]
	ShoppingList *mediator.Mediator[entities.ShoppingListItem]
	Addresses    *mediator.Mediator[entities.Address]

	shops        *records.Repository[entities.Shop]
	products     *records.Repository[entities.Product]
	shoppingList *records.Repository[entities.ShoppingListItem]
	addresses    *records.Repository[entities.Address]

	entries map[string]entry
}

// New creates the catalog. All mediators share one lock set so that loads
// of the same endpoint are serialized across callers.
func New(db *database.Database, client *remote.Client, cfg Config) *Catalog {
	c := &Catalog{
		cfg:          cfg,
		db:           db,
		client:       client,
		keys:         remotekeys.NewRepository(db.DB),
		shops:        records.NewRepository[entities.Shop](db.DB),
		products:     records.NewRepository[entities.Product](db.DB),
		shoppingList: records.NewRepository[entities.ShoppingListItem](db.DB),
		addresses:    records.NewRepository[entities.Address](db.DB),
		entries:      make(map[string]entry),
	}

	locks := &mediator.KeyedMutex{}
	c.Shops = register(c, locks, EntityShops, ShopsEndpoint, c.shops)
	c.Products = register(c, locks, EntityProducts, ProductsEndpoint, c.products)
	c.ShoppingList = register(c, locks, EntityShoppingList, ShoppingListEndpoint, c.shoppingList)
	c.Addresses = register(c, locks, EntityAddresses, AddressesEndpoint, c.addresses)
	return c
}

func register[T records.Model](c *Catalog, locks *mediator.KeyedMutex, name, endpoint string, repo *records.Repository[T]) *mediator.Mediator[T] {
	m := mediator.New[T](mediator.Config{
		Endpoint:              endpoint,
		PageSize:              c.cfg.PageSize,
		InitialPageMultiplier: c.cfg.InitialPageMultiplier,
		Retry:                 c.cfg.Retry,
		Locks:                 locks,
		OnLoad:                c.cfg.OnLoad,
	}, NewSource(c.client, endpoint, repo), c.db, c.keys)

	c.entries[name] = entry{
		loader: m,
		list: func(limit, offset int) (any, error) {
			return repo.List(limit, offset)
		},
		count: repo.Count,
		browse: func(ctx context.Context, pages int) (any, error) {
			pager := NewPager(ctx, m, repo)
			defer pager.Close()
			return pager.Collect(ctx, pages)
		},
	}
	return m
}

// Names returns the entity names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Loader returns the mediator of the named entity set.
func (c *Catalog) Loader(name string) (mediator.Loader, bool) {
	e, ok := c.entries[name]
	return e.loader, ok
}

// List returns locally stored rows of the named entity set, newest first.
func (c *Catalog) List(name string, limit, offset int) (any, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", name)
	}
	return e.list(limit, offset)
}

// Count returns the number of locally stored rows of the named entity set.
func (c *Catalog) Count(name string) (int64, error) {
	e, ok := c.entries[name]
	if !ok {
		return 0, fmt.Errorf("unknown entity %q", name)
	}
	return e.count()
}

// Browse refreshes the named entity set through a pager, follows up to pages
// further pages and returns the stored rows after the last load.
func (c *Catalog) Browse(ctx context.Context, name string, pages int) (any, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", name)
	}
	return e.browse(ctx, pages)
}

// Cursors returns every persisted pagination cursor.
func (c *Catalog) Cursors() ([]entities.RemoteKey, error) {
	return c.keys.List()
}

// LoadAll runs loadType on every entity set concurrently. All loads run to
// completion; the returned error joins the first failure with its endpoint.
func (c *Catalog) LoadAll(ctx context.Context, loadType mediator.LoadType) (map[string]mediator.LoadResult, error) {
	names := c.Names()
	results := make([]mediator.LoadResult, len(names))

	var g errgroup.Group
	for i, name := range names {
		loader := c.entries[name].loader
		g.Go(func() error {
			result, err := loader.Load(ctx, loadType)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	err := g.Wait()

	out := make(map[string]mediator.LoadResult, len(names))
	for i, name := range names {
		out[name] = results[i]
	}
	return out, err
}

// ShopsPager returns a pager over the locally synced shops.
func (c *Catalog) ShopsPager(ctx context.Context) *Pager[entities.Shop] {
	return NewPager(ctx, c.Shops, c.shops)
}

// ProductsPager returns a pager over the locally synced products.
func (c *Catalog) ProductsPager(ctx context.Context) *Pager[entities.Product] {
	return NewPager(ctx, c.Products, c.products)
}

// ShoppingListPager returns a pager over the locally synced shopping list.
func (c *Catalog) ShoppingListPager(ctx context.Context) *Pager[entities.ShoppingListItem] {
	return NewPager(ctx, c.ShoppingList, c.shoppingList)
}

// AddressesPager returns a pager over the locally synced addresses.
func (c *Catalog) AddressesPager(ctx context.Context) *Pager[entities.Address] {
	return NewPager(ctx, c.Addresses, c.addresses)
}

// SearchProducts returns a switch-latest product search: every submitted
// query cancels the previous one. Searches are reads and retry under the
// catalog retry policy.
func (c *Catalog) SearchProducts(ctx context.Context) *stream.Latest[string, []entities.Product] {
	search := func(ctx context.Context, query string) ([]entities.Product, error) {
		env, err := remote.ExecuteErr[productsPage](ctx, func(ctx context.Context) (*remote.Response, error) {
			return c.client.Search(ctx, ProductsEndpoint, query, c.cfg.PageSize)
		}, remote.WithAuthStatus(http.StatusUnauthorized))
		if err != nil {
			return nil, err
		}
		return env.Results, nil
	}

	var opts []stream.Option
	if c.cfg.Retry != nil {
		opts = append(opts, stream.WithRetry(c.cfg.Retry, remote.Retryable))
	}
	return stream.NewLatest(ctx, search, opts...)
}

// NewShoppingListItem is the payload of AddToShoppingList.
type NewShoppingListItem struct {
	ProductID uint   `json:"product"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

// AddToShoppingList creates an item remotely and stores it locally. It is a
// one-shot mutation and is never retried.
func (c *Catalog) AddToShoppingList(ctx context.Context, item NewShoppingListItem) <-chan taskresult.Result[entities.ShoppingListItem] {
	return stream.Run(ctx, func(ctx context.Context) (entities.ShoppingListItem, error) {
		created, err := remote.ExecuteErr[entities.ShoppingListItem](ctx, func(ctx context.Context) (*remote.Response, error) {
			return c.client.Send(ctx, http.MethodPost, ShoppingListEndpoint, item)
		}, remote.WithAuthStatus(http.StatusUnauthorized))
		if err != nil {
			return entities.ShoppingListItem{}, err
		}
		if created.ID != 0 {
			if err := c.shoppingList.InsertOrReplace([]entities.ShoppingListItem{created}); err != nil {
				return entities.ShoppingListItem{}, fmt.Errorf("store shopping list item: %w", err)
			}
		}
		log.Printf("[SYNC] added product %d to shopping list", item.ProductID)
		return created, nil
	})
}

// RemoveFromShoppingList deletes an item remotely and locally.
func (c *Catalog) RemoveFromShoppingList(ctx context.Context, id uint) <-chan taskresult.Result[remote.Empty] {
	return stream.Run(ctx, func(ctx context.Context) (remote.Empty, error) {
		_, err := remote.ExecuteErr[remote.Empty](ctx, func(ctx context.Context) (*remote.Response, error) {
			return c.client.Send(ctx, http.MethodDelete, ShoppingListEndpoint+strconv.FormatUint(uint64(id), 10)+"/", nil)
		}, remote.WithAuthStatus(http.StatusUnauthorized))
		if err != nil {
			return remote.Empty{}, err
		}
		if err := c.shoppingList.Delete(id); err != nil {
			return remote.Empty{}, fmt.Errorf("delete shopping list item: %w", err)
		}
		return remote.Empty{}, nil
	})
}

type productsPage struct {
	Results []entities.Product `json:"results"`
}
