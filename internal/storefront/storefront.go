package storefront

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelmondragon/jhumka-storefront/internal/cart"
	"github.com/angelmondragon/jhumka-storefront/internal/catalog"
	"github.com/angelmondragon/jhumka-storefront/internal/checkout"
	"github.com/angelmondragon/jhumka-storefront/internal/contact"
	"github.com/angelmondragon/jhumka-storefront/internal/kvstore"
	"github.com/angelmondragon/jhumka-storefront/internal/wishlist"
	"github.com/angelmondragon/jhumka-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
	"github.com/angelmondragon/jhumka-storefront/pkg/metrics"
	"go.uber.org/multierr"
)

// Watcher is implemented by stores that can report writes made by other processes.
type Watcher interface {
	Watch(ctx context.Context, logg *logger.Logger, onChange func(key string)) error
}

// Params groups storefront dependencies.
type Params struct {
	Catalog     *catalog.Catalog
	Store       kvstore.Store
	Logger      *logger.Logger
	Metrics     *metrics.StorefrontMetrics
	Checkout    config.CheckoutConfig
	EventBuffer int
}

// Storefront owns the catalog and the cart and wishlist state machines for
// one shopper. Open loads persisted state; Close flushes it.
type Storefront struct {
	catalog  *catalog.Catalog
	store    kvstore.Store
	adapter  *kvstore.Adapter
	cart     *cart.Cart
	wishlist *wishlist.Wishlist
	checkout *checkout.Service
	contact  *contact.Service
	logg     *logger.Logger

	mu     sync.Mutex
	opened bool
	closed bool
}

func New(params Params) (*Storefront, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog is required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	adapter, err := kvstore.NewAdapter(params.Store, logg, params.Metrics)
	if err != nil {
		return nil, err
	}
	c, err := cart.New(adapter, logg, params.Metrics)
	if err != nil {
		return nil, err
	}
	w, err := wishlist.New(wishlist.Params{
		Store:      adapter,
		Logger:     logg,
		Metrics:    params.Metrics,
		BufferSize: params.EventBuffer,
	})
	if err != nil {
		return nil, err
	}
	co, err := checkout.NewService(params.Checkout, logg, params.Metrics)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "checkout configuration is invalid")
	}

	return &Storefront{
		catalog:  params.Catalog,
		store:    params.Store,
		adapter:  adapter,
		cart:     c,
		wishlist: w,
		checkout: co,
		contact:  contact.NewService(logg, params.Metrics),
		logg:     logg,
	}, nil
}

// Open loads the cart and wishlist from the store. Missing or malformed data
// starts the collection empty.
func (s *Storefront) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "storefront is closed")
	}
	snap := s.cart.Load(ctx)
	items := s.wishlist.Load(ctx)
	s.opened = true
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"cart_items":     snap.ItemCount,
		"wishlist_items": len(items),
	}), "storefront.opened")
	return nil
}

// Close retries any write-through that failed and detaches wishlist
// subscribers. Collections already in the store are not rewritten, so an idle
// session never overwrites another process's changes. It is safe to call more
// than once.
func (s *Storefront) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.wishlist.Close()
	if !s.opened {
		return nil
	}

	var err error
	err = multierr.Append(err, s.cart.FlushPending(ctx))
	err = multierr.Append(err, s.wishlist.FlushPending(ctx))
	if err != nil {
		s.logg.Error(ctx, "storefront.flush_failed", err)
		return fmt.Errorf("flush storefront: %w", err)
	}
	s.logg.Info(ctx, "storefront.closed")
	return nil
}

func (s *Storefront) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Storefront) Cart() *cart.Cart {
	return s.cart
}

func (s *Storefront) Wishlist() *wishlist.Wishlist {
	return s.wishlist
}

// Ping checks the persistent store.
func (s *Storefront) Ping(ctx context.Context) error {
	return s.adapter.Ping(ctx)
}

// Watch forwards external store changes until ctx ends. Stores without change
// notifications return immediately.
func (s *Storefront) Watch(ctx context.Context) error {
	watcher, ok := s.store.(Watcher)
	if !ok {
		return nil
	}
	return watcher.Watch(ctx, s.logg, func(key string) {
		s.HandleExternalChange(ctx, key)
	})
}

// HandleExternalChange reacts to another process rewriting a key. Only the
// wishlist follows outside writes; the in-memory cart stays authoritative.
func (s *Storefront) HandleExternalChange(ctx context.Context, key string) {
	switch key {
	case kvstore.KeyWishlist:
		s.wishlist.Reload(ctx)
	default:
		s.logg.Debug(s.logg.WithStorageKey(ctx, key), "storefront.external_change_ignored")
	}
}
