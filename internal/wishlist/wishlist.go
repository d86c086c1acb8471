package wishlist

import (
	"context"
	"sync"

	"github.com/angelmondragon/jhumka-storefront/internal/catalog"
	"github.com/angelmondragon/jhumka-storefront/internal/kvstore"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
	"github.com/angelmondragon/jhumka-storefront/pkg/metrics"
)

const collectionName = "wishlist"

// Persister is the slice of the store adapter the wishlist writes through to.
type Persister interface {
	Load(ctx context.Context, key string, dest any) bool
	Save(ctx context.Context, key string, value any) error
}

// Params groups wishlist dependencies.
type Params struct {
	Store      Persister
	Logger     *logger.Logger
	Metrics    *metrics.StorefrontMetrics
	BufferSize int
}

// Wishlist is an ordered set of product snapshots keyed by id. Each mutation
// writes the whole list through to the store and then notifies subscribers.
type Wishlist struct {
	mu      sync.Mutex
	items   []catalog.Product
	dirty   bool
	store   Persister
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
	events  *broadcaster
}

func New(params Params) (*Wishlist, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist store is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Wishlist{
		items:   []catalog.Product{},
		store:   params.Store,
		logg:    logg,
		metrics: params.Metrics,
		events:  newBroadcaster(params.BufferSize, params.Metrics),
	}, nil
}

// Load replaces the in-memory list with the stored one without notifying.
func (w *Wishlist) Load(ctx context.Context) []catalog.Product {
	items := w.read(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = items
	w.dirty = false
	return w.copyLocked()
}

// Reload re-reads the store after an outside writer changed it and notifies
// subscribers of the result.
func (w *Wishlist) Reload(ctx context.Context) Event {
	items := w.read(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = items
	w.dirty = false
	ev := newEvent(w.items)
	w.events.publish(ev)
	w.logg.Info(w.logg.WithField(ctx, "wishlist_count", ev.Count), "wishlist.reloaded")
	return ev
}

func (w *Wishlist) read(ctx context.Context) []catalog.Product {
	var stored []catalog.Product
	if !w.store.Load(ctx, kvstore.KeyWishlist, &stored) || stored == nil {
		return []catalog.Product{}
	}
	return dedupe(stored)
}

func dedupe(items []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Toggle removes the product when present and appends it otherwise. It
// reports whether the product is saved afterwards.
func (w *Wishlist) Toggle(ctx context.Context, product catalog.Product) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if idx := w.indexLocked(product.ID); idx >= 0 {
		w.removeAtLocked(idx)
		w.commitLocked(ctx, "toggle_off")
		return false
	}
	w.items = append(w.items, product)
	w.commitLocked(ctx, "toggle_on")
	return true
}

// Add appends the product unless it is already saved.
func (w *Wishlist) Add(ctx context.Context, product catalog.Product) Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.indexLocked(product.ID) < 0 {
		w.items = append(w.items, product)
	}
	return w.commitLocked(ctx, "add")
}

func (w *Wishlist) Remove(ctx context.Context, id int) Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	if idx := w.indexLocked(id); idx >= 0 {
		w.removeAtLocked(idx)
	}
	return w.commitLocked(ctx, "remove")
}

func (w *Wishlist) Clear(ctx context.Context) Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = []catalog.Product{}
	return w.commitLocked(ctx, "clear")
}

func (w *Wishlist) Contains(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.indexLocked(id) >= 0
}

func (w *Wishlist) Items() []catalog.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.copyLocked()
}

func (w *Wishlist) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Subscribe returns a channel that first receives the current list and then
// every later change. Delivery is best-effort; a slow reader sees the newest
// state rather than every intermediate one. cancel closes the channel.
func (w *Wishlist) Subscribe() (<-chan Event, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.events.subscribe(newEvent(w.items))
}

// Subscribers reports how many channels are currently attached.
func (w *Wishlist) Subscribers() int {
	return w.events.count()
}

// FlushPending rewrites the list only when its last write failed.
func (w *Wishlist) FlushPending(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirty {
		return nil
	}
	if err := w.store.Save(ctx, kvstore.KeyWishlist, w.copyLocked()); err != nil {
		return err
	}
	w.dirty = false
	return nil
}

// Close detaches and closes every subscriber channel.
func (w *Wishlist) Close() {
	w.events.closeAll()
}

func (w *Wishlist) commitLocked(ctx context.Context, op string) Event {
	w.metrics.IncMutation(collectionName, op)
	w.dirty = w.store.Save(ctx, kvstore.KeyWishlist, w.copyLocked()) != nil
	ev := newEvent(w.items)
	w.events.publish(ev)
	return ev
}

func (w *Wishlist) indexLocked(id int) int {
	for i, item := range w.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (w *Wishlist) removeAtLocked(idx int) {
	w.items = append(w.items[:idx], w.items[idx+1:]...)
}

func (w *Wishlist) copyLocked() []catalog.Product {
	out := make([]catalog.Product, len(w.items))
	copy(out, w.items)
	return out
}
