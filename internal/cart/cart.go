package cart

import (
	"context"
	"sync"

	"github.com/angelmondragon/jhumka-storefront/internal/catalog"
	"github.com/angelmondragon/jhumka-storefront/internal/kvstore"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
	"github.com/angelmondragon/jhumka-storefront/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	MinPickerQuantity = 1
	MaxPickerQuantity = 10

	collectionName = "cart"
)

// Persister is the slice of the store adapter the cart writes through to.
// Save logs its own failures; the returned error only tells the cart that the
// stored copy is behind.
type Persister interface {
	Load(ctx context.Context, key string, dest any) bool
	Save(ctx context.Context, key string, value any) error
}

// Item is a product snapshot plus its quantity.
type Item struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// Subtotal is price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Document is the persisted shape under the "cart" key.
type Document struct {
	Items []Item `json:"items"`
}

// Snapshot is a point-in-time copy of the cart with its derived values.
type Snapshot struct {
	Items     []Item        `json:"items"`
	ItemCount int           `json:"item_count"`
	Total     catalog.Price `json:"total"`
}

// Cart holds line items in insertion order, at most one per product id.
// Every operation, including no-ops, is followed by a full write of the cart.
type Cart struct {
	mu      sync.Mutex
	items   []Item
	dirty   bool
	store   Persister
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

func New(store Persister, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Cart, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Cart{store: store, logg: logg, metrics: m, items: []Item{}}, nil
}

// Load replaces the in-memory cart with the stored one. Absent or malformed
// data yields an empty cart. Duplicate lines are merged and lines with a
// quantity below one are dropped.
func (c *Cart) Load(ctx context.Context) Snapshot {
	var doc Document
	loaded := c.store.Load(ctx, kvstore.KeyCart, &doc)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = false
	if !loaded {
		c.items = []Item{}
		return c.snapshotLocked()
	}
	c.items = normalize(doc.Items)
	c.logg.Debug(c.logg.WithField(ctx, "cart_lines", len(c.items)), "cart.loaded")
	return c.snapshotLocked()
}

func normalize(items []Item) []Item {
	out := make([]Item, 0, len(items))
	index := make(map[int]int, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if idx, ok := index[item.ID]; ok {
			out[idx].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}

// AddToCart increments the product's line or appends a new one with quantity 1.
func (c *Cart) AddToCart(ctx context.Context, product catalog.Product) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addLocked(product)
	return c.commitLocked(ctx, "add")
}

// AddToCartQuantity adds the product n times, n in [1, 10].
func (c *Cart) AddToCartQuantity(ctx context.Context, product catalog.Product, n int) (Snapshot, error) {
	if n < MinPickerQuantity || n > MaxPickerQuantity {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be between 1 and 10").
			WithDetails(map[string]any{"quantity": n})
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < n; i++ {
		c.addLocked(product)
	}
	return c.commitLocked(ctx, "add"), nil
}

func (c *Cart) addLocked(product catalog.Product) {
	if idx := c.indexLocked(product.ID); idx >= 0 {
		c.items[idx].Quantity++
		return
	}
	c.items = append(c.items, Item{Product: product, Quantity: 1})
}

// IncrementItem adds one to an existing line.
func (c *Cart) IncrementItem(ctx context.Context, id int) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexLocked(id); idx >= 0 {
		c.items[idx].Quantity++
	}
	return c.commitLocked(ctx, "increment")
}

// DecrementItem removes one from a line but never drops it below 1.
func (c *Cart) DecrementItem(ctx context.Context, id int) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexLocked(id); idx >= 0 && c.items[idx].Quantity > 1 {
		c.items[idx].Quantity--
	}
	return c.commitLocked(ctx, "decrement")
}

// RemoveItem deletes a line regardless of its quantity.
func (c *Cart) RemoveItem(ctx context.Context, id int) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexLocked(id); idx >= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	}
	return c.commitLocked(ctx, "remove")
}

func (c *Cart) ClearCart(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = []Item{}
	return c.commitLocked(ctx, "clear")
}

// Settle hands the current cart to place and empties it when place succeeds.
// The cart stays locked throughout, so an add racing with checkout lands
// either in the order or in the emptied cart, never in neither.
func (c *Cart) Settle(ctx context.Context, place func(Snapshot) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := place(c.snapshotLocked()); err != nil {
		return err
	}
	c.items = []Item{}
	c.commitLocked(ctx, "clear")
	return nil
}

// Pending reports whether the last write of the cart failed.
func (c *Cart) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// FlushPending retries the write when the stored cart is behind memory. A cart
// whose last write succeeded is left alone so another writer's newer copy
// survives.
func (c *Cart) FlushPending(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	if err := c.store.Save(ctx, kvstore.KeyCart, Document{Items: c.copyLocked()}); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLocked()
}

func (c *Cart) Item(id int) (Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexLocked(id); idx >= 0 {
		return c.items[idx], true
	}
	return Item{}, false
}

// Total is the exact sum of price times quantity.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalOf(c.items)
}

func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return countOf(c.items)
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

func (c *Cart) commitLocked(ctx context.Context, op string) Snapshot {
	c.metrics.IncMutation(collectionName, op)
	c.dirty = c.store.Save(ctx, kvstore.KeyCart, Document{Items: c.copyLocked()}) != nil
	return c.snapshotLocked()
}

func (c *Cart) indexLocked(id int) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) copyLocked() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) snapshotLocked() Snapshot {
	return Snapshot{
		Items:     c.copyLocked(),
		ItemCount: countOf(c.items),
		Total:     catalog.Price{Decimal: totalOf(c.items)},
	}
}

func totalOf(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func countOf(items []Item) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}
