package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
	"github.com/angelmondragon/jhumka-storefront/pkg/metrics"
)

const (
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
)

// ErrNotFound is returned by a Store when the key has never been written.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the raw persistence port. Values are opaque JSON documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
}

// Adapter serializes collections into a Store. Read failures fall back to the
// caller's default and write failures are logged; neither reaches the caller.
type Adapter struct {
	store   Store
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

func NewAdapter(store Store, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Adapter, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Adapter{store: store, logg: logg, metrics: m}, nil
}

// Load decodes key into dest. It reports false, leaving dest untouched, when
// the key is absent, unreadable or malformed.
func (a *Adapter) Load(ctx context.Context, key string, dest any) bool {
	raw, err := a.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		a.metrics.ObserveStorage("get", key, nil)
		return false
	}
	a.metrics.ObserveStorage("get", key, err)
	logCtx := a.logg.WithStorageKey(ctx, key)
	if err != nil {
		a.logg.Error(logCtx, "storage.read_failed", err)
		return false
	}
	if len(raw) == 0 {
		return false
	}
	if err := decodeInto(raw, dest); err != nil {
		a.logg.Warn(a.logg.WithField(logCtx, "error", err.Error()), "storage.malformed_value")
		return false
	}
	return true
}

// Save writes value under key. Failures are logged here and returned only so
// callers can remember that the stored copy is stale.
func (a *Adapter) Save(ctx context.Context, key string, value any) error {
	err := a.Flush(ctx, key, value)
	if err != nil {
		a.logg.Error(a.logg.WithStorageKey(ctx, key), "storage.write_failed", err)
	}
	return err
}

// Flush writes value under key and returns the failure to the caller.
func (a *Adapter) Flush(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		a.metrics.ObserveStorage("set", key, err)
		return fmt.Errorf("encode %s: %w", key, err)
	}
	err = a.store.Set(ctx, key, raw)
	a.metrics.ObserveStorage("set", key, err)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Ping checks the underlying backend.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.store.Ping(ctx)
}

// decodeInto unmarshals into a fresh value first so a partially decoded
// document never leaks into dest.
func decodeInto(raw []byte, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("destination must be a non-nil pointer, got %T", dest)
	}
	scratch := reflect.New(rv.Type().Elem())
	if err := json.Unmarshal(raw, scratch.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(scratch.Elem())
	return nil
}
