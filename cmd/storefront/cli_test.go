package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/angelmondragon/jhumka-storefront/internal/catalog"
	"github.com/angelmondragon/jhumka-storefront/internal/kvstore"
	"github.com/angelmondragon/jhumka-storefront/internal/storefront"
	"github.com/angelmondragon/jhumka-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
)

func memoryOpener(store kvstore.Store) opener {
	return func(ctx context.Context) (*session, error) {
		cfg := &config.Config{Checkout: config.CheckoutConfig{ShippingFee: "99", CurrencySymbol: "₹"}}
		sf, err := storefront.New(storefront.Params{
			Catalog:  catalog.Default(),
			Store:    store,
			Checkout: cfg.Checkout,
		})
		if err != nil {
			return nil, err
		}
		if err := sf.Open(ctx); err != nil {
			return nil, err
		}
		return &session{sf: sf, cfg: cfg, close: sf.Close}, nil
	}
}

func execute(t *testing.T, store kvstore.Store, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(&app{open: memoryOpener(store)})
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestProductsCommandFilters(t *testing.T) {
	store := kvstore.NewMemoryStore()

	out, err := execute(t, store, "products", "--category", "gold")
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if !strings.Contains(out, "Gold Jhumka") || strings.Contains(out, "Pearl Earrings") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = execute(t, store, "products", "--sort", "price-asc", "--json")
	if err != nil {
		t.Fatalf("products json: %v", err)
	}
	var products []catalog.Product
	if err := json.Unmarshal([]byte(out), &products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(products) != 10 || products[0].ID != 6 || products[9].ID != 3 {
		t.Fatalf("unexpected order %+v", products)
	}

	if _, err := execute(t, store, "products", "--min-price", "9000", "--max-price", "100"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCartCommandsPersistAcrossRuns(t *testing.T) {
	store := kvstore.NewMemoryStore()

	if _, err := execute(t, store, "cart", "add", "2", "-q", "2"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := execute(t, store, "cart", "inc", "2"); err != nil {
		t.Fatalf("inc: %v", err)
	}
	out, err := execute(t, store, "cart", "--json")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var snap struct {
		ItemCount int `json:"item_count"`
	}
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.ItemCount != 3 {
		t.Fatalf("expected 3 units, got %d", snap.ItemCount)
	}

	out, err = execute(t, store, "cart", "clear")
	if err != nil || !strings.Contains(out, "Your cart is empty.") {
		t.Fatalf("clear: %v %s", err, out)
	}
}

func TestCartAddRejectsBadInput(t *testing.T) {
	store := kvstore.NewMemoryStore()

	if _, err := execute(t, store, "cart", "add", "404"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := execute(t, store, "cart", "add", "abc"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := execute(t, store, "cart", "add", "1", "-q", "11"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWishlistMoveToCart(t *testing.T) {
	store := kvstore.NewMemoryStore()

	out, err := execute(t, store, "wishlist", "toggle", "3")
	if err != nil || !strings.Contains(out, "Saved product 3") {
		t.Fatalf("toggle: %v %s", err, out)
	}
	out, err = execute(t, store, "wishlist", "move", "3")
	if err != nil || !strings.Contains(out, "Diamond Studs") {
		t.Fatalf("move: %v %s", err, out)
	}
	out, err = execute(t, store, "wishlist")
	if err != nil || !strings.Contains(out, "Your wishlist is empty.") {
		t.Fatalf("show: %v %s", err, out)
	}
}

func TestCheckoutPlace(t *testing.T) {
	store := kvstore.NewMemoryStore()
	if _, err := execute(t, store, "cart", "add", "6"); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, err := execute(t, store, "checkout", "place", "--first-name", "Asha")
	if err == nil || !strings.Contains(err.Error(), "phone: This field is required") {
		t.Fatalf("expected field errors, got %v", err)
	}

	out, err := execute(t, store, "checkout", "place",
		"--first-name", "Asha", "--last-name", "Rao", "--email", "asha@example.in",
		"--phone", "9876543210", "--address", "12 MG Road", "--city", "Bengaluru",
		"--state", "Karnataka", "--pincode", "560001")
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if !strings.Contains(out, "Order placed.") || !strings.Contains(out, "₹6,098.99") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = execute(t, store, "cart")
	if err != nil || !strings.Contains(out, "Your cart is empty.") {
		t.Fatalf("expected empty cart after checkout: %v %s", err, out)
	}
}

func TestMoneyFormatting(t *testing.T) {
	if got := money("", catalog.MustPrice("12999.99")); got != "₹12,999.99" {
		t.Fatalf("got %q", got)
	}
	if got := money("Rs.", catalog.PriceFromInt(99)); got != "Rs.99.00" {
		t.Fatalf("got %q", got)
	}
}
