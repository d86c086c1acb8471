package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/jhumka-storefront/internal/catalog"
	"github.com/angelmondragon/jhumka-storefront/internal/kvstore"
	"github.com/angelmondragon/jhumka-storefront/internal/storefront"
	"github.com/angelmondragon/jhumka-storefront/pkg/config"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
	"github.com/angelmondragon/jhumka-storefront/pkg/metrics"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type cartBody struct {
	Items []struct {
		ID       int `json:"id"`
		Quantity int `json:"quantity"`
	} `json:"items"`
	ItemCount int         `json:"item_count"`
	Total     json.Number `json:"total"`
}

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Env: config.AppEnvDev, CORSOrigins: []string{"http://localhost:5173"}},
		Storage:  config.StorageConfig{Backend: config.StorageBackendMemory},
		Checkout: config.CheckoutConfig{ShippingFee: "99", CurrencySymbol: "₹"},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *storefront.Storefront) {
	t.Helper()
	reg := prometheus.NewRegistry()
	cfg := testConfig()
	sf, err := storefront.New(storefront.Params{
		Catalog:  catalog.Default(),
		Store:    kvstore.NewMemoryStore(),
		Logger:   logger.Nop(),
		Metrics:  metrics.NewStorefrontMetrics(reg),
		Checkout: cfg.Checkout,
	})
	if err != nil {
		t.Fatalf("storefront: %v", err)
	}
	if err := sf.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = sf.Close(context.Background()) })
	return NewRouter(cfg, logger.Nop(), sf, reg), sf
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	var env envelope
	if strings.HasPrefix(resp.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, resp.Body.String())
		}
	}
	return resp, env
}

func decodeData(t *testing.T, env envelope, dest any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestHealthRoutes(t *testing.T) {
	h, _ := newTestRouter(t)

	resp, _ := do(t, h, http.MethodGet, "/health/live", "")
	if resp.Code != http.StatusOK || resp.Header().Get("X-Jhumka-Env") != config.AppEnvDev {
		t.Fatalf("live: %d %v", resp.Code, resp.Header())
	}
	resp, env := do(t, h, http.MethodGet, "/health/ready", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("ready: %d %s", resp.Code, resp.Body.String())
	}
	var body map[string]string
	decodeData(t, env, &body)
	if body["storage_backend"] != config.StorageBackendMemory {
		t.Fatalf("unexpected ready body %v", body)
	}
}

func TestProductsListFilters(t *testing.T) {
	h, _ := newTestRouter(t)

	resp, env := do(t, h, http.MethodGet, "/api/v1/products?category=gold", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list: %d %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Products []catalog.Product `json:"products"`
		Count    int               `json:"count"`
	}
	decodeData(t, env, &body)
	if body.Count != 1 || body.Products[0].ID != 1 {
		t.Fatalf("expected only gold jhumka, got %+v", body)
	}

	resp, env = do(t, h, http.MethodGet, "/api/v1/products?sort=price-asc&max_price=7000", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("list sorted: %d", resp.Code)
	}
	decodeData(t, env, &body)
	if body.Count != 2 || body.Products[0].ID != 6 || body.Products[1].ID != 10 {
		t.Fatalf("unexpected sorted products %+v", body.Products)
	}
}

func TestProductsListRejectsBadFilters(t *testing.T) {
	h, _ := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/products?min_price=5000&max_price=100",
		"/api/v1/products?min_price=abc",
		"/api/v1/products?category=platinum",
		"/api/v1/products?sort=random",
	} {
		resp, env := do(t, h, http.MethodGet, path, "")
		if resp.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
			t.Fatalf("%s: expected validation error, got %d %s", path, resp.Code, resp.Body.String())
		}
	}
}

func TestProductDetailRedirectsUnknown(t *testing.T) {
	h, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/products/999", "/api/v1/products/abc"} {
		resp, _ := do(t, h, http.MethodGet, path, "")
		if resp.Code != http.StatusSeeOther || resp.Header().Get("Location") != "/api/v1/products" {
			t.Fatalf("%s: expected redirect, got %d %v", path, resp.Code, resp.Header())
		}
	}

	resp, env := do(t, h, http.MethodGet, "/api/v1/products/1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("detail: %d", resp.Code)
	}
	var detail struct {
		Product catalog.Product   `json:"product"`
		Related []catalog.Product `json:"related"`
	}
	decodeData(t, env, &detail)
	if detail.Product.Name != "Gold Jhumka" || len(detail.Related) == 0 {
		t.Fatalf("unexpected detail %+v", detail)
	}
}

func TestCollectionAndRegionRoutes(t *testing.T) {
	h, _ := newTestRouter(t)

	resp, _ := do(t, h, http.MethodGet, "/api/v1/collections/pearl", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("collection: %d", resp.Code)
	}
	resp, env := do(t, h, http.MethodGet, "/api/v1/collections/platinum", "")
	if resp.Code != http.StatusNotFound || env.Error == nil {
		t.Fatalf("expected not found, got %d", resp.Code)
	}
	resp, env = do(t, h, http.MethodGet, "/api/v1/regions/rajasthan", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("region: %d", resp.Code)
	}
	var region struct {
		Products []catalog.Product `json:"products"`
	}
	decodeData(t, env, &region)
	if len(region.Products) != 2 || region.Products[0].ID != 1 || region.Products[1].ID != 7 {
		t.Fatalf("unexpected region products %+v", region.Products)
	}
}

func TestCartRoutes(t *testing.T) {
	h, _ := newTestRouter(t)

	resp, env := do(t, h, http.MethodPost, "/api/v1/cart/items", `{"product_id":2,"quantity":3}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("add: %d %s", resp.Code, resp.Body.String())
	}
	var cart cartBody
	decodeData(t, env, &cart)
	if cart.ItemCount != 3 || cart.Total.String() != "25498.5" {
		t.Fatalf("unexpected cart %+v", cart)
	}

	_, env = do(t, h, http.MethodPost, "/api/v1/cart/items/2/decrement", "")
	decodeData(t, env, &cart)
	if cart.ItemCount != 2 {
		t.Fatalf("expected 2 after decrement, got %d", cart.ItemCount)
	}

	_, env = do(t, h, http.MethodPost, "/api/v1/cart/items/2/increment", "")
	decodeData(t, env, &cart)
	if cart.ItemCount != 3 {
		t.Fatalf("expected 3 after increment, got %d", cart.ItemCount)
	}

	_, env = do(t, h, http.MethodDelete, "/api/v1/cart/items/2", "")
	decodeData(t, env, &cart)
	if cart.ItemCount != 0 || len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestCartAddRejectsInvalidRequests(t *testing.T) {
	h, _ := newTestRouter(t)

	cases := map[string]struct {
		body string
		code int
	}{
		"quantity too high": {`{"product_id":1,"quantity":11}`, http.StatusBadRequest},
		"missing product":   {`{"quantity":1}`, http.StatusBadRequest},
		"unknown field":     {`{"product_id":1,"colour":"red"}`, http.StatusBadRequest},
		"unknown product":   {`{"product_id":404}`, http.StatusNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp, _ := do(t, h, http.MethodPost, "/api/v1/cart/items", tc.body)
			if resp.Code != tc.code {
				t.Fatalf("got %d want %d: %s", resp.Code, tc.code, resp.Body.String())
			}
		})
	}
}

func TestWishlistToggleAndMove(t *testing.T) {
	h, sf := newTestRouter(t)

	resp, env := do(t, h, http.MethodPost, "/api/v1/wishlist/toggle", `{"product_id":5}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("toggle: %d %s", resp.Code, resp.Body.String())
	}
	var toggled struct {
		Saved    bool `json:"saved"`
		Wishlist struct {
			Count int `json:"count"`
		} `json:"wishlist"`
	}
	decodeData(t, env, &toggled)
	if !toggled.Saved || toggled.Wishlist.Count != 1 {
		t.Fatalf("unexpected toggle %+v", toggled)
	}

	resp, _ = do(t, h, http.MethodPost, "/api/v1/wishlist/5/move-to-cart", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("move: %d %s", resp.Code, resp.Body.String())
	}
	if sf.Wishlist().Count() != 0 || sf.Cart().ItemCount() != 1 {
		t.Fatalf("expected product moved, wishlist=%d cart=%d", sf.Wishlist().Count(), sf.Cart().ItemCount())
	}

	resp, env = do(t, h, http.MethodPost, "/api/v1/wishlist/5/move-to-cart", "")
	if resp.Code != http.StatusNotFound || env.Error == nil {
		t.Fatalf("expected not found for unsaved product, got %d", resp.Code)
	}

	resp, _ = do(t, h, http.MethodPost, "/api/v1/wishlist/abc/move-to-cart", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request for non-numeric id, got %d", resp.Code)
	}
}

func TestCheckoutRoutes(t *testing.T) {
	h, sf := newTestRouter(t)
	form := `{"first_name":"Asha","last_name":"Rao","email":"asha@example.in","phone":"9876543210","address":"12 MG Road","city":"Bengaluru","state":"Karnataka","pincode":"560001"}`

	resp, env := do(t, h, http.MethodPost, "/api/v1/checkout", form)
	if resp.Code != http.StatusUnprocessableEntity || env.Error == nil {
		t.Fatalf("expected empty cart conflict, got %d %s", resp.Code, resp.Body.String())
	}

	do(t, h, http.MethodPost, "/api/v1/cart/items", `{"product_id":6}`)

	resp, env = do(t, h, http.MethodGet, "/api/v1/checkout/summary", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("summary: %d", resp.Code)
	}
	var summary struct {
		Total json.Number `json:"total"`
	}
	decodeData(t, env, &summary)
	if summary.Total.String() != "6098.99" {
		t.Fatalf("unexpected summary total %s", summary.Total)
	}

	bad := strings.Replace(form, "9876543210", "98765", 1)
	resp, env = do(t, h, http.MethodPost, "/api/v1/checkout", bad)
	if resp.Code != http.StatusBadRequest || env.Error == nil || env.Error.Details["phone"] == nil {
		t.Fatalf("expected phone error, got %d %s", resp.Code, resp.Body.String())
	}
	if sf.Cart().IsEmpty() {
		t.Fatalf("invalid submission must keep the cart")
	}

	resp, _ = do(t, h, http.MethodPost, "/api/v1/checkout", form)
	if resp.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", resp.Code, resp.Body.String())
	}
	if !sf.Cart().IsEmpty() {
		t.Fatalf("expected cart cleared after checkout")
	}
}

func TestContactRoute(t *testing.T) {
	h, _ := newTestRouter(t)

	resp, env := do(t, h, http.MethodPost, "/api/v1/contact", `{"name":"","email":"x","message":"hi"}`)
	if resp.Code != http.StatusBadRequest || env.Error.Details["email"] != "Email is invalid." {
		t.Fatalf("unexpected response %d %s", resp.Code, resp.Body.String())
	}
	resp, _ = do(t, h, http.MethodPost, "/api/v1/contact", `{"name":"Ravi","email":"ravi@example.in","message":"hello"}`)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("contact: %d %s", resp.Code, resp.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	h, _ := newTestRouter(t)
	do(t, h, http.MethodPost, "/api/v1/cart/items", `{"product_id":1}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "state_mutations_total") {
		t.Fatalf("unexpected metrics output %d %s", resp.Code, resp.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected allowed origin, got %q", got)
	}
}
