package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/jhumka-storefront/internal/cart"
	"github.com/angelmondragon/jhumka-storefront/internal/catalog"
	"github.com/angelmondragon/jhumka-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
	"github.com/angelmondragon/jhumka-storefront/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const formName = "checkout"

// Summary is the order breakdown shown next to the checkout form.
type Summary struct {
	Items          []cart.Item   `json:"items"`
	ItemCount      int           `json:"item_count"`
	Subtotal       catalog.Price `json:"subtotal"`
	Shipping       catalog.Price `json:"shipping"`
	Total          catalog.Price `json:"total"`
	CurrencySymbol string        `json:"currency_symbol"`
}

// Receipt acknowledges a placed order. Orders are logged, not stored.
type Receipt struct {
	Reference uuid.UUID `json:"reference"`
	PlacedAt  time.Time `json:"placed_at"`
	Customer  Form      `json:"customer"`
	Summary   Summary   `json:"summary"`
}

// Service prices and places orders from a cart snapshot.
type Service struct {
	shipping decimal.Decimal
	currency string
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
	now      func() time.Time
	newID    func() uuid.UUID
}

func NewService(cfg config.CheckoutConfig, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Service, error) {
	raw := strings.TrimSpace(cfg.ShippingFee)
	if raw == "" {
		raw = "0"
	}
	fee, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid shipping fee %q: %w", cfg.ShippingFee, err)
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("shipping fee must not be negative")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		shipping: fee,
		currency: cfg.CurrencySymbol,
		logg:     logg,
		metrics:  m,
		now:      time.Now,
		newID:    uuid.New,
	}, nil
}

// Summarize adds the flat shipping fee to the cart total.
func (s *Service) Summarize(snap cart.Snapshot) Summary {
	items := snap.Items
	if items == nil {
		items = []cart.Item{}
	}
	subtotal := snap.Total.Decimal
	return Summary{
		Items:          items,
		ItemCount:      snap.ItemCount,
		Subtotal:       catalog.Price{Decimal: subtotal},
		Shipping:       catalog.Price{Decimal: s.shipping},
		Total:          catalog.Price{Decimal: subtotal.Add(s.shipping)},
		CurrencySymbol: s.currency,
	}
}

// PlaceOrder validates the form against a non-empty cart and logs the order.
// Clearing the cart is left to the caller.
func (s *Service) PlaceOrder(ctx context.Context, form Form, snap cart.Snapshot) (Receipt, error) {
	if len(snap.Items) == 0 {
		err := pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		s.metrics.ObserveSubmission(formName, err)
		return Receipt{}, err
	}
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		s.metrics.ObserveSubmission(formName, err)
		return Receipt{}, err
	}

	receipt := Receipt{
		Reference: s.newID(),
		PlacedAt:  s.now().UTC(),
		Customer:  form,
		Summary:   s.Summarize(snap),
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_reference": receipt.Reference.String(),
		"item_count":      receipt.Summary.ItemCount,
		"order_total":     receipt.Summary.Total.String(),
		"customer":        form,
		"items":           receipt.Summary.Items,
	})
	s.logg.Info(logCtx, "checkout.order_submitted")
	s.metrics.ObserveSubmission(formName, nil)
	return receipt, nil
}
