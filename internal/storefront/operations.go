package storefront

import (
	"context"

	"github.com/angelmondragon/jhumka-storefront/internal/cart"
	"github.com/angelmondragon/jhumka-storefront/internal/catalog"
	"github.com/angelmondragon/jhumka-storefront/internal/checkout"
	"github.com/angelmondragon/jhumka-storefront/internal/contact"
	"github.com/angelmondragon/jhumka-storefront/internal/wishlist"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
)

// ProductDetail is a product with its related products.
type ProductDetail struct {
	Product    catalog.Product   `json:"product"`
	Related    []catalog.Product `json:"related"`
	InWishlist bool              `json:"in_wishlist"`
	InCart     int               `json:"in_cart"`
}

// Product looks up a catalog entry.
func (s *Storefront) Product(id int) (catalog.Product, error) {
	p, ok := s.catalog.FindByID(id)
	if !ok {
		return catalog.Product{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d not found", id).
			WithDetails(map[string]any{"product_id": id})
	}
	return p, nil
}

func (s *Storefront) ProductDetail(id int) (ProductDetail, error) {
	p, err := s.Product(id)
	if err != nil {
		return ProductDetail{}, err
	}
	detail := ProductDetail{
		Product:    p,
		Related:    s.catalog.Related(id, catalog.DefaultRelatedLimit),
		InWishlist: s.wishlist.Contains(id),
	}
	if item, ok := s.cart.Item(id); ok {
		detail.InCart = item.Quantity
	}
	return detail, nil
}

// AddToCart adds quantity units of a catalog product. A zero quantity means one.
func (s *Storefront) AddToCart(ctx context.Context, productID, quantity int) (cart.Snapshot, error) {
	p, err := s.Product(productID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	if quantity == 0 {
		return s.cart.AddToCart(s.logg.WithProductID(ctx, productID), p), nil
	}
	return s.cart.AddToCartQuantity(s.logg.WithProductID(ctx, productID), p, quantity)
}

// ToggleWishlist flips a catalog product's membership and reports whether it is saved.
func (s *Storefront) ToggleWishlist(ctx context.Context, productID int) (bool, error) {
	p, err := s.Product(productID)
	if err != nil {
		return false, err
	}
	return s.wishlist.Toggle(s.logg.WithProductID(ctx, productID), p), nil
}

// MoveToCart adds the saved snapshot to the cart and then removes it from the
// wishlist. The two writes are not atomic; a failure between them leaves the
// product in both collections.
func (s *Storefront) MoveToCart(ctx context.Context, productID int) (cart.Snapshot, wishlist.Event, error) {
	var saved *catalog.Product
	for _, item := range s.wishlist.Items() {
		if item.ID == productID {
			item := item
			saved = &item
			break
		}
	}
	if saved == nil {
		return cart.Snapshot{}, wishlist.Event{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %d is not in the wishlist", productID).
			WithDetails(map[string]any{"product_id": productID})
	}
	ctx = s.logg.WithProductID(ctx, productID)
	snap := s.cart.AddToCart(ctx, *saved)
	ev := s.wishlist.Remove(ctx, productID)
	return snap, ev, nil
}

func (s *Storefront) CheckoutSummary() checkout.Summary {
	return s.checkout.Summarize(s.cart.Snapshot())
}

// Checkout places the order for the current cart and empties it in one step.
func (s *Storefront) Checkout(ctx context.Context, form checkout.Form) (checkout.Receipt, error) {
	var receipt checkout.Receipt
	err := s.cart.Settle(ctx, func(snap cart.Snapshot) error {
		placed, err := s.checkout.PlaceOrder(ctx, form, snap)
		if err != nil {
			return err
		}
		receipt = placed
		return nil
	})
	if err != nil {
		return checkout.Receipt{}, err
	}
	return receipt, nil
}

func (s *Storefront) Contact(ctx context.Context, msg contact.Message) (contact.Acknowledgement, error) {
	return s.contact.Submit(ctx, msg)
}
