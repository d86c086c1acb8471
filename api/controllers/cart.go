package controllers

import (
	"net/http"

	"github.com/angelmondragon/jhumka-storefront/api/responses"
	"github.com/angelmondragon/jhumka-storefront/api/validators"
	"github.com/angelmondragon/jhumka-storefront/internal/cart"
	"github.com/angelmondragon/jhumka-storefront/internal/storefront"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
)

type addItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"omitempty,min=1,max=10"`
}

func CartFetch(sf *storefront.Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, sf.Cart().Snapshot())
	}
}

// CartAddItem adds a catalog product. Quantity defaults to one.
func CartAddItem(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := sf.AddToCart(r.Context(), req.ProductID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

func CartIncrement(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return cartItemAction(logg, func(r *http.Request, id int) cart.Snapshot {
		return sf.Cart().IncrementItem(r.Context(), id)
	})
}

func CartDecrement(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return cartItemAction(logg, func(r *http.Request, id int) cart.Snapshot {
		return sf.Cart().DecrementItem(r.Context(), id)
	})
}

func CartRemoveItem(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return cartItemAction(logg, func(r *http.Request, id int) cart.Snapshot {
		return sf.Cart().RemoveItem(r.Context(), id)
	})
}

func CartClear(sf *storefront.Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, sf.Cart().ClearCart(r.Context()))
	}
}

// cartItemAction runs a line mutation. Ids absent from the cart are a no-op.
func cartItemAction(logg *logger.Logger, apply func(r *http.Request, id int) cart.Snapshot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		responses.WriteSuccess(w, apply(r, id))
	}
}
