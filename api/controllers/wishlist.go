package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/angelmondragon/jhumka-storefront/api/responses"
	"github.com/angelmondragon/jhumka-storefront/api/validators"
	"github.com/angelmondragon/jhumka-storefront/internal/cart"
	"github.com/angelmondragon/jhumka-storefront/internal/storefront"
	"github.com/angelmondragon/jhumka-storefront/internal/wishlist"
	pkgerrors "github.com/angelmondragon/jhumka-storefront/pkg/errors"
	"github.com/angelmondragon/jhumka-storefront/pkg/logger"
)

// WishlistEventName is the SSE event type for wishlist snapshots.
const WishlistEventName = "wishlist"

var keepAliveInterval = 25 * time.Second

type productRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

type toggleResponse struct {
	Saved    bool           `json:"saved"`
	Wishlist wishlist.Event `json:"wishlist"`
}

type moveResponse struct {
	Cart     cart.Snapshot  `json:"cart"`
	Wishlist wishlist.Event `json:"wishlist"`
}

func currentWishlist(sf *storefront.Storefront) wishlist.Event {
	items := sf.Wishlist().Items()
	return wishlist.Event{Items: items, Count: len(items)}
}

func WishlistFetch(sf *storefront.Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, currentWishlist(sf))
	}
}

func WishlistToggle(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		saved, err := sf.ToggleWishlist(r.Context(), req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toggleResponse{Saved: saved, Wishlist: currentWishlist(sf)})
	}
}

func WishlistRemove(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		responses.WriteSuccess(w, sf.Wishlist().Remove(r.Context(), id))
	}
}

func WishlistClear(sf *storefront.Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, sf.Wishlist().Clear(r.Context()))
	}
}

// WishlistMoveToCart moves the saved product named in the path into the cart.
func WishlistMoveToCart(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}
		snap, ev, err := sf.MoveToCart(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, moveResponse{Cart: snap, Wishlist: ev})
	}
}

// WishlistEvents streams wishlist snapshots as server-sent events. The first
// event carries the current state.
func WishlistEvents(sf *storefront.Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		if logg == nil {
			logg = logger.Nop()
		}
		events, cancel := sf.Wishlist().Subscribe()
		defer cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ctx := r.Context()
		logg.Debug(ctx, "wishlist.stream_opened")
		defer logg.Debug(ctx, "wishlist.stream_closed")

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				flusher.Flush()
			case ev, ok := <-events:
				if !ok {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					logg.Error(ctx, "wishlist.stream_encode_failed", err)
					continue
				}
				if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", WishlistEventName, payload); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
